package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/phasefund/phasefund/attest"
	"github.com/phasefund/phasefund/config"
	"github.com/phasefund/phasefund/types"
)

func TestSubmitClaim(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)

	_, id, err := st.SubmitClaim(c.proposer.Index, []byte("proof"), common.Hash{}, false)
	require.NoError(t, err)

	rec, err := st.ResolveClaim(id)
	require.NoError(t, err)
	require.Equal(t, attest.ProjectStateSchema, rec.SchemaID)
	require.NoError(t, rec.Usable())

	// the nonce folds into the id, so identical payloads get distinct claims
	_, id2, err := st.SubmitClaim(c.proposer.Index, []byte("proof"), common.Hash{}, false)
	require.NoError(t, err)
	require.NotEqual(t, id, id2)
}

func TestRevokeClaim(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id := submitTestClaim(t, st, c.proposer.Index, "proof")

	_, err := st.RevokeClaim(c.proposer.Index, id, false)
	require.ErrorIs(t, err, ErrUnauthorizedAdmin)

	_, err = st.RevokeClaim(c.oversight[0].Index, id, false)
	require.NoError(t, err)
	_, err = st.RevokeClaim(c.oversight[0].Index, id, false)
	require.ErrorIs(t, err, attest.ErrClaimRevoked)

	// a revoked claim can never seed a project
	_, err = st.CreateProject(c.proposer.Index, 1000, 1000, 7, 30*config.SecondsPerDay, id, false)
	require.ErrorIs(t, err, attest.ErrClaimRevoked)
}

func TestRevokeClaimBlockedAfterRelease(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1000)
	approveClaim(t, st, c, claim)
	_, err := st.ReleasePhaseFunds(c.proposer.Index, id, types.PhaseInitial, false)
	require.NoError(t, err)

	// funds left escrow on the strength of this claim; it is settled
	_, err = st.RevokeClaim(c.oversight[0].Index, claim, false)
	require.ErrorIs(t, err, ErrFundsAlreadyReleased)
}

func TestRevokeBoundClaimBeforeRelease(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1000)

	_, err := st.RevokeClaim(c.oversight[0].Index, claim, false)
	require.NoError(t, err)

	_, err = st.GetProject(id)
	require.NoError(t, err)
}

func TestDeriveClaimID(t *testing.T) {
	issuer := []byte{1, 2, 3}
	a := DeriveClaimID(issuer, attest.ProjectStateSchema, []byte("x"), 0)
	b := DeriveClaimID(issuer, attest.ProjectStateSchema, []byte("x"), 1)
	require.NotEqual(t, a, b)
	require.Equal(t, a, DeriveClaimID(issuer, attest.ProjectStateSchema, []byte("x"), 0))
}

func TestRevokedClaimVoidsApprovedOutcomes(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1000)
	approveClaim(t, st, c, claim)

	// revocation before release is permitted and voids the approval
	_, err := st.RevokeClaim(c.oversight[0].Index, claim, false)
	require.NoError(t, err)

	_, err = st.ReleasePhaseFunds(c.proposer.Index, id, types.PhaseInitial, false)
	require.ErrorIs(t, err, attest.ErrClaimRevoked)
	_, err = st.AdvancePhase(c.proposer.Index, id, false)
	require.ErrorIs(t, err, attest.ErrClaimRevoked)

	// nothing left escrow
	project, err := st.GetProject(id)
	require.NoError(t, err)
	require.EqualValues(t, 1000, project.EscrowBalance)
	require.False(t, project.FundsReleased[types.PhaseInitial])
	require.EqualValues(t, 1_000_000-1000, balanceOf(t, st, c.proposer.Index))
}
