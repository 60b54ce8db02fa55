package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phasefund/phasefund/types"
)

type failingTransfer struct{}

func (failingTransfer) Transfer(*State, uint64, uint64) bool { return false }

func TestReleasePhaseFunds(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1000)

	_, err := st.ReleasePhaseFunds(c.proposer.Index, id, types.PhaseInitial, false)
	require.ErrorIs(t, err, ErrPhaseNotApproved)

	approveClaim(t, st, c, claim)

	before := balanceOf(t, st, c.proposer.Index)
	ev, err := st.ReleasePhaseFunds(c.proposer.Index, id, types.PhaseInitial, false)
	require.NoError(t, err)
	require.EqualValues(t, 300, ev.Amount)
	require.Equal(t, before+300, balanceOf(t, st, c.proposer.Index))

	project, err := st.GetProject(id)
	require.NoError(t, err)
	require.True(t, project.FundsReleased[types.PhaseInitial])
	require.EqualValues(t, 700, project.EscrowBalance)

	// at most once per phase
	_, err = st.ReleasePhaseFunds(c.proposer.Index, id, types.PhaseInitial, false)
	require.ErrorIs(t, err, ErrFundsAlreadyReleased)

	// later phases stay gated on their own approvals
	_, err = st.ReleasePhaseFunds(c.proposer.Index, id, types.PhaseProgress, false)
	require.ErrorIs(t, err, ErrPhaseNotApproved)
}

func TestReleasePhaseFundsAllPhases(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1001)
	approveClaim(t, st, c, claim)
	_, err := st.AdvancePhase(c.proposer.Index, id, false)
	require.NoError(t, err)
	progressClaim := submitTestClaim(t, st, c.proposer.Index, "progress proof")
	_, err = st.SubmitProgress(c.proposer.Index, id, progressClaim, false)
	require.NoError(t, err)
	approveClaim(t, st, c, progressClaim)
	_, err = st.AdvancePhase(c.proposer.Index, id, false)
	require.NoError(t, err)
	completionClaim := submitTestClaim(t, st, c.proposer.Index, "completion proof")
	_, err = st.SubmitProgress(c.proposer.Index, id, completionClaim, false)
	require.NoError(t, err)
	approveClaim(t, st, c, completionClaim)

	// 1001 at 30/40/30 truncates each slice; the residual stays in escrow
	var total uint64
	for _, phase := range []types.Phase{types.PhaseCompletion, types.PhaseInitial, types.PhaseProgress} {
		ev, err := st.ReleasePhaseFunds(c.proposer.Index, id, phase, false)
		require.NoError(t, err)
		total += ev.Amount
	}
	require.EqualValues(t, 300+400+300, total)
	project, err := st.GetProject(id)
	require.NoError(t, err)
	require.EqualValues(t, 1, project.EscrowBalance)
}

func TestReleasePhaseFundsRollback(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1000)
	approveClaim(t, st, c, claim)

	st.SetTransferrer(failingTransfer{})
	_, err := st.ReleasePhaseFunds(c.proposer.Index, id, types.PhaseInitial, false)
	require.ErrorIs(t, err, ErrFundTransferFailed)

	// the failed release left no trace
	project, err := st.GetProject(id)
	require.NoError(t, err)
	require.False(t, project.FundsReleased[types.PhaseInitial])
	require.EqualValues(t, 1000, project.EscrowBalance)

	st.SetTransferrer(LedgerTransfer{})
	_, err = st.ReleasePhaseFunds(c.proposer.Index, id, types.PhaseInitial, false)
	require.NoError(t, err)
}

func TestProposeWeights(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)

	_, err := st.ProposeWeights(c.proposer.Index, types.PhaseWeights{Initial: 50, Progress: 50, Completion: 50}, false)
	require.ErrorIs(t, err, types.ErrInvalidWeightTotal)

	ev, err := st.ProposeWeights(c.proposer.Index, types.PhaseWeights{Initial: 20, Progress: 30, Completion: 50}, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, ev.Proposal)
}

func TestVoteWeights(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	next := types.PhaseWeights{Initial: 20, Progress: 30, Completion: 50}
	ev, err := st.ProposeWeights(c.proposer.Index, next, false)
	require.NoError(t, err)

	_, _, err = st.VoteWeights(c.regional[0].Index, ev.Proposal, false)
	require.ErrorIs(t, err, ErrUnauthorizedAdmin)

	// supermajority of three oversight members is two
	_, updated, err := st.VoteWeights(c.oversight[0].Index, ev.Proposal, false)
	require.NoError(t, err)
	require.Nil(t, updated)
	_, _, err = st.VoteWeights(c.oversight[0].Index, ev.Proposal, false)
	require.ErrorIs(t, err, ErrAlreadyVoted)

	_, updated, err = st.VoteWeights(c.oversight[1].Index, ev.Proposal, false)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, next, st.Weights())

	// a vote landing after execution is absorbed, not an error
	vev, updated, err := st.VoteWeights(c.oversight[2].Index, ev.Proposal, false)
	require.NoError(t, err)
	require.Nil(t, vev)
	require.Nil(t, updated)
}

func TestWeightChangeOnlyAffectsLaterReleases(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1000)
	approveClaim(t, st, c, claim)

	ev, err := st.ReleasePhaseFunds(c.proposer.Index, id, types.PhaseInitial, false)
	require.NoError(t, err)
	require.EqualValues(t, 300, ev.Amount)

	prop, err := st.ProposeWeights(c.proposer.Index, types.PhaseWeights{Initial: 10, Progress: 60, Completion: 30}, false)
	require.NoError(t, err)
	_, _, err = st.VoteWeights(c.oversight[0].Index, prop.Proposal, false)
	require.NoError(t, err)
	_, _, err = st.VoteWeights(c.oversight[1].Index, prop.Proposal, false)
	require.NoError(t, err)

	_, err = st.AdvancePhase(c.proposer.Index, id, false)
	require.NoError(t, err)
	progressClaim := submitTestClaim(t, st, c.proposer.Index, "progress proof")
	_, err = st.SubmitProgress(c.proposer.Index, id, progressClaim, false)
	require.NoError(t, err)
	approveClaim(t, st, c, progressClaim)

	// the already-released phase is untouched; the new split applies now
	ev, err = st.ReleasePhaseFunds(c.proposer.Index, id, types.PhaseProgress, false)
	require.NoError(t, err)
	require.EqualValues(t, 600, ev.Amount)
}
