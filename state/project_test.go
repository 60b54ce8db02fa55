package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/phasefund/phasefund/config"
	"github.com/phasefund/phasefund/types"
)

func TestCreateProject(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	claim := submitTestClaim(t, st, c.proposer.Index, "initial proof")

	_, err := st.CreateProject(c.proposer.Index, 1000, 999, 7, 30*config.SecondsPerDay, claim, false)
	require.ErrorIs(t, err, ErrEscrowMismatch)

	_, err = st.CreateProject(c.proposer.Index, 1000, 1000, 7, config.SecondsPerDay-1, claim, false)
	require.ErrorIs(t, err, ErrInvalidDuration)
	_, err = st.CreateProject(c.proposer.Index, 1000, 1000, 7, config.MaxProjectDuration+1, claim, false)
	require.ErrorIs(t, err, ErrInvalidDuration)

	poor := addTestAccount(t, st, types.RoleNone, 0, 10, false)
	poorClaim := submitTestClaim(t, st, poor.Index, "poor proof")
	_, err = st.CreateProject(poor.Index, 1000, 1000, 7, 30*config.SecondsPerDay, poorClaim, false)
	require.ErrorIs(t, err, ErrInsufficientEscrow)

	before := balanceOf(t, st, c.proposer.Index)
	ev, err := st.CreateProject(c.proposer.Index, 1000, 1000, 7, 30*config.SecondsPerDay, claim, false)
	require.NoError(t, err)
	require.Equal(t, before-1000, balanceOf(t, st, c.proposer.Index))

	project, err := st.GetProject(ev.Project)
	require.NoError(t, err)
	require.Equal(t, types.StatusActive, project.Status)
	require.Equal(t, types.PhaseInitial, project.CurrentPhase)
	require.EqualValues(t, 1000, project.EscrowBalance)
	require.Equal(t, claim, project.Claims[types.PhaseInitial])

	// the initial-phase vote opens with the project
	vote, err := st.GetVote(claim)
	require.NoError(t, err)
	require.Equal(t, types.VotePending, vote.Result)

	// a bound claim cannot seed a second project
	st.SetBlockTime(testStart + 1)
	_, err = st.CreateProject(c.proposer.Index, 1000, 1000, 7, 30*config.SecondsPerDay, claim, false)
	require.ErrorIs(t, err, ErrClaimBound)
}

func TestAdvancePhase(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1000)

	_, err := st.AdvancePhase(c.proposer.Index, id, false)
	require.ErrorIs(t, err, ErrPhaseNotApproved)

	_, err = st.AdvancePhase(c.oversight[0].Index, id, false)
	require.ErrorIs(t, err, ErrUnauthorizedProposer)

	approveClaim(t, st, c, claim)
	_, err = st.AdvancePhase(c.proposer.Index, id, false)
	require.NoError(t, err)
	project, err := st.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, types.PhaseProgress, project.CurrentPhase)

	// next phase starts with an empty proof slot
	require.Equal(t, common.Hash{}, project.Claims[types.PhaseProgress])
	_, err = st.AdvancePhase(c.proposer.Index, id, false)
	require.ErrorIs(t, err, ErrPhaseNotApproved)

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

	// there is no phase beyond completion
	_, err = st.AdvancePhase(c.proposer.Index, id, false)
	require.ErrorIs(t, err, ErrInvalidPhase)
}

func TestSubmitProgressResubmission(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1000)
	approveClaim(t, st, c, claim)
	_, err := st.AdvancePhase(c.proposer.Index, id, false)
	require.NoError(t, err)

	first := submitTestClaim(t, st, c.proposer.Index, "progress v1")
	_, err = st.SubmitProgress(c.proposer.Index, id, first, false)
	require.NoError(t, err)
	_, err = st.CastVote(c.oversight[0].Index, first, 0, true, false)
	require.NoError(t, err)

	// resubmission supersedes the live proof and discards its tally
	second := submitTestClaim(t, st, c.proposer.Index, "progress v2")
	_, err = st.SubmitProgress(c.proposer.Index, id, second, false)
	require.NoError(t, err)
	_, err = st.GetVote(first)
	require.ErrorIs(t, err, ErrVoteNotFound)
	vote, err := st.GetVote(second)
	require.NoError(t, err)
	require.EqualValues(t, 0, vote.OversightApprovals)
	project, err := st.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, second, project.Claims[types.PhaseProgress])

	// once the vote finalizes the proof is settled for good
	vote2, err := st.GetVote(second)
	require.NoError(t, err)
	st.SetBlockTime(vote2.Deadline)
	_, err = st.FinalizeVote(c.proposer.Index, second, false)
	require.NoError(t, err)
	third := submitTestClaim(t, st, c.proposer.Index, "progress v3")
	_, err = st.SubmitProgress(c.proposer.Index, id, third, false)
	require.ErrorIs(t, err, ErrVoteAlreadyFinalized)
}

func TestUpdateStatus(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, _ := createTestProject(t, st, c, 1000)

	_, err := st.UpdateStatus(c.proposer.Index, id, types.StatusCancelled, false)
	require.ErrorIs(t, err, ErrUnauthorizedAdmin)

	_, err = st.UpdateStatus(c.oversight[0].Index, id, types.StatusActive, false)
	require.ErrorIs(t, err, ErrInvalidStatus)

	// completion is guarded: wrong phase
	_, err = st.UpdateStatus(c.oversight[0].Index, id, types.StatusCompleted, false)
	require.ErrorIs(t, err, ErrProjectNotCompletable)

	_, err = st.UpdateStatus(c.oversight[0].Index, id, types.StatusPaused, false)
	require.NoError(t, err)
	project, err := st.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, types.StatusPaused, project.Status)
	_, err = st.UpdateStatus(c.oversight[0].Index, id, types.StatusActive, false)
	require.NoError(t, err)

	// a non-completed terminal status refunds the remaining escrow
	before := balanceOf(t, st, c.proposer.Index)
	_, err = st.UpdateStatus(c.oversight[0].Index, id, types.StatusCancelled, false)
	require.NoError(t, err)
	require.Equal(t, before+1000, balanceOf(t, st, c.proposer.Index))
	project, err = st.GetProject(id)
	require.NoError(t, err)
	require.EqualValues(t, 0, project.EscrowBalance)

	// terminal is terminal
	_, err = st.UpdateStatus(c.oversight[0].Index, id, types.StatusActive, false)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusCompleted(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1000)
	approveClaim(t, st, c, claim)
	_, err := st.AdvancePhase(c.proposer.Index, id, false)
	require.NoError(t, err)
	progressClaim := submitTestClaim(t, st, c.proposer.Index, "progress proof")
	_, err = st.SubmitProgress(c.proposer.Index, id, progressClaim, false)
	require.NoError(t, err)
	approveClaim(t, st, c, progressClaim)
	_, err = st.AdvancePhase(c.proposer.Index, id, false)
	require.NoError(t, err)

	// at completion phase but no approved completion proof yet
	_, err = st.UpdateStatus(c.oversight[0].Index, id, types.StatusCompleted, false)
	require.ErrorIs(t, err, ErrProjectNotCompletable)

	completionClaim := submitTestClaim(t, st, c.proposer.Index, "completion proof")
	_, err = st.SubmitProgress(c.proposer.Index, id, completionClaim, false)
	require.NoError(t, err)
	approveClaim(t, st, c, completionClaim)

	before := balanceOf(t, st, c.proposer.Index)
	_, err = st.UpdateStatus(c.oversight[0].Index, id, types.StatusCompleted, false)
	require.NoError(t, err)
	// completion never refunds; funds leave escrow only through releases
	require.Equal(t, before, balanceOf(t, st, c.proposer.Index))
	project, err := st.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, types.StatusCompleted, project.Status)
	require.EqualValues(t, 1000, project.EscrowBalance)
}

func TestEmergencyFreeze(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	admin := addTestAccount(t, st, types.RoleOversight, 0, 0, true)
	id, claim := createTestProject(t, st, c, 1000)
	approveClaim(t, st, c, claim)

	_, err := st.EmergencyFreeze(c.oversight[0].Index, id, config.SecondsPerDay, false)
	require.ErrorIs(t, err, ErrUnauthorizedEmergency)
	_, err = st.EmergencyFreeze(admin.Index, id, config.MaxFreezeDuration+1, false)
	require.ErrorIs(t, err, ErrInvalidDuration)

	_, err = st.EmergencyFreeze(admin.Index, id, config.SecondsPerDay, false)
	require.NoError(t, err)

	// freeze blocks advancement and release, not voting
	_, err = st.AdvancePhase(c.proposer.Index, id, false)
	require.ErrorIs(t, err, ErrProjectFrozen)
	_, err = st.ReleasePhaseFunds(c.proposer.Index, id, types.PhaseInitial, false)
	require.ErrorIs(t, err, ErrProjectFrozen)

	st.SetBlockTime(testStart + config.SecondsPerDay)
	_, err = st.AdvancePhase(c.proposer.Index, id, false)
	require.NoError(t, err)
}
