package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phasefund/phasefund/types"
)

func TestMilestonesGateProofAcceptance(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1000)
	approveClaim(t, st, c, claim)
	_, err := st.AdvancePhase(c.proposer.Index, id, false)
	require.NoError(t, err)

	_, err = st.SetMilestones(c.oversight[0].Index, id, types.PhaseProgress, []string{"a"}, false)
	require.ErrorIs(t, err, ErrUnauthorizedProposer)

	_, err = st.SetMilestones(c.proposer.Index, id, types.PhaseProgress, []string{"survey", "build"}, false)
	require.NoError(t, err)

	// an incomplete checklist blocks the proof
	proof := submitTestClaim(t, st, c.proposer.Index, "progress proof")
	_, err = st.SubmitProgress(c.proposer.Index, id, proof, false)
	require.ErrorIs(t, err, ErrMilestonesIncomplete)

	_, err = st.CompleteMilestone(c.proposer.Index, id, types.PhaseProgress, "paint", true, false)
	require.ErrorIs(t, err, ErrInvalidMilestone)

	_, err = st.CompleteMilestone(c.proposer.Index, id, types.PhaseProgress, "survey", true, false)
	require.NoError(t, err)
	_, err = st.SubmitProgress(c.proposer.Index, id, proof, false)
	require.ErrorIs(t, err, ErrMilestonesIncomplete)
	_, err = st.CompleteMilestone(c.proposer.Index, id, types.PhaseProgress, "build", true, false)
	require.NoError(t, err)

	done, err := st.MilestonesComplete(id, types.PhaseProgress)
	require.NoError(t, err)
	require.True(t, done)

	_, err = st.SubmitProgress(c.proposer.Index, id, proof, false)
	require.NoError(t, err)

	// binding the proof locks the checklist
	_, err = st.SetMilestones(c.proposer.Index, id, types.PhaseProgress, []string{"rework"}, false)
	require.ErrorIs(t, err, ErrMilestonesLocked)
	_, err = st.CompleteMilestone(c.proposer.Index, id, types.PhaseProgress, "survey", false, false)
	require.ErrorIs(t, err, ErrMilestonesLocked)
}

func TestSetMilestonesResetsCompletion(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	id, claim := createTestProject(t, st, c, 1000)
	approveClaim(t, st, c, claim)
	_, err := st.AdvancePhase(c.proposer.Index, id, false)
	require.NoError(t, err)

	_, err = st.SetMilestones(c.proposer.Index, id, types.PhaseProgress, []string{"a", "b"}, false)
	require.NoError(t, err)
	_, err = st.CompleteMilestone(c.proposer.Index, id, types.PhaseProgress, "a", true, false)
	require.NoError(t, err)

	// replacing the checklist drops prior completion marks
	_, err = st.SetMilestones(c.proposer.Index, id, types.PhaseProgress, []string{"a", "c"}, false)
	require.NoError(t, err)
	done, err := st.MilestonesComplete(id, types.PhaseProgress)
	require.NoError(t, err)
	require.False(t, done)

	// an empty checklist is vacuously complete
	_, err = st.SetMilestones(c.proposer.Index, id, types.PhaseProgress, nil, false)
	require.NoError(t, err)
	done, err = st.MilestonesComplete(id, types.PhaseProgress)
	require.NoError(t, err)
	require.True(t, done)
}
