package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phasefund/phasefund/config"
	"github.com/phasefund/phasefund/types"
)

func TestCastVoteDualQuorum(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	_, claim := createTestProject(t, st, c, 1000)

	// all oversight plus two regional: one track short, still pending
	for _, o := range c.oversight {
		_, err := st.CastVote(o.Index, claim, 0, true, false)
		require.NoError(t, err)
	}
	for _, r := range c.regional[:2] {
		_, err := st.CastVote(r.Index, claim, c.region, true, false)
		require.NoError(t, err)
	}
	vote, err := st.GetVote(claim)
	require.NoError(t, err)
	require.Equal(t, types.VotePending, vote.Result)
	require.EqualValues(t, 3, vote.OversightApprovals)
	require.EqualValues(t, 2, vote.RegionalApprovals)

	// the last regional approval crosses both thresholds at once
	ev, err := st.CastVote(c.regional[2].Index, claim, c.region, true, false)
	require.NoError(t, err)
	require.Equal(t, types.VoteApproved, ev.Result)
	vote, err = st.GetVote(claim)
	require.NoError(t, err)
	require.Equal(t, types.VoteApproved, vote.Result)
	require.False(t, vote.Finalized)
}

func TestCastVoteRejectionsNeverDecide(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	_, claim := createTestProject(t, st, c, 1000)

	for _, o := range c.oversight {
		_, err := st.CastVote(o.Index, claim, 0, false, false)
		require.NoError(t, err)
	}
	for _, r := range c.regional {
		_, err := st.CastVote(r.Index, claim, c.region, true, false)
		require.NoError(t, err)
	}
	vote, err := st.GetVote(claim)
	require.NoError(t, err)
	require.Equal(t, types.VotePending, vote.Result)
	require.EqualValues(t, 3, vote.OversightRejects)
	require.EqualValues(t, 3, vote.RegionalApprovals)

	st.SetBlockTime(vote.Deadline)
	ev, err := st.FinalizeVote(c.proposer.Index, claim, false)
	require.NoError(t, err)
	require.Equal(t, types.VoteRejected, ev.Result)
}

func TestCastVoteAuthorization(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	_, claim := createTestProject(t, st, c, 1000)

	// no membership role
	_, err := st.CastVote(c.proposer.Index, claim, 0, true, false)
	require.ErrorIs(t, err, ErrUnauthorizedDAO)

	// regional member from another region
	stranger := addTestAccount(t, st, types.RoleRegional, 99, 0, false)
	_, err = st.CastVote(stranger.Index, claim, 99, true, false)
	require.ErrorIs(t, err, ErrMemberNotFromRegion)

	// region spoofed in the ballot
	_, err = st.CastVote(c.regional[0].Index, claim, 99, true, false)
	require.ErrorIs(t, err, ErrMemberNotFromRegion)

	// one ballot per voter per claim
	_, err = st.CastVote(c.oversight[0].Index, claim, 0, true, false)
	require.NoError(t, err)
	_, err = st.CastVote(c.oversight[0].Index, claim, 0, false, false)
	require.ErrorIs(t, err, ErrAlreadyVoted)
}

func TestCastVoteOrderCommutes(t *testing.T) {
	tally := func(order []int) types.VoteResult {
		st := testState(t)
		c := seedCommittee(t, st, 7)
		_, claim := createTestProject(t, st, c, 1000)
		voters := append(append([]*Account{}, c.oversight...), c.regional...)
		for _, i := range order {
			v := voters[i]
			region := uint64(0)
			if v.Role == types.RoleRegional {
				region = c.region
			}
			_, err := st.CastVote(v.Index, claim, region, true, false)
			require.NoError(t, err)
		}
		vote, err := st.GetVote(claim)
		require.NoError(t, err)
		return vote.Result
	}

	require.Equal(t, tally([]int{0, 1, 2, 3, 4, 5}), tally([]int{5, 3, 1, 4, 2, 0}))
}

func TestFinalizeVote(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	_, claim := createTestProject(t, st, c, 1000)

	_, err := st.FinalizeVote(c.proposer.Index, claim, false)
	require.ErrorIs(t, err, ErrVotingPeriodNotEnded)

	approveClaim(t, st, c, claim)

	// an early approval survives finalization
	st.SetBlockTime(testStart + config.DefaultVotingPeriod)
	ev, err := st.FinalizeVote(c.proposer.Index, claim, false)
	require.NoError(t, err)
	require.Equal(t, types.VoteApproved, ev.Result)

	// finalization is write-once
	_, err = st.FinalizeVote(c.proposer.Index, claim, false)
	require.ErrorIs(t, err, ErrVoteAlreadyFinalized)

	// so is voting after it
	_, err = st.CastVote(c.oversight[0].Index, claim, 0, true, false)
	require.ErrorIs(t, err, ErrVoteAlreadyFinalized)
}

func TestVoteDeadlineFromBlockTime(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	_, claim := createTestProject(t, st, c, 1000)

	vote, err := st.GetVote(claim)
	require.NoError(t, err)
	require.Equal(t, testStart+config.DefaultVotingPeriod, vote.Deadline)
}

func TestFinalizeVoteBlockedWhileVotingPaused(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	_, claim := createTestProject(t, st, c, 1000)

	deadline := testStart + config.DefaultVotingPeriod
	require.NoError(t, st.applyPause(types.GroupVoting, deadline+200))
	st.SetBlockTime(deadline + 100)

	_, err := st.FinalizeVote(c.proposer.Index, claim, false)
	require.ErrorIs(t, err, ErrFunctionPaused)

	// once the pause lapses, finalization proceeds
	st.SetBlockTime(deadline + 300)
	ev, err := st.FinalizeVote(c.proposer.Index, claim, false)
	require.NoError(t, err)
	require.Equal(t, types.VoteRejected, ev.Result)
}
