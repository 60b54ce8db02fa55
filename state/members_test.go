package state

import (
	"testing"

	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/stretchr/testify/require"

	"github.com/phasefund/phasefund/types"
)

func TestAddMember(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	pk := ed25519.GenPrivKey().PubKey().Bytes()

	_, err := st.AddMember(c.regional[0].Index, pk, types.RoleRegional, 9, false)
	require.ErrorIs(t, err, ErrUnauthorizedAdmin)

	_, err = st.AddMember(c.oversight[0].Index, pk, types.RoleNone, 9, false)
	require.ErrorIs(t, err, ErrInvalidRole)

	ev, err := st.AddMember(c.oversight[0].Index, pk, types.RoleRegional, 9, false)
	require.NoError(t, err)
	require.EqualValues(t, 9, ev.RegionID)

	_, err = st.AddMember(c.oversight[0].Index, pk, types.RoleRegional, 9, false)
	require.ErrorIs(t, err, ErrMemberExists)

	a, err := st.GetAccount(ev.Index)
	require.NoError(t, err)
	require.Equal(t, types.RoleRegional, a.Role)
}

func TestUpdateMemberTracksOversightCount(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	require.EqualValues(t, 3, st.Header().OversightCount)

	_, err := st.UpdateMember(c.oversight[0].Index, c.regional[0].Index, types.RoleOversight, 0, false)
	require.NoError(t, err)
	require.EqualValues(t, 4, st.Header().OversightCount)
	a, err := st.GetAccount(c.regional[0].Index)
	require.NoError(t, err)
	require.Equal(t, types.RoleOversight, a.Role)
	require.EqualValues(t, 0, a.RegionID)

	_, err = st.UpdateMember(c.oversight[0].Index, c.regional[0].Index, types.RoleRegional, 7, false)
	require.NoError(t, err)
	require.EqualValues(t, 3, st.Header().OversightCount)

	// updating a roleless account is a hard error
	_, err = st.UpdateMember(c.oversight[0].Index, c.proposer.Index, types.RoleRegional, 7, false)
	require.ErrorIs(t, err, ErrMemberNotFound)
	_, err = st.UpdateMember(c.oversight[0].Index, 1<<40, types.RoleRegional, 7, false)
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestRemoveMember(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)

	_, err := st.RemoveMember(c.oversight[0].Index, c.proposer.Index, false)
	require.ErrorIs(t, err, ErrMemberNotFound)

	_, err = st.RemoveMember(c.oversight[0].Index, c.oversight[2].Index, false)
	require.NoError(t, err)
	require.EqualValues(t, 2, st.Header().OversightCount)

	// the account survives without its role
	a, err := st.GetAccount(c.oversight[2].Index)
	require.NoError(t, err)
	require.Equal(t, types.RoleNone, a.Role)

	_, err = st.RemoveMember(c.oversight[0].Index, c.oversight[2].Index, false)
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestRemoveMemberKeepsCastBallots(t *testing.T) {
	st := testState(t)
	c := seedCommittee(t, st, 7)
	_, claim := createTestProject(t, st, c, 1000)

	_, err := st.CastVote(c.regional[0].Index, claim, c.region, true, false)
	require.NoError(t, err)
	_, err = st.RemoveMember(c.oversight[0].Index, c.regional[0].Index, false)
	require.NoError(t, err)

	// the tally is append-only; removal does not subtract the ballot
	vote, err := st.GetVote(claim)
	require.NoError(t, err)
	require.EqualValues(t, 1, vote.RegionalApprovals)

	// but the removed member cannot vote again anywhere
	_, err = st.CastVote(c.regional[0].Index, claim, c.region, false, false)
	require.ErrorIs(t, err, ErrUnauthorizedDAO)
}
