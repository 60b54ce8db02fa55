package state

import (
	"testing"

	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/phasefund/phasefund/config"
	"github.com/phasefund/phasefund/types"
)

const testStart int64 = 1700000000

func testState(t *testing.T) *State {
	t.Helper()
	db, err := NewMemStateDB(cmtlog.NewNopLogger())
	require.NoError(t, err)
	st := db.State()
	st.SetChainId("pfd-test")
	st.SetBlockTime(testStart)
	st.SetVotingPeriod(config.DefaultVotingPeriod)
	st.SetWeights(config.DefaultPhaseWeights)
	return st
}

func addTestAccount(t *testing.T, st *State, role types.Role, region uint64, balance uint64, admin bool) *Account {
	t.Helper()
	a := &Account{Role: role, RegionID: region, Balance: balance, EmergencyAdmin: admin}
	a.SetPubKey(ed25519.GenPrivKey().PubKey().Bytes())
	require.NoError(t, st.AddAccount(a))
	return a
}

// committee is the smallest population that can drive both quorum tracks.
type committee struct {
	oversight []*Account
	regional  []*Account
	proposer  *Account
	region    uint64
}

func seedCommittee(t *testing.T, st *State, region uint64) committee {
	t.Helper()
	c := committee{region: region}
	for i := 0; i < 3; i++ {
		c.oversight = append(c.oversight, addTestAccount(t, st, types.RoleOversight, 0, 0, false))
	}
	for i := 0; i < 3; i++ {
		c.regional = append(c.regional, addTestAccount(t, st, types.RoleRegional, region, 0, false))
	}
	c.proposer = addTestAccount(t, st, types.RoleNone, 0, 1_000_000, false)
	return c
}

func submitTestClaim(t *testing.T, st *State, issuer uint64, payload string) common.Hash {
	t.Helper()
	_, id, err := st.SubmitClaim(issuer, []byte(payload), common.Hash{}, false)
	require.NoError(t, err)
	return id
}

func createTestProject(t *testing.T, st *State, c committee, funds uint64) (common.Hash, common.Hash) {
	t.Helper()
	claim := submitTestClaim(t, st, c.proposer.Index, "initial proof")
	ev, err := st.CreateProject(c.proposer.Index, funds, funds, c.region, 30*config.SecondsPerDay, claim, false)
	require.NoError(t, err)
	return ev.Project, claim
}

// approveClaim drives both tracks to quorum.
func approveClaim(t *testing.T, st *State, c committee, claim common.Hash) {
	t.Helper()
	for _, o := range c.oversight {
		_, err := st.CastVote(o.Index, claim, 0, true, false)
		require.NoError(t, err)
	}
	for _, r := range c.regional {
		_, err := st.CastVote(r.Index, claim, c.region, true, false)
		require.NoError(t, err)
	}
	vote, err := st.GetVote(claim)
	require.NoError(t, err)
	require.Equal(t, types.VoteApproved, vote.Result)
}

func balanceOf(t *testing.T, st *State, idx uint64) uint64 {
	t.Helper()
	a, err := st.GetAccount(idx)
	require.NoError(t, err)
	return a.Balance
}
