package handler

import (
	"context"
	"testing"

	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/phasefund/phasefund/config"
	"github.com/phasefund/phasefund/state"
	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

const testStart int64 = 1700000000

func governanceState(t *testing.T) (*state.State, []*state.Account, common.Hash) {
	t.Helper()
	db, err := state.NewMemStateDB(cmtlog.NewNopLogger())
	require.NoError(t, err)
	st := db.State()
	st.SetChainId("pfd-test")
	st.SetBlockTime(testStart)
	st.SetVotingPeriod(config.DefaultVotingPeriod)
	st.SetWeights(config.DefaultPhaseWeights)

	var accounts []*state.Account
	for i := 0; i < 2; i++ {
		a := &state.Account{EmergencyAdmin: true}
		a.SetPubKey(ed25519.GenPrivKey().PubKey().Bytes())
		require.NoError(t, st.AddAccount(a))
		accounts = append(accounts, a)
	}
	proposer := &state.Account{Balance: 10_000}
	proposer.SetPubKey(ed25519.GenPrivKey().PubKey().Bytes())
	require.NoError(t, st.AddAccount(proposer))
	accounts = append(accounts, proposer)

	_, claim, err := st.SubmitClaim(proposer.Index, []byte("proof"), common.Hash{}, false)
	require.NoError(t, err)
	ev, err := st.CreateProject(proposer.Index, 1000, 1000, 7, 30*config.SecondsPerDay, claim, false)
	require.NoError(t, err)
	return st, accounts, ev.Project
}

// The first reassign call must commit as a successful tx so the timelock
// queue entry lands in state; the handler absorbs the queued signal.
func TestReassignTimelockQueueCommits(t *testing.T) {
	st, accounts, project := governanceState(t)
	admin1, admin2 := accounts[0], accounts[1]
	target := accounts[2]
	h := NewGovernanceTxHandler(cmtlog.NewNopLogger())
	ctx := context.Background()

	opID := state.ReassignOpID(project, target.Index)
	for _, admin := range []*state.Account{admin1, admin2} {
		btx := &tx.Tx{
			Type:    tx.TxTypeEmergencyApprove,
			Account: admin.Index,
			Tx:      &tx.EmergencyApproveTx{OpID: opID},
		}
		res, err := h.Process(ctx, st, btx)
		require.NoError(t, err)
		require.Len(t, res.Events, 1)
	}

	btx := &tx.Tx{
		Type:    tx.TxTypeReassign,
		Account: admin1.Index,
		Tx:      &tx.ReassignTx{Project: project, NewProposer: target.Index},
	}

	// Check admits the queuing call
	chk, err := h.Check(ctx, st, btx)
	require.NoError(t, err)
	require.EqualValues(t, 0, chk.Code)

	res, err := h.Process(ctx, st, btx)
	require.NoError(t, err)
	require.Equal(t, state.ErrTimelockQueued.Error(), res.Log)
	require.Empty(t, res.Events)

	// inside the window the tx is rejected outright
	chk, err = h.Check(ctx, st, btx)
	require.NoError(t, err)
	require.EqualValues(t, 1, chk.Code)

	st.SetBlockTime(testStart + config.TimelockWindow)
	res, err = h.Process(ctx, st, btx)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)

	p, err := st.GetProject(project)
	require.NoError(t, err)
	require.Equal(t, target.Index, p.ProposerIndex)
}

func TestGovernanceCheckRejectsUnauthorized(t *testing.T) {
	st, accounts, _ := governanceState(t)
	proposer := accounts[2]
	h := NewGovernanceTxHandler(cmtlog.NewNopLogger())

	btx := &tx.Tx{
		Type:    tx.TxTypeEmergencyPause,
		Account: proposer.Index,
		Tx:      &tx.EmergencyPauseTx{Group: types.GroupVoting},
	}
	chk, err := h.Check(context.Background(), st, btx)
	require.NoError(t, err)
	require.EqualValues(t, 1, chk.Code)
	require.Equal(t, state.ErrUnauthorizedEmergency.Error(), chk.Log)
}
