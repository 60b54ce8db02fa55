package state

import (
	"testing"

	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

func TestVerifyEnvelope(t *testing.T) {
	st := testState(t)
	priv := ed25519.GenPrivKey()
	a := &Account{}
	a.SetPubKey(priv.PubKey().Bytes())
	require.NoError(t, st.AddAccount(a))

	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypeFinalizeVote,
		Nonce:   0,
		Account: a.Index,
		Tx:      &tx.FinalizeVoteTx{Claim: common.HexToHash("0xbeef")},
	}
	dat, err := btx.SigData([]byte("pfd-test"))
	require.NoError(t, err)
	sig, err := priv.Sign(dat)
	require.NoError(t, err)
	btx.Sig = [][]byte{sig}

	ok, err := st.Verify(btx, false)
	require.NoError(t, err)
	require.True(t, ok)

	// a signature over another chain's id fails
	other, err := btx.SigData([]byte("pfd-other"))
	require.NoError(t, err)
	osig, err := priv.Sign(other)
	require.NoError(t, err)
	btx.Sig = [][]byte{osig}
	_, err = st.Verify(btx, false)
	require.ErrorIs(t, err, ErrTxSigInvalid)

	btx.Sig = [][]byte{sig}
	btx.Nonce = 5
	_, err = st.Verify(btx, false)
	require.ErrorIs(t, err, ErrTxNonceInvalid)

	// mempool admission tolerates a nonce gap, execution does not
	dat, err = btx.SigData([]byte("pfd-test"))
	require.NoError(t, err)
	sig, err = priv.Sign(dat)
	require.NoError(t, err)
	btx.Sig = [][]byte{sig}
	ok, err = st.Verify(btx, true)
	require.NoError(t, err)
	require.True(t, ok)

	btx.Account = 1 << 40
	_, err = st.Verify(btx, true)
	require.ErrorIs(t, err, ErrTxAccountNoexists)
}

func TestStatePersistsAcrossVersions(t *testing.T) {
	db, err := NewMemStateDB(cmtlog.NewNopLogger())
	require.NoError(t, err)
	st := db.State()
	st.SetChainId("pfd-test")
	st.SetBlockTime(testStart)
	st.SetVotingPeriod(7 * 86400)
	st.SetWeights(types.PhaseWeights{Initial: 30, Progress: 40, Completion: 30})

	c := seedCommittee(t, st, 7)
	id, _ := createTestProject(t, st, c, 1000)

	h1, err := st.Update()
	require.NoError(t, err)
	require.NotEqual(t, common.Hash{}, h1)
	_, err = db.SetState(st)
	require.NoError(t, err)

	// the next working version sees the committed records
	next := db.NewState()
	project, err := next.GetProject(id)
	require.NoError(t, err)
	require.EqualValues(t, 1000, project.EscrowBalance)
	require.Equal(t, st.Header().Height+1, next.Header().Height)

	a, err := next.GetAccount(c.proposer.Index)
	require.NoError(t, err)
	require.EqualValues(t, 1_000_000-1000, a.Balance)
}

func TestUpdateDeterministicHash(t *testing.T) {
	build := func() common.Hash {
		db, err := NewMemStateDB(cmtlog.NewNopLogger())
		require.NoError(t, err)
		st := db.State()
		st.SetChainId("pfd-test")
		st.SetBlockTime(testStart)
		st.SetVotingPeriod(7 * 86400)
		st.SetWeights(types.PhaseWeights{Initial: 30, Progress: 40, Completion: 30})
		a := &Account{Balance: 42}
		a.SetPubKey(make([]byte, ed25519.PubKeySize))
		require.NoError(t, st.AddAccount(a))
		h, err := st.Update()
		require.NoError(t, err)
		return h
	}
	require.Equal(t, build(), build())
}

func TestDeriveProjectID(t *testing.T) {
	creator := []byte{9, 9, 9}
	claim := common.HexToHash("0x01")
	a := DeriveProjectID(creator, claim, testStart)
	require.Equal(t, a, DeriveProjectID(creator, claim, testStart))
	require.NotEqual(t, a, DeriveProjectID(creator, claim, testStart+1))
	require.NotEqual(t, a, DeriveProjectID(creator, common.HexToHash("0x02"), testStart))
}
