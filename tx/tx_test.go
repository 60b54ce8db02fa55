package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/phasefund/phasefund/types"
)

func TestUnmarshalTxSelectsPayload(t *testing.T) {
	btx := &Tx{
		Version: TxVersion1,
		Type:    TxTypeCreateProject,
		Nonce:   3,
		Account: 65537,
		Tx: &CreateProjectTx{
			RequestedFunds: 1000,
			Deposit:        1000,
			RegionID:       7,
			Duration:       86400,
			InitialClaim:   common.HexToHash("0xabc"),
		},
		Sig: [][]byte{{1, 2, 3}},
	}
	dat, err := MarshalTx(btx)
	require.NoError(t, err)

	got, err := UnmarshalTx(dat)
	require.NoError(t, err)
	require.Equal(t, btx.Type, got.Type)
	require.Equal(t, btx.Nonce, got.Nonce)
	require.Equal(t, btx.Account, got.Account)
	payload, ok := got.Tx.(*CreateProjectTx)
	require.True(t, ok)
	require.EqualValues(t, 1000, payload.RequestedFunds)
	require.Equal(t, common.HexToHash("0xabc"), payload.InitialClaim)
}

func TestUnmarshalTxUnknownType(t *testing.T) {
	btx := &Tx{Version: TxVersion1, Type: TxType(99), Account: 65537, Tx: &FinalizeVoteTx{}}
	dat, err := MarshalTx(btx)
	require.NoError(t, err)
	_, err = UnmarshalTx(dat)
	require.ErrorIs(t, err, ErrUnsupportedTxType)

	_, err = UnmarshalTx([]byte("not json"))
	require.ErrorIs(t, err, ErrUnsupportedTxType)
}

func TestSigDataSubstitutesChainID(t *testing.T) {
	btx := &Tx{
		Version: TxVersion1,
		Type:    TxTypeCastVote,
		Nonce:   1,
		Account: 65536,
		Tx:      &CastVoteTx{Claim: common.HexToHash("0x01"), RegionID: 7, Approve: true},
		Sig:     [][]byte{{9, 9}},
	}
	a, err := btx.SigData([]byte("chain-a"))
	require.NoError(t, err)
	b, err := btx.SigData([]byte("chain-b"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	// signing leaves the envelope's own signatures untouched
	require.Equal(t, [][]byte{{9, 9}}, btx.Sig)

	// stable for identical input
	a2, err := btx.SigData([]byte("chain-a"))
	require.NoError(t, err)
	require.Equal(t, a, a2)
}

func TestUnmarshalAllTypes(t *testing.T) {
	cases := []struct {
		typ     TxType
		payload any
	}{
		{TxTypeMember, &MemberTx{Op: MemberOpAdd, Role: types.RoleRegional, RegionID: 7}},
		{TxTypeSubmitProgress, &SubmitProgressTx{Project: common.HexToHash("0x01"), Claim: common.HexToHash("0x02")}},
		{TxTypeUpdateStatus, &UpdateStatusTx{Project: common.HexToHash("0x01"), Status: types.StatusCancelled}},
		{TxTypeMilestone, &MilestoneTx{Op: MilestoneOpSet, Phase: types.PhaseProgress, Labels: []string{"a", "b"}}},
		{TxTypeReleaseFunds, &ReleaseFundsTx{Project: common.HexToHash("0x01"), Phase: types.PhaseCompletion}},
		{TxTypeProposeWeights, &ProposeWeightsTx{Weights: types.PhaseWeights{Initial: 20, Progress: 30, Completion: 50}}},
		{TxTypeProposePause, &ProposePauseTx{Group: types.GroupFundManagement, Duration: 86400}},
		{TxTypeEmergencyApprove, &EmergencyApproveTx{OpID: common.HexToHash("0xee")}},
		{TxTypeReassign, &ReassignTx{Project: common.HexToHash("0x01"), NewProposer: 65537}},
		{TxTypeSubmitClaim, &SubmitClaimTx{Payload: []byte("proof"), RefID: common.HexToHash("0x03")}},
	}
	for _, tc := range cases {
		dat, err := MarshalTx(&Tx{Version: TxVersion1, Type: tc.typ, Account: 65536, Tx: tc.payload})
		require.NoError(t, err)
		got, err := UnmarshalTx(dat)
		require.NoError(t, err)
		require.Equal(t, tc.typ, got.Type)
		require.Equal(t, tc.payload, got.Tx)
	}
}
