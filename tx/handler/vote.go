package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/phasefund/phasefund/state"
	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

type VoteTxHandler struct {
	logger cmtlog.Logger
}

func NewVoteTxHandler(logger cmtlog.Logger) (h *VoteTxHandler) {
	h = &VoteTxHandler{
		logger: logger.With("module", "voteTx"),
	}
	return
}

func (h *VoteTxHandler) apply(st *state.State, btx *tx.Tx, checkOnly bool) (events []abcitypes.Event, err error) {
	switch stx := btx.Tx.(type) {
	case *tx.CastVoteTx:
		event, err := st.CastVote(btx.Account, stx.Claim, stx.RegionID, stx.Approve, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventVoteCast(event))
		}
	case *tx.FinalizeVoteTx:
		event, err := st.FinalizeVote(btx.Account, stx.Claim, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventVoteFinalized(event))
		}
	default:
		return nil, tx.ErrUnmatchedTxType
	}
	return
}

func (h *VoteTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	_, err1 := h.apply(st, btx, true)
	if err1 != nil {
		h.logger.Info("CheckTx vote tx fail", "type", btx.Type, "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *VoteTxHandler) NewContext(ctx context.Context) {}

func (h *VoteTxHandler) handle(st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	events, err := h.apply(st, btx, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{Events: events}
	return
}

func (h *VoteTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}

func (h *VoteTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}
