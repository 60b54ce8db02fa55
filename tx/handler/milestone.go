package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/phasefund/phasefund/state"
	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

type MilestoneTxHandler struct {
	logger cmtlog.Logger
}

func NewMilestoneTxHandler(logger cmtlog.Logger) (h *MilestoneTxHandler) {
	h = &MilestoneTxHandler{
		logger: logger.With("module", "milestoneTx"),
	}
	return
}

func (h *MilestoneTxHandler) apply(st *state.State, btx *tx.Tx, checkOnly bool) (event *types.EventMilestone, err error) {
	stx := btx.Tx.(*tx.MilestoneTx)
	switch stx.Op {
	case tx.MilestoneOpSet:
		return st.SetMilestones(btx.Account, stx.Project, stx.Phase, stx.Labels, checkOnly)
	case tx.MilestoneOpComplete:
		return st.CompleteMilestone(btx.Account, stx.Project, stx.Phase, stx.Label, stx.Done, checkOnly)
	default:
		return nil, tx.ErrInvalidTx
	}
}

func (h *MilestoneTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	_, err1 := h.apply(st, btx, true)
	if err1 != nil {
		h.logger.Info("CheckTx MilestoneTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *MilestoneTxHandler) NewContext(ctx context.Context) {}

func (h *MilestoneTxHandler) handle(st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	event, err := h.apply(st, btx, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventMilestone(event)}
	}
	return
}

func (h *MilestoneTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}

func (h *MilestoneTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}
