package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/phasefund/phasefund/state"
	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

type MemberTxHandler struct {
	logger cmtlog.Logger
}

func NewMemberTxHandler(logger cmtlog.Logger) (h *MemberTxHandler) {
	h = &MemberTxHandler{
		logger: logger.With("module", "memberTx"),
	}
	return
}

func (h *MemberTxHandler) apply(st *state.State, btx *tx.Tx, checkOnly bool) (event *types.EventMember, err error) {
	stx := btx.Tx.(*tx.MemberTx)
	switch stx.Op {
	case tx.MemberOpAdd:
		return st.AddMember(btx.Account, stx.Pubkey, stx.Role, stx.RegionID, checkOnly)
	case tx.MemberOpUpdate:
		return st.UpdateMember(btx.Account, stx.Target, stx.Role, stx.RegionID, checkOnly)
	case tx.MemberOpRemove:
		return st.RemoveMember(btx.Account, stx.Target, checkOnly)
	default:
		return nil, tx.ErrInvalidTx
	}
}

func (h *MemberTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	_, err1 := h.apply(st, btx, true)
	if err1 != nil {
		h.logger.Info("CheckTx MemberTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *MemberTxHandler) NewContext(ctx context.Context) {}

func (h *MemberTxHandler) handle(st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	event, err := h.apply(st, btx, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventMember(event)}
	}
	return
}

func (h *MemberTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}

func (h *MemberTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}
