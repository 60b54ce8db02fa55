package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/phasefund/phasefund/state"
	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

type ClaimTxHandler struct {
	logger cmtlog.Logger
}

func NewClaimTxHandler(logger cmtlog.Logger) (h *ClaimTxHandler) {
	h = &ClaimTxHandler{
		logger: logger.With("module", "claimTx"),
	}
	return
}

func (h *ClaimTxHandler) apply(st *state.State, btx *tx.Tx, checkOnly bool) (events []abcitypes.Event, err error) {
	switch stx := btx.Tx.(type) {
	case *tx.SubmitClaimTx:
		event, _, err := st.SubmitClaim(btx.Account, stx.Payload, stx.RefID, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventClaimAccepted(event))
		}
	case *tx.RevokeClaimTx:
		event, err := st.RevokeClaim(btx.Account, stx.Claim, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventClaimRevoked(event))
		}
	default:
		return nil, tx.ErrUnmatchedTxType
	}
	return
}

func (h *ClaimTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	_, err1 := h.apply(st, btx, true)
	if err1 != nil {
		h.logger.Info("CheckTx claim tx fail", "type", btx.Type, "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *ClaimTxHandler) NewContext(ctx context.Context) {}

func (h *ClaimTxHandler) handle(st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	events, err := h.apply(st, btx, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{Events: events}
	return
}

func (h *ClaimTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}

func (h *ClaimTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}
