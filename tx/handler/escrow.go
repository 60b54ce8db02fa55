package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/phasefund/phasefund/state"
	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

// EscrowTxHandler covers fund release and the phase-weight governance txs.
type EscrowTxHandler struct {
	logger cmtlog.Logger
}

func NewEscrowTxHandler(logger cmtlog.Logger) (h *EscrowTxHandler) {
	h = &EscrowTxHandler{
		logger: logger.With("module", "escrowTx"),
	}
	return
}

func (h *EscrowTxHandler) apply(st *state.State, btx *tx.Tx, checkOnly bool) (events []abcitypes.Event, err error) {
	switch stx := btx.Tx.(type) {
	case *tx.ReleaseFundsTx:
		event, err := st.ReleasePhaseFunds(btx.Account, stx.Project, stx.Phase, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventFundsReleased(event))
		}
	case *tx.ProposeWeightsTx:
		event, err := st.ProposeWeights(btx.Account, stx.Weights, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventWeightsProposed(event))
		}
	case *tx.VoteWeightsTx:
		event, updated, err := st.VoteWeights(btx.Account, stx.Proposal, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventWeightsProposed(event))
		}
		if updated != nil {
			events = append(events, types.EncodeEventWeightsUpdated(updated))
		}
	default:
		return nil, tx.ErrUnmatchedTxType
	}
	return
}

func (h *EscrowTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	_, err1 := h.apply(st, btx, true)
	if err1 != nil {
		h.logger.Info("CheckTx escrow tx fail", "type", btx.Type, "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *EscrowTxHandler) NewContext(ctx context.Context) {}

func (h *EscrowTxHandler) handle(st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	events, err := h.apply(st, btx, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{Events: events}
	return
}

func (h *EscrowTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}

func (h *EscrowTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}
