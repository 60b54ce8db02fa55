package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/phasefund/phasefund/state"
	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

// GovernanceTxHandler covers pause governance, emergency approvals and the
// emergency project overrides. A timelock-queue outcome from the reassign tx
// is a successful execution: the queue write must commit with the block.
type GovernanceTxHandler struct {
	logger cmtlog.Logger
}

func NewGovernanceTxHandler(logger cmtlog.Logger) (h *GovernanceTxHandler) {
	h = &GovernanceTxHandler{
		logger: logger.With("module", "governanceTx"),
	}
	return
}

func (h *GovernanceTxHandler) apply(st *state.State, btx *tx.Tx, checkOnly bool) (events []abcitypes.Event, err error) {
	switch stx := btx.Tx.(type) {
	case *tx.ProposePauseTx:
		event, err := st.ProposePause(btx.Account, stx.Group, stx.Duration, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventPauseProposed(event))
		}
	case *tx.PauseVoteTx:
		event, applied, err := st.CastPauseVote(btx.Account, stx.Proposal, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventPauseVote(event))
		}
		if applied != nil {
			events = append(events, types.EncodeEventPauseApplied(applied))
		}
	case *tx.EmergencyPauseTx:
		event, err := st.EmergencyPause(btx.Account, stx.Group, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventPauseApplied(event))
		}
	case *tx.EmergencyApproveTx:
		event, err := st.ApproveEmergency(btx.Account, stx.OpID, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventEmergency(event))
		}
	case *tx.FreezeTx:
		event, err := st.EmergencyFreeze(btx.Account, stx.Project, stx.Duration, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventProjectFrozen(event))
		}
	case *tx.ReassignTx:
		event, err := st.ReassignProject(btx.Account, stx.Project, stx.NewProposer, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventProjectStatus(event))
		}
	default:
		return nil, tx.ErrUnmatchedTxType
	}
	return
}

func (h *GovernanceTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	_, err1 := h.apply(st, btx, true)
	if err1 != nil && err1 != state.ErrTimelockQueued {
		h.logger.Info("CheckTx governance tx fail", "type", btx.Type, "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *GovernanceTxHandler) NewContext(ctx context.Context) {}

func (h *GovernanceTxHandler) handle(st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	events, err := h.apply(st, btx, false)
	if err == state.ErrTimelockQueued {
		return &abcitypes.ExecTxResult{Log: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{Events: events}
	return
}

func (h *GovernanceTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}

func (h *GovernanceTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}
