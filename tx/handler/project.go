package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/phasefund/phasefund/state"
	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

// ProjectTxHandler covers the lifecycle txs: creation, progress proofs,
// phase advancement and oversight status updates.
type ProjectTxHandler struct {
	logger cmtlog.Logger
}

func NewProjectTxHandler(logger cmtlog.Logger) (h *ProjectTxHandler) {
	h = &ProjectTxHandler{
		logger: logger.With("module", "projectTx"),
	}
	return
}

func (h *ProjectTxHandler) apply(st *state.State, btx *tx.Tx, checkOnly bool) (events []abcitypes.Event, err error) {
	switch stx := btx.Tx.(type) {
	case *tx.CreateProjectTx:
		event, err := st.CreateProject(btx.Account, stx.RequestedFunds, stx.Deposit, stx.RegionID, stx.Duration, stx.InitialClaim, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventProjectCreated(event))
		}
	case *tx.SubmitProgressTx:
		event, err := st.SubmitProgress(btx.Account, stx.Project, stx.Claim, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventClaimAccepted(event))
		}
	case *tx.AdvancePhaseTx:
		event, err := st.AdvancePhase(btx.Account, stx.Project, checkOnly)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, types.EncodeEventProjectStatus(event))
		}
	case *tx.UpdateStatusTx:
		event, err := st.UpdateStatus(btx.Account, stx.Project, stx.Status, checkOnly)
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

func (h *ProjectTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	_, err1 := h.apply(st, btx, true)
	if err1 != nil {
		h.logger.Info("CheckTx project tx fail", "type", btx.Type, "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *ProjectTxHandler) NewContext(ctx context.Context) {}

func (h *ProjectTxHandler) handle(st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	events, err := h.apply(st, btx, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{Events: events}
	return
}

func (h *ProjectTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}

func (h *ProjectTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(st, btx)
}
