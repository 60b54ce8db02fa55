package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"

	"github.com/phasefund/phasefund/state"
	"github.com/phasefund/phasefund/tx"
)

// TxHandler validates a tx against committed state (Check) and executes it
// against the working block state (Prepare during proposal building, Process
// during proposal verification and finalization). NewContext resets any
// per-block handler state.
type TxHandler interface {
	Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ResponseCheckTx, err error)
	NewContext(ctx context.Context)
	Prepare(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error)
	Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *abcitypes.ExecTxResult, err error)
}
