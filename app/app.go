package app

import (
	"context"
	"encoding/json"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cometbft/cometbft/store"
	"github.com/ethereum/go-ethereum/common"

	"github.com/phasefund/phasefund/config"
	"github.com/phasefund/phasefund/state"
	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/tx/handler"
	"github.com/phasefund/phasefund/types"
)

type finalizeBlock struct {
	Height uint64
	Hash   common.Hash
}

func (b *finalizeBlock) Set(blk *abcitypes.RequestFinalizeBlock) {
	b.Height = uint64(blk.Height)
	b.Hash = common.BytesToHash(blk.Hash)
}

var _ abcitypes.Application = &App{}

// App is the governance ledger behind the consensus engine: escrowed
// projects, dual-quorum votes and the meta-governance controls, all keyed
// into one iavl-backed state.
type App struct {
	cfg    *config.AppConfig
	logger cmtlog.Logger

	db       *state.StateDB
	lastBlk  finalizeBlock
	txHdlrs  map[tx.TxType]handler.TxHandler
	queriers map[string]Querier

	st *state.State
}

func NewApp(cfg *config.AppConfig, logger cmtlog.Logger) (app *App, err error) {
	logger = logger.With("module", "app")

	dir := cfg.Home + "/data"
	db, err := state.NewStateDB(dir, logger)
	if err != nil {
		return nil, err
	}

	app = &App{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		txHdlrs:  make(map[tx.TxType]handler.TxHandler),
		queriers: make(map[string]Querier),
	}
	app.registerTxHandler()
	app.registerQuerier()
	return
}

func (app *App) Start(bs *store.BlockStore) {
	height := app.db.Header().Height
	if height > 0 {
		blk := bs.LoadBlock(int64(height))
		if blk == nil {
			panic("unexpected BlockStore")
		}
		app.lastBlk.Height = height
		app.lastBlk.Hash = common.BytesToHash(blk.Hash())
	}
}

func (app *App) Stop() {
	err := app.db.Close()
	if err != nil {
		app.logger.Error("close db fail", "err", err)
	}
	app.logger.Info("pfd app stopped")
}

func (app *App) DB() *state.StateDB {
	return app.db
}

func (app *App) registerTxHandler() {
	member := handler.NewMemberTxHandler(app.logger)
	project := handler.NewProjectTxHandler(app.logger)
	vote := handler.NewVoteTxHandler(app.logger)
	milestone := handler.NewMilestoneTxHandler(app.logger)
	escrow := handler.NewEscrowTxHandler(app.logger)
	governance := handler.NewGovernanceTxHandler(app.logger)
	claim := handler.NewClaimTxHandler(app.logger)
	app.txHdlrs = map[tx.TxType]handler.TxHandler{
		tx.TxTypeMember:           member,
		tx.TxTypeCreateProject:    project,
		tx.TxTypeSubmitProgress:   project,
		tx.TxTypeAdvancePhase:     project,
		tx.TxTypeUpdateStatus:     project,
		tx.TxTypeCastVote:         vote,
		tx.TxTypeFinalizeVote:     vote,
		tx.TxTypeMilestone:        milestone,
		tx.TxTypeReleaseFunds:     escrow,
		tx.TxTypeProposeWeights:   escrow,
		tx.TxTypeVoteWeights:      escrow,
		tx.TxTypeProposePause:     governance,
		tx.TxTypePauseVote:        governance,
		tx.TxTypeEmergencyPause:   governance,
		tx.TxTypeEmergencyApprove: governance,
		tx.TxTypeFreeze:           governance,
		tx.TxTypeReassign:         governance,
		tx.TxTypeSubmitClaim:      claim,
		tx.TxTypeRevokeClaim:      claim,
	}
}

func (app *App) registerQuerier() {
	app.queriers["/accounts/"] = NewAccountQuerier(app.db, app.logger)
	app.queriers["/projects/"] = NewProjectQuerier(app.db, app.logger)
	app.queriers["/votes/"] = NewVoteQuerier(app.db, app.logger)
	app.queriers["/params/"] = NewParamsQuerier(app.db, app.logger)
}

// InitChain seeds the bootstrap membership from the app state. Without an app
// state, the consensus validators double as the oversight committee so a dev
// chain is usable out of the box.
func (app *App) InitChain(_ context.Context, chain *abcitypes.RequestInitChain) (res *abcitypes.ResponseInitChain, err error) {
	st := app.db.NewState()
	st.SetChainId(chain.ChainId)
	st.SetBlockTime(chain.Time.Unix())
	st.SetVotingPeriod(app.cfg.BoundedVotingPeriod())
	st.SetWeights(config.DefaultPhaseWeights)

	var appState types.GenesisAppState
	if len(chain.AppStateBytes) > 0 {
		if err = json.Unmarshal(chain.AppStateBytes, &appState); err != nil {
			app.logger.Error("InitChain parse app state fail", "err", err)
			return nil, err
		}
	}
	if appState.Weights != nil {
		if err = appState.Weights.Validate(); err != nil {
			return nil, err
		}
		st.SetWeights(*appState.Weights)
	}
	if len(appState.Members) > 0 {
		for _, m := range appState.Members {
			acnt := state.Account{
				Role:           m.Role,
				RegionID:       m.RegionID,
				Balance:        m.Balance,
				EmergencyAdmin: m.EmergencyAdmin,
			}
			acnt.SetPubKey(m.PubKey)
			if err = st.AddAccount(&acnt); err != nil {
				app.logger.Error("InitChain add member fail", "err", err)
				return nil, err
			}
		}
	} else {
		for _, v := range chain.Validators {
			var acnt state.Account
			acnt.SetPubKey(v.PubKey.GetEd25519())
			acnt.Role = types.RoleOversight
			if err = st.AddAccount(&acnt); err != nil {
				app.logger.Error("InitChain add account fail", "err", err)
				return nil, err
			}
		}
	}

	var h common.Hash
	_, err = st.Update()
	if err != nil {
		app.logger.Error("InitChain update state fail", "err", err)
		return nil, err
	}
	h, err = app.db.SetState(st)
	if err != nil {
		app.logger.Error("InitChain apply state fail", "err", err)
		return nil, err
	}
	return &abcitypes.ResponseInitChain{
		AppHash: h.Bytes(),
	}, nil
}

func (app *App) Info(ctx context.Context, info *abcitypes.RequestInfo) (*abcitypes.ResponseInfo, error) {
	header := app.db.Header()
	return &abcitypes.ResponseInfo{
		LastBlockHeight:  int64(header.Height),
		LastBlockAppHash: header.Hash,
	}, nil
}

func (app *App) ExtendVote(_ context.Context, extend *abcitypes.RequestExtendVote) (*abcitypes.ResponseExtendVote, error) {
	return &abcitypes.ResponseExtendVote{}, nil
}

func (app *App) VerifyVoteExtension(_ context.Context, verify *abcitypes.RequestVerifyVoteExtension) (*abcitypes.ResponseVerifyVoteExtension, error) {
	return &abcitypes.ResponseVerifyVoteExtension{}, nil
}

func (app *App) ApplySnapshotChunk(context.Context, *abcitypes.RequestApplySnapshotChunk) (*abcitypes.ResponseApplySnapshotChunk, error) {
	return nil, nil
}

func (app *App) ListSnapshots(context.Context, *abcitypes.RequestListSnapshots) (*abcitypes.ResponseListSnapshots, error) {
	return nil, nil
}

func (app *App) LoadSnapshotChunk(context.Context, *abcitypes.RequestLoadSnapshotChunk) (*abcitypes.ResponseLoadSnapshotChunk, error) {
	return nil, nil
}

func (app *App) OfferSnapshot(context.Context, *abcitypes.RequestOfferSnapshot) (*abcitypes.ResponseOfferSnapshot, error) {
	return nil, nil
}
