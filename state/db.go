package state

import (
	"sync"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	"github.com/ethereum/go-ethereum/common"

	"github.com/phasefund/phasefund/types"
)

type StateDB struct {
	mtx sync.RWMutex

	dir    string
	logger cmtlog.Logger
	db     *iavl.MutableTree

	state *State
}

func NewStateDB(dir string, logger cmtlog.Logger) (db *StateDB, err error) {
	logger = logger.With("module", "pfddb")
	ldb, err := dbm.NewDB("pfd", "goleveldb", dir)
	if err != nil {
		return nil, err
	}
	return openStateDB(dir, ldb, logger)
}

// NewMemStateDB backs the tree with an in-memory store. Test only.
func NewMemStateDB(logger cmtlog.Logger) (db *StateDB, err error) {
	ldb, err := dbm.NewDB("pfd", "memdb", "")
	if err != nil {
		return nil, err
	}
	return openStateDB("", ldb, logger.With("module", "pfddb"))
}

func openStateDB(dir string, ldb dbm.DB, logger cmtlog.Logger) (db *StateDB, err error) {
	tdb := iavl.NewMutableTree(ldb, 128, true, Cometbft2CosmosLogger(logger))
	version, err := tdb.Load()
	if err != nil {
		return nil, err
	}
	logger.Info("load db success", "version", version)
	st := newState(tdb, logger)
	err = st.load()
	if err != nil {
		logger.Error("from pfddb load fail", "err", err)
		return nil, err
	}
	db = &StateDB{
		dir:    dir,
		logger: logger,
		db:     tdb,
		state:  st,
	}
	return
}

func (db *StateDB) Close() (err error) {
	err = db.db.Close()
	return
}

func (db *StateDB) Header() (header *StateHeader) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	header = db.state.Header()
	return
}

func (db *StateDB) State() *State {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	return db.state
}

func (db *StateDB) NewState() (st *State) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	st = db.state.nextState()
	return
}

func (db *StateDB) SetState(st *State) (hash common.Hash, err error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	hash, err = st.save()
	if err != nil {
		return
	}
	db.state = st
	return
}

func (db *StateDB) GetAccountByIndex(idx uint64) (acnt *Account, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	acnt, err = db.state.GetAccount(idx)
	if err != nil {
		return
	}
	if acnt != nil {
		acnt = acnt.Clone()
	}
	height = db.state.header.Height
	return
}

func (db *StateDB) GetAccountByAddress(addr []byte) (acnt *Account, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	acnt, err = db.state.FindAccount(addr)
	if err != nil {
		return
	}
	if acnt != nil {
		acnt = acnt.Clone()
	}
	height = db.state.header.Height
	return
}

func (db *StateDB) GetProject(id common.Hash) (project *types.Project, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	project, err = db.state.GetProject(id)
	if err != nil {
		return
	}
	height = db.state.header.Height
	return
}

func (db *StateDB) GetVote(claim common.Hash) (vote *types.Vote, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	vote, err = db.state.GetVote(claim)
	if err != nil {
		return
	}
	height = db.state.header.Height
	return
}

func (db *StateDB) GetPauseConfig(group types.FunctionGroup) (cfg types.PauseConfig, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	cfg, err = db.state.PauseConfigOf(group)
	return
}

func (db *StateDB) Weights() types.PhaseWeights {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	return db.state.Weights()
}
