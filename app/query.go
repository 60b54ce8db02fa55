package app

import (
	"context"
	"encoding/json"
	"strings"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/phasefund/phasefund/state"
	"github.com/phasefund/phasefund/types"
)

func (app *App) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	path := req.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	q, ok := app.queriers[path]
	if !ok {
		res = &abcitypes.ResponseQuery{}
		res.Code = 404
		return
	}
	res, err = q.Query(ctx, req)
	return
}

type Querier interface {
	Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error)
}

type AccountQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewAccountQuerier(db *state.StateDB, logger cmtlog.Logger) (q *AccountQuerier) {
	q = &AccountQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *AccountQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	var a *state.Account
	var height uint64
	if len(req.Data) == 20 {
		a, height, _ = q.db.GetAccountByAddress(req.Data)
	} else if len(req.Data) <= 8 {
		var idx uint64
		for _, v := range req.Data {
			idx <<= 8
			idx |= uint64(v)
		}
		a, height, _ = q.db.GetAccountByIndex(idx)
	}
	if a != nil {
		res.Value, _ = json.Marshal(a)
		res.Height = int64(height)
	} else {
		res.Code = 1
	}
	return
}

// ProjectQuerier returns the full project record, which carries the phase
// pointer, milestone checklists, release flags and escrow balance.
type ProjectQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewProjectQuerier(db *state.StateDB, logger cmtlog.Logger) (q *ProjectQuerier) {
	q = &ProjectQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *ProjectQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	if len(req.Data) != common.HashLength {
		res.Code = 1
		return
	}
	project, height, err := q.db.GetProject(common.BytesToHash(req.Data))
	if err != nil {
		res.Code = 1
		res.Log = err.Error()
		err = nil
		return
	}
	res.Value, _ = json.Marshal(project)
	res.Height = int64(height)
	return
}

type VoteQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewVoteQuerier(db *state.StateDB, logger cmtlog.Logger) (q *VoteQuerier) {
	q = &VoteQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *VoteQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	if len(req.Data) != common.HashLength {
		res.Code = 1
		return
	}
	vote, height, err := q.db.GetVote(common.BytesToHash(req.Data))
	if err != nil {
		res.Code = 1
		res.Log = err.Error()
		err = nil
		return
	}
	res.Value, _ = json.Marshal(vote)
	res.Height = int64(height)
	return
}

// ParamsQuerier exposes the live protocol parameters: current phase weights,
// voting period and the per-group pause configs.
type ParamsQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewParamsQuerier(db *state.StateDB, logger cmtlog.Logger) (q *ParamsQuerier) {
	q = &ParamsQuerier{
		db:     db,
		logger: logger,
	}
	return
}

type paramsView struct {
	Weights      types.PhaseWeights           `json:"weights"`
	VotingPeriod int64                        `json:"votingPeriod"`
	Pauses       map[string]types.PauseConfig `json:"pauses"`
	Height       uint64                       `json:"height"`
}

func (q *ParamsQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	header := q.db.Header()
	view := paramsView{
		Weights:      header.Weights,
		VotingPeriod: header.VotingPeriod,
		Pauses:       make(map[string]types.PauseConfig, types.GroupCount),
		Height:       header.Height,
	}
	for g := types.FunctionGroup(0); g < types.GroupCount; g++ {
		cfg, err := q.db.GetPauseConfig(g)
		if err != nil {
			continue
		}
		view.Pauses[g.String()] = cfg
	}
	res.Value, _ = json.Marshal(view)
	res.Height = int64(header.Height)
	return
}
