package indexer

import (
	"context"
	"errors"
	"time"

	abci "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	comethttp "github.com/cometbft/cometbft/rpc/client/http"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"github.com/phasefund/phasefund/types"
)

// ChainIndexer tails block results over RPC and mirrors the governance events
// into sqlite for the query service. It is an audit surface, never a control
// path: nothing here feeds back into consensus.
type ChainIndexer struct {
	logger        cmtlog.Logger
	Url           string
	Height        int64
	db            *gorm.DB
	cli           *comethttp.HTTP
	eventHandlers map[string]eventHandler
}

func NewChainIndexer(logger cmtlog.Logger, dbPath string, chainUrl string) (*ChainIndexer, error) {
	logger.Info("NewChainIndexer", "dbPath", dbPath, "url", chainUrl)
	cli, err := comethttp.New(chainUrl, "/websocket")
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Height{}, &Member{}, &Project{}, &VoteBallot{}, &VoteOutcome{}, &Release{}, &Pause{}).Error; err != nil {
		return nil, err
	}
	h := Height{Id: 1}
	if err = db.First(&h).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := ChainIndexer{
		logger:        logger.With("module", "indexer"),
		Url:           chainUrl,
		Height:        int64(h.Height + 1),
		db:            db,
		cli:           cli,
		eventHandlers: map[string]eventHandler{},
	}
	c.eventHandlers = map[string]eventHandler{
		types.EventMemberType:         c.handleEventMember,
		types.EventProjectCreatedType: c.handleEventProjectCreated,
		types.EventProjectStatusType:  c.handleEventProjectStatus,
		types.EventVoteCastType:       c.handleEventVoteCast,
		types.EventVoteFinalizedType:  c.handleEventVoteFinalized,
		types.EventFundsReleasedType:  c.handleEventFundsReleased,
		types.EventPauseAppliedType:   c.handleEventPauseApplied,
	}
	return &c, nil
}

type eventHandler func(ctx context.Context, event abci.Event, height int64)

func (c *ChainIndexer) handleEvent(ctx context.Context, event abci.Event, height int64) {
	if h, ok := c.eventHandlers[event.Type]; ok {
		h(ctx, event, height)
	}
}

func (c *ChainIndexer) handleEventMember(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventMember(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	m := Member{
		Id:       ev.Index,
		Address:  ev.Address,
		Role:     uint8(ev.Role),
		RegionId: ev.RegionID,
		Removed:  ev.Op == "remove",
		Height:   uint64(height),
	}
	if err := c.db.Save(&m).Error; err != nil {
		c.logger.Error("save member fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventProjectCreated(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventProjectCreated(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	p := Project{
		Id:              ev.Project.Hex(),
		ProposerIndex:   ev.ProposerIndex,
		ProposerAddress: ev.ProposerAddress,
		RegionId:        ev.RegionID,
		RequestedFunds:  ev.RequestedFunds,
		Duration:        ev.Duration,
		Status:          uint8(types.StatusActive),
		Phase:           uint8(types.PhaseInitial),
		CreateHeight:    uint64(height),
		UpdateHeight:    uint64(height),
	}
	if err := c.db.Save(&p).Error; err != nil {
		c.logger.Error("save project fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventProjectStatus(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventProjectStatus(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	var p Project
	if err := c.db.Where("id = ?", ev.Project.Hex()).First(&p).Error; err != nil {
		c.logger.Error("get project fail", "err", err)
		return
	}
	p.Status = uint8(ev.Status)
	p.Phase = uint8(ev.Phase)
	p.UpdateHeight = uint64(height)
	if err := c.db.Save(&p).Error; err != nil {
		c.logger.Error("save project fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventVoteCast(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventVoteCast(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	b := VoteBallot{
		Claim:        ev.Claim.Hex(),
		VoterIndex:   ev.VoterIndex,
		VoterAddress: ev.VoterAddress,
		Track:        uint8(ev.Track),
		Approve:      ev.Approve,
		Height:       uint64(height),
	}
	if err := c.db.Create(&b).Error; err != nil {
		c.logger.Error("save ballot fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventVoteFinalized(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventVoteFinalized(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	o := VoteOutcome{
		Claim:              ev.Claim.Hex(),
		Result:             uint8(ev.Result),
		OversightApprovals: ev.OversightApprovals,
		RegionalApprovals:  ev.RegionalApprovals,
		Height:             uint64(height),
	}
	if err := c.db.Save(&o).Error; err != nil {
		c.logger.Error("save outcome fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventFundsReleased(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventFundsReleased(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	r := Release{
		Project:   ev.Project.Hex(),
		Phase:     uint8(ev.Phase),
		Amount:    ev.Amount,
		Recipient: ev.Recipient,
		Height:    uint64(height),
	}
	if err := c.db.Create(&r).Error; err != nil {
		c.logger.Error("save release fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventPauseApplied(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventPauseApplied(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	p := Pause{
		Group:     uint8(ev.Group),
		Until:     ev.Until,
		Emergency: ev.Emergency,
		Height:    uint64(height),
	}
	if err := c.db.Create(&p).Error; err != nil {
		c.logger.Error("save pause fail", "err", err)
	}
}

func (c *ChainIndexer) Start(ctx context.Context) {
	var err error
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.cli == nil {
				c.cli, err = comethttp.New(c.Url, "/websocket")
				if err != nil {
					c.logger.Error("connect fail", "err", err)
					continue
				}
			}
			b, err := c.cli.Status(context.TODO())
			if err != nil {
				c.logger.Error("get status fail", "err", err)
				if !c.cli.IsRunning() {
					c.cli.Stop()
					c.cli, err = comethttp.New(c.Url, "/websocket")
					if err != nil {
						c.logger.Error("reconnect fail", "err", err)
						continue
					}
				}
				continue
			}
			for b.SyncInfo.LatestBlockHeight > c.Height {
				events, err := c.cli.BlockResults(ctx, &c.Height)
				if err != nil {
					c.logger.Error("get block results fail", "height", c.Height, "err", err)
					break
				}
				for _, res := range events.TxsResults {
					for _, event := range res.Events {
						c.handleEvent(ctx, event, c.Height)
					}
				}
				if err := c.db.Save(Height{
					Id:     1,
					Height: uint64(c.Height),
				}).Error; err != nil {
					c.logger.Error("save height fail", "err", err)
					break
				}
				c.Height++
			}
		}
	}
}

func (c *ChainIndexer) getProjects(page int, pageSize int) ([]Project, uint64, error) {
	var projects []Project
	err := c.db.Order("create_height desc").Offset(page * pageSize).Limit(pageSize).Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Project{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (c *ChainIndexer) getProjectById(id string) (Project, error) {
	var project Project
	err := c.db.Where("id = ?", id).First(&project).Error
	if err != nil {
		return Project{}, err
	}
	return project, nil
}

func (c *ChainIndexer) getBallotsByClaim(claim string, page int, pageSize int) ([]VoteBallot, uint64, error) {
	var ballots []VoteBallot
	err := c.db.Where("claim = ?", claim).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&ballots).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&VoteBallot{}).Where("claim = ?", claim).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return ballots, total, nil
}

func (c *ChainIndexer) getOutcomeByClaim(claim string) (*VoteOutcome, error) {
	var outcome VoteOutcome
	err := c.db.Where("claim = ?", claim).First(&outcome).Error
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (c *ChainIndexer) getReleasesByProject(project string) ([]Release, error) {
	var releases []Release
	err := c.db.Where("project = ?", project).Order("id desc").Find(&releases).Error
	if err != nil {
		return nil, err
	}
	return releases, nil
}

func (c *ChainIndexer) getPauses(page int, pageSize int) ([]Pause, uint64, error) {
	var pauses []Pause
	err := c.db.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&pauses).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Pause{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return pauses, total, nil
}

func (c *ChainIndexer) getMembers() ([]Member, error) {
	var members []Member
	err := c.db.Where("removed = ?", false).Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
