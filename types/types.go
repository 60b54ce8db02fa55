package types

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Role is the membership track an account belongs to. Regional members are
// bound to exactly one region; oversight members are region-free.
type Role uint8

const (
	RoleNone      Role = 0
	RoleRegional  Role = 1
	RoleOversight Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleRegional:
		return "regional"
	case RoleOversight:
		return "oversight"
	default:
		return "none"
	}
}

// Phase is one of the three sequential project stages. The phase pointer on a
// project only ever moves forward.
type Phase uint8

const (
	PhaseInitial    Phase = 0
	PhaseProgress   Phase = 1
	PhaseCompletion Phase = 2

	PhaseCount = 3
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseProgress:
		return "progress"
	case PhaseCompletion:
		return "completion"
	default:
		return "invalid"
	}
}

func (p Phase) Valid() bool {
	return p < PhaseCount
}

type ProjectStatus uint8

const (
	StatusActive    ProjectStatus = 1
	StatusCompleted ProjectStatus = 2
	StatusRejected  ProjectStatus = 3
	StatusFailed    ProjectStatus = 4
	StatusCancelled ProjectStatus = 5
	StatusPaused    ProjectStatus = 6
)

func (s ProjectStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further lifecycle transition is allowed.
func (s ProjectStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// PhaseChecklist is the per-phase milestone checklist. Labels keep submission
// order; Done is keyed by label.
type PhaseChecklist struct {
	Labels []string        `json:"labels"`
	Done   map[string]bool `json:"done"`
}

// Complete folds the checklist. An empty checklist is vacuously complete.
func (pp *PhaseChecklist) Complete() bool {
	for _, l := range pp.Labels {
		if !pp.Done[l] {
			return false
		}
	}
	return true
}

func (pp *PhaseChecklist) Has(label string) bool {
	for _, l := range pp.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Project is the escrowed grant a proposer works through phase by phase.
// Claims holds the live state-proof claim id per phase; FundsReleased is the
// at-most-once release flag per phase.
type Project struct {
	ID               common.Hash                `json:"id"`
	ProposerIndex    uint64                     `json:"proposerIndex"`
	ProposerAddress  string                     `json:"proposerAddress"`
	RegionID         uint64                     `json:"regionId"`
	RequestedFunds   uint64                     `json:"requestedFunds"`
	EscrowBalance    uint64                     `json:"escrowBalance"`
	ExpectedDuration int64                      `json:"expectedDuration"`
	Status           ProjectStatus              `json:"status"`
	CurrentPhase     Phase                      `json:"currentPhase"`
	CreatedAt        int64                      `json:"createdAt"`
	FrozenUntil      int64                      `json:"frozenUntil"`
	FundsReleased    [PhaseCount]bool           `json:"fundsReleased"`
	Claims           [PhaseCount]common.Hash    `json:"claims"`
	Milestones       [PhaseCount]PhaseChecklist `json:"milestones"`
}

func (p *Project) Frozen(now int64) bool {
	return p.FrozenUntil > now
}

type VoteResult uint8

const (
	VotePending  VoteResult = 0
	VoteApproved VoteResult = 1
	VoteRejected VoteResult = 2
)

func (r VoteResult) String() string {
	switch r {
	case VoteApproved:
		return "approved"
	case VoteRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Vote is the dual-quorum tally for one claim. Reject counts are recorded for
// audit only; neither track alone ever decides the outcome.
type Vote struct {
	Claim              common.Hash `json:"claim"`
	Project            common.Hash `json:"project"`
	Phase              Phase       `json:"phase"`
	OversightRequired  uint64      `json:"oversightRequired"`
	RegionalRequired   uint64      `json:"regionalRequired"`
	OversightApprovals uint64      `json:"oversightApprovals"`
	RegionalApprovals  uint64      `json:"regionalApprovals"`
	OversightRejects   uint64      `json:"oversightRejects"`
	RegionalRejects    uint64      `json:"regionalRejects"`
	Deadline           int64       `json:"deadline"`
	Result             VoteResult  `json:"result"`
	Finalized          bool        `json:"finalized"`
}

// QuorumReached reports whether both tracks hit their thresholds.
func (v *Vote) QuorumReached() bool {
	return v.OversightApprovals >= v.OversightRequired &&
		v.RegionalApprovals >= v.RegionalRequired
}

// FunctionGroup is a bucket of operations that pauses as a unit.
type FunctionGroup uint8

const (
	GroupVoting            FunctionGroup = 0
	GroupProjectCreation   FunctionGroup = 1
	GroupProjectProgress   FunctionGroup = 2
	GroupMembership        FunctionGroup = 3
	GroupProjectManagement FunctionGroup = 4
	GroupFundManagement    FunctionGroup = 5

	GroupCount = 6
)

func (g FunctionGroup) String() string {
	switch g {
	case GroupVoting:
		return "voting"
	case GroupProjectCreation:
		return "project_creation"
	case GroupProjectProgress:
		return "project_progress"
	case GroupMembership:
		return "membership"
	case GroupProjectManagement:
		return "project_management"
	case GroupFundManagement:
		return "fund_management"
	default:
		return "unknown"
	}
}

func (g FunctionGroup) Valid() bool {
	return g < GroupCount
}

type PauseConfig struct {
	Paused    bool  `json:"paused"`
	PauseEnds int64 `json:"pauseEnds"`
}

// Active evaluates the config lazily against block time; an expired pause is
// treated as lifted even before the record is rewritten.
func (c *PauseConfig) Active(now int64) bool {
	return c.Paused && now < c.PauseEnds
}

type PauseProposal struct {
	ID            uint64        `json:"id"`
	Group         FunctionGroup `json:"group"`
	Duration      int64         `json:"duration"`
	ProposedAt    int64         `json:"proposedAt"`
	VotesRequired uint64        `json:"votesRequired"`
	VotesReceived uint64        `json:"votesReceived"`
	Executed      bool          `json:"executed"`
}

type WeightProposal struct {
	ID            uint64       `json:"id"`
	Weights       PhaseWeights `json:"weights"`
	ProposedAt    int64        `json:"proposedAt"`
	VotesRequired uint64       `json:"votesRequired"`
	VotesReceived uint64       `json:"votesReceived"`
	Executed      bool         `json:"executed"`
}

// PhaseWeights splits the requested funds across phases, in percent.
type PhaseWeights struct {
	Initial    uint64 `json:"initial"`
	Progress   uint64 `json:"progress"`
	Completion uint64 `json:"completion"`
}

var ErrInvalidWeightTotal = errors.New("phase weights must sum to 100")

func (w PhaseWeights) Validate() error {
	if w.Initial+w.Progress+w.Completion != 100 {
		return ErrInvalidWeightTotal
	}
	return nil
}

func (w PhaseWeights) Of(p Phase) uint64 {
	switch p {
	case PhaseInitial:
		return w.Initial
	case PhaseProgress:
		return w.Progress
	case PhaseCompletion:
		return w.Completion
	}
	return 0
}

// TimelockEntry records the first call of a timelocked admin operation.
type TimelockEntry struct {
	OpID     common.Hash `json:"opId"`
	QueuedAt int64       `json:"queuedAt"`
}
