package state

import "errors"

var ErrNotFound = errors.New("not found")

// Envelope verification.
var (
	ErrTxAccountNoexists = errors.New("account noexists")
	ErrTxNonceInvalid    = errors.New("nonce invalid")
	ErrTxSigInvalid      = errors.New("signature invalid")
)

// Authorization.
var (
	ErrUnauthorizedAdmin     = errors.New("caller is not an oversight member")
	ErrUnauthorizedDAO       = errors.New("caller holds no membership role")
	ErrUnauthorizedProposer  = errors.New("caller is not the project proposer")
	ErrUnauthorizedEmergency = errors.New("caller is not an emergency admin")
	ErrMemberNotFromRegion   = errors.New("regional member not bound to this region")
)

// State validity.
var (
	ErrAccountAlreadyExists  = errors.New("account already exists")
	ErrMemberNotFound        = errors.New("member not found")
	ErrMemberExists          = errors.New("member already registered")
	ErrInvalidRole           = errors.New("invalid membership role")
	ErrInvalidVoteState      = errors.New("vote already initialized")
	ErrVoteNotFound          = errors.New("vote noexists")
	ErrAlreadyVoted          = errors.New("voter already voted on this claim")
	ErrVoteAlreadyFinalized  = errors.New("vote already finalized")
	ErrProjectNotFound       = errors.New("project noexists")
	ErrProjectExists         = errors.New("project already exists")
	ErrProjectNotActive      = errors.New("project not active")
	ErrProjectNotCompletable = errors.New("project not completable")
	ErrInvalidPhase          = errors.New("no phase beyond completion")
	ErrPhaseNotApproved      = errors.New("phase vote not approved")
	ErrInvalidStatus         = errors.New("invalid status transition")
	ErrFundsAlreadyReleased  = errors.New("phase funds already released")
	ErrFundTransferFailed    = errors.New("fund transfer failed")
	ErrClaimExists           = errors.New("claim already registered")
	ErrClaimNotFound         = errors.New("claim noexists")
	ErrClaimBound            = errors.New("claim already bound to a project")
	ErrProposalNotFound      = errors.New("proposal noexists")
)

// Input validity.
var (
	ErrInvalidDuration      = errors.New("duration out of range")
	ErrEscrowMismatch       = errors.New("escrow deposit must equal requested funds")
	ErrInsufficientEscrow   = errors.New("insufficient balance for escrow deposit")
	ErrInvalidMilestone     = errors.New("milestone label not in checklist")
	ErrMilestonesLocked     = errors.New("milestones locked after proof submission")
	ErrMilestonesIncomplete = errors.New("phase milestones incomplete")
	ErrInvalidGroup         = errors.New("invalid function group")
)

// Timing.
var (
	ErrVotingPeriodNotEnded = errors.New("voting period not ended")
	ErrProjectFrozen        = errors.New("project is frozen")
	ErrTimelockNotExpired   = errors.New("timelock not expired")
)

// Governance blocking. ErrTimelockQueued is the expected first response of a
// two-call timelocked operation, not a failure.
var (
	ErrFunctionPaused                 = errors.New("function group currently paused")
	ErrInsufficientEmergencyApprovals = errors.New("insufficient emergency approvals")
	ErrTimelockQueued                 = errors.New("operation queued behind timelock")
)
