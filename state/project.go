package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/phasefund/phasefund/config"
	"github.com/phasefund/phasefund/types"
)

func (s *State) GetProject(id common.Hash) (*types.Project, error) {
	var p types.Project
	ok, err := s.getRecord(fmt.Sprintf(KeyProject, id), &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProjectNotFound
	}
	return &p, nil
}

func (s *State) putProject(p *types.Project) error {
	return s.putRecord(fmt.Sprintf(KeyProject, p.ID), p)
}

// requireProposer loads the project and checks the caller owns it.
func (s *State) requireProposer(caller uint64, id common.Hash) (*Account, *types.Project, error) {
	acnt, err := s.GetAccount(caller)
	if err != nil {
		if err == ErrNotFound {
			err = ErrTxAccountNoexists
		}
		return nil, nil, err
	}
	project, err := s.GetProject(id)
	if err != nil {
		return nil, nil, err
	}
	if project.ProposerIndex != caller {
		return nil, nil, ErrUnauthorizedProposer
	}
	return acnt, project, nil
}

// CreateProject escrows the full requested amount up front and opens the
// initial-phase vote. The deposit must match the request exactly; there is no
// overpayment path and no top-up later.
func (s *State) CreateProject(caller uint64, requestedFunds uint64, deposit uint64, regionID uint64, duration int64, initialClaim common.Hash, checkOnly bool) (event *types.EventProjectCreated, err error) {
	proposer, err := s.GetAccount(caller)
	if err != nil {
		if err == ErrNotFound {
			err = ErrTxAccountNoexists
		}
		return nil, err
	}
	if err = s.checkPaused(types.GroupProjectCreation, checkOnly); err != nil {
		return nil, err
	}
	if duration < config.MinProjectDuration || duration > config.MaxProjectDuration {
		return nil, ErrInvalidDuration
	}
	if deposit != requestedFunds {
		return nil, ErrEscrowMismatch
	}
	if proposer.Balance < deposit {
		return nil, ErrInsufficientEscrow
	}
	id := DeriveProjectID(proposer.AddrBytes(), initialClaim, s.Now())
	exists, err := s.hasRecord(fmt.Sprintf(KeyProject, id))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrProjectExists
	}
	project := &types.Project{
		ID:               id,
		ProposerIndex:    caller,
		ProposerAddress:  proposer.Address(),
		RegionID:         regionID,
		RequestedFunds:   requestedFunds,
		EscrowBalance:    deposit,
		ExpectedDuration: duration,
		Status:           types.StatusActive,
		CurrentPhase:     types.PhaseInitial,
		CreatedAt:        s.Now(),
	}
	claim, err := s.acceptClaim(initialClaim, project, types.PhaseInitial)
	if err != nil {
		return nil, err
	}
	if checkOnly {
		return nil, nil
	}

	project.Claims[types.PhaseInitial] = initialClaim
	if err = s.bindClaim(claim, id, types.PhaseInitial); err != nil {
		return nil, err
	}
	if err = s.initVote(initialClaim, id, types.PhaseInitial); err != nil {
		return nil, err
	}
	proposer.Balance -= deposit
	s.markModified(proposer)
	if err = s.putProject(project); err != nil {
		return nil, err
	}
	s.bumpNonce(proposer)

	event = &types.EventProjectCreated{
		Project:         id,
		ProposerIndex:   caller,
		ProposerAddress: proposer.Address(),
		RegionID:        regionID,
		RequestedFunds:  requestedFunds,
		Duration:        duration,
		Claim:           initialClaim,
	}
	return
}

// SubmitProgress attaches the phase proof. At most one proof is live per
// phase: resubmitting before the prior vote finalizes discards that proof and
// its in-flight tally rather than erroring, so a proposer can correct a bad
// submission without waiting out the deadline.
func (s *State) SubmitProgress(caller uint64, projectID common.Hash, claimID common.Hash, checkOnly bool) (event *types.EventClaim, err error) {
	proposer, project, err := s.requireProposer(caller, projectID)
	if err != nil {
		return nil, err
	}
	if err = s.checkPaused(types.GroupProjectProgress, checkOnly); err != nil {
		return nil, err
	}
	if project.Status != types.StatusActive {
		return nil, ErrProjectNotActive
	}
	phase := project.CurrentPhase
	if prior := project.Claims[phase]; prior != (common.Hash{}) {
		vote, err := s.GetVote(prior)
		if err != nil {
			return nil, err
		}
		if vote.Finalized {
			return nil, ErrVoteAlreadyFinalized
		}
	}
	claim, err := s.acceptClaim(claimID, project, phase)
	if err != nil {
		return nil, err
	}
	if checkOnly {
		return nil, nil
	}

	if prior := project.Claims[phase]; prior != (common.Hash{}) {
		s.dropVote(prior)
	}
	project.Claims[phase] = claimID
	if err = s.bindClaim(claim, projectID, phase); err != nil {
		return nil, err
	}
	if err = s.initVote(claimID, projectID, phase); err != nil {
		return nil, err
	}
	if err = s.putProject(project); err != nil {
		return nil, err
	}
	s.bumpNonce(proposer)

	event = &types.EventClaim{Claim: claimID, Project: projectID, Phase: phase, Issuer: claim.Issuer}
	return
}

// AdvancePhase moves the phase pointer forward once the live proof's vote
// approved. The new phase starts with an empty proof slot; its vote is opened
// when the next proof arrives.
func (s *State) AdvancePhase(caller uint64, projectID common.Hash, checkOnly bool) (event *types.EventProjectStatus, err error) {
	proposer, project, err := s.requireProposer(caller, projectID)
	if err != nil {
		return nil, err
	}
	if err = s.checkPaused(types.GroupProjectProgress, checkOnly); err != nil {
		return nil, err
	}
	if project.Status != types.StatusActive {
		return nil, ErrProjectNotActive
	}
	if project.Frozen(s.Now()) {
		return nil, ErrProjectFrozen
	}
	if project.CurrentPhase >= types.PhaseCompletion {
		return nil, ErrInvalidPhase
	}
	if err = s.approvedClaim(project, project.CurrentPhase); err != nil {
		return nil, err
	}
	if checkOnly {
		return nil, nil
	}

	project.CurrentPhase += 1
	if err = s.putProject(project); err != nil {
		return nil, err
	}
	s.bumpNonce(proposer)

	event = &types.EventProjectStatus{Project: projectID, Status: project.Status, Phase: project.CurrentPhase}
	return
}

func validStatusTransition(from, to types.ProjectStatus) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case types.StatusActive:
		return from == types.StatusPaused
	case types.StatusPaused:
		return from == types.StatusActive
	case types.StatusCompleted, types.StatusRejected, types.StatusFailed, types.StatusCancelled:
		return true
	}
	return false
}

// UpdateStatus is the oversight lifecycle lever. Completion is the only
// guarded target: the project must sit at the completion phase with that
// phase's vote approved. Any other terminal status returns the remaining
// escrow to the proposer.
func (s *State) UpdateStatus(caller uint64, projectID common.Hash, status types.ProjectStatus, checkOnly bool) (event *types.EventProjectStatus, err error) {
	admin, err := s.requireOversight(caller)
	if err != nil {
		return nil, err
	}
	if err = s.checkPaused(types.GroupProjectManagement, checkOnly); err != nil {
		return nil, err
	}
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	if !validStatusTransition(project.Status, status) {
		return nil, ErrInvalidStatus
	}
	if status == types.StatusCompleted {
		if project.CurrentPhase != types.PhaseCompletion {
			return nil, ErrProjectNotCompletable
		}
		if err = s.approvedClaim(project, types.PhaseCompletion); err != nil {
			if err == ErrPhaseNotApproved {
				err = ErrProjectNotCompletable
			}
			return nil, err
		}
	}
	if checkOnly {
		return nil, nil
	}

	project.Status = status
	if status.Terminal() && status != types.StatusCompleted && project.EscrowBalance > 0 {
		refund := project.EscrowBalance
		project.EscrowBalance = 0
		if !s.transfer.Transfer(s, project.ProposerIndex, refund) {
			return nil, ErrFundTransferFailed
		}
	}
	if err = s.putProject(project); err != nil {
		return nil, err
	}
	s.bumpNonce(admin)

	event = &types.EventProjectStatus{Project: projectID, Status: status, Phase: project.CurrentPhase}
	return
}

// EmergencyFreeze blocks phase advancement and fund release without touching
// in-flight votes. Deliberation continues while outcomes are held.
func (s *State) EmergencyFreeze(caller uint64, projectID common.Hash, duration int64, checkOnly bool) (event *types.EventProjectFrozen, err error) {
	admin, err := s.requireEmergencyAdmin(caller)
	if err != nil {
		return nil, err
	}
	if duration <= 0 || duration > config.MaxFreezeDuration {
		return nil, ErrInvalidDuration
	}
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.Status.Terminal() {
		return nil, ErrInvalidStatus
	}
	if checkOnly {
		return nil, nil
	}

	project.FrozenUntil = s.Now() + duration
	if err = s.putProject(project); err != nil {
		return nil, err
	}
	s.bumpNonce(admin)

	event = &types.EventProjectFrozen{Project: projectID, Until: project.FrozenUntil}
	return
}

// ReassignProject hands a project to a new proposer. This is the heaviest
// override in the system: it needs distinct-admin emergency consensus on the
// opId and rides the two-call timelock.
func (s *State) ReassignProject(caller uint64, projectID common.Hash, newProposer uint64, checkOnly bool) (event *types.EventProjectStatus, err error) {
	admin, err := s.requireEmergencyAdmin(caller)
	if err != nil {
		return nil, err
	}
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.Status.Terminal() {
		return nil, ErrInvalidStatus
	}
	next, err := s.GetAccount(newProposer)
	if err != nil {
		if err == ErrNotFound {
			err = ErrTxAccountNoexists
		}
		return nil, err
	}
	opID := ReassignOpID(projectID, newProposer)
	// peek consensus before touching the timelock so a queue or consume never
	// happens for an opId that cannot execute anyway
	if err = s.requireEmergencyConsensus(opID, true); err != nil {
		return nil, err
	}
	if err = s.checkTimelock(opID, checkOnly); err != nil {
		if err == ErrTimelockQueued && !checkOnly {
			// first call queues; burn the nonce so the tx commits
			s.bumpNonce(admin)
		}
		return nil, err
	}
	if err = s.requireEmergencyConsensus(opID, checkOnly); err != nil {
		return nil, err
	}
	if checkOnly {
		return nil, nil
	}

	project.ProposerIndex = next.Index
	project.ProposerAddress = next.Address()
	if err = s.putProject(project); err != nil {
		return nil, err
	}
	s.bumpNonce(admin)

	event = &types.EventProjectStatus{Project: projectID, Status: project.Status, Phase: project.CurrentPhase}
	return
}

// ReassignOpID is the consensus and timelock key for one concrete
// reassignment target.
func ReassignOpID(project common.Hash, newProposer uint64) common.Hash {
	return crypto.Keccak256Hash([]byte("reassign"), project[:], []byte(fmt.Sprintf("%v", newProposer)))
}
