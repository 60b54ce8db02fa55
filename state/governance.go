package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/phasefund/phasefund/config"
	"github.com/phasefund/phasefund/types"
)

// checkPaused gates an operation on its function group. An expired pause is
// lifted lazily here, on the next guarded call; there is no background timer,
// so callers must never cache pause state across operations.
func (s *State) checkPaused(group types.FunctionGroup, checkOnly bool) error {
	var cfg types.PauseConfig
	key := fmt.Sprintf(KeyPauseConfig, uint8(group))
	ok, err := s.getRecord(key, &cfg)
	if err != nil {
		return err
	}
	if !ok || !cfg.Paused {
		return nil
	}
	if cfg.Active(s.Now()) {
		return ErrFunctionPaused
	}
	if !checkOnly {
		if err := s.putRecord(key, &types.PauseConfig{}); err != nil {
			return err
		}
	}
	return nil
}

// PauseConfigOf is a pure read for the query surface.
func (s *State) PauseConfigOf(group types.FunctionGroup) (types.PauseConfig, error) {
	var cfg types.PauseConfig
	_, err := s.getRecord(fmt.Sprintf(KeyPauseConfig, uint8(group)), &cfg)
	return cfg, err
}

func (s *State) applyPause(group types.FunctionGroup, until int64) error {
	key := fmt.Sprintf(KeyPauseConfig, uint8(group))
	return s.putRecord(key, &types.PauseConfig{Paused: true, PauseEnds: until})
}

// ProposePause opens a standard pause proposal requiring an oversight
// supermajority.
func (s *State) ProposePause(caller uint64, group types.FunctionGroup, duration int64, checkOnly bool) (event *types.EventPauseProposed, err error) {
	admin, err := s.requireOversight(caller)
	if err != nil {
		return nil, err
	}
	if !group.Valid() {
		return nil, ErrInvalidGroup
	}
	if duration <= 0 || duration > config.MaxStandardPauseDuration {
		return nil, ErrInvalidDuration
	}
	if checkOnly {
		return nil, nil
	}

	s.header.PauseProposalIdx += 1
	prop := types.PauseProposal{
		ID:            s.header.PauseProposalIdx,
		Group:         group,
		Duration:      duration,
		ProposedAt:    s.Now(),
		VotesRequired: config.Supermajority(s.header.OversightCount),
	}
	if err = s.putRecord(fmt.Sprintf(KeyPauseProposal, prop.ID), &prop); err != nil {
		return nil, err
	}
	s.bumpNonce(admin)

	event = &types.EventPauseProposed{Proposal: prop.ID, Group: group, Duration: duration}
	return
}

// CastPauseVote counts one oversight vote. Crossing the threshold pauses the
// group immediately; votes after execution are no-ops so a late voter does
// not race the execution.
func (s *State) CastPauseVote(caller uint64, proposalID uint64, checkOnly bool) (event *types.EventPauseVote, applied *types.EventPauseApplied, err error) {
	voter, err := s.requireOversight(caller)
	if err != nil {
		return nil, nil, err
	}
	var prop types.PauseProposal
	ok, err := s.getRecord(fmt.Sprintf(KeyPauseProposal, proposalID), &prop)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrProposalNotFound
	}
	if prop.Executed {
		// late vote, deliberately not an error; the tx still consumes the
		// sender's nonce so it cannot be replayed
		if !checkOnly {
			s.bumpNonce(voter)
		}
		return nil, nil, nil
	}
	markKey := fmt.Sprintf(KeyPauseVoterMark, proposalID, caller)
	voted, err := s.hasRecord(markKey)
	if err != nil {
		return nil, nil, err
	}
	if voted {
		return nil, nil, ErrAlreadyVoted
	}
	if checkOnly {
		return nil, nil, nil
	}

	if err = s.putRecord(markKey, true); err != nil {
		return nil, nil, err
	}
	prop.VotesReceived += 1
	if prop.VotesReceived >= prop.VotesRequired {
		prop.Executed = true
		until := s.Now() + prop.Duration
		if err = s.applyPause(prop.Group, until); err != nil {
			return nil, nil, err
		}
		applied = &types.EventPauseApplied{Group: prop.Group, Until: until}
	}
	if err = s.putRecord(fmt.Sprintf(KeyPauseProposal, proposalID), &prop); err != nil {
		return nil, nil, err
	}
	s.bumpNonce(voter)

	event = &types.EventPauseVote{Proposal: proposalID, VoterIndex: caller}
	return
}

// EmergencyPause bypasses deliberation: emergency admins only, fixed short
// duration.
func (s *State) EmergencyPause(caller uint64, group types.FunctionGroup, checkOnly bool) (event *types.EventPauseApplied, err error) {
	admin, err := s.requireEmergencyAdmin(caller)
	if err != nil {
		return nil, err
	}
	if !group.Valid() {
		return nil, ErrInvalidGroup
	}
	if checkOnly {
		return nil, nil
	}

	until := s.Now() + config.EmergencyPauseDuration
	if err = s.applyPause(group, until); err != nil {
		return nil, err
	}
	s.bumpNonce(admin)

	event = &types.EventPauseApplied{Group: group, Until: until, Emergency: true}
	return
}

type approvalSet struct {
	OpID   common.Hash `json:"opId"`
	Admins []uint64    `json:"admins"`
}

// ApproveEmergency records one admin's sign-off on an opId. Approvals persist
// across calls, so the required admins can sign asynchronously.
func (s *State) ApproveEmergency(caller uint64, opID common.Hash, checkOnly bool) (event *types.EventEmergency, err error) {
	admin, err := s.requireEmergencyAdmin(caller)
	if err != nil {
		return nil, err
	}
	if checkOnly {
		return nil, nil
	}

	var set approvalSet
	key := fmt.Sprintf(KeyApprovalSet, opID)
	if _, err = s.getRecord(key, &set); err != nil {
		return nil, err
	}
	set.OpID = opID
	found := false
	for _, idx := range set.Admins {
		if idx == caller {
			found = true
			break
		}
	}
	if !found {
		set.Admins = append(set.Admins, caller)
		if err = s.putRecord(key, &set); err != nil {
			return nil, err
		}
	}
	s.bumpNonce(admin)

	event = &types.EventEmergency{OpID: opID, AdminIndex: caller, Action: "approve"}
	return
}

// requireEmergencyConsensus gates an operation on distinct-admin sign-off and
// consumes the approvals on success so the next invocation starts clean.
func (s *State) requireEmergencyConsensus(opID common.Hash, checkOnly bool) error {
	var set approvalSet
	key := fmt.Sprintf(KeyApprovalSet, opID)
	ok, err := s.getRecord(key, &set)
	if err != nil {
		return err
	}
	if !ok || len(set.Admins) < config.EmergencyConsensus {
		return ErrInsufficientEmergencyApprovals
	}
	if !checkOnly {
		s.removeRecord(key)
	}
	return nil
}

// checkTimelock enforces the queue-then-execute pattern: the first call
// stages the entry and reports ErrTimelockQueued, a call inside the window
// fails with ErrTimelockNotExpired, and a call after the window consumes the
// entry and proceeds. Sensitive admin actions can therefore never queue and
// execute inside a single transaction.
func (s *State) checkTimelock(opID common.Hash, checkOnly bool) error {
	var entry types.TimelockEntry
	key := fmt.Sprintf(KeyTimelock, opID)
	ok, err := s.getRecord(key, &entry)
	if err != nil {
		return err
	}
	if !ok {
		if !checkOnly {
			entry = types.TimelockEntry{OpID: opID, QueuedAt: s.Now()}
			if err = s.putRecord(key, &entry); err != nil {
				return err
			}
		}
		return ErrTimelockQueued
	}
	if s.Now() < entry.QueuedAt+config.TimelockWindow {
		return ErrTimelockNotExpired
	}
	if !checkOnly {
		s.removeRecord(key)
	}
	return nil
}
