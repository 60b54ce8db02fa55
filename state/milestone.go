package state

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/phasefund/phasefund/types"
)

// Milestones are the proposer's own checklist per phase. They are editable
// only until the phase proof is submitted; acceptance of that proof requires
// the checklist folded to complete, so the lock keeps the proof honest.

func (s *State) milestonePhase(project *types.Project, phase types.Phase) error {
	if !phase.Valid() {
		return ErrInvalidPhase
	}
	if project.Claims[phase] != (common.Hash{}) {
		return ErrMilestonesLocked
	}
	return nil
}

// SetMilestones replaces the checklist for a phase wholesale. Completion
// marks on surviving labels are reset; the checklist is a plan, not a ledger.
func (s *State) SetMilestones(caller uint64, projectID common.Hash, phase types.Phase, labels []string, checkOnly bool) (event *types.EventMilestone, err error) {
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
	if err = s.milestonePhase(project, phase); err != nil {
		return nil, err
	}
	if checkOnly {
		return nil, nil
	}

	project.Milestones[phase] = types.PhaseChecklist{
		Labels: labels,
		Done:   make(map[string]bool, len(labels)),
	}
	if err = s.putProject(project); err != nil {
		return nil, err
	}
	s.bumpNonce(proposer)

	event = &types.EventMilestone{Project: projectID, Phase: phase}
	return
}

// CompleteMilestone flips one label's completion bit.
func (s *State) CompleteMilestone(caller uint64, projectID common.Hash, phase types.Phase, label string, done bool, checkOnly bool) (event *types.EventMilestone, err error) {
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
	if err = s.milestonePhase(project, phase); err != nil {
		return nil, err
	}
	if !project.Milestones[phase].Has(label) {
		return nil, ErrInvalidMilestone
	}
	if checkOnly {
		return nil, nil
	}

	if project.Milestones[phase].Done == nil {
		project.Milestones[phase].Done = make(map[string]bool)
	}
	project.Milestones[phase].Done[label] = done
	if err = s.putProject(project); err != nil {
		return nil, err
	}
	s.bumpNonce(proposer)

	event = &types.EventMilestone{Project: projectID, Phase: phase, Label: label, Done: done}
	return
}

// MilestonesComplete is the pure fold used by the query surface and the
// claim-acceptance policy.
func (s *State) MilestonesComplete(projectID common.Hash, phase types.Phase) (bool, error) {
	if !phase.Valid() {
		return false, ErrInvalidPhase
	}
	project, err := s.GetProject(projectID)
	if err != nil {
		return false, err
	}
	return project.Milestones[phase].Complete(), nil
}
