package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/phasefund/phasefund/config"
	"github.com/phasefund/phasefund/types"
)

// Transferrer is the value-transfer boundary. A false return must mean no
// value moved; the caller rolls its own state back on failure.
type Transferrer interface {
	Transfer(s *State, to uint64, amount uint64) bool
}

// LedgerTransfer pays out against the in-state account ledger.
type LedgerTransfer struct{}

func (LedgerTransfer) Transfer(s *State, to uint64, amount uint64) bool {
	acnt, err := s.GetAccount(to)
	if err != nil {
		return false
	}
	acnt.Balance += amount
	s.markModified(acnt)
	return true
}

// ReleasePhaseFunds pays out one phase's slice of the escrow. Releases are
// incremental per approved phase, in any order, each at most once. The
// released flag is set before the transfer and rolled back if the transfer
// fails, so a reentrant callee observes the phase as already paid.
func (s *State) ReleasePhaseFunds(caller uint64, projectID common.Hash, phase types.Phase, checkOnly bool) (event *types.EventFundsReleased, err error) {
	sender, err := s.GetAccount(caller)
	if err != nil {
		if err == ErrNotFound {
			err = ErrTxAccountNoexists
		}
		return nil, err
	}
	if err = s.checkPaused(types.GroupFundManagement, checkOnly); err != nil {
		return nil, err
	}
	if !phase.Valid() {
		return nil, ErrInvalidPhase
	}
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.Status != types.StatusActive && project.Status != types.StatusCompleted {
		return nil, ErrProjectNotActive
	}
	if project.Frozen(s.Now()) {
		return nil, ErrProjectFrozen
	}
	if err = s.approvedClaim(project, phase); err != nil {
		return nil, err
	}
	if project.FundsReleased[phase] {
		return nil, ErrFundsAlreadyReleased
	}
	if checkOnly {
		return nil, nil
	}

	// truncating division; the rounding residual stays in escrow and is
	// never reconciled
	amount := project.RequestedFunds * s.header.Weights.Of(phase) / 100
	if amount > project.EscrowBalance {
		return nil, ErrInsufficientEscrow
	}
	project.FundsReleased[phase] = true
	project.EscrowBalance -= amount
	if err = s.putProject(project); err != nil {
		return nil, err
	}
	if !s.transfer.Transfer(s, project.ProposerIndex, amount) {
		project.FundsReleased[phase] = false
		project.EscrowBalance += amount
		if perr := s.putProject(project); perr != nil {
			return nil, perr
		}
		return nil, ErrFundTransferFailed
	}
	s.bumpNonce(sender)

	event = &types.EventFundsReleased{
		Project:   projectID,
		Phase:     phase,
		Amount:    amount,
		Recipient: project.ProposerAddress,
	}
	return
}

// ProposeWeights opens a weight-change proposal. Anyone may propose; only an
// oversight supermajority executes it.
func (s *State) ProposeWeights(caller uint64, weights types.PhaseWeights, checkOnly bool) (event *types.EventWeights, err error) {
	sender, err := s.GetAccount(caller)
	if err != nil {
		if err == ErrNotFound {
			err = ErrTxAccountNoexists
		}
		return nil, err
	}
	if err = s.checkPaused(types.GroupFundManagement, checkOnly); err != nil {
		return nil, err
	}
	if err = weights.Validate(); err != nil {
		return nil, err
	}
	if checkOnly {
		return nil, nil
	}

	s.header.WeightProposalIdx += 1
	prop := types.WeightProposal{
		ID:            s.header.WeightProposalIdx,
		Weights:       weights,
		ProposedAt:    s.Now(),
		VotesRequired: config.Supermajority(s.header.OversightCount),
	}
	if err = s.putRecord(fmt.Sprintf(KeyWeightProposal, prop.ID), &prop); err != nil {
		return nil, err
	}
	s.bumpNonce(sender)

	event = &types.EventWeights{Proposal: prop.ID, Weights: weights}
	return
}

// VoteWeights counts one oversight vote. Crossing the threshold swaps the
// global weights in atomically; votes arriving after execution are no-ops so
// a late voter does not race the swap.
func (s *State) VoteWeights(caller uint64, proposalID uint64, checkOnly bool) (event *types.EventWeights, updated *types.EventWeights, err error) {
	voter, err := s.requireOversight(caller)
	if err != nil {
		return nil, nil, err
	}
	var prop types.WeightProposal
	ok, err := s.getRecord(fmt.Sprintf(KeyWeightProposal, proposalID), &prop)
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
	markKey := fmt.Sprintf(KeyWeightVoterMark, proposalID, caller)
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
		s.SetWeights(prop.Weights)
		updated = &types.EventWeights{Proposal: proposalID, Weights: prop.Weights}
	}
	if err = s.putRecord(fmt.Sprintf(KeyWeightProposal, proposalID), &prop); err != nil {
		return nil, nil, err
	}
	s.bumpNonce(voter)

	event = &types.EventWeights{Proposal: proposalID, Weights: prop.Weights}
	return
}
