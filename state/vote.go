package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/phasefund/phasefund/config"
	"github.com/phasefund/phasefund/types"
)

// initVote opens the dual-quorum tally for a claim. One vote per claim,
// write-once; superseding a claim means a new claim id and a fresh vote, the
// tally is never reused.
func (s *State) initVote(claim common.Hash, project common.Hash, phase types.Phase) error {
	exists, err := s.hasRecord(fmt.Sprintf(KeyVote, claim))
	if err != nil {
		return err
	}
	if exists {
		return ErrInvalidVoteState
	}
	v := types.Vote{
		Claim:             claim,
		Project:           project,
		Phase:             phase,
		OversightRequired: config.DefaultOversightQuorum,
		RegionalRequired:  config.DefaultRegionalQuorum,
		Deadline:          s.Now() + s.header.VotingPeriod,
		Result:            types.VotePending,
	}
	return s.putRecord(fmt.Sprintf(KeyVote, claim), &v)
}

func (s *State) dropVote(claim common.Hash) {
	s.removeRecord(fmt.Sprintf(KeyVote, claim))
}

// GetVote is a pure read for the query surface.
func (s *State) GetVote(claim common.Hash) (*types.Vote, error) {
	var v types.Vote
	ok, err := s.getRecord(fmt.Sprintf(KeyVote, claim), &v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVoteNotFound
	}
	return &v, nil
}

// CastVote counts one ballot on a claim. Only approvals move the tally toward
// quorum; rejections are recorded for audit and never block an early
// approval. The instant both tracks reach their thresholds the result flips
// Pending to Approved without waiting for the deadline, and never regresses.
func (s *State) CastVote(caller uint64, claim common.Hash, regionID uint64, approve bool, checkOnly bool) (event *types.EventVoteCast, err error) {
	voter, err := s.GetAccount(caller)
	if err != nil {
		if err == ErrNotFound {
			err = ErrTxAccountNoexists
		}
		return nil, err
	}
	if voter.Role == types.RoleNone {
		return nil, ErrUnauthorizedDAO
	}
	if err = s.checkPaused(types.GroupVoting, checkOnly); err != nil {
		return nil, err
	}
	vote, err := s.GetVote(claim)
	if err != nil {
		return nil, err
	}
	if vote.Finalized {
		return nil, ErrVoteAlreadyFinalized
	}
	if voter.Role == types.RoleRegional {
		project, err := s.GetProject(vote.Project)
		if err != nil {
			return nil, err
		}
		if voter.RegionID != regionID || voter.RegionID != project.RegionID {
			return nil, ErrMemberNotFromRegion
		}
	}
	markKey := fmt.Sprintf(KeyVoterMark, claim, caller)
	voted, err := s.hasRecord(markKey)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrAlreadyVoted
	}
	if checkOnly {
		return nil, nil
	}

	if err = s.putRecord(markKey, true); err != nil {
		return nil, err
	}
	switch {
	case approve && voter.Role == types.RoleOversight:
		vote.OversightApprovals += 1
	case approve && voter.Role == types.RoleRegional:
		vote.RegionalApprovals += 1
	case !approve && voter.Role == types.RoleOversight:
		vote.OversightRejects += 1
	default:
		vote.RegionalRejects += 1
	}
	if vote.Result == types.VotePending && vote.QuorumReached() {
		vote.Result = types.VoteApproved
	}
	if err = s.putRecord(fmt.Sprintf(KeyVote, claim), vote); err != nil {
		return nil, err
	}
	s.bumpNonce(voter)

	event = &types.EventVoteCast{
		Claim:        claim,
		VoterIndex:   caller,
		VoterAddress: voter.Address(),
		Track:        voter.Role,
		Approve:      approve,
		Result:       vote.Result,
	}
	return
}

// FinalizeVote locks the tally after the deadline. The result is write-once:
// an early Approved stands, otherwise the vote closes Rejected. Repeated
// finalization is rejected, not absorbed.
func (s *State) FinalizeVote(caller uint64, claim common.Hash, checkOnly bool) (event *types.EventVoteFinalized, err error) {
	sender, err := s.GetAccount(caller)
	if err != nil {
		if err == ErrNotFound {
			err = ErrTxAccountNoexists
		}
		return nil, err
	}
	if err = s.checkPaused(types.GroupVoting, checkOnly); err != nil {
		return nil, err
	}
	vote, err := s.GetVote(claim)
	if err != nil {
		return nil, err
	}
	if vote.Finalized {
		return nil, ErrVoteAlreadyFinalized
	}
	if s.Now() < vote.Deadline {
		return nil, ErrVotingPeriodNotEnded
	}
	if checkOnly {
		return nil, nil
	}

	if vote.Result == types.VotePending {
		if vote.QuorumReached() {
			vote.Result = types.VoteApproved
		} else {
			vote.Result = types.VoteRejected
		}
	}
	vote.Finalized = true
	if err = s.putRecord(fmt.Sprintf(KeyVote, claim), vote); err != nil {
		return nil, err
	}
	s.bumpNonce(sender)

	event = &types.EventVoteFinalized{
		Claim:              claim,
		Result:             vote.Result,
		OversightApprovals: vote.OversightApprovals,
		RegionalApprovals:  vote.RegionalApprovals,
	}
	return
}
