package state

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/phasefund/phasefund/attest"
	"github.com/phasefund/phasefund/types"
)

// ClaimRecord is a stored claim plus its project binding. An unbound record
// (zero Project) is a candidate proof waiting to be attached at project
// creation; binding happens at most once.
type ClaimRecord struct {
	attest.Claim
	Project common.Hash `json:"project"`
	Phase   types.Phase `json:"phase"`
}

// DeriveClaimID folds the issuer, schema, payload and the issuer's nonce, so
// the same proof content resubmitted later still gets a fresh id.
func DeriveClaimID(issuer []byte, schema common.Hash, payload []byte, nonce uint64) common.Hash {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	return crypto.Keccak256Hash(issuer, schema[:], payload, n[:])
}

// SubmitClaim registers a state-proof claim, unbound. The chain issues only
// project-state claims, so the schema is fixed.
func (s *State) SubmitClaim(caller uint64, payload []byte, refID common.Hash, checkOnly bool) (event *types.EventClaim, id common.Hash, err error) {
	issuer, err := s.GetAccount(caller)
	if err != nil {
		if err == ErrNotFound {
			err = ErrTxAccountNoexists
		}
		return nil, common.Hash{}, err
	}
	id = DeriveClaimID(issuer.AddrBytes(), attest.ProjectStateSchema, payload, issuer.Nonce)
	exists, err := s.hasRecord(fmt.Sprintf(KeyClaim, id))
	if err != nil {
		return nil, common.Hash{}, err
	}
	if exists {
		return nil, common.Hash{}, ErrClaimExists
	}
	if checkOnly {
		return nil, id, nil
	}

	rec := ClaimRecord{
		Claim: attest.Claim{
			ID:       id,
			SchemaID: attest.ProjectStateSchema,
			Issuer:   issuer.Address(),
			Payload:  payload,
			RefID:    refID,
		},
	}
	if err = s.putRecord(fmt.Sprintf(KeyClaim, id), &rec); err != nil {
		return nil, common.Hash{}, err
	}
	s.bumpNonce(issuer)

	event = &types.EventClaim{Claim: id, Issuer: rec.Issuer}
	return
}

func (s *State) getClaim(id common.Hash) (*ClaimRecord, error) {
	var rec ClaimRecord
	ok, err := s.getRecord(fmt.Sprintf(KeyClaim, id), &rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClaimNotFound
	}
	return &rec, nil
}

// ResolveClaim implements attest.Resolver for external verifiers.
func (s *State) ResolveClaim(id common.Hash) (*attest.Claim, error) {
	rec, err := s.getClaim(id)
	if err != nil {
		return nil, err
	}
	c := rec.Claim
	return &c, nil
}

// acceptClaim is the claim-acceptance policy hook: the claim must be usable
// under the expected schema, still unbound, and the phase checklist it proves
// must already be complete. Returns the record on acceptance; binding is the
// caller's job.
func (s *State) acceptClaim(id common.Hash, project *types.Project, phase types.Phase) (*ClaimRecord, error) {
	rec, err := s.getClaim(id)
	if err != nil {
		return nil, err
	}
	if err = rec.Usable(); err != nil {
		return nil, err
	}
	if rec.Project != (common.Hash{}) {
		return nil, ErrClaimBound
	}
	if phase != project.CurrentPhase {
		return nil, ErrInvalidPhase
	}
	if !project.Milestones[phase].Complete() {
		return nil, ErrMilestonesIncomplete
	}
	return rec, nil
}

// approvedClaim re-checks the live proof behind a phase outcome. Approval is
// not enough on its own: a claim revoked between approval and payout voids the
// outcome, so the claim must still be usable when the outcome is acted on.
func (s *State) approvedClaim(project *types.Project, phase types.Phase) error {
	claim := project.Claims[phase]
	if claim == (common.Hash{}) {
		return ErrPhaseNotApproved
	}
	rec, err := s.getClaim(claim)
	if err != nil {
		return err
	}
	if err = rec.Usable(); err != nil {
		return err
	}
	vote, err := s.GetVote(claim)
	if err != nil {
		return err
	}
	if vote.Result != types.VoteApproved {
		return ErrPhaseNotApproved
	}
	return nil
}

func (s *State) bindClaim(rec *ClaimRecord, project common.Hash, phase types.Phase) error {
	rec.Project = project
	rec.Phase = phase
	return s.putRecord(fmt.Sprintf(KeyClaim, rec.ID), rec)
}

// RevokeClaim is the revocation policy hook: oversight only, never after the
// project completed, never once the phase's funds left escrow.
func (s *State) RevokeClaim(caller uint64, id common.Hash, checkOnly bool) (event *types.EventClaim, err error) {
	admin, err := s.requireOversight(caller)
	if err != nil {
		return nil, err
	}
	rec, err := s.getClaim(id)
	if err != nil {
		return nil, err
	}
	if rec.Revoked {
		return nil, attest.ErrClaimRevoked
	}
	if rec.Project != (common.Hash{}) {
		project, err := s.GetProject(rec.Project)
		if err != nil {
			return nil, err
		}
		if project.Status == types.StatusCompleted {
			return nil, ErrProjectNotActive
		}
		if project.FundsReleased[rec.Phase] {
			return nil, ErrFundsAlreadyReleased
		}
	}
	if checkOnly {
		return nil, nil
	}

	rec.Revoked = true
	if err = s.putRecord(fmt.Sprintf(KeyClaim, id), rec); err != nil {
		return nil, err
	}
	s.bumpNonce(admin)

	event = &types.EventClaim{Claim: id, Project: rec.Project, Phase: rec.Phase, Issuer: rec.Issuer}
	return
}
