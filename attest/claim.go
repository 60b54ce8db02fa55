// Package attest is the boundary to the external attestation subsystem. The
// core never constructs proofs itself; it consumes schema-tagged claims as
// opaque records and validates them before acting on them.
package attest

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrInvalidAttestation = errors.New("attestation invalid")
	ErrClaimRevoked       = errors.New("claim revoked")
	ErrClaimNotFound      = errors.New("claim not found")
)

// ProjectStateSchema tags claims asserting project state for a phase. Claims
// carrying any other schema id are rejected at the acceptance boundary.
var ProjectStateSchema = crypto.Keccak256Hash([]byte("phasefund/project-state/v1"))

// Claim is an externally-issued assertion. Payload is opaque to the core;
// RefID links the claim to the entity it attests (a project id here).
type Claim struct {
	ID       common.Hash `json:"id"`
	SchemaID common.Hash `json:"schemaId"`
	Issuer   string      `json:"issuer"`
	Payload  []byte      `json:"payload"`
	RefID    common.Hash `json:"refId"`
	Revoked  bool        `json:"revoked"`
}

// Usable is the verifyClaim contract: a claim backs governance decisions only
// while its schema matches and it has not been revoked.
func (c *Claim) Usable() error {
	if c.SchemaID != ProjectStateSchema {
		return ErrInvalidAttestation
	}
	if c.Revoked {
		return ErrClaimRevoked
	}
	return nil
}

// Resolver is what the core consumes from the attestation subsystem.
type Resolver interface {
	ResolveClaim(id common.Hash) (*Claim, error)
}
