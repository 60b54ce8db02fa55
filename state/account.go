package state

import (
	"github.com/cometbft/cometbft/crypto/ed25519"

	"github.com/phasefund/phasefund/types"
)

// Account is a keyed participant of the ledger: its membership role, region
// binding, spendable balance and tx nonce. Voting power is one account one
// vote per track; there is no stake weighting.
type Account struct {
	Index          uint64         `json:"index"`
	PubKey         ed25519.PubKey `json:"pubKey"`
	Role           types.Role     `json:"role"`
	RegionID       uint64         `json:"regionId"`
	Balance        uint64         `json:"balance"`
	Nonce          uint64         `json:"nonce"`
	EmergencyAdmin bool           `json:"emergencyAdmin"`
}

func (a *Account) Clone() *Account {
	n := *a
	n.PubKey = append(ed25519.PubKey(nil), a.PubKey...)
	return &n
}

func (a *Account) SetPubKey(pkey []byte) {
	a.PubKey = append(ed25519.PubKey(nil), pkey...)
}

func (a *Account) AddrBytes() []byte {
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.Address()[:]
}

func (a *Account) Address() string {
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.Address().String()
}

func (a *Account) Verify(msg []byte, sigs [][]byte) (succ bool) {
	if len(sigs) != 1 {
		return false
	}
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.VerifySignature(msg, sigs[0])
}
