package tx

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"github.com/phasefund/phasefund/types"
)

// Tx is the signed envelope every operation rides in. Account is the sender's
// ledger index; the payload shape is selected by Type. The signature covers
// the envelope with the chain id substituted into the Sig slot.
type Tx struct {
	Version uint8    `json:"version"`
	Type    TxType   `json:"type"`
	Nonce   uint64   `json:"nonce"`
	Account uint64   `json:"account"`
	Tx      any      `json:"tx"`
	Sig     [][]byte `json:"sig"`
}

// MemberTx covers the three registry mutations; Op selects which. Pubkey is
// only read on add, Target only on update and remove.
type MemberTx struct {
	Op       string     `json:"op"`
	Pubkey   []byte     `json:"pubkey"`
	Target   uint64     `json:"target"`
	Role     types.Role `json:"role"`
	RegionID uint64     `json:"regionId"`
}

const (
	MemberOpAdd    = "add"
	MemberOpUpdate = "update"
	MemberOpRemove = "remove"
)

type CreateProjectTx struct {
	RequestedFunds uint64      `json:"requestedFunds"`
	Deposit        uint64      `json:"deposit"`
	RegionID       uint64      `json:"regionId"`
	Duration       int64       `json:"duration"`
	InitialClaim   common.Hash `json:"initialClaim"`
}

type SubmitProgressTx struct {
	Project common.Hash `json:"project"`
	Claim   common.Hash `json:"claim"`
}

type AdvancePhaseTx struct {
	Project common.Hash `json:"project"`
}

type UpdateStatusTx struct {
	Project common.Hash         `json:"project"`
	Status  types.ProjectStatus `json:"status"`
}

type CastVoteTx struct {
	Claim    common.Hash `json:"claim"`
	RegionID uint64      `json:"regionId"`
	Approve  bool        `json:"approve"`
}

type FinalizeVoteTx struct {
	Claim common.Hash `json:"claim"`
}

// MilestoneTx either replaces a phase checklist (Op "set", Labels) or flips
// one label (Op "complete", Label and Done).
type MilestoneTx struct {
	Op      string      `json:"op"`
	Project common.Hash `json:"project"`
	Phase   types.Phase `json:"phase"`
	Labels  []string    `json:"labels"`
	Label   string      `json:"label"`
	Done    bool        `json:"done"`
}

const (
	MilestoneOpSet      = "set"
	MilestoneOpComplete = "complete"
)

type ReleaseFundsTx struct {
	Project common.Hash `json:"project"`
	Phase   types.Phase `json:"phase"`
}

type ProposeWeightsTx struct {
	Weights types.PhaseWeights `json:"weights"`
}

type VoteWeightsTx struct {
	Proposal uint64 `json:"proposal"`
}

type ProposePauseTx struct {
	Group    types.FunctionGroup `json:"group"`
	Duration int64               `json:"duration"`
}

type PauseVoteTx struct {
	Proposal uint64 `json:"proposal"`
}

type EmergencyPauseTx struct {
	Group types.FunctionGroup `json:"group"`
}

type EmergencyApproveTx struct {
	OpID common.Hash `json:"opId"`
}

type FreezeTx struct {
	Project  common.Hash `json:"project"`
	Duration int64       `json:"duration"`
}

type ReassignTx struct {
	Project     common.Hash `json:"project"`
	NewProposer uint64      `json:"newProposer"`
}

type SubmitClaimTx struct {
	Payload []byte      `json:"payload"`
	RefID   common.Hash `json:"refId"`
}

type RevokeClaimTx struct {
	Claim common.Hash `json:"claim"`
}

type txTmpl[P any] struct {
	Version uint8    `json:"version"`
	Type    TxType   `json:"type"`
	Nonce   uint64   `json:"nonce"`
	Account uint64   `json:"account"`
	Tx      P        `json:"tx"`
	Sig     [][]byte `json:"sig"`
}

// SigData renders the byte string the sender signs: the envelope with ext
// (the chain id) standing in for the signature list.
func (tx *Tx) SigData(ext []byte) (dat []byte, err error) {
	ntx := *tx
	ntx.Sig = [][]byte{ext}
	dat, err = json.Marshal(ntx)
	return
}

func parseTxType(dat []byte) TxType {
	var tx struct {
		Type TxType `json:"type"`
	}
	err := json.Unmarshal(dat, &tx)
	if err != nil {
		return TxTypeUnknown
	}
	return tx.Type
}

func unmarshalTx[P any](dat []byte) (btx *Tx, err error) {
	var txt txTmpl[P]
	err = json.Unmarshal(dat, &txt)
	if err != nil {
		return
	}
	btx = new(Tx)
	btx.Version = txt.Version
	btx.Type = txt.Type
	btx.Nonce = txt.Nonce
	btx.Account = txt.Account
	btx.Tx = &txt.Tx
	btx.Sig = txt.Sig
	return
}

func UnmarshalTx(dat []byte) (btx *Tx, err error) {
	tp := parseTxType(dat)
	switch tp {
	case TxTypeMember:
		return unmarshalTx[MemberTx](dat)
	case TxTypeCreateProject:
		return unmarshalTx[CreateProjectTx](dat)
	case TxTypeSubmitProgress:
		return unmarshalTx[SubmitProgressTx](dat)
	case TxTypeAdvancePhase:
		return unmarshalTx[AdvancePhaseTx](dat)
	case TxTypeUpdateStatus:
		return unmarshalTx[UpdateStatusTx](dat)
	case TxTypeCastVote:
		return unmarshalTx[CastVoteTx](dat)
	case TxTypeFinalizeVote:
		return unmarshalTx[FinalizeVoteTx](dat)
	case TxTypeMilestone:
		return unmarshalTx[MilestoneTx](dat)
	case TxTypeReleaseFunds:
		return unmarshalTx[ReleaseFundsTx](dat)
	case TxTypeProposeWeights:
		return unmarshalTx[ProposeWeightsTx](dat)
	case TxTypeVoteWeights:
		return unmarshalTx[VoteWeightsTx](dat)
	case TxTypeProposePause:
		return unmarshalTx[ProposePauseTx](dat)
	case TxTypePauseVote:
		return unmarshalTx[PauseVoteTx](dat)
	case TxTypeEmergencyPause:
		return unmarshalTx[EmergencyPauseTx](dat)
	case TxTypeEmergencyApprove:
		return unmarshalTx[EmergencyApproveTx](dat)
	case TxTypeFreeze:
		return unmarshalTx[FreezeTx](dat)
	case TxTypeReassign:
		return unmarshalTx[ReassignTx](dat)
	case TxTypeSubmitClaim:
		return unmarshalTx[SubmitClaimTx](dat)
	case TxTypeRevokeClaim:
		return unmarshalTx[RevokeClaimTx](dat)
	default:
		err = ErrUnsupportedTxType
	}
	return
}

func MarshalTx(btx *Tx) (dat []byte, err error) {
	return json.Marshal(btx)
}
