package tx

import "errors"

type TxType uint8

const (
	TxTypeUnknown          TxType = 0
	TxTypeMember           TxType = 1
	TxTypeCreateProject    TxType = 2
	TxTypeSubmitProgress   TxType = 3
	TxTypeAdvancePhase     TxType = 4
	TxTypeUpdateStatus     TxType = 5
	TxTypeCastVote         TxType = 6
	TxTypeFinalizeVote     TxType = 7
	TxTypeMilestone        TxType = 8
	TxTypeReleaseFunds     TxType = 9
	TxTypeProposeWeights   TxType = 10
	TxTypeVoteWeights      TxType = 11
	TxTypeProposePause     TxType = 12
	TxTypePauseVote        TxType = 13
	TxTypeEmergencyPause   TxType = 14
	TxTypeEmergencyApprove TxType = 15
	TxTypeFreeze           TxType = 16
	TxTypeReassign         TxType = 17
	TxTypeSubmitClaim      TxType = 18
	TxTypeRevokeClaim      TxType = 19
)

const (
	TxVersion0 uint8 = 0
	TxVersion1 uint8 = 1
)

var (
	ErrInvalidTx            = errors.New("invalid tx")
	ErrUnsupportedTxType    = errors.New("unsupported tx type")
	ErrUnmatchedTxType      = errors.New("unmatched tx type")
	ErrUnsupportedTxVersion = errors.New("unsupported tx version")
)
