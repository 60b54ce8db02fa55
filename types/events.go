package types

import (
	"fmt"
	"strconv"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/ethereum/go-ethereum/common"
)

const (
	EventMemberType          = "member"
	EventProjectCreatedType  = "project_created"
	EventProjectStatusType   = "project_status"
	EventProjectFrozenType   = "project_frozen"
	EventVoteCastType        = "vote_cast"
	EventVoteFinalizedType   = "vote_finalized"
	EventClaimAcceptedType   = "claim_accepted"
	EventClaimRevokedType    = "claim_revoked"
	EventMilestoneType       = "milestone"
	EventFundsReleasedType   = "funds_released"
	EventWeightsProposedType = "weights_proposed"
	EventWeightsUpdatedType  = "weights_updated"
	EventPauseProposedType   = "pause_proposed"
	EventPauseVoteType       = "pause_vote"
	EventPauseAppliedType    = "pause_applied"
	EventEmergencyType       = "emergency_action"
)

type EventMember struct {
	Op       string `json:"op"`
	Index    uint64 `json:"index"`
	Address  string `json:"address"`
	Role     Role   `json:"role"`
	RegionID uint64 `json:"regionId"`
}

func EncodeEventMember(event *EventMember) abci.Event {
	return abci.Event{
		Type: EventMemberType,
		Attributes: []abci.EventAttribute{
			{Key: "op", Value: event.Op, Index: true},
			{Key: "index", Value: fmt.Sprintf("%v", event.Index), Index: true},
			{Key: "address", Value: event.Address, Index: false},
			{Key: "role", Value: fmt.Sprintf("%v", uint8(event.Role)), Index: false},
			{Key: "region", Value: fmt.Sprintf("%v", event.RegionID), Index: false},
		},
	}
}

func DecodeEventMember(originEvent abci.Event) *EventMember {
	event := &EventMember{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "op":
			event.Op = v.Value
		case "index":
			idx, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Index = idx
		case "address":
			event.Address = v.Value
		case "role":
			role, err := strconv.ParseUint(v.Value, 10, 8)
			if err != nil {
				return nil
			}
			event.Role = Role(role)
		case "region":
			region, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.RegionID = region
		}
	}
	return event
}

type EventProjectCreated struct {
	Project         common.Hash `json:"project"`
	ProposerIndex   uint64      `json:"proposerIndex"`
	ProposerAddress string      `json:"proposerAddress"`
	RegionID        uint64      `json:"regionId"`
	RequestedFunds  uint64      `json:"requestedFunds"`
	Duration        int64       `json:"duration"`
	Claim           common.Hash `json:"claim"`
}

func EncodeEventProjectCreated(event *EventProjectCreated) abci.Event {
	return abci.Event{
		Type: EventProjectCreatedType,
		Attributes: []abci.EventAttribute{
			{Key: "project", Value: event.Project.Hex(), Index: true},
			{Key: "proposer", Value: fmt.Sprintf("%v", event.ProposerIndex), Index: true},
			{Key: "proposerAddress", Value: event.ProposerAddress, Index: false},
			{Key: "region", Value: fmt.Sprintf("%v", event.RegionID), Index: false},
			{Key: "requestedFunds", Value: fmt.Sprintf("%v", event.RequestedFunds), Index: false},
			{Key: "duration", Value: fmt.Sprintf("%v", event.Duration), Index: false},
			{Key: "claim", Value: event.Claim.Hex(), Index: false},
		},
	}
}

func DecodeEventProjectCreated(originEvent abci.Event) *EventProjectCreated {
	event := &EventProjectCreated{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "project":
			event.Project = common.HexToHash(v.Value)
		case "proposer":
			proposer, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.ProposerIndex = proposer
		case "proposerAddress":
			event.ProposerAddress = v.Value
		case "region":
			region, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.RegionID = region
		case "requestedFunds":
			funds, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.RequestedFunds = funds
		case "duration":
			duration, err := strconv.ParseInt(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Duration = duration
		case "claim":
			event.Claim = common.HexToHash(v.Value)
		}
	}
	return event
}

type EventProjectStatus struct {
	Project common.Hash   `json:"project"`
	Status  ProjectStatus `json:"status"`
	Phase   Phase         `json:"phase"`
}

func EncodeEventProjectStatus(event *EventProjectStatus) abci.Event {
	return abci.Event{
		Type: EventProjectStatusType,
		Attributes: []abci.EventAttribute{
			{Key: "project", Value: event.Project.Hex(), Index: true},
			{Key: "status", Value: fmt.Sprintf("%v", uint8(event.Status)), Index: false},
			{Key: "phase", Value: fmt.Sprintf("%v", uint8(event.Phase)), Index: false},
		},
	}
}

func DecodeEventProjectStatus(originEvent abci.Event) *EventProjectStatus {
	event := &EventProjectStatus{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "project":
			event.Project = common.HexToHash(v.Value)
		case "status":
			status, err := strconv.ParseUint(v.Value, 10, 8)
			if err != nil {
				return nil
			}
			event.Status = ProjectStatus(status)
		case "phase":
			phase, err := strconv.ParseUint(v.Value, 10, 8)
			if err != nil {
				return nil
			}
			event.Phase = Phase(phase)
		}
	}
	return event
}

type EventProjectFrozen struct {
	Project common.Hash `json:"project"`
	Until   int64       `json:"until"`
}

func EncodeEventProjectFrozen(event *EventProjectFrozen) abci.Event {
	return abci.Event{
		Type: EventProjectFrozenType,
		Attributes: []abci.EventAttribute{
			{Key: "project", Value: event.Project.Hex(), Index: true},
			{Key: "until", Value: fmt.Sprintf("%v", event.Until), Index: false},
		},
	}
}

type EventVoteCast struct {
	Claim        common.Hash `json:"claim"`
	VoterIndex   uint64      `json:"voterIndex"`
	VoterAddress string      `json:"voterAddress"`
	Track        Role        `json:"track"`
	Approve      bool        `json:"approve"`
	Result       VoteResult  `json:"result"`
}

func EncodeEventVoteCast(event *EventVoteCast) abci.Event {
	return abci.Event{
		Type: EventVoteCastType,
		Attributes: []abci.EventAttribute{
			{Key: "claim", Value: event.Claim.Hex(), Index: true},
			{Key: "voter", Value: fmt.Sprintf("%v", event.VoterIndex), Index: true},
			{Key: "voterAddress", Value: event.VoterAddress, Index: false},
			{Key: "track", Value: fmt.Sprintf("%v", uint8(event.Track)), Index: false},
			{Key: "approve", Value: fmt.Sprintf("%v", event.Approve), Index: false},
			{Key: "result", Value: fmt.Sprintf("%v", uint8(event.Result)), Index: false},
		},
	}
}

func DecodeEventVoteCast(originEvent abci.Event) *EventVoteCast {
	event := &EventVoteCast{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "claim":
			event.Claim = common.HexToHash(v.Value)
		case "voter":
			voter, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.VoterIndex = voter
		case "voterAddress":
			event.VoterAddress = v.Value
		case "track":
			track, err := strconv.ParseUint(v.Value, 10, 8)
			if err != nil {
				return nil
			}
			event.Track = Role(track)
		case "approve":
			approve, err := strconv.ParseBool(v.Value)
			if err != nil {
				return nil
			}
			event.Approve = approve
		case "result":
			result, err := strconv.ParseUint(v.Value, 10, 8)
			if err != nil {
				return nil
			}
			event.Result = VoteResult(result)
		}
	}
	return event
}

type EventVoteFinalized struct {
	Claim              common.Hash `json:"claim"`
	Result             VoteResult  `json:"result"`
	OversightApprovals uint64      `json:"oversightApprovals"`
	RegionalApprovals  uint64      `json:"regionalApprovals"`
}

func EncodeEventVoteFinalized(event *EventVoteFinalized) abci.Event {
	return abci.Event{
		Type: EventVoteFinalizedType,
		Attributes: []abci.EventAttribute{
			{Key: "claim", Value: event.Claim.Hex(), Index: true},
			{Key: "result", Value: fmt.Sprintf("%v", uint8(event.Result)), Index: false},
			{Key: "oversight", Value: fmt.Sprintf("%v", event.OversightApprovals), Index: false},
			{Key: "regional", Value: fmt.Sprintf("%v", event.RegionalApprovals), Index: false},
		},
	}
}

func DecodeEventVoteFinalized(originEvent abci.Event) *EventVoteFinalized {
	event := &EventVoteFinalized{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "claim":
			event.Claim = common.HexToHash(v.Value)
		case "result":
			result, err := strconv.ParseUint(v.Value, 10, 8)
			if err != nil {
				return nil
			}
			event.Result = VoteResult(result)
		case "oversight":
			n, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.OversightApprovals = n
		case "regional":
			n, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.RegionalApprovals = n
		}
	}
	return event
}

type EventClaim struct {
	Claim   common.Hash `json:"claim"`
	Project common.Hash `json:"project"`
	Phase   Phase       `json:"phase"`
	Issuer  string      `json:"issuer"`
}

func encodeEventClaim(eventType string, event *EventClaim) abci.Event {
	return abci.Event{
		Type: eventType,
		Attributes: []abci.EventAttribute{
			{Key: "claim", Value: event.Claim.Hex(), Index: true},
			{Key: "project", Value: event.Project.Hex(), Index: true},
			{Key: "phase", Value: fmt.Sprintf("%v", uint8(event.Phase)), Index: false},
			{Key: "issuer", Value: event.Issuer, Index: false},
		},
	}
}

func EncodeEventClaimAccepted(event *EventClaim) abci.Event {
	return encodeEventClaim(EventClaimAcceptedType, event)
}

func EncodeEventClaimRevoked(event *EventClaim) abci.Event {
	return encodeEventClaim(EventClaimRevokedType, event)
}

type EventMilestone struct {
	Project common.Hash `json:"project"`
	Phase   Phase       `json:"phase"`
	Label   string      `json:"label"`
	Done    bool        `json:"done"`
}

func EncodeEventMilestone(event *EventMilestone) abci.Event {
	return abci.Event{
		Type: EventMilestoneType,
		Attributes: []abci.EventAttribute{
			{Key: "project", Value: event.Project.Hex(), Index: true},
			{Key: "phase", Value: fmt.Sprintf("%v", uint8(event.Phase)), Index: false},
			{Key: "label", Value: event.Label, Index: false},
			{Key: "done", Value: fmt.Sprintf("%v", event.Done), Index: false},
		},
	}
}

type EventFundsReleased struct {
	Project   common.Hash `json:"project"`
	Phase     Phase       `json:"phase"`
	Amount    uint64      `json:"amount"`
	Recipient string      `json:"recipient"`
}

func EncodeEventFundsReleased(event *EventFundsReleased) abci.Event {
	return abci.Event{
		Type: EventFundsReleasedType,
		Attributes: []abci.EventAttribute{
			{Key: "project", Value: event.Project.Hex(), Index: true},
			{Key: "phase", Value: fmt.Sprintf("%v", uint8(event.Phase)), Index: true},
			{Key: "amount", Value: fmt.Sprintf("%v", event.Amount), Index: false},
			{Key: "recipient", Value: event.Recipient, Index: false},
		},
	}
}

func DecodeEventFundsReleased(originEvent abci.Event) *EventFundsReleased {
	event := &EventFundsReleased{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "project":
			event.Project = common.HexToHash(v.Value)
		case "phase":
			phase, err := strconv.ParseUint(v.Value, 10, 8)
			if err != nil {
				return nil
			}
			event.Phase = Phase(phase)
		case "amount":
			amount, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Amount = amount
		case "recipient":
			event.Recipient = v.Value
		}
	}
	return event
}

type EventWeights struct {
	Proposal uint64       `json:"proposal"`
	Weights  PhaseWeights `json:"weights"`
}

func EncodeEventWeightsProposed(event *EventWeights) abci.Event {
	return abci.Event{
		Type: EventWeightsProposedType,
		Attributes: []abci.EventAttribute{
			{Key: "proposal", Value: fmt.Sprintf("%v", event.Proposal), Index: true},
			{Key: "initial", Value: fmt.Sprintf("%v", event.Weights.Initial), Index: false},
			{Key: "progress", Value: fmt.Sprintf("%v", event.Weights.Progress), Index: false},
			{Key: "completion", Value: fmt.Sprintf("%v", event.Weights.Completion), Index: false},
		},
	}
}

func EncodeEventWeightsUpdated(event *EventWeights) abci.Event {
	return abci.Event{
		Type: EventWeightsUpdatedType,
		Attributes: []abci.EventAttribute{
			{Key: "proposal", Value: fmt.Sprintf("%v", event.Proposal), Index: true},
			{Key: "initial", Value: fmt.Sprintf("%v", event.Weights.Initial), Index: false},
			{Key: "progress", Value: fmt.Sprintf("%v", event.Weights.Progress), Index: false},
			{Key: "completion", Value: fmt.Sprintf("%v", event.Weights.Completion), Index: false},
		},
	}
}

type EventPauseProposed struct {
	Proposal uint64        `json:"proposal"`
	Group    FunctionGroup `json:"group"`
	Duration int64         `json:"duration"`
}

func EncodeEventPauseProposed(event *EventPauseProposed) abci.Event {
	return abci.Event{
		Type: EventPauseProposedType,
		Attributes: []abci.EventAttribute{
			{Key: "proposal", Value: fmt.Sprintf("%v", event.Proposal), Index: true},
			{Key: "group", Value: fmt.Sprintf("%v", uint8(event.Group)), Index: false},
			{Key: "duration", Value: fmt.Sprintf("%v", event.Duration), Index: false},
		},
	}
}

type EventPauseVote struct {
	Proposal   uint64 `json:"proposal"`
	VoterIndex uint64 `json:"voterIndex"`
}

func EncodeEventPauseVote(event *EventPauseVote) abci.Event {
	return abci.Event{
		Type: EventPauseVoteType,
		Attributes: []abci.EventAttribute{
			{Key: "proposal", Value: fmt.Sprintf("%v", event.Proposal), Index: true},
			{Key: "voter", Value: fmt.Sprintf("%v", event.VoterIndex), Index: false},
		},
	}
}

type EventPauseApplied struct {
	Group     FunctionGroup `json:"group"`
	Until     int64         `json:"until"`
	Emergency bool          `json:"emergency"`
}

func EncodeEventPauseApplied(event *EventPauseApplied) abci.Event {
	return abci.Event{
		Type: EventPauseAppliedType,
		Attributes: []abci.EventAttribute{
			{Key: "group", Value: fmt.Sprintf("%v", uint8(event.Group)), Index: true},
			{Key: "until", Value: fmt.Sprintf("%v", event.Until), Index: false},
			{Key: "emergency", Value: fmt.Sprintf("%v", event.Emergency), Index: false},
		},
	}
}

func DecodeEventPauseApplied(originEvent abci.Event) *EventPauseApplied {
	event := &EventPauseApplied{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "group":
			group, err := strconv.ParseUint(v.Value, 10, 8)
			if err != nil {
				return nil
			}
			event.Group = FunctionGroup(group)
		case "until":
			until, err := strconv.ParseInt(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Until = until
		case "emergency":
			emergency, err := strconv.ParseBool(v.Value)
			if err != nil {
				return nil
			}
			event.Emergency = emergency
		}
	}
	return event
}

type EventEmergency struct {
	OpID       common.Hash `json:"opId"`
	AdminIndex uint64      `json:"adminIndex"`
	Action     string      `json:"action"`
}

func EncodeEventEmergency(event *EventEmergency) abci.Event {
	return abci.Event{
		Type: EventEmergencyType,
		Attributes: []abci.EventAttribute{
			{Key: "opId", Value: event.OpID.Hex(), Index: true},
			{Key: "admin", Value: fmt.Sprintf("%v", event.AdminIndex), Index: false},
			{Key: "action", Value: event.Action, Index: false},
		},
	}
}
