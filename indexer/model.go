package indexer

// sqlite models

type Height struct {
	Id     uint64 `gorm:"primaryKey" json:"id"`
	Height uint64 `json:"height"`
}

type Member struct {
	Id       uint64 `gorm:"primaryKey" json:"id"`
	Address  string `json:"address"`
	Role     uint8  `json:"role"`
	RegionId uint64 `json:"region_id"`
	Removed  bool   `json:"removed"`
	Height   uint64 `json:"height"`
}

type Project struct {
	Id              string `gorm:"primaryKey" json:"id"`
	ProposerIndex   uint64 `json:"proposer_index"`
	ProposerAddress string `json:"proposer_address"`
	RegionId        uint64 `json:"region_id"`
	RequestedFunds  uint64 `json:"requested_funds"`
	Duration        int64  `json:"duration"`
	Status          uint8  `json:"status"`
	Phase           uint8  `json:"phase"`
	CreateHeight    uint64 `json:"create_height"`
	UpdateHeight    uint64 `json:"update_height"`
}

type VoteBallot struct {
	Id           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Claim        string `json:"claim"`
	VoterIndex   uint64 `json:"voter_index"`
	VoterAddress string `json:"voter_address"`
	Track        uint8  `json:"track"`
	Approve      bool   `json:"approve"`
	Height       uint64 `json:"height"`
}

type VoteOutcome struct {
	Claim              string `gorm:"primaryKey" json:"claim"`
	Result             uint8  `json:"result"`
	OversightApprovals uint64 `json:"oversight_approvals"`
	RegionalApprovals  uint64 `json:"regional_approvals"`
	Height             uint64 `json:"height"`
}

type Release struct {
	Id        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Project   string `json:"project"`
	Phase     uint8  `json:"phase"`
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient"`
	Height    uint64 `json:"height"`
}

type Pause struct {
	Id        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Group     uint8  `json:"group"`
	Until     int64  `json:"until"`
	Emergency bool   `json:"emergency"`
	Height    uint64 `json:"height"`
}
