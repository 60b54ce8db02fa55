package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cometbft/cometbft/crypto"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	cmttypes "github.com/cometbft/cometbft/types"
)

type GenesisValidator struct {
	Address crypto.Address `json:"address"`
	PubKey  crypto.PubKey  `json:"pub_key"`
	Power   int64          `json:"power"`
	Name    string         `json:"name"`
}

// GenesisMember seeds the membership registry. Genesis is the only path onto
// the registry that does not go through an oversight-signed transaction.
type GenesisMember struct {
	PubKey         []byte `json:"pub_key"`
	Role           Role   `json:"role"`
	RegionID       uint64 `json:"region_id"`
	Balance        uint64 `json:"balance"`
	EmergencyAdmin bool   `json:"emergency_admin"`
}

// GenesisAppState is the application half of the genesis doc: the bootstrap
// membership plus the initial phase-fund weights.
type GenesisAppState struct {
	Members []GenesisMember `json:"members"`
	Weights *PhaseWeights   `json:"weights,omitempty"`
}

// GenesisDoc defines the initial conditions of a phasefund chain, in
// particular its validator set and bootstrap committees.
type GenesisDoc struct {
	GenesisTime     time.Time                 `json:"genesis_time"`
	ChainID         string                    `json:"chain_id"`
	InitialHeight   int64                     `json:"initial_height"`
	ConsensusParams *cmttypes.ConsensusParams `json:"consensus_params,omitempty"`
	Validators      []GenesisValidator        `json:"validators"`
	AppHash         []byte                    `json:"app_hash"`
	AppState        json.RawMessage           `json:"app_state"`
}

// SaveAs is a utility method for saving GenesisDoc as a JSON file.
func (genDoc *GenesisDoc) SaveAs(file string) error {
	genDocBytes, err := cmtjson.MarshalIndent(genDoc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, genDocBytes, 0o600)
}

func (ag *GenesisDoc) ValidateAndComplete() error {
	if ag.ChainID == "" {
		return errors.New("genesis doc must include non-empty chain_id")
	}

	if ag.InitialHeight < 0 {
		return fmt.Errorf("initial_height cannot be negative (got %v)", ag.InitialHeight)
	}

	if ag.InitialHeight == 0 {
		ag.InitialHeight = 1
	}

	if ag.GenesisTime.IsZero() {
		ag.GenesisTime = time.Now().Round(0).UTC()
	}

	return nil
}

func ExportGenesisFile(genesis *GenesisDoc, genFile string) error {
	if err := genesis.ValidateAndComplete(); err != nil {
		return err
	}
	return genesis.SaveAs(genFile)
}

const ModuleName = "pfd"
const DefaultPower = 1000

const (
	FlagOverwrite = "overwrite"
	FlagChainID   = "chain-id"
	FlagHome      = "home"
)
