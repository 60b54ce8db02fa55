package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/cometbft/cometbft/crypto"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/spf13/cobra"

	app_config "github.com/phasefund/phasefund/config"
	"github.com/phasefund/phasefund/types"
)

type printInfo struct {
	Moniker    string          `json:"moniker" yaml:"moniker"`
	ChainID    string          `json:"chain_id" yaml:"chain_id"`
	NodeID     string          `json:"node_id" yaml:"node_id"`
	AppMessage json.RawMessage `json:"app_message" yaml:"app_message"`
}

func displayInfo(info printInfo) error {
	out, err := json.MarshalIndent(info, "", " ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(os.Stderr, "%s\n", out)
	return err
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize private validator, p2p, genesis, and application configuration files",
	Long:  `Initialize validator's and node's configuration files.`,
	Args:  cobra.ExactArgs(0),
	RunE:  initRun,
}

func init() {
	initCmd.Flags().BoolP(types.FlagOverwrite, "o", false, "overwrite the genesis.json file")
	initCmd.Flags().String(types.FlagChainID, "", "genesis file chain-id, if left blank will be randomly created")
	initCmd.Flags().String(types.FlagHome, "", "config")
}

func initRun(cmd *cobra.Command, args []string) error {
	home, _ := cmd.Flags().GetString(types.FlagHome)
	chainID, _ := cmd.Flags().GetString(types.FlagChainID)
	if chainID == "" {
		chainID = fmt.Sprintf("pfd-chain-%v", rand.Uint64())
	}

	appConfig := app_config.NewConfig(home)
	nodeID, pk, err := app_config.InitializeNodeValidatorFiles(appConfig, nil)
	if err != nil {
		return err
	}

	vals := []types.GenesisValidator{{
		Address: pk.Address(),
		PubKey:  pk,
		Power:   types.DefaultPower,
	}}
	appState, err := genesisAppState(pk)
	if err != nil {
		return err
	}

	genFile := appConfig.GenesisFile()
	appGenesis := &types.GenesisDoc{
		GenesisTime:     time.Now(),
		ChainID:         chainID,
		ConsensusParams: cmttypes.DefaultConsensusParams(),
		InitialHeight:   1,
		Validators:      vals,
		AppState:        appState,
	}
	if err = types.ExportGenesisFile(appGenesis, genFile); err != nil {
		return fmt.Errorf("failed to export genesis file %v", err)
	}
	app_config.WriteConfigFile(filepath.Join(appConfig.RootDir, "config", "config.toml"), appConfig)
	return displayInfo(printInfo{ChainID: chainID, NodeID: nodeID, AppMessage: appGenesis.AppState})
}

// genesisAppState seeds the node's own validator key as a bootstrap oversight
// member and emergency admin, so a single-node dev chain can govern itself.
func genesisAppState(pk crypto.PubKey) (json.RawMessage, error) {
	state := types.GenesisAppState{
		Members: []types.GenesisMember{{
			PubKey:         pk.Bytes(),
			Role:           types.RoleOversight,
			Balance:        1_000_000,
			EmergencyAdmin: true,
		}},
		Weights: &app_config.DefaultPhaseWeights,
	}
	return json.Marshal(state)
}
