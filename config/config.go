package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cometbft/cometbft/config"
	"github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/p2p"
	"github.com/cometbft/cometbft/privval"

	"github.com/phasefund/phasefund/types"
)

// Protocol parameters. Quorums and consensus thresholds are constants rather
// than caller-supplied so a project creator cannot rig its own vote.
const (
	SecondsPerDay int64 = 86400

	DefaultVotingPeriod = 7 * SecondsPerDay
	MinVotingPeriod     = 1 * SecondsPerDay
	MaxVotingPeriod     = 30 * SecondsPerDay

	MinProjectDuration = 1 * SecondsPerDay
	MaxProjectDuration = 365 * SecondsPerDay

	MaxStandardPauseDuration = 14 * SecondsPerDay
	EmergencyPauseDuration   = 3 * SecondsPerDay
	MaxFreezeDuration        = 30 * SecondsPerDay

	TimelockWindow = 2 * SecondsPerDay

	// Distinct emergency admins that must approve the same opId before a
	// consensus-gated operation proceeds.
	EmergencyConsensus = 2

	DefaultOversightQuorum uint64 = 3
	DefaultRegionalQuorum  uint64 = 3
)

// DefaultPhaseWeights is the fund split applied until a weight proposal
// passes: 30/40/30 across initial, progress and completion.
var DefaultPhaseWeights = types.PhaseWeights{Initial: 30, Progress: 40, Completion: 30}

// Supermajority is the oversight threshold for meta-governance proposals,
// ceil(2/3) of the current member count.
func Supermajority(members uint64) uint64 {
	if members == 0 {
		return 1
	}
	return (members*2 + 2) / 3
}

type AppConfig struct {
	Home string `mapstructure:"-"`

	// VotingPeriod is in seconds and clamped to [MinVotingPeriod, MaxVotingPeriod].
	VotingPeriod int64 `mapstructure:"voting_period"`

	// IndexerListen is the bind address of the indexer HTTP service.
	IndexerListen string `mapstructure:"indexer_listen"`
}

func NewAppConfig(home string) *AppConfig {
	return &AppConfig{
		Home:          home,
		VotingPeriod:  DefaultVotingPeriod,
		IndexerListen: "127.0.0.1:8547",
	}
}

// BoundedVotingPeriod clamps the configured period into the sane range.
func (a *AppConfig) BoundedVotingPeriod() int64 {
	p := a.VotingPeriod
	if p < MinVotingPeriod {
		return MinVotingPeriod
	}
	if p > MaxVotingPeriod {
		return MaxVotingPeriod
	}
	return p
}

type Config struct {
	*config.Config `mapstructure:",squash"`

	App *AppConfig `mapstructure:"app"`
}

func DefaultHome() string {
	return os.ExpandEnv("$HOME/.pfd")
}

func NewConfig(home string) *Config {
	if len(home) == 0 {
		home = DefaultHome()
	}
	_ = os.MkdirAll(filepath.Join(home, "config"), 0o755)
	cfg := &Config{
		Config: DefaultCometConfig(),
		App:    NewAppConfig(home),
	}
	cfg.RootDir = home
	return cfg
}

func DefaultCometConfig() *config.Config {
	cometConfig := config.DefaultConfig()
	cometConfig.Consensus.TimeoutPropose = time.Second * 10
	cometConfig.Consensus.TimeoutPrevote = time.Second * 1
	cometConfig.Consensus.TimeoutPrecommit = time.Second * 1
	cometConfig.Consensus.TimeoutCommit = time.Millisecond * 1200
	return cometConfig
}

func InitializeNodeValidatorFiles(cfg *Config, privKey crypto.PrivKey) (nodeID string, pk crypto.PubKey, err error) {
	nodeKey, err := p2p.LoadOrGenNodeKey(cfg.NodeKeyFile())
	if err != nil {
		return "", nil, err
	}
	nodeID = string(nodeKey.ID())

	pvKeyFile := cfg.PrivValidatorKeyFile()
	if err := os.MkdirAll(filepath.Dir(pvKeyFile), 0o777); err != nil {
		return "", nil, fmt.Errorf("could not create directory %q: %w", filepath.Dir(pvKeyFile), err)
	}

	pvStateFile := cfg.PrivValidatorStateFile()
	if err := os.MkdirAll(filepath.Dir(pvStateFile), 0o777); err != nil {
		return "", nil, fmt.Errorf("could not create directory %q: %w", filepath.Dir(pvStateFile), err)
	}

	var filePV *privval.FilePV
	if privKey == nil {
		filePV = privval.LoadOrGenFilePV(pvKeyFile, pvStateFile)
	} else {
		filePV = privval.NewFilePV(privKey, pvKeyFile, pvStateFile)
		filePV.Save()
	}
	pubKey, err := filePV.GetPubKey()
	if err != nil {
		return "", nil, err
	}

	return nodeID, pubKey, nil
}
