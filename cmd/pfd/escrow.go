package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

type releaseFundsArguments struct {
	sendArguments
	Project string
	Phase   uint8
}

var releaseFundsArgs releaseFundsArguments

var releaseFundsCmd = &cobra.Command{
	Use:   "releasefunds",
	Short: "Release the escrow tranche of an approved phase",
	Long:  ``,
	Run:   releaseFundsRun,
}

func init() {
	sendFlags(releaseFundsCmd, &releaseFundsArgs.sendArguments)
	releaseFundsCmd.Flags().StringVarP(&releaseFundsArgs.Project, "project", "p", "", "project id")
	releaseFundsCmd.Flags().Uint8VarP(&releaseFundsArgs.Phase, "phase", "f", 0, "phase: 0 initial, 1 progress, 2 completion")
}

func releaseFundsRun(cmd *cobra.Command, args []string) {
	stx := &tx.ReleaseFundsTx{
		Project: common.HexToHash(releaseFundsArgs.Project),
		Phase:   types.Phase(releaseFundsArgs.Phase),
	}
	sendTx(releaseFundsArgs.sendArguments, tx.TxTypeReleaseFunds, stx)
}

type proposeWeightsArguments struct {
	sendArguments
	Initial    uint64
	Progress   uint64
	Completion uint64
}

var proposeWeightsArgs proposeWeightsArguments

var proposeWeightsCmd = &cobra.Command{
	Use:   "proposeweights",
	Short: "Propose new phase fund weights, must sum to 100",
	Long:  ``,
	Run:   proposeWeightsRun,
}

func init() {
	sendFlags(proposeWeightsCmd, &proposeWeightsArgs.sendArguments)
	proposeWeightsCmd.Flags().Uint64VarP(&proposeWeightsArgs.Initial, "initial", "a", 30, "initial phase percent")
	proposeWeightsCmd.Flags().Uint64VarP(&proposeWeightsArgs.Progress, "progress", "b", 40, "progress phase percent")
	proposeWeightsCmd.Flags().Uint64VarP(&proposeWeightsArgs.Completion, "completion", "c", 30, "completion phase percent")
}

func proposeWeightsRun(cmd *cobra.Command, args []string) {
	stx := &tx.ProposeWeightsTx{
		Weights: types.PhaseWeights{
			Initial:    proposeWeightsArgs.Initial,
			Progress:   proposeWeightsArgs.Progress,
			Completion: proposeWeightsArgs.Completion,
		},
	}
	sendTx(proposeWeightsArgs.sendArguments, tx.TxTypeProposeWeights, stx)
}

type voteWeightsArguments struct {
	sendArguments
	Proposal uint64
}

var voteWeightsArgs voteWeightsArguments

var voteWeightsCmd = &cobra.Command{
	Use:   "voteweights",
	Short: "Vote for a pending weight proposal",
	Long:  ``,
	Run:   voteWeightsRun,
}

func init() {
	sendFlags(voteWeightsCmd, &voteWeightsArgs.sendArguments)
	voteWeightsCmd.Flags().Uint64VarP(&voteWeightsArgs.Proposal, "proposal", "p", 0, "weight proposal id")
}

func voteWeightsRun(cmd *cobra.Command, args []string) {
	stx := &tx.VoteWeightsTx{
		Proposal: voteWeightsArgs.Proposal,
	}
	sendTx(voteWeightsArgs.sendArguments, tx.TxTypeVoteWeights, stx)
}
