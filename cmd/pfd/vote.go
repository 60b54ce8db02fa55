package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/phasefund/phasefund/tx"
)

type castVoteArguments struct {
	sendArguments
	Claim    string
	RegionID uint64
	Approve  bool
}

var castVoteArgs castVoteArguments

var castVoteCmd = &cobra.Command{
	Use:   "castvote",
	Short: "Cast a ballot on a claim's dual-quorum vote",
	Long:  ``,
	Run:   castVoteRun,
}

func init() {
	sendFlags(castVoteCmd, &castVoteArgs.sendArguments)
	castVoteCmd.Flags().StringVarP(&castVoteArgs.Claim, "claim", "c", "", "claim id")
	castVoteCmd.Flags().Uint64VarP(&castVoteArgs.RegionID, "region", "g", 0, "voter region id, regional track only")
	castVoteCmd.Flags().BoolVarP(&castVoteArgs.Approve, "approve", "a", true, "approve or reject")
}

func castVoteRun(cmd *cobra.Command, args []string) {
	stx := &tx.CastVoteTx{
		Claim:    common.HexToHash(castVoteArgs.Claim),
		RegionID: castVoteArgs.RegionID,
		Approve:  castVoteArgs.Approve,
	}
	sendTx(castVoteArgs.sendArguments, tx.TxTypeCastVote, stx)
}

type finalizeVoteArguments struct {
	sendArguments
	Claim string
}

var finalizeVoteArgs finalizeVoteArguments

var finalizeVoteCmd = &cobra.Command{
	Use:   "finalizevote",
	Short: "Finalize a vote after its deadline",
	Long:  ``,
	Run:   finalizeVoteRun,
}

func init() {
	sendFlags(finalizeVoteCmd, &finalizeVoteArgs.sendArguments)
	finalizeVoteCmd.Flags().StringVarP(&finalizeVoteArgs.Claim, "claim", "c", "", "claim id")
}

func finalizeVoteRun(cmd *cobra.Command, args []string) {
	stx := &tx.FinalizeVoteTx{
		Claim: common.HexToHash(finalizeVoteArgs.Claim),
	}
	sendTx(finalizeVoteArgs.sendArguments, tx.TxTypeFinalizeVote, stx)
}
