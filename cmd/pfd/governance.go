package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

type proposePauseArguments struct {
	sendArguments
	Group    uint8
	Duration int64
}

var proposePauseArgs proposePauseArguments

var proposePauseCmd = &cobra.Command{
	Use:   "proposepause",
	Short: "Propose a standard pause of a function group",
	Long:  ``,
	Run:   proposePauseRun,
}

func init() {
	sendFlags(proposePauseCmd, &proposePauseArgs.sendArguments)
	proposePauseCmd.Flags().Uint8VarP(&proposePauseArgs.Group, "group", "g", 0, "function group: 0 voting, 1 creation, 2 progress, 3 membership, 4 management, 5 funds")
	proposePauseCmd.Flags().Int64VarP(&proposePauseArgs.Duration, "duration", "t", 0, "pause duration in seconds, at most 14 days")
}

func proposePauseRun(cmd *cobra.Command, args []string) {
	stx := &tx.ProposePauseTx{
		Group:    types.FunctionGroup(proposePauseArgs.Group),
		Duration: proposePauseArgs.Duration,
	}
	sendTx(proposePauseArgs.sendArguments, tx.TxTypeProposePause, stx)
}

type pauseVoteArguments struct {
	sendArguments
	Proposal uint64
}

var pauseVoteArgs pauseVoteArguments

var pauseVoteCmd = &cobra.Command{
	Use:   "pausevote",
	Short: "Vote for a pending pause proposal",
	Long:  ``,
	Run:   pauseVoteRun,
}

func init() {
	sendFlags(pauseVoteCmd, &pauseVoteArgs.sendArguments)
	pauseVoteCmd.Flags().Uint64VarP(&pauseVoteArgs.Proposal, "proposal", "p", 0, "pause proposal id")
}

func pauseVoteRun(cmd *cobra.Command, args []string) {
	stx := &tx.PauseVoteTx{
		Proposal: pauseVoteArgs.Proposal,
	}
	sendTx(pauseVoteArgs.sendArguments, tx.TxTypePauseVote, stx)
}

type emergencyPauseArguments struct {
	sendArguments
	Group uint8
}

var emergencyPauseArgs emergencyPauseArguments

var emergencyPauseCmd = &cobra.Command{
	Use:   "emergencypause",
	Short: "Apply an immediate 3-day pause, emergency admin only",
	Long:  ``,
	Run:   emergencyPauseRun,
}

func init() {
	sendFlags(emergencyPauseCmd, &emergencyPauseArgs.sendArguments)
	emergencyPauseCmd.Flags().Uint8VarP(&emergencyPauseArgs.Group, "group", "g", 0, "function group: 0 voting, 1 creation, 2 progress, 3 membership, 4 management, 5 funds")
}

func emergencyPauseRun(cmd *cobra.Command, args []string) {
	stx := &tx.EmergencyPauseTx{
		Group: types.FunctionGroup(emergencyPauseArgs.Group),
	}
	sendTx(emergencyPauseArgs.sendArguments, tx.TxTypeEmergencyPause, stx)
}

type approveEmergencyArguments struct {
	sendArguments
	OpID string
}

var approveEmergencyArgs approveEmergencyArguments

var approveEmergencyCmd = &cobra.Command{
	Use:   "approveemergency",
	Short: "Record an admin approval for an emergency operation",
	Long:  ``,
	Run:   approveEmergencyRun,
}

func init() {
	sendFlags(approveEmergencyCmd, &approveEmergencyArgs.sendArguments)
	approveEmergencyCmd.Flags().StringVarP(&approveEmergencyArgs.OpID, "opid", "o", "", "emergency operation id")
}

func approveEmergencyRun(cmd *cobra.Command, args []string) {
	stx := &tx.EmergencyApproveTx{
		OpID: common.HexToHash(approveEmergencyArgs.OpID),
	}
	sendTx(approveEmergencyArgs.sendArguments, tx.TxTypeEmergencyApprove, stx)
}

type freezeArguments struct {
	sendArguments
	Project  string
	Duration int64
}

var freezeArgs freezeArguments

var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Freeze a project, emergency admin only",
	Long:  ``,
	Run:   freezeRun,
}

func init() {
	sendFlags(freezeCmd, &freezeArgs.sendArguments)
	freezeCmd.Flags().StringVarP(&freezeArgs.Project, "project", "p", "", "project id")
	freezeCmd.Flags().Int64VarP(&freezeArgs.Duration, "duration", "t", 0, "freeze duration in seconds")
}

func freezeRun(cmd *cobra.Command, args []string) {
	stx := &tx.FreezeTx{
		Project:  common.HexToHash(freezeArgs.Project),
		Duration: freezeArgs.Duration,
	}
	sendTx(freezeArgs.sendArguments, tx.TxTypeFreeze, stx)
}

type reassignArguments struct {
	sendArguments
	Project     string
	NewProposer uint64
}

var reassignArgs reassignArguments

var reassignCmd = &cobra.Command{
	Use:   "reassign",
	Short: "Reassign a project's proposer, timelocked with admin consensus",
	Long:  `First call queues the operation behind the timelock. Call again after the window with enough admin approvals recorded to execute.`,
	Run:   reassignRun,
}

func init() {
	sendFlags(reassignCmd, &reassignArgs.sendArguments)
	reassignCmd.Flags().StringVarP(&reassignArgs.Project, "project", "p", "", "project id")
	reassignCmd.Flags().Uint64VarP(&reassignArgs.NewProposer, "proposer", "t", 0, "new proposer account index")
}

func reassignRun(cmd *cobra.Command, args []string) {
	stx := &tx.ReassignTx{
		Project:     common.HexToHash(reassignArgs.Project),
		NewProposer: reassignArgs.NewProposer,
	}
	sendTx(reassignArgs.sendArguments, tx.TxTypeReassign, stx)
}
