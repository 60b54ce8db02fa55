package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

type createProjectArguments struct {
	sendArguments
	RequestedFunds uint64
	Deposit        uint64
	RegionID       uint64
	Duration       int64
	InitialClaim   string
}

var createProjectArgs createProjectArguments

var createProjectCmd = &cobra.Command{
	Use:   "createproject",
	Short: "Create a project backed by an escrow deposit",
	Long:  ``,
	Run:   createProjectRun,
}

func init() {
	sendFlags(createProjectCmd, &createProjectArgs.sendArguments)
	createProjectCmd.Flags().Uint64VarP(&createProjectArgs.RequestedFunds, "funds", "f", 0, "requested funds")
	createProjectCmd.Flags().Uint64VarP(&createProjectArgs.Deposit, "deposit", "e", 0, "escrow deposit, must equal funds")
	createProjectCmd.Flags().Uint64VarP(&createProjectArgs.RegionID, "region", "g", 0, "project region id")
	createProjectCmd.Flags().Int64VarP(&createProjectArgs.Duration, "duration", "t", 0, "expected duration in seconds")
	createProjectCmd.Flags().StringVarP(&createProjectArgs.InitialClaim, "claim", "c", "", "initial phase claim id")
}

func createProjectRun(cmd *cobra.Command, args []string) {
	stx := &tx.CreateProjectTx{
		RequestedFunds: createProjectArgs.RequestedFunds,
		Deposit:        createProjectArgs.Deposit,
		RegionID:       createProjectArgs.RegionID,
		Duration:       createProjectArgs.Duration,
		InitialClaim:   common.HexToHash(createProjectArgs.InitialClaim),
	}
	sendTx(createProjectArgs.sendArguments, tx.TxTypeCreateProject, stx)
}

type submitProgressArguments struct {
	sendArguments
	Project string
	Claim   string
}

var submitProgressArgs submitProgressArguments

var submitProgressCmd = &cobra.Command{
	Use:   "submitprogress",
	Short: "Bind a progress claim to the project's current phase",
	Long:  ``,
	Run:   submitProgressRun,
}

func init() {
	sendFlags(submitProgressCmd, &submitProgressArgs.sendArguments)
	submitProgressCmd.Flags().StringVarP(&submitProgressArgs.Project, "project", "p", "", "project id")
	submitProgressCmd.Flags().StringVarP(&submitProgressArgs.Claim, "claim", "c", "", "claim id")
}

func submitProgressRun(cmd *cobra.Command, args []string) {
	stx := &tx.SubmitProgressTx{
		Project: common.HexToHash(submitProgressArgs.Project),
		Claim:   common.HexToHash(submitProgressArgs.Claim),
	}
	sendTx(submitProgressArgs.sendArguments, tx.TxTypeSubmitProgress, stx)
}

type advancePhaseArguments struct {
	sendArguments
	Project string
}

var advancePhaseArgs advancePhaseArguments

var advancePhaseCmd = &cobra.Command{
	Use:   "advancephase",
	Short: "Advance a project to its next phase after approval",
	Long:  ``,
	Run:   advancePhaseRun,
}

func init() {
	sendFlags(advancePhaseCmd, &advancePhaseArgs.sendArguments)
	advancePhaseCmd.Flags().StringVarP(&advancePhaseArgs.Project, "project", "p", "", "project id")
}

func advancePhaseRun(cmd *cobra.Command, args []string) {
	stx := &tx.AdvancePhaseTx{
		Project: common.HexToHash(advancePhaseArgs.Project),
	}
	sendTx(advancePhaseArgs.sendArguments, tx.TxTypeAdvancePhase, stx)
}

type updateStatusArguments struct {
	sendArguments
	Project string
	Status  uint8
}

var updateStatusArgs updateStatusArguments

var updateStatusCmd = &cobra.Command{
	Use:   "updatestatus",
	Short: "Change a project's lifecycle status",
	Long:  ``,
	Run:   updateStatusRun,
}

func init() {
	sendFlags(updateStatusCmd, &updateStatusArgs.sendArguments)
	updateStatusCmd.Flags().StringVarP(&updateStatusArgs.Project, "project", "p", "", "project id")
	updateStatusCmd.Flags().Uint8VarP(&updateStatusArgs.Status, "status", "t", 0, "target status: 1 active, 2 completed, 3 rejected, 4 failed, 5 cancelled, 6 paused")
}

func updateStatusRun(cmd *cobra.Command, args []string) {
	stx := &tx.UpdateStatusTx{
		Project: common.HexToHash(updateStatusArgs.Project),
		Status:  types.ProjectStatus(updateStatusArgs.Status),
	}
	sendTx(updateStatusArgs.sendArguments, tx.TxTypeUpdateStatus, stx)
}
