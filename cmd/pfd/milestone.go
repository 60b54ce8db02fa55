package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

type milestoneArguments struct {
	sendArguments
	Op      string
	Project string
	Phase   uint8
	Labels  []string
	Label   string
	Done    bool
}

var milestoneArgs milestoneArguments

var milestoneCmd = &cobra.Command{
	Use:   "milestone",
	Short: "Set a phase checklist or flip one milestone",
	Long:  ``,
	Run:   milestoneRun,
}

func init() {
	sendFlags(milestoneCmd, &milestoneArgs.sendArguments)
	milestoneCmd.Flags().StringVarP(&milestoneArgs.Op, "op", "o", "set", "operation: set or complete")
	milestoneCmd.Flags().StringVarP(&milestoneArgs.Project, "project", "p", "", "project id")
	milestoneCmd.Flags().Uint8VarP(&milestoneArgs.Phase, "phase", "f", 0, "phase: 0 initial, 1 progress, 2 completion")
	milestoneCmd.Flags().StringSliceVarP(&milestoneArgs.Labels, "labels", "l", nil, "checklist labels, set op")
	milestoneCmd.Flags().StringVarP(&milestoneArgs.Label, "label", "m", "", "milestone label, complete op")
	milestoneCmd.Flags().BoolVarP(&milestoneArgs.Done, "done", "", true, "mark done or undone, complete op")
}

func milestoneRun(cmd *cobra.Command, args []string) {
	stx := &tx.MilestoneTx{
		Op:      milestoneArgs.Op,
		Project: common.HexToHash(milestoneArgs.Project),
		Phase:   types.Phase(milestoneArgs.Phase),
		Labels:  milestoneArgs.Labels,
		Label:   milestoneArgs.Label,
		Done:    milestoneArgs.Done,
	}
	sendTx(milestoneArgs.sendArguments, tx.TxTypeMilestone, stx)
}
