package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

type memberArguments struct {
	sendArguments
	Op       string
	Pubkey   string
	Target   uint64
	Role     uint8
	RegionID uint64
}

var memberArgs memberArguments

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Add, update or remove a registry member",
	Long:  ``,
	Run:   memberRun,
}

func init() {
	sendFlags(memberCmd, &memberArgs.sendArguments)
	memberCmd.Flags().StringVarP(&memberArgs.Op, "op", "o", "add", "operation: add, update or remove")
	memberCmd.Flags().StringVarP(&memberArgs.Pubkey, "pubkey", "p", "", "new member pubkey")
	memberCmd.Flags().Uint64VarP(&memberArgs.Target, "target", "t", 0, "target member index")
	memberCmd.Flags().Uint8VarP(&memberArgs.Role, "role", "r", uint8(types.RoleRegional), "member role: 1 regional, 2 oversight")
	memberCmd.Flags().Uint64VarP(&memberArgs.RegionID, "region", "g", 0, "member region id")
}

func memberRun(cmd *cobra.Command, args []string) {
	var pubkey []byte
	var err error
	if memberArgs.Pubkey != "" {
		pubkey, err = hex.DecodeString(memberArgs.Pubkey)
		if err != nil {
			fmt.Printf("decode pubkey hex err:%v\n", err)
			return
		}
	}
	stx := &tx.MemberTx{
		Op:       memberArgs.Op,
		Pubkey:   pubkey,
		Target:   memberArgs.Target,
		Role:     types.Role(memberArgs.Role),
		RegionID: memberArgs.RegionID,
	}
	sendTx(memberArgs.sendArguments, tx.TxTypeMember, stx)
}
