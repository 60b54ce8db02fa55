package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/phasefund/phasefund/tx"
)

type submitClaimArguments struct {
	sendArguments
	Payload string
	RefID   string
}

var submitClaimArgs submitClaimArguments

var submitClaimCmd = &cobra.Command{
	Use:   "submitclaim",
	Short: "Register a state-proof claim",
	Long:  ``,
	Run:   submitClaimRun,
}

func init() {
	sendFlags(submitClaimCmd, &submitClaimArgs.sendArguments)
	submitClaimCmd.Flags().StringVarP(&submitClaimArgs.Payload, "payload", "p", "", "claim payload")
	submitClaimCmd.Flags().StringVarP(&submitClaimArgs.RefID, "ref", "r", "", "reference id, optional")
}

func submitClaimRun(cmd *cobra.Command, args []string) {
	stx := &tx.SubmitClaimTx{
		Payload: []byte(submitClaimArgs.Payload),
		RefID:   common.HexToHash(submitClaimArgs.RefID),
	}
	sendTx(submitClaimArgs.sendArguments, tx.TxTypeSubmitClaim, stx)
}

type revokeClaimArguments struct {
	sendArguments
	Claim string
}

var revokeClaimArgs revokeClaimArguments

var revokeClaimCmd = &cobra.Command{
	Use:   "revokeclaim",
	Short: "Revoke a claim, oversight only",
	Long:  ``,
	Run:   revokeClaimRun,
}

func init() {
	sendFlags(revokeClaimCmd, &revokeClaimArgs.sendArguments)
	revokeClaimCmd.Flags().StringVarP(&revokeClaimArgs.Claim, "claim", "c", "", "claim id")
}

func revokeClaimRun(cmd *cobra.Command, args []string) {
	stx := &tx.RevokeClaimTx{
		Claim: common.HexToHash(revokeClaimArgs.Claim),
	}
	sendTx(revokeClaimArgs.sendArguments, tx.TxTypeRevokeClaim, stx)
}
