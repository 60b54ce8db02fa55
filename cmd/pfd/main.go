package main

import (
	"fmt"
	"os"
)

func main() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(createProjectCmd)
	rootCmd.AddCommand(submitProgressCmd)
	rootCmd.AddCommand(advancePhaseCmd)
	rootCmd.AddCommand(updateStatusCmd)
	rootCmd.AddCommand(castVoteCmd)
	rootCmd.AddCommand(finalizeVoteCmd)
	rootCmd.AddCommand(milestoneCmd)
	rootCmd.AddCommand(releaseFundsCmd)
	rootCmd.AddCommand(proposeWeightsCmd)
	rootCmd.AddCommand(voteWeightsCmd)
	rootCmd.AddCommand(proposePauseCmd)
	rootCmd.AddCommand(pauseVoteCmd)
	rootCmd.AddCommand(emergencyPauseCmd)
	rootCmd.AddCommand(approveEmergencyCmd)
	rootCmd.AddCommand(freezeCmd)
	rootCmd.AddCommand(reassignCmd)
	rootCmd.AddCommand(submitClaimCmd)
	rootCmd.AddCommand(revokeClaimCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
