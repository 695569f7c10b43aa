/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "forms-gateway",
	Short: "HR forms BPM gateway",
	Long: `Forms Gateway is a REST API server that keeps HR business-process
forms (leave, overtime, trip, attendance) in sync with an external BPM
engine. It ingests pushed form events, fetches form snapshots on demand,
and mirrors persisted forms to a secondary reporting database.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// GetRootCmd 返回根命令（用于测试）
func GetRootCmd() *cobra.Command {
	return rootCmd
}
