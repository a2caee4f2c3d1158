package main

import (
	"fmt"
	"os"

	"github.com/jkorri/spotthebot/cmd/cli/ops"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "no .env file loaded")
	}
	rootCmd.AddGroup(ops.Group)
	rootCmd.AddCommand(ops.Sweep)
	rootCmd.AddCommand(ops.CloseExpired)
	rootCmd.AddCommand(ops.SeedTopics)
}

var rootCmd = &cobra.Command{
	Use:  "spotthebot-cli",
	Long: `Command line utilities for Spot the Bot`,
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
