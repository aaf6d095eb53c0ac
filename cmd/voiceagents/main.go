package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootCmd    *cobra.Command
	configPath string
)

func main() {
	rootCmd = &cobra.Command{
		Use:   "voiceagents",
		Short: "Voiceagents - multi-persona voice assistant demos",
		Long: `Voiceagents runs a suite of voice assistant demos (coffee ordering,
grocery shopping, lead qualification, fraud verification, game mastering,
wellness check-ins and multi-persona tutoring) behind a websocket server
or an interactive terminal chat.`,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "voiceagents.yaml",
		"Path to the YAML config file (optional)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newAgentsCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
