package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ganai-labs/voiceagents/internal/agents"
)

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "agents",
		Short:         "List the available agents",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Build each agent against a scratch directory to read its
			// metadata without touching real data files.
			dir, err := os.MkdirTemp("", "voiceagents-list-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(dir)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPERSONAS\tDESCRIPTION")
			for _, name := range agents.Names() {
				def, cleanup, err := agents.Build(name, agents.Config{
					DataDir:         filepath.Join(dir, "orders"),
					LeadsDBPath:     filepath.Join(dir, "leads_db.json"),
					WellnessLogPath: filepath.Join(dir, "wellness_log.json"),
					FraudDBPath:     filepath.Join(dir, "bank_fraud.db"),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", def.Name, len(def.Personas), def.Description)
				cleanup()
			}
			return w.Flush()
		},
	}
}
