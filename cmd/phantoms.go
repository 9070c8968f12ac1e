package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/pkg/phantombuster"
)

var phantomsCmd = &cobra.Command{
	Use:   "phantoms",
	Short: "List and launch PhantomBuster agents",
}

// -- phantoms list --

var phantomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List PhantomBuster agents",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("phantoms"); err != nil {
			return err
		}
		agents, err := initPhantom().ListAgents(cmd.Context())
		if err != nil {
			return err
		}
		if len(agents) == 0 {
			fmt.Fprintln(os.Stderr, "No agents found.")
			return nil
		}
		formatAgents(os.Stdout, agents)
		return nil
	},
}

// -- phantoms launch --

var phantomsLaunchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch the first agent whose name contains a keyword",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("phantoms"); err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")

		pb := initPhantom()
		agent, err := pb.FindAgent(ctx, name)
		if err != nil {
			return err
		}
		containerID, err := pb.Launch(ctx, agent.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Launched %s (agent %s, container %s)\n", agent.Name, agent.ID, containerID)
		return nil
	},
}

func init() {
	phantomsLaunchCmd.Flags().String("name", "", "agent name keyword (required)")
	_ = phantomsLaunchCmd.MarkFlagRequired("name")

	phantomsCmd.AddCommand(phantomsListCmd)
	phantomsCmd.AddCommand(phantomsLaunchCmd)
	rootCmd.AddCommand(phantomsCmd)
}

// formatAgents writes a tabular agent list to w.
func formatAgents(out io.Writer, agents []phantombuster.Agent) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tLAST_STATUS\tUPDATED")
	_, _ = fmt.Fprintln(w, "--\t----\t-----------\t-------")
	for _, a := range agents {
		updated := ""
		if a.UpdatedAt > 0 {
			updated = time.UnixMilli(a.UpdatedAt).UTC().Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.LastEndStatus, updated)
	}
	_ = w.Flush()
}
