package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/monitoring"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Check recent run health and send webhook alerts",
	Long:  "Summarizes runs inside monitoring.lookback_window_hours and posts an alert to monitoring.webhook_url for each breached threshold. With --watch, repeats every monitoring.check_interval_secs until interrupted.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		checker := monitoring.NewChecker(
			monitoring.NewCollector(st),
			monitoring.NewAlerter(cfg.Monitoring),
			cfg.Monitoring,
		)

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			checker.Run(ctx)
			return nil
		}

		alerts, err := checker.Check(ctx)
		if err != nil {
			return err
		}
		if alerts == nil {
			alerts = []monitoring.Alert{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(alerts)
	},
}

func init() {
	monitorCmd.Flags().Bool("watch", false, "keep checking on an interval until interrupted")
	rootCmd.AddCommand(monitorCmd)
}
