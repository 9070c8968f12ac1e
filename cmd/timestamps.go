package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/store"
)

var timestampsCmd = &cobra.Command{
	Use:   "timestamps",
	Short: "Inspect per-tag fetch timestamps",
	Long:  "Each tag remembers when its PhantomBuster results were last uploaded; only newer results are fetched on the next run.",
}

var timestampsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded timestamps",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		ts, err := st.ListTimestamps(ctx)
		if err != nil {
			return err
		}
		if len(ts) == 0 {
			fmt.Fprintln(os.Stderr, "No timestamps recorded.")
			return nil
		}
		formatTimestamps(os.Stdout, ts)
		return nil
	},
}

var timestampsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every recorded timestamp",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.ClearTimestamps(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Cleared %d timestamps\n", n)
		return nil
	},
}

func init() {
	timestampsCmd.AddCommand(timestampsListCmd)
	timestampsCmd.AddCommand(timestampsClearCmd)
	rootCmd.AddCommand(timestampsCmd)
}

// formatTimestamps writes a tabular timestamp list to w.
func formatTimestamps(out io.Writer, ts []store.Timestamp) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TAG\tLAST_UPLOAD")
	_, _ = fmt.Fprintln(w, "---\t-----------")
	for _, t := range ts {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", t.Tag, t.At.UTC().Format("2006-01-02 15:04:05"))
	}
	_ = w.Flush()
}
