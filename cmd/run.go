package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var (
	runTag           string
	runCSV           string
	runPhantom       string
	runCustomers     string
	runExcludeStores []string
	runUpload        bool
	runFrom          string
	runCutoffPct     float64
)

type runOutput struct {
	RunID   string          `json:"run_id"`
	Summary model.RunResult `json:"summary"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lead pipeline for one campaign tag",
	Long:  "Fetches listings from a CSV path, URL or PhantomBuster agent, assigns owners, enriches, verifies and optionally uploads leads. --from resumes from a stage snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("run"); err != nil {
			return err
		}
		from, err := pipeline.ParseStage(runFrom)
		if err != nil {
			return err
		}
		if from == "" && runCSV == "" && runPhantom == "" {
			return eris.New("run: one of --csv or --phantom is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		admins, err := loadAdmins(ctx)
		if err != nil {
			return err
		}

		customers := runCustomers
		if customers == "" {
			customers = cfg.Customers.Path
		}
		var exclude []string
		if cmd.Flags().Changed("exclude-stores") {
			exclude = runExcludeStores
		}

		p := pipeline.New(cfg, st, initHunter(), initPhantom(), initFetcher(), admins)
		result, err := p.Run(ctx, pipeline.Options{
			Tag:           runTag,
			Source:        runCSV,
			Phantom:       runPhantom,
			CustomersPath: customers,
			ExcludeStores: exclude,
			StartFrom:     from,
			Upload:        runUpload,
			CutoffPct:     runCutoffPct,
		})
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("run complete",
			zap.String("run_id", result.RunID),
			zap.Int("kept", result.Summary.Kept),
			zap.Int("uploaded", result.Summary.Uploaded),
		)

		// Print result JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runOutput{RunID: result.RunID, Summary: result.Summary})
	},
}

func init() {
	runCmd.Flags().StringVar(&runTag, "tag", "", "campaign tag (required)")
	runCmd.Flags().StringVar(&runCSV, "csv", "", "listing CSV path or URL")
	runCmd.Flags().StringVar(&runPhantom, "phantom", "", "PhantomBuster agent keyword to pull the latest results from")
	runCmd.Flags().StringVar(&runCustomers, "customers", "", "existing-customer export (.csv or .xlsx); defaults to customers.path")
	runCmd.Flags().StringSliceVar(&runExcludeStores, "exclude-stores", nil, "admin store codes to leave out of assignment")
	runCmd.Flags().BoolVar(&runUpload, "upload", false, "upload kept leads to Hunter lead lists")
	runCmd.Flags().StringVar(&runFrom, "from", "", "resume from a snapshot: listings, accounts, enriched, filtered")
	runCmd.Flags().Float64Var(&runCutoffPct, "cutoff-pct", 0, "share of accounts sizing the accepted category set; 0 uses pipeline.category_cutoff_pct")
	_ = runCmd.MarkFlagRequired("tag")
	rootCmd.AddCommand(runCmd)
}
