package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
)

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Inspect the admin roster",
}

// -- admins list --

var adminsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List admins eligible for lead assignment",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := loadAdmins(cmd.Context())
		if err != nil {
			return err
		}

		exclude := cfg.Pipeline.ExcludeStoreCodes
		if cmd.Flags().Changed("exclude-stores") {
			exclude, _ = cmd.Flags().GetStringSlice("exclude-stores")
		}

		admins := dir.ListAdmins(exclude)
		if len(admins) == 0 {
			fmt.Fprintln(os.Stderr, "No admins found.")
			return nil
		}
		formatAdmins(os.Stdout, admins)
		return nil
	},
}

// -- admins find --

var adminsFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Find the admin with an exact email",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := loadAdmins(cmd.Context())
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("email")
		a, err := dir.FindByEmail(email)
		if err != nil {
			return err
		}
		formatAdmins(os.Stdout, []model.Admin{a})
		return nil
	},
}

func init() {
	adminsListCmd.Flags().StringSlice("exclude-stores", nil, "store codes to leave out (default pipeline.exclude_store_codes)")
	adminsFindCmd.Flags().String("email", "", "admin email (required)")
	_ = adminsFindCmd.MarkFlagRequired("email")

	adminsCmd.AddCommand(adminsListCmd)
	adminsCmd.AddCommand(adminsFindCmd)
	rootCmd.AddCommand(adminsCmd)
}

// formatAdmins writes a tabular roster to w.
func formatAdmins(out io.Writer, admins []model.Admin) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SLUG\tNAME\tEMAIL\tLOCATION\tSTORE")
	_, _ = fmt.Fprintln(w, "----\t----\t-----\t--------\t-----")
	for _, a := range admins {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.Slug, a.FullName(), a.Email, a.Location(), a.StoreCode)
	}
	_ = w.Flush()
}
