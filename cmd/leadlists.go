package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/upload"
)

var leadListsCmd = &cobra.Command{
	Use:   "leadlists",
	Short: "Manage per-admin Hunter lead lists",
}

// -- leadlists create --

var leadListsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create one lead list per admin for a tag",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("leadlists"); err != nil {
			return err
		}
		dir, err := loadAdmins(ctx)
		if err != nil {
			return err
		}

		tag, _ := cmd.Flags().GetString("tag")
		ids, err := upload.New(initHunter()).CreateLists(ctx, tag, dir.ListAdmins(cfg.Pipeline.ExcludeStoreCodes))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%d lead lists ready for %q\n", len(ids), tag)
		return nil
	},
}

// -- leadlists delete --

var leadListsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete every lead list whose name contains the tag",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("leadlists"); err != nil {
			return err
		}
		tag, _ := cmd.Flags().GetString("tag")
		n, err := upload.New(initHunter()).DeleteLists(cmd.Context(), tag)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted %d lead lists\n", n)
		return nil
	},
}

// -- leadlists count --

var leadListsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count leads across lists whose name contains the tag",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("leadlists"); err != nil {
			return err
		}
		tag, _ := cmd.Flags().GetString("tag")
		n, err := upload.New(initHunter()).CountLeads(cmd.Context(), tag)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%d leads\n", n)
		return nil
	},
}

// -- leadlists reassign --

var leadListsReassignCmd = &cobra.Command{
	Use:   "reassign",
	Short: "Move leads from one tag's lists into another tag's lists by owner",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("leadlists"); err != nil {
			return err
		}
		from, _ := cmd.Flags().GetString("from-tag")
		to, _ := cmd.Flags().GetString("to-tag")
		stats, err := upload.New(initHunter()).Reassign(cmd.Context(), from, to)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Moved %d leads to %q (%d failed, %d skipped)\n",
			stats.Moved, to, stats.Failed, stats.Skipped)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{leadListsCreateCmd, leadListsDeleteCmd, leadListsCountCmd} {
		c.Flags().String("tag", "", "campaign tag (required)")
		_ = c.MarkFlagRequired("tag")
		leadListsCmd.AddCommand(c)
	}
	leadListsReassignCmd.Flags().String("from-tag", "", "tag whose lists are emptied (required)")
	leadListsReassignCmd.Flags().String("to-tag", "", "tag whose lists receive the leads (required)")
	_ = leadListsReassignCmd.MarkFlagRequired("from-tag")
	_ = leadListsReassignCmd.MarkFlagRequired("to-tag")
	leadListsCmd.AddCommand(leadListsReassignCmd)
	rootCmd.AddCommand(leadListsCmd)
}
