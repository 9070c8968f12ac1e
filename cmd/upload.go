package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/backup"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/upload"
)

var (
	uploadTag    string
	uploadFile   string
	uploadUpdate bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a filtered lead snapshot to Hunter lead lists",
	Long:  "Reads lead_backup_<tag>.csv (or --file), ensures one lead list per admin and creates a lead per contact in its owner's list.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("upload"); err != nil {
			return err
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

		backups := backup.New(cfg.Backup.Dir)
		path := uploadFile
		if path == "" {
			path = backups.Path(backup.Leads, uploadTag)
		}
		contacts, err := backups.ReadContactsFile(path, admins)
		if err != nil {
			return eris.Wrap(err, "upload: read leads")
		}
		candidates := make([]*model.ContactCandidate, len(contacts))
		for i := range contacts {
			candidates[i] = &contacts[i]
		}

		var opts []upload.Option
		if uploadUpdate {
			opts = append(opts, upload.WithUpdate())
		}
		u := upload.New(initHunter(), opts...)
		if _, err := u.CreateLists(ctx, uploadTag, admins.ListAdmins(cfg.Pipeline.ExcludeStoreCodes)); err != nil {
			return err
		}
		stats, err := u.Upload(ctx, uploadTag, candidates)
		if err != nil {
			return err
		}
		if err := st.SetTimestamp(ctx, uploadTag, time.Now().UTC()); err != nil {
			zap.L().Warn("upload: failed to record timestamp", zap.Error(err))
		}

		fmt.Fprintf(os.Stdout, "Uploaded %d leads (%d failed, %d skipped) from %s\n",
			stats.Uploaded, stats.Failed, stats.Skipped, path)
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadTag, "tag", "", "campaign tag (required)")
	uploadCmd.Flags().StringVar(&uploadFile, "file", "", "lead snapshot to upload instead of the tag's lead_backup file")
	uploadCmd.Flags().BoolVar(&uploadUpdate, "update", false, "overwrite leads that already exist instead of creating new ones")
	_ = uploadCmd.MarkFlagRequired("tag")
	rootCmd.AddCommand(uploadCmd)
}
