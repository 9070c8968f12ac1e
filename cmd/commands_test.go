package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/phantombuster"
)

const testRoster = `first_name,last_name,slug,email,city,state,store_code
Jane,Doe,jdoe,jane@example.com,Austin,TX,AU
Bob,Roe,broe,bob@example.com,,TX,XX
`

// testConfig points every path at a fresh temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	roster := filepath.Join(dir, "admins.csv")
	require.NoError(t, os.WriteFile(roster, []byte(testRoster), 0o644))

	return &config.Config{
		Store:    config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(dir, "leadgen.db")},
		Backup:   config.BackupConfig{Dir: filepath.Join(dir, "backups")},
		Admins:   config.AdminsConfig{RosterPath: roster},
		Pipeline: config.PipelineConfig{ExcludeStoreCodes: []string{"XX"}},
	}
}

func withContext(t *testing.T, cmds ...interface{ SetContext(context.Context) }) {
	t.Helper()
	for _, c := range cmds {
		c.SetContext(context.Background())
	}
	t.Cleanup(func() {
		for _, c := range cmds {
			c.SetContext(nil)
		}
	})
}

func TestTimestampsCmd_ListAndClear(t *testing.T) {
	cfg = testConfig(t)
	withContext(t, timestampsListCmd, timestampsClearCmd)

	st, err := store.Open(context.Background(), cfg.Store.Driver, cfg.Store.DatabaseURL, nil)
	require.NoError(t, err)
	require.NoError(t, st.SetTimestamp(context.Background(), "dentists", time.Now()))
	require.NoError(t, st.Close())

	require.NoError(t, timestampsListCmd.RunE(timestampsListCmd, nil))
	require.NoError(t, timestampsClearCmd.RunE(timestampsClearCmd, nil))

	st, err = store.Open(context.Background(), cfg.Store.Driver, cfg.Store.DatabaseURL, nil)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck
	ts, err := st.ListTimestamps(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ts)
}

func TestRunsCmd_ListEmptyAndShowMissing(t *testing.T) {
	cfg = testConfig(t)
	withContext(t, runsListCmd, runsShowCmd, runsStatsCmd)

	require.NoError(t, runsListCmd.RunE(runsListCmd, nil))
	require.NoError(t, runsStatsCmd.RunE(runsStatsCmd, nil))

	err := runsShowCmd.RunE(runsShowCmd, []string{"no-such-run"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runs show")
}

func TestRunsCmd_BadDriver(t *testing.T) {
	cfg = testConfig(t)
	cfg.Store.Driver = "mysql"
	withContext(t, runsListCmd)

	err := runsListCmd.RunE(runsListCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestAdminsCmd_ListAndFind(t *testing.T) {
	cfg = testConfig(t)
	withContext(t, adminsListCmd, adminsFindCmd)

	require.NoError(t, adminsListCmd.RunE(adminsListCmd, nil))

	require.NoError(t, adminsFindCmd.Flags().Set("email", "nobody@example.com"))
	t.Cleanup(func() { _ = adminsFindCmd.Flags().Set("email", "") })
	assert.Error(t, adminsFindCmd.RunE(adminsFindCmd, nil))

	require.NoError(t, adminsFindCmd.Flags().Set("email", "jane@example.com"))
	assert.NoError(t, adminsFindCmd.RunE(adminsFindCmd, nil))
}

func TestPhantomsCmd_RequiresKey(t *testing.T) {
	cfg = testConfig(t)
	withContext(t, phantomsListCmd, phantomsLaunchCmd)

	err := phantomsListCmd.RunE(phantomsListCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phantombuster.key is required")

	err = phantomsLaunchCmd.RunE(phantomsLaunchCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phantombuster.key is required")
}

func TestLeadListsCmd_RequiresKey(t *testing.T) {
	cfg = testConfig(t)
	withContext(t, leadListsCreateCmd, leadListsDeleteCmd, leadListsCountCmd)

	for _, c := range leadListsCmd.Commands() {
		err := c.RunE(c, nil)
		require.Error(t, err, c.Name())
		assert.Contains(t, err.Error(), "hunter.key is required")
	}
}

func TestUploadCmd_MissingSnapshot(t *testing.T) {
	cfg = testConfig(t)
	cfg.Hunter.Key = "test-key"
	withContext(t, uploadCmd)

	uploadTag = "dentists"
	t.Cleanup(func() { uploadTag = "" })

	err := uploadCmd.RunE(uploadCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload: read leads")
}

func TestFormatAdmins(t *testing.T) {
	var buf bytes.Buffer
	formatAdmins(&buf, []model.Admin{
		{FirstName: "Jane", LastName: "Doe", Slug: "jdoe", Email: "jane@example.com", City: "Austin", State: "TX", StoreCode: "AU"},
		{FirstName: "Bob", Slug: "bob", Email: "bob@example.com", State: "TX"},
	})

	output := buf.String()
	assert.Contains(t, output, "SLUG")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Austin, TX")
	assert.Contains(t, output, "bob@example.com")
}

func TestFormatAgents(t *testing.T) {
	updated := time.Date(2026, 10, 1, 8, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	formatAgents(&buf, []phantombuster.Agent{
		{ID: "111", Name: "Maps Dentists", LastEndStatus: "success", UpdatedAt: updated.UnixMilli()},
		{ID: "222", Name: "Never Ran"},
	})

	output := buf.String()
	assert.Contains(t, output, "LAST_STATUS")
	assert.Contains(t, output, "Maps Dentists")
	assert.Contains(t, output, "2026-10-01 08:30")
	assert.Contains(t, output, "Never Ran")
}

func TestFormatTimestamps(t *testing.T) {
	var buf bytes.Buffer
	formatTimestamps(&buf, []store.Timestamp{
		{Tag: "dentists", At: time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)},
	})

	output := buf.String()
	assert.Contains(t, output, "LAST_UPLOAD")
	assert.Contains(t, output, "dentists")
	assert.Contains(t, output, "2026-10-18 15:00:00")
}

func TestMonitorCmd_CheckOnce(t *testing.T) {
	cfg = testConfig(t)
	cfg.Monitoring = config.MonitoringConfig{LookbackWindowHours: 24, FailureRateThreshold: 0.25}
	withContext(t, monitorCmd)

	require.NoError(t, monitorCmd.RunE(monitorCmd, nil))
	assert.NotNil(t, monitorCmd.Flags().Lookup("watch"))
}

func TestClientResiliencePolicy(t *testing.T) {
	cfg = testConfig(t)
	cfg.Resilience = config.ResilienceConfig{MaxAttempts: 4, InitialBackoffMs: 50, BreakerThreshold: 2, BreakerResetSecs: 5}

	assert.NotNil(t, initHunter())
	assert.Nil(t, initPhantom())
	cfg.PhantomBuster.Key = "pb-key"
	assert.NotNil(t, initPhantom())
}
