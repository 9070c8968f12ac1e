package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// --- Runs ---

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "Dentists")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "Dentists", got.Tag)
	assert.Equal(t, model.RunStatusQueued, got.Status)
	assert.Nil(t, got.Result)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "Dentists")
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusEnriching))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusEnriching, got.Status)
}

func TestSQLite_UpdateRunStatus_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "missing", model.RunStatusFailed)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLite_UpdateRunResult(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "Dentists")
	require.NoError(t, err)

	result := &model.RunResult{Listings: 12, Accounts: 8, Kept: 5, Uploaded: 5}
	require.NoError(t, st.UpdateRunResult(ctx, run.ID, result))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 12, got.Result.Listings)
	assert.Equal(t, 5, got.Result.Uploaded)
}

func TestSQLite_UpdateRunResult_ErrorMarksFailed(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "Dentists")
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunResult(ctx, run.ID, &model.RunResult{Error: "hunter: 401"}))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "hunter: 401", got.Result.Error)
}

func TestSQLite_ListRuns_Filters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateRun(ctx, "Dentists")
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, "Salons")
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, "Dentists")
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunStatus(ctx, a.ID, model.RunStatusFailed))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byTag, err := st.ListRuns(ctx, RunFilter{Tag: "Dentists"})
	require.NoError(t, err)
	assert.Len(t, byTag, 2)

	failed, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, a.ID, failed[0].ID)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

// --- Phases ---

func TestSQLite_Phases(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "Dentists")
	require.NoError(t, err)

	p1, err := st.CreatePhase(ctx, run.ID, "listings")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseStatusRunning, p1.Status)
	p2, err := st.CreatePhase(ctx, run.ID, "clean")
	require.NoError(t, err)

	require.NoError(t, st.CompletePhase(ctx, p1.ID, &model.PhaseResult{
		Name:     "listings",
		Status:   model.PhaseStatusComplete,
		Duration: 120,
		Metadata: map[string]any{"rows": float64(40)},
	}))

	phases, err := st.ListPhases(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, phases, 2)
	assert.Equal(t, p1.ID, phases[0].ID)
	assert.Equal(t, model.PhaseStatusComplete, phases[0].Status)
	require.NotNil(t, phases[0].Result)
	assert.Equal(t, float64(40), phases[0].Result.Metadata["rows"])
	assert.Equal(t, p2.ID, phases[1].ID)
	assert.Nil(t, phases[1].Result)
}

func TestSQLite_CompletePhase_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.CompletePhase(context.Background(), "missing", &model.PhaseResult{Status: model.PhaseStatusFailed})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "phase not found")
}

// --- Timestamps ---

func TestSQLite_Timestamps(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	got, err := st.GetTimestamp(ctx, "Dentists")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	first := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	second := time.Date(2026, 10, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, st.SetTimestamp(ctx, "Dentists", first))
	require.NoError(t, st.SetTimestamp(ctx, "Dentists", second))
	require.NoError(t, st.SetTimestamp(ctx, "Barbers", first))

	got, err = st.GetTimestamp(ctx, "Dentists")
	require.NoError(t, err)
	assert.True(t, second.Equal(got))

	all, err := st.ListTimestamps(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Barbers", all[0].Tag)
	assert.Equal(t, "Dentists", all[1].Tag)

	n, err := st.ClearTimestamps(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err = st.ListTimestamps(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// --- Verifications ---

func TestSQLite_Verifications(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	miss, err := st.GetVerification(ctx, "jane@acme.com")
	require.NoError(t, err)
	assert.Nil(t, miss)

	at := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.SaveVerifications(ctx, []model.Verification{
		{Email: "Jane@Acme.com", Status: model.StatusAcceptAll, Result: "risky", Score: 70, VerifiedAt: at},
		{Email: "bob@acme.com", Status: model.StatusValid, Result: "deliverable", Score: 95, VerifiedAt: at},
	}))
	require.NoError(t, st.SaveVerifications(ctx, []model.Verification{
		{Email: "jane@acme.com", Status: model.StatusValid, Result: "deliverable", Score: 91, VerifiedAt: at.AddDate(0, 0, 5)},
	}))

	got, err := st.GetVerification(ctx, " JANE@acme.com ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "jane@acme.com", got.Email)
	assert.Equal(t, model.StatusValid, got.Status)
	assert.Equal(t, 91, got.Score)
	assert.True(t, at.AddDate(0, 0, 5).Equal(got.VerifiedAt))
}

func TestSQLite_SaveVerifications_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)
	assert.NoError(t, st.SaveVerifications(context.Background(), nil))
}

func TestOpen_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "open.db")
	st, err := Open(context.Background(), DriverSQLite, dsn, nil)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	_, err = st.CreateRun(context.Background(), "Dentists")
	assert.NoError(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestOpen_PostgresNeedsURL(t *testing.T) {
	_, err := Open(context.Background(), DriverPostgres, "", nil)
	assert.Error(t, err)
}
