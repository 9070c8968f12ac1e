package verify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	"github.com/sells-group/leadgen-cli/pkg/hunter/mocks"
)

var now = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return now }

func daysAgo(n int) time.Time {
	return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -n)
}

type memCache struct {
	mu    sync.Mutex
	items map[string]model.Verification
	saved []model.Verification
}

func (m *memCache) GetVerification(_ context.Context, email string) (*model.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[email]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (m *memCache) SaveVerifications(_ context.Context, vs []model.Verification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, vs...)
	return nil
}

func TestRun_FreshValidNoRemoteCall(t *testing.T) {
	m := mocks.NewMockClient(t)

	c := &model.ContactCandidate{
		Email: "sam@acme.com", FirstName: "Sam",
		VerificationStatus: model.StatusValid, VerificationDate: daysAgo(30),
	}
	res, err := NewFilter(m, WithClock(clock)).Run(context.Background(), []*model.ContactCandidate{c})
	require.NoError(t, err)
	assert.Equal(t, model.VerdictAccepted, c.Good)
	assert.Len(t, res.Kept, 1)
	m.AssertNotCalled(t, "VerifyEmail", mock.Anything, mock.Anything)
}

func TestRun_AbsentStatusCallsOnce(t *testing.T) {
	m := mocks.NewMockClient(t)
	m.On("VerifyEmail", mock.Anything, "pat@acme.com").
		Return(&hunter.Verification{Status: "valid", Result: hunter.ResultDeliverable, Score: 95}, nil).Once()

	c := &model.ContactCandidate{Email: "pat@acme.com"}
	res, err := NewFilter(m, WithClock(clock)).Run(context.Background(), []*model.ContactCandidate{c})
	require.NoError(t, err)

	m.AssertNumberOfCalls(t, "VerifyEmail", 1)
	assert.Equal(t, model.VerdictAccepted, c.Good)
	assert.Equal(t, model.StatusValid, c.VerificationStatus)
	assert.Equal(t, 95, *c.Confidence)
	assert.Equal(t, daysAgo(0), c.VerificationDate)
	assert.Equal(t, 1, res.Verified)
}

func TestRun_Decisions(t *testing.T) {
	m := mocks.NewMockClient(t)
	m.On("VerifyEmail", mock.Anything, "risky-hi@x.com").Return(&hunter.Verification{Status: "accept_all", Result: hunter.ResultRisky, Score: 85}, nil)
	m.On("VerifyEmail", mock.Anything, "risky-lo@x.com").Return(&hunter.Verification{Status: "accept_all", Result: hunter.ResultRisky, Score: 60}, nil)
	m.On("VerifyEmail", mock.Anything, "risky-noname@x.com").Return(&hunter.Verification{Status: "accept_all", Result: hunter.ResultRisky, Score: 99}, nil)
	m.On("VerifyEmail", mock.Anything, "dead@x.com").Return(&hunter.Verification{Status: "invalid", Result: hunter.ResultUndeliverable}, nil)
	m.On("VerifyEmail", mock.Anything, "fail-good@x.com").Return(nil, errors.New("hunter: unexpected status 202"))
	m.On("VerifyEmail", mock.Anything, "fail-unset@x.com").Return(nil, errors.New("timeout"))
	m.On("VerifyEmail", mock.Anything, "odd@x.com").Return(&hunter.Verification{Status: "unknown", Result: "unknown", Score: 10}, nil)

	cs := []*model.ContactCandidate{
		{Email: "risky-hi@x.com", FirstName: "Hi"},
		{Email: "risky-lo@x.com", FirstName: "Lo"},
		{Email: "risky-noname@x.com"},
		{Email: "dead@x.com", FirstName: "D", VerificationStatus: model.StatusValid, VerificationDate: daysAgo(182)},
		{Email: "stale-invalid@x.com", VerificationStatus: model.StatusInvalid, VerificationDate: daysAgo(400)},
		{Email: "fail-good@x.com", FirstName: "F", Good: model.VerdictAccepted},
		{Email: "fail-unset@x.com"},
		{Email: "odd@x.com", FirstName: "O", Good: model.VerdictAccepted},
		{Email: "catchall@x.com", FirstName: "C", VerificationStatus: model.StatusAcceptAll, VerificationDate: daysAgo(10)},
		{Email: "fresh-unknown@x.com", FirstName: "U", VerificationStatus: model.StatusUnknown, VerificationDate: daysAgo(10)},
		{Email: "fresh-noname@x.com", VerificationStatus: model.StatusValid, VerificationDate: daysAgo(181)},
	}

	res, err := NewFilter(m, WithClock(clock), WithConcurrency(3)).Run(context.Background(), cs)
	require.NoError(t, err)

	want := map[string]model.Verdict{
		"risky-hi@x.com":      model.VerdictAccepted,
		"risky-lo@x.com":      model.VerdictRejected,
		"risky-noname@x.com":  model.VerdictRejected,
		"dead@x.com":          model.VerdictRejected,
		"stale-invalid@x.com": model.VerdictRejected,
		"fail-good@x.com":     model.VerdictAccepted,
		"fail-unset@x.com":    model.VerdictUnset,
		"odd@x.com":           model.VerdictAccepted,
		"catchall@x.com":      model.VerdictRejected,
		"fresh-unknown@x.com": model.VerdictRejected,
		"fresh-noname@x.com":  model.VerdictRejected,
	}
	for _, c := range cs {
		assert.Equal(t, want[c.Email], c.Good, c.Email)
	}

	m.AssertNotCalled(t, "VerifyEmail", mock.Anything, "stale-invalid@x.com")
	assert.Equal(t, 5, res.Verified)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 1, res.ShortCircuited)
	assert.Len(t, res.Kept, 3)
	assert.Len(t, res.Rejected, 8)
	assert.Equal(t, "risky-hi@x.com", res.Kept[0].Email, "input order preserved")
	assert.Equal(t, "fail-unset@x.com", res.Rejected[4].Email)
}

func TestRun_EmptyInput(t *testing.T) {
	res, err := NewFilter(mocks.NewMockClient(t)).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Kept)
	assert.Empty(t, res.Rejected)
}

func TestRun_UsesFreshCacheAndSavesRemoteResults(t *testing.T) {
	m := mocks.NewMockClient(t)
	m.On("VerifyEmail", mock.Anything, "old@x.com").
		Return(&hunter.Verification{Status: "valid", Result: hunter.ResultDeliverable, Score: 90}, nil).Once()

	cache := &memCache{items: map[string]model.Verification{
		"hit@x.com": {Email: "hit@x.com", Status: model.StatusValid, Result: hunter.ResultDeliverable, Score: 88, VerifiedAt: daysAgo(5)},
		"old@x.com": {Email: "old@x.com", Status: model.StatusValid, Result: hunter.ResultDeliverable, Score: 88, VerifiedAt: daysAgo(300)},
	}}

	hit := &model.ContactCandidate{Email: "hit@x.com"}
	old := &model.ContactCandidate{Email: "old@x.com"}
	res, err := NewFilter(m, WithClock(clock), WithCache(cache)).Run(context.Background(), []*model.ContactCandidate{hit, old})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Cached)
	assert.Equal(t, 1, res.Verified)
	assert.Equal(t, model.VerdictAccepted, hit.Good)
	assert.Equal(t, daysAgo(5), hit.VerificationDate)
	m.AssertNotCalled(t, "VerifyEmail", mock.Anything, "hit@x.com")

	require.Len(t, cache.saved, 1)
	assert.Equal(t, "old@x.com", cache.saved[0].Email)
	assert.Equal(t, daysAgo(0), cache.saved[0].VerifiedAt)
}

func TestRun_StaleBoundary(t *testing.T) {
	threshold := daysAgo(FreshnessDays)
	assert.True(t, needsVerification(&model.ContactCandidate{VerificationStatus: model.StatusValid, VerificationDate: daysAgo(182)}, threshold))
	assert.False(t, needsVerification(&model.ContactCandidate{VerificationStatus: model.StatusValid, VerificationDate: daysAgo(181)}, threshold))
	assert.True(t, needsVerification(&model.ContactCandidate{VerificationStatus: model.StatusValid}, threshold))
}

func TestRun_EmptyVerifierResultLeavesCandidate(t *testing.T) {
	m := mocks.NewMockClient(t)
	m.On("VerifyEmail", mock.Anything, "jane@acme.com").Return(&hunter.Verification{}, nil).Once()

	cache := &memCache{items: map[string]model.Verification{}}
	c := &model.ContactCandidate{
		Email: "jane@acme.com", FirstName: "Jane",
		VerificationStatus: model.StatusAcceptAll, VerificationDate: daysAgo(400),
		Good: model.VerdictAccepted,
	}
	res, err := NewFilter(m, WithClock(clock), WithCache(cache)).Run(context.Background(), []*model.ContactCandidate{c})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Verified)
	assert.Equal(t, model.StatusAcceptAll, c.VerificationStatus)
	assert.Equal(t, daysAgo(400), c.VerificationDate)
	assert.Empty(t, cache.saved)
}

func TestRun_CancelledDuringVerification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := mocks.NewMockClient(t)
	m.On("VerifyEmail", mock.Anything, "jane@acme.com").
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled).Once()

	c := &model.ContactCandidate{
		Email: "jane@acme.com", FirstName: "Jane",
		VerificationStatus: model.StatusValid, VerificationDate: daysAgo(400),
		Good: model.VerdictAccepted,
	}
	res, err := NewFilter(m, WithClock(clock)).Run(ctx, []*model.ContactCandidate{c})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Kept)
}
