package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadgen-cli/pkg/phantombuster"
)

// --- PhantomBuster Mock ---

type mockPhantomClient struct {
	mock.Mock
}

func (m *mockPhantomClient) ListAgents(ctx context.Context) ([]phantombuster.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]phantombuster.Agent), args.Error(1)
}

func (m *mockPhantomClient) FindAgent(ctx context.Context, keyword string) (*phantombuster.Agent, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*phantombuster.Agent), args.Error(1)
}

func (m *mockPhantomClient) ResultCSVURLs(ctx context.Context, agentID string, since time.Time, maxDepth int) ([]string, error) {
	args := m.Called(ctx, agentID, since, maxDepth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockPhantomClient) Launch(ctx context.Context, agentID string) (string, error) {
	args := m.Called(ctx, agentID)
	return args.String(0), args.Error(1)
}

// --- Fetcher Mock ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
