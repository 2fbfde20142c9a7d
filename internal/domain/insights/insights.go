// Package insights produces coaching feedback for a finished session.
package insights

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/pkg/metrics"
)

// DefaultLatency is the simulated backend latency of MockProvider.
const DefaultLatency = 400 * time.Millisecond

// Provider returns human-readable feedback for a session's stats.
type Provider interface {
	// FetchInsights honours ctx for cancellation.
	FetchInsights(ctx context.Context, stats model.SessionStats) (string, error)
}

// Option applies a configuration option to the MockProvider.
type Option func(*MockProvider)

// WithLatency sets the simulated latency. Zero responds immediately.
func WithLatency(d time.Duration) Option {
	return func(p *MockProvider) {
		if d >= 0 {
			p.latency = d
		}
	}
}

// MockProvider simulates a remote insights service with a canned summary.
type MockProvider struct {
	latency time.Duration
}

var _ Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider with DefaultLatency.
func NewMockProvider(opts ...Option) *MockProvider {
	p := &MockProvider{latency: DefaultLatency}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchInsights waits for the simulated latency and formats the summary.
func (p *MockProvider) FetchInsights(ctx context.Context, stats model.SessionStats) (string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordInsightsLatency(float64(time.Since(start).Milliseconds()))
	}()

	if p.latency > 0 {
		timer := time.NewTimer(p.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			metrics.RecordInsightsError()
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}
	return Summarize(stats), nil
}

// Summarize renders the canned feedback text for stats.
func Summarize(stats model.SessionStats) string {
	return fmt.Sprintf(
		"You attempted %d shots and made %d. FG%%: %.1f%%.\nExpect richer AI-driven coaching tips here in a later release.",
		stats.TotalAttempts, stats.TotalMakes, stats.FieldGoalPercentage()*100,
	)
}

// Requester performs a GET relative to a backend base URL.
type Requester interface {
	Request(ctx context.Context, path string) ([]byte, error)
}

// RemoteProvider asks the backend for insights.
type RemoteProvider struct {
	client Requester
}

var _ Provider = (*RemoteProvider)(nil)

// NewRemoteProvider wraps client.
func NewRemoteProvider(client Requester) *RemoteProvider {
	return &RemoteProvider{client: client}
}

// FetchInsights GETs insights?attempts=..&makes=.. and returns the body text.
func (p *RemoteProvider) FetchInsights(ctx context.Context, stats model.SessionStats) (string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordInsightsLatency(float64(time.Since(start).Milliseconds()))
	}()

	q := url.Values{}
	q.Set("attempts", strconv.Itoa(stats.TotalAttempts))
	q.Set("makes", strconv.Itoa(stats.TotalMakes))

	body, err := p.client.Request(ctx, "insights?"+q.Encode())
	if err != nil {
		metrics.RecordInsightsError()
		return "", fmt.Errorf("fetch insights: %w", err)
	}
	return string(body), nil
}
