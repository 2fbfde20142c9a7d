package testevents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/pkg/logger"
)

// HTTPClient wraps http.Client with a base URL and timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends a request and decodes a JSON response into out when the status
// matches want.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, want int) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != want {
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Code != "" {
			return fmt.Errorf("%w: %s %s: %d %s: %s", ErrUnexpectedStatus, method, path, resp.StatusCode, e.Code, e.Message)
		}
		return fmt.Errorf("%w: %s %s: %d", ErrUnexpectedStatus, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// checkServiceHealth verifies the service answers /healthz.
func checkServiceHealth(ctx context.Context, c *HTTPClient) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &body, http.StatusOK); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if body.Status != "ok" {
		return fmt.Errorf("%w: status %q", ErrUnhealthy, body.Status)
	}
	return nil
}

// startSession starts a session with the default calibration.
func startSession(ctx context.Context, c *HTTPClient) error {
	return c.do(ctx, http.MethodPost, "/session/start", model.DefaultCalibration(), nil, http.StatusOK)
}

// endSession ends the active session and returns the archived record, or
// nil when the session was empty.
func endSession(ctx context.Context, c *HTTPClient) (*model.SessionRecord, error) {
	var out endResponse
	if err := c.do(ctx, http.MethodPost, "/session/end", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Record, nil
}

// submitShots posts shots concurrently and records accepted ids in stats.
func submitShots(ctx context.Context, config *Config, c *HTTPClient, shots []Shot, stats *Stats) {
	log := logger.Get()
	log.Info(ctx, "submitting shots", logger.Int("shots", len(shots)), logger.Int("workers", config.Workers))

	var (
		accepted int64
		failed   int64
		mu       sync.Mutex
		ids      = make([]uuid.UUID, 0, len(shots))
	)

	shotChan := make(chan Shot, config.Workers*2)
	var wg sync.WaitGroup

	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for shot := range shotChan {
				var e model.ShotEvent
				if err := c.do(ctx, http.MethodPost, "/shots", shot, &e, http.StatusAccepted); err != nil {
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "shot rejected", logger.Error(err))
					continue
				}
				atomic.AddInt64(&accepted, 1)
				mu.Lock()
				ids = append(ids, e.ID)
				mu.Unlock()
				if config.Verbose {
					log.Debug(ctx, "shot accepted",
						logger.String("id", e.ID.String()),
						logger.String("result", string(e.Result)),
						logger.String("class", string(e.DistanceClass)))
				}
			}
		}()
	}

	func() {
		defer close(shotChan)
		for _, s := range shots {
			select {
			case <-ctx.Done():
				return
			case shotChan <- s:
			}
		}
	}()
	wg.Wait()

	stats.ShotsAccepted = int(atomic.LoadInt64(&accepted))
	stats.ShotsFailed = int(atomic.LoadInt64(&failed))
	stats.Accepted = ids

	log.Info(ctx, "shot submission completed",
		logger.Int("accepted", stats.ShotsAccepted),
		logger.Int("failed", stats.ShotsFailed))
}
