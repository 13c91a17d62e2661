package seed

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
	"github.com/okian/weekplan/pkg/logger"
)

const sessionHeader = "X-Form-Session"

// HTTPClient wraps http.Client with JSON helpers.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get fetches url and decodes a JSON body into v when v is non-nil.
func (c *HTTPClient) Get(ctx context.Context, url string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, v)
}

// Post sends body as JSON. Each call uses a fresh form session id, as a
// newly opened form would.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sessionHeader, uuid.NewString())
	return c.do(req, nil)
}

func (c *HTTPClient) do(req *http.Request, v any) (int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read body: %w", err)
	}
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(body, v); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode %s: %w", req.URL.Path, err)
		}
	}
	return resp.StatusCode, nil
}

type submission struct {
	path    string
	body    any
	wantErr bool // a 400 is the expected answer
}

type result int

const (
	resultCreated result = iota
	resultRejected
	resultFailed
	resultUnexpected
)

// submitAll posts every submission with cfg.Workers concurrent workers.
func submitAll(ctx context.Context, cfg *Config, subs []submission, stats *Stats) error {
	log := logger.Get().Named("seed")
	log.Info(ctx, "submitting records", logger.Int("count", len(subs)), logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg.Timeout)
	var created, rejected, failed, unexpected, submitted atomic.Int64

	work := make(chan submission, cfg.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range work {
				submitted.Add(1)
				switch submitOne(ctx, client, cfg, s) {
				case resultCreated:
					created.Add(1)
				case resultRejected:
					rejected.Add(1)
				case resultUnexpected:
					unexpected.Add(1)
				default:
					failed.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, s := range subs {
			select {
			case <-ctx.Done():
				return
			case work <- s:
			}
		}
	}()
	wg.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Created = int(created.Load())
	stats.Rejected = int(rejected.Load())
	stats.Failed = int(failed.Load() + unexpected.Load())

	log.Info(ctx, "submission completed",
		logger.Int("created", stats.Created),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
	)
	if err := ctx.Err(); err != nil {
		return err
	}
	if n := unexpected.Load(); n > 0 {
		return fmt.Errorf("%d submissions were answered against the interval rule", n)
	}
	return nil
}

func submitOne(ctx context.Context, client *HTTPClient, cfg *Config, s submission) result {
	status, err := client.Post(ctx, cfg.BaseURL+s.path, s.body)
	if err != nil {
		return resultFailed
	}
	switch {
	case status == http.StatusCreated && !s.wantErr:
		return resultCreated
	case status == http.StatusBadRequest && s.wantErr:
		return resultRejected
	case status == http.StatusCreated || status == http.StatusBadRequest:
		if cfg.Verbose {
			logger.Get().Warn(ctx, "unexpected answer", logger.Int("status", status), logger.Any("record", s.body))
		}
		return resultUnexpected
	default:
		return resultFailed
	}
}
