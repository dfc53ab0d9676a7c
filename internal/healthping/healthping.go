// Package healthping sends one request to a random read-only API endpoint.
// It is meant to run from cron to keep a hosted API warm.
package healthping

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"
)

const UserAgent = "CronJob-HealthPing/1.0"

// Endpoint is one request the pinger may send.
type Endpoint struct {
	Method      string
	Path        string
	Description string
}

// Endpoints is the fixed set the pinger chooses from.
var Endpoints = []Endpoint{
	{http.MethodGet, "/health", "Health check"},
	{http.MethodGet, "/tasks/stats/overview", "Get task statistics"},
	{http.MethodGet, "/tasks", "Get all tasks"},
	{http.MethodGet, "/tasks?status=PENDING", "Get pending tasks"},
	{http.MethodGet, "/tasks?priority=HIGH", "Get high priority tasks"},
}

// Result describes the single request that was sent.
type Result struct {
	Endpoint Endpoint
	Status   int
	Duration time.Duration
}

// OK reports whether the API answered with a 2xx status.
func (r Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Pinger picks and sends the request.
type Pinger struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
	Logger  *slog.Logger
	// Pick chooses an index in [0, n). Defaults to a uniform random pick.
	Pick func(n int) int
}

// Ping sends one request and logs the outcome. A non-2xx answer is not an
// error; only transport failures are returned.
func (p *Pinger) Ping(ctx context.Context) (Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pick := p.Pick
	if pick == nil {
		pick = rand.IntN
	}
	hc := p.Client
	if hc == nil {
		hc = http.DefaultClient
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	ep := Endpoints[pick(len(Endpoints))]
	res := Result{Endpoint: ep}
	url := strings.TrimRight(p.BaseURL, "/") + ep.Path

	logger.Info("sending request",
		slog.String("method", ep.Method),
		slog.String("endpoint", ep.Path),
		slog.String("description", ep.Description))

	req, err := http.NewRequestWithContext(ctx, ep.Method, url, nil)
	if err != nil {
		return res, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	resp, err := hc.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		logger.Error("request failed", slog.String("endpoint", ep.Path), slog.String("error", err.Error()))
		return res, fmt.Errorf("send %s %s: %w", ep.Method, ep.Path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	res.Status = resp.StatusCode
	attrs := []any{
		slog.String("endpoint", ep.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", res.Duration),
	}
	if res.OK() {
		logger.Info("request succeeded", attrs...)
	} else {
		logger.Warn("request returned non-success status", attrs...)
	}
	return res, nil
}
