// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/clusterview/clusterview/internal/metrics"
)

// defaultFetchTimeout bounds a single remote media download.
const defaultFetchTimeout = 60 * time.Second

// defaultBreakerThreshold is the consecutive-failure count that opens the
// fetch circuit breaker.
const defaultBreakerThreshold = 5

// maxMediaBytes caps a single download at 64 MiB. Media items are images
// or short audio clips; anything larger is a misconfigured column.
const maxMediaBytes = 64 << 20

// httpClient downloads media over HTTP. Remote hosts that start failing
// trip a circuit breaker so a dead media host cannot stall every grid page.
type httpClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

var defaultHTTPClient = newHTTPClient(defaultFetchTimeout, defaultBreakerThreshold)

func newHTTPClient(fetchTimeout time.Duration, breakerThreshold uint32) *httpClient {
	return &httpClient{
		client: &http.Client{Timeout: fetchTimeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name: "media-fetch",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > breakerThreshold
			},
		}),
	}
}

// Configure replaces the shared fetch client. Called once at startup,
// before any request handling.
func Configure(fetchTimeout time.Duration, breakerThreshold uint32) {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	if breakerThreshold == 0 {
		breakerThreshold = defaultBreakerThreshold
	}
	defaultHTTPClient = newHTTPClient(fetchTimeout, breakerThreshold)
}

func (c *httpClient) URL(_ context.Context, uri string) (string, error) {
	return uri, nil
}

func (c *httpClient) Fetch(ctx context.Context, uri string) ([]byte, error) {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, uri)
	})
	if err != nil {
		metrics.MediaFetchErrors.Inc()
	}
	return data, err
}

func (c *httpClient) fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("building media request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching media %s: unexpected status %d", uri, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes))
	if err != nil {
		return nil, fmt.Errorf("reading media body: %w", err)
	}
	return data, nil
}
