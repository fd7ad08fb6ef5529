// Package client holds the typed HTTP clients the services use to talk to
// each other. Calls are best effort: any transport failure or non-2xx
// answer is logged and surfaces as (nil, nil), so callers decide whether
// absence is an omitted enrichment or a failed precondition.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

type baseClient struct {
	baseURL string
	http    *http.Client
}

func newBaseClient(baseURL string) baseClient {
	return baseClient{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// getJSON fetches path and decodes the body into out. A false return means
// the peer did not produce a usable answer.
func (c baseClient) getJSON(ctx context.Context, path string, out interface{}) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", c.baseURL+path).Msg("peer service unreachable")
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debug().Int("status", resp.StatusCode).Str("url", c.baseURL+path).Msg("peer lookup failed")
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn().Err(err).Str("url", c.baseURL+path).Msg("peer response undecodable")
		return false
	}
	return true
}

// postJSON posts body to path and decodes the answer into out.
func (c baseClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode peer request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("peer service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("peer returned status %d: %s", resp.StatusCode, snippet)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode peer response: %w", err)
		}
	}
	return nil
}
