// Package client is a small HTTP client for a running advisor, used by the
// batch evaluator and by external tuning scripts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aeopt/advisor/internal/feature"
)

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("%s %s status=%d", method, path, res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

type Hyperparams struct {
	Values  map[string]int64 `json:"values"`
	SetID   string           `json:"set_id"`
	Version uint64           `json:"version"`
}

func (c *Client) GetHyperparams(ctx context.Context) (*Hyperparams, error) {
	var out Hyperparams
	if err := c.do(ctx, http.MethodGet, "/v1/hyperparams", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetHyperparams(ctx context.Context, name string, values map[string]int64) (*Hyperparams, error) {
	req := map[string]any{"name": name, "values": values}
	var out Hyperparams
	if err := c.do(ctx, http.MethodPost, "/v1/hyperparams", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type InlineDecision struct {
	Variant string `json:"variant"`
	Cost    int64  `json:"cost"`
	Inline  bool   `json:"inline"`
}

func (c *Client) DecideInline(ctx context.Context, variant string, features map[string]int64) (*InlineDecision, error) {
	req := map[string]any{"variant": variant, "features": features}
	var out InlineDecision
	if err := c.do(ctx, http.MethodPost, "/v1/decide/inline", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type UnrollDecision struct {
	Variant string `json:"variant"`
	Factor  uint64 `json:"factor"`
}

func (c *Client) DecideUnroll(ctx context.Context, variant string, f feature.LoopFeatures) (*UnrollDecision, error) {
	req := map[string]any{"variant": variant, "features": f}
	var out UnrollDecision
	if err := c.do(ctx, http.MethodPost, "/v1/decide/unroll", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type RegallocDecision struct {
	Variant  string `json:"variant"`
	Priority uint32 `json:"priority"`
}

func (c *Client) DecideRegalloc(ctx context.Context, variant string, f feature.LiveRangeFeatures) (*RegallocDecision, error) {
	req := map[string]any{"variant": variant, "features": f}
	var out RegallocDecision
	if err := c.do(ctx, http.MethodPost, "/v1/decide/regalloc", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PostTrial(ctx context.Context, setID, decisionPoint, variant string, score float64, note string) error {
	req := map[string]any{
		"set_id":         setID,
		"decision_point": decisionPoint,
		"variant":        variant,
		"score":          score,
		"note":           note,
	}
	return c.do(ctx, http.MethodPost, "/v1/trials", req, nil)
}
