// Package client talks to the quality-tracking REST API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/quality"
)

// TransportError means the server could not be reached or answered with
// something other than a usable response. Callers keep their previous state
// and retry later.
type TransportError struct {
	Op     string
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError is a 4xx answer: the server understood the request and
// refused it, usually a failed validation.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected (%d): %s", e.Status, e.Message)
}

type messageBody struct {
	Message string `json:"message"`
}

// Client is a typed wrapper around the REST API.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// New creates a client for the API rooted at baseURL (for example
// http://localhost:5000/api).
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, logger: logger}
}

// check turns a resty outcome into the package error types.
func (c *Client) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Debug("request failed", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	status := resp.StatusCode()
	if status >= 400 && status < 500 {
		msg := http.StatusText(status)
		if body, ok := resp.Error().(*messageBody); ok && body.Message != "" {
			msg = body.Message
		}
		return &RejectedError{Status: status, Message: msg}
	}
	if resp.IsError() {
		return &TransportError{Op: op, Status: status, Err: errors.New(http.StatusText(status))}
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, path string, query map[string]string, result any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(result).
		SetError(&messageBody{}).
		Get(path)
	return c.check(op, resp, err)
}

// Master fetches the group, shift and line enumerations.
func (c *Client) Master(ctx context.Context) (model.MasterData, error) {
	var master model.MasterData
	if err := c.get(ctx, "fetch master data", "/master", nil, &master); err != nil {
		return model.MasterData{}, err
	}
	return master, nil
}

// Standards fetches the acceptance window the server evaluates with.
func (c *Client) Standards(ctx context.Context) (model.Standards, error) {
	var std model.Standards
	if err := c.get(ctx, "fetch standards", "/standards", nil, &std); err != nil {
		return model.Standards{}, err
	}
	return std, nil
}

// List fetches every record in storage order.
func (c *Client) List(ctx context.Context) ([]model.Measurement, error) {
	records := []model.Measurement{}
	if err := c.get(ctx, "fetch data", "/data", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SummaryResult is the server-side aggregate of a filtered scope.
type SummaryResult struct {
	quality.Summary
	Breakdown []quality.RatioSlice  `json:"breakdown"`
	ByLine    []quality.LineSummary `json:"byLine"`
}

// Summary asks the server to aggregate the records matching spec.
func (c *Client) Summary(ctx context.Context, spec quality.FilterSpec) (SummaryResult, error) {
	var out SummaryResult
	if err := c.get(ctx, "fetch summary", "/summary", flatten(spec), &out); err != nil {
		return SummaryResult{}, err
	}
	return out, nil
}

// Submit stores a new record and returns it as the server saved it. A
// validation failure comes back as *RejectedError.
func (c *Client) Submit(ctx context.Context, m model.Measurement) (model.Measurement, error) {
	body := map[string]any{
		"group": m.Group,
		"shift": m.Shift,
		"line":  m.Line,
		"suhu":  m.Suhu,
		"berat": m.Berat,
	}
	if m.Kualitas != "" {
		body["kualitas"] = m.Kualitas
	}
	if m.Date != "" {
		body["date"] = m.Date
	}

	var result struct {
		Message string            `json:"message"`
		Data    model.Measurement `json:"data"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		SetError(&messageBody{}).
		Post("/data")
	if err := c.check("submit data", resp, err); err != nil {
		return model.Measurement{}, err
	}

	c.logger.Info("measurement submitted", zap.Int64("id", result.Data.ID), zap.String("kualitas", string(result.Data.Kualitas)))
	return result.Data, nil
}

// Evaluate asks the server for the verdict it would derive.
func (c *Client) Evaluate(ctx context.Context, suhu, berat string) (model.Verdict, error) {
	var result struct {
		Kualitas model.Verdict `json:"kualitas"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"suhu": suhu, "berat": berat}).
		SetResult(&result).
		SetError(&messageBody{}).
		Post("/evaluate")
	if err := c.check("evaluate", resp, err); err != nil {
		return "", err
	}
	return result.Kualitas, nil
}

// Export downloads the XLSX export of the records matching spec.
func (c *Client) Export(ctx context.Context, spec quality.FilterSpec, sort quality.SortSpec) ([]byte, error) {
	query := flatten(spec)
	if sort.Key != "" {
		query["sort"] = string(sort.Key)
		query["dir"] = string(sort.Direction)
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetError(&messageBody{}).
		Get("/data/export")
	if err := c.check("export data", resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Snapshot is everything a dashboard needs from one refresh.
type Snapshot struct {
	Master    model.MasterData
	Standards model.Standards
	Records   []model.Measurement
	FetchedAt time.Time
}

// Snapshot fetches master data, standards and records concurrently. The
// first failure cancels the other requests.
func (c *Client) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := c.Master(ctx)
		snap.Master = m
		return err
	})
	g.Go(func() error {
		s, err := c.Standards(ctx)
		snap.Standards = s
		return err
	})
	g.Go(func() error {
		r, err := c.List(ctx)
		snap.Records = r
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	snap.FetchedAt = time.Now()
	return snap, nil
}

func flatten(spec quality.FilterSpec) map[string]string {
	q := spec.Query()
	out := make(map[string]string, len(q))
	for k := range q {
		out[k] = q.Get(k)
	}
	return out
}
