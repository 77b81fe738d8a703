package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"
	maxErrorBody    = 512
)

// StatusError is returned for any response outside 2xx.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// HTTPClient wraps http.Client with the service's endpoints.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for baseURL. A nil hc uses a fresh
// http.Client with timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{client: hc, baseURL: baseURL}
}

// Heartbeat returns the banner served at /heartbeat.
func (c *HTTPClient) Heartbeat(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/heartbeat", "", nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Submit posts one record to /dump_resps/{submitter}.
func (c *HTTPClient) Submit(ctx context.Context, requestID string, sub Submission) error {
	payload, err := json.Marshal(sub.Record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, fmt.Sprintf("/dump_resps/%d", sub.Submitter), requestID, payload)
	return err
}

// SubmitMass posts records to /dump_resps_mass/{submitter}.
func (c *HTTPClient) SubmitMass(ctx context.Context, requestID string, submitter model.SubmitterID, recs []model.Record) error {
	envs := make([]model.Envelope, len(recs))
	for i, rec := range recs {
		envs[i] = model.Envelope{Record: rec}
	}
	payload, err := json.Marshal(struct {
		Responses []model.Envelope `json:"responses"`
	}{envs})
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, fmt.Sprintf("/dump_resps_mass/%d", submitter), requestID, payload)
	return err
}

// TeamDetails reads one team's aggregate.
func (c *HTTPClient) TeamDetails(ctx context.Context, team model.Team) (model.TeamAggregate, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/team_details/%d", team), "", nil)
	if err != nil {
		return model.TeamAggregate{}, err
	}
	var agg model.TeamAggregate
	if err := json.Unmarshal(body, &agg); err != nil {
		return model.TeamAggregate{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return agg, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, requestID string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return nil, &StatusError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	return data, nil
}
