// Package diagnosis talks to the procrastination diagnosis service. Each call
// is a single request with no retry; the caller decides what to do with the
// typed error.
package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/nowaste/internal/constants"
	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/logger"
	"github.com/julianstephens/nowaste/internal/models"
)

const maxResponseBytes = 4 << 20

// Client calls the diagnosis service over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the service at baseURL. A nil http.Client
// uses http.DefaultClient.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Diagnose sends the completed tasks that carry a feeling and returns the
// service's diagnosis. No request is made when there is nothing to send.
func (c *Client) Diagnose(ctx context.Context, tasks []models.Task) (Result, error) {
	records := Records(tasks)
	if len(records) == 0 {
		return nil, &NoDataError{}
	}

	payload := map[string]any{"completed_tasks": records}
	status, body, err := c.do(ctx, http.MethodPost, constants.DiagnosePath, payload)
	if err != nil {
		return nil, err
	}
	return decodeDiagnosis(status, body)
}

type diagnosisBody struct {
	Cause       string   `json:"cause"`
	Solutions   []string `json:"solutions"`
	Summary     string   `json:"summary"`
	Patterns    string   `json:"patterns"`
	Triggers    string   `json:"triggers"`
	Causes      string   `json:"causes"`
	Suggestions []string `json:"suggestions"`
}

// decodeDiagnosis picks the newest shape present in the body.
func decodeDiagnosis(status int, body []byte) (Result, error) {
	var d diagnosisBody
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, malformed(status, "unexpected diagnosis fields: "+err.Error(), body)
	}

	switch {
	case d.Cause != "" && d.Solutions != nil:
		return Diagnosis{Cause: d.Cause, Solutions: d.Solutions}, nil
	case d.Summary != "":
		return LegacyDiagnosis{Summary: d.Summary}, nil
	case d.Patterns != "" || d.Triggers != "" || d.Causes != "" || d.Suggestions != nil:
		return StructuredLegacyDiagnosis{
			Patterns:    d.Patterns,
			Triggers:    d.Triggers,
			Causes:      d.Causes,
			Suggestions: d.Suggestions,
		}, nil
	}
	return nil, malformed(status, "response has no diagnosis fields", body)
}

// Breakdown asks the service to split a task description into subtasks.
func (c *Client) Breakdown(ctx context.Context, description string) ([]Subtask, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, &engine.ValidationError{Field: "task", Reason: "must not be empty"}
	}

	status, body, err := c.do(ctx, http.MethodPost, constants.BreakdownPath, map[string]string{"task": description})
	if err != nil {
		return nil, err
	}
	return decodeSubtasks(status, body)
}

func decodeSubtasks(status int, body []byte) ([]Subtask, error) {
	var envelope struct {
		Subtasks json.RawMessage `json:"subtasks"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, malformed(status, "breakdown response is not an object", body)
	}
	if len(envelope.Subtasks) == 0 || string(envelope.Subtasks) == "null" {
		return nil, &EmptyResultError{Reason: "subtasks missing"}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(envelope.Subtasks, &items); err != nil {
		return nil, &EmptyResultError{Reason: "subtasks is not a list"}
	}

	var out []Subtask
	for i, raw := range items {
		var title string
		if err := json.Unmarshal(raw, &title); err == nil {
			if s := strings.TrimSpace(title); s != "" {
				out = append(out, Subtask{Title: s})
			}
			continue
		}
		var st Subtask
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, malformed(status, fmt.Sprintf("subtask %d is neither a string nor an object", i+1), body)
		}
		st.Title = strings.TrimSpace(st.Title)
		st.Description = strings.TrimSpace(st.Description)
		if st.Title != "" {
			out = append(out, st)
		}
	}

	if len(out) == 0 {
		return nil, &EmptyResultError{Reason: "subtasks list is empty"}
	}
	return out, nil
}

// Health reports whether the service is up and has its model configured.
func (c *Client) Health(ctx context.Context) (Health, error) {
	status, body, err := c.do(ctx, http.MethodGet, constants.HealthPath, nil)
	if err != nil {
		return Health{}, err
	}
	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return Health{}, malformed(status, "health response is not an object", body)
	}
	return h, nil
}

type errorBody struct {
	Error      string          `json:"error"`
	ErrorType  string          `json:"error_type"`
	RetryAfter json.RawMessage `json:"retry_after"`
}

// do performs one request and classifies the outcome. On success it returns
// the status and a body that is known to be JSON.
func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	logger.Debug("Diagnosis service request", "request_id", requestID, "method", method, "path", path)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("Diagnosis service unreachable", "request_id", requestID, "error", err)
		return 0, nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, &NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}
	logger.Debug("Diagnosis service response",
		"request_id", requestID,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if err := classify(resp, body); err != nil {
		logger.Warn("Diagnosis service call failed", "request_id", requestID, "error", err)
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func classify(resp *http.Response, body []byte) error {
	status := resp.StatusCode
	bodyErr := checkJSON(resp.Header.Get("Content-Type"), status, body)

	var eb errorBody
	if bodyErr == nil {
		// Non-object bodies simply carry no error fields.
		_ = json.Unmarshal(body, &eb)
	}

	if status == http.StatusTooManyRequests || eb.ErrorType == constants.QuotaExceededType {
		return &QuotaExceededError{
			Message:    eb.Error,
			RetryAfter: retryAfter(eb.RetryAfter, resp.Header.Get("Retry-After")),
		}
	}
	if bodyErr != nil {
		return bodyErr
	}
	if status < 200 || status > 299 {
		msg := eb.Error
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &ServiceError{Status: status, Message: msg, Type: eb.ErrorType}
	}
	return nil
}

// checkJSON rejects empty bodies, bodies declared as something other than
// JSON, and bodies that do not parse. A missing Content-Type is tolerated.
func checkJSON(contentType string, status int, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return malformed(status, "empty response body", body)
	}
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || (mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json")) {
			return malformed(status, fmt.Sprintf("response is not JSON (%s)", contentType), body)
		}
	}
	if !json.Valid(body) {
		return malformed(status, "response is not valid JSON", body)
	}
	return nil
}

// retryAfter reads the body hint first (a number or numeric string of
// seconds) and falls back to the Retry-After header. Zero means unknown.
func retryAfter(raw json.RawMessage, header string) time.Duration {
	if len(raw) > 0 {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			switch x := v.(type) {
			case float64:
				return seconds(x)
			case string:
				if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
					return seconds(f)
				}
			}
		}
	}

	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if n, err := strconv.Atoi(header); err == nil {
		return seconds(float64(n))
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := time.Until(at); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}

// seconds rounds up to whole seconds.
func seconds(f float64) time.Duration {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return time.Duration(math.Ceil(f)) * time.Second
}

func malformed(status int, reason string, body []byte) *MalformedResponseError {
	preview := string(body)
	if len(preview) > constants.ResponsePreviewBytes {
		preview = preview[:constants.ResponsePreviewBytes]
	}
	return &MalformedResponseError{Status: status, Reason: reason, Preview: preview}
}
