package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"kanstamp/internal/journal"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "KANSTAMP_HTTP_TIMEOUT"
	apiTokenEnvKey     = "KANSTAMP_API_TOKEN"
)

// Client is a simple HTTP client for the kanstamp trigger server.
type Client struct {
	baseURL   string
	http      *http.Client
	authToken string
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: httpTimeoutFromEnv()},
		authToken: strings.TrimSpace(os.Getenv(apiTokenEnvKey)),
	}
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// Stamp triggers a stamp run on the server.
func (c *Client) Stamp(ctx context.Context, path string) (StampResponse, error) {
	var resp StampResponse
	err := c.do(ctx, http.MethodPost, "/v1/stamp", nil, StampRequest{Path: path}, &resp)
	return resp, err
}

// Board fetches the parsed board at path.
func (c *Client) Board(ctx context.Context, path string) (BoardResponse, error) {
	var resp BoardResponse
	err := c.do(ctx, http.MethodGet, "/v1/board", pathQuery(path), nil, &resp)
	return resp, err
}

// Runs lists recent journal runs.
func (c *Client) Runs(ctx context.Context, limit int) ([]journal.Run, error) {
	var resp []journal.Run
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	err := c.do(ctx, http.MethodGet, "/v1/runs", query, nil, &resp)
	return resp, err
}

// Worklog fetches the worklog for the board at path. An empty date selects
// the server's current day.
func (c *Client) Worklog(ctx context.Context, path, date string) (WorklogResponse, error) {
	var resp WorklogResponse
	query := pathQuery(path)
	if strings.TrimSpace(date) != "" {
		query.Set("date", date)
	}
	err := c.do(ctx, http.MethodGet, "/v1/worklog", query, nil, &resp)
	return resp, err
}

func pathQuery(path string) url.Values {
	query := url.Values{}
	if strings.TrimSpace(path) != "" {
		query.Set("path", path)
	}
	return query
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		apiErr.Code = errResp.Code
		apiErr.ErrorCode = errResp.ErrorCode
		apiErr.Message = errResp.Error
		return apiErr
	}
	apiErr.Message = "api error: " + resp.Status
	return apiErr
}

func (c *Client) setAuthHeader(req *http.Request) {
	if c.authToken == "" || req == nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
