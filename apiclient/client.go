// Package apiclient talks to the remote BOM, labor and quote API. Every call
// is a JSON POST carrying the user's token in a "token" header.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quotebuilder/services"
)

const DefaultBaseURL = "https://chikaai.net"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// ID accepts either a JSON string or number, since the API returns both.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("invalid id %s: %w", b, err)
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("invalid id %s", b)
	}
	*id = ID(b)
	return nil
}

// errorBody is the subset of an API response used for error reporting.
// detail may be a string or a structured validation payload.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func (b errorBody) detailText() string {
	if len(b.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Detail, &s); err == nil {
		return s
	}
	return string(b.Detail)
}

// post sends body to path and decodes the response into out (when non-nil).
// A 401 status or a detail mentioning 401 becomes *services.AuthError; any
// other failure becomes *services.NetworkError.
func (c *Client) post(ctx context.Context, token, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return &services.NetworkError{Message: "request to " + path + " failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return &services.NetworkError{Status: resp.StatusCode, Message: "read response", Err: err}
	}

	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	detail := eb.detailText()

	if resp.StatusCode == http.StatusUnauthorized || strings.Contains(detail, "401") {
		return &services.AuthError{Message: firstNonEmpty(detail, eb.Message)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &services.NetworkError{
			Status:  resp.StatusCode,
			Message: firstNonEmpty(detail, eb.Message, http.StatusText(resp.StatusCode), "request failed"),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &services.NetworkError{Status: resp.StatusCode, Message: "unexpected response from " + path, Err: err}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
