// Package httpx reúne lo común a los clientes HTTP de los servicios externos.
package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"discoBot/internal/domain"
)

const (
	userAgent    = "discoBot/1.0"
	maxBodyBytes = 4 << 20
)

func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Do sends req and returns the status code and the (bounded) body.
func Do(client *http.Client, req *http.Request) (int, []byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Decode unmarshals body into out, reporting ErrMalformedResponse on failure.
func Decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

// StatusError reports a non-2xx status as ErrUpstream.
func StatusError(status int, body []byte) error {
	snippet := string(body)
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, status, snippet)
}

func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
