// Package backoffice implements the CMS, WMS and ROS ports against the
// back-office systems' REST facades. All three share a small client with
// retrying semantics for transient failures; the saga treats any error
// from these adapters as a step failure.
package backoffice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"swiftlogistics/internal/pkg/errs"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("back-office returned %d: %s", e.Code, e.Body)
}

// restClient is the shared HTTP plumbing for the back-office adapters.
type restClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func newRESTClient(baseURL string, apiKey string, client *http.Client) (restClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return restClient{}, errs.NewValueIsRequiredError("baseURL")
	}

	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return restClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}, nil
}

func (c *restClient) newRequest(
	ctx context.Context,
	method string,
	path string,
	payload any,
) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *restClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx
// responses) with exponential backoff while respecting context
// cancellation. The per-step saga timeout bounds the whole loop.
func (c *restClient) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

// postForReference executes a JSON POST and decodes the acknowledgement
// reference out of the named response field.
func (c *restClient) postForReference(
	ctx context.Context,
	path string,
	payload any,
	refField string,
) (string, error) {
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, path, payload)
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	ref := decoded[refField]
	if ref == "" {
		return "", fmt.Errorf("response is missing %q", refField)
	}

	return ref, nil
}

// delete executes a DELETE and discards the response body.
func (c *restClient) delete(ctx context.Context, path string) error {
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodDelete, path, nil)
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
