// Package restdata implements the generic four-verb data accessor the
// portal uses for all persistence. Records live in named collections served
// by the backend as plain JSON over HTTP, json-server style: list endpoints
// accept equality filters as query parameters, creates return the stored
// record with its assigned id.
package restdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config holds client settings.
type Config struct {
	BaseURL string        `usage:"Backend base URL (e.g. http://localhost:9090)"`
	Timeout time.Duration `default:"10s" usage:"Per-request timeout for backend calls"`
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method     string
	Collection string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: backend returned %d: %s",
		e.Method, e.Collection, e.StatusCode, e.Body)
}

// Client is the generic data accessor. It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a Client for the backend at cfg.BaseURL. The transport is
// instrumented with otelhttp so every backend call is traced.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse backend base URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("backend base URL %q must be absolute", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// Read lists records in collection matching filters (nil for all) and
// decodes the JSON array into out.
func (c *Client) Read(ctx context.Context, collection string, filters url.Values, out any) error {
	u := c.collectionURL(collection)
	if len(filters) > 0 {
		u.RawQuery = filters.Encode()
	}
	return c.do(ctx, http.MethodGet, collection, u.String(), nil, out)
}

// Create posts record to collection and decodes the stored record, with its
// backend-assigned id, into out (may be nil to discard).
func (c *Client) Create(ctx context.Context, collection string, record, out any) error {
	u := c.collectionURL(collection)
	return c.do(ctx, http.MethodPost, collection, u.String(), record, out)
}

// Update replaces the record identified by id in collection and decodes the
// updated record into out (may be nil).
func (c *Client) Update(ctx context.Context, collection string, id int64, record, out any) error {
	u := c.recordURL(collection, id)
	return c.do(ctx, http.MethodPut, collection, u.String(), record, out)
}

// Delete removes the record identified by id from collection.
func (c *Client) Delete(ctx context.Context, collection string, id int64) error {
	u := c.recordURL(collection, id)
	return c.do(ctx, http.MethodDelete, collection, u.String(), nil, nil)
}

func (c *Client) collectionURL(collection string) *url.URL {
	return c.base.JoinPath(collection)
}

func (c *Client) recordURL(collection string, id int64) *url.URL {
	return c.base.JoinPath(collection, strconv.FormatInt(id, 10))
}

func (c *Client) do(ctx context.Context, method, collection, rawURL string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode record")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, collection)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			Method:     method,
			Collection: collection,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(raw)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", collection)
	}
	return nil
}
