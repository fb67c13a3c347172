// Package client talks to the catalog HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catalog-cli/internal/model"
)

const (
	defaultHTTPTimeout        = 30 * time.Second
	defaultHTTPConnectTimeout = 5 * time.Second
)

// ErrMalformedResponse is returned when a 200 response body cannot be decoded.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is a non-200 response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

type Options struct {
	HTTPClient *http.Client
}

type Client struct {
	base string
	http *http.Client
}

func defaultHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: defaultHTTPConnectTimeout}
	return &http.Client{
		Transport: &http.Transport{DialContext: dialer.DialContext},
		Timeout:   defaultHTTPTimeout,
	}
}

func New(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = defaultHTTPClient()
	}
	return &Client{base: baseURL, http: hc}, nil
}

func (c *Client) BaseURL() string { return c.base }

// ListItems fetches one page of the ordered, filtered catalog.
func (c *Client) ListItems(ctx context.Context, q string, offset, limit int) ([]model.Item, error) {
	v := url.Values{}
	v.Set("q", q)
	v.Set("offset", strconv.Itoa(offset))
	v.Set("limit", strconv.Itoa(limit))
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/items?"+v.Encode(), nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (c *Client) GetItem(ctx context.Context, id int) (model.Item, error) {
	var it model.Item
	err := c.do(ctx, http.MethodGet, "/items/"+strconv.Itoa(id), nil, &it)
	return it, err
}

func (c *Client) GetState(ctx context.Context) (model.Overlay, error) {
	var ov model.Overlay
	if err := c.do(ctx, http.MethodGet, "/state", nil, &ov); err != nil {
		return model.Overlay{}, err
	}
	return ov.Normalize(), nil
}

// SetState replaces the persisted overlay.
func (c *Client) SetState(ctx context.Context, ov model.Overlay) error {
	return c.do(ctx, http.MethodPost, "/state", ov.Normalize(), nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Body: errorBody(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformedResponse, err)
	}
	return nil
}

// errorBody extracts {"error": ...} when present, else the trimmed body.
func errorBody(raw []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(raw))
}
