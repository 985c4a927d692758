package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofrs/uuid"
	"github.com/mbolis/museum-survey/log"
	"github.com/mbolis/museum-survey/model"
	"github.com/pkg/errors"
)

const RequestIDHeader = "X-Request-Id"

// StatusError is returned for any non-2xx response. Payload is set when the
// body decodes to the backend's error shape.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Payload *model.APIError
}

func (e *StatusError) Error() string {
	if e.Payload.Recognized() {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Payload.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// IsNotFound reports a 404 that carries a recognised error payload. A bare
// 404 (e.g. from a proxy) is not a "resource absent" signal.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound && se.Payload.Recognized()
}

// Client is a small JSON client rooted at BaseURL.
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "httpx.parse_base_url")
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &Client{
		BaseURL:    u,
		HTTPClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return errors.Wrapf(err, "httpx.parse_path %q", path)
	}
	target := c.BaseURL.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "httpx.encode_body")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return errors.Wrap(err, "httpx.new_request")
	}
	req.Header.Set("accept", "application/json")
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}
	requestID, err := uuid.NewV4()
	if err != nil {
		return errors.Wrap(err, "httpx.request_id")
	}
	req.Header.Set(RequestIDHeader, requestID.String())

	log.WithFields(log.Fields{"request_id": requestID.String()}).
		Tracef("httpx.%s %s", strings.ToLower(method), target)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "%s %s: read body", method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Method: method, Path: path, Status: resp.StatusCode}
		var payload model.APIError
		if json.Unmarshal(data, &payload) == nil && payload.Recognized() {
			se.Payload = &payload
		}
		return se
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "%s %s: decode body", method, path)
	}
	return nil
}
