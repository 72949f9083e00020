// Package backend is the stateless request façade over the Darasa REST API
// and the factory for its two live channels. Every operation attaches the
// stored bearer token when present and normalizes HTTP failures into a single
// *Error shape; callers never branch on status codes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

type Client struct {
	conf     *core.Config
	creds    core.CredentialStore
	logger   core.Logger
	notifier core.Notifier
	http     *http.Client
}

func NewClient(conf *core.Config, creds core.CredentialStore, logger core.Logger, notifier core.Notifier) *Client {
	return &Client{
		conf:     conf,
		creds:    creds,
		logger:   logger,
		notifier: notifier,
		http:     &http.Client{Timeout: conf.API.Timeout},
	}
}

// Error is the uniform error shape for any non-success backend response.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Pagination carries the paging fields of list responses.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.conf.API.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token, err := c.creds.Get(); err != nil {
		c.logger.Warn("backend: reading stored token", err)
	} else if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do runs one JSON round trip; `in` and `out` may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, method+" "+path)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return c.newError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decoding response body")
		}
	}
	return nil
}

// newError extracts the server-provided message from an error body, falling
// back to a generic status line.
func (c *Client) newError(resp *http.Response) error {
	apiErr := &Error{
		Code:    resp.StatusCode,
		Message: fmt.Sprintf("HTTP error, status %d", resp.StatusCode),
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Error != "":
			apiErr.Message = body.Error
		}
	}
	return apiErr
}

// upload posts a multipart body with fields `file` and `title`.
func (c *Client) upload(ctx context.Context, path, title, filename string, file io.Reader, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("title", title); err != nil {
		return errors.Wrap(err, "writing title field")
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return errors.Wrap(err, "creating file part")
	}
	if _, err = io.Copy(part, file); err != nil {
		return errors.Wrap(err, "copying file content")
	}
	if err = w.Close(); err != nil {
		return errors.Wrap(err, "closing multipart body")
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "POST "+path)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return c.newError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decoding response body")
		}
	}
	return nil
}

// download returns the raw response payload and the filename suggested by the
// Content-Disposition header; no JSON parsing is attempted on success.
func (c *Client) download(ctx context.Context, path string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Del("Accept")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", errors.Wrap(err, "GET "+path)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", c.newError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading response payload")
	}

	var filename string
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return data, filename, nil
}
