// Package pricing talks to the price search backend.
package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"pricep/internal/models"
)

const (
	searchTextPath  = "search-text/"
	searchImagePath = "search-image/"
	defineImagePath = "define-image/"

	imageField    = "image"
	imageFilename = "photo.jpg"
	imageMIME     = "image/jpeg"

	maxErrorBody = 4 << 10
)

// TokenFunc supplies the bearer token sent with each request. An empty token
// sends no Authorization header.
type TokenFunc func() (string, error)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("price api: unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("price api: unexpected status code: %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func WithToken(f TokenFunc) Option {
	return func(cl *Client) { cl.token = f }
}

// NewClient creates a client for the backend rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SearchText(ctx context.Context, query string) (*models.TextResponse, error) {
	body, err := json.Marshal(models.TextRequest{Q: query})
	if err != nil {
		return nil, err
	}
	var out models.TextResponse
	if err := c.do(ctx, searchTextPath, "application/json", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchImage looks up products directly from a JPEG photo.
func (c *Client) SearchImage(ctx context.Context, image []byte) (*models.TextResponse, error) {
	contentType, body, err := imageForm(image)
	if err != nil {
		return nil, err
	}
	var out models.TextResponse
	if err := c.do(ctx, searchImagePath, contentType, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DefineImage asks the backend to describe what a JPEG photo shows.
func (c *Client) DefineImage(ctx context.Context, image []byte) (*models.DefineImageResponse, error) {
	contentType, body, err := imageForm(image)
	if err != nil {
		return nil, err
	}
	var out models.DefineImageResponse
	if err := c.do(ctx, defineImagePath, contentType, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	if c.token != nil {
		token, err := c.token()
		if err != nil {
			return fmt.Errorf("price api token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func imageForm(image []byte) (string, io.Reader, error) {
	if len(image) == 0 {
		return "", nil, fmt.Errorf("image is empty")
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, imageField, imageFilename))
	h.Set("Content-Type", imageMIME)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", nil, err
	}
	if _, err := part.Write(image); err != nil {
		return "", nil, err
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), &buf, nil
}
