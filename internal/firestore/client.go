package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"testgen/internal/metrics"
	"testgen/internal/platform/logger"
)

const defaultHost = "https://firestore.googleapis.com"

// Config locates a project's document root
type Config struct {
	ProjectID string
	// BaseURL overrides the host, e.g. an emulator at http://localhost:8080
	BaseURL string
	Timeout time.Duration
}

// DocumentsURL returns the REST root of the project's default database
func (c Config) DocumentsURL() string {
	host := strings.TrimRight(c.BaseURL, "/")
	if host == "" {
		host = defaultHost
	}
	return fmt.Sprintf("%s/v1/projects/%s/databases/(default)/documents", host, c.ProjectID)
}

// Client is a single-attempt REST client for the document store
type Client struct {
	http      *resty.Client
	projectID string
	log       *logger.Logger
}

// NewClient creates a new document store client
func NewClient(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rc := resty.New().
		SetBaseURL(cfg.DocumentsURL()).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Firebase-Project-ID", cfg.ProjectID)

	return &Client{
		http:      rc,
		projectID: cfg.ProjectID,
		log:       log.With("component", "firestore"),
	}
}

// DocPath joins path segments, escaping each one
func DocPath(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return strings.Join(escaped, "/")
}

func (c *Client) request(ctx context.Context, idToken string) *resty.Request {
	req := c.http.R().SetContext(ctx)
	// pre-login callers may have no token yet
	if idToken != "" {
		req.SetAuthToken(idToken)
	}
	return req
}

// GetDocument reads the document at path
func (c *Client) GetDocument(ctx context.Context, idToken, path string) (*Document, error) {
	resp, err := c.request(ctx, idToken).Get("/" + path)
	return c.decode("get", path, resp, err, http.StatusOK)
}

// PatchDocument creates or replaces the fields of the document at path
func (c *Client) PatchDocument(ctx context.Context, idToken, path string, fields Fields) (*Document, error) {
	resp, err := c.request(ctx, idToken).
		SetBody(Document{Fields: fields}).
		Patch("/" + path)
	return c.decode("patch", path, resp, err, http.StatusOK, http.StatusCreated)
}

// CreateDocument adds a document with a store-assigned id to collection
func (c *Client) CreateDocument(ctx context.Context, idToken, collection string, fields Fields) (*Document, error) {
	resp, err := c.request(ctx, idToken).
		SetBody(Document{Fields: fields}).
		Post("/" + collection)
	doc, err := c.decode("create", collection, resp, err, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	if doc.ID() == "" {
		return nil, fmt.Errorf("firestore create %s: %w", collection, ErrMissingName)
	}
	return doc, nil
}

func (c *Client) decode(op, path string, resp *resty.Response, err error, okStatus ...int) (*Document, error) {
	if err != nil {
		metrics.ObserveDocstore(op, 0)
		c.log.Warn("document store request failed", "op", op, "path", path, "error", err)
		return nil, fmt.Errorf("firestore %s %s: %w: %v", op, path, ErrTransport, err)
	}

	status := resp.StatusCode()
	metrics.ObserveDocstore(op, status)
	if !statusIn(status, okStatus) {
		c.log.Warn("document store returned error status", "op", op, "path", path, "status", status)
		return nil, &StatusError{Op: op, Status: status, Body: resp.String()}
	}

	var doc Document
	body := resp.Body()
	if len(body) > 0 {
		if err := json.Unmarshal(body, &doc); err != nil {
			c.log.Warn("document store response did not decode", "op", op, "path", path, "error", err)
			return nil, fmt.Errorf("firestore %s %s: %w", op, path, wrapSchema(err))
		}
	}
	c.log.Debug("document store request ok", "op", op, "path", path, "status", status)
	return &doc, nil
}

func wrapSchema(err error) error {
	if errors.Is(err, ErrSchemaMismatch) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
}

func statusIn(status int, set []int) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
