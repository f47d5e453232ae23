package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/unified-personal-site-admin/errs"
	"github.com/rpupo63/unified-personal-site-admin/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader is set on every outgoing request to the project API.
const RequestIDHeader = "X-Request-ID"

// ProjectAPIClient talks to the project REST API:
//
//	GET   /project/{id}  read one
//	POST  /project       create
//	PATCH /project/{id}  update
type ProjectAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

type ClientOption func(*ProjectAPIClient)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(p *ProjectAPIClient) {
		p.httpClient = c
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(p *ProjectAPIClient) {
		p.logger = logger
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(p *ProjectAPIClient) {
		if timeout > 0 {
			p.httpClient = &http.Client{Transport: p.httpClient.Transport, Timeout: timeout}
		}
	}
}

func NewProjectAPIClient(baseURL string, opts ...ClientOption) *ProjectAPIClient {
	client := &ProjectAPIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     log.With().Str("component", "projectAPIClient").Logger(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns the origin requests are sent to.
func (c *ProjectAPIClient) BaseURL() string {
	return c.baseURL
}

// Get fetches the project with the given id. A 2xx answer with an empty or
// falsy body yields (nil, nil): the API's way of saying the record is absent.
func (c *ProjectAPIClient) Get(ctx context.Context, id string) (*models.Project, error) {
	body, err := c.do(ctx, http.MethodGet, c.itemPath(id), nil)
	if err != nil {
		return nil, err
	}

	if isFalsyJSON(body) {
		return nil, nil
	}

	var project models.Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, errs.NewDecodeError("project", err)
	}
	return &project, nil
}

// Create posts a new project. The response body is ignored.
func (c *ProjectAPIClient) Create(ctx context.Context, project models.Project) error {
	_, err := c.do(ctx, http.MethodPost, "/project", &project)
	return err
}

// Update patches the project with the given id. The response body is ignored.
func (c *ProjectAPIClient) Update(ctx context.Context, id string, project models.Project) error {
	_, err := c.do(ctx, http.MethodPatch, c.itemPath(id), &project)
	return err
}

func (c *ProjectAPIClient) itemPath(id string) string {
	return "/project/" + url.PathEscape(id)
}

func (c *ProjectAPIClient) do(ctx context.Context, method, path string, payload *models.Project) ([]byte, error) {
	operation := fmt.Sprintf("%s %s", method, path)

	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, errs.NewTransportError("encode "+operation, err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, errs.NewTransportError("build "+operation, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).
			Str("method", method).
			Str("path", path).
			Str("requestId", requestID).
			Msg("project API request failed")
		return nil, errs.NewTransportError(operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("requestId", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("project API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.NewRequestFailed(resp.StatusCode, reasonPhrase(resp))
	}
	if err != nil {
		return nil, errs.NewTransportError("read "+operation, err)
	}
	return body, nil
}

// reasonPhrase extracts the text after the status code in the status line.
func reasonPhrase(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}

// isFalsyJSON reports whether body is empty or a JSON value that is falsy in
// a browser: null, false, 0 or the empty string.
func isFalsyJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return true
	}
	switch string(trimmed) {
	case "null", "false", `""`:
		return true
	}
	if trimmed[0] != '-' && (trimmed[0] < '0' || trimmed[0] > '9') {
		return false
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		f, err := n.Float64()
		return err == nil && f == 0
	}
	return false
}
