package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/unified-personal-site-admin/errs"
	"github.com/rpupo63/unified-personal-site-admin/models"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        []byte
}

// projectBackend is a stand-in for the project API.
type projectBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (b *projectBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.EscapedPath(),
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get(RequestIDHeader),
		Body:        body,
	})
	status, respBody := b.status, b.body
	b.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	io.WriteString(w, respBody)
}

func (b *projectBackend) Requests() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedRequest(nil), b.requests...)
}

func newBackend(t *testing.T, status int, body string) (*projectBackend, *ProjectAPIClient) {
	t.Helper()
	backend := &projectBackend{status: status, body: body}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return backend, NewProjectAPIClient(srv.URL + "/")
}

var portfolio = models.Project{
	Name:        "Portfolio",
	Category:    "CSS3",
	Description: "My site",
	TechStack:   "React",
	Repository:  "https://github.com/example/portfolio",
	URL:         "https://example.com",
	Image:       "https://example.com/shot.png",
}

func TestGet_ReturnsRecord(t *testing.T) {
	payload, err := json.Marshal(portfolio)
	require.NoError(t, err)
	backend, client := newBackend(t, http.StatusOK, string(payload))

	got, err := client.Get(context.Background(), "65f1c2")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, portfolio, *got)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/project/65f1c2", reqs[0].Path)
	assert.NotEmpty(t, reqs[0].RequestID)
}

func TestGet_FalsyBodyMeansAbsent(t *testing.T) {
	for _, body := range []string{"", "null", " null\n", "false", "0", `""`} {
		t.Run(body, func(t *testing.T) {
			_, client := newBackend(t, http.StatusOK, body)
			got, err := client.Get(context.Background(), "missing")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestGet_EmptyObjectIsARecord(t *testing.T) {
	_, client := newBackend(t, http.StatusOK, "{}")
	got, err := client.Get(context.Background(), "blank")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsZero())
}

func TestGet_Non2xxIsRequestFailed(t *testing.T) {
	_, client := newBackend(t, http.StatusInternalServerError, `{"error":"boom"}`)

	got, err := client.Get(context.Background(), "1")

	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errs.IsRequestFailed(err))
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Internal Server Error", apiErr.StatusText)
}

func TestGet_MalformedBody(t *testing.T) {
	_, client := newBackend(t, http.StatusOK, `["not","a","record"]`)
	_, err := client.Get(context.Background(), "1")
	assert.True(t, errs.IsRequestFailed(err))
	assert.Equal(t, http.StatusBadGateway, errs.StatusOf(err))
}

func TestGet_EscapesID(t *testing.T) {
	backend, client := newBackend(t, http.StatusOK, "null")
	_, err := client.Get(context.Background(), "a/b c")
	require.NoError(t, err)
	assert.Equal(t, "/project/a%2Fb%20c", backend.Requests()[0].Path)
}

func TestCreate_PostsJSON(t *testing.T) {
	backend, client := newBackend(t, http.StatusCreated, `{"acknowledged":true}`)

	require.NoError(t, client.Create(context.Background(), portfolio))

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/project", reqs[0].Path)
	assert.Equal(t, "application/json", reqs[0].ContentType)

	var sent models.Project
	require.NoError(t, json.Unmarshal(reqs[0].Body, &sent))
	assert.Equal(t, portfolio, sent)
}

func TestUpdate_PatchesJSON(t *testing.T) {
	backend, client := newBackend(t, http.StatusOK, "")

	require.NoError(t, client.Update(context.Background(), "Z", portfolio))

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPatch, reqs[0].Method)
	assert.Equal(t, "/project/Z", reqs[0].Path)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.JSONEq(t, mustJSON(t, portfolio), string(reqs[0].Body))
}

func TestWrite_Non2xxIsNotRetried(t *testing.T) {
	backend, client := newBackend(t, http.StatusInternalServerError, "")

	err := client.Update(context.Background(), "Z", portfolio)

	assert.True(t, errs.IsRequestFailed(err))
	assert.Len(t, backend.Requests(), 1)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()
	client := NewProjectAPIClient(baseURL)

	err := client.Create(context.Background(), portfolio)

	assert.True(t, errs.IsRequestFailed(err))
	assert.Equal(t, 0, errs.StatusOf(err))
}

func TestWithTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewProjectAPIClient(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := client.Get(context.Background(), "slow")

	assert.True(t, errs.IsRequestFailed(err))
	assert.Equal(t, 0, errs.StatusOf(err))
}

func TestNewProjectAPIClient_TrimsBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.example.com", NewProjectAPIClient("https://api.example.com/").BaseURL())
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
