package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/files"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/types"
)

type fakeRunner struct {
	mu       sync.Mutex
	parsed   []pipeline.Request
	statuses map[string]pipeline.Status
}

func (f *fakeRunner) Parse(_ context.Context, req pipeline.Request) pipeline.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parsed = append(f.parsed, req)
	return pipeline.Result{CorrelationID: req.CorrelationID, Success: true}
}

func (f *fakeRunner) Status(correlationID string) (pipeline.Status, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.statuses[correlationID]
	return st, ok
}

func (f *fakeRunner) parseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.parsed)
}

type fakeResumes struct {
	byID   map[uuid.UUID]*db.ParsedResume
	byCorr map[string]*db.ParsedResume
	list   []db.ParsedResume
}

func (f *fakeResumes) GetResume(_ context.Context, id uuid.UUID) (*db.ParsedResume, error) {
	return f.byID[id], nil
}

func (f *fakeResumes) GetResumeByCorrelationID(_ context.Context, correlationID string) (*db.ParsedResume, error) {
	return f.byCorr[correlationID], nil
}

func (f *fakeResumes) ListResumes(_ context.Context, limit int) ([]db.ParsedResume, error) {
	if len(f.list) > limit {
		return f.list[:limit], nil
	}
	return f.list, nil
}

func newTestServer(t *testing.T, runner *fakeRunner, resumes *fakeResumes) *Server {
	t.Helper()
	uploads, err := files.NewStore(t.TempDir(), 1<<20)
	require.NoError(t, err)
	if runner.statuses == nil {
		runner.statuses = make(map[string]pipeline.Status)
	}
	if resumes.byID == nil {
		resumes.byID = make(map[uuid.UUID]*db.ParsedResume)
	}
	if resumes.byCorr == nil {
		resumes.byCorr = make(map[string]*db.ParsedResume)
	}
	return &Server{
		resumes: resumes,
		runner:  runner,
		uploads: uploads,
		logger:  slog.New(slog.DiscardHandler),
	}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandleUpload_Accepted(t *testing.T) {
	runner := &fakeRunner{}
	srv := newTestServer(t, runner, &fakeResumes{})

	body, contentType := multipartBody(t, "file", "resume.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
	assert.NotEmpty(t, resp.CorrelationID)

	// parse runs in the background
	assert.Eventually(t, func() bool { return runner.parseCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHandleUpload_UnsupportedExtension(t *testing.T) {
	runner := &fakeRunner{}
	srv := newTestServer(t, runner, &fakeResumes{})

	body, contentType := multipartBody(t, "file", "resume.txt", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unsupported file type")
	assert.Zero(t, runner.parseCount())
}

func TestHandleUpload_MissingFileField(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{}, &fakeResumes{})

	body, contentType := multipartBody(t, "wrong_field", "resume.pdf", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStatus_LiveRun(t *testing.T) {
	runner := &fakeRunner{statuses: map[string]pipeline.Status{
		"run-1": {
			CorrelationID: "run-1",
			State:         pipeline.StateExtractingData,
			Filename:      "resume.pdf",
		},
	}}
	srv := newTestServer(t, runner, &fakeResumes{})

	req := httptest.NewRequest(http.MethodGet, "/status/run-1", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(pipeline.StateExtractingData), resp.State)
	assert.Equal(t, "resume.pdf", resp.Filename)
}

func TestHandleStatus_FallsBackToStore(t *testing.T) {
	resumes := &fakeResumes{byCorr: map[string]*db.ParsedResume{
		"run-2": {
			CorrelationID:    "run-2",
			OriginalFilename: "resume.docx",
			Status:           db.StatusFailed,
			ProcessingError:  "Unsupported file type: .txt",
		},
	}}
	srv := newTestServer(t, &fakeRunner{}, resumes)

	req := httptest.NewRequest(http.MethodGet, "/status/run-2", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(pipeline.StateDone), resp.State)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Unsupported file type")
}

func TestHandleStatus_NotFound(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{}, &fakeResumes{})

	req := httptest.NewRequest(http.MethodGet, "/status/unknown", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetResume(t *testing.T) {
	id := uuid.New()
	record := &types.ResumeRecord{
		ContactInformation: types.ContactInformation{Name: "Jane Doe", Email: "jane@example.com"},
	}
	record.Normalize()
	resumes := &fakeResumes{byID: map[uuid.UUID]*db.ParsedResume{
		id: {ID: id, CorrelationID: "run-3", Status: db.StatusParsed, Record: record},
	}}
	srv := newTestServer(t, &fakeRunner{}, resumes)

	req := httptest.NewRequest(http.MethodGet, "/resume/"+id.String(), nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp db.ParsedResume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
	require.NotNil(t, resp.Record)
	assert.Equal(t, "Jane Doe", resp.Record.ContactInformation.Name)
}

func TestHandleGetResume_BadID(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{}, &fakeResumes{})

	req := httptest.NewRequest(http.MethodGet, "/resume/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetResume_NotFound(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{}, &fakeResumes{})

	req := httptest.NewRequest(http.MethodGet, "/resume/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListResumes_LimitValidation(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{}, &fakeResumes{
		list: []db.ParsedResume{{CorrelationID: "a"}, {CorrelationID: "b"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/resumes?limit=1", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []db.ParsedResume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)

	req = httptest.NewRequest(http.MethodGet, "/resumes?limit=0", nil)
	rec = httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{}, &fakeResumes{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
