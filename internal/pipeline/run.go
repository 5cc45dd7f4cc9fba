// Package pipeline orchestrates the resume parsing flow as an explicit
// state machine: text extraction, cleaning, structured extraction, and
// persistence, with per-run status tracked by correlation id.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/chunking"
	"github.com/jonathan/resume-parser/internal/cleaning"
	"github.com/jonathan/resume-parser/internal/extractor"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/types"
)

// DocumentExtractor pulls raw text out of an uploaded document
type DocumentExtractor interface {
	Detect(filename string) (extractor.Format, error)
	Extract(path string, format extractor.Format) (string, error)
}

// RecordExtractor turns cleaned resume text into a structured record
type RecordExtractor interface {
	Extract(ctx context.Context, text string) (*types.ResumeRecord, error)
}

// FileMetadata describes the source document of a run
type FileMetadata struct {
	OriginalFilename string
	StoredPath       string
	FileType         string
	SizeBytes        int64
}

// ResultStore persists run outcomes. Implementations must tolerate
// concurrent calls for distinct correlation ids.
type ResultStore interface {
	SaveResult(ctx context.Context, correlationID string, record *types.ResumeRecord, meta FileMetadata) error
	SaveFailure(ctx context.Context, correlationID string, meta FileMetadata, processingError string) error
}

// Request describes one document to parse
type Request struct {
	// Path is the location of the document on disk
	Path string
	// OriginalFilename is the name the document arrived under; format
	// detection uses its extension
	OriginalFilename string
	// CorrelationID identifies the run. Generated when empty.
	CorrelationID string
}

// Result is the outcome of a run. Parse never returns an error; failures
// surface here as Success=false with ErrorMessage set.
type Result struct {
	CorrelationID string
	Success       bool
	Record        *types.ResumeRecord
	ErrorMessage  string
}

// Runner executes parsing runs and tracks their status
type Runner struct {
	docs    DocumentExtractor
	records RecordExtractor
	store   ResultStore
	logger  *slog.Logger

	chunkThreshold int
	chunkSize      int
	chunkOverlap   int

	mu   sync.RWMutex
	runs map[string]*Status
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithChunkPolicy overrides the chunking thresholds
func WithChunkPolicy(threshold, size, overlap int) RunnerOption {
	return func(r *Runner) {
		if threshold > 0 {
			r.chunkThreshold = threshold
		}
		if size > 0 {
			r.chunkSize = size
		}
		if overlap >= 0 {
			r.chunkOverlap = overlap
		}
	}
}

// NewRunner creates a Runner. The store may be nil, in which case results
// are returned to the caller without being persisted.
func NewRunner(docs DocumentExtractor, records RecordExtractor, store ResultStore, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		docs:           docs,
		records:        records,
		store:          store,
		logger:         logger,
		chunkThreshold: chunking.DefaultThreshold,
		chunkSize:      chunking.DefaultSize,
		chunkOverlap:   chunking.DefaultOverlap,
		runs:           make(map[string]*Status),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Parse runs the full pipeline for one document. It never panics or
// returns an error; every failure is converted into a Result with
// Success=false and a human-readable ErrorMessage.
func (r *Runner) Parse(ctx context.Context, req Request) Result {
	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	log := r.logger.With("correlation_id", correlationID, "filename", req.OriginalFilename)
	r.beginRun(correlationID, req.OriginalFilename)

	meta := FileMetadata{
		OriginalFilename: req.OriginalFilename,
		StoredPath:       req.Path,
	}

	r.setState(correlationID, StateExtractingText)
	format, err := r.docs.Detect(req.OriginalFilename)
	if err != nil {
		return r.fail(ctx, log, correlationID, meta, err.Error())
	}
	meta.FileType = string(format)

	log.Info("extracting text", "format", format)
	raw, err := r.docs.Extract(req.Path, format)
	if err != nil {
		return r.fail(ctx, log, correlationID, meta, err.Error())
	}

	r.setState(correlationID, StateCleaningText)
	cleaned := cleaning.Normalize(raw)
	if cleaned == "" {
		return r.fail(ctx, log, correlationID, meta, "no extractable text content in document")
	}
	log.Info("text cleaned", "raw_chars", len(raw), "cleaned_chars", len(cleaned))

	r.setState(correlationID, StateExtractingData)
	record, errMsg := r.extractData(ctx, log, cleaned)
	if errMsg != "" {
		return r.fail(ctx, log, correlationID, meta, errMsg)
	}

	r.setState(correlationID, StateSavingResult)
	if r.store != nil {
		if err := r.store.SaveResult(ctx, correlationID, record, meta); err != nil {
			return r.fail(ctx, log, correlationID, meta, fmt.Sprintf("failed to save parsed resume: %v", err))
		}
	}

	r.finish(correlationID, true, "")
	log.Info("parse complete")
	return Result{CorrelationID: correlationID, Success: true, Record: record}
}

// extractData runs the LLM extraction, chunking the text first when it
// exceeds the threshold. Returns a non-empty message on failure.
func (r *Runner) extractData(ctx context.Context, log *slog.Logger, cleaned string) (*types.ResumeRecord, string) {
	if len(cleaned) <= r.chunkThreshold {
		record, err := r.records.Extract(ctx, cleaned)
		if err != nil {
			return nil, err.Error()
		}
		return record, ""
	}

	chunks := chunking.Split(cleaned, r.chunkSize, r.chunkOverlap)
	log.Info("text exceeds single-pass threshold, chunking", "chunks", len(chunks))

	partials := make([]*types.ResumeRecord, 0, len(chunks))
	for _, chunk := range chunks {
		record, err := r.records.Extract(ctx, chunk.Content)
		if err != nil {
			log.Warn("chunk extraction failed, skipping", "chunk", chunk.Index, "error", err)
			continue
		}
		partials = append(partials, record)
	}
	if len(partials) == 0 {
		return nil, "failed to extract resume data from any text chunks"
	}

	log.Info("reconciling chunk results", "succeeded", len(partials), "total", len(chunks))
	return parsing.Merge(partials), ""
}

// Status returns a snapshot of the run with the given correlation id
func (r *Runner) Status(correlationID string) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.runs[correlationID]
	if !ok {
		return Status{}, false
	}
	return *st, true
}

func (r *Runner) beginRun(correlationID, filename string) {
	now := time.Now()
	r.mu.Lock()
	r.runs[correlationID] = &Status{
		CorrelationID: correlationID,
		State:         StateExtractingText,
		Filename:      filename,
		StartedAt:     now,
		UpdatedAt:     now,
	}
	r.mu.Unlock()
}

func (r *Runner) setState(correlationID string, state State) {
	r.mu.Lock()
	if st, ok := r.runs[correlationID]; ok {
		st.State = state
		st.UpdatedAt = time.Now()
	}
	r.mu.Unlock()
}

func (r *Runner) finish(correlationID string, success bool, errMsg string) {
	r.mu.Lock()
	if st, ok := r.runs[correlationID]; ok {
		st.State = StateDone
		st.Success = success
		st.Error = errMsg
		st.UpdatedAt = time.Now()
	}
	r.mu.Unlock()
}

// fail routes a run through the error handling state and records the
// failure for later inspection. Persistence of the failure is best-effort.
func (r *Runner) fail(ctx context.Context, log *slog.Logger, correlationID string, meta FileMetadata, errMsg string) Result {
	r.setState(correlationID, StateHandlingError)
	log.Error("parse failed", "error", errMsg)

	if r.store != nil {
		if err := r.store.SaveFailure(ctx, correlationID, meta, errMsg); err != nil {
			log.Error("failed to record parse failure", "error", err)
		}
	}

	r.finish(correlationID, false, errMsg)
	return Result{CorrelationID: correlationID, Success: false, ErrorMessage: strings.TrimSpace(errMsg)}
}
