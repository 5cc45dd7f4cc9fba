// Package parsing turns cleaned resume text into structured ResumeRecord
// values via an LLM call, a two-tier response parse, and a reconciler for
// multi-chunk extractions.
package parsing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/prompts"
	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// DefaultMaxRetries is the number of additional attempts after the
	// first call fails
	DefaultMaxRetries = 1
	// DefaultRetryBaseDelay is the base for exponential backoff between
	// attempts (base * 2^attempt)
	DefaultRetryBaseDelay = 2 * time.Second
	// DefaultCallTimeout bounds a single model call
	DefaultCallTimeout = 120 * time.Second
)

// StructuredExtractor performs LLM-backed extraction of resume data
// from cleaned text
type StructuredExtractor struct {
	client         llm.Client
	logger         *slog.Logger
	maxRetries     int
	retryBaseDelay time.Duration
	callTimeout    time.Duration
}

// Option configures a StructuredExtractor
type Option func(*StructuredExtractor)

// WithMaxRetries overrides the retry budget
func WithMaxRetries(n int) Option {
	return func(e *StructuredExtractor) {
		if n >= 0 {
			e.maxRetries = n
		}
	}
}

// WithRetryBaseDelay overrides the backoff base
func WithRetryBaseDelay(d time.Duration) Option {
	return func(e *StructuredExtractor) {
		if d > 0 {
			e.retryBaseDelay = d
		}
	}
}

// WithCallTimeout overrides the per-call timeout. Zero disables it.
func WithCallTimeout(d time.Duration) Option {
	return func(e *StructuredExtractor) {
		e.callTimeout = d
	}
}

// NewStructuredExtractor creates an extractor bound to the given client
func NewStructuredExtractor(client llm.Client, logger *slog.Logger, opts ...Option) *StructuredExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &StructuredExtractor{
		client:         client,
		logger:         logger,
		maxRetries:     DefaultMaxRetries,
		retryBaseDelay: DefaultRetryBaseDelay,
		callTimeout:    DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract sends the resume text to the model and parses the response into a
// ResumeRecord. Transient API failures and malformed responses are retried
// with exponential backoff up to the configured budget; once the budget is
// exhausted an *ExtractionFailedError wrapping the last failure is returned.
func (e *StructuredExtractor) Extract(ctx context.Context, text string) (*types.ResumeRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &EmptyTextError{}
	}

	system := prompts.MustGet("extraction.json", "resume-system")
	user := prompts.Format(prompts.MustGet("extraction.json", "resume-user"), map[string]string{
		"ResumeText": text,
	})

	attempts := e.maxRetries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := e.retryBaseDelay * (1 << (attempt - 1))
			e.logger.Warn("retrying extraction",
				"attempt", attempt+1,
				"delay", delay,
				"error", lastErr)
			select {
			case <-ctx.Done():
				return nil, &ExtractionFailedError{Attempts: attempt, Cause: ctx.Err()}
			case <-time.After(delay):
			}
		}

		record, err := e.extractOnce(ctx, system, user)
		if err == nil {
			e.logger.Info("extraction succeeded",
				"model", e.client.ModelName(),
				"attempt", attempt+1)
			return record, nil
		}
		lastErr = err
	}

	return nil, &ExtractionFailedError{Attempts: attempts, Cause: lastErr}
}

func (e *StructuredExtractor) extractOnce(ctx context.Context, system, user string) (*types.ResumeRecord, error) {
	callCtx := ctx
	if e.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := e.client.GenerateJSON(callCtx, system, user)
	latency := time.Since(start)
	if err != nil {
		return nil, &APICallError{Message: "resume extraction call failed", Cause: err}
	}

	record, err := ParseRecord(raw)
	if err != nil {
		e.logger.Warn("model response failed to parse",
			"model", e.client.ModelName(),
			"latency", latency,
			"error", err)
		return nil, err
	}

	e.logger.Debug("model call completed",
		"model", e.client.ModelName(),
		"latency", latency,
		"response_bytes", len(raw))
	return record, nil
}
