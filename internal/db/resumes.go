package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/types"
)

// Resume statuses
const (
	StatusParsed = "parsed"
	StatusFailed = "failed"
)

// ParsedResume represents a stored parsing outcome, successful or not
type ParsedResume struct {
	ID               uuid.UUID           `json:"id"`
	CorrelationID    string              `json:"correlation_id"`
	OriginalFilename string              `json:"original_filename"`
	FileType         string              `json:"file_type"`
	FilePath         string              `json:"file_path,omitempty"`
	FileSize         int64               `json:"file_size"`
	Status           string              `json:"status"`
	Record           *types.ResumeRecord `json:"record,omitempty"`
	ProcessingError  string              `json:"processing_error,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// SaveResume stores a successfully parsed resume and returns its ID
func (db *DB) SaveResume(ctx context.Context, correlationID string, record *types.ResumeRecord, meta pipeline.FileMetadata) (uuid.UUID, error) {
	content, err := json.Marshal(record)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal resume record: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO parsed_resumes (correlation_id, original_filename, file_type, file_path, file_size, status, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		correlationID, meta.OriginalFilename, meta.FileType, meta.StoredPath, meta.SizeBytes, StatusParsed, content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return id, nil
}

// SaveFailedResume stores a failed run so the error stays inspectable
func (db *DB) SaveFailedResume(ctx context.Context, correlationID string, meta pipeline.FileMetadata, processingError string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO parsed_resumes (correlation_id, original_filename, file_type, file_path, file_size, status, processing_error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		correlationID, meta.OriginalFilename, meta.FileType, meta.StoredPath, meta.SizeBytes, StatusFailed, processingError,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save failed resume: %w", err)
	}
	return id, nil
}

// GetResume retrieves a stored resume by ID. Returns nil when not found.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*ParsedResume, error) {
	return db.scanResume(db.pool.QueryRow(ctx,
		`SELECT id, correlation_id, original_filename, file_type, file_path, file_size, status, content, processing_error, created_at
		 FROM parsed_resumes WHERE id = $1`,
		id,
	))
}

// GetResumeByCorrelationID retrieves the most recent record for a run.
// Returns nil when not found.
func (db *DB) GetResumeByCorrelationID(ctx context.Context, correlationID string) (*ParsedResume, error) {
	return db.scanResume(db.pool.QueryRow(ctx,
		`SELECT id, correlation_id, original_filename, file_type, file_path, file_size, status, content, processing_error, created_at
		 FROM parsed_resumes WHERE correlation_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		correlationID,
	))
}

// ListResumes retrieves recent parsing outcomes
func (db *DB) ListResumes(ctx context.Context, limit int) ([]ParsedResume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, correlation_id, original_filename, file_type, file_path, file_size, status, content, processing_error, created_at
		 FROM parsed_resumes ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []ParsedResume
	for rows.Next() {
		resume, err := scanResumeRow(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, *resume)
	}
	return resumes, nil
}

// SaveResult implements pipeline.ResultStore
func (db *DB) SaveResult(ctx context.Context, correlationID string, record *types.ResumeRecord, meta pipeline.FileMetadata) error {
	_, err := db.SaveResume(ctx, correlationID, record, meta)
	return err
}

// SaveFailure implements pipeline.ResultStore
func (db *DB) SaveFailure(ctx context.Context, correlationID string, meta pipeline.FileMetadata, processingError string) error {
	_, err := db.SaveFailedResume(ctx, correlationID, meta, processingError)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (db *DB) scanResume(row rowScanner) (*ParsedResume, error) {
	resume, err := scanResumeRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return resume, nil
}

func scanResumeRow(row rowScanner) (*ParsedResume, error) {
	var (
		resume          ParsedResume
		content         []byte
		filePath        *string
		processingError *string
	)
	err := row.Scan(&resume.ID, &resume.CorrelationID, &resume.OriginalFilename, &resume.FileType,
		&filePath, &resume.FileSize, &resume.Status, &content, &processingError, &resume.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan resume: %w", err)
	}

	if filePath != nil {
		resume.FilePath = *filePath
	}
	if processingError != nil {
		resume.ProcessingError = *processingError
	}
	if len(content) > 0 {
		var record types.ResumeRecord
		if err := json.Unmarshal(content, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resume record: %w", err)
		}
		record.Normalize()
		resume.Record = &record
	}
	return &resume, nil
}
