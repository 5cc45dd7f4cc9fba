package pipeline

import "time"

// State identifies a stage of the parsing pipeline
type State string

const (
	// StateExtractingText covers format detection and raw text extraction
	StateExtractingText State = "extracting_text"
	// StateCleaningText covers text normalization
	StateCleaningText State = "cleaning_text"
	// StateExtractingData covers the LLM extraction, chunked or single-pass
	StateExtractingData State = "extracting_data"
	// StateSavingResult covers persistence of a successful extraction
	StateSavingResult State = "saving_result"
	// StateHandlingError records failure handling before the run finishes
	StateHandlingError State = "handling_error"
	// StateDone is the terminal state for both outcomes
	StateDone State = "done"
)

// Status is a point-in-time snapshot of a run, safe to hand to callers
// while the run is still in flight
type Status struct {
	CorrelationID string    `json:"correlation_id"`
	State         State     `json:"state"`
	Filename      string    `json:"filename"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Terminal reports whether the run has finished
func (s Status) Terminal() bool {
	return s.State == StateDone
}
