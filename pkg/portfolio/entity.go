package portfolio

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/portfolio/pkg/analysis"
	"github.com/artem13815/portfolio/pkg/resume"
)

var ErrNotFound = errors.New("portfolio not found")

// Record is the authoritative portfolio of one identity: the extracted
// profile and its assessment, flattened into one JSON object.
type Record struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	resume.Profile
	analysis.Assessment
	// ResumeFilePath is relative to the upload directory.
	ResumeFilePath string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// HasResumeFile reports whether an uploaded file is attached to the record.
func (r Record) HasResumeFile() bool { return r.ResumeFilePath != "" }

// ApplyFunc builds the record to store from the current one (nil if the
// identity has none yet). Returning an error aborts the write.
type ApplyFunc func(existing *Record) (Record, error)

// Repository - порт хранения портфолио. Email comparisons are case-insensitive.
type Repository interface {
	// FindLatestByEmail returns the latest record with a non-blank full name,
	// else the latest record of any kind, else ErrNotFound.
	FindLatestByEmail(ctx context.Context, email string) (Record, error)
	// Upsert serialises writers for email, loads the current record, calls
	// apply and persists its result in one transaction. created reports
	// whether a new row was inserted.
	Upsert(ctx context.Context, email string, apply ApplyFunc) (rec Record, created bool, err error)
	// DeleteByEmail removes every record of the identity and returns the
	// resume file paths they referenced.
	DeleteByEmail(ctx context.Context, email string) ([]string, error)
}
