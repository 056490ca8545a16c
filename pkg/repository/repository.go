package repository

import (
	"context"
	"errors"

	"github.com/talentscout/screener/pkg/models"
)

// ErrNotFound is returned when an operation targets a candidate id that is
// not present in the store.
var ErrNotFound = errors.New("candidate not found")

// CandidateStore is the public contract for candidate persistence. Concrete
// implementations live under internal/store; all of them preserve the
// upsert-by-derived-id semantics (see models.CandidateID) so backends can be
// swapped without changing callers.
type CandidateStore interface {
	// Load returns every stored record. A missing or unreadable backing
	// store yields an empty list, not an error.
	Load(ctx context.Context) ([]models.CandidateRecord, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.CandidateRecord, error)

	// Upsert derives the id from the record's email, replaces the matching
	// record or appends a new one, and returns the id.
	Upsert(ctx context.Context, rec *models.CandidateRecord) (string, error)

	// AppendResponses merges the given answers into the record's
	// technical_responses map, later writes winning on key conflicts, and
	// stamps last_updated. Returns ErrNotFound for an unknown id.
	AppendResponses(ctx context.Context, id string, responses map[string]string) error

	// MarkComplete sets session_completed and completion_time. Idempotent.
	MarkComplete(ctx context.Context, id string) error

	// Anonymize irreversibly replaces name, email and phone with synthetic
	// placeholders derived from the id.
	Anonymize(ctx context.Context, id string) error

	// PurgeOlderThan removes records whose creation timestamp predates
	// now minus the given number of days and returns how many were removed.
	PurgeOlderThan(ctx context.Context, days int) (int, error)
}
