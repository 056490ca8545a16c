package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/talentscout/screener/pkg/models"
	"github.com/talentscout/screener/pkg/repository"
)

// Store is an in-memory CandidateStore for tests.
type Store struct {
	mu      sync.Mutex
	Records []models.CandidateRecord

	// Optional error injection per operation.
	UpsertErr error
	AppendErr error
	MarkErr   error
}

var _ repository.CandidateStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Load(ctx context.Context) ([]models.CandidateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CandidateRecord, len(s.Records))
	copy(out, s.Records)
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.CandidateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Records {
		if s.Records[i].ID == id {
			rec := s.Records[i]
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) Upsert(ctx context.Context, rec *models.CandidateRecord) (string, error) {
	if s.UpsertErr != nil {
		return "", s.UpsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := models.CandidateID(rec.Email)
	rec.ID = id
	rec.LastUpdated = models.Now()
	for i := range s.Records {
		if s.Records[i].ID == id {
			if rec.Timestamp == "" {
				rec.Timestamp = s.Records[i].Timestamp
			}
			s.Records[i] = *rec
			return id, nil
		}
	}
	if rec.Timestamp == "" {
		rec.Timestamp = models.Now()
	}
	s.Records = append(s.Records, *rec)
	return id, nil
}

func (s *Store) AppendResponses(ctx context.Context, id string, responses map[string]string) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Records {
		if s.Records[i].ID == id {
			if s.Records[i].TechnicalResponses == nil {
				s.Records[i].TechnicalResponses = map[string]string{}
			}
			for k, v := range responses {
				s.Records[i].TechnicalResponses[k] = v
			}
			s.Records[i].LastUpdated = models.Now()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) MarkComplete(ctx context.Context, id string) error {
	if s.MarkErr != nil {
		return s.MarkErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Records {
		if s.Records[i].ID == id {
			s.Records[i].SessionCompleted = true
			if s.Records[i].CompletionTime == "" {
				s.Records[i].CompletionTime = models.Now()
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) Anonymize(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Records {
		if s.Records[i].ID == id {
			s.Records[i].Name = fmt.Sprintf("Candidate_%s", id)
			s.Records[i].Email = fmt.Sprintf("candidate_%s@anonymous.com", id)
			s.Records[i].Phone = "XXX-XXX-XXXX"
			s.Records[i].Anonymized = true
			s.Records[i].AnonymizedDate = models.Now()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) PurgeOlderThan(ctx context.Context, days int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	kept := s.Records[:0]
	removed := 0
	for _, rec := range s.Records {
		ts, err := time.Parse(time.RFC3339, rec.Timestamp)
		if err == nil && ts.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	s.Records = kept
	return removed, nil
}
