// Package store provides candidate persistence behind the
// repository.CandidateStore contract. Two backends exist: a flat JSON file
// (the default, one pretty-printed array of records) and SQLite. Both key
// records by the id derived from the candidate's email.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/talentscout/screener/pkg/models"
	"github.com/talentscout/screener/pkg/repository"
)

// JSONStore keeps the whole candidate list in one JSON file and rewrites the
// file on every mutation. Writes go through a temp file and rename so a crash
// mid-write never leaves a half-written store. A mutex serializes
// read-modify-write cycles within the process; concurrent processes sharing
// the file can still race (single-operator deployment).
type JSONStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

var _ repository.CandidateStore = (*JSONStore)(nil)

func NewJSONStore(path string, logger *slog.Logger) (*JSONStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &JSONStore{path: path, logger: logger}, nil
}

// load reads the backing file. A missing file or unparseable contents yield
// an empty list: corruption is treated as "no data", never a fatal error.
func (s *JSONStore) load() []models.CandidateRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("store: read failed, treating as empty", slog.String("path", s.path), slog.Any("err", err))
		}
		return []models.CandidateRecord{}
	}

	var records []models.CandidateRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("store: parse failed, treating as empty", slog.String("path", s.path), slog.Any("err", err))
		return []models.CandidateRecord{}
	}
	return records
}

// save serializes the full list and replaces the backing file atomically from
// the caller's perspective (write temp, rename over).
func (s *JSONStore) save(records []models.CandidateRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".candidates-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func (s *JSONStore) Load(ctx context.Context) ([]models.CandidateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

func (s *JSONStore) Get(ctx context.Context, id string) (*models.CandidateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.load() {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *JSONStore) Upsert(ctx context.Context, rec *models.CandidateRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := models.CandidateID(rec.Email)
	rec.ID = id
	rec.LastUpdated = models.Now()

	records := s.load()
	replaced := false
	for i := range records {
		if records[i].ID == id {
			// keep the original creation mark across updates
			if rec.Timestamp == "" {
				rec.Timestamp = records[i].Timestamp
			}
			records[i] = *rec
			replaced = true
			break
		}
	}
	if !replaced {
		if rec.Timestamp == "" {
			rec.Timestamp = models.Now()
		}
		records = append(records, *rec)
	}

	if err := s.save(records); err != nil {
		return "", err
	}
	return id, nil
}

func (s *JSONStore) AppendResponses(ctx context.Context, id string, responses map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	for i := range records {
		if records[i].ID == id {
			if records[i].TechnicalResponses == nil {
				records[i].TechnicalResponses = map[string]string{}
			}
			for k, v := range responses {
				records[i].TechnicalResponses[k] = v
			}
			records[i].LastUpdated = models.Now()
			return s.save(records)
		}
	}
	return repository.ErrNotFound
}

func (s *JSONStore) MarkComplete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	for i := range records {
		if records[i].ID == id {
			records[i].SessionCompleted = true
			if records[i].CompletionTime == "" {
				records[i].CompletionTime = models.Now()
			}
			return s.save(records)
		}
	}
	return repository.ErrNotFound
}

func (s *JSONStore) Anonymize(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	for i := range records {
		if records[i].ID == id {
			anonymizeRecord(&records[i])
			return s.save(records)
		}
	}
	return repository.ErrNotFound
}

func (s *JSONStore) PurgeOlderThan(ctx context.Context, days int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	records := s.load()
	kept := make([]models.CandidateRecord, 0, len(records))
	for _, rec := range records {
		// records with a missing or unparseable creation mark are kept
		ts, err := time.Parse(time.RFC3339, rec.Timestamp)
		if err == nil && ts.Before(cutoff) {
			continue
		}
		kept = append(kept, rec)
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func anonymizeRecord(rec *models.CandidateRecord) {
	rec.Name = fmt.Sprintf("Candidate_%s", rec.ID)
	rec.Email = fmt.Sprintf("candidate_%s@anonymous.com", rec.ID)
	rec.Phone = "XXX-XXX-XXXX"
	rec.Anonymized = true
	rec.AnonymizedDate = models.Now()
}
