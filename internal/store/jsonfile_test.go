package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/talentscout/screener/internal/store"
	"github.com/talentscout/screener/pkg/models"
	"github.com/talentscout/screener/pkg/repository"
)

func newTestStore(t *testing.T) (*store.JSONStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candidates.json")
	s, err := store.NewJSONStore(path, nil)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	return s, path
}

func sampleRecord(email string) *models.CandidateRecord {
	return &models.CandidateRecord{
		Name:            "Jane Doe",
		Email:           email,
		Phone:           "555-123-4567",
		ExperienceYears: 4,
		DesiredPosition: "Backend Engineer",
		Location:        "Berlin",
	}
}

func TestCandidateID_IsPureFunctionOfLowercasedEmail(t *testing.T) {
	a := models.CandidateID("Jane@Example.com")
	b := models.CandidateID("jane@example.com")
	if a != b {
		t.Fatalf("ids differ for case variants: %s vs %s", a, b)
	}
	if len(a) != 8 {
		t.Fatalf("expected 8-char id, got %q", a)
	}
}

func TestUpsert_SameEmailCollapsesToOneRecord(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec1 := sampleRecord("jane@example.com")
	id1, err := s.Upsert(ctx, rec1)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	rec2 := sampleRecord("Jane@Example.com")
	rec2.DesiredPosition = "Staff Engineer"
	id2, err := s.Upsert(ctx, rec2)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same id, got %s and %s", id1, id2)
	}

	records, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].DesiredPosition != "Staff Engineer" {
		t.Fatalf("later write should win, got %q", records[0].DesiredPosition)
	}
	if records[0].Timestamp == "" {
		t.Fatalf("expected creation timestamp to be set")
	}
}

func TestUpsert_KeepsCreationTimestampAcrossUpdates(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("jane@example.com")
	if _, err := s.Upsert(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	created := rec.Timestamp

	update := sampleRecord("jane@example.com")
	if _, err := s.Upsert(ctx, update); err != nil {
		t.Fatalf("update: %v", err)
	}
	if update.Timestamp != created {
		t.Fatalf("creation timestamp changed: %s -> %s", created, update.Timestamp)
	}
}

func TestLoad_CorruptFileTreatedAsEmpty(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	records, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load after corruption: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty list, got %d records", len(records))
	}

	// a subsequent upsert recreates the file fresh
	if _, err := s.Upsert(ctx, sampleRecord("jane@example.com")); err != nil {
		t.Fatalf("upsert after corruption: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	var parsed []models.CandidateRecord
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("store file not parseable: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("expected one record in fresh file, got %d", len(parsed))
	}
}

func TestStoreFile_PrettyPrintedAndUTF8Preserved(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("josé@example.com")
	rec.Name = "José García"
	if _, err := s.Upsert(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !json.Valid(data) {
		t.Fatalf("store file is not valid JSON")
	}
	content := string(data)
	if !strings.Contains(content, "José García") {
		t.Fatalf("non-ASCII not preserved: %s", content)
	}
	if !strings.Contains(content, "\n  ") {
		t.Fatalf("expected indented output")
	}
}

func TestAppendResponses_MergesAndStampsLastUpdated(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("jane@example.com")
	id, err := s.Upsert(ctx, rec)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.AppendResponses(ctx, id, map[string]string{"question_1": "A"}); err != nil {
		t.Fatalf("append 1: %v", err)
	}
	if err := s.AppendResponses(ctx, id, map[string]string{"question_1": "B", "question_2": "C"}); err != nil {
		t.Fatalf("append 2: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.TechnicalResponses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(got.TechnicalResponses))
	}
	if got.TechnicalResponses["question_1"] != "B" {
		t.Fatalf("later write should overwrite, got %q", got.TechnicalResponses["question_1"])
	}
	if got.LastUpdated == "" {
		t.Fatalf("expected last_updated to be stamped")
	}
}

func TestAppendResponses_UnknownIDReturnsNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.AppendResponses(context.Background(), "deadbeef", map[string]string{"question_1": "x"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkComplete_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.Upsert(ctx, sampleRecord("jane@example.com"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.MarkComplete(ctx, id); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	first, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if err := s.MarkComplete(ctx, id); err != nil {
		t.Fatalf("second mark: %v", err)
	}
	second, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if !second.SessionCompleted {
		t.Fatalf("expected session_completed")
	}
	if second.CompletionTime != first.CompletionTime {
		t.Fatalf("completion_time changed on repeated mark")
	}
	records, _ := s.Load(ctx)
	if len(records) != 1 {
		t.Fatalf("record duplicated: %d", len(records))
	}
}

func TestAnonymize_ReplacesContactFields(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.Upsert(ctx, sampleRecord("jane@example.com"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Anonymize(ctx, id); err != nil {
		t.Fatalf("anonymize: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Candidate_"+id || got.Phone != "XXX-XXX-XXXX" {
		t.Fatalf("fields not anonymized: %+v", got)
	}
	if !got.Anonymized || got.AnonymizedDate == "" {
		t.Fatalf("anonymization marks missing: %+v", got)
	}
}

func TestPurgeOlderThan(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	old := sampleRecord("old@example.com")
	old.Timestamp = time.Now().UTC().AddDate(0, 0, -40).Format(time.RFC3339)
	if _, err := s.Upsert(ctx, old); err != nil {
		t.Fatalf("upsert old: %v", err)
	}

	fresh := sampleRecord("fresh@example.com")
	if _, err := s.Upsert(ctx, fresh); err != nil {
		t.Fatalf("upsert fresh: %v", err)
	}

	removed, err := s.PurgeOlderThan(ctx, 30)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	records, _ := s.Load(ctx)
	if len(records) != 1 || records[0].Email != "fresh@example.com" {
		t.Fatalf("unexpected survivors: %+v", records)
	}
}
