package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/talentscout/screener/pkg/models"
	"github.com/talentscout/screener/pkg/repository"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS candidates (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	experience_years INTEGER NOT NULL DEFAULT 0,
	desired_position TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	tech_stack TEXT NOT NULL DEFAULT '[]',
	tech_stack_raw TEXT NOT NULL DEFAULT '',
	technical_questions TEXT NOT NULL DEFAULT '[]',
	technical_responses TEXT NOT NULL DEFAULT '{}',
	session_completed INTEGER NOT NULL DEFAULT 0,
	anonymized INTEGER NOT NULL DEFAULT 0,
	anonymized_date TEXT NOT NULL DEFAULT '',
	timestamp TEXT NOT NULL DEFAULT '',
	last_updated TEXT NOT NULL DEFAULT '',
	completion_time TEXT NOT NULL DEFAULT ''
);
`

// SQLiteStore is the transactional alternative to the flat-file backend.
// The contract is identical: records keyed by the email-derived id, upsert
// replacing the whole record.
type SQLiteStore struct {
	conn   *sql.DB
	logger *slog.Logger
}

var _ repository.CandidateStore = (*SQLiteStore)(nil)

func NewSQLiteStore(ctx context.Context, dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{conn: conn, logger: logger}, nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

const candidateColumns = `id, name, email, phone, experience_years, desired_position, location,
	tech_stack, tech_stack_raw, technical_questions, technical_responses,
	session_completed, anonymized, anonymized_date, timestamp, last_updated, completion_time`

func scanCandidate(row interface{ Scan(...any) error }) (*models.CandidateRecord, error) {
	var rec models.CandidateRecord
	var techStack, questions, responses string
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Email, &rec.Phone, &rec.ExperienceYears,
		&rec.DesiredPosition, &rec.Location, &techStack, &rec.TechStackRaw,
		&questions, &responses, &rec.SessionCompleted, &rec.Anonymized,
		&rec.AnonymizedDate, &rec.Timestamp, &rec.LastUpdated, &rec.CompletionTime,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(techStack), &rec.TechStack); err != nil {
		return nil, fmt.Errorf("decode tech_stack: %w", err)
	}
	if err := json.Unmarshal([]byte(questions), &rec.TechnicalQuestions); err != nil {
		return nil, fmt.Errorf("decode technical_questions: %w", err)
	}
	if err := json.Unmarshal([]byte(responses), &rec.TechnicalResponses); err != nil {
		return nil, fmt.Errorf("decode technical_responses: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]models.CandidateRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY timestamp`)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	out := []models.CandidateRecord{}
	for rows.Next() {
		rec, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.CandidateRecord, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id)
	rec, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return rec, err
}

func (s *SQLiteStore) Upsert(ctx context.Context, rec *models.CandidateRecord) (string, error) {
	id := models.CandidateID(rec.Email)
	rec.ID = id
	rec.LastUpdated = models.Now()
	if rec.Timestamp == "" {
		rec.Timestamp = models.Now()
	}

	techStack, _ := json.Marshal(emptyIfNil(rec.TechStack))
	questions, _ := json.Marshal(emptyIfNil(rec.TechnicalQuestions))
	responses, _ := json.Marshal(rec.TechnicalResponses)
	if rec.TechnicalResponses == nil {
		responses = []byte("{}")
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO candidates (`+candidateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, email = excluded.email, phone = excluded.phone,
			experience_years = excluded.experience_years,
			desired_position = excluded.desired_position, location = excluded.location,
			tech_stack = excluded.tech_stack, tech_stack_raw = excluded.tech_stack_raw,
			technical_questions = excluded.technical_questions,
			technical_responses = excluded.technical_responses,
			session_completed = excluded.session_completed,
			anonymized = excluded.anonymized, anonymized_date = excluded.anonymized_date,
			last_updated = excluded.last_updated,
			completion_time = excluded.completion_time`,
		rec.ID, rec.Name, rec.Email, rec.Phone, rec.ExperienceYears,
		rec.DesiredPosition, rec.Location, string(techStack), rec.TechStackRaw,
		string(questions), string(responses), rec.SessionCompleted, rec.Anonymized,
		rec.AnonymizedDate, rec.Timestamp, rec.LastUpdated, rec.CompletionTime,
	)
	if err != nil {
		return "", fmt.Errorf("upsert candidate: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) AppendResponses(ctx context.Context, id string, responses map[string]string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT technical_responses FROM candidates WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read responses: %w", err)
	}

	merged := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		merged = map[string]string{}
	}
	for k, v := range responses {
		merged[k] = v
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE candidates SET technical_responses = ?, last_updated = ? WHERE id = ?`,
		string(data), models.Now(), id); err != nil {
		return fmt.Errorf("update responses: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) MarkComplete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE candidates
		SET session_completed = 1,
		    completion_time = CASE WHEN completion_time = '' THEN ? ELSE completion_time END
		WHERE id = ?`, models.Now(), id)
	if err != nil {
		return fmt.Errorf("mark complete: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return err
}

func (s *SQLiteStore) Anonymize(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE candidates
		SET name = ?, email = ?, phone = 'XXX-XXX-XXXX', anonymized = 1, anonymized_date = ?
		WHERE id = ?`,
		fmt.Sprintf("Candidate_%s", id), fmt.Sprintf("candidate_%s@anonymous.com", id),
		models.Now(), id)
	if err != nil {
		return fmt.Errorf("anonymize: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return err
}

func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, days int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM candidates WHERE timestamp != '' AND timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
