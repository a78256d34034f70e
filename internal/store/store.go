// Package store persists anonymization run records in SQLite for audit.
//
// Each Anonymize call — CLI or HTTP — produces a Record holding the input
// hash, detection statistics, and the reversible placeholder mapping. The
// original text is never stored; the SHA-256 hash is enough to correlate a
// run with a document without retaining its content.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/anonymize"
	docotel "github.com/RohanPatil7777/Document-Anonymizer/internal/otel"
)

var tracer = docotel.Tracer("github.com/RohanPatil7777/Document-Anonymizer/internal/store")

// ErrNotFound is returned when a run record does not exist.
var ErrNotFound = errors.New("run record not found")

// Store persists run records in SQLite.
type Store struct {
	db *sql.DB
}

// Record is the audit record for one anonymization run.
type Record struct {
	ID            string            `json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	Recognizer    string            `json:"recognizer"`
	Model         string            `json:"model,omitempty"`
	InputHash     string            `json:"input_hash"`
	InputChars    int               `json:"input_chars"`
	TotalEntities int               `json:"total_entities"`
	ByCategory    map[string]int    `json:"by_category"`
	Mapping       map[string]string `json:"entity_mapping"`
}

// NewRecord builds a run record from a result. The input text contributes
// only its hash and length.
func NewRecord(input, recognizer, model string, res *anonymize.Result) *Record {
	return &Record{
		ID:            uuid.New().String(),
		CreatedAt:     time.Now().UTC(),
		Recognizer:    recognizer,
		Model:         model,
		InputHash:     HashInput(input),
		InputChars:    len(input),
		TotalEntities: res.Statistics.TotalEntities,
		ByCategory:    res.Statistics.ByCategory,
		Mapping:       res.EntityMapping,
	}
}

// HashInput returns the hex SHA-256 of the document text.
func HashInput(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// NewStore opens (creating if needed) the runs database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening runs database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		recognizer TEXT NOT NULL,
		input_hash TEXT NOT NULL,
		total_entities INTEGER NOT NULL,
		record_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(input_hash);
	`

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		return nil, fmt.Errorf("creating runs schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a run record.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	ctx, span := tracer.Start(ctx, "store.save",
		trace.WithAttributes(attribute.String("run.id", rec.ID)))
	defer span.End()

	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling run record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, recognizer, input_hash, total_entities, record_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt, rec.Recognizer, rec.InputHash, rec.TotalEntities, string(blob))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("inserting run record: %w", err)
	}
	return nil
}

// Get returns one run record by ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	ctx, span := tracer.Start(ctx, "store.get",
		trace.WithAttributes(attribute.String("run.id", id)))
	defer span.End()

	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT record_json FROM runs WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying run record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling run record: %w", err)
	}
	return &rec, nil
}

// List returns the most recent run records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*Record, error) {
	ctx, span := tracer.Start(ctx, "store.list",
		trace.WithAttributes(attribute.Int("run.limit", limit)))
	defer span.End()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record_json FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing run records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scanning run record: %w", err)
		}
		var rec Record
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			return nil, fmt.Errorf("unmarshalling run record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
