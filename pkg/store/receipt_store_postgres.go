package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/jeantrail/kernel/pkg/contracts"
)

// PostgresReceiptStore persists receipts in Postgres for deployments
// where multiple kernel instances share one evidence trail.
type PostgresReceiptStore struct {
	db *sql.DB
}

// NewPostgresReceiptStore wraps an existing handle (also used by tests
// with sqlmock). Migration is the caller's concern in managed schemas;
// EnsureSchema is provided for self-managed ones.
func NewPostgresReceiptStore(db *sql.DB) *PostgresReceiptStore {
	return &PostgresReceiptStore{db: db}
}

// OpenPostgresReceiptStore connects using a lib/pq DSN.
func OpenPostgresReceiptStore(dsn string) (*PostgresReceiptStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &PostgresReceiptStore{db: db}, nil
}

// EnsureSchema creates the receipts table if missing.
func (s *PostgresReceiptStore) EnsureSchema(ctx context.Context) error {
	query := `
    CREATE TABLE IF NOT EXISTS receipts (
        receipt_id TEXT PRIMARY KEY,
        timestamp TIMESTAMPTZ,
        mode TEXT,
        status TEXT,
        action TEXT,
        tool_id TEXT,
        reversible BOOLEAN NOT NULL DEFAULT FALSE,
        report TEXT,
        metadata JSONB
    );`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresReceiptStore) Store(ctx context.Context, r *contracts.ExecutionReceipt) error {
	metaJSON, _ := json.Marshal(r.Metadata)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO receipts (receipt_id, timestamp, mode, status, action, tool_id, reversible, report, metadata)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.Timestamp.UTC(), string(r.Mode), string(r.Status), string(r.Action),
		r.ToolID, r.Reversible, r.Report, string(metaJSON),
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

func (s *PostgresReceiptStore) Get(ctx context.Context, receiptID string) (*contracts.ExecutionReceipt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT receipt_id, timestamp, mode, status, action, tool_id, reversible, report, metadata
         FROM receipts WHERE receipt_id = $1`, receiptID)

	r, err := scanPostgresReceipt(row)
	if err == sql.ErrNoRows {
		return nil, ErrReceiptNotFound
	}
	return r, err
}

func (s *PostgresReceiptStore) List(ctx context.Context, limit int) ([]*contracts.ExecutionReceipt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT receipt_id, timestamp, mode, status, action, tool_id, reversible, report, metadata
         FROM receipts ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var receipts []*contracts.ExecutionReceipt
	for rows.Next() {
		r, err := scanPostgresReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

// Close closes the underlying handle.
func (s *PostgresReceiptStore) Close() error {
	return s.db.Close()
}

func scanPostgresReceipt(row rowScanner) (*contracts.ExecutionReceipt, error) {
	var (
		id, mode, status       string
		timestamp              time.Time
		action, toolID, report sql.NullString
		reversible             bool
		metaJSON               sql.NullString
	)
	if err := row.Scan(&id, &timestamp, &mode, &status, &action, &toolID, &reversible, &report, &metaJSON); err != nil {
		return nil, err
	}

	var meta map[string]any
	if metaJSON.Valid && metaJSON.String != "" && metaJSON.String != "null" {
		_ = json.Unmarshal([]byte(metaJSON.String), &meta)
	}
	return &contracts.ExecutionReceipt{
		ID:         id,
		Timestamp:  timestamp,
		Mode:       contracts.ReceiptMode(mode),
		Status:     contracts.ReceiptStatus(status),
		Action:     contracts.Action(action.String),
		ToolID:     toolID.String,
		Reversible: reversible,
		Report:     report.String,
		Metadata:   meta,
	}, nil
}
