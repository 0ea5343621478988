package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jeantrail/kernel/pkg/contracts"
)

// SQLiteReceiptStore persists receipts in SQLite for single-node
// deployments that need evidence to survive a restart.
type SQLiteReceiptStore struct {
	db *sql.DB
}

// NewSQLiteReceiptStore migrates the schema and wraps the handle.
func NewSQLiteReceiptStore(db *sql.DB) (*SQLiteReceiptStore, error) {
	s := &SQLiteReceiptStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenSQLiteReceiptStore opens (or creates) the database at path.
func OpenSQLiteReceiptStore(path string) (*SQLiteReceiptStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return NewSQLiteReceiptStore(db)
}

func (s *SQLiteReceiptStore) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS receipts (
        receipt_id TEXT PRIMARY KEY,
        timestamp DATETIME,
        mode TEXT,
        status TEXT,
        action TEXT,
        tool_id TEXT,
        reversible INTEGER NOT NULL DEFAULT 0,
        report TEXT,
        metadata JSON
    );`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

func (s *SQLiteReceiptStore) Store(ctx context.Context, r *contracts.ExecutionReceipt) error {
	metaJSON, _ := json.Marshal(r.Metadata)
	timestamp := r.Timestamp.UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO receipts (receipt_id, timestamp, mode, status, action, tool_id, reversible, report, metadata)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, timestamp, string(r.Mode), string(r.Status), string(r.Action),
		r.ToolID, boolToInt(r.Reversible), r.Report, string(metaJSON),
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

func (s *SQLiteReceiptStore) Get(ctx context.Context, receiptID string) (*contracts.ExecutionReceipt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT receipt_id, timestamp, mode, status, action, tool_id, reversible, report, metadata
         FROM receipts WHERE receipt_id = ?`, receiptID)
	r, err := scanReceipt(row)
	if err == sql.ErrNoRows {
		return nil, ErrReceiptNotFound
	}
	return r, err
}

func (s *SQLiteReceiptStore) List(ctx context.Context, limit int) ([]*contracts.ExecutionReceipt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT receipt_id, timestamp, mode, status, action, tool_id, reversible, report, metadata
         FROM receipts ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var receipts []*contracts.ExecutionReceipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

// Close closes the underlying handle.
func (s *SQLiteReceiptStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (*contracts.ExecutionReceipt, error) {
	var (
		id, timestamp, mode, status string
		action, toolID, report      sql.NullString
		reversible                  int
		metaJSON                    sql.NullString
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
		Timestamp:  parseTime(timestamp),
		Mode:       contracts.ReceiptMode(mode),
		Status:     contracts.ReceiptStatus(status),
		Action:     contracts.Action(action.String),
		ToolID:     toolID.String,
		Reversible: reversible != 0,
		Report:     report.String,
		Metadata:   meta,
	}, nil
}

func parseTime(value string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
