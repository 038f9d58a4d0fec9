package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ecetin/invoice-audit/constants"
)

// Run is one processed document's outcome as recorded in the run history.
type Run struct {
	ID          int64
	Filename    string
	PDFType     constants.PDFType
	Method      string
	Pages       int
	Status      constants.RunStatus
	HealthScore int
	PricePass   bool
	POPass      bool
	Error       string
	CreatedAt   time.Time
}

// RunStore persists per-document run history in SQLite.
type RunStore struct {
	db *sql.DB
}

// NewRunStore opens (or creates) the run-history database at dbPath.
func NewRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &RunStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *RunStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL,
		pdf_type TEXT,
		method TEXT,
		pages INTEGER,
		status TEXT NOT NULL,
		health_score INTEGER,
		price_pass INTEGER,
		po_pass INTEGER,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_filename ON runs(filename);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record appends one run to the history.
func (s *RunStore) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (filename, pdf_type, method, pages, status, health_score, price_pass, po_pass, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Filename, string(run.PDFType), run.Method, run.Pages, string(run.Status),
		run.HealthScore, boolToInt(run.PricePass), boolToInt(run.POPass), run.Error)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRuns returns the recorded runs, most recent first.
func (s *RunStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, pdf_type, method, pages, status, health_score, price_pass, po_pass, error, created_at
		FROM runs
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			pdfType, status   string
			pricePass, poPass int
			createdAt         string
		)
		if err := rows.Scan(&r.ID, &r.Filename, &pdfType, &r.Method, &r.Pages, &status,
			&r.HealthScore, &pricePass, &poPass, &r.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.PDFType = constants.PDFType(pdfType)
		r.Status = constants.RunStatus(status)
		r.PricePass = pricePass != 0
		r.POPass = poPass != 0
		r.CreatedAt = parseSQLiteTime(createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *RunStore) Close() error {
	return s.db.Close()
}

// parseSQLiteTime handles the layouts CURRENT_TIMESTAMP may produce.
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
