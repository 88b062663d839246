package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"pairaudit/internal/audit"
	"pairaudit/internal/config"
	"pairaudit/internal/gemini"
)

// Store manages audit run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// ErrRunNotFound indicates the requested run does not exist.
var ErrRunNotFound = errors.New("run not found")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes or connects to the results database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.ResultsDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun stores a run summary together with every item of its batch, in
// projection order. The write is transactional.
func (s *Store) SaveRun(ctx context.Context, run Run, items []audit.Item) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, source, created_at, total, completed, errored, matched)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.Source,
			run.CreatedAt.UTC().Format(time.RFC3339Nano),
			run.Total,
			run.Completed,
			run.Errored,
			run.Matched,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for position, item := range items {
			citations, err := marshalCitations(item.Citations)
			if err != nil {
				return fmt.Errorf("marshal citations for %s: %w", item.ID, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_items (
                    run_id, position, item_id, supplier_a, supplier_b, status,
                    is_match, sector_a, sector_b, reasoning, citations_json,
                    error_message, error_reason
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID,
				position,
				item.ID,
				item.SupplierA,
				item.SupplierB,
				string(item.Status),
				boolToInt(item.IsMatch),
				nullableString(item.SectorA),
				nullableString(item.SectorB),
				nullableString(item.Reasoning),
				citations,
				nullableString(item.ErrorMessage),
				nullableString(string(item.ErrorReason)),
			); err != nil {
				return fmt.Errorf("insert run item %s: %w", item.ID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: %w", err)
		}
		return nil
	})
}

// GetRun returns one run summary by ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recently created run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// ListRuns returns run summaries newest first; limit <= 0 means all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunItems returns a run's items in their original projection order.
func (s *Store) RunItems(ctx context.Context, runID string) ([]audit.Item, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, supplier_a, supplier_b, status, is_match,
                sector_a, sector_b, reasoning, citations_json,
                error_message, error_reason
         FROM run_items WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run items: %w", err)
	}
	defer rows.Close()

	var items []audit.Item
	for rows.Next() {
		item, err := scanRunItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run items: %w", err)
	}
	return items, nil
}

// DeleteRun removes a run and its items.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	if err := s.execWithRetry(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

const runColumns = "id, source, created_at, total, completed, errored, matched"

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run        Run
		createdRaw string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Source,
		&createdRaw,
		&run.Total,
		&run.Completed,
		&run.Errored,
		&run.Matched,
	); err != nil {
		return Run{}, err
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = ts
	}
	return run, nil
}

func scanRunItem(scanner interface{ Scan(dest ...any) error }) (audit.Item, error) {
	var (
		item         audit.Item
		statusStr    string
		isMatch      int64
		sectorA      sql.NullString
		sectorB      sql.NullString
		reasoning    sql.NullString
		citationsRaw sql.NullString
		errorMessage sql.NullString
		errorReason  sql.NullString
	)
	if err := scanner.Scan(
		&item.ID,
		&item.SupplierA,
		&item.SupplierB,
		&statusStr,
		&isMatch,
		&sectorA,
		&sectorB,
		&reasoning,
		&citationsRaw,
		&errorMessage,
		&errorReason,
	); err != nil {
		return audit.Item{}, err
	}

	item.Status = audit.Status(statusStr)
	item.IsMatch = isMatch != 0
	item.SectorA = sectorA.String
	item.SectorB = sectorB.String
	item.Reasoning = reasoning.String
	item.ErrorMessage = errorMessage.String
	item.ErrorReason = audit.Reason(errorReason.String)
	if citationsRaw.Valid && citationsRaw.String != "" {
		if err := json.Unmarshal([]byte(citationsRaw.String), &item.Citations); err != nil {
			return audit.Item{}, fmt.Errorf("unmarshal citations: %w", err)
		}
	}
	return item, nil
}

func marshalCitations(citations []gemini.Citation) (any, error) {
	if len(citations) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(citations)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
