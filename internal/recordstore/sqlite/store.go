// internal/recordstore/sqlite/store.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"reclaim/internal/lostfound"
	"reclaim/internal/recordstore"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// schema is the full record-store schema. The partial unique indexes on the
// pairing columns back the 1:1 matching invariant below the application
// checks, so a racing second pairing loses at the SQL layer.
const schema = `
CREATE TABLE IF NOT EXISTS lost_reports (
    case_number           TEXT PRIMARY KEY,
    reporter_id           TEXT NOT NULL,
    item_name             TEXT NOT NULL,
    item_type             TEXT NOT NULL,
    item_color            TEXT NOT NULL DEFAULT '',
    brand                 TEXT NOT NULL DEFAULT '',
    description           TEXT NOT NULL DEFAULT '',
    last_seen_date        DATETIME NOT NULL,
    last_seen_location    TEXT NOT NULL DEFAULT '',
    status                TEXT NOT NULL,
    date_reported         DATETIME NOT NULL,
    matched_found_item_id TEXT,
    archived_at           DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_lost_reports_matched
    ON lost_reports(matched_found_item_id) WHERE matched_found_item_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS found_items (
    found_item_id       TEXT PRIMARY KEY,
    item_name           TEXT NOT NULL,
    item_color          TEXT NOT NULL DEFAULT '',
    found_date          DATETIME NOT NULL,
    found_location      TEXT NOT NULL DEFAULT '',
    description         TEXT NOT NULL DEFAULT '',
    custodian_office_id TEXT NOT NULL,
    status              TEXT NOT NULL,
    matched_case_number TEXT,
    disposition         TEXT NOT NULL DEFAULT '',
    archived_at         DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_found_items_matched
    ON found_items(matched_case_number) WHERE matched_case_number IS NOT NULL;

CREATE TABLE IF NOT EXISTS notifications (
    notification_id   TEXT PRIMARY KEY,
    recipient_user_id TEXT NOT NULL,
    case_number       TEXT NOT NULL,
    type              TEXT NOT NULL,
    message           TEXT NOT NULL DEFAULT '',
    date              DATETIME NOT NULL,
    status            TEXT NOT NULL DEFAULT 'unread'
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient
    ON notifications(recipient_user_id, date);
`

// Store is the embedded record store. It satisfies recordstore.Store and
// also backs the test suite via an in-memory database.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// An in-memory database exists per connection, and concurrent writers
	// would otherwise trip SQLITE_BUSY; a single pooled connection serves
	// both cases.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

const lostColumns = `case_number, reporter_id, item_name, item_type, item_color, brand,
	description, last_seen_date, last_seen_location, status, date_reported,
	matched_found_item_id, archived_at`

func scanLost(row interface{ Scan(...interface{}) error }) (*lostfound.LostReport, error) {
	r := &lostfound.LostReport{}
	var matched sql.NullString
	var archived sql.NullTime
	err := row.Scan(&r.CaseNumber, &r.ReporterID, &r.ItemName, &r.ItemType, &r.ItemColor,
		&r.Brand, &r.Description, &r.LastSeenDate, &r.LastSeenLocation, &r.Status,
		&r.DateReported, &matched, &archived)
	if err != nil {
		return nil, err
	}
	r.MatchedFoundItemID = matched.String
	if archived.Valid {
		t := archived.Time
		r.ArchivedAt = &t
	}
	return r, nil
}

const foundColumns = `found_item_id, item_name, item_color, found_date, found_location,
	description, custodian_office_id, status, matched_case_number, disposition, archived_at`

func scanFound(row interface{ Scan(...interface{}) error }) (*lostfound.FoundItem, error) {
	f := &lostfound.FoundItem{}
	var matched sql.NullString
	var archived sql.NullTime
	err := row.Scan(&f.FoundItemID, &f.ItemName, &f.ItemColor, &f.FoundDate, &f.FoundLocation,
		&f.Description, &f.CustodianOfficeID, &f.Status, &matched, &f.Disposition, &archived)
	if err != nil {
		return nil, err
	}
	f.MatchedCaseNumber = matched.String
	if archived.Valid {
		t := archived.Time
		f.ArchivedAt = &t
	}
	return f, nil
}

// CreateLostReport inserts a new report.
func (s *Store) CreateLostReport(ctx context.Context, r *lostfound.LostReport) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lost_reports (`+lostColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?)`,
		r.CaseNumber, r.ReporterID, r.ItemName, r.ItemType, r.ItemColor, r.Brand,
		r.Description, r.LastSeenDate, r.LastSeenLocation, r.Status, r.DateReported,
		r.MatchedFoundItemID, r.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("creating lost report: %w", err)
	}
	return nil
}

// GetLostReport returns a report by case number.
func (s *Store) GetLostReport(ctx context.Context, caseNumber string) (*lostfound.LostReport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+lostColumns+` FROM lost_reports WHERE case_number = ?`, caseNumber)
	r, err := scanLost(row)
	if err == sql.ErrNoRows {
		return nil, lostfound.Faultf(lostfound.KindNotFound, "store.get_lost_report", "case %s", caseNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("getting lost report: %w", err)
	}
	return r, nil
}

// ListLostReportsByReporter returns a reporter's reports, newest first.
func (s *Store) ListLostReportsByReporter(ctx context.Context, reporterID string) ([]lostfound.LostReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+lostColumns+` FROM lost_reports WHERE reporter_id = ? ORDER BY date_reported DESC, case_number`,
		reporterID)
	if err != nil {
		return nil, fmt.Errorf("listing lost reports: %w", err)
	}
	defer rows.Close()

	var reports []lostfound.LostReport
	for rows.Next() {
		r, err := scanLost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lost report: %w", err)
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

func statusPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// TransitionLost applies a conditional status update.
func (s *Store) TransitionLost(ctx context.Context, caseNumber string, from []lostfound.LostStatus, to lostfound.LostStatus, patch recordstore.LostPatch) (*lostfound.LostReport, error) {
	const op = "store.transition_lost"

	args := []interface{}{string(to), patch.ClearMatched, patch.ArchivedAt, caseNumber}
	for _, st := range from {
		args = append(args, string(st))
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE lost_reports
		 SET status = ?,
		     matched_found_item_id = CASE WHEN ? THEN NULL ELSE matched_found_item_id END,
		     archived_at = COALESCE(?, archived_at)
		 WHERE case_number = ? AND status IN (`+statusPlaceholders(len(from))+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("transitioning lost report: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("transitioning lost report: %w", err)
	}
	if n == 0 {
		// Distinguish a missing record from one whose status moved under us.
		if _, err := s.GetLostReport(ctx, caseNumber); err != nil {
			return nil, err
		}
		return nil, lostfound.Faultf(lostfound.KindConflict, op, "case %s changed concurrently", caseNumber)
	}

	return s.GetLostReport(ctx, caseNumber)
}

// DeleteLostReport hard-deletes a report under its preconditions.
func (s *Store) DeleteLostReport(ctx context.Context, caseNumber string, from []lostfound.LostStatus) error {
	const op = "store.delete_lost_report"

	args := []interface{}{caseNumber}
	for _, st := range from {
		args = append(args, string(st))
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM lost_reports
		 WHERE case_number = ? AND matched_found_item_id IS NULL
		   AND status IN (`+statusPlaceholders(len(from))+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("deleting lost report: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting lost report: %w", err)
	}
	if n == 0 {
		if _, err := s.GetLostReport(ctx, caseNumber); err != nil {
			return err
		}
		return lostfound.Faultf(lostfound.KindDependencyExists, op, "case %s is matched or not deletable", caseNumber)
	}
	return nil
}

// CreateFoundItem inserts a new found item.
func (s *Store) CreateFoundItem(ctx context.Context, f *lostfound.FoundItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO found_items (`+foundColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?)`,
		f.FoundItemID, f.ItemName, f.ItemColor, f.FoundDate, f.FoundLocation,
		f.Description, f.CustodianOfficeID, f.Status, f.MatchedCaseNumber,
		f.Disposition, f.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("creating found item: %w", err)
	}
	return nil
}

// GetFoundItem returns a found item by id.
func (s *Store) GetFoundItem(ctx context.Context, foundItemID string) (*lostfound.FoundItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+foundColumns+` FROM found_items WHERE found_item_id = ?`, foundItemID)
	f, err := scanFound(row)
	if err == sql.ErrNoRows {
		return nil, lostfound.Faultf(lostfound.KindNotFound, "store.get_found_item", "item %s", foundItemID)
	}
	if err != nil {
		return nil, fmt.Errorf("getting found item: %w", err)
	}
	return f, nil
}

func (s *Store) listFound(ctx context.Context, where string, arg interface{}) ([]lostfound.FoundItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+foundColumns+` FROM found_items WHERE `+where+` ORDER BY found_date DESC, found_item_id`, arg)
	if err != nil {
		return nil, fmt.Errorf("listing found items: %w", err)
	}
	defer rows.Close()

	var items []lostfound.FoundItem
	for rows.Next() {
		f, err := scanFound(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning found item: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// ListFoundItemsByOffice returns items held by one custodian office.
func (s *Store) ListFoundItemsByOffice(ctx context.Context, officeID string) ([]lostfound.FoundItem, error) {
	return s.listFound(ctx, `custodian_office_id = ?`, officeID)
}

// ListFoundItemsByStatus returns items in the given status.
func (s *Store) ListFoundItemsByStatus(ctx context.Context, status lostfound.FoundStatus) ([]lostfound.FoundItem, error) {
	return s.listFound(ctx, `status = ?`, string(status))
}

// TransitionFound applies a conditional status update.
func (s *Store) TransitionFound(ctx context.Context, foundItemID string, from []lostfound.FoundStatus, to lostfound.FoundStatus, patch recordstore.FoundPatch) (*lostfound.FoundItem, error) {
	const op = "store.transition_found"

	args := []interface{}{string(to), patch.ClearMatched, patch.Disposition, patch.Disposition, patch.ArchivedAt, foundItemID}
	for _, st := range from {
		args = append(args, string(st))
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE found_items
		 SET status = ?,
		     matched_case_number = CASE WHEN ? THEN NULL ELSE matched_case_number END,
		     disposition = CASE WHEN ? != '' THEN ? ELSE disposition END,
		     archived_at = COALESCE(?, archived_at)
		 WHERE found_item_id = ? AND status IN (`+statusPlaceholders(len(from))+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("transitioning found item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("transitioning found item: %w", err)
	}
	if n == 0 {
		if _, err := s.GetFoundItem(ctx, foundItemID); err != nil {
			return nil, err
		}
		return nil, lostfound.Faultf(lostfound.KindConflict, op, "item %s changed concurrently", foundItemID)
	}

	return s.GetFoundItem(ctx, foundItemID)
}
