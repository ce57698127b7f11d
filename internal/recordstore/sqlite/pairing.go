// internal/recordstore/sqlite/pairing.go
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"reclaim/internal/lostfound"
)

// Pair matches a found item to a lost report inside a single transaction.
// Both conditional updates must take effect or neither does.
func (s *Store) Pair(ctx context.Context, foundItemID, caseNumber string) (*lostfound.FoundItem, *lostfound.LostReport, error) {
	const op = "store.pair"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin pairing: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE found_items SET status = ?, matched_case_number = ?
		 WHERE found_item_id = ? AND status = ?`,
		string(lostfound.FoundMatched), caseNumber, foundItemID, string(lostfound.FoundLogged),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, lostfound.Faultf(lostfound.KindAlreadyMatched, op, "case %s already paired", caseNumber)
		}
		return nil, nil, fmt.Errorf("pairing found item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil, classifyFoundPairFailure(ctx, tx, op, foundItemID)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE lost_reports SET status = ?, matched_found_item_id = ?
		 WHERE case_number = ? AND status IN (?, ?)`,
		string(lostfound.LostMatched), foundItemID, caseNumber,
		string(lostfound.LostReported), string(lostfound.LostFound),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, lostfound.Faultf(lostfound.KindAlreadyMatched, op, "found item %s already paired", foundItemID)
		}
		return nil, nil, fmt.Errorf("pairing lost report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil, classifyLostPairFailure(ctx, tx, op, caseNumber)
	}

	item, err := scanFound(tx.QueryRowContext(ctx,
		`SELECT `+foundColumns+` FROM found_items WHERE found_item_id = ?`, foundItemID))
	if err != nil {
		return nil, nil, fmt.Errorf("reading paired found item: %w", err)
	}
	report, err := scanLost(tx.QueryRowContext(ctx,
		`SELECT `+lostColumns+` FROM lost_reports WHERE case_number = ?`, caseNumber))
	if err != nil {
		return nil, nil, fmt.Errorf("reading paired lost report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit pairing: %w", err)
	}
	return item, report, nil
}

func classifyFoundPairFailure(ctx context.Context, tx *sql.Tx, op, foundItemID string) error {
	var status string
	err := tx.QueryRowContext(ctx,
		`SELECT status FROM found_items WHERE found_item_id = ?`, foundItemID).Scan(&status)
	if err == sql.ErrNoRows {
		return lostfound.Faultf(lostfound.KindNotFound, op, "item %s", foundItemID)
	}
	if err != nil {
		return fmt.Errorf("classifying pair failure: %w", err)
	}
	return lostfound.Faultf(lostfound.KindAlreadyMatched, op, "item %s is %s, not eligible", foundItemID, status)
}

func classifyLostPairFailure(ctx context.Context, tx *sql.Tx, op, caseNumber string) error {
	var status string
	err := tx.QueryRowContext(ctx,
		`SELECT status FROM lost_reports WHERE case_number = ?`, caseNumber).Scan(&status)
	if err == sql.ErrNoRows {
		return lostfound.Faultf(lostfound.KindNotFound, op, "case %s", caseNumber)
	}
	if err != nil {
		return fmt.Errorf("classifying pair failure: %w", err)
	}
	return lostfound.Faultf(lostfound.KindAlreadyMatched, op, "case %s is %s, not eligible", caseNumber, status)
}

// ClaimPair claims a found item and, when it is paired, its lost report in
// the same transaction. The report return is nil for an unpaired item.
func (s *Store) ClaimPair(ctx context.Context, foundItemID string) (*lostfound.FoundItem, *lostfound.LostReport, error) {
	const op = "store.claim_pair"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin claim: %w", err)
	}
	defer tx.Rollback()

	var status string
	var matched sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT status, matched_case_number FROM found_items WHERE found_item_id = ?`,
		foundItemID).Scan(&status, &matched)
	if err == sql.ErrNoRows {
		return nil, nil, lostfound.Faultf(lostfound.KindNotFound, op, "item %s", foundItemID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading found item: %w", err)
	}

	if !lostfound.FoundCanTransition(lostfound.FoundStatus(status), lostfound.FoundClaimed) {
		return nil, nil, lostfound.Faultf(lostfound.KindInvalidTransition, op, "item %s is %s", foundItemID, status)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE found_items SET status = ? WHERE found_item_id = ? AND status = ?`,
		string(lostfound.FoundClaimed), foundItemID, status,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("claiming found item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil, lostfound.Faultf(lostfound.KindConflict, op, "item %s changed concurrently", foundItemID)
	}

	var report *lostfound.LostReport
	if matched.Valid && matched.String != "" {
		res, err = tx.ExecContext(ctx,
			`UPDATE lost_reports SET status = ? WHERE case_number = ? AND status = ?`,
			string(lostfound.LostClaimed), matched.String, string(lostfound.LostMatched),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("claiming lost report: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, nil, lostfound.Faultf(lostfound.KindConflict, op, "case %s changed concurrently", matched.String)
		}
		report, err = scanLost(tx.QueryRowContext(ctx,
			`SELECT `+lostColumns+` FROM lost_reports WHERE case_number = ?`, matched.String))
		if err != nil {
			return nil, nil, fmt.Errorf("reading claimed lost report: %w", err)
		}
	}

	item, err := scanFound(tx.QueryRowContext(ctx,
		`SELECT `+foundColumns+` FROM found_items WHERE found_item_id = ?`, foundItemID))
	if err != nil {
		return nil, nil, fmt.Errorf("reading claimed found item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit claim: %w", err)
	}
	return item, report, nil
}
