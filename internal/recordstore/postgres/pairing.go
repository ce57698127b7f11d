// internal/recordstore/postgres/pairing.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"reclaim/internal/lostfound"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Pair matches a found item to a lost report. Both conditional updates run
// in one serializable transaction, so either both records carry the pairing
// or neither does.
func (s *Store) Pair(ctx context.Context, foundItemID, caseNumber string) (*lostfound.FoundItem, *lostfound.LostReport, error) {
	const op = "store.pair"

	ctx, span := s.tracer.Start(ctx, "recordstore.pair",
		trace.WithAttributes(
			attribute.String("item.id", foundItemID),
			attribute.String("case.number", caseNumber),
		),
	)
	defer span.End()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, nil, fmt.Errorf("begin pairing: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE found_items SET status = $1, matched_case_number = $2
		 WHERE found_item_id = $3 AND status = $4`,
		string(lostfound.FoundMatched), caseNumber, foundItemID, string(lostfound.FoundLogged),
	)
	if err != nil {
		if isUniqueViolation(err) {
			span.SetAttributes(attribute.Bool("conflict.detected", true))
			return nil, nil, lostfound.Faultf(lostfound.KindAlreadyMatched, op, "case %s already paired", caseNumber)
		}
		return nil, nil, fmt.Errorf("pairing found item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil, classifyPairFailure(ctx, tx, op,
			`SELECT status FROM found_items WHERE found_item_id = $1`, foundItemID, "item")
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE lost_reports SET status = $1, matched_found_item_id = $2
		 WHERE case_number = $3 AND status IN ($4, $5)`,
		string(lostfound.LostMatched), foundItemID, caseNumber,
		string(lostfound.LostReported), string(lostfound.LostFound),
	)
	if err != nil {
		if isUniqueViolation(err) {
			span.SetAttributes(attribute.Bool("conflict.detected", true))
			return nil, nil, lostfound.Faultf(lostfound.KindAlreadyMatched, op, "found item %s already paired", foundItemID)
		}
		return nil, nil, fmt.Errorf("pairing lost report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil, classifyPairFailure(ctx, tx, op,
			`SELECT status FROM lost_reports WHERE case_number = $1`, caseNumber, "case")
	}

	item, err := scanFound(tx.QueryRowContext(ctx,
		`SELECT `+foundColumns+` FROM found_items WHERE found_item_id = $1`, foundItemID))
	if err != nil {
		return nil, nil, fmt.Errorf("reading paired found item: %w", err)
	}
	report, err := scanLost(tx.QueryRowContext(ctx,
		`SELECT `+lostColumns+` FROM lost_reports WHERE case_number = $1`, caseNumber))
	if err != nil {
		return nil, nil, fmt.Errorf("reading paired lost report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit pairing: %w", err)
	}
	return item, report, nil
}

func classifyPairFailure(ctx context.Context, tx *sql.Tx, op, query, id, noun string) error {
	var status string
	err := tx.QueryRowContext(ctx, query, id).Scan(&status)
	if err == sql.ErrNoRows {
		return lostfound.Faultf(lostfound.KindNotFound, op, "%s %s", noun, id)
	}
	if err != nil {
		return fmt.Errorf("classifying pair failure: %w", err)
	}
	return lostfound.Faultf(lostfound.KindAlreadyMatched, op, "%s %s is %s, not eligible", noun, id, status)
}

// ClaimPair claims a found item and, when it is paired, its lost report in
// the same transaction.
func (s *Store) ClaimPair(ctx context.Context, foundItemID string) (*lostfound.FoundItem, *lostfound.LostReport, error) {
	const op = "store.claim_pair"

	ctx, span := s.tracer.Start(ctx, "recordstore.claim_pair",
		trace.WithAttributes(attribute.String("item.id", foundItemID)),
	)
	defer span.End()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, nil, fmt.Errorf("begin claim: %w", err)
	}
	defer tx.Rollback()

	var status string
	var matched sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT status, matched_case_number FROM found_items WHERE found_item_id = $1`,
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
		`UPDATE found_items SET status = $1 WHERE found_item_id = $2 AND status = $3`,
		string(lostfound.FoundClaimed), foundItemID, status,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("claiming found item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		span.SetAttributes(attribute.Bool("conflict.detected", true))
		return nil, nil, lostfound.Faultf(lostfound.KindConflict, op, "item %s changed concurrently", foundItemID)
	}

	var report *lostfound.LostReport
	if matched.Valid && matched.String != "" {
		res, err = tx.ExecContext(ctx,
			`UPDATE lost_reports SET status = $1 WHERE case_number = $2 AND status = $3`,
			string(lostfound.LostClaimed), matched.String, string(lostfound.LostMatched),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("claiming lost report: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, nil, lostfound.Faultf(lostfound.KindConflict, op, "case %s changed concurrently", matched.String)
		}
		report, err = scanLost(tx.QueryRowContext(ctx,
			`SELECT `+lostColumns+` FROM lost_reports WHERE case_number = $1`, matched.String))
		if err != nil {
			return nil, nil, fmt.Errorf("reading claimed lost report: %w", err)
		}
	}

	item, err := scanFound(tx.QueryRowContext(ctx,
		`SELECT `+foundColumns+` FROM found_items WHERE found_item_id = $1`, foundItemID))
	if err != nil {
		return nil, nil, fmt.Errorf("reading claimed found item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit claim: %w", err)
	}
	return item, report, nil
}
