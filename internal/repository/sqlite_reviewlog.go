package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/houshuang/alif/internal/db"
	"github.com/houshuang/alif/internal/domain"
)

const reviewLogColumns = `id, lemma_id, rating, is_acquisition_step, pre_review_snapshot,
		session_id, client_review_id, reviewed_at, credit_type`

// SQLiteReviewLogRepo implements ReviewLogRepo using SQLite.
type SQLiteReviewLogRepo struct {
	db db.DBTX
}

// NewSQLiteReviewLogRepo creates a new SQLiteReviewLogRepo.
func NewSQLiteReviewLogRepo(dbtx db.DBTX) *SQLiteReviewLogRepo {
	return &SQLiteReviewLogRepo{db: dbtx}
}

// Append inserts log, relying on the client_review_id UNIQUE constraint for
// idempotency: a replayed id is silently ignored rather than erroring, so
// callers can retry a submit_review call without special-casing it.
func (r *SQLiteReviewLogRepo) Append(ctx context.Context, log *domain.ReviewLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO review_logs (`+reviewLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(client_review_id) DO NOTHING`,
		log.ID, log.LemmaID, string(log.Rating), boolToInt(log.IsAcquisitionStep),
		mustMarshal(log.PreReviewSnapshot), log.SessionID, log.ClientReviewID,
		log.ReviewedAt.Format(timeLayout), string(log.CreditType),
	)
	if err != nil {
		return fmt.Errorf("appending review log: %w", err)
	}
	return nil
}

func (r *SQLiteReviewLogRepo) Exists(ctx context.Context, clientReviewID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM review_logs WHERE client_review_id = ?`, clientReviewID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking review log existence: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteReviewLogRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM review_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting review log: %w", err)
	}
	return nil
}

func (r *SQLiteReviewLogRepo) GetLatestForLemma(ctx context.Context, lemmaID, sessionPrefix string) (*domain.ReviewLog, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reviewLogColumns+` FROM review_logs
		 WHERE lemma_id = ? AND session_id LIKE ?
		 ORDER BY reviewed_at DESC LIMIT 1`,
		lemmaID, sessionPrefix+"%",
	)
	return scanReviewLog(row)
}

func (r *SQLiteReviewLogRepo) ListRecent(ctx context.Context, since time.Time) ([]*domain.ReviewLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewLogColumns+` FROM review_logs WHERE reviewed_at >= ? ORDER BY reviewed_at DESC`,
		since.UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent review logs: %w", err)
	}
	defer rows.Close()
	return scanReviewLogs(rows)
}

func (r *SQLiteReviewLogRepo) ListByLemma(ctx context.Context, lemmaID string) ([]*domain.ReviewLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewLogColumns+` FROM review_logs WHERE lemma_id = ? ORDER BY reviewed_at ASC`, lemmaID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying review logs by lemma: %w", err)
	}
	defer rows.Close()
	return scanReviewLogs(rows)
}

func scanReviewLog(row rowScanner) (*domain.ReviewLog, error) {
	var log domain.ReviewLog
	var rating, creditType string
	var isAcqStep int
	var snapshotJSON string
	var reviewedAt string

	err := row.Scan(&log.ID, &log.LemmaID, &rating, &isAcqStep, &snapshotJSON,
		&log.SessionID, &log.ClientReviewID, &reviewedAt, &creditType)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning review log: %w", err)
	}

	log.Rating = domain.Rating(rating)
	log.CreditType = domain.CreditType(creditType)
	log.IsAcquisitionStep = intToBool(isAcqStep)
	log.ReviewedAt, err = time.Parse(timeLayout, reviewedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing reviewed_at: %w", err)
	}
	if err := mustUnmarshal(snapshotJSON, &log.PreReviewSnapshot); err != nil {
		return nil, fmt.Errorf("decoding pre-review snapshot: %w", err)
	}
	return &log, nil
}

func scanReviewLogs(rows *sql.Rows) ([]*domain.ReviewLog, error) {
	var out []*domain.ReviewLog
	for rows.Next() {
		log, err := scanReviewLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, log)
	}
	return out, rows.Err()
}
