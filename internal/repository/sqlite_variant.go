package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/houshuang/alif/internal/db"
	"github.com/houshuang/alif/internal/domain"
)

// SQLiteVariantDecisionRepo implements VariantDecisionRepo using SQLite.
// It is the durable backstop behind the identity resolver's in-process LRU
// cache: an oracle call is only ever paid once per ordered lemma pair.
type SQLiteVariantDecisionRepo struct {
	db db.DBTX
}

// NewSQLiteVariantDecisionRepo creates a new SQLiteVariantDecisionRepo.
func NewSQLiteVariantDecisionRepo(dbtx db.DBTX) *SQLiteVariantDecisionRepo {
	return &SQLiteVariantDecisionRepo{db: dbtx}
}

func (r *SQLiteVariantDecisionRepo) Get(ctx context.Context, lemmaAID, lemmaBID string) (*domain.VariantDecision, error) {
	a, b := domain.OrderedPairKey(lemmaAID, lemmaBID)
	row := r.db.QueryRowContext(ctx,
		`SELECT lemma_a_id, lemma_b_id, verdict, decided_at FROM variant_decisions
		 WHERE lemma_a_id = ? AND lemma_b_id = ?`, a, b,
	)

	var d domain.VariantDecision
	var verdict, decidedAt string
	err := row.Scan(&d.LemmaAID, &d.LemmaBID, &verdict, &decidedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning variant decision: %w", err)
	}
	d.Verdict = domain.VariantVerdict(verdict)
	d.DecidedAt, err = time.Parse(timeLayout, decidedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing variant decision decided_at: %w", err)
	}
	return &d, nil
}

func (r *SQLiteVariantDecisionRepo) Put(ctx context.Context, d *domain.VariantDecision) error {
	a, b := domain.OrderedPairKey(d.LemmaAID, d.LemmaBID)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO variant_decisions (lemma_a_id, lemma_b_id, verdict, decided_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(lemma_a_id, lemma_b_id) DO UPDATE SET verdict = excluded.verdict, decided_at = excluded.decided_at`,
		a, b, string(d.Verdict), d.DecidedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storing variant decision: %w", err)
	}
	return nil
}
