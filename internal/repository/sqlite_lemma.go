package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/houshuang/alif/internal/db"
	"github.com/houshuang/alif/internal/domain"
)

const lemmaColumns = `id, bare, diacritized, pos, root_id, gloss, frequency_rank,
		cefr_band, category, inflected_forms, canonical_lemma_id`

// SQLiteLemmaRepo implements LemmaRepo using SQLite.
type SQLiteLemmaRepo struct {
	db db.DBTX
}

// NewSQLiteLemmaRepo creates a new SQLiteLemmaRepo.
func NewSQLiteLemmaRepo(dbtx db.DBTX) *SQLiteLemmaRepo {
	return &SQLiteLemmaRepo{db: dbtx}
}

func (r *SQLiteLemmaRepo) Create(ctx context.Context, l *domain.Lemma) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lemmas (`+lemmaColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Bare, l.Diacritized, l.POS, nullableStringToValue(l.RootID), l.Gloss,
		nullableIntToValue(l.FrequencyRank), l.CEFRBand, string(l.Category),
		mustMarshal(l.InflectedForms), nullableStringToValue(l.CanonicalLemmaID),
	)
	if err != nil {
		return fmt.Errorf("inserting lemma: %w", err)
	}
	return nil
}

func (r *SQLiteLemmaRepo) Update(ctx context.Context, l *domain.Lemma) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE lemmas SET bare = ?, diacritized = ?, pos = ?, root_id = ?, gloss = ?,
			frequency_rank = ?, cefr_band = ?, category = ?, inflected_forms = ?,
			canonical_lemma_id = ? WHERE id = ?`,
		l.Bare, l.Diacritized, l.POS, nullableStringToValue(l.RootID), l.Gloss,
		nullableIntToValue(l.FrequencyRank), l.CEFRBand, string(l.Category),
		mustMarshal(l.InflectedForms), nullableStringToValue(l.CanonicalLemmaID), l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating lemma: %w", err)
	}
	return nil
}

func (r *SQLiteLemmaRepo) GetByID(ctx context.Context, id string) (*domain.Lemma, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+lemmaColumns+` FROM lemmas WHERE id = ?`, id)
	return scanLemma(row)
}

func (r *SQLiteLemmaRepo) GetByBare(ctx context.Context, bare string) (*domain.Lemma, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+lemmaColumns+` FROM lemmas WHERE bare = ?`, bare)
	return scanLemma(row)
}

// GetByInflectedForm scans the inflected_forms JSON column for surface.
// The inflected-forms index is small per lemma and queried only on the
// identity resolver's slow path, so a LIKE prefilter followed by an
// in-process exact check is simpler than a separate forms table.
func (r *SQLiteLemmaRepo) GetByInflectedForm(ctx context.Context, surface string) (*domain.Lemma, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lemmaColumns+` FROM lemmas WHERE inflected_forms LIKE ?`,
		"%"+escapeLike(surface)+"%")
	if err != nil {
		return nil, fmt.Errorf("querying inflected form candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		lemma, err := scanLemma(rows)
		if err != nil {
			return nil, err
		}
		for _, form := range lemma.InflectedForms {
			if form.Surface == surface {
				return lemma, nil
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNotFound
}

func (r *SQLiteLemmaRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Lemma, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(ids)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lemmaColumns+` FROM lemmas WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying lemmas by ids: %w", err)
	}
	defer rows.Close()
	return scanLemmas(rows)
}

func (r *SQLiteLemmaRepo) ListVariantsOf(ctx context.Context, canonicalID string) ([]*domain.Lemma, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lemmaColumns+` FROM lemmas WHERE canonical_lemma_id = ?`, canonicalID)
	if err != nil {
		return nil, fmt.Errorf("querying variants: %w", err)
	}
	defer rows.Close()
	return scanLemmas(rows)
}

func scanLemma(row rowScanner) (*domain.Lemma, error) {
	var l domain.Lemma
	var rootID, canonicalID sql.NullString
	var frequencyRank sql.NullInt64
	var category string
	var formsJSON string

	err := row.Scan(&l.ID, &l.Bare, &l.Diacritized, &l.POS, &rootID, &l.Gloss,
		&frequencyRank, &l.CEFRBand, &category, &formsJSON, &canonicalID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning lemma: %w", err)
	}

	l.RootID = parseNullableString(rootID)
	l.CanonicalLemmaID = parseNullableString(canonicalID)
	l.FrequencyRank = parseNullableInt(frequencyRank)
	l.Category = domain.WordCategory(category)
	if err := mustUnmarshal(formsJSON, &l.InflectedForms); err != nil {
		return nil, fmt.Errorf("decoding inflected forms: %w", err)
	}
	return &l, nil
}

func scanLemmas(rows *sql.Rows) ([]*domain.Lemma, error) {
	var out []*domain.Lemma
	for rows.Next() {
		l, err := scanLemma(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
