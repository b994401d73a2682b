package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/houshuang/alif/internal/db"
	"github.com/houshuang/alif/internal/domain"
)

const sentenceColumns = `id, arabic, english, active, times_shown, source, page_number,
		audio_ref, created_at`

// SQLiteSentenceRepo implements SentenceRepo using SQLite.
type SQLiteSentenceRepo struct {
	db db.DBTX
}

// NewSQLiteSentenceRepo creates a new SQLiteSentenceRepo.
func NewSQLiteSentenceRepo(dbtx db.DBTX) *SQLiteSentenceRepo {
	return &SQLiteSentenceRepo{db: dbtx}
}

func (r *SQLiteSentenceRepo) Create(ctx context.Context, s *domain.Sentence) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sentences (`+sentenceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Arabic, s.English, boolToInt(s.Active), s.TimesShown, string(s.Source),
		nullableIntToValue(s.PageNumber), nullableStringToValue(s.AudioRef),
		s.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting sentence: %w", err)
	}
	if err := r.replaceTokens(ctx, s.ID, s.Tokens); err != nil {
		return err
	}
	if err := r.replaceTargets(ctx, s.ID, s.TargetLemmaIDs); err != nil {
		return err
	}
	return nil
}

func (r *SQLiteSentenceRepo) Update(ctx context.Context, s *domain.Sentence) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sentences SET arabic = ?, english = ?, active = ?, times_shown = ?,
			source = ?, page_number = ?, audio_ref = ? WHERE id = ?`,
		s.Arabic, s.English, boolToInt(s.Active), s.TimesShown, string(s.Source),
		nullableIntToValue(s.PageNumber), nullableStringToValue(s.AudioRef), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sentence: %w", err)
	}
	if err := r.replaceTokens(ctx, s.ID, s.Tokens); err != nil {
		return err
	}
	if err := r.replaceTargets(ctx, s.ID, s.TargetLemmaIDs); err != nil {
		return err
	}
	return nil
}

func (r *SQLiteSentenceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sentences WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sentence: %w", err)
	}
	return nil
}

func (r *SQLiteSentenceRepo) replaceTokens(ctx context.Context, sentenceID string, tokens []domain.SentenceToken) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sentence_tokens WHERE sentence_id = ?`, sentenceID); err != nil {
		return fmt.Errorf("clearing sentence tokens: %w", err)
	}
	for _, t := range tokens {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO sentence_tokens (sentence_id, position, surface, lemma_id) VALUES (?, ?, ?, ?)`,
			sentenceID, t.Position, t.Surface, nullableStringToValue(t.LemmaID),
		)
		if err != nil {
			return fmt.Errorf("inserting sentence token: %w", err)
		}
	}
	return nil
}

func (r *SQLiteSentenceRepo) replaceTargets(ctx context.Context, sentenceID string, targetLemmaIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sentence_targets WHERE sentence_id = ?`, sentenceID); err != nil {
		return fmt.Errorf("clearing sentence targets: %w", err)
	}
	for _, lemmaID := range targetLemmaIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO sentence_targets (sentence_id, lemma_id) VALUES (?, ?)`, sentenceID, lemmaID,
		)
		if err != nil {
			return fmt.Errorf("inserting sentence target: %w", err)
		}
	}
	return nil
}

func (r *SQLiteSentenceRepo) GetByID(ctx context.Context, id string) (*domain.Sentence, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sentenceColumns+` FROM sentences WHERE id = ?`, id)
	s, err := scanSentence(row)
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSentenceRepo) hydrate(ctx context.Context, s *domain.Sentence) error {
	tokRows, err := r.db.QueryContext(ctx,
		`SELECT position, surface, lemma_id FROM sentence_tokens WHERE sentence_id = ? ORDER BY position ASC`, s.ID)
	if err != nil {
		return fmt.Errorf("querying sentence tokens: %w", err)
	}
	defer tokRows.Close()
	for tokRows.Next() {
		var t domain.SentenceToken
		var lemmaID sql.NullString
		if err := tokRows.Scan(&t.Position, &t.Surface, &lemmaID); err != nil {
			return fmt.Errorf("scanning sentence token: %w", err)
		}
		t.LemmaID = parseNullableString(lemmaID)
		s.Tokens = append(s.Tokens, t)
	}
	if err := tokRows.Err(); err != nil {
		return err
	}

	targetRows, err := r.db.QueryContext(ctx,
		`SELECT lemma_id FROM sentence_targets WHERE sentence_id = ?`, s.ID)
	if err != nil {
		return fmt.Errorf("querying sentence targets: %w", err)
	}
	defer targetRows.Close()
	for targetRows.Next() {
		var lemmaID string
		if err := targetRows.Scan(&lemmaID); err != nil {
			return fmt.Errorf("scanning sentence target: %w", err)
		}
		s.TargetLemmaIDs = append(s.TargetLemmaIDs, lemmaID)
	}
	return targetRows.Err()
}

func (r *SQLiteSentenceRepo) ListActive(ctx context.Context) ([]*domain.Sentence, error) {
	return r.listWhere(ctx, `WHERE active = 1`)
}

func (r *SQLiteSentenceRepo) ListActiveCovering(ctx context.Context, lemmaIDs []string) ([]*domain.Sentence, error) {
	if len(lemmaIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(lemmaIDs)
	query := `WHERE active = 1 AND id IN (
		SELECT sentence_id FROM sentence_tokens WHERE lemma_id IN (` + placeholders + `)
		UNION
		SELECT sentence_id FROM sentence_targets WHERE lemma_id IN (` + placeholders + `)
	)`
	args = append(args, args...)
	return r.listWhere(ctx, query, args...)
}

func (r *SQLiteSentenceRepo) ListDormant(ctx context.Context) ([]*domain.Sentence, error) {
	return r.listWhere(ctx, `WHERE active = 0 AND id IN (
		SELECT sentence_id FROM sentence_tokens WHERE lemma_id IS NULL
	)`)
}

func (r *SQLiteSentenceRepo) ListRetirementCandidates(ctx context.Context, staleLemmaIDs []string) ([]*domain.Sentence, error) {
	if len(staleLemmaIDs) == 0 {
		return r.listWhere(ctx, `WHERE active = 1 ORDER BY times_shown ASC, created_at ASC`)
	}
	placeholders, args := inClause(staleLemmaIDs)
	query := `WHERE active = 1 AND id IN (
		SELECT sentence_id FROM sentence_targets WHERE lemma_id IN (` + placeholders + `)
	) ORDER BY times_shown ASC, created_at ASC`
	return r.listWhere(ctx, query, args...)
}

func (r *SQLiteSentenceRepo) listWhere(ctx context.Context, where string, args ...interface{}) ([]*domain.Sentence, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sentenceColumns+` FROM sentences `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sentences: %w", err)
	}
	defer rows.Close()

	var out []*domain.Sentence
	for rows.Next() {
		s, err := scanSentence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range out {
		if err := r.hydrate(ctx, s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteSentenceRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sentences WHERE active = 1`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting active sentences: %w", err)
	}
	return n, nil
}

func (r *SQLiteSentenceRepo) CountActiveByTarget(ctx context.Context, lemmaID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sentences s
		 JOIN sentence_targets t ON t.sentence_id = s.id
		 WHERE s.active = 1 AND t.lemma_id = ?`, lemmaID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting active sentences by target: %w", err)
	}
	return n, nil
}

func scanSentence(row rowScanner) (*domain.Sentence, error) {
	var s domain.Sentence
	var active int
	var source string
	var pageNumber sql.NullInt64
	var audioRef sql.NullString
	var createdAt string

	err := row.Scan(&s.ID, &s.Arabic, &s.English, &active, &s.TimesShown, &source,
		&pageNumber, &audioRef, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning sentence: %w", err)
	}

	s.Active = intToBool(active)
	s.Source = domain.SentenceSource(source)
	s.PageNumber = parseNullableInt(pageNumber)
	s.AudioRef = parseNullableString(audioRef)
	s.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing sentence created_at: %w", err)
	}
	return &s, nil
}
