package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/houshuang/alif/internal/db"
	"github.com/houshuang/alif/internal/domain"
)

const knowledgeColumns = `id, lemma_id, state, acquisition_box, acquisition_next_due,
		acquisition_started_at, graduated_at, fsrs_card, times_seen, times_correct,
		leech_count, leech_suspended_at, last_review_at, variant_stats, source,
		created_at, updated_at`

// SQLiteKnowledgeRepo implements KnowledgeRepo using SQLite.
type SQLiteKnowledgeRepo struct {
	db db.DBTX
}

// NewSQLiteKnowledgeRepo creates a new SQLiteKnowledgeRepo.
func NewSQLiteKnowledgeRepo(dbtx db.DBTX) *SQLiteKnowledgeRepo {
	return &SQLiteKnowledgeRepo{db: dbtx}
}

func (r *SQLiteKnowledgeRepo) Create(ctx context.Context, rec *domain.KnowledgeRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO knowledge_records (`+knowledgeColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.LemmaID, string(rec.State),
		nullableIntToValue(rec.AcquisitionBox),
		nullableTimeToString(rec.AcquisitionNextDue),
		nullableTimeToString(rec.AcquisitionStartedAt),
		nullableTimeToString(rec.GraduatedAt),
		rec.FSRSCard,
		rec.TimesSeen, rec.TimesCorrect,
		rec.LeechCount, nullableTimeToString(rec.LeechSuspendedAt),
		nullableTimeToString(rec.LastReviewAt),
		mustMarshal(rec.VariantStats), string(rec.Source),
		rec.CreatedAt.Format(timeLayout), rec.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting knowledge record: %w", err)
	}
	return nil
}

func (r *SQLiteKnowledgeRepo) Update(ctx context.Context, rec *domain.KnowledgeRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE knowledge_records SET state = ?, acquisition_box = ?, acquisition_next_due = ?,
			acquisition_started_at = ?, graduated_at = ?, fsrs_card = ?, times_seen = ?,
			times_correct = ?, leech_count = ?, leech_suspended_at = ?, last_review_at = ?,
			variant_stats = ?, source = ?, updated_at = ?
		 WHERE id = ?`,
		string(rec.State), nullableIntToValue(rec.AcquisitionBox),
		nullableTimeToString(rec.AcquisitionNextDue),
		nullableTimeToString(rec.AcquisitionStartedAt),
		nullableTimeToString(rec.GraduatedAt),
		rec.FSRSCard, rec.TimesSeen, rec.TimesCorrect,
		rec.LeechCount, nullableTimeToString(rec.LeechSuspendedAt),
		nullableTimeToString(rec.LastReviewAt),
		mustMarshal(rec.VariantStats), string(rec.Source),
		rec.UpdatedAt.Format(timeLayout), rec.ID,
	)
	if err != nil {
		return fmt.Errorf("updating knowledge record: %w", err)
	}
	return nil
}

func (r *SQLiteKnowledgeRepo) GetByID(ctx context.Context, id string) (*domain.KnowledgeRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+knowledgeColumns+` FROM knowledge_records WHERE id = ?`, id)
	return scanKnowledgeRecord(row)
}

func (r *SQLiteKnowledgeRepo) GetByLemmaID(ctx context.Context, lemmaID string) (*domain.KnowledgeRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+knowledgeColumns+` FROM knowledge_records WHERE lemma_id = ?`, lemmaID)
	return scanKnowledgeRecord(row)
}

func (r *SQLiteKnowledgeRepo) ListByLemmaIDs(ctx context.Context, lemmaIDs []string) ([]*domain.KnowledgeRecord, error) {
	if len(lemmaIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(lemmaIDs)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+knowledgeColumns+` FROM knowledge_records WHERE lemma_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying knowledge records by lemma ids: %w", err)
	}
	defer rows.Close()
	return scanKnowledgeRecords(rows)
}

func (r *SQLiteKnowledgeRepo) ListDueAcquiring(ctx context.Context, now time.Time) ([]*domain.KnowledgeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+knowledgeColumns+` FROM knowledge_records
		 WHERE state = 'acquiring' AND acquisition_next_due <= ?
		 ORDER BY acquisition_next_due ASC`,
		now.UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("querying due acquiring records: %w", err)
	}
	defer rows.Close()
	return scanKnowledgeRecords(rows)
}

func (r *SQLiteKnowledgeRepo) ListDueFSRS(ctx context.Context, now time.Time, window time.Duration) ([]*domain.KnowledgeRecord, error) {
	horizon := now.Add(window)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+knowledgeColumns+` FROM knowledge_records
		 WHERE state IN ('learning', 'known', 'lapsed') AND fsrs_card IS NOT NULL
		 ORDER BY last_review_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying graduated records: %w", err)
	}
	defer rows.Close()
	all, err := scanKnowledgeRecords(rows)
	if err != nil {
		return nil, err
	}

	// Due-ness lives inside the opaque FSRS card, not a column; the
	// scheduler package decodes the card to test Due <= horizon. This
	// repository stages the candidate set (everything graduated) and
	// leaves the actual cutoff test to the caller, mirroring the
	// teacher's split between storage and scoring.
	_ = horizon
	return all, nil
}

func (r *SQLiteKnowledgeRepo) ListFocusCohortFill(ctx context.Context, capN int, excludeLemmaIDs []string) ([]*domain.KnowledgeRecord, error) {
	query := `SELECT ` + knowledgeColumns + ` FROM knowledge_records
		 WHERE state IN ('learning', 'known', 'lapsed') AND fsrs_card IS NOT NULL`
	args := []interface{}{}
	if len(excludeLemmaIDs) > 0 {
		placeholders, excludeArgs := inClause(excludeLemmaIDs)
		query += ` AND lemma_id NOT IN (` + placeholders + `)`
		args = append(args, excludeArgs...)
	}
	query += ` ORDER BY last_review_at ASC LIMIT ?`
	args = append(args, capN)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying focus cohort fill: %w", err)
	}
	defer rows.Close()
	return scanKnowledgeRecords(rows)
}

func (r *SQLiteKnowledgeRepo) ClassifyComprehensibility(ctx context.Context, lemmaIDs []string) (map[string]ComprehensibilityClass, error) {
	classes := make(map[string]ComprehensibilityClass, len(lemmaIDs))
	if len(lemmaIDs) == 0 {
		return classes, nil
	}
	recs, err := r.ListByLemmaIDs(ctx, lemmaIDs)
	if err != nil {
		return nil, err
	}
	byLemma := make(map[string]*domain.KnowledgeRecord, len(recs))
	for _, rec := range recs {
		byLemma[rec.LemmaID] = rec
	}
	for _, id := range lemmaIDs {
		rec, ok := byLemma[id]
		if !ok {
			classes[id] = ClassUnknown
			continue
		}
		switch rec.State {
		case domain.StateKnown, domain.StateLearning:
			classes[id] = ClassConsolidated
		case domain.StateAcquiring, domain.StateLapsed:
			classes[id] = ClassFreshAcquiring
		default:
			classes[id] = ClassUnknown
		}
	}
	return classes, nil
}

func (r *SQLiteKnowledgeRepo) ListEncounteredCandidates(ctx context.Context) ([]EncounteredCandidate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT k.lemma_id, l.category, k.source, l.frequency_rank, l.root_id
		 FROM knowledge_records k
		 JOIN lemmas l ON l.id = k.lemma_id
		 WHERE k.state = 'encountered' AND l.canonical_lemma_id IS NULL
		 ORDER BY l.frequency_rank ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying encountered candidates: %w", err)
	}
	defer rows.Close()

	var out []EncounteredCandidate
	for rows.Next() {
		var c EncounteredCandidate
		var category, source string
		var frequencyRank sql.NullInt64
		var rootID sql.NullString
		if err := rows.Scan(&c.LemmaID, &category, &source, &frequencyRank, &rootID); err != nil {
			return nil, fmt.Errorf("scanning encountered candidate: %w", err)
		}
		c.Category = domain.WordCategory(category)
		c.Source = domain.EntrySource(source)
		c.FrequencyRank = parseNullableInt(frequencyRank)
		c.RootID = parseNullableString(rootID)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteKnowledgeRepo) CountInBox(ctx context.Context, box int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM knowledge_records WHERE state = 'acquiring' AND acquisition_box = ?`,
		box,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting box occupancy: %w", err)
	}
	return n, nil
}

func (r *SQLiteKnowledgeRepo) CountRecentlyLapsedSiblings(ctx context.Context, lemmaIDs []string, now time.Time, window time.Duration) (int, error) {
	if len(lemmaIDs) == 0 {
		return 0, nil
	}
	placeholders, args := inClause(lemmaIDs)
	args = append(args, now.Add(-window).UTC().Format(timeLayout))
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM knowledge_records
		 WHERE lemma_id IN (`+placeholders+`) AND state = 'lapsed' AND last_review_at >= ?`,
		args...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting recently lapsed siblings: %w", err)
	}
	return n, nil
}

func (r *SQLiteKnowledgeRepo) ListActiveTargetLemmaIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT k.lemma_id FROM knowledge_records k
		 JOIN lemmas l ON l.id = k.lemma_id
		 WHERE k.state IN ('acquiring', 'learning', 'known', 'lapsed') AND l.canonical_lemma_id IS NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying active target lemma ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning active target lemma id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *SQLiteKnowledgeRepo) ListSuspended(ctx context.Context) ([]*domain.KnowledgeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+knowledgeColumns+` FROM knowledge_records WHERE state = 'suspended'`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying suspended records: %w", err)
	}
	defer rows.Close()
	return scanKnowledgeRecords(rows)
}

func scanKnowledgeRecord(row rowScanner) (*domain.KnowledgeRecord, error) {
	var rec domain.KnowledgeRecord
	var state, source string
	var box sql.NullInt64
	var nextDue, startedAt, graduatedAt, leechSuspendedAt, lastReviewAt sql.NullString
	var createdAt, updatedAt string
	var variantStatsJSON string

	err := row.Scan(&rec.ID, &rec.LemmaID, &state, &box, &nextDue, &startedAt, &graduatedAt,
		&rec.FSRSCard, &rec.TimesSeen, &rec.TimesCorrect, &rec.LeechCount, &leechSuspendedAt,
		&lastReviewAt, &variantStatsJSON, &source, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning knowledge record: %w", err)
	}

	rec.State = domain.KnowledgeState(state)
	rec.Source = domain.EntrySource(source)
	rec.AcquisitionBox = parseNullableInt(box)
	rec.AcquisitionNextDue = parseNullableTime(nextDue)
	rec.AcquisitionStartedAt = parseNullableTime(startedAt)
	rec.GraduatedAt = parseNullableTime(graduatedAt)
	rec.LeechSuspendedAt = parseNullableTime(leechSuspendedAt)
	rec.LastReviewAt = parseNullableTime(lastReviewAt)

	rec.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	rec.UpdatedAt, err = time.Parse(timeLayout, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	if err := mustUnmarshal(variantStatsJSON, &rec.VariantStats); err != nil {
		return nil, fmt.Errorf("decoding variant stats: %w", err)
	}
	return &rec, nil
}

func scanKnowledgeRecords(rows *sql.Rows) ([]*domain.KnowledgeRecord, error) {
	var out []*domain.KnowledgeRecord
	for rows.Next() {
		rec, err := scanKnowledgeRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func inClause(ids []string) (string, []interface{}) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return placeholders, args
}
