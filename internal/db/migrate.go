package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements tolerate being re-run
// (CREATE TABLE IF NOT EXISTS, CREATE INDEX IF NOT EXISTS); ALTER TABLE
// statements that add a column swallow the "duplicate column name" error
// a rerun produces, same as the teacher's migration runner.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS roots (
		id         TEXT PRIMARY KEY,
		radicals   TEXT NOT NULL,
		gloss      TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS lemmas (
		id                 TEXT PRIMARY KEY,
		bare               TEXT NOT NULL UNIQUE,
		diacritized        TEXT NOT NULL DEFAULT '',
		pos                TEXT NOT NULL DEFAULT '',
		root_id            TEXT REFERENCES roots(id),
		gloss              TEXT NOT NULL DEFAULT '',
		frequency_rank     INTEGER,
		cefr_band          TEXT NOT NULL DEFAULT '',
		category           TEXT NOT NULL DEFAULT 'standard'
		                   CHECK(category IN ('standard','proper_name','onomatopoeia','junk')),
		inflected_forms    TEXT NOT NULL DEFAULT '[]',
		canonical_lemma_id TEXT REFERENCES lemmas(id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_lemmas_root ON lemmas(root_id)`,
	`CREATE INDEX IF NOT EXISTS idx_lemmas_canonical ON lemmas(canonical_lemma_id)`,

	`CREATE TABLE IF NOT EXISTS knowledge_records (
		id                      TEXT PRIMARY KEY,
		lemma_id                TEXT NOT NULL UNIQUE REFERENCES lemmas(id),
		state                   TEXT NOT NULL
		                        CHECK(state IN ('encountered','acquiring','learning','known','lapsed','suspended')),
		acquisition_box         INTEGER,
		acquisition_next_due    TEXT,
		acquisition_started_at  TEXT,
		graduated_at            TEXT,
		fsrs_card               BLOB,
		times_seen              INTEGER NOT NULL DEFAULT 0,
		times_correct           INTEGER NOT NULL DEFAULT 0,
		leech_count             INTEGER NOT NULL DEFAULT 0,
		leech_suspended_at      TEXT,
		last_review_at          TEXT,
		variant_stats           TEXT NOT NULL DEFAULT '{}',
		source                  TEXT NOT NULL DEFAULT 'manual',
		created_at              TEXT NOT NULL,
		updated_at               TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_knowledge_state ON knowledge_records(state)`,
	`CREATE INDEX IF NOT EXISTS idx_knowledge_acq_due ON knowledge_records(acquisition_next_due)`,

	`CREATE TABLE IF NOT EXISTS sentences (
		id           TEXT PRIMARY KEY,
		arabic       TEXT NOT NULL,
		english      TEXT NOT NULL,
		active       INTEGER NOT NULL DEFAULT 0,
		times_shown  INTEGER NOT NULL DEFAULT 0,
		source       TEXT NOT NULL
		             CHECK(source IN ('llm_generated','book_ocr','story_ocr','course_import')),
		page_number  INTEGER,
		audio_ref    TEXT,
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sentences_active ON sentences(active)`,

	`CREATE TABLE IF NOT EXISTS sentence_tokens (
		sentence_id TEXT NOT NULL REFERENCES sentences(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		surface     TEXT NOT NULL,
		lemma_id    TEXT REFERENCES lemmas(id),
		PRIMARY KEY (sentence_id, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sentence_tokens_lemma ON sentence_tokens(lemma_id)`,

	`CREATE TABLE IF NOT EXISTS sentence_targets (
		sentence_id TEXT NOT NULL REFERENCES sentences(id) ON DELETE CASCADE,
		lemma_id    TEXT NOT NULL REFERENCES lemmas(id),
		PRIMARY KEY (sentence_id, lemma_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sentence_targets_lemma ON sentence_targets(lemma_id)`,

	`CREATE TABLE IF NOT EXISTS review_logs (
		id                   TEXT PRIMARY KEY,
		lemma_id             TEXT NOT NULL REFERENCES lemmas(id),
		rating               TEXT NOT NULL CHECK(rating IN ('again','hard','good','easy')),
		is_acquisition_step  INTEGER NOT NULL,
		pre_review_snapshot  TEXT NOT NULL,
		session_id           TEXT NOT NULL,
		client_review_id     TEXT NOT NULL UNIQUE,
		reviewed_at          TEXT NOT NULL,
		credit_type          TEXT NOT NULL CHECK(credit_type IN ('target','scaffold','variant_redirect'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_review_logs_lemma ON review_logs(lemma_id, reviewed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_review_logs_session ON review_logs(session_id)`,

	`CREATE TABLE IF NOT EXISTS variant_decisions (
		lemma_a_id  TEXT NOT NULL REFERENCES lemmas(id),
		lemma_b_id  TEXT NOT NULL REFERENCES lemmas(id),
		verdict     TEXT NOT NULL CHECK(verdict IN ('equivalent','distinct')),
		decided_at  TEXT NOT NULL,
		PRIMARY KEY (lemma_a_id, lemma_b_id)
	)`,
}
