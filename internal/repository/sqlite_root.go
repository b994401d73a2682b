package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/houshuang/alif/internal/db"
	"github.com/houshuang/alif/internal/domain"
)

// SQLiteRootRepo implements RootRepo using SQLite.
type SQLiteRootRepo struct {
	db db.DBTX
}

// NewSQLiteRootRepo creates a new SQLiteRootRepo.
func NewSQLiteRootRepo(dbtx db.DBTX) *SQLiteRootRepo {
	return &SQLiteRootRepo{db: dbtx}
}

func (r *SQLiteRootRepo) Create(ctx context.Context, root *domain.Root) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roots (id, radicals, gloss) VALUES (?, ?, ?)`,
		root.ID, mustMarshal(root.Radicals), root.Gloss,
	)
	if err != nil {
		return fmt.Errorf("inserting root: %w", err)
	}
	return nil
}

func (r *SQLiteRootRepo) GetByID(ctx context.Context, id string) (*domain.Root, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, radicals, gloss FROM roots WHERE id = ?`, id)
	return scanRoot(row)
}

func (r *SQLiteRootRepo) ListSiblingLemmaIDs(ctx context.Context, rootID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM lemmas WHERE root_id = ?`, rootID)
	if err != nil {
		return nil, fmt.Errorf("querying sibling lemmas: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning sibling lemma id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRoot(row rowScanner) (*domain.Root, error) {
	var root domain.Root
	var radicalsJSON string
	err := row.Scan(&root.ID, &radicalsJSON, &root.Gloss)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning root: %w", err)
	}
	if err := mustUnmarshal(radicalsJSON, &root.Radicals); err != nil {
		return nil, fmt.Errorf("decoding root radicals: %w", err)
	}
	return &root, nil
}
