package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/liadelivery/backend/internal/domain"
)

// SQLiteRepository stores the flattened menu search index in a local SQLite
// database and implements domain.CatalogRepository.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the index database at dbPath.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return repo, nil
}

// Close closes the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS menu_search_index (
        pdv TEXT PRIMARY KEY,
        display_name TEXT NOT NULL,
        fingerprint TEXT NOT NULL,
        item_type TEXT NOT NULL,
        parent_pdv TEXT NOT NULL DEFAULT '',
        price REAL NOT NULL DEFAULT 0,
        position INTEGER NOT NULL DEFAULT 0
    );

    CREATE INDEX IF NOT EXISTS idx_menu_fingerprint ON menu_search_index(fingerprint);
    CREATE INDEX IF NOT EXISTS idx_menu_parent_pdv ON menu_search_index(parent_pdv);
    `

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// FetchIndex returns every index entry in catalog order.
func (r *SQLiteRepository) FetchIndex(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT pdv, display_name, fingerprint, item_type, parent_pdv, price
        FROM menu_search_index
        ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu index: %w", err)
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		var kind string
		if err := rows.Scan(&e.PDV, &e.DisplayName, &e.Fingerprint, &kind, &e.ParentPDV, &e.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan menu entry: %w", err)
		}
		e.Kind = domain.EntryKind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu index: %w", err)
	}

	return entries, nil
}

// ReplaceIndex atomically swaps the stored index for the given entries,
// keeping their order as the catalog order.
func (r *SQLiteRepository) ReplaceIndex(ctx context.Context, entries []domain.CatalogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM menu_search_index`); err != nil {
		return fmt.Errorf("failed to clear menu index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO menu_search_index
            (pdv, display_name, fingerprint, item_type, parent_pdv, price, position)
        VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.PDV, e.DisplayName, e.Fingerprint, string(e.Kind), e.ParentPDV, e.UnitPrice, i); err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", e.PDV, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index replacement: %w", err)
	}

	return nil
}
