package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanschultz/lasso/internal/app"
	"github.com/evanschultz/lasso/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository stores the item catalog in SQLite.
type Repository struct {
	db *sql.DB
}

// Open opens the catalog database at path, creating its directory and schema.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens a private in-memory catalog.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the schema.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS catalog_items (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT 'item',
			notes TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_catalog_items_position ON catalog_items(position, id);`,
		`CREATE INDEX IF NOT EXISTS idx_catalog_items_kind ON catalog_items(kind);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// CreateItem inserts one catalog item.
func (r *Repository) CreateItem(ctx context.Context, item domain.CatalogItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO catalog_items(id, label, kind, notes, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Label, item.Kind, item.Notes, item.Position, ts(item.CreatedAt), ts(item.UpdatedAt))
	return err
}

// UpdateItem rewrites one catalog item.
func (r *Repository) UpdateItem(ctx context.Context, item domain.CatalogItem) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE catalog_items
		SET label = ?, kind = ?, notes = ?, position = ?, updated_at = ?
		WHERE id = ?
	`, item.Label, item.Kind, item.Notes, item.Position, ts(item.UpdatedAt), item.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetItem returns one catalog item.
func (r *Repository) GetItem(ctx context.Context, id string) (domain.CatalogItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, label, kind, notes, position, created_at, updated_at
		FROM catalog_items
		WHERE id = ?
	`, id)
	return scanItem(row)
}

// ListItems returns every catalog item in layout order.
func (r *Repository) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, label, kind, notes, position, created_at, updated_at
		FROM catalog_items
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.CatalogItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// DeleteItem removes one catalog item.
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM catalog_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// scanner represents scanner data used by this package.
type scanner interface {
	Scan(dest ...any) error
}

// scanItem reads one catalog row.
func scanItem(s scanner) (domain.CatalogItem, error) {
	var (
		item       domain.CatalogItem
		createdRaw string
		updatedRaw string
	)
	if err := s.Scan(&item.ID, &item.Label, &item.Kind, &item.Notes, &item.Position, &createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CatalogItem{}, app.ErrNotFound
		}
		return domain.CatalogItem{}, err
	}
	item.CreatedAt = parseTS(createdRaw)
	item.UpdatedAt = parseTS(updatedRaw)
	return item, nil
}

// translateNoRows maps a zero-row write onto app.ErrNotFound.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts formats a timestamp for storage.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses a stored timestamp.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
