package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/calderahq/caldera/internal/sqlutil"
)

// Collection is a named content type within a project, addressed by a slug
// unique to the project.
type Collection struct {
	ID        int64
	ProjectID int64
	Name      string
	Slug      string
	Position  int
	CreatedAt string
	UpdatedAt string
}

// CreateCollection inserts a collection, deriving a URL-safe slug from the
// name when none is given. Slug collisions within the project surface as a
// constraint error.
func (s *Store) CreateCollection(c *Collection) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	} else {
		c.Slug = slug.Make(c.Slug)
	}
	now := nowUTC()
	c.CreatedAt, c.UpdatedAt = now, now

	res, err := s.db.Exec(
		`INSERT INTO collections (project_id, name, slug, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ProjectID, c.Name, c.Slug, c.Position, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

// CollectionBySlug looks a collection up within a project.
func (s *Store) CollectionBySlug(projectID int64, slugName string) (*Collection, error) {
	return s.scanCollection(s.db.QueryRow(
		collectionColumns+" WHERE project_id = ? AND slug = ?", projectID, slugName))
}

// CollectionByID looks a collection up by row id.
func (s *Store) CollectionByID(id int64) (*Collection, error) {
	return s.scanCollection(s.db.QueryRow(collectionColumns+" WHERE id = ?", id))
}

// ListCollections returns a project's collections in position order.
func (s *Store) ListCollections(projectID int64) ([]Collection, error) {
	rows, err := s.db.Query(collectionColumns+" WHERE project_id = ? ORDER BY position, id", projectID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (Collection, error) {
		var c Collection
		err := rows.Scan(&c.ID, &c.ProjectID, &c.Name, &c.Slug, &c.Position, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	})
}

// DeleteCollection removes a collection; fields, content and attributes
// cascade.
func (s *Store) DeleteCollection(id int64) error {
	res, err := s.db.Exec("DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("collection %d: %w", id, ErrNotFound)
	}
	return nil
}

const collectionColumns = "SELECT id, project_id, name, slug, position, created_at, updated_at FROM collections"

func (s *Store) scanCollection(row *sql.Row) (*Collection, error) {
	var c Collection
	err := row.Scan(&c.ID, &c.ProjectID, &c.Name, &c.Slug, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collection: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan collection: %w", err)
	}
	return &c, nil
}
