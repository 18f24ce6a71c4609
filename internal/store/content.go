package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/calderahq/caldera/internal/sqlutil"
)

// Content is a record's core row. Attribute values live in the attributes
// table, one live row per (content_id, field_name).
type Content struct {
	ID           int64
	ProjectID    int64
	CollectionID int64
	Locale       string
	CreatedBy    *int64
	UpdatedBy    *int64
	PublishedBy  *int64
	PublishedAt  *string
	CreatedAt    string
	UpdatedAt    string
	DeletedAt    *string
}

// InsertContent inserts a content row inside tx, assigning timestamps.
func (s *Store) InsertContent(tx *sql.Tx, c *Content) error {
	now := nowUTC()
	c.CreatedAt, c.UpdatedAt = now, now

	res, err := tx.Exec(
		`INSERT INTO content (project_id, collection_id, locale, created_by, updated_by, published_by, published_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ProjectID, c.CollectionID, c.Locale, c.CreatedBy, c.UpdatedBy, c.PublishedBy, c.PublishedAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

// ContentByID fetches one record in a collection scope. Soft-deleted rows
// are excluded unless includeTrashed is set.
func (s *Store) ContentByID(projectID, collectionID, id int64, includeTrashed bool) (*Content, error) {
	q := `SELECT id, project_id, collection_id, locale, created_by, updated_by, published_by, published_at, created_at, updated_at, deleted_at
	      FROM content WHERE project_id = ? AND collection_id = ? AND id = ?`
	if !includeTrashed {
		q += " AND deleted_at IS NULL"
	}
	var c Content
	err := s.db.QueryRow(q, projectID, collectionID, id).Scan(
		&c.ID, &c.ProjectID, &c.CollectionID, &c.Locale,
		&c.CreatedBy, &c.UpdatedBy, &c.PublishedBy, &c.PublishedAt,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}
	return &c, nil
}

// TouchContent updates a record's locale, publish state and updated_at
// inside tx. A nil locale leaves the stored locale unchanged; publishedAt
// is written as given.
func (s *Store) TouchContent(tx *sql.Tx, id int64, locale *string, publishedAt *string) error {
	if locale != nil {
		_, err := tx.Exec(
			"UPDATE content SET locale = ?, published_at = ?, updated_at = ? WHERE id = ?",
			*locale, publishedAt, nowUTC(), id,
		)
		return err
	}
	_, err := tx.Exec(
		"UPDATE content SET published_at = ?, updated_at = ? WHERE id = ?",
		publishedAt, nowUTC(), id,
	)
	return err
}

// SetPublished sets or clears a record's publish timestamp.
func (s *Store) SetPublished(id int64, publishedAt *string, publishedBy *int64) error {
	res, err := s.db.Exec(
		"UPDATE content SET published_at = ?, published_by = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		publishedAt, publishedBy, nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set published: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("content %d: %w", id, ErrNotFound)
	}
	return nil
}

// SoftDeleteContent tombstones a record and its attribute rows in lockstep
// inside tx.
func (s *Store) SoftDeleteContent(tx *sql.Tx, id int64) error {
	now := nowUTC()
	if _, err := tx.Exec(
		"UPDATE attributes SET deleted_at = ? WHERE content_id = ? AND deleted_at IS NULL", now, id,
	); err != nil {
		return fmt.Errorf("soft delete attributes: %w", err)
	}
	if _, err := tx.Exec(
		"UPDATE content SET deleted_at = ?, updated_at = ? WHERE id = ?", now, now, id,
	); err != nil {
		return fmt.Errorf("soft delete content: %w", err)
	}
	return nil
}

// RestoreContent clears the tombstone on a record and its attribute rows.
func (s *Store) RestoreContent(tx *sql.Tx, id int64) error {
	if _, err := tx.Exec(
		"UPDATE attributes SET deleted_at = NULL WHERE content_id = ?", id,
	); err != nil {
		return fmt.Errorf("restore attributes: %w", err)
	}
	if _, err := tx.Exec(
		"UPDATE content SET deleted_at = NULL, updated_at = ? WHERE id = ?", nowUTC(), id,
	); err != nil {
		return fmt.Errorf("restore content: %w", err)
	}
	return nil
}

// HardDeleteContent permanently removes a record and its attribute rows
// inside tx.
func (s *Store) HardDeleteContent(tx *sql.Tx, id int64) error {
	if _, err := tx.Exec("DELETE FROM attributes WHERE content_id = ?", id); err != nil {
		return fmt.Errorf("delete attributes: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM content WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// UpsertAttribute writes a field value for a record inside tx, updating the
// live row when one exists and inserting otherwise. This preserves the
// invariant of at most one live row per (content_id, field_name).
func (s *Store) UpsertAttribute(tx *sql.Tx, projectID, collectionID, contentID int64, name, value string) error {
	now := nowUTC()
	res, err := tx.Exec(
		"UPDATE attributes SET value = ?, updated_at = ? WHERE content_id = ? AND field_name = ? AND deleted_at IS NULL",
		value, now, contentID, name,
	)
	if err != nil {
		return fmt.Errorf("update attribute %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = tx.Exec(
		`INSERT INTO attributes (project_id, collection_id, content_id, field_name, value, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		projectID, collectionID, contentID, name, value, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert attribute %q: %w", name, err)
	}
	return nil
}

// AttributeValue returns the live stored value for a record's field.
func (s *Store) AttributeValue(contentID int64, name string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT value FROM attributes WHERE content_id = ? AND field_name = ? AND deleted_at IS NULL",
		contentID, name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("attribute value: %w", err)
	}
	return value, true, nil
}

// AttributesForContents materializes field values for a set of records as
// contentID → name → value. Soft-deleted rows are included only when
// includeTrashed is set, which trashed-state listings need.
func (s *Store) AttributesForContents(ids []int64, includeTrashed bool) (map[int64]map[string]string, error) {
	out := make(map[int64]map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := "SELECT content_id, field_name, value FROM attributes WHERE content_id IN (" + sqlutil.Placeholders(len(ids)) + ")"
	if !includeTrashed {
		q += " AND deleted_at IS NULL"
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var contentID int64
		var name, value string
		if err := rows.Scan(&contentID, &name, &value); err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		m := out[contentID]
		if m == nil {
			m = make(map[string]string)
			out[contentID] = m
		}
		m[name] = value
	}
	return out, rows.Err()
}

// CountAttributeValue counts live attribute rows in a collection holding
// exactly value for the named field, skipping excludeContentID (the record
// being updated) when non-zero. Used for uniqueness checks.
func (s *Store) CountAttributeValue(collectionID int64, name, value string, excludeContentID int64) (int, error) {
	q := "SELECT COUNT(*) FROM attributes WHERE collection_id = ? AND field_name = ? AND value = ? AND deleted_at IS NULL"
	args := []any{collectionID, name, value}
	if excludeContentID != 0 {
		q += " AND content_id != ?"
		args = append(args, excludeContentID)
	}
	var n int
	if err := s.db.QueryRow(q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attribute value: %w", err)
	}
	return n, nil
}

// FirstAttributeContaining finds the first record in a collection whose
// live value for the named field contains substr, in id order.
func (s *Store) FirstAttributeContaining(collectionID int64, name, substr string) (int64, bool, error) {
	var contentID int64
	err := s.db.QueryRow(
		`SELECT content_id FROM attributes
		 WHERE collection_id = ? AND field_name = ? AND deleted_at IS NULL AND value LIKE ?
		 ORDER BY content_id LIMIT 1`,
		collectionID, name, "%"+substr+"%",
	).Scan(&contentID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("search attribute: %w", err)
	}
	return contentID, true, nil
}
