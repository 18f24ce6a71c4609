package store

import (
	"database/sql"
	"fmt"

	"github.com/calderahq/caldera/internal/schema"
	"github.com/calderahq/caldera/internal/sqlutil"
)

// CreateField inserts a field definition, serializing its options and
// validations blobs. The type must be a member of the closed type set.
func (s *Store) CreateField(f *schema.Field) error {
	if !f.Type.Valid() {
		return fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
	}
	options, err := schema.EncodeOptions(f.Options)
	if err != nil {
		return fmt.Errorf("encode options for %q: %w", f.Name, err)
	}
	validations, err := schema.EncodeValidations(f.Validations)
	if err != nil {
		return fmt.Errorf("encode validations for %q: %w", f.Name, err)
	}

	res, err := s.db.Exec(
		`INSERT INTO fields (project_id, collection_id, name, label, type, description, placeholder, options, validations, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ProjectID, f.CollectionID, f.Name, f.Label, string(f.Type),
		f.Description, f.Placeholder, options, validations, f.Position,
	)
	if err != nil {
		return fmt.Errorf("insert field: %w", err)
	}
	f.ID, err = res.LastInsertId()
	return err
}

// FieldsForCollection returns the collection's schema in position order.
func (s *Store) FieldsForCollection(collectionID int64) ([]schema.Field, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, collection_id, name, label, type, description, placeholder, options, validations, position
		 FROM fields WHERE collection_id = ? ORDER BY position, id`,
		collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	return sqlutil.ScanRows(rows, scanField)
}

// DeleteField removes a field definition. Attribute rows written under its
// name are left in place.
func (s *Store) DeleteField(id int64) error {
	res, err := s.db.Exec("DELETE FROM fields WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete field: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("field %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanField(rows *sql.Rows) (schema.Field, error) {
	var f schema.Field
	var typ, options, validations string
	err := rows.Scan(&f.ID, &f.ProjectID, &f.CollectionID, &f.Name, &f.Label, &typ,
		&f.Description, &f.Placeholder, &options, &validations, &f.Position)
	if err != nil {
		return f, fmt.Errorf("scan field: %w", err)
	}
	f.Type = schema.FieldType(typ)
	if f.Options, err = schema.DecodeOptions(options); err != nil {
		return f, fmt.Errorf("decode options for %q: %w", f.Name, err)
	}
	if f.Validations, err = schema.DecodeValidations(validations); err != nil {
		return f, fmt.Errorf("decode validations for %q: %w", f.Name, err)
	}
	return f, nil
}
