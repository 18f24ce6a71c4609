package engine

import (
	"fmt"
	"time"

	"github.com/calderahq/caldera/internal/codec"
	"github.com/calderahq/caldera/internal/schema"
	"github.com/calderahq/caldera/internal/store"
)

// WriteOptions carries the non-field inputs of a create or update.
type WriteOptions struct {
	// Locale overrides the project default on create and the stored locale
	// on update when non-empty.
	Locale string
	// Draft leaves the record unpublished on create and clears the publish
	// timestamp on update.
	Draft bool
	// Actor is the acting user id, recorded on the touched row when set.
	Actor *int64
}

// Create validates values against the scope's schema, then writes the
// content row and its attribute rows in one transaction. Values whose key
// is not a schema field are ignored; values encoding to empty are not
// stored.
func (e *Engine) Create(sc *Scope, values map[string]any, opts WriteOptions) (*Record, error) {
	if errs := e.validate(sc, values, 0); errs != nil {
		return nil, errs
	}

	locale := opts.Locale
	if locale == "" {
		locale = sc.Project.DefaultLocale
	}
	content := &store.Content{
		ProjectID:    sc.Project.ID,
		CollectionID: sc.Collection.ID,
		Locale:       locale,
		CreatedBy:    opts.Actor,
		UpdatedBy:    opts.Actor,
	}
	if !opts.Draft {
		now := time.Now().UTC().Format(time.RFC3339)
		content.PublishedAt = &now
		content.PublishedBy = opts.Actor
	}

	tx, err := e.store.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	if err := e.store.InsertContent(tx, content); err != nil {
		return nil, err
	}

	fields := sc.FieldSet()
	for _, name := range sortedKeys(values) {
		f, ok := fields.Lookup(name)
		if !ok {
			continue
		}
		encoded, err := codec.Encode(f, values[name], "", false)
		if err != nil {
			return nil, err
		}
		if encoded == "" {
			continue
		}
		if err := e.store.UpsertAttribute(tx, sc.Project.ID, sc.Collection.ID, content.ID, name, encoded); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	e.log.Info().
		Str("collection", sc.Collection.Slug).
		Int64("id", content.ID).
		Bool("draft", opts.Draft).
		Msg("record created")

	return e.materialize(sc, content)
}

// Update validates and rewrites the given field values on an existing live
// record. Fields with an existing live row are overwritten in place, which
// for a blank password means the stored hash is preserved by the codec.
// The record republishes unless Draft is set.
func (e *Engine) Update(sc *Scope, id int64, values map[string]any, opts WriteOptions) (*Record, error) {
	content, err := e.store.ContentByID(sc.Project.ID, sc.Collection.ID, id, false)
	if err != nil {
		return nil, err
	}
	if errs := e.validate(sc, values, id); errs != nil {
		return nil, errs
	}

	var publishedAt *string
	if !opts.Draft {
		now := time.Now().UTC().Format(time.RFC3339)
		publishedAt = &now
	}
	var locale *string
	if opts.Locale != "" {
		locale = &opts.Locale
	}

	// Encode against current values before the write transaction opens, so
	// blank passwords can pick up the stored hash.
	fields := sc.FieldSet()
	type write struct {
		name  string
		value string
	}
	var writes []write
	for _, name := range sortedKeys(values) {
		f, ok := fields.Lookup(name)
		if !ok {
			continue
		}
		prev, hasPrev, err := e.store.AttributeValue(id, name)
		if err != nil {
			return nil, err
		}
		encoded, err := codec.Encode(f, values[name], prev, hasPrev)
		if err != nil {
			return nil, err
		}
		if !hasPrev && encoded == "" {
			continue
		}
		writes = append(writes, write{name: name, value: encoded})
	}

	tx, err := e.store.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	if err := e.store.TouchContent(tx, id, locale, publishedAt); err != nil {
		return nil, fmt.Errorf("touch content: %w", err)
	}
	for _, w := range writes {
		if err := e.store.UpsertAttribute(tx, sc.Project.ID, sc.Collection.ID, id, w.name, w.value); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	e.log.Info().
		Str("collection", sc.Collection.Slug).
		Int64("id", id).
		Msg("record updated")

	content, err = e.store.ContentByID(sc.Project.ID, sc.Collection.ID, id, false)
	if err != nil {
		return nil, err
	}
	return e.materialize(sc, content)
}

// Delete tombstones a record, or permanently removes it (and its attribute
// rows) when hard is set. Hard deletion also reaches already-trashed
// records.
func (e *Engine) Delete(sc *Scope, id int64, hard bool) error {
	if _, err := e.store.ContentByID(sc.Project.ID, sc.Collection.ID, id, hard); err != nil {
		return err
	}

	tx, err := e.store.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if hard {
		err = e.store.HardDeleteContent(tx, id)
	} else {
		err = e.store.SoftDeleteContent(tx, id)
	}
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	e.log.Info().
		Str("collection", sc.Collection.Slug).
		Int64("id", id).
		Bool("hard", hard).
		Msg("record deleted")
	return nil
}

// Restore clears the tombstone on a trashed record and its attributes.
func (e *Engine) Restore(sc *Scope, id int64) error {
	content, err := e.store.ContentByID(sc.Project.ID, sc.Collection.ID, id, true)
	if err != nil {
		return err
	}
	if content.DeletedAt == nil {
		return fmt.Errorf("content %d is not trashed: %w", id, ErrNotFound)
	}

	tx, err := e.store.Begin()
	if err != nil {
		return fmt.Errorf("begin restore: %w", err)
	}
	defer tx.Rollback()

	if err := e.store.RestoreContent(tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit restore: %w", err)
	}
	return nil
}

// Publish stamps a live record as published.
func (e *Engine) Publish(sc *Scope, id int64, actor *int64) error {
	if _, err := e.store.ContentByID(sc.Project.ID, sc.Collection.ID, id, false); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return e.store.SetPublished(id, &now, actor)
}

// Unpublish clears a live record's publish timestamp, returning it to
// draft.
func (e *Engine) Unpublish(sc *Scope, id int64) error {
	if _, err := e.store.ContentByID(sc.Project.ID, sc.Collection.ID, id, false); err != nil {
		return err
	}
	return e.store.SetPublished(id, nil, nil)
}

// validate runs the generated rules plus uniqueness over values.
// excludeID is the record being updated, so its own rows don't count as
// duplicates; zero means create.
func (e *Engine) validate(sc *Scope, values map[string]any, excludeID int64) error {
	errs := schema.Validate(sc.Fields, values)
	if errs == nil {
		errs = make(FieldErrors)
	}

	for _, f := range sc.Fields {
		if !f.Validations.Unique.Enabled {
			continue
		}
		raw, present := values[f.Name]
		s := schema.Stringify(raw)
		if !present || s == "" {
			continue
		}
		n, err := e.store.CountAttributeValue(sc.Collection.ID, f.Name, s, excludeID)
		if err != nil {
			return err
		}
		if n > 0 {
			errs.Add(f.Name, schema.UniqueMessage(f))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (e *Engine) materialize(sc *Scope, content *store.Content) (*Record, error) {
	r := Record{
		ID:        content.ID,
		Locale:    content.Locale,
		CreatedAt: content.CreatedAt,
		UpdatedAt: content.UpdatedAt,
	}
	if content.PublishedAt != nil {
		r.PublishedAt = *content.PublishedAt
	}
	records := []Record{r}
	if err := e.attachAttributes(sc, records, false); err != nil {
		return nil, err
	}
	return &records[0], nil
}
