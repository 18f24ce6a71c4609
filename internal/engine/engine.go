// Package engine executes scoped queries and writes against the content
// store: scope resolution, the query pipeline, relation resolution,
// validated writes and publish-state transitions.
package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/calderahq/caldera/internal/schema"
	"github.com/calderahq/caldera/internal/store"
)

// Engine runs content operations for one store.
type Engine struct {
	store *store.Store
	log   zerolog.Logger
}

// New builds an engine over st.
func New(st *store.Store, log zerolog.Logger) *Engine {
	return &Engine{store: st, log: log}
}

// Store exposes the backing store for administrative callers.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Scope identifies the project and collection every operation runs
// against, with the collection's schema loaded.
type Scope struct {
	Project    *store.Project
	Collection *store.Collection
	Fields     []schema.Field
}

// FieldSet indexes the scope's schema by field name.
func (sc *Scope) FieldSet() schema.FieldSet {
	return schema.NewFieldSet(sc.Fields)
}

// ResolveScope loads the scope for a project uuid and collection slug.
func (e *Engine) ResolveScope(projectUUID, collectionSlug string) (*Scope, error) {
	project, err := e.store.ProjectByUUID(projectUUID)
	if err != nil {
		return nil, err
	}
	collection, err := e.store.CollectionBySlug(project.ID, collectionSlug)
	if err != nil {
		return nil, err
	}
	fields, err := e.store.FieldsForCollection(collection.ID)
	if err != nil {
		return nil, err
	}
	return &Scope{Project: project, Collection: collection, Fields: fields}, nil
}

// State selects which publish/tombstone states a query sees.
type State int

const (
	// StatePublished is the default: live records with a publish timestamp.
	StatePublished State = iota
	// StateDraft selects live records never published or unpublished.
	StateDraft
	// StateAll selects all live records regardless of publish state.
	StateAll
	// StateTrashed selects soft-deleted records only.
	StateTrashed
)

// ParseState maps the wire state parameter to a State. Absent or
// unrecognized values fall back to published.
func ParseState(s string) State {
	switch s {
	case "only_draft", "draft":
		return StateDraft
	case "all":
		return StateAll
	case "trashed":
		return StateTrashed
	}
	return StatePublished
}

func (st State) conditions() []string {
	switch st {
	case StateDraft:
		return []string{"content.deleted_at IS NULL", "content.published_at IS NULL"}
	case StateAll:
		return []string{"content.deleted_at IS NULL"}
	case StateTrashed:
		return []string{"content.deleted_at IS NOT NULL"}
	}
	return []string{"content.deleted_at IS NULL", "content.published_at IS NOT NULL"}
}

// Record is a materialized content record: core identity plus decoded
// attribute values. Timestamps are filled only when the query asks.
type Record struct {
	ID          int64          `json:"id"`
	Locale      string         `json:"locale"`
	Fields      map[string]any `json:"fields"`
	CreatedAt   string         `json:"created_at,omitempty"`
	UpdatedAt   string         `json:"updated_at,omitempty"`
	PublishedAt string         `json:"published_at,omitempty"`
}

// ResultSet is a query's outcome. Total is the number of matching records
// before pagination; for count-only queries Records is nil.
type ResultSet struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
}

// StateCounts summarizes a collection's records by state.
type StateCounts struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
	Trashed   int `json:"trashed"`
}

// CountStates tallies the scope's records per publish/tombstone state.
// Total counts live records only.
func (e *Engine) CountStates(sc *Scope) (*StateCounts, error) {
	counts := &StateCounts{}
	for _, q := range []struct {
		cond string
		dest *int
	}{
		{"deleted_at IS NULL", &counts.Total},
		{"deleted_at IS NULL AND published_at IS NOT NULL", &counts.Published},
		{"deleted_at IS NULL AND published_at IS NULL", &counts.Draft},
		{"deleted_at IS NOT NULL", &counts.Trashed},
	} {
		err := e.store.DB().QueryRow(
			"SELECT COUNT(*) FROM content WHERE project_id = ? AND collection_id = ? AND "+q.cond,
			sc.Project.ID, sc.Collection.ID,
		).Scan(q.dest)
		if err != nil {
			return nil, fmt.Errorf("count states: %w", err)
		}
	}
	return counts, nil
}
