// Package testutil provides in-memory store fixtures for tests.
package testutil

import (
	"testing"

	"github.com/calderahq/caldera/internal/schema"
	"github.com/calderahq/caldera/internal/store"
)

// NewStore opens an in-memory store closed at test cleanup.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// Fixture is a seeded project and collection with its schema.
type Fixture struct {
	Store      *store.Store
	Project    *store.Project
	Collection *store.Collection
	Fields     []schema.Field
}

// NewFixture seeds a project named "Test" with one "posts" collection
// carrying the given fields.
func NewFixture(t *testing.T, fields ...schema.Field) *Fixture {
	t.Helper()
	st := NewStore(t)

	project := &store.Project{Name: "Test"}
	if err := st.CreateProject(project); err != nil {
		t.Fatalf("create project: %v", err)
	}
	collection := &store.Collection{ProjectID: project.ID, Name: "Posts", Slug: "posts"}
	if err := st.CreateCollection(collection); err != nil {
		t.Fatalf("create collection: %v", err)
	}
	for i := range fields {
		fields[i].ProjectID = project.ID
		fields[i].CollectionID = collection.ID
		fields[i].Position = i
		if err := st.CreateField(&fields[i]); err != nil {
			t.Fatalf("create field %q: %v", fields[i].Name, err)
		}
	}

	loaded, err := st.FieldsForCollection(collection.ID)
	if err != nil {
		t.Fatalf("load fields: %v", err)
	}
	return &Fixture{Store: st, Project: project, Collection: collection, Fields: loaded}
}

// AddCollection seeds another collection with fields in the same project.
func (f *Fixture) AddCollection(t *testing.T, name, slugName string, fields ...schema.Field) *store.Collection {
	t.Helper()
	c := &store.Collection{ProjectID: f.Project.ID, Name: name, Slug: slugName}
	if err := f.Store.CreateCollection(c); err != nil {
		t.Fatalf("create collection %q: %v", slugName, err)
	}
	for i := range fields {
		fields[i].ProjectID = f.Project.ID
		fields[i].CollectionID = c.ID
		fields[i].Position = i
		if err := f.Store.CreateField(&fields[i]); err != nil {
			t.Fatalf("create field %q: %v", fields[i].Name, err)
		}
	}
	return c
}
