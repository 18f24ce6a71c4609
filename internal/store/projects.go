package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/calderahq/caldera/internal/sqlutil"
)

// Project is a tenant. Its uuid is the public identifier used in API paths.
type Project struct {
	ID            int64
	UUID          string
	Name          string
	Description   string
	DefaultLocale string
	Locales       []string
	CreatedAt     string
	UpdatedAt     string
}

// CreateProject inserts a project, assigning its uuid and timestamps.
func (s *Store) CreateProject(p *Project) error {
	if p.UUID == "" {
		p.UUID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	if p.DefaultLocale == "" {
		p.DefaultLocale = "en"
	}
	if len(p.Locales) == 0 {
		p.Locales = []string{p.DefaultLocale}
	}
	now := nowUTC()
	p.CreatedAt, p.UpdatedAt = now, now

	res, err := s.db.Exec(
		`INSERT INTO projects (uuid, name, description, default_locale, locales, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UUID, p.Name, p.Description, p.DefaultLocale, strings.Join(p.Locales, ","), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

// ProjectByUUID looks a project up by its public identifier.
func (s *Store) ProjectByUUID(id string) (*Project, error) {
	return s.scanProject(s.db.QueryRow(projectColumns+" WHERE uuid = ?", id))
}

// ProjectByID looks a project up by row id.
func (s *Store) ProjectByID(id int64) (*Project, error) {
	return s.scanProject(s.db.QueryRow(projectColumns+" WHERE id = ?", id))
}

// ListProjects returns all projects ordered by creation.
func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(projectColumns + " ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (Project, error) {
		var p Project
		var locales string
		err := rows.Scan(&p.ID, &p.UUID, &p.Name, &p.Description, &p.DefaultLocale, &locales, &p.CreatedAt, &p.UpdatedAt)
		p.Locales = splitLocales(locales)
		return p, err
	})
}

// DeleteProject removes a project. Collections, fields, content and
// attributes cascade.
func (s *Store) DeleteProject(id int64) error {
	res, err := s.db.Exec("DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return nil
}

const projectColumns = "SELECT id, uuid, name, description, default_locale, locales, created_at, updated_at FROM projects"

func (s *Store) scanProject(row *sql.Row) (*Project, error) {
	var p Project
	var locales string
	err := row.Scan(&p.ID, &p.UUID, &p.Name, &p.Description, &p.DefaultLocale, &locales, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	p.Locales = splitLocales(locales)
	return &p, nil
}

func splitLocales(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
