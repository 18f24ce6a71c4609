package engine

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/calderahq/caldera/internal/codec"
	"github.com/calderahq/caldera/internal/query"
	"github.com/calderahq/caldera/internal/sqlutil"
)

// Request describes one content query.
type Request struct {
	// Filter is the decoded wire filter (object or group list), nil for
	// none.
	Filter any
	// Relation maps relation field name → target field → substring, each
	// resolving to a containment condition on the relation field.
	Relation map[string]map[string]string
	// Sort is the raw field:direction list.
	Sort string
	// Search restricts to records with any live attribute value containing
	// the substring.
	Search string

	Offset *int
	Limit  *int

	State State

	// CountOnly returns the matching-record count, ignoring pagination.
	CountOnly bool
	// First returns only the first record and fails with NotFound when the
	// result is empty.
	First bool
	// WithTimestamps includes created/updated/published timestamps on
	// returned records.
	WithTimestamps bool
}

// Query runs a content query in the scope and materializes the results.
func (e *Engine) Query(sc *Scope, req Request) (*ResultSet, error) {
	if req.Offset != nil && req.Limit == nil {
		return nil, ErrMalformedPagination
	}

	expr, err := query.ParseFilter(req.Filter)
	if err != nil {
		return nil, err
	}
	expr, err = e.resolveRelations(sc, expr, req.Relation)
	if err != nil {
		return nil, err
	}

	compiler := query.NewCompiler(sc.Fields)
	pred, err := compiler.Compile(expr)
	if err != nil {
		return nil, err
	}

	conds := []string{"content.project_id = ?", "content.collection_id = ?"}
	args := []any{sc.Project.ID, sc.Collection.ID}
	conds = append(conds, req.State.conditions()...)
	if pred != nil {
		conds = append(conds, pred.Cond)
		args = append(args, pred.Args...)
	}
	if req.Search != "" {
		conds = append(conds,
			"EXISTS (SELECT 1 FROM attributes a WHERE a.content_id = content.id AND a.deleted_at IS NULL AND a.value LIKE ?)")
		args = append(args, "%"+req.Search+"%")
	}
	where := strings.Join(conds, " AND ")

	sortKeys, err := query.ParseSort(req.Sort)
	if err != nil {
		return nil, err
	}
	orderBy, orderArgs := query.OrderBy(sortKeys)

	// Total counts matches before pagination, so it runs before
	// limit/offset attach and count mode returns it directly.
	var total int
	err = e.store.DB().QueryRow("SELECT COUNT(*) FROM content WHERE "+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count content: %w", err)
	}
	if req.CountOnly {
		return &ResultSet{Total: total}, nil
	}

	q := "SELECT content.id, content.locale, content.created_at, content.updated_at, content.published_at" +
		" FROM content WHERE " + where + " ORDER BY " + orderBy
	args = append(args, orderArgs...)
	if req.Limit != nil {
		q += " LIMIT ?"
		args = append(args, *req.Limit)
		if req.Offset != nil {
			q += " OFFSET ?"
			args = append(args, *req.Offset)
		}
	}

	rows, err := e.store.DB().Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}
	records, err := sqlutil.ScanRows(rows, func(rows *sql.Rows) (Record, error) {
		return scanRecord(rows, req.WithTimestamps)
	})
	if err != nil {
		return nil, err
	}

	if req.First {
		if len(records) == 0 {
			return nil, fmt.Errorf("content: %w", ErrNotFound)
		}
		records = records[:1]
	}

	if err := e.attachAttributes(sc, records, req.State == StateTrashed); err != nil {
		return nil, err
	}

	e.log.Debug().
		Str("collection", sc.Collection.Slug).
		Int("records", len(records)).
		Msg("query executed")

	return &ResultSet{Records: records, Total: total}, nil
}

// FindByID fetches one published record by id.
func (e *Engine) FindByID(sc *Scope, id int64, withTimestamps bool) (*Record, error) {
	res, err := e.Query(sc, Request{
		Filter:         map[string]any{"id": fmt.Sprint(id)},
		First:          true,
		WithTimestamps: withTimestamps,
	})
	if err != nil {
		return nil, err
	}
	return &res.Records[0], nil
}

func scanRecord(rows *sql.Rows, withTimestamps bool) (Record, error) {
	var r Record
	var createdAt, updatedAt string
	var publishedAt sql.NullString
	if err := rows.Scan(&r.ID, &r.Locale, &createdAt, &updatedAt, &publishedAt); err != nil {
		return r, fmt.Errorf("scan content: %w", err)
	}
	if withTimestamps {
		r.CreatedAt = createdAt
		r.UpdatedAt = updatedAt
		r.PublishedAt = publishedAt.String
	}
	return r, nil
}

// attachAttributes materializes each record's field map, decoding stored
// values through the codec. Values stored under names no longer in the
// schema pass through as raw strings.
func (e *Engine) attachAttributes(sc *Scope, records []Record, includeTrashed bool) error {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	values, err := e.store.AttributesForContents(ids, includeTrashed)
	if err != nil {
		return err
	}

	fields := sc.FieldSet()
	for i := range records {
		decoded := make(map[string]any)
		for name, stored := range values[records[i].ID] {
			if f, ok := fields.Lookup(name); ok {
				decoded[name] = codec.Decode(f, stored)
				continue
			}
			decoded[name] = stored
		}
		records[i].Fields = decoded
	}
	return nil
}
