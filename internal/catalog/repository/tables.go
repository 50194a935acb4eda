package repository

import (
	"encoding/json"
	"fmt"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

// RecordTable maps records onto the "records" table. Sequence fields and the
// archival object are stored as JSON (jsonb in Postgres, TEXT in SQLite).
var RecordTable = Table[domain.Record]{
	Name: "records",
	Columns: []string{
		"id", "title", "division", "medium", "year", "status",
		"author", "tags", "project", "content", "archival",
	},
	Key: func(r domain.Record) string { return r.ID },
	Values: func(r domain.Record) ([]any, error) {
		author, err := jsonColumn(r.Author, r.Author == nil)
		if err != nil {
			return nil, fmt.Errorf("encode author: %w", err)
		}
		tags, err := jsonColumn(r.Tags, r.Tags == nil)
		if err != nil {
			return nil, fmt.Errorf("encode tags: %w", err)
		}
		project, err := jsonColumn(r.Project, r.Project == nil)
		if err != nil {
			return nil, fmt.Errorf("encode project: %w", err)
		}
		archival, err := jsonColumn(r.Archival, r.Archival == nil)
		if err != nil {
			return nil, fmt.Errorf("encode archival: %w", err)
		}
		return []any{
			r.ID, r.Title, r.Division, r.Medium, r.Year, r.Status,
			author, tags, project, nullableString(r.Content), archival,
		}, nil
	},
	Scan: func(row scanner) (domain.Record, error) {
		var (
			r                               domain.Record
			author, tags, project, archival []byte
			content                         *string
		)
		if err := row.Scan(&r.ID, &r.Title, &r.Division, &r.Medium, &r.Year, &r.Status,
			&author, &tags, &project, &content, &archival); err != nil {
			return r, err
		}
		r.Content = content
		if err := decodeJSONColumn(author, &r.Author); err != nil {
			return r, fmt.Errorf("decode author: %w", err)
		}
		if err := decodeJSONColumn(tags, &r.Tags); err != nil {
			return r, fmt.Errorf("decode tags: %w", err)
		}
		if err := decodeJSONColumn(project, &r.Project); err != nil {
			return r, fmt.Errorf("decode project: %w", err)
		}
		if err := decodeJSONColumn(archival, &r.Archival); err != nil {
			return r, fmt.Errorf("decode archival: %w", err)
		}
		return r, nil
	},
}

// ProjectTable maps projects onto the "projects" table.
var ProjectTable = Table[domain.Project]{
	Name:    "projects",
	Columns: []string{"id", "name", "description", "status", "start_year", "end_year"},
	Key:     func(p domain.Project) string { return p.ID },
	Values: func(p domain.Project) ([]any, error) {
		return []any{
			p.ID, p.Name, nullableString(p.Description), p.Status,
			nullableInt(p.StartYear), nullableInt(p.EndYear),
		}, nil
	},
	Scan: func(row scanner) (domain.Project, error) {
		var p domain.Project
		err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.StartYear, &p.EndYear)
		return p, err
	},
}

// jsonColumn encodes v as JSON text, or SQL NULL when isNil.
func jsonColumn(v any, isNil bool) (any, error) {
	if isNil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeJSONColumn(b []byte, dst any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
