package console

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

// Form is the raw text of an edit dialog, keyed by field name.
type Form map[string]string

// Field names of the record form. The archival_* fields are folded into the
// nested "archival" object on submit.
var (
	RecordFields  = []string{"id", "title", "division", "medium", "year", "status", "author", "tags", "project", "content", "archival_state", "archival_since", "archival_note"}
	ProjectFields = []string{"id", "name", "description", "status", "start_year", "end_year"}
	PublishFields = []string{"id", "title", "division", "medium", "year", "status", "author", "tags", "project", "content"}
)

var (
	listFields = map[string]bool{"author": true, "tags": true, "project": true}
	intFields  = map[string]bool{"year": true, "archival_since": true, "start_year": true, "end_year": true}
)

const archivalPrefix = "archival_"

// CoerceError reports a field whose text could not be converted.
type CoerceError struct {
	Field string
	Value string
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("%s must be a whole number, got %q", e.Field, e.Value)
}

// Coerce converts form text into a submittable document:
//   - list fields are split on commas, trimmed and emptied entries dropped;
//     an empty result becomes null
//   - integer fields are parsed when non-empty
//   - empty and null values are omitted entirely
//
// Only names in fields are read; anything else in the form is ignored.
func Coerce(form Form, fields []string) (Document, error) {
	doc := Document{}
	archival := Document{}

	for _, name := range fields {
		raw := strings.TrimSpace(form[name])

		var value any
		switch {
		case listFields[name]:
			if l := SplitList(raw); l != nil {
				value = l
			}
		case intFields[name] && raw != "":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &CoerceError{Field: name, Value: raw}
			}
			value = n
		case raw != "":
			value = raw
		}
		if value == nil {
			continue
		}

		if sub, ok := strings.CutPrefix(name, archivalPrefix); ok {
			archival[sub] = value
			continue
		}
		doc[name] = value
	}

	if len(archival) > 0 {
		doc["archival"] = archival
	}
	return doc, nil
}

// SplitList splits comma-separated text into trimmed non-empty items, or nil.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RecordForm renders a stored record as form text.
func RecordForm(r domain.Record) Form {
	f := Form{
		"id":       r.ID,
		"title":    r.Title,
		"division": r.Division,
		"medium":   r.Medium,
		"status":   r.Status,
		"author":   strings.Join(r.Author, ", "),
		"tags":     strings.Join(r.Tags, ", "),
		"project":  strings.Join(r.Project, ", "),
	}
	if r.Year != 0 {
		f["year"] = strconv.Itoa(r.Year)
	}
	if r.Content != nil {
		f["content"] = *r.Content
	}
	if a := r.Archival; a != nil {
		f["archival_state"] = a.State
		f["archival_note"] = a.Note
		if a.Since != nil {
			f["archival_since"] = strconv.Itoa(*a.Since)
		}
	}
	return f
}

// ProjectForm renders a stored project as form text.
func ProjectForm(p domain.Project) Form {
	f := Form{"id": p.ID, "name": p.Name, "status": p.Status}
	if p.Description != nil {
		f["description"] = *p.Description
	}
	if p.StartYear != nil {
		f["start_year"] = strconv.Itoa(*p.StartYear)
	}
	if p.EndYear != nil {
		f["end_year"] = strconv.Itoa(*p.EndYear)
	}
	return f
}

// PublishForm pre-fills a record form from a project: title from name, the
// current year, the project's status, the project id as the only project
// reference and the description as content. The record id is left blank.
func PublishForm(p domain.Project, now time.Time) Form {
	f := Form{
		"title":   p.Name,
		"year":    strconv.Itoa(now.Year()),
		"status":  p.Status,
		"project": p.ID,
	}
	if p.Description != nil {
		f["content"] = *p.Description
	}
	return f
}

// Merge returns a copy of f with the entries of overrides applied.
func (f Form) Merge(overrides Form) Form {
	out := make(Form, len(f)+len(overrides))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
