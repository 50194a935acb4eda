package console

import (
	"strings"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

// RecordFilter holds the record list filters; empty fields match everything.
type RecordFilter struct {
	Division string
	Status   string
	Search   string
}

// ProjectFilter holds the project list filters; empty fields match everything.
type ProjectFilter struct {
	Status string
	Search string
}

// FilterRecords returns the records matching every set predicate, in input
// order. The input slice is not modified.
func FilterRecords(records []domain.Record, f RecordFilter) []domain.Record {
	search := strings.ToLower(f.Search)
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if f.Division != "" && r.Division != f.Division {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if search != "" && !containsFold(r.ID, search) && !containsFold(r.Title, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterProjects returns the projects matching every set predicate, in input order.
func FilterProjects(projects []domain.Project, f ProjectFilter) []domain.Project {
	search := strings.ToLower(f.Search)
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if search != "" && !containsFold(p.ID, search) && !containsFold(p.Name, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
