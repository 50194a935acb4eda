package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
	"github.com/tearaglass/godscruiseline/internal/seed"
)

func ids[T any](docs []T, key func(T) string) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = key(d)
	}
	return out
}

func TestFilterRecords(t *testing.T) {
	records, err := seed.Records()
	require.NoError(t, err)
	before := ids(records, domain.Record.Key)

	cases := []struct {
		name   string
		filter RecordFilter
		want   []string
	}{
		{"no filter keeps everything", RecordFilter{}, before},
		{"division and status intersect", RecordFilter{Division: "broadcast", Status: "public"}, []string{"GC-R-001", "GC-R-007"}},
		{"search matches title case-insensitively", RecordFilter{Search: "LEDGER"}, []string{"GC-R-004"}},
		{"search matches id", RecordFilter{Search: "r-01"}, []string{"GC-R-010"}},
		{"all three predicates", RecordFilter{Division: "research", Status: "registered", Search: "index"}, []string{"GC-R-008"}},
		{"nothing matches", RecordFilter{Division: "works", Status: "public"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterRecords(records, tc.filter)
			assert.Equal(t, tc.want, ids(got, domain.Record.Key))
		})
	}

	assert.Equal(t, before, ids(records, domain.Record.Key), "source slice must not change")
}

func TestFilterProjects(t *testing.T) {
	projects, err := seed.Projects()
	require.NoError(t, err)

	got := FilterProjects(projects, ProjectFilter{Status: "public"})
	assert.Equal(t, []string{"signal-architecture", "continuity-ledger"}, ids(got, domain.Project.Key))

	got = FilterProjects(projects, ProjectFilter{Search: "terminal"})
	assert.Equal(t, []string{"terminal-ops"}, ids(got, domain.Project.Key))

	got = FilterProjects(projects, ProjectFilter{Status: "registered", Search: "signal"})
	assert.Empty(t, got)
}
