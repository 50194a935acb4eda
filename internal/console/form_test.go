package console

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

func TestCoerceRecord(t *testing.T) {
	form := Form{
		"id":             " GC-R-100 ",
		"title":          "T",
		"division":       "access",
		"medium":         "text",
		"year":           "2026",
		"status":         "public",
		"author":         " a , ,b ",
		"tags":           " , ",
		"project":        "",
		"content":        "   ",
		"archival_state": "decayed",
		"archival_since": "2024",
		"unknown":        "ignored",
	}
	doc, err := Coerce(form, RecordFields)
	require.NoError(t, err)
	assert.Equal(t, Document{
		"id":       "GC-R-100",
		"title":    "T",
		"division": "access",
		"medium":   "text",
		"year":     2026,
		"status":   "public",
		"author":   []string{"a", "b"},
		"archival": Document{"state": "decayed", "since": 2024},
	}, doc)
}

func TestCoerceOmitsEmptyForPartialUpdates(t *testing.T) {
	doc, err := Coerce(Form{"status": "archived"}, RecordFields)
	require.NoError(t, err)
	assert.Equal(t, Document{"status": "archived"}, doc)
}

func TestCoerceRejectsNonIntegers(t *testing.T) {
	_, err := Coerce(Form{"start_year": "twenty"}, ProjectFields)
	var cerr *CoerceError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "start_year", cerr.Field)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"x", "y"}, SplitList("x,y"))
	assert.Equal(t, []string{"x"}, SplitList(" x ,"))
	assert.Nil(t, SplitList(" , "))
	assert.Nil(t, SplitList(""))
}

func TestRecordFormRoundTrip(t *testing.T) {
	since := 2025
	content := "body"
	r := domain.Record{
		ID: "GC-R-004", Title: "Ledger", Division: "narrative", Medium: "dataset", Year: 2024, Status: "authorized",
		Tags: domain.StringList{"a", "b"}, Project: domain.StringList{"continuity-ledger"}, Content: &content,
		Archival: &domain.Archival{State: "archived", Since: &since, Note: "n"},
	}
	f := RecordForm(r)
	assert.Equal(t, "a, b", f["tags"])
	assert.Equal(t, "2025", f["archival_since"])

	doc, err := Coerce(f, RecordFields)
	require.NoError(t, err)
	assert.Equal(t, []string{"continuity-ledger"}, doc["project"])
	assert.Equal(t, Document{"state": "archived", "since": 2025, "note": "n"}, doc["archival"])
	assert.Equal(t, 2024, doc["year"])
}

func TestPublishForm(t *testing.T) {
	p := domain.Project{ID: "signal-architecture", Name: "Signal Architecture", Status: "public"}
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	f := PublishForm(p, now)
	assert.Equal(t, Form{
		"title":   "Signal Architecture",
		"year":    "2026",
		"status":  "public",
		"project": "signal-architecture",
	}, f)

	doc, err := Coerce(f.Merge(Form{"id": "GC-R-200"}), PublishFields)
	require.NoError(t, err)
	assert.Equal(t, []string{"signal-architecture"}, doc["project"])
	assert.Equal(t, 2026, doc["year"])
	assert.NotContains(t, doc, "content")
}
