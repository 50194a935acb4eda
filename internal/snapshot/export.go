// Package snapshot exports the catalog collections as indented JSON files,
// on demand (console export) or on a cron schedule (API process).
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"
)

// FileName returns the export name for a resource on the given day,
// e.g. records_export_2026-01-31.json.
func FileName(resource string, t time.Time) string {
	return fmt.Sprintf("%s_export_%s.json", resource, t.Format(time.DateOnly))
}

// Encode renders docs as JSON indented by two spaces.
func Encode(docs any) ([]byte, error) {
	b, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return b, nil
}
