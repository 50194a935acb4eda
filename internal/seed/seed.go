// Package seed holds the bundled read-only dataset used when the live API is
// unreachable, and by `migrate seed` to populate an empty store.
package seed

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

//go:embed data/*.yaml
var files embed.FS

// Records returns a fresh copy of the bundled records.
func Records() ([]domain.Record, error) {
	var out []domain.Record
	if err := decode("data/records.yaml", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Projects returns a fresh copy of the bundled projects.
func Projects() ([]domain.Project, error) {
	var out []domain.Project
	if err := decode("data/projects.yaml", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decode(name string, dst any) error {
	b, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read seed %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode seed %s: %w", name, err)
	}
	return nil
}
