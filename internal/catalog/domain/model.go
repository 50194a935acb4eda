package domain

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Record is a single archival entry.
// It is storage-agnostic and shared by the repository, HTTP and console layers.
type Record struct {
	ID       string     `json:"id" yaml:"id"`
	Title    string     `json:"title" yaml:"title"`
	Division string     `json:"division" yaml:"division"`
	Medium   string     `json:"medium" yaml:"medium"`
	Year     int        `json:"year" yaml:"year"`
	Status   string     `json:"status" yaml:"status"`
	Author   StringList `json:"author" yaml:"author"`
	Tags     StringList `json:"tags" yaml:"tags"`
	Project  StringList `json:"project" yaml:"project"`
	Content  *string    `json:"content" yaml:"content"`
	Archival *Archival  `json:"archival" yaml:"archival"`
}

// Archival describes the decay/archival status of a record. The core never validates it.
type Archival struct {
	State string `json:"state,omitempty" yaml:"state"`
	Since *int   `json:"since,omitempty" yaml:"since"`
	Note  string `json:"note,omitempty" yaml:"note"`
}

// Project is an initiative that records may reference by id.
type Project struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description *string `json:"description" yaml:"description"`
	Status      string  `json:"status" yaml:"status"`
	StartYear   *int    `json:"start_year" yaml:"start_year"`
	EndYear     *int    `json:"end_year" yaml:"end_year"`
}

// UnmarshalJSON also accepts the camelCased year keys found in older exports.
// Fields missing from the input keep their current value, so decoding onto
// a stored project merges a partial document.
func (p *Project) UnmarshalJSON(b []byte) error {
	type plain Project
	aux := struct {
		*plain
		StartYearAlt *int `json:"startYear"`
		EndYearAlt   *int `json:"endYear"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.StartYearAlt != nil {
		p.StartYear = aux.StartYearAlt
	}
	if aux.EndYearAlt != nil {
		p.EndYear = aux.EndYearAlt
	}
	return nil
}

// UnmarshalYAML is UnmarshalJSON for the bundled seed files.
func (p *Project) UnmarshalYAML(value *yaml.Node) error {
	type plain Project
	aux := struct {
		plain        `yaml:",inline"`
		StartYearAlt *int `yaml:"startYear"`
		EndYearAlt   *int `yaml:"endYear"`
	}{plain: plain(*p)}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	*p = Project(aux.plain)
	if aux.StartYearAlt != nil {
		p.StartYear = aux.StartYearAlt
	}
	if aux.EndYearAlt != nil {
		p.EndYear = aux.EndYearAlt
	}
	return nil
}

// Key returns the primary key.
func (r Record) Key() string { return r.ID }

// Key returns the primary key.
func (p Project) Key() string { return p.ID }

// Missing lists the required record fields that are absent, in declaration order.
// Zero values count as absent.
func (r Record) Missing() []string {
	var out []string
	if r.ID == "" {
		out = append(out, "id")
	}
	if r.Title == "" {
		out = append(out, "title")
	}
	if r.Division == "" {
		out = append(out, "division")
	}
	if r.Medium == "" {
		out = append(out, "medium")
	}
	if r.Year == 0 {
		out = append(out, "year")
	}
	if r.Status == "" {
		out = append(out, "status")
	}
	return out
}

// Missing lists the required project fields that are absent.
func (p Project) Missing() []string {
	var out []string
	if p.ID == "" {
		out = append(out, "id")
	}
	if p.Name == "" {
		out = append(out, "name")
	}
	if p.Status == "" {
		out = append(out, "status")
	}
	return out
}
