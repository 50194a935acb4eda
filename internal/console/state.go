package console

import "github.com/tearaglass/godscruiseline/internal/catalog/domain"

// Kind names a resource type.
type Kind string

const (
	KindRecord  Kind = "record"
	KindProject Kind = "project"
)

// Label returns the capitalised resource name used in notices.
func (k Kind) Label() string {
	if k == KindProject {
		return "Project"
	}
	return "Record"
}

// Modal is the dialog currently open, if any.
type Modal string

const (
	ModalNone    Modal = ""
	ModalRecord  Modal = "record"
	ModalProject Modal = "project"
	ModalPublish Modal = "publish"
	ModalDelete  Modal = "delete"
)

// Source tells where a collection's data came from.
type Source string

const (
	SourceNone  Source = ""
	SourceLive  Source = "live"
	SourceLocal Source = "local"
)

// Notice is a transient status line.
type Notice struct {
	Text  string
	Error bool
}

// DeleteTarget is the resource awaiting delete confirmation.
type DeleteTarget struct {
	Kind Kind
	ID   string
}

// State is the console session. It is owned by a Controller and passed to
// the renderer; nothing here is process-global.
type State struct {
	Records  []domain.Record
	Projects []domain.Project

	RecordsSource  Source
	ProjectsSource Source

	EditingRecordID  string
	EditingProjectID string
	PendingDelete    *DeleteTarget
	Publishing       *domain.Project

	Modal      Modal
	ModalError string

	RecordFilter  RecordFilter
	ProjectFilter ProjectFilter

	Notices []Notice
}

func (s *State) notify(text string, isError bool) {
	s.Notices = append(s.Notices, Notice{Text: text, Error: isError})
}

// LastNotice returns the most recent notice, or a zero Notice.
func (s *State) LastNotice() Notice {
	if len(s.Notices) == 0 {
		return Notice{}
	}
	return s.Notices[len(s.Notices)-1]
}

// FilteredRecords applies the current record filter.
func (s *State) FilteredRecords() []domain.Record {
	return FilterRecords(s.Records, s.RecordFilter)
}

// FilteredProjects applies the current project filter.
func (s *State) FilteredProjects() []domain.Project {
	return FilterProjects(s.Projects, s.ProjectFilter)
}

// KeyEditable reports whether the key field of kind's form may be changed:
// only outside an edit session.
func (s *State) KeyEditable(kind Kind) bool {
	if kind == KindProject {
		return s.EditingProjectID == ""
	}
	return s.EditingRecordID == ""
}
