package console

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
	"github.com/tearaglass/godscruiseline/internal/seed"
	"github.com/tearaglass/godscruiseline/internal/snapshot"
)

const localDataNotice = "Using local data (API unavailable)"

// Controller drives the console workflows over a State. Every successful
// mutation re-fetches the affected collection instead of patching state.
type Controller struct {
	State *State

	records  *Collection[domain.Record]
	projects *Collection[domain.Project]

	seedRecords  func() ([]domain.Record, error)
	seedProjects func() ([]domain.Project, error)

	now func() time.Time
	log *zap.Logger
}

func NewController(client *Client, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		State:        &State{},
		records:      client.Records(),
		projects:     client.Projects(),
		seedRecords:  seed.Records,
		seedProjects: seed.Projects,
		now:          time.Now,
		log:          log,
	}
}

// Load fetches both collections.
func (c *Controller) Load(ctx context.Context) error {
	return errors.Join(c.FetchRecords(ctx), c.FetchProjects(ctx))
}

// FetchRecords replaces the record list with the server's. When the API is
// unreachable the bundled dataset is used instead and the source is marked
// local. A failure envelope leaves the current list untouched.
func (c *Controller) FetchRecords(ctx context.Context) error {
	docs, err := c.records.List(ctx)
	if err == nil {
		c.State.Records, c.State.RecordsSource = docs, SourceLive
		return nil
	}
	c.State.notify("Error: "+failureText(err, "Failed to fetch records"), true)
	if !IsTransport(err) {
		return err
	}

	c.log.Warn("records unavailable, using bundled data", zap.Error(err))
	local, serr := c.seedRecords()
	if serr != nil {
		c.State.notify("Failed to load records", true)
		return errors.Join(err, serr)
	}
	c.State.Records, c.State.RecordsSource = local, SourceLocal
	c.State.notify(localDataNotice, false)
	return nil
}

// FetchProjects is FetchRecords for projects.
func (c *Controller) FetchProjects(ctx context.Context) error {
	docs, err := c.projects.List(ctx)
	if err == nil {
		c.State.Projects, c.State.ProjectsSource = docs, SourceLive
		return nil
	}
	c.State.notify("Error: "+failureText(err, "Failed to fetch projects"), true)
	if !IsTransport(err) {
		return err
	}

	c.log.Warn("projects unavailable, using bundled data", zap.Error(err))
	local, serr := c.seedProjects()
	if serr != nil {
		c.State.notify("Failed to load projects", true)
		return errors.Join(err, serr)
	}
	c.State.Projects, c.State.ProjectsSource = local, SourceLocal
	c.State.notify(localDataNotice, false)
	return nil
}

// GetRecord fetches one record by id. When the API is unreachable it looks
// the id up in the bundled dataset instead.
func (c *Controller) GetRecord(ctx context.Context, id string) (domain.Record, error) {
	r, err := c.records.Get(ctx, id)
	if err == nil {
		return r, nil
	}
	if !IsTransport(err) {
		c.State.notify("Error: "+failureText(err, "Failed to fetch record"), true)
		return domain.Record{}, err
	}
	if ferr := c.FetchRecords(ctx); ferr != nil {
		return domain.Record{}, ferr
	}
	for _, r := range c.State.Records {
		if r.ID == id {
			return r, nil
		}
	}
	c.State.notify("Error: Record not found", true)
	return domain.Record{}, fmt.Errorf("record %q not found", id)
}

// OpenNewRecord opens an empty record form; the key is editable.
func (c *Controller) OpenNewRecord() Form {
	c.State.EditingRecordID = ""
	c.openModal(ModalRecord)
	return Form{}
}

// OpenEditRecord opens the form for a loaded record. The key stays fixed
// until the dialog closes.
func (c *Controller) OpenEditRecord(id string) (Form, error) {
	for _, r := range c.State.Records {
		if r.ID == id {
			c.State.EditingRecordID = id
			c.openModal(ModalRecord)
			return RecordForm(r), nil
		}
	}
	return nil, fmt.Errorf("record %q is not loaded", id)
}

// SubmitRecord creates or updates depending on the edit session.
func (c *Controller) SubmitRecord(ctx context.Context, form Form) error {
	doc, err := Coerce(form, RecordFields)
	if err != nil {
		c.State.ModalError = err.Error()
		return err
	}

	editing := c.State.EditingRecordID
	if editing != "" {
		doc["id"] = editing
		_, err = c.records.Update(ctx, doc)
	} else {
		_, err = c.records.Create(ctx, doc)
	}
	if err != nil {
		c.modalFailure(err, "Operation failed")
		return err
	}

	c.CloseModal()
	if editing != "" {
		c.State.notify("Record updated", false)
	} else {
		c.State.notify("Record created", false)
	}
	return c.FetchRecords(ctx)
}

// OpenNewProject opens an empty project form.
func (c *Controller) OpenNewProject() Form {
	c.State.EditingProjectID = ""
	c.openModal(ModalProject)
	return Form{}
}

// OpenEditProject opens the form for a loaded project.
func (c *Controller) OpenEditProject(id string) (Form, error) {
	p, ok := c.findProject(id)
	if !ok {
		return nil, fmt.Errorf("project %q is not loaded", id)
	}
	c.State.EditingProjectID = id
	c.openModal(ModalProject)
	return ProjectForm(p), nil
}

// SubmitProject creates or updates depending on the edit session.
func (c *Controller) SubmitProject(ctx context.Context, form Form) error {
	doc, err := Coerce(form, ProjectFields)
	if err != nil {
		c.State.ModalError = err.Error()
		return err
	}

	editing := c.State.EditingProjectID
	if editing != "" {
		doc["id"] = editing
		_, err = c.projects.Update(ctx, doc)
	} else {
		_, err = c.projects.Create(ctx, doc)
	}
	if err != nil {
		c.modalFailure(err, "Operation failed")
		return err
	}

	c.CloseModal()
	if editing != "" {
		c.State.notify("Project updated", false)
	} else {
		c.State.notify("Project created", false)
	}
	return c.FetchProjects(ctx)
}

// OpenPublish starts deriving a record from a loaded project and returns
// the pre-filled form.
func (c *Controller) OpenPublish(projectID string) (Form, error) {
	p, ok := c.findProject(projectID)
	if !ok {
		return nil, fmt.Errorf("project %q is not loaded", projectID)
	}
	c.State.Publishing = &p
	c.openModal(ModalPublish)
	return PublishForm(p, c.now()), nil
}

// SubmitPublish always creates a record; re-publishing under an existing
// record id hits the conflict error.
func (c *Controller) SubmitPublish(ctx context.Context, form Form) error {
	doc, err := Coerce(form, PublishFields)
	if err != nil {
		c.State.ModalError = err.Error()
		return err
	}

	created, err := c.records.Create(ctx, doc)
	if err != nil {
		c.modalFailure(err, "Publish failed")
		return err
	}

	c.CloseModal()
	c.State.notify(fmt.Sprintf("Record %s created from project", created.ID), false)
	return c.FetchRecords(ctx)
}

// RequestDelete records the target and opens the confirmation. Nothing is
// sent until ConfirmDelete.
func (c *Controller) RequestDelete(kind Kind, id string) {
	c.State.PendingDelete = &DeleteTarget{Kind: kind, ID: id}
	c.openModal(ModalDelete)
}

// ConfirmDelete sends the pending delete. The confirmation closes whatever
// the outcome; only the notice reports it.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	target := c.State.PendingDelete
	if target == nil || target.ID == "" {
		return nil
	}
	c.CloseModal()

	var err error
	if target.Kind == KindProject {
		_, err = c.projects.Delete(ctx, target.ID)
	} else {
		_, err = c.records.Delete(ctx, target.ID)
	}
	if err != nil {
		if IsTransport(err) {
			c.State.notify("Error: "+err.Error(), true)
		} else {
			c.State.notify(failureText(err, "Delete failed"), true)
		}
		return err
	}

	c.State.notify(target.Kind.Label()+" deleted", false)
	if target.Kind == KindProject {
		return c.FetchProjects(ctx)
	}
	return c.FetchRecords(ctx)
}

// CloseModal dismisses any dialog and ends edit, publish and delete sessions.
func (c *Controller) CloseModal() {
	c.State.Modal = ModalNone
	c.State.ModalError = ""
	c.State.EditingRecordID = ""
	c.State.EditingProjectID = ""
	c.State.Publishing = nil
	c.State.PendingDelete = nil
}

// ExportRecords writes the filtered record view to dir as
// records_export_<date>.json and returns the path.
func (c *Controller) ExportRecords(ctx context.Context, dir string) (string, error) {
	return c.export(ctx, dir, "records", c.State.FilteredRecords(), "Records exported")
}

// ExportProjects writes the filtered project view to dir.
func (c *Controller) ExportProjects(ctx context.Context, dir string) (string, error) {
	return c.export(ctx, dir, "projects", c.State.FilteredProjects(), "Projects exported")
}

func (c *Controller) export(ctx context.Context, dir, resource string, docs any, notice string) (string, error) {
	data, err := snapshot.Encode(docs)
	if err != nil {
		return "", err
	}
	p, err := snapshot.DirSink{Dir: dir}.Put(ctx, snapshot.FileName(resource, c.now()), data)
	if err != nil {
		return "", err
	}
	c.State.notify(notice, false)
	return p, nil
}

func (c *Controller) openModal(m Modal) {
	c.State.Modal = m
	c.State.ModalError = ""
}

// modalFailure keeps the dialog open and shows the failure inline.
func (c *Controller) modalFailure(err error, fallback string) {
	if IsTransport(err) {
		c.State.ModalError = "Error: " + err.Error()
		return
	}
	c.State.ModalError = failureText(err, fallback)
}

func (c *Controller) findProject(id string) (domain.Project, bool) {
	for _, p := range c.State.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

// failureText returns the server's message, or fallback when it sent none.
func failureText(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message == "" {
			return fallback
		}
		return apiErr.Message
	}
	return err.Error()
}
