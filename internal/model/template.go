package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectTemplate is a reusable room list with its design settings,
// e.g. a standard two-bedroom apartment. It never carries a schedule.
type ProjectTemplate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	Rooms       []Room         `json:"rooms"`
	Settings    DesignSettings `json:"settings"`
}

// NewProjectTemplate creates a new template from the given project data.
func NewProjectTemplate(name, description string, rooms []Room, settings DesignSettings) ProjectTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	cp := CloneRooms(rooms)
	if cp == nil {
		cp = []Room{}
	}
	return ProjectTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Rooms:       cp,
		Settings:    settings,
	}
}

// ToProject creates a new Project from this template.
// Rooms get fresh IDs so they are independent of the template.
func (t ProjectTemplate) ToProject(projectName string) Project {
	rooms := make([]Room, len(t.Rooms))
	for i, r := range t.Rooms {
		rooms[i] = NewRoom(r.Name, r.Width, r.Length, r.LightingVoltage, r.OutletVoltage)
		if r.Device != nil {
			d := *r.Device
			rooms[i].Device = &d
		}
	}

	return Project{
		Name:     projectName,
		Rooms:    rooms,
		Settings: t.Settings,
	}
}

// TemplateStore holds a collection of project templates.
type TemplateStore struct {
	Templates []ProjectTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []ProjectTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t ProjectTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns the template names in store order.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}
