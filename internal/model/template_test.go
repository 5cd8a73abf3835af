package model

import (
	"testing"
)

func sampleRooms() []Room {
	bath := NewRoom("Banheiro", 2, 2, 127, 127)
	bath.Device = &Device{Name: "Chuveiro", PowerW: 5500, Voltage: 220}
	return []Room{
		NewRoom("Sala", 4, 5, 127, 127),
		bath,
	}
}

func TestNewProjectTemplate(t *testing.T) {
	tmpl := NewProjectTemplate("Apartment", "Two rooms", sampleRooms(), DefaultSettings())

	if tmpl.Name != "Apartment" {
		t.Errorf("expected name 'Apartment', got %q", tmpl.Name)
	}
	if tmpl.ID == "" {
		t.Error("expected non-empty ID")
	}
	if tmpl.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if len(tmpl.Rooms) != 2 {
		t.Errorf("expected 2 rooms, got %d", len(tmpl.Rooms))
	}
}

func TestNewProjectTemplate_NilRooms(t *testing.T) {
	tmpl := NewProjectTemplate("Empty", "", nil, DefaultSettings())
	if tmpl.Rooms == nil {
		t.Error("expected non-nil rooms slice")
	}
}

func TestProjectTemplate_ToProject(t *testing.T) {
	settings := DefaultSettings()
	settings.AmbientTempC = 35
	rooms := sampleRooms()

	tmpl := NewProjectTemplate("Test", "desc", rooms, settings)
	proj := tmpl.ToProject("My Project")

	if proj.Name != "My Project" {
		t.Errorf("expected 'My Project', got %q", proj.Name)
	}
	if len(proj.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(proj.Rooms))
	}
	if proj.Rooms[0].ID == rooms[0].ID {
		t.Error("expected fresh room IDs")
	}
	if proj.Rooms[1].Device == nil || proj.Rooms[1].Device.PowerW != 5500 {
		t.Error("expected device to be carried over")
	}
	if proj.Settings.AmbientTempC != 35 {
		t.Errorf("expected ambient 35, got %d", proj.Settings.AmbientTempC)
	}
	if proj.Schedule != nil {
		t.Error("template project should not carry a schedule")
	}
}

func TestTemplateStore_AddFindRemove(t *testing.T) {
	store := NewTemplateStore()
	t1 := NewProjectTemplate("T1", "First", nil, DefaultSettings())
	t2 := NewProjectTemplate("T2", "Second", nil, DefaultSettings())
	store.Add(t1)
	store.Add(t2)

	if got := store.FindByID(t2.ID); got == nil || got.Name != "T2" {
		t.Error("expected to find T2 by ID")
	}
	if got := store.FindByName("T1"); got == nil || got.ID != t1.ID {
		t.Error("expected to find T1 by name")
	}
	if store.FindByName("nope") != nil {
		t.Error("expected nil for unknown name")
	}

	names := store.Names()
	if len(names) != 2 || names[0] != "T1" || names[1] != "T2" {
		t.Errorf("unexpected names %v", names)
	}

	if !store.Remove(t1.ID) {
		t.Error("expected Remove to succeed")
	}
	if store.Remove(t1.ID) {
		t.Error("expected second Remove to fail")
	}
	if len(store.Templates) != 1 {
		t.Errorf("expected 1 template left, got %d", len(store.Templates))
	}
}
