package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CircuitSizer/internal/engine"
	"github.com/piwi3910/CircuitSizer/internal/model"
)

// buildTestSchedule dimensions a small house with one failing circuit.
func buildTestSchedule() model.Schedule {
	banheiro := model.NewRoom("Banheiro", 2, 2, 127, 127)
	banheiro.Device = &model.Device{Name: "Chuveiro", PowerW: 5500, Voltage: 220}
	sala := model.NewRoom("Sala de Estar", 4, 5, 127, 127)
	sala.Device = &model.Device{Name: "Caldeira", PowerW: 22000, Voltage: 220}

	rooms := []model.Room{
		model.NewRoom("Cozinha", 3, 4, 127, 127),
		banheiro,
		sala,
		model.NewRoom("Área Externa", 3, 6, 127, 220),
	}
	return engine.Dimension(rooms, model.DefaultSettings())
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memorial.pdf")

	err := ExportPDF(path, buildTestSchedule(), "Casa Modelo")
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptySchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportPDF(path, model.Schedule{}, "Empty"); err == nil {
		t.Fatal("expected error for empty schedule, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty schedule")
	}
}

func TestExportPDF_ManyRoomsPaginates(t *testing.T) {
	rooms := make([]model.Room, 60)
	for i := range rooms {
		rooms[i] = model.NewRoom("Quarto", 3, 3.5, 127, 127)
		if i%3 == 0 {
			rooms[i].Device = &model.Device{Name: "Ar Condicionado", PowerW: 1400, Voltage: 220}
		}
	}
	sched := engine.Dimension(rooms, model.DefaultSettings())

	path := filepath.Join(t.TempDir(), "big.pdf")
	if err := ExportPDF(path, sched, ""); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("PDF file missing or empty: %v", err)
	}
}

func TestSectionAndBreakerText(t *testing.T) {
	tests := []struct {
		c       model.Circuit
		section string
		breaker string
	}{
		{model.Circuit{Section: 1.5, Breaker: 6}, "1.5 mm²", "6 A"},
		{model.Circuit{Section: 2.5, Breaker: 10}, "2.5 mm²", "10 A"},
		{model.Circuit{Section: 10}, "10 mm²", "-"},
		{model.Circuit{}, "out of range", "-"},
	}
	for _, tt := range tests {
		if got := SectionText(tt.c); got != tt.section {
			t.Errorf("SectionText(%v) = %q, want %q", tt.c.Section, got, tt.section)
		}
		if got := BreakerText(tt.c); got != tt.breaker {
			t.Errorf("BreakerText(%d) = %q, want %q", tt.c.Breaker, got, tt.breaker)
		}
	}
}

func TestLoadText(t *testing.T) {
	if got := loadText(model.Circuit{Category: model.CategoryOutlet, TotalLoad: 1200}); got != "1200 VA" {
		t.Errorf("outlet load = %q", got)
	}
	if got := loadText(model.Circuit{Category: model.CategorySpecificLoad, TotalLoad: 5500}); got != "5500 W" {
		t.Errorf("appliance load = %q", got)
	}
}
