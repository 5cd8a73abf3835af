package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Name,Width,Length\nSala,4,5\nQuarto,3,3\n", ','},
		{"semicolon", "Nome;Largura;Comprimento\nSala;4,5;5\nQuarto;3;3\n", ';'},
		{"tab", "Name\tWidth\tLength\nSala\t4\t5\n", '\t'},
		{"pipe", "Name|Width|Length\nSala|4|5\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q delimiter, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Name", "Width", "Length", "Lighting Voltage", "Outlet Voltage", "Device", "Power", "Device Voltage"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{0, 1, 2, 3, 4, 5, 6, 7}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_PortugueseReordered(t *testing.T) {
	row := []string{"COMPRIMENTO", "Cômodo", "Largura", "Potência", "Equipamento"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Length != 0 || mapping.Name != 1 || mapping.Width != 2 {
		t.Errorf("unexpected geometry mapping %+v", mapping)
	}
	if mapping.Power != 3 || mapping.Device != 4 {
		t.Errorf("unexpected device mapping %+v", mapping)
	}
	if mapping.LightingVoltage != -1 || mapping.DeviceVoltage != -1 {
		t.Errorf("absent columns should be -1, got %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Sala", "4", "5"})

	if isHeader {
		t.Error("expected no header detection for numeric data")
	}
	if mapping != positionalMapping {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Name,Width,Length,Lighting Voltage,Outlet Voltage\nSala,4,5,127,127\nCozinha,3,4,220,220V\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(result.Rooms))
	}

	sala := result.Rooms[0]
	if sala.Name != "Sala" || sala.Width != 4 || sala.Length != 5 {
		t.Errorf("unexpected first room %+v", sala)
	}
	if sala.ID == "" {
		t.Error("expected generated room id")
	}
	if result.Rooms[1].LightingVoltage != 220 || result.Rooms[1].OutletVoltage != 220 {
		t.Errorf("expected 220 V kitchen, got %+v", result.Rooms[1])
	}
}

func TestImportCSVFromReader_PositionalUsesDefaults(t *testing.T) {
	opts := DefaultOptions()
	opts.OutletVoltage = 220

	result := ImportCSVFromReader(strings.NewReader("Sala,4,5\nQuarto,3,3\n"), ',', opts)

	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	for _, r := range result.Rooms {
		if r.LightingVoltage != 127 || r.OutletVoltage != 220 {
			t.Errorf("expected default voltages 127/220, got %d/%d", r.LightingVoltage, r.OutletVoltage)
		}
		if r.Device != nil {
			t.Errorf("expected no device for %s", r.Name)
		}
	}
}

func TestImportCSVFromReader_DecimalComma(t *testing.T) {
	data := "Nome;Largura;Comprimento\nBanheiro;1,5;2,4\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';', DefaultOptions())

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	if result.Rooms[0].Width != 1.5 || result.Rooms[0].Length != 2.4 {
		t.Errorf("expected 1.5 x 2.4, got %v x %v", result.Rooms[0].Width, result.Rooms[0].Length)
	}
}

func TestImportCSVFromReader_DeviceFromCatalog(t *testing.T) {
	data := "Nome;Largura;Comprimento;Equipamento\nBanheiro;2;2;chuveiro\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';', DefaultOptions())

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	d := result.Rooms[0].Device
	if d == nil {
		t.Fatal("expected device")
	}
	if d.Name != "Chuveiro" || d.PowerW != 5500 || d.Voltage != 220 {
		t.Errorf("expected catalog shower 5500 W 220 V, got %+v", *d)
	}
}

func TestImportCSVFromReader_DeviceExplicitPower(t *testing.T) {
	data := "Name,Width,Length,Outlet Voltage,Device,Power\nQuarto,3,3,127,Aquecedor,1500\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	d := result.Rooms[0].Device
	if d == nil || d.PowerW != 1500 || d.Voltage != 127 {
		t.Errorf("expected 1500 W device at outlet voltage, got %+v", d)
	}
}

func TestImportCSVFromReader_UnknownDeviceWithoutPower(t *testing.T) {
	data := "Name,Width,Length,Device\nQuarto,3,3,Sauna\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())

	if len(result.Rooms) != 0 {
		t.Errorf("expected no rooms, got %d", len(result.Rooms))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "not in the catalog") {
		t.Errorf("expected catalog error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"width", "Sala,abc,5", "Invalid width"},
		{"missing length", "Sala,4,", "Missing length"},
		{"negative", "Sala,-4,5", "must be positive"},
		{"voltage", "Sala,4,5,380", "unsupported lighting voltage"},
		{"voltage text", "Sala,4,5,x", "Invalid lighting voltage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := "Name,Width,Length,Lighting Voltage\n" + tt.row + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())
			if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Name,Width,Length\nSala,4,5\nBad,x,5\n\nQuarto,3,3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())

	if len(result.Rooms) != 2 {
		t.Errorf("expected 2 valid rooms, got %d", len(result.Rooms))
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Line 3") {
		t.Errorf("expected one error on line 3, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyName(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Width,Length\n,4,5\n"), ',', DefaultOptions())

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	if result.Rooms[0].Name != "Room 1" {
		t.Errorf("expected default name 'Room 1', got %q", result.Rooms[0].Name)
	}
}

func TestImportCSVFromReader_MissingRequiredColumn(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Width\nSala,4\n"), ',', DefaultOptions())

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Length") {
		t.Errorf("expected missing Length column error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',', DefaultOptions())

	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rooms.csv")
	if err := os.WriteFile(path, []byte("Nome;Largura;Comprimento\nSala;4;5\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path, DefaultOptions())

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/rooms.csv", DefaultOptions())

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if result := ImportCSV(path, DefaultOptions()); len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rooms.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, ref, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]any{
		{"Cômodo", "Largura", "Comprimento", "Tensão Tomadas", "Equipamento", "Potência"},
		{"Cozinha", 3.5, 4, 220, "Forno Eletrico", ""},
		{"Sala", 4, 5, 127},
	})

	result := ImportExcel(path, DefaultOptions())

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(result.Rooms))
	}
	k := result.Rooms[0]
	if k.Width != 3.5 || k.OutletVoltage != 220 {
		t.Errorf("unexpected kitchen %+v", k)
	}
	if k.Device == nil || k.Device.PowerW != 4000 {
		t.Errorf("expected catalog oven, got %+v", k.Device)
	}
	if result.Rooms[1].Device != nil {
		t.Error("expected no device for Sala")
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]any{
		{"Name", "Width", "Length"},
		{"Sala", "abc", 5},
	})

	if result := ImportExcel(path, DefaultOptions()); len(result.Errors) == 0 {
		t.Error("expected error for invalid width")
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	if result := ImportExcel("/nonexistent/rooms.xlsx", DefaultOptions()); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportFile_DispatchesByExtension(t *testing.T) {
	path := createTestExcel(t, [][]any{{"Sala", 4, 5}})

	result := ImportFile(path, DefaultOptions())
	if len(result.Rooms) != 1 {
		t.Fatalf("expected xlsx import of 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}

	if result := ImportFile("/nonexistent/plan.DXF", DefaultOptions()); len(result.Errors) == 0 ||
		!strings.Contains(result.Errors[0], "DXF") {
		t.Errorf("expected DXF open error, got %v", result.Errors)
	}
}

// ─── Helpers ───────────────────────────────────────────────

func TestParseVoltage(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 127, false},
		{"220", 220, false},
		{"220V", 220, false},
		{" 127 v ", 127, false},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseVoltage(tt.in, 127)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseVoltage(%q): unexpected error state %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseVoltage(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
