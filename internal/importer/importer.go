// Package importer reads room lists from CSV, Excel and DXF files.
// Spreadsheet imports detect the delimiter and map columns by header name,
// accepting English and Portuguese headers in any order.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// ImportResult holds the results of an import operation. Row-level problems
// are collected in Errors and Warnings; valid rows are still imported.
type ImportResult struct {
	Rooms    []model.Room
	Errors   []string
	Warnings []string
}

// Options supplies values for columns a file leaves empty.
type Options struct {
	LightingVoltage int
	OutletVoltage   int
	Catalog         *model.Catalog // resolves devices given without power
	Scale           float64        // DXF drawing units to metres
}

// DefaultOptions returns 127 V lighting and outlets, the default device
// catalog and metre drawing units.
func DefaultOptions() Options {
	catalog := model.DefaultCatalog()
	return Options{
		LightingVoltage: 127,
		OutletVoltage:   127,
		Catalog:         &catalog,
		Scale:           1,
	}
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A negative index means the column is absent.
type ColumnMapping struct {
	Name            int
	Width           int
	Length          int
	LightingVoltage int
	OutletVoltage   int
	Device          int
	Power           int
	DeviceVoltage   int
}

// positionalMapping is used for files without a header row.
var positionalMapping = ColumnMapping{
	Name:            0,
	Width:           1,
	Length:          2,
	LightingVoltage: 3,
	OutletVoltage:   4,
	Device:          5,
	Power:           6,
	DeviceVoltage:   7,
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":             {"name", "room", "room name", "nome", "comodo", "cômodo", "ambiente"},
	"width":            {"width", "w", "largura", "width (m)", "largura (m)"},
	"length":           {"length", "l", "comprimento", "length (m)", "comprimento (m)"},
	"lighting_voltage": {"lighting voltage", "lighting v", "lighting", "tensao iluminacao", "tensão iluminação"},
	"outlet_voltage":   {"outlet voltage", "outlet v", "outlets", "tensao tomadas", "tensão tomadas"},
	"device":           {"device", "appliance", "equipment", "equipamento", "aparelho"},
	"power":            {"power", "power (w)", "watts", "potencia", "potência", "potencia (w)", "potência (w)"},
	"device_voltage":   {"device voltage", "device v", "tensao equipamento", "tensão equipamento"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	best := ','
	bestScore := 0

	for _, delim := range candidates {
		records, err := readCSV(bytes.NewReader(data), delim)
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			best = delim
		}
	}

	return best
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case-insensitive against known aliases for each role.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				setFirst(mapping.field(role), i)
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

func (m *ColumnMapping) field(role string) *int {
	switch role {
	case "name":
		return &m.Name
	case "width":
		return &m.Width
	case "length":
		return &m.Length
	case "lighting_voltage":
		return &m.LightingVoltage
	case "outlet_voltage":
		return &m.OutletVoltage
	case "device":
		return &m.Device
	case "power":
		return &m.Power
	default:
		return &m.DeviceVoltage
	}
}

func setFirst(dst *int, i int) {
	if *dst == -1 {
		*dst = i
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber accepts both "3.5" and the decimal comma form "3,5".
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// parseVoltage reads an optional voltage cell, accepting a trailing "V".
func parseVoltage(s string, fallback int) (int, error) {
	s = strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(s)), "V")
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}

// parseRow extracts a Room from a row using the given column mapping.
// Returns the room, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, roomCount int, opts Options) (model.Room, string, string) {
	var warning string

	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Room %d", roomCount+1)
		warning = fmt.Sprintf("%s: Missing room name, using '%s'", rowLabel, name)
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.Room{}, fmt.Sprintf("%s: Missing width value", rowLabel), ""
	}
	width, err := parseNumber(widthStr)
	if err != nil {
		return model.Room{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), ""
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.Room{}, fmt.Sprintf("%s: Missing length value", rowLabel), ""
	}
	length, err := parseNumber(lengthStr)
	if err != nil {
		return model.Room{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), ""
	}

	lightingStr := getCell(row, mapping.LightingVoltage)
	lightingV, err := parseVoltage(lightingStr, opts.LightingVoltage)
	if err != nil {
		return model.Room{}, fmt.Sprintf("%s: Invalid lighting voltage '%s'", rowLabel, lightingStr), ""
	}
	outletStr := getCell(row, mapping.OutletVoltage)
	outletV, err := parseVoltage(outletStr, opts.OutletVoltage)
	if err != nil {
		return model.Room{}, fmt.Sprintf("%s: Invalid outlet voltage '%s'", rowLabel, outletStr), ""
	}

	room := model.NewRoom(name, width, length, lightingV, outletV)

	if deviceName := getCell(row, mapping.Device); deviceName != "" {
		device, errMsg := parseDevice(row, mapping, rowLabel, deviceName, outletV, opts)
		if errMsg != "" {
			return model.Room{}, errMsg, ""
		}
		room.Device = &device
	}

	if err := room.Validate(); err != nil {
		return model.Room{}, fmt.Sprintf("%s: %v", rowLabel, err), ""
	}

	return room, "", warning
}

// parseDevice builds the room's fixed appliance. A device without power is
// looked up in the catalog; its voltage defaults to the preset's, then to the
// room's outlet voltage.
func parseDevice(row []string, mapping ColumnMapping, rowLabel, name string, outletV int, opts Options) (model.Device, string) {
	var preset *model.DevicePreset
	if opts.Catalog != nil {
		preset = opts.Catalog.FindByName(name)
	}

	device := model.Device{Name: name, Voltage: outletV}
	if preset != nil {
		device = preset.ToDevice()
	}

	powerStr := getCell(row, mapping.Power)
	switch {
	case powerStr != "":
		power, err := parseNumber(powerStr)
		if err != nil {
			return model.Device{}, fmt.Sprintf("%s: Invalid power '%s'", rowLabel, powerStr)
		}
		device.PowerW = power
	case preset == nil:
		return model.Device{}, fmt.Sprintf("%s: Device '%s' has no power and is not in the catalog", rowLabel, name)
	}

	voltageStr := getCell(row, mapping.DeviceVoltage)
	v, err := parseVoltage(voltageStr, device.Voltage)
	if err != nil {
		return model.Device{}, fmt.Sprintf("%s: Invalid device voltage '%s'", rowLabel, voltageStr)
	}
	device.Voltage = v

	return device, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportCSV imports rooms from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, opts Options) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings, opts)
}

// ImportCSVFromReader imports rooms from a CSV reader with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune, opts Options) ImportResult {
	result := ImportResult{}

	records, err := readCSV(r, delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil, opts)
}

// ImportExcel imports rooms from the first sheet of an .xlsx workbook.
func ImportExcel(path string, opts Options) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil, opts)
}

// ImportFile dispatches on the file extension.
func ImportFile(path string, opts Options) ImportResult {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xlsm"):
		return ImportExcel(path, opts)
	case strings.HasSuffix(lower, ".dxf"):
		return ImportDXF(path, opts)
	default:
		return ImportCSV(path, opts)
	}
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, opts Options) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognized header still has a non-numeric width column.
		if _, err := parseNumber(strings.TrimSpace(rows[0][1])); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		room, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Rooms), opts)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Rooms = append(result.Rooms, room)
	}

	return result
}
