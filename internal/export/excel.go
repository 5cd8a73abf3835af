package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// Sheet names used by ExportExcel.
const (
	CircuitsSheet = "Circuits"
	RoomsSheet    = "Rooms"
	SummarySheet  = "Summary"
)

// CircuitsHeader is the header row of the Circuits sheet.
var CircuitsHeader = []string{
	"#", "Circuit", "Category", "Voltage (V)", "Load", "Ib (A)", "FCT", "FCA",
	"Required Ampacity (A)", "Section (mm²)", "Iz (A)", "Breaker (A)", "Status", "Fault",
}

// RoomsHeader is the header row of the Rooms sheet.
var RoomsHeader = []string{
	"Room", "Area (m²)", "Perimeter (m)", "Lighting (VA)", "Outlets", "Outlet Loads (VA)", "Outlets (VA)", "Fixed Appliance",
}

// ExportExcel writes the schedule to an .xlsx workbook with Circuits, Rooms
// and Summary sheets.
func ExportExcel(path string, sched model.Schedule, projectName string) error {
	f, err := buildWorkbook(sched, projectName)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func buildWorkbook(sched model.Schedule, projectName string) (*excelize.File, error) {
	f := excelize.NewFile()

	if _, err := f.NewSheet(CircuitsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	if index, err := f.GetSheetIndex(CircuitsSheet); err == nil {
		f.SetActiveSheet(index)
	}
	for _, name := range []string{RoomsSheet, SummarySheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	failStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFEBEE"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create status style: %w", err)
	}

	circuitRows := make([][]any, 0, len(sched.Circuits))
	for _, c := range sched.Circuits {
		circuitRows = append(circuitRows, []any{
			c.Index, c.Label, c.Category.String(), c.Voltage, c.TotalLoad, round2(c.DesignCurrent),
			c.FCT, c.FCA, round2(c.RequiredAmpacity), optional(c.Section, c.HasSection()),
			optional(round2(c.CorrectedAmpacity), c.HasSection()), optional(float64(c.Breaker), c.HasBreaker()),
			string(c.Status), string(c.Fault),
		})
	}
	if err := writeTable(f, CircuitsSheet, CircuitsHeader, circuitRows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	for i, c := range sched.Circuits {
		if c.Status == model.StatusOK {
			continue
		}
		first, _ := excelize.CoordinatesToCellName(1, i+2)
		last, _ := excelize.CoordinatesToCellName(len(CircuitsHeader), i+2)
		if err := f.SetCellStyle(CircuitsSheet, first, last, failStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set status style: %w", err)
		}
	}

	roomRows := make([][]any, 0, len(sched.Rooms))
	for _, r := range sched.Rooms {
		roomRows = append(roomRows, []any{
			r.Name, round2(r.Area), round2(r.Perimeter), r.LightingVA, len(r.OutletLoads),
			formatLoads(r.OutletLoads), r.OutletVA(), r.Device,
		})
	}
	if err := writeTable(f, RoomsSheet, RoomsHeader, roomRows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	s := sched.Settings
	summary := [][]any{
		{"Project", projectName},
		{"Ambient Temperature (°C)", s.AmbientTempC},
		{"Insulation", string(s.Insulation)},
		{"Installation Method", s.Method},
		{"Lighting Grouping", s.LightingGrouping},
		{"Outlet Grouping", s.OutletGrouping},
		{"Total Lighting (VA)", sched.Totals.LightingVA},
		{"Total Outlets (VA)", sched.Totals.OutletVA},
		{"Total Fixed Appliances (W)", sched.Totals.SpecificLoadW},
		{"Circuits", len(sched.Circuits)},
		{"Circuits OK", sched.CountByStatus(model.StatusOK)},
		{"Circuits to Adjust", sched.CountByStatus(model.StatusAdjust)},
		{"Circuits in Error", sched.CountByStatus(model.StatusError)},
	}
	if err := writeTable(f, SummarySheet, []string{"Item", "Value"}, summary, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// writeTable writes a styled header and rows starting at A1.
func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 32); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// optional returns v, or an empty cell when ok is false.
func optional(v float64, ok bool) any {
	if !ok {
		return ""
	}
	return v
}

func formatLoads(loads []float64) string {
	s := ""
	for i, l := range loads {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%.0f", l)
	}
	return s
}
