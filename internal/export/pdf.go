// Package export writes dimensioning results to PDF, spreadsheet and label
// formats.
package export

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// rgb is a fill or text color.
type rgb struct {
	R, G, B int
}

// statusColors tint circuit rows by outcome.
var statusColors = map[model.Status]rgb{
	model.StatusOK:     {R: 232, G: 245, B: 233}, // green
	model.StatusAdjust: {R: 255, G: 243, B: 224}, // orange
	model.StatusError:  {R: 255, G: 235, B: 238}, // red
}

// categoryColors mark circuit categories in the loading chart.
var categoryColors = map[model.Category]rgb{
	model.CategoryLighting:     {R: 255, G: 193, B: 7},  // amber
	model.CategoryOutlet:       {R: 33, G: 150, B: 243}, // blue
	model.CategorySpecificLoad: {R: 156, G: 39, B: 176}, // purple
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowHeight    = 6.0
	contentWidth = pageWidth - marginLeft - marginRight
	contentLimit = pageHeight - marginBottom - 10
)

// memorial wraps the fpdf document with the UTF-8 translator needed for the
// core fonts (°, ², accented room names).
type memorial struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

func newMemorial() *memorial {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	return &memorial{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (m *memorial) cell(w, h float64, text, border, align string, fill bool) {
	m.pdf.CellFormat(w, h, m.tr(text), border, 0, align, fill, 0, "")
}

// ensureSpace starts a new page when h more millimetres do not fit.
func (m *memorial) ensureSpace(h float64) bool {
	if m.y+h <= contentLimit {
		return false
	}
	m.pdf.AddPage()
	m.y = marginTop
	return true
}

// ExportPDF writes the load memorial for a schedule: design settings, the
// room table, the circuit schedule with status highlighting, a loading
// chart of Ib against Iz, totals and a list of circuits needing attention.
func ExportPDF(path string, sched model.Schedule, projectName string) error {
	if len(sched.Circuits) == 0 {
		return fmt.Errorf("no circuits to export")
	}

	m := newMemorial()

	m.pdf.AddPage()
	renderHeader(m, sched, projectName)
	renderRoomTable(m, sched.Rooms)

	m.pdf.AddPage()
	m.y = marginTop
	renderCircuitTable(m, sched.Circuits)
	renderTotals(m, sched)
	renderWarnings(m, sched.Circuits)

	m.pdf.AddPage()
	m.y = marginTop
	renderLoadingChart(m, sched.Circuits)

	renderFooters(m)

	return m.pdf.OutputFileAndClose(path)
}

func renderHeader(m *memorial, sched model.Schedule, projectName string) {
	pdf := m.pdf

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	title := "Electrical Load Memorial"
	if projectName != "" {
		title += " - " + projectName
	}
	m.cell(contentWidth, headerHeight, title, "", "L", false)

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+headerHeight, pageWidth-marginRight, marginTop+headerHeight)

	m.y = marginTop + headerHeight + 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, m.y)
	m.cell(100, 7, "Design Settings", "", "L", false)
	m.y += 9

	s := sched.Settings
	items := []struct {
		label string
		value string
	}{
		{"Ambient Temperature", fmt.Sprintf("%d °C", s.AmbientTempC)},
		{"Insulation", string(s.Insulation)},
		{"Installation Method", s.Method},
		{"Lighting Grouping", fmt.Sprintf("%d circuit(s)", s.LightingGrouping)},
		{"Outlet Grouping", fmt.Sprintf("%d circuit(s)", s.OutletGrouping)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, m.y)
		m.cell(60, 6, item.label+":", "", "L", false)
		pdf.SetFont("Helvetica", "B", 10)
		m.cell(60, 6, item.value, "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		m.y += 7
	}
	m.y += 5
}

func renderRoomTable(m *memorial, rooms []model.RoomSummary) {
	pdf := m.pdf

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, m.y)
	m.cell(100, 7, "Rooms", "", "L", false)
	m.y += 9

	colWidths := []float64{55, 25, 30, 30, 22, 28, 77}
	headers := []string{"Room", "Area (m²)", "Perimeter (m)", "Lighting (VA)", "Outlets", "Outlets (VA)", "Fixed Appliance"}

	drawHeaderRow := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		x := marginLeft
		for i, h := range headers {
			pdf.SetXY(x, m.y)
			m.cell(colWidths[i], rowHeight, h, "1", "C", true)
			x += colWidths[i]
		}
		m.y += rowHeight
	}
	drawHeaderRow()

	for i, r := range rooms {
		if m.ensureSpace(rowHeight) {
			drawHeaderRow()
		}

		row := []string{
			r.Name,
			fmt.Sprintf("%.2f", r.Area),
			fmt.Sprintf("%.2f", r.Perimeter),
			fmt.Sprintf("%.0f", r.LightingVA),
			fmt.Sprintf("%d", len(r.OutletLoads)),
			fmt.Sprintf("%.0f", r.OutletVA()),
			r.Device,
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		pdf.SetFont("Helvetica", "", 9)
		x := marginLeft
		for j, text := range row {
			pdf.SetXY(x, m.y)
			align := "C"
			if j == 0 || j == len(row)-1 {
				align = "L"
			}
			m.cell(colWidths[j], rowHeight, text, "1", align, true)
			x += colWidths[j]
		}
		m.y += rowHeight
	}
}

func renderCircuitTable(m *memorial, circuits []model.Circuit) {
	pdf := m.pdf

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, m.y)
	m.cell(contentWidth, headerHeight, "Circuit Schedule", "", "L", false)
	m.y += headerHeight + 2

	colWidths := []float64{10, 62, 18, 24, 18, 14, 14, 24, 24, 20, 39}
	headers := []string{"#", "Circuit", "V", "Load", "Ib (A)", "FCT", "FCA", "Section", "Iz (A)", "Breaker", "Status"}

	drawHeaderRow := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		x := marginLeft
		for i, h := range headers {
			pdf.SetXY(x, m.y)
			m.cell(colWidths[i], rowHeight, h, "1", "C", true)
			x += colWidths[i]
		}
		m.y += rowHeight
	}
	drawHeaderRow()

	for _, c := range circuits {
		if m.ensureSpace(rowHeight) {
			drawHeaderRow()
		}

		col := statusColors[c.Status]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetFont("Helvetica", "", 9)

		row := []string{
			fmt.Sprintf("%d", c.Index),
			c.Label,
			fmt.Sprintf("%d", c.Voltage),
			loadText(c),
			fmt.Sprintf("%.2f", c.DesignCurrent),
			fmt.Sprintf("%.2f", c.FCT),
			fmt.Sprintf("%.2f", c.FCA),
			SectionText(c),
			ampacityText(c),
			BreakerText(c),
			string(c.Status),
		}

		x := marginLeft
		for j, text := range row {
			pdf.SetXY(x, m.y)
			align := "C"
			if j == 1 {
				align = "L"
			}
			m.cell(colWidths[j], rowHeight, text, "1", align, true)
			x += colWidths[j]
		}
		m.y += rowHeight
	}
}

func renderTotals(m *memorial, sched model.Schedule) {
	pdf := m.pdf
	m.ensureSpace(40)
	m.y += 6

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, m.y)
	m.cell(100, 7, "Totals", "", "L", false)
	m.y += 9

	t := sched.Totals
	items := []struct {
		label string
		value string
	}{
		{"Lighting", fmt.Sprintf("%.0f VA", t.LightingVA)},
		{"General Outlets", fmt.Sprintf("%.0f VA", t.OutletVA)},
		{"Fixed Appliances", fmt.Sprintf("%.0f W", t.SpecificLoadW)},
		{"Circuits", fmt.Sprintf("%d (%d OK, %d to adjust, %d in error)", len(sched.Circuits),
			sched.CountByStatus(model.StatusOK), sched.CountByStatus(model.StatusAdjust), sched.CountByStatus(model.StatusError))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, m.y)
		m.cell(50, 6, item.label+":", "", "L", false)
		pdf.SetFont("Helvetica", "B", 10)
		m.cell(120, 6, item.value, "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		m.y += 7
	}
}

func renderWarnings(m *memorial, circuits []model.Circuit) {
	var failing []model.Circuit
	for _, c := range circuits {
		if c.Status != model.StatusOK {
			failing = append(failing, c)
		}
	}
	if len(failing) == 0 {
		return
	}

	pdf := m.pdf
	m.ensureSpace(15)
	m.y += 6
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(200, 0, 0)
	pdf.SetXY(marginLeft, m.y)
	m.cell(200, 7, "WARNING: Circuits Requiring Attention", "", "L", false)
	m.y += 8

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, c := range failing {
		m.ensureSpace(5)
		pdf.SetXY(marginLeft+5, m.y)
		text := fmt.Sprintf("- #%d %s: %s (Ib %.2f A, required ampacity %.2f A)",
			c.Index, c.Label, c.Fault, c.DesignCurrent, c.RequiredAmpacity)
		m.cell(contentWidth-5, 5, text, "", "L", false)
		m.y += 5
	}
}

// renderLoadingChart draws one horizontal bar per circuit showing Ib as a
// share of the corrected ampacity, with the breaker rating marked.
func renderLoadingChart(m *memorial, circuits []model.Circuit) {
	pdf := m.pdf

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, m.y)
	m.cell(contentWidth, headerHeight, "Circuit Loading (Ib / Iz)", "", "L", false)
	m.y += headerHeight + 2

	const (
		labelW = 70.0
		barH   = 5.0
		gap    = 2.0
	)
	barX := marginLeft + labelW
	barW := contentWidth - labelW - 25

	for _, c := range circuits {
		if m.ensureSpace(barH + gap) {
			m.y += 2
		}

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(marginLeft, m.y)
		m.cell(labelW-2, barH, fmt.Sprintf("#%d %s", c.Index, c.Label), "", "L", false)

		pdf.SetDrawColor(150, 150, 150)
		pdf.SetLineWidth(0.2)
		pdf.SetFillColor(250, 250, 250)
		pdf.Rect(barX, m.y, barW, barH, "FD")

		if !c.HasSection() || c.CorrectedAmpacity <= 0 {
			pdf.SetTextColor(200, 0, 0)
			pdf.SetXY(barX+2, m.y)
			m.cell(barW-4, barH, "no conductor: "+string(c.Fault), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
			m.y += barH + gap
			continue
		}

		ratio := min(c.DesignCurrent/c.CorrectedAmpacity, 1)
		col := categoryColors[c.Category]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(barX, m.y, barW*ratio, barH, "F")

		if c.HasBreaker() {
			bx := barX + barW*min(float64(c.Breaker)/c.CorrectedAmpacity, 1)
			pdf.SetDrawColor(0, 0, 0)
			pdf.SetLineWidth(0.6)
			pdf.Line(bx, m.y-0.5, bx, m.y+barH+0.5)
		}

		pdf.SetXY(barX+barW+2, m.y)
		m.cell(23, barH, fmt.Sprintf("%.0f%%", ratio*100), "", "L", false)

		m.y += barH + gap
	}

	// Legend
	m.ensureSpace(8)
	m.y += 4
	x := marginLeft
	pdf.SetFont("Helvetica", "", 8)
	for _, cat := range []model.Category{model.CategoryLighting, model.CategoryOutlet, model.CategorySpecificLoad} {
		col := categoryColors[cat]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(x, m.y+0.5, 3, 3, "F")
		pdf.SetXY(x+4, m.y)
		m.cell(30, 4, cat.String(), "", "L", false)
		x += 36
	}
	pdf.SetXY(x, m.y)
	m.cell(60, 4, "| marks the breaker rating", "", "L", false)
}

func renderFooters(m *memorial) {
	pdf := m.pdf
	pages := pdf.PageCount()
	for i := 1; i <= pages; i++ {
		pdf.SetPage(i)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetXY(marginLeft, pageHeight-marginBottom)
		m.cell(contentWidth, 4, fmt.Sprintf("Generated by CircuitSizer - page %d of %d", i, pages), "", "C", false)
	}
	pdf.SetTextColor(0, 0, 0)
}

// SectionText formats the chosen cross-section or the failure marker.
func SectionText(c model.Circuit) string {
	if !c.HasSection() {
		return "out of range"
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", c.Section), ".0") + " mm²"
}

// BreakerText formats the breaker rating or "-" when none was chosen.
func BreakerText(c model.Circuit) string {
	if !c.HasBreaker() {
		return "-"
	}
	return fmt.Sprintf("%d A", c.Breaker)
}

func ampacityText(c model.Circuit) string {
	if !c.HasSection() {
		return "-"
	}
	return fmt.Sprintf("%.2f", c.CorrectedAmpacity)
}

func loadText(c model.Circuit) string {
	unit := "VA"
	if c.Category == model.CategorySpecificLoad {
		unit = "W"
	}
	return fmt.Sprintf("%.0f %s", c.TotalLoad, unit)
}
