package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// LabelInfo holds the data encoded into each panel label's QR code.
type LabelInfo struct {
	Project  string  `json:"project,omitempty"`
	Index    int     `json:"circuit"`
	Label    string  `json:"label"`
	Category string  `json:"category"`
	Voltage  int     `json:"voltage"`
	Load     float64 `json:"load"`
	Section  float64 `json:"section_mm2"`
	Breaker  int     `json:"breaker_a"`
	Status   string  `json:"status"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos builds one label per circuit in schedule order.
func CollectLabelInfos(sched model.Schedule, projectName string) []LabelInfo {
	labels := make([]LabelInfo, 0, len(sched.Circuits))
	for _, c := range sched.Circuits {
		labels = append(labels, LabelInfo{
			Project:  projectName,
			Index:    c.Index,
			Label:    c.Label,
			Category: c.Category.String(),
			Voltage:  c.Voltage,
			Load:     c.TotalLoad,
			Section:  c.Section,
			Breaker:  c.Breaker,
			Status:   string(c.Status),
		})
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded panel labels, one per circuit.
// Each label shows the circuit number, label, conductor and breaker, and
// carries the circuit data as JSON in a QR code.
func ExportLabels(path string, sched model.Schedule, projectName string) error {
	labels := CollectLabelInfos(sched, projectName)
	if len(labels) == 0 {
		return fmt.Errorf("no circuits to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, tr, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for circuit %d: %w", label.Index, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, info LabelInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_circuit_%d", info.Index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	title := truncate(pdf, tr(fmt.Sprintf("%d - %s", info.Index, info.Label)), textW)
	pdf.CellFormat(textW, 4.5, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	c := model.Circuit{Section: info.Section, Breaker: info.Breaker}
	rating := fmt.Sprintf("%d V | %s | %s", info.Voltage, SectionText(c), BreakerText(c))
	pdf.CellFormat(textW, 3.5, tr(rating), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, tr(info.Category), "", 1, "L", false, 0, "")

	if info.Status != string(model.StatusOK) {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(textW, 3, tr("CHECK: "+info.Status), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits in w.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}
