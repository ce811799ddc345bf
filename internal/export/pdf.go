// Package export renders optimization results to shareable file formats:
// PDF packing slips, QR-coded box labels, rate workbooks, and DXF layout
// drawings.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/ShipPack/internal/model"
)

// itemColor represents an RGB color for a placed item.
type itemColor struct {
	R, G, B int
}

// itemColors is the palette for placement diagrams and legends.
var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
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
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPackingSlip generates a PDF packing slip: one page per box with a
// top-view diagram and the packing step list, followed by a summary page
// with the carrier quote.
func ExportPackingSlip(path string, result model.BestResult) error {
	if len(result.Layouts) == 0 {
		return fmt.Errorf("no layouts to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, layout := range result.Layouts {
		pdf.AddPage()
		renderBoxPage(pdf, layout, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderBoxPage draws one box on the current PDF page: title, stats, a
// top-view footprint diagram, and the step list.
func renderBoxPage(pdf *fpdf.Fpdf, layout model.Layout, boxNum int) {
	box := layout.Box

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Box %d: %s (%.1f x %.1f x %.1f cm outer)",
		boxNum, box.ID, box.OuterLength, box.OuterWidth, box.OuterHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Payload: %.1f kg | Utilization: %.1f%% | Height used: %.1f / %.1f cm",
		len(layout.Placements), layout.TotalWeight(), layout.Utilization(), layout.MaxHeightUsed(), box.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Top-view diagram on the left half of the page.
	drawWidth := (pageWidth-marginLeft-marginRight)/2 - 5
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/box.Length, drawHeight/box.Width)
	canvasW := box.Length * scale
	canvasH := box.Width * scale
	offsetX := marginLeft
	offsetY := drawAreaTop

	// Interior background (cardboard color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, p := range layout.Placements {
		col := itemColors[i%len(itemColors)]
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale
		pw := p.Length * scale
		ph := p.Width * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := p.Item.Code
			if label == "" {
				label = p.Item.ID
			}
			labelW := pdf.GetStringWidth(label)
			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, box, scale, offsetX, offsetY, canvasW, canvasH)
	drawPackingSteps(pdf, layout, marginLeft+drawWidth+10, drawAreaTop)
	drawItemLegend(pdf, layout, offsetY+canvasH+7)
}

// drawPackingSteps renders the layer-by-layer packing instructions on the
// right half of the box page.
func drawPackingSteps(pdf *fpdf.Fpdf, layout model.Layout, x, y float64) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y)
	pdf.CellFormat(80, 6, "Packing order (bottom up)", "", 0, "L", false, 0, "")
	y += 8

	pdf.SetFont("Helvetica", "", 9)
	for _, step := range layout.PackingSteps() {
		pdf.SetXY(x, y)
		line := fmt.Sprintf("%d. %s (%d item(s))", step.Step, step.Description, step.ItemCount)
		pdf.CellFormat(130, 5, line, "", 0, "L", false, 0, "")
		y += 5.5
	}
}

// drawDimensionAnnotations adds interior length and width labels outside
// the diagram rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, box model.Box, scale, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := fmt.Sprintf("%.1f cm", box.Length)
	lw := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lw)/2, offsetY+canvasH+1)
	pdf.CellFormat(lw, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := fmt.Sprintf("%.1f cm", box.Width)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	ww := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-ww/2, offsetY+canvasH/2-2)
	pdf.CellFormat(ww, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawItemLegend renders a compact legend of placed items under the diagram.
func drawItemLegend(pdf *fpdf.Fpdf, layout model.Layout, startY float64) {
	if len(layout.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Items packed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range layout.Placements {
		col := itemColors[i%len(itemColors)]
		name := p.Item.Code
		if name == "" {
			name = p.Item.ID
		}
		label := fmt.Sprintf("%s (%.0fx%.0fx%.0f)", name, p.Item.Length, p.Item.Width, p.Item.Height)
		if p.Rotated() {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final page: shipment statistics and the
// winning carrier quote.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.BestResult) {
	quote := result.Quote

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Shipment Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Boxes", fmt.Sprintf("%d", len(result.Layouts))},
		{"Items", fmt.Sprintf("%d", result.ItemCount())},
		{"Payload Weight", fmt.Sprintf("%.1f kg", result.TotalWeight())},
		{"Carrier", quote.Carrier},
		{"Zone", quote.Zone},
		{"Delivery", fmt.Sprintf("%d day(s)", quote.DeliveryDays)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Per-box price table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Shipping Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 50, 40, 50, 40}
	headers := []string{"Box", "Type", "Size Tier", "Billable Weight", "Price"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, bq := range quote.Boxes {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			bq.BoxID,
			fmt.Sprintf("%d", bq.SizeTier),
			fmt.Sprintf("%.1f kg", bq.BillableWeight),
			bq.Price.StringFixed(0),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 11)
	totals := []struct {
		label string
		value string
	}{
		{"Shipping", quote.Shipping.StringFixed(0)},
		{"Box Cost", quote.BoxCost.StringFixed(0)},
		{"Total", quote.Total.StringFixed(0)},
	}
	for _, item := range totals {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, item.value+" JPY", "", 0, "R", false, 0, "")
		y += 7
	}

	if result.Partial {
		y += 4
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 6, "NOTE: best of the candidates evaluated within the time budget", "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by ShipPack - Shipping Cost Optimizer", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size for a rectangle.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
