package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/ShipPack/internal/model"
)

// LabelInfo holds the data encoded into each box label's QR code.
type LabelInfo struct {
	BoxIndex       int     `json:"box"`
	BoxID          string  `json:"box_id"`
	Carrier        string  `json:"carrier"`
	Zone           string  `json:"zone"`
	SizeTier       int     `json:"size_tier"`
	BillableWeight float64 `json:"billable_kg"`
	PayloadWeight  float64 `json:"payload_kg"`
	Items          int     `json:"items"`
	Price          string  `json:"price"`
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

// ExportLabels generates a PDF of QR-coded shipment labels, one per box.
// Each label carries the box id, carrier, tier and billable weight as text
// and the full metadata as a JSON QR code. Labels are laid out on a
// standard label sheet format (Avery 5160 / 3 columns x 10 rows).
func ExportLabels(path string, result model.BestResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no boxes to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for box %d: %w", label.BoxIndex, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
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

	imgName := fmt.Sprintf("qr_box_%d_%s", info.BoxIndex, info.BoxID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Box line (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fmt.Sprintf("Box %d: %s", info.BoxIndex, info.BoxID), "", 1, "L", false, 0, "")

	// Carrier and zone
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%s / %s", info.Carrier, info.Zone), "", 1, "L", false, 0, "")

	// Tier and weight
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	detail := fmt.Sprintf("Size %d | %.1f kg billable | %d item(s)", info.SizeTier, info.BillableWeight, info.Items)
	pdf.CellFormat(textW, 3, detail, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%s JPY", info.Price), "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label data from an optimization result for
// use in testing or alternative export formats.
func CollectLabelInfos(result model.BestResult) []LabelInfo {
	var labels []LabelInfo
	for i, layout := range result.Layouts {
		info := LabelInfo{
			BoxIndex:      i + 1,
			BoxID:         layout.Box.ID,
			Carrier:       result.Quote.Carrier,
			Zone:          result.Quote.Zone,
			PayloadWeight: layout.TotalWeight(),
			Items:         len(layout.Placements),
		}
		if i < len(result.Quote.Boxes) {
			bq := result.Quote.Boxes[i]
			info.SizeTier = bq.SizeTier
			info.BillableWeight = bq.BillableWeight
			info.Price = bq.Price.StringFixed(0)
		}
		labels = append(labels, info)
	}
	return labels
}
