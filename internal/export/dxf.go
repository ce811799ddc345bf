package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/ShipPack/internal/model"
)

// boxSpacing is the horizontal gap between box outlines in the drawing (cm).
const boxSpacing = 10.0

// ExportLayoutDXF writes a top-view CAD drawing of the layouts: one
// interior outline per box, laid out left to right, with every item
// footprint and its code. Coordinates are centimeters.
func ExportLayoutDXF(path string, layouts []model.Layout) error {
	if len(layouts) == 0 {
		return fmt.Errorf("no layouts to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer("BOX", color.White, table.LT_CONTINUOUS, true); err != nil {
		return err
	}
	if _, err := d.AddLayer("ITEMS", color.Cyan, table.LT_CONTINUOUS, false); err != nil {
		return err
	}
	if _, err := d.AddLayer("TEXT", color.Yellow, table.LT_CONTINUOUS, false); err != nil {
		return err
	}

	offsetX := 0.0
	for i, layout := range layouts {
		if err := drawLayout(d, layout, offsetX, i+1); err != nil {
			return err
		}
		offsetX += layout.Box.Length + boxSpacing
	}

	return d.SaveAs(path)
}

// drawLayout draws one box interior and its item footprints at the given
// X offset.
func drawLayout(d *drawing.Drawing, layout model.Layout, offsetX float64, boxNum int) error {
	box := layout.Box

	if err := d.ChangeLayer("BOX"); err != nil {
		return err
	}
	if err := rect(d, offsetX, 0, box.Length, box.Width); err != nil {
		return err
	}

	if err := d.ChangeLayer("TEXT"); err != nil {
		return err
	}
	title := fmt.Sprintf("Box %d: %s", boxNum, box.ID)
	if _, err := d.Text(title, offsetX, box.Width+2.0, 0.0, 2.5); err != nil {
		return err
	}

	for _, p := range layout.Placements {
		if err := d.ChangeLayer("ITEMS"); err != nil {
			return err
		}
		if err := rect(d, offsetX+p.X, p.Y, p.Length, p.Width); err != nil {
			return err
		}

		label := p.Item.Code
		if label == "" {
			label = p.Item.ID
		}
		// Annotate only footprints large enough to carry text.
		if p.Length >= 6 && p.Width >= 3 {
			if err := d.ChangeLayer("TEXT"); err != nil {
				return err
			}
			if _, err := d.Text(label, offsetX+p.X+1.0, p.Y+p.Width/2-0.75, 0.0, 1.5); err != nil {
				return err
			}
		}
	}
	return nil
}

// rect draws an axis-aligned rectangle as four lines on the current layer.
func rect(d *drawing.Drawing, x, y, w, h float64) error {
	lines := [][4]float64{
		{x, y, x + w, y},
		{x + w, y, x + w, y + h},
		{x + w, y + h, x, y + h},
		{x, y + h, x, y},
	}
	for _, l := range lines {
		if _, err := d.Line(l[0], l[1], 0.0, l[2], l[3], 0.0); err != nil {
			return err
		}
	}
	return nil
}
