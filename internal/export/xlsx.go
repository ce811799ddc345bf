package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/ShipPack/internal/catalog"
	"github.com/piwi3910/ShipPack/internal/model"
)

// ExportRateWorkbook writes one sheet per carrier with the full size tier
// by zone price matrix, for sharing rate tables outside the tool.
func ExportRateWorkbook(path string, carriers []catalog.Carrier) error {
	if len(carriers) == 0 {
		return fmt.Errorf("no carriers to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, carrier := range carriers {
		sheet := carrier.ID
		if i == 0 {
			// Rename the default sheet instead of leaving it empty.
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
		}
		if err := writeCarrierSheet(f, sheet, carrier); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func writeCarrierSheet(f *excelize.File, sheet string, carrier catalog.Carrier) error {
	zones := carrier.Zones()

	header := []any{"Size", "Max Weight (kg)"}
	for _, zone := range zones {
		header = append(header, zone)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, tier := range carrier.Tiers {
		row := []any{tier.Size, tier.MaxWeight}
		for _, zone := range zones {
			if price, ok := tier.Prices[zone]; ok {
				value, _ := price.Float64()
				row = append(row, value)
			} else {
				row = append(row, "")
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	// Service limits below the table.
	infoRow := len(carrier.Tiers) + 3
	cell, err := excelize.CoordinatesToCellName(1, infoRow)
	if err != nil {
		return err
	}
	info := []any{
		carrier.Name,
		fmt.Sprintf("divisor %.0f", carrier.VolumetricDivisor),
		fmt.Sprintf("max %.0f kg / %.0f cm", carrier.MaxWeight, carrier.MaxSize),
		fmt.Sprintf("%d day(s)", carrier.DeliveryDays),
	}
	return f.SetSheetRow(sheet, cell, &info)
}

// ExportQuoteComparison writes a side-by-side carrier comparison for one
// shipment: a row per serviceable carrier plus the exclusions.
func ExportQuoteComparison(path string, quotes []model.Quote, norates []model.NoRate) error {
	if len(quotes) == 0 && len(norates) == 0 {
		return fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []any{"Carrier", "Zone", "Boxes", "Shipping", "Box Cost", "Total", "Delivery Days"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	row := 2
	for _, q := range quotes {
		shipping, _ := q.Shipping.Float64()
		boxCost, _ := q.BoxCost.Float64()
		total, _ := q.Total.Float64()
		data := []any{q.Carrier, q.Zone, len(q.Boxes), shipping, boxCost, total, q.DeliveryDays}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &data); err != nil {
			return err
		}
		row++
	}

	row++
	for _, nr := range norates {
		data := []any{nr.Carrier, "excluded: " + nr.Detail}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &data); err != nil {
			return err
		}
		row++
	}

	return f.SaveAs(path)
}
