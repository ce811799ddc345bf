package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ShipPack/internal/export"
	"github.com/piwi3910/ShipPack/internal/optimizer"
)

var (
	ratesZone    string
	ratesXLSX    string
	ratesCompare string
)

var ratesCmd = &cobra.Command{
	Use:   "rates [CODE=QTY ...]",
	Short: "Compare carrier rates",
	Long: `Without order lines, list the configured carriers and optionally dump
their full rate tables to an Excel workbook (--xlsx).

With order lines, pack the order once and show what every carrier would
charge for it side by side.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if ratesXLSX != "" {
			if err := export.ExportRateWorkbook(ratesXLSX, cat.Carriers); err != nil {
				return fmt.Errorf("write rate workbook: %w", err)
			}
			logger.Info("rate workbook written", "path", ratesXLSX)
		}

		if len(args) == 0 {
			printCarriers(cmd)
			return nil
		}

		lines, err := gatherOrderLines(args)
		if err != nil {
			return err
		}

		opt, err := optimizer.New(cat, settings, logger)
		if err != nil {
			return err
		}
		result, err := opt.OptimizeOrder(cmd.Context(), lines, ratesZone)
		if err != nil {
			return err
		}

		quotes, norates := opt.Quotes(result.Layouts, ratesZone)

		fmt.Fprintf(out, "Shipment: %d box(es), %d item(s), %.1f kg payload\n\n",
			len(result.Layouts), result.ItemCount(), result.TotalWeight())
		fmt.Fprintf(out, "%-12s %10s %10s %10s %10s %9s\n",
			"Carrier", "Shipping", "Box Cost", "Total", "vs Best", "Delivery")
		for _, q := range quotes {
			marker := " "
			if q.Carrier == result.Quote.Carrier {
				marker = "*"
			}
			extra := q.Total.Sub(result.Quote.Total).StringFixed(0)
			if extra != "0" {
				extra = "+" + extra
			}
			fmt.Fprintf(out, "%s%-11s %10s %10s %10s %10s %8dd\n",
				marker, q.Carrier, q.Shipping.StringFixed(0), q.BoxCost.StringFixed(0),
				q.Total.StringFixed(0), extra, q.DeliveryDays)
		}
		for _, nr := range norates {
			fmt.Fprintf(out, " %-11s excluded: %s\n", nr.Carrier, nr.Detail)
		}

		if ratesCompare != "" {
			if err := export.ExportQuoteComparison(ratesCompare, quotes, norates); err != nil {
				return fmt.Errorf("write comparison workbook: %w", err)
			}
			logger.Info("comparison workbook written", "path", ratesCompare)
		}
		return nil
	},
}

func init() {
	ratesCmd.Flags().StringVarP(&ratesZone, "zone", "z", "", "destination zone (default from config)")
	ratesCmd.Flags().StringVar(&ratesXLSX, "xlsx", "", "write the full rate tables to this Excel workbook")
	ratesCmd.Flags().StringVar(&ratesCompare, "compare", "", "write the order comparison to this Excel workbook")

	rootCmd.AddCommand(ratesCmd)
}

func printCarriers(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-12s %-20s %8s %8s %8s %9s\n",
		"Carrier", "Name", "Divisor", "Max kg", "Max cm", "Delivery")
	for _, c := range cat.Carriers {
		fmt.Fprintf(out, "%-12s %-20s %8.0f %8.0f %8.0f %8dd\n",
			c.ID, c.Name, c.VolumetricDivisor, c.MaxWeight, c.MaxSize, c.DeliveryDays)
	}
}
