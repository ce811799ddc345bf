package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ShipPack/internal/catalog"
	"github.com/piwi3910/ShipPack/internal/config"
	"github.com/piwi3910/ShipPack/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the product and box catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Products:")
		fmt.Fprintf(out, "  %-8s %-16s %18s %8s %s\n", "Code", "Name", "L x W x H (cm)", "kg", "Flags")
		for _, p := range cat.Products {
			fmt.Fprintf(out, "  %-8s %-16s %5.1f x %5.1f x %4.1f %8.2f %s\n",
				p.Code, p.Name, p.Length, p.Width, p.Height, p.Weight, productFlags(p))
		}

		fmt.Fprintln(out, "\nBoxes:")
		fmt.Fprintf(out, "  %-8s %22s %22s %8s %8s\n", "ID", "Outer (cm)", "Interior (cm)", "Max kg", "Cost")
		for _, b := range cat.Boxes {
			fmt.Fprintf(out, "  %-8s %5.1f x %5.1f x %5.1f  %5.1f x %5.1f x %5.1f %8.0f %8s\n",
				b.ID, b.OuterLength, b.OuterWidth, b.OuterHeight,
				b.Length, b.Width, b.Height, b.MaxWeight, b.UnitCost.StringFixed(0))
		}
		return nil
	},
}

var catalogInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default catalog file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := catalogFile
		if path == "" {
			path = catalog.DefaultCatalogPath(config.DefaultConfigDir())
		}
		if err := catalog.Save(path, catalog.Default()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default catalog written to %s\n", path)
		return nil
	},
}

var (
	estShipments int
	estPerShip   float64
	estWaste     float64
)

var catalogEstimateCmd = &cobra.Command{
	Use:   "estimate BOX_ID",
	Short: "Estimate a box purchase order for a fulfillment batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		box, ok := cat.Box(args[0])
		if !ok {
			return fmt.Errorf("unknown box %q", args[0])
		}

		est := model.CalculatePurchaseEstimate(box, estShipments, estPerShip, estWaste)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Box %s for %d shipment(s) at %.2f box(es) each:\n", box.ID, est.Shipments, est.BoxesPerShip)
		fmt.Fprintf(out, "  Minimum:     %d\n", est.BoxesMin)
		fmt.Fprintf(out, "  Recommended: %d (%.0f%% waste margin)\n", est.BoxesWithWaste, est.WastePercent)
		fmt.Fprintf(out, "  Cost:        %s JPY at %s each\n", est.EstimatedCost.StringFixed(0), est.UnitCost.StringFixed(0))
		return nil
	},
}

func init() {
	catalogEstimateCmd.Flags().IntVar(&estShipments, "shipments", 100, "expected shipments in the batch")
	catalogEstimateCmd.Flags().Float64Var(&estPerShip, "per-shipment", 1.0, "average boxes per shipment")
	catalogEstimateCmd.Flags().Float64Var(&estWaste, "waste", 5.0, "waste margin percent")

	catalogCmd.AddCommand(catalogInitCmd)
	catalogCmd.AddCommand(catalogEstimateCmd)
	rootCmd.AddCommand(catalogCmd)
}

func productFlags(p catalog.Product) string {
	flags := ""
	if !p.Stackable {
		flags += " no-stack"
	}
	if p.Fragile {
		flags += " fragile"
	}
	if p.ThisSideUp {
		flags += " this-side-up"
	}
	if p.MaxLoad > 0 {
		flags += fmt.Sprintf(" max-load=%.1f", p.MaxLoad)
	}
	if flags == "" {
		return "-"
	}
	return flags[1:]
}
