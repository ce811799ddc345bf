package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ShipPack/internal/config"
	"github.com/piwi3910/ShipPack/internal/export"
	"github.com/piwi3910/ShipPack/internal/history"
	"github.com/piwi3910/ShipPack/internal/importer"
	"github.com/piwi3910/ShipPack/internal/model"
	"github.com/piwi3910/ShipPack/internal/optimizer"
)

var (
	optZone       string
	optItemsFile  string
	optJSONFile   string
	optStrategy   string
	optWorkers    int
	optBudget     string
	optSequential bool
	optNoCache    bool
	optPDF        string
	optLabels     string
	optDXF        string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [CODE=QTY ...]",
	Short: "Pack an order and find the cheapest shipment",
	Long: `Pack the order into stocked boxes and quote it with every carrier.

Order lines come from CODE=QTY arguments, an order file (--items-file,
CSV or XLSX with code and quantity columns), or both. Ad-hoc items that
are not in the product catalog come from a JSON file (--json-items, an
array of items with dimensions in cm and weight in kg).

Examples:
  shippack optimize S=3 L=1
  shippack optimize --items-file order.csv --zone kansai --pdf slip.pdf
  shippack optimize --json-items custom.json S=2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := gatherOrderLines(args)
		if err != nil {
			return err
		}
		adhoc, err := loadJSONItems(optJSONFile)
		if err != nil {
			return err
		}
		if len(lines) == 0 && len(adhoc) == 0 {
			return fmt.Errorf("no order lines: pass CODE=QTY arguments, --items-file, or --json-items")
		}

		if err := applyOptimizeFlags(); err != nil {
			return err
		}
		opt, err := optimizer.New(cat, settings, logger)
		if err != nil {
			return err
		}

		items, err := cat.ItemsForOrder(lines)
		if err != nil {
			return err
		}
		items = append(items, adhoc...)

		result, err := opt.Optimize(cmd.Context(), items, optZone)
		if err != nil {
			return err
		}

		printResult(cmd, result)

		zone := optZone
		if zone == "" {
			zone = settings.DefaultZone
		}
		historyPath := history.DefaultPath(config.DefaultConfigDir())
		if err := history.Append(historyPath, history.NewEntry(lines, zone, result)); err != nil {
			logger.Warn("could not record run", "path", historyPath, "error", err)
		}

		return writeExports(result)
	},
}

func init() {
	optimizeCmd.Flags().StringVarP(&optZone, "zone", "z", "", "destination zone (default from config)")
	optimizeCmd.Flags().StringVarP(&optItemsFile, "items-file", "f", "", "order file (CSV or XLSX)")
	optimizeCmd.Flags().StringVar(&optJSONFile, "json-items", "", "JSON file with ad-hoc items")
	optimizeCmd.Flags().StringVar(&optStrategy, "strategy", "", "placement strategy: firstfit or bestfit")
	optimizeCmd.Flags().IntVar(&optWorkers, "workers", 0, "candidate evaluation workers")
	optimizeCmd.Flags().StringVar(&optBudget, "budget", "", "time budget, e.g. 500ms or 2s")
	optimizeCmd.Flags().BoolVar(&optSequential, "sequential", false, "evaluate candidates sequentially")
	optimizeCmd.Flags().BoolVar(&optNoCache, "no-cache", false, "disable the result cache")
	optimizeCmd.Flags().StringVar(&optPDF, "pdf", "", "write a packing slip PDF to this path")
	optimizeCmd.Flags().StringVar(&optLabels, "labels", "", "write QR box labels PDF to this path")
	optimizeCmd.Flags().StringVar(&optDXF, "dxf", "", "write a top-view layout DXF to this path")

	rootCmd.AddCommand(optimizeCmd)
}

// applyOptimizeFlags overlays command-line overrides on the loaded settings.
func applyOptimizeFlags() error {
	if optStrategy != "" {
		settings.Strategy = optStrategy
	}
	if optWorkers > 0 {
		settings.Workers = optWorkers
	}
	if optBudget != "" {
		parsed, err := time.ParseDuration(optBudget)
		if err != nil {
			return fmt.Errorf("invalid budget %q: %w", optBudget, err)
		}
		settings.Budget = parsed
	}
	if optSequential {
		settings.ParallelEnabled = false
	}
	if optNoCache {
		settings.CacheEnabled = false
	}
	return settings.Validate()
}

// gatherOrderLines merges CODE=QTY arguments with the optional order file.
func gatherOrderLines(args []string) (map[string]int, error) {
	lines := map[string]int{}

	if optItemsFile != "" {
		result := importer.Import(optItemsFile)
		for _, warning := range result.Warnings {
			logger.Warn(warning)
		}
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("import %s: %s", optItemsFile, strings.Join(result.Errors, "; "))
		}
		for code, qty := range result.Lines {
			lines[code] += qty
		}
	}

	for _, arg := range args {
		code, qty, err := parseOrderArg(arg)
		if err != nil {
			return nil, err
		}
		lines[code] += qty
	}
	return lines, nil
}

// loadJSONItems reads ad-hoc items from a JSON array file. Items without an
// ID get one minted so layouts and labels can reference them.
func loadJSONItems(path string) ([]model.Item, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items %s: %w", path, err)
	}
	var items []model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse items %s: %w", path, err)
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = fmt.Sprintf("adhoc-%d", i+1)
		}
	}
	return items, nil
}

// parseOrderArg parses one CODE=QTY argument. A bare CODE counts as 1.
func parseOrderArg(arg string) (string, int, error) {
	code, qtyStr, found := strings.Cut(arg, "=")
	code = strings.TrimSpace(code)
	if code == "" {
		return "", 0, fmt.Errorf("invalid order line %q", arg)
	}
	if !found {
		return code, 1, nil
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
	if err != nil || qty <= 0 {
		return "", 0, fmt.Errorf("invalid quantity in order line %q", arg)
	}
	return code, qty, nil
}

func printResult(cmd *cobra.Command, result model.BestResult) {
	out := cmd.OutOrStdout()
	quote := result.Quote

	fmt.Fprintf(out, "Cheapest shipment: %s to %s, %d day(s)\n", quote.Carrier, quote.Zone, quote.DeliveryDays)
	fmt.Fprintf(out, "  Boxes: %d | Items: %d | Payload: %.1f kg\n",
		len(result.Layouts), result.ItemCount(), result.TotalWeight())

	for i, layout := range result.Layouts {
		fmt.Fprintf(out, "\n  Box %d: %s (utilization %.1f%%)\n", i+1, layout.Box.ID, layout.Utilization())
		if i < len(quote.Boxes) {
			bq := quote.Boxes[i]
			fmt.Fprintf(out, "    size %d, billable %.1f kg, %s JPY\n",
				bq.SizeTier, bq.BillableWeight, bq.Price.StringFixed(0))
		}
		for _, step := range layout.PackingSteps() {
			fmt.Fprintf(out, "    %d. %s\n", step.Step, step.Description)
		}
	}

	fmt.Fprintf(out, "\n  Shipping: %7s JPY\n", quote.Shipping.StringFixed(0))
	fmt.Fprintf(out, "  Box cost: %7s JPY\n", quote.BoxCost.StringFixed(0))
	fmt.Fprintf(out, "  Total:    %7s JPY\n", quote.Total.StringFixed(0))

	if result.Partial {
		fmt.Fprintf(out, "\n  Note: time budget expired, best of %d evaluated candidate(s)\n", result.Evaluated)
	}
}

func writeExports(result model.BestResult) error {
	if optPDF != "" {
		if err := export.ExportPackingSlip(optPDF, result); err != nil {
			return fmt.Errorf("write packing slip: %w", err)
		}
		logger.Info("packing slip written", "path", optPDF)
	}
	if optLabels != "" {
		if err := export.ExportLabels(optLabels, result); err != nil {
			return fmt.Errorf("write labels: %w", err)
		}
		logger.Info("labels written", "path", optLabels)
	}
	if optDXF != "" {
		if err := export.ExportLayoutDXF(optDXF, result.Layouts); err != nil {
			return fmt.Errorf("write layout drawing: %w", err)
		}
		logger.Info("layout drawing written", "path", optDXF)
	}
	return nil
}
