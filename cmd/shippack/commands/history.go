package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ShipPack/internal/config"
	"github.com/piwi3910/ShipPack/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past optimization runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := history.Load(history.DefaultPath(config.DefaultConfigDir()))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No runs recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-20s %-9s %-20s %-11s %9s\n", "When", "Zone", "Order", "Carrier", "Total")
		for _, e := range entries {
			fmt.Fprintf(out, "%-20s %-9s %-20s %-11s %9s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				e.Zone, formatOrder(e.Order), e.Carrier, e.Total)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := history.Clear(history.DefaultPath(config.DefaultConfigDir())); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func formatOrder(order map[string]int) string {
	if len(order) == 0 {
		return "-"
	}
	codes := make([]string, 0, len(order))
	for code := range order {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s=%d", code, order[code]))
	}
	// Short display; full detail lives in the JSON file.
	s := strings.Join(parts, " ")
	if len(s) > 20 {
		s = s[:17] + "..."
	}
	return s
}
