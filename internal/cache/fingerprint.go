package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/piwi3910/ShipPack/internal/model"
)

// Fingerprint derives a stable cache key for an optimization request. Two
// requests with the same item multiset, box set, zone and strategy share a
// key; item IDs and input order do not matter, quantities do.
func Fingerprint(items []model.Item, boxes []model.Box, zone, strategy string) string {
	h := sha256.New()
	fmt.Fprintf(h, "zone=%s\nstrategy=%s\n", zone, strategy)
	for _, line := range itemLines(items) {
		fmt.Fprintln(h, line)
	}
	for _, line := range boxLines(boxes) {
		fmt.Fprintln(h, line)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// LayoutFingerprint keys a single packing attempt: one box type, one item
// group, one strategy. Zone is irrelevant to geometry.
func LayoutFingerprint(box model.Box, items []model.Item, strategy string) string {
	h := sha256.New()
	fmt.Fprintf(h, "strategy=%s\n", strategy)
	fmt.Fprintln(h, boxLine(box))
	for _, line := range itemLines(items) {
		fmt.Fprintln(h, line)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// itemLines renders the item multiset as sorted canonical lines. Physically
// identical items collapse to the same line, so only their count matters.
func itemLines(items []model.Item) []string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("item %g %g %g %g s=%t f=%t u=%t ml=%g",
			item.Length, item.Width, item.Height, item.Weight,
			item.Stackable, item.Fragile, item.ThisSideUp, item.MaxLoad)
	}
	sort.Strings(lines)
	return lines
}

func boxLines(boxes []model.Box) []string {
	lines := make([]string, len(boxes))
	for i, box := range boxes {
		lines[i] = boxLine(box)
	}
	sort.Strings(lines)
	return lines
}

func boxLine(box model.Box) string {
	var b strings.Builder
	fmt.Fprintf(&b, "box %s %g %g %g %g %g %g %g %s",
		box.ID,
		box.Length, box.Width, box.Height,
		box.OuterLength, box.OuterWidth, box.OuterHeight,
		box.MaxWeight, box.UnitCost.String())
	return b.String()
}
