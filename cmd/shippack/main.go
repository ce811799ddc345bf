// ShipPack is a 3D bin packing and shipping cost optimizer.
//
// Packs order items into stocked transport boxes, prices the result with
// every configured carrier, and picks the cheapest feasible shipment.
//
// Build:
//   go build -o shippack ./cmd/shippack
package main

import (
	"github.com/piwi3910/ShipPack/cmd/shippack/commands"
)

func main() {
	commands.Execute()
}
