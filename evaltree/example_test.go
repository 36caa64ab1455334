// SPDX-License-Identifier: MIT

package evaltree_test

import (
	"fmt"

	"github.com/katalvlaran/lvgst/evaltree"
	"github.com/katalvlaran/lvgst/gatestring"
)

// ExampleBuild shows prefix sharing: "GxGyGx" reuses the node of "GxGy",
// and "Gx" resolves to its leaf.
func ExampleBuild() {
	strs := []gatestring.GateString{
		gatestring.Parse("Gx,Gy"),
		gatestring.Parse("Gx,Gy,Gx"),
		gatestring.Parse("Gx"),
	}
	tr, err := evaltree.Build([]string{"Gi", "Gx", "Gy"}, strs)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("nodes:", tr.NumNodes())
	for k := 0; k < tr.NumFinalStrings(); k++ {
		fmt.Printf("%s -> node %d\n", tr.String(k), tr.FinalIndex(k))
	}

	subs, _ := tr.Split(2)
	for _, sub := range subs {
		fmt.Println("group", sub.ParentIndices(), "nodes:", sub.NumNodes())
	}
	// Output:
	// nodes: 6
	// GxGy -> node 4
	// GxGyGx -> node 5
	// Gx -> node 2
	// group [0] nodes: 5
	// group [1 2] nodes: 6
}
