// SPDX-License-Identifier: MIT

package gauge_test

import (
	"fmt"

	"github.com/katalvlaran/lvgst/gauge"
	"github.com/katalvlaran/lvgst/operator"
	"github.com/katalvlaran/lvgst/stdmodels"
)

func ExampleCompute() {
	gs := stdmodels.MustStd1QXYI(operator.Full)
	res, err := gauge.Compute(gs)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("params=%d gauge=%d non-gauge=%d\n", gs.NumParams(), res.GaugeRank, res.NonGaugeRank)
	// Output: params=56 gauge=16 non-gauge=40
}
