/*
Package ll builds predictive parsing tables for LL(1) parsers.

The table is indexed by a non-terminal and a lookahead terminal. For every
rule A ➞ α, the rule is predicted for every terminal in FIRST(α), and, if α
may derive ε, for every terminal in FOLLOW(A) (including $).

    first, follow, err := lr.BuildFirstFollow(g)
    table, conflicts, err := ll.BuildTable(g, first, follow)
    if len(conflicts) > 0 {
        // g is not LL(1)
    }

Cells predicting more than one rule are reported as conflicts. The table
is always built completely, listing every competing rule of a cell.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ll

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsetab.ll'.
func tracer() tracing.Trace {
	return tracing.Select("parsetab.ll")
}
