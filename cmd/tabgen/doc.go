/*
Command tabgen prints analysis sets and parser tables for a grammar.

Grammars are read from a file in BNF-like notation (see package
lr/bnf), or in Go's EBNF notation if flag --ebnf names a start symbol.
Usage:

    tabgen sets  expr.bnf                    # FIRST and FOLLOW sets
    tabgen ll1   expr.bnf                    # LL(1) table and conflicts
    tabgen slr1  expr.bnf --dot expr.dot     # SLR(1) tables, CFSM as Graphviz
    tabgen slr1  --ebnf Expr expr.ebnf --html ./out
    tabgen repl                              # enter rules interactively

A file name of "-" reads from stdin.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsetab.cli'
func tracer() tracing.Trace {
	return tracing.Select("parsetab.cli")
}
