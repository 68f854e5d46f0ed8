/*
Package bnf reads grammars from text.

Two notations are supported. The first one is a plain BNF-like notation,
one rule per line (or terminated by ';'), alternatives separated by '|':

    # expression grammar
    E  -> E + T | T
    T  -> T * F | F
    F  -> ( E ) | id

'→' may be used instead of '->'. Arrows and bars need no white space
around them, thus 'S->a B' is a valid rule. An empty alternative, or the name 'ε',
denotes an ε-production. A line starting with '|' continues the rule of
the previous line. Every name appearing as a left hand side is a
non-terminal, every other name is a terminal; names may be quoted with
'…' or "…". The left hand side of the first rule is the start symbol.

The second notation is Go's EBNF, as read by package golang.org/x/exp/ebnf.
Productions with a lower-case name are lexical and are used as terminals.
Options, repetitions and groups are rewritten into fresh helper
non-terminals.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bnf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsetab.bnf'.
func tracer() tracing.Trace {
	return tracing.Select("parsetab.bnf")
}
