/*
Package lr implements static grammar analysis and the construction of
LR parser tables.

Building a Grammar

Grammars are either created from a list of productions, or by using a
grammar builder object. With a list of productions, every name appearing
on the left hand side of a production is a non-terminal, every other name
is a terminal:

    g, err := lr.NewGrammar("G", "S", []lr.Production{
        {LHS: "S", RHS: []string{"A", "a"}},   // S  ->  A a
        {LHS: "A", RHS: []string{"b"}},        // A  ->  b
        {LHS: "A", RHS: nil},                  // A  ->  ε
    })

With a builder, clients state the kind of each symbol explicitly. The
left hand side of the first rule is the start symbol.

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a").End()     // S  ->  A a
    b.LHS("A").N("B").N("D").End()     // A  ->  B D
    b.LHS("B").T("b").End()            // B  ->  b
    b.LHS("B").Epsilon()               // B  ->
    b.LHS("D").T("d").End()            // D  ->  d
    b.LHS("D").Epsilon()               // D  ->
    g, err := b.Grammar()

This results in the following grammar:

   g.Dump()

   0: [S'] ::= [S]
   1: [S] ::= [A a]
   2: [A] ::= [B D]
   3: [B] ::= [b]
   4: [B] ::= []
   5: [D] ::= [d]
   6: [D] ::= []

Rule 0 is the augmented start rule. It is used to detect acceptance and
never shows up in conflict reports. Grammars violating structural
invariants (undeclared start symbol, a name used both as a terminal and
as a non-terminal, …) are rejected with a MalformedGrammarError.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. FIRST and FOLLOW
sets are computed by fixed-point iteration:

    first, follow, err := lr.BuildFirstFollow(g)
    g.EachNonTerminal(func(A *lr.Symbol) interface{} {
        fmt.Printf("FIRST(%s) = %v\n", A, first.Of(A))
        return nil
    })

    // Output:
    FIRST(S) = {a, b, d}
    FIRST(A) = {ε, b, d}
    FIRST(B) = {ε, b}
    FIRST(D) = {ε, d}

Parser Construction

Using FOLLOW sets as input, a bottom-up parser table can be constructed.
First a characteristic finite state machine (CFSM) is built from the
grammar. The CFSM is then transformed into a GOTO table and an ACTION
table for an SLR(1) parser. The CFSM is made available to the client as
well; it can be exported to Graphviz's Dot-format.

    cfsm, err := lr.BuildLR0Automaton(g)
    actions, gotos, conflicts, err := lr.BuildSLR1Table(g, cfsm, follow)

Or, all in one go:

    lrgen := lr.NewTableGenerator(lr.Analysis(g))
    lrgen.CreateTables()
    if lrgen.HasConflicts { … }

Conflicts (shift/reduce and reduce/reduce) are reported, but never
resolved. The tables are always complete, listing every competing action.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsetab.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsetab.lr")
}
