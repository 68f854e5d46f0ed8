/*
Package parsetab is a toolbox for static grammar analysis.

ParseTab computes the artifacts needed to drive table-based parsers from a
context-free grammar: FIRST and FOLLOW sets, an LL(1) predictive table and
SLR(1) ACTION/GOTO tables, derived from the characteristic finite state
machine (CFSM) of LR(0) item sets. Conflicts are never fatal; they are
collected and returned alongside the otherwise complete tables. Package
structure is as follows:

■ lr: Package lr holds the grammar model, the FIRST/FOLLOW set engine,
the CFSM construction and the SLR(1) table builder.

■ ll: Package ll builds LL(1) predictive parsing tables.

■ lr/sparse: Package sparse implements a sparse matrix type used as a
backing store for all parser tables.

■ lr/bnf: Package bnf reads grammars from text, in a BNF-like notation or
in Go's EBNF notation.

■ cmd/tabgen: A command line tool to print sets and tables for a grammar,
either from a file or entered interactively.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parsetab
