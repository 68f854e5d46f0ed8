package lr

import (
	"fmt"
	"io"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/parsetab/lr/sparse"
)

// https://www.cs.bgu.ac.il/~comp151/wiki.files/ps6.html#sec-2-7-3

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// Compute the closure of a single item.
func closure(g *Grammar, i Item) *treeset.Set {
	S := newItemSet()
	S.Add(i)
	return closureSet(g, S)
}

// Compute the closure of an item set: for every item [A ➞ α • B β] with B a
// non-terminal, add [B ➞ • γ] for every rule B ➞ γ, until nothing changes.
func closureSet(g *Grammar, S *treeset.Set) *treeset.Set {
	C := newItemSet() // add start items to closure
	C.Add(S.Values()...)
	work := S.Values()
	for len(work) > 0 {
		item := asItem(work[0])
		work = work[1:]
		B := item.PeekSymbol()           // get symbol B after dot
		if B != nil && !B.IsTerminal() { // B is non-terminal
			for _, r := range g.FindNonTermRules(B) {
				i, _ := StartItem(r)
				if !C.Contains(i) {
					C.Add(i)
					work = append(work, i)
				}
			}
		}
	}
	return C
}

func gotoSet(closure *treeset.Set, A *Symbol) (*treeset.Set, *Symbol) {
	// for every item in closure C
	// if item in C:  N -> ... *A ...
	//     advance N -> ... A * ...
	gotoset := newItemSet()
	for _, x := range closure.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			ii := i.Advance()
			tracer().Debugf("goto(%s) -%s-> %s", i, A, ii)
			gotoset.Add(ii)
		}
	}
	return gotoset, A
}

func gotoSetClosure(g *Grammar, i *treeset.Set, A *Symbol) (*treeset.Set, *Symbol) {
	gotoset, _ := gotoSet(i, A)
	if gotoset.Empty() {
		return gotoset, A
	}
	gclosure := closureSet(g, gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(i), A, itemSetString(gclosure))
	return gclosure, A
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     uint         // serial ID of this state
	items  *treeset.Set // configuration items within this state
	key    string       // canonical key of the item set
	Accept bool         // is this an accepting state?
}

// CFSM edge between 2 states, directed and labeled with a grammar symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

// Edge is a transition of the CFSM.
type Edge struct {
	From, To uint
	Label    *Symbol
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	dumpItems(s.items)
	tracer().Debugf("-------------------------")
}

// Items returns the closed item set of the state, in canonical order.
func (s *CFSMState) Items() []Item {
	vals := s.items.Values()
	items := make([]Item, len(vals))
	for k, x := range vals {
		items[k] = asItem(x)
	}
	return items
}

// Size returns the number of items in this state.
func (s *CFSMState) Size() int {
	return s.items.Size()
}

// Create a state from an item set
func state(id uint, iset *treeset.Set, key string) *CFSMState {
	s := &CFSMState{ID: id, key: key}
	if iset == nil {
		s.items = newItemSet()
	} else {
		s.items = iset
	}
	return s
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		if i.rule.Serial == 0 && i.PeekSymbol() == nil {
			return true
		}
	}
	return false
}

// Create an edge
func edge(from, to *CFSMState, label *Symbol) *cfsmEdge {
	return &cfsmEdge{
		from:  from,
		to:    to,
		label: label,
	}
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(int(c1.ID), int(c2.ID))
}

// itemSetKey computes a canonical key for an item set. Item sets with equal
// content have equal keys.
func itemSetKey(iset *treeset.Set) string {
	keys := make([]itemKey, 0, iset.Size())
	for _, x := range iset.Values() { // values are in canonical order
		i := asItem(x)
		keys = append(keys, itemKey{Rule: i.rule.Serial, Dot: i.dot})
	}
	h, err := structhash.Hash(keys, 1)
	if err != nil {
		tracer().Errorf("cannot hash item set: %v", err)
		return fmt.Sprintf("%v", keys)
	}
	return h
}

func sameItems(s1, s2 *treeset.Set) bool {
	if s1.Size() != s2.Size() {
		return false
	}
	v1, v2 := s1.Values(), s2.Values()
	for k := range v1 {
		if itemComparator(v1[k], v2[k]) != 0 {
			return false
		}
	}
	return true
}

// Add a state to the CFSM. Checks first if state is present. Returns the
// state and a flag, which is true for new states.
func (c *CFSM) addState(iset *treeset.Set) (*CFSMState, bool) {
	key := itemSetKey(iset)
	if s := c.findStateByItems(iset, key); s != nil {
		return s, false
	}
	s := state(c.cfsmIds, iset, key)
	c.cfsmIds++
	c.states.Add(s)
	c.index[key] = append(c.index[key], s)
	return s, true
}

// Find a CFSM state by the contained item set.
func (c *CFSM) findStateByItems(iset *treeset.Set, key string) *CFSMState {
	for _, s := range c.index[key] {
		if sameItems(s.items, iset) {
			return s
		}
	}
	return nil
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) *cfsmEdge {
	e := edge(s0, s1, sym)
	c.edges.Add(e)
	c.delta[transition{from: s0.ID, label: sym}] = s1
	return e
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

type transition struct {
	from  uint
	label *Symbol
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram, or canonical collection of LR(0) item sets.
// State 0 is the closure of the augmented start item [S' ➞ • S].
// A CFSM is immutable after construction.
type CFSM struct {
	g       *Grammar                  // this CFSM is for Grammar g
	states  *treeset.Set              // all the states
	edges   *arraylist.List           // all the edges between states
	index   map[string][]*CFSMState   // canonical item set keys
	delta   map[transition]*CFSMState // transition function
	S0      *CFSMState                // start state
	cfsmIds uint                      // serial IDs for CFSM states
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.index = make(map[string][]*CFSMState)
	c.delta = make(map[transition]*CFSMState)
	return c
}

// Grammar returns the grammar this CFSM has been built for.
func (c *CFSM) Grammar() *Grammar {
	return c.g
}

// Size returns the number of states.
func (c *CFSM) Size() int {
	return c.states.Size()
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	vals := c.states.Values()
	states := make([]*CFSMState, len(vals))
	for k, x := range vals {
		states[k] = x.(*CFSMState)
	}
	return states
}

// State returns the state with a given ID, or nil.
func (c *CFSM) State(id uint) *CFSMState {
	if int(id) >= c.states.Size() {
		return nil
	}
	return c.states.Values()[id].(*CFSMState)
}

// Goto is the transition function of the CFSM. It returns the target state
// for a state ID and a grammar symbol, if such a transition exists.
func (c *CFSM) Goto(id uint, A *Symbol) (*CFSMState, bool) {
	s, ok := c.delta[transition{from: id, label: A}]
	return s, ok
}

// Edges returns all transitions of the CFSM, in order of construction.
func (c *CFSM) Edges() []Edge {
	edges := make([]Edge, 0, c.edges.Size())
	it := c.edges.Iterator()
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		edges = append(edges, Edge{From: e.from.ID, To: e.to.ID, Label: e.label})
	}
	return edges
}

// BuildLR0Automaton constructs the characteristic finite state machine
// (CFSM) for a grammar. The only possible error is a *MalformedGrammarError.
//
// The construction is deterministic: states are processed first-in
// first-out, and symbols are checked in grammar order (non-terminals first).
// Building the CFSM twice yields identical state numbering and transitions.
func BuildLR0Automaton(g *Grammar) (*CFSM, error) {
	if err := CheckGrammar(g); err != nil {
		return nil, err
	}
	return buildCFSM(g), nil
}

// Construct the characteristic finite state machine CFSM for a grammar.
func buildCFSM(G *Grammar) *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	cfsm := emptyCFSM(G)
	item, sym := StartItem(G.rules[0])
	tracer().Debugf("Start item=%v/%v", item, sym)
	closure0 := closure(G, item)
	tracer().Debugf("----------")
	dumpItems(closure0)
	tracer().Debugf("----------")
	cfsm.S0, _ = cfsm.addState(closure0)
	cfsm.S0.Dump()
	S := treeset.NewWith(stateComparator) // work-list, ordered by ID
	S.Add(cfsm.S0)
	for S.Size() > 0 {
		it := S.Iterator()
		it.First()
		s := it.Value().(*CFSMState)
		S.Remove(s)
		G.EachSymbol(func(A *Symbol) interface{} {
			gotoset, _ := gotoSetClosure(G, s.items, A)
			if gotoset.Empty() {
				return nil
			}
			tracer().Debugf("checking goto-set for symbol = %v", A)
			snew, isNew := cfsm.addState(gotoset)
			if isNew {
				S.Add(snew)
				if snew.containsCompletedStartRule() {
					snew.Accept = true
				}
				snew.Dump()
			}
			cfsm.addEdge(s, snew, A)
			return nil
		})
		tracer().Debugf("-----------------------------------------------------------------")
	}
	tracer().Infof("CFSM for grammar %q has %d states", G.Name, cfsm.Size())
	return cfsm
}

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.States() {
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.items)))
	}
	it := c.edges.Iterator()
	for it.Next() {
		x := it.Value()
		edge := x.(*cfsmEdge)
		b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID,
			escapeGraphviz(edge.label.Name)))
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(S *treeset.Set) string {
	var b strings.Builder
	for _, x := range S.Values() {
		b.WriteString(escapeGraphviz(asItem(x).String()))
		b.WriteString(`\l`)
	}
	return b.String()
}

var graphvizEscaper = strings.NewReplacer(
	`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`, `\`, `\\`,
)

func escapeGraphviz(s string) string {
	return graphvizEscaper.Replace(s)
}

// === Parser Tables =========================================================

// Table is a parser table with rows for CFSM states and columns for grammar
// symbols. Cells may hold more than one value.
type Table struct {
	matrix *sparse.IntMatrix
}

func newTable(rows, cols int) *Table {
	return &Table{matrix: sparse.NewIntMatrix(rows, cols, sparse.DefaultNullValue)}
}

func (t *Table) add(i uint, col int, val int32) {
	t.matrix.Add(int(i), col, val)
}

func (t *Table) set(i uint, col int, val int32) {
	t.matrix.Set(int(i), col, val)
}

// NullValue is the value of empty cells.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the primary value of a cell, or NullValue.
func (t *Table) Value(i uint, col int) int32 {
	return t.matrix.Value(int(i), col)
}

// Values returns all values of a cell.
func (t *Table) Values(i uint, col int) []int32 {
	return t.matrix.Values(int(i), col)
}

// Rows returns the number of rows of the table.
func (t *Table) Rows() int {
	return t.matrix.M()
}

// GotoTable is the GOTO table of an LR parser. It maps a state and a
// non-terminal to a single state.
type GotoTable struct {
	*Table
	g *Grammar
}

// Goto returns GOTO(state, A).
func (gt *GotoTable) Goto(state uint, A *Symbol) (uint, bool) {
	if A.IsTerminal() || int(state) >= gt.Rows() {
		return 0, false
	}
	v := gt.Value(state, A.Value)
	if v == gt.NullValue() {
		return 0, false
	}
	return uint(v), true
}

// ActionTable is the ACTION table of an SLR(1) parser. It maps a state and a
// terminal to a list of actions. More than one action denotes a conflict.
type ActionTable struct {
	*Table
	g *Grammar
}

// Actions returns ACTION(state, a).
func (at *ActionTable) Actions(state uint, a *Symbol) []Action {
	if !a.IsTerminal() || a.IsEpsilon() || int(state) >= at.Rows() {
		return nil
	}
	vals := at.Values(state, a.Value)
	actions := make([]Action, len(vals))
	for k, v := range vals {
		actions[k] = decodeAction(v)
	}
	return actions
}

// BuildSLR1Table constructs the SLR(1) ACTION and GOTO tables from a CFSM and
// the FOLLOW sets of the grammar. Tables are always complete; every conflict
// is reported. The grammar is SLR(1) iff the list of conflicts is empty.
//
// The only possible error is a *MalformedGrammarError.
func BuildSLR1Table(g *Grammar, cfsm *CFSM, follow *FollowSets) (*ActionTable, *GotoTable, []Conflict, error) {
	if err := CheckGrammar(g); err != nil {
		return nil, nil, nil, err
	}
	if cfsm == nil || cfsm.g != g || follow == nil || follow.g != g {
		return nil, nil, nil, malformed(g.Name, "", "CFSM or FOLLOW sets do not belong to grammar")
	}
	gototable := buildGotoTable(cfsm)
	actiontable, conflicts := buildActionTable(cfsm, follow)
	return actiontable, gototable, conflicts, nil
}

// GOTO(s, N) = s' for every edge s --N--> s' of the CFSM.
func buildGotoTable(cfsm *CFSM) *GotoTable {
	statescnt := cfsm.Size()
	tracer().Infof("GOTO table of size %d x %d", statescnt, len(cfsm.g.nonterminals))
	gototable := &GotoTable{
		Table: newTable(statescnt, len(cfsm.g.nonterminals)),
		g:     cfsm.g,
	}
	for _, state := range cfsm.States() {
		for _, e := range cfsm.allEdges(state) {
			if !e.label.IsTerminal() {
				gototable.set(state.ID, e.label.Value, int32(e.to.ID))
			}
		}
	}
	return gototable
}

// For building an ACTION table we iterate over all the states of the CFSM.
// An inner loop iterates over all the items within a CFSM-state.
// If an item has a terminal immediately after the dot, we produce a shift
// entry. If an item's dot is behind the complete RHS of a rule, then we
// produce a reduce-entry for the rule for each terminal from FOLLOW(LHS).
// The completed start rule produces an accept entry for $.
//
// Every table cell may hold any number of actions. Cells with more than
// one action are collected as conflicts.
func buildActionTable(cfsm *CFSM, follow *FollowSets) (*ActionTable, []Conflict) {
	G := cfsm.g
	statescnt := cfsm.Size()
	tracer().Infof("ACTION table of size %d x %d", statescnt, len(G.terminals))
	actions := &ActionTable{
		Table: newTable(statescnt, len(G.terminals)),
		g:     G,
	}
	for _, state := range cfsm.States() {
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, i := range state.Items() {
			A := i.PeekSymbol()
			tracer().Debugf("item in s%d = %v, symbol at dot = %v", state.ID, i, A)
			if A != nil && A.IsTerminal() { // create a shift entry
				target, ok := cfsm.Goto(state.ID, A)
				if !ok {
					panic(fmt.Sprintf("CFSM has no transition from state %d on %v", state.ID, A))
				}
				tracer().Debugf("    creating action entry --%v--> %d", A, target.ID)
				actions.add(state.ID, A.Value, Shift(target.ID).encode())
				continue
			}
			if A != nil {
				continue
			}
			// we are at the end of a rule
			if i.rule.Serial == 0 {
				tracer().Debugf("    creating accept action entry @ %v", EOF)
				actions.add(state.ID, EOFValue, Accept().encode())
				continue
			}
			lookaheads := follow.Of(i.rule.LHS)
			tracer().Debugf("    Follow(%v) = %v", i.rule.LHS, lookaheads)
			for _, la := range lookaheads.Symbols() {
				tracer().Debugf("    creating reduce_%d action entry @ %v for %v", i.rule.Serial, la, i.rule)
				actions.add(state.ID, la.Value, Reduce(i.rule.Serial).encode())
			}
		}
	}
	return actions, collectConflicts(cfsm, actions)
}

func collectConflicts(cfsm *CFSM, actions *ActionTable) []Conflict {
	var conflicts []Conflict
	for _, state := range cfsm.States() {
		for _, a := range cfsm.g.terminals {
			cell := actions.Actions(state.ID, a)
			if len(cell) < 2 {
				continue
			}
			c := Conflict{
				State:    state.ID,
				Terminal: a,
				Kind:     classify(cell),
				Actions:  cell,
			}
			tracer().Infof("%v", c)
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

// === Table Generator =======================================================

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and parser tables for an SLR(1)-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	gototable    *GotoTable
	actiontable  *ActionTable
	conflicts    []Conflict
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
// As Analysis returns nil for a malformed grammar, ga may be nil; in this
// case an error is traced and NewTableGenerator returns nil.
func NewTableGenerator(ga *LRAnalysis) *TableGenerator {
	if ga == nil {
		tracer().Errorf("cannot create table generator without grammar analysis")
		return nil
	}
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	return lrgen
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = buildCFSM(lrgen.g)
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *GotoTable {
	if lrgen.gototable == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *ActionTable {
	if lrgen.actiontable == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// Conflicts returns all conflicts found in the ACTION table.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	return lrgen.conflicts
}

// CreateTables creates the necessary data structures for an SLR parser.
func (lrgen *TableGenerator) CreateTables() {
	dfa := lrgen.CFSM()
	lrgen.gototable = buildGotoTable(dfa)
	lrgen.actiontable, lrgen.conflicts = buildActionTable(dfa, lrgen.ga.FollowSets())
	lrgen.HasConflicts = len(lrgen.conflicts) > 0
}

// AcceptingStates returns the IDs of all states of the CFSM which contain
// the completed start rule [S' ➞ S •].
func (lrgen *TableGenerator) AcceptingStates() []uint {
	if lrgen.dfa == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
		return nil
	}
	acc := make([]uint, 0, 1)
	for _, state := range lrgen.dfa.States() {
		if state.Accept {
			acc = append(acc, state.ID)
		}
	}
	return acc
}

// --- HTML export -----------------------------------------------------------

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.gototable == nil {
		tracer().Errorf("GOTO table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "GOTO", lrgen.g.nonterminals[1:], func(s uint, A *Symbol) string {
		if to, ok := lrgen.gototable.Goto(s, A); ok {
			return fmt.Sprintf("%d", to)
		}
		return ""
	}, w)
}

// ActionTableAsHTML exports the SLR(1) ACTION-table in HTML-format.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.actiontable == nil {
		tracer().Errorf("ACTION table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "ACTION", lrgen.g.terminals, func(s uint, a *Symbol) string {
		var td []string
		for _, act := range lrgen.actiontable.Actions(s, a) {
			td = append(td, act.String())
		}
		return strings.Join(td, "/")
	}, w)
}

func parserTableAsHTML(lrgen *TableGenerator, tname string, symvec []*Symbol,
	cell func(uint, *Symbol) string, w io.Writer) {
	//
	io.WriteString(w, "<html><body>\n")
	io.WriteString(w, fmt.Sprintf("%s table for grammar %s<p>", tname, lrgen.g.Name))
	io.WriteString(w, "<table border=1 cellspacing=0 cellpadding=5>\n")
	io.WriteString(w, "<tr bgcolor=#cccccc><td></td>\n")
	for _, A := range symvec {
		io.WriteString(w, fmt.Sprintf("<td>%s</td>", A))
	}
	io.WriteString(w, "</tr>\n")
	for _, state := range lrgen.dfa.States() {
		io.WriteString(w, fmt.Sprintf("<tr><td>state %d</td>\n", state.ID))
		for _, A := range symvec {
			td := cell(state.ID, A)
			if td == "" {
				td = "&nbsp;"
			}
			io.WriteString(w, "<td>")
			io.WriteString(w, td)
			io.WriteString(w, "</td>\n")
		}
		io.WriteString(w, "</tr>\n")
	}
	io.WriteString(w, "</table></body></html>\n")
}
