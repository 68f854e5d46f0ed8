package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/parsetab/ll"
	"github.com/npillmayer/parsetab/lr"
	"github.com/pterm/pterm"
)

func ruleString(r *lr.Rule) string {
	var b strings.Builder
	b.WriteString(r.LHS.Name)
	b.WriteString(" →")
	if r.IsEpsilon() {
		b.WriteString(" " + lr.EpsilonName)
	}
	for _, A := range r.RHS() {
		b.WriteString(" " + A.Name)
	}
	return b.String()
}

// userNonTerminals returns all non-terminals except the augmented start symbol.
func userNonTerminals(g *lr.Grammar) []*lr.Symbol {
	return g.NonTerminals()[1:]
}

func printRules(g *lr.Grammar) {
	pterm.DefaultSection.Println("Rules of grammar " + g.Name)
	data := pterm.TableData{{"#", "rule"}}
	for _, r := range g.Rules()[1:] {
		data = append(data, []string{fmt.Sprintf("%d", r.Serial), ruleString(r)})
	}
	renderTable(data)
}

func printSets(g *lr.Grammar, first *lr.FirstSets, follow *lr.FollowSets) {
	pterm.DefaultSection.Println("FIRST and FOLLOW sets")
	data := pterm.TableData{{"", "FIRST", "FOLLOW"}}
	for _, A := range userNonTerminals(g) {
		data = append(data, []string{A.Name, first.Of(A).String(), follow.Of(A).String()})
	}
	renderTable(data)
}

func printLL1(table *ll.Table, conflicts []ll.Conflict) {
	g := table.Grammar()
	pterm.DefaultSection.Println("LL(1) parsing table")
	header := []string{""}
	for _, a := range g.Terminals()[1:] {
		header = append(header, a.Name)
	}
	header = append(header, lr.EOFName)
	data := pterm.TableData{header}
	for _, A := range userNonTerminals(g) {
		row := []string{A.Name}
		cell := func(a *lr.Symbol) string {
			var rules []string
			for _, r := range table.Rules(A, a) {
				rules = append(rules, ruleString(r))
			}
			return strings.Join(rules, " / ")
		}
		for _, a := range g.Terminals()[1:] {
			row = append(row, cell(a))
		}
		row = append(row, cell(lr.EOF))
		data = append(data, row)
	}
	renderTable(data)
	if len(conflicts) == 0 {
		pterm.Success.Println(fmt.Sprintf("Grammar %s is LL(1)", g.Name))
		return
	}
	pterm.Warning.Println(fmt.Sprintf("Grammar %s is not LL(1)!", g.Name))
	for _, c := range conflicts {
		pterm.Warning.Println(c.String())
	}
}

func printSLR1(g *lr.Grammar, cfsm *lr.CFSM, actions *lr.ActionTable, gotos *lr.GotoTable,
	conflicts []lr.Conflict) {
	//
	pterm.DefaultSection.Println("SLR(1) ACTION table")
	header := []string{"state"}
	for _, a := range g.Terminals() {
		header = append(header, a.Name)
	}
	data := pterm.TableData{header}
	for _, s := range cfsm.States() {
		row := []string{fmt.Sprintf("%d", s.ID)}
		for _, a := range g.Terminals() {
			var acts []string
			for _, act := range actions.Actions(s.ID, a) {
				acts = append(acts, act.String())
			}
			row = append(row, strings.Join(acts, "/"))
		}
		data = append(data, row)
	}
	renderTable(data)
	pterm.DefaultSection.Println("SLR(1) GOTO table")
	header = []string{"state"}
	for _, A := range userNonTerminals(g) {
		header = append(header, A.Name)
	}
	data = pterm.TableData{header}
	for _, s := range cfsm.States() {
		row := []string{fmt.Sprintf("%d", s.ID)}
		for _, A := range userNonTerminals(g) {
			if to, ok := gotos.Goto(s.ID, A); ok {
				row = append(row, fmt.Sprintf("%d", to))
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}
	renderTable(data)
	pterm.Info.Println(fmt.Sprintf("Total states: %d", cfsm.Size()))
	if len(conflicts) == 0 {
		pterm.Success.Println(fmt.Sprintf("Grammar %s is SLR(1)", g.Name))
		return
	}
	pterm.Warning.Println(fmt.Sprintf("Grammar %s is not SLR(1)!", g.Name))
	for _, c := range conflicts {
		pterm.Warning.Println(c.String())
	}
}

func renderTable(data pterm.TableData) {
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf("cannot render table: %v", err)
	}
}
