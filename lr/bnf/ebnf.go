package bnf

import (
	"fmt"
	"io"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/parsetab/lr"
	"golang.org/x/exp/ebnf"
)

// ParseEBNF reads a grammar in Go's EBNF notation and creates a grammar with
// start symbol start. Productions with a lower-case name are lexical; a
// reference to them is a terminal, as is every literal token.
//
// Options [X] , repetitions {X} and groups (X|Y) are replaced by helper
// non-terminals, named after the production they occur in:
//
//    [X]    ➞    P_opt1 ➞ X | ε
//    {X}    ➞    P_rep1 ➞ X P_rep1 | ε
//    (X|Y)  ➞    P_grp1 ➞ X | Y
//
// Groups without alternatives are inlined.
func ParseEBNF(name string, start string, r io.Reader) (*lr.Grammar, error) {
	grammar, err := ebnf.Parse(name, r)
	if err != nil {
		return nil, err
	}
	if err = ebnf.Verify(grammar, start); err != nil {
		return nil, err
	}
	if isLexical(start) {
		return nil, &lr.MalformedGrammarError{Grammar: name, Symbol: start,
			Reason: "start symbol is a lexical production"}
	}
	d := &desugarer{
		grammar: grammar,
		b:       lr.NewGrammarBuilder(name).SetStart(start),
		names:   make(map[string]bool, len(grammar)),
		counter: make(map[string]int),
	}
	for n := range grammar {
		d.names[n] = true
	}
	for _, prod := range d.productions() {
		if err := d.production(prod.Name.String, prod.Expr); err != nil {
			return nil, err
		}
	}
	return d.b.Grammar()
}

// desugarer translates EBNF productions into plain rules.
type desugarer struct {
	grammar ebnf.Grammar
	b       *lr.GrammarBuilder
	names   map[string]bool // names in use
	counter map[string]int  // helper serial per production
	queue   []helper
}

type helperKind int

const (
	groupHelper helperKind = iota
	optionHelper
	repetitionHelper
)

var helperSuffix = []string{"grp", "opt", "rep"}

// helper is a non-terminal created for an option, a repetition or a group.
type helper struct {
	name string
	kind helperKind
	body ebnf.Expression
}

type symbol struct {
	name     string
	terminal bool
}

// productions returns the non-lexical productions in order of appearance.
func (d *desugarer) productions() []*ebnf.Production {
	prods := make([]*ebnf.Production, 0, len(d.grammar))
	for _, prod := range d.grammar {
		if !isLexical(prod.Name.String) {
			prods = append(prods, prod)
		}
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Name.StringPos.Offset < prods[j].Name.StringPos.Offset
	})
	return prods
}

// production emits the rules for a production, followed by the rules of
// every helper created on the way.
func (d *desugarer) production(lhs string, expr ebnf.Expression) error {
	d.queue = d.queue[:0]
	alts, err := d.alternatives(lhs, expr)
	if err != nil {
		return err
	}
	for _, seq := range alts {
		d.emit(lhs, seq)
	}
	for len(d.queue) > 0 {
		h := d.queue[0]
		d.queue = d.queue[1:]
		alts, err := d.alternatives(lhs, h.body)
		if err != nil {
			return err
		}
		for _, seq := range alts {
			if h.kind == repetitionHelper {
				seq = append(seq, symbol{name: h.name})
			}
			d.emit(h.name, seq)
		}
		if h.kind != groupHelper {
			d.emit(h.name, nil)
		}
	}
	return nil
}

func (d *desugarer) emit(lhs string, seq []symbol) {
	tracer().Debugf("%s -> %v", lhs, seq)
	rb := d.b.LHS(lhs)
	if len(seq) == 0 {
		rb.Epsilon()
		return
	}
	for _, s := range seq {
		if s.terminal {
			rb.T(s.name)
		} else {
			rb.N(s.name)
		}
	}
	rb.End()
}

// alternatives flattens an expression into a list of symbol sequences.
func (d *desugarer) alternatives(prod string, expr ebnf.Expression) ([][]symbol, error) {
	switch x := expr.(type) {
	case nil:
		return [][]symbol{nil}, nil
	case ebnf.Alternative:
		var alts [][]symbol
		for _, e := range x {
			a, err := d.alternatives(prod, e)
			if err != nil {
				return nil, err
			}
			alts = append(alts, a...)
		}
		return alts, nil
	case ebnf.Sequence:
		var seq []symbol
		for _, e := range x {
			syms, err := d.term(prod, e)
			if err != nil {
				return nil, err
			}
			seq = append(seq, syms...)
		}
		return [][]symbol{seq}, nil
	}
	seq, err := d.term(prod, expr)
	if err != nil {
		return nil, err
	}
	return [][]symbol{seq}, nil
}

func (d *desugarer) term(prod string, expr ebnf.Expression) ([]symbol, error) {
	switch x := expr.(type) {
	case nil:
		return nil, nil
	case *ebnf.Name:
		return []symbol{{name: x.String, terminal: isLexical(x.String)}}, nil
	case *ebnf.Token:
		if x.String == "" {
			return nil, nil
		}
		return []symbol{{name: x.String, terminal: true}}, nil
	case *ebnf.Group:
		if _, isAlt := x.Body.(ebnf.Alternative); !isAlt {
			alts, err := d.alternatives(prod, x.Body)
			if err != nil {
				return nil, err
			}
			return alts[0], nil
		}
		return d.enqueue(prod, groupHelper, x.Body), nil
	case ebnf.Alternative:
		return d.enqueue(prod, groupHelper, x), nil
	case *ebnf.Option:
		return d.enqueue(prod, optionHelper, x.Body), nil
	case *ebnf.Repetition:
		return d.enqueue(prod, repetitionHelper, x.Body), nil
	case *ebnf.Range:
		return nil, fmt.Errorf("%s: character range in non-lexical production %s", x.Pos(), prod)
	}
	return nil, fmt.Errorf("%s: unsupported expression in production %s", expr.Pos(), prod)
}

func (d *desugarer) enqueue(prod string, kind helperKind, body ebnf.Expression) []symbol {
	var name string
	for name == "" || d.names[name] {
		d.counter[prod]++
		name = fmt.Sprintf("%s_%s%d", prod, helperSuffix[kind], d.counter[prod])
	}
	d.names[name] = true
	d.queue = append(d.queue, helper{name: name, kind: kind, body: body})
	return []symbol{{name: name}}
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}
