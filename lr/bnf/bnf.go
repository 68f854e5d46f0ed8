package bnf

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/parsetab/lr"
)

// SyntaxError is an error in the notation of a rule.
type SyntaxError struct {
	Source string // name of the input
	Line   int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Msg)
}

// Parse reads a grammar in BNF-like notation. The grammar is named by name,
// which is used in error messages as well. Notational errors are reported as
// *SyntaxError, structural errors of the grammar as *lr.MalformedGrammarError.
func Parse(name string, r io.Reader) (*lr.Grammar, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &ruleParser{source: name}
	if err := p.parse(input, 1); err != nil {
		return nil, err
	}
	tracer().Infof("read %d productions for grammar %q", len(p.prods), name)
	return lr.NewGrammar(name, "", p.prods)
}

// ruleParser collects productions from a token stream. The left hand side
// of the last rule is kept to allow for continuation lines.
type ruleParser struct {
	source string
	prods  []lr.Production
	lhs    string
	toks   []token
	pos    int
}

func (p *ruleParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *ruleParser) peek() token {
	return p.toks[p.pos]
}

func (p *ruleParser) errorf(t token, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Source: p.source, Line: t.line, Msg: fmt.Sprintf(format, args...)}
}

// parse tokenizes input and appends all the rules found to p.prods.
// Nothing is appended if input contains an error.
func (p *ruleParser) parse(input []byte, firstLine int) error {
	toks, err := tokenize(input, firstLine)
	if err != nil {
		return &SyntaxError{Source: p.source, Line: firstLine, Msg: err.Error()}
	}
	p.toks, p.pos = toks, 0
	prods, lhs := len(p.prods), p.lhs
	if err := p.rules(); err != nil {
		p.prods, p.lhs = p.prods[:prods], lhs
		return err
	}
	return nil
}

func (p *ruleParser) rules() error {
	for {
		t := p.next()
		switch t.kind {
		case tokEOF:
			return nil
		case tokEnd:
			continue
		case tokBar: // continuation of previous rule
			if p.lhs == "" {
				return p.errorf(t, "alternative without left hand side")
			}
			p.prods = append(p.prods, lr.Production{LHS: p.lhs})
			if err := p.alternatives(); err != nil {
				return err
			}
		case tokArrow:
			return p.errorf(t, "missing left hand side before %v", t)
		case tokName:
			if arrow := p.next(); arrow.kind != tokArrow {
				return p.errorf(arrow, "expected %s after %q, found %v", tokenNames[tokArrow], t.text, arrow)
			}
			p.lhs = t.text
			p.prods = append(p.prods, lr.Production{LHS: p.lhs})
			if err := p.alternatives(); err != nil {
				return err
			}
		}
	}
}

// alternatives reads right hand sides into the last production, until the
// end of the rule. Every '|' opens a new production for the same LHS.
func (p *ruleParser) alternatives() error {
	for {
		t := p.peek()
		switch t.kind {
		case tokEOF, tokEnd:
			return nil
		case tokArrow:
			return p.errorf(t, "unexpected %v in rule for %q", t, p.lhs)
		case tokBar:
			p.prods = append(p.prods, lr.Production{LHS: p.lhs})
		case tokName:
			last := &p.prods[len(p.prods)-1]
			last.RHS = append(last.RHS, t.text)
		}
		p.next()
	}
}

// --- Rule Reader -----------------------------------------------------------

// RuleReader collects rules line by line, e.g. from an interactive session.
//
//    rr := bnf.NewRuleReader("G")
//    rr.Add("S -> A a")
//    rr.Add("A -> b | ε")
//    g, err := rr.Grammar()
//
type RuleReader struct {
	p    ruleParser
	line int
}

// NewRuleReader creates a rule reader for a grammar named name.
func NewRuleReader(name string) *RuleReader {
	return &RuleReader{p: ruleParser{source: name}}
}

// Add reads one or more rules from a line of text. If the text contains an
// error, none of its rules is added.
func (rr *RuleReader) Add(line string) error {
	rr.line++
	line = strings.TrimRight(line, "\n")
	return rr.p.parse([]byte(line), rr.line)
}

// Len returns the number of productions read so far.
func (rr *RuleReader) Len() int {
	return len(rr.p.prods)
}

// Productions returns the productions read so far.
func (rr *RuleReader) Productions() []lr.Production {
	return append([]lr.Production(nil), rr.p.prods...)
}

// Grammar creates a grammar from the rules read so far.
func (rr *RuleReader) Grammar() (*lr.Grammar, error) {
	return lr.NewGrammar(rr.p.source, "", rr.p.prods)
}

// Reset discards all the rules read so far.
func (rr *RuleReader) Reset() {
	rr.p.prods, rr.p.lhs = nil, ""
	rr.line = 0
}
