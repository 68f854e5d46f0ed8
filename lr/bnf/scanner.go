package bnf

import (
	"fmt"
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// Token types of the rule notation.
const (
	tokEOF int = iota
	tokName
	tokArrow
	tokBar
	tokEnd // end of rule: newline or ';'
)

var tokenNames = []string{"<eof>", "name", "'->'", "'|'", "end of rule"}

type token struct {
	kind   int
	text   string
	line   int
	column int
}

func (t token) String() string {
	if t.kind == tokName {
		return fmt.Sprintf("%q", t.text)
	}
	return tokenNames[t.kind]
}

var (
	ruleLexer   *lexmachine.Lexer
	lexerErr    error
	compileOnce sync.Once
)

// lexer returns the (compiled) lexer for the rule notation. The DFA is
// compiled once on first use.
func lexer() (*lexmachine.Lexer, error) {
	compileOnce.Do(func() {
		lx := lexmachine.NewLexer()
		lx.Add([]byte(`->`), makeToken(tokArrow))
		lx.Add([]byte(`→`), makeToken(tokArrow))
		lx.Add([]byte(`\|`), makeToken(tokBar))
		lx.Add([]byte(`;`), makeToken(tokEnd))
		lx.Add([]byte(`\n`), makeToken(tokEnd))
		lx.Add([]byte(`#[^\n]*`), skip)
		lx.Add([]byte(`( |\t|\r)+`), skip)
		lx.Add([]byte(`'[^'\n]+'`), makeQuoted(tokName))
		lx.Add([]byte(`"[^"\n]+"`), makeQuoted(tokName))
		lx.Add([]byte(`[^ \t\r\n|;#'"]+`), makeToken(tokName))
		if err := lx.Compile(); err != nil {
			tracer().Errorf("Error compiling DFA: %v", err)
			lexerErr = err
			return
		}
		ruleLexer = lx
	})
	return ruleLexer, lexerErr
}

// tokenize splits an input into tokens. The last token is always tokEOF.
// Unknown input is reported with its position.
func tokenize(input []byte, firstLine int) ([]token, error) {
	lx, err := lexer()
	if err != nil {
		return nil, err
	}
	scanner, err := lx.Scanner(input)
	if err != nil {
		return nil, err
	}
	var toks []token
	line := firstLine
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			if ui, is := err.(*machines.UnconsumedInput); is {
				return nil, fmt.Errorf("line %d: unexpected input %q", ui.FailLine+firstLine-1,
					string(ui.Text[ui.StartTC:ui.FailTC]))
			}
			return nil, err
		}
		lmtok := tok.(*lexmachine.Token)
		t := token{
			kind:   lmtok.Type,
			text:   lmtok.Value.(string),
			line:   lmtok.StartLine + firstLine - 1,
			column: lmtok.StartColumn,
		}
		if t.kind == tokName && !isQuoted(lmtok.Lexeme) {
			for _, part := range splitArrows(t) {
				tracer().Debugf("token %v at %d:%d", part, part.line, part.column)
				toks = append(toks, part)
			}
		} else {
			tracer().Debugf("token %v at %d:%d", t, t.line, t.column)
			toks = append(toks, t)
		}
		line = lmtok.EndLine + firstLine - 1
	}
	toks = append(toks, token{kind: tokEOF, line: line})
	return toks, nil
}

var arrows = []string{"->", "→"}

// splitArrows breaks up a name token which swallowed arrows, as in "S->a".
// The longest match of the name pattern would otherwise make "S->a" a
// single name.
func splitArrows(t token) []token {
	var toks []token
	for t.text != "" {
		at, width := -1, 0
		for _, arrow := range arrows {
			if i := strings.Index(t.text, arrow); i >= 0 && (at < 0 || i < at) {
				at, width = i, len(arrow)
			}
		}
		if at < 0 {
			return append(toks, t)
		}
		if at > 0 {
			toks = append(toks, token{kind: tokName, text: t.text[:at], line: t.line, column: t.column})
		}
		toks = append(toks, token{kind: tokArrow, text: t.text[at : at+width], line: t.line, column: t.column + at})
		t.text = t.text[at+width:]
		t.column += at + width
	}
	return toks
}

func isQuoted(lexeme []byte) bool {
	return len(lexeme) > 0 && (lexeme[0] == '\'' || lexeme[0] == '"')
}

// ---------------------------------------------------------------------------

// skip is a pre-defined action which ignores the scanned match.
func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// makeToken is a pre-defined action which wraps a scanned match into a token.
func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// makeQuoted wraps a quoted name into a token, stripping the quotes.
func makeQuoted(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes[1:len(m.Bytes)-1]), m), nil
	}
}
