package lr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedGrammar is the error class of every structural grammar
// violation. Test for it with
//
//     errors.Is(err, lr.ErrMalformedGrammar)
//
var ErrMalformedGrammar = errors.New("malformed grammar")

// MalformedGrammarError is returned whenever a grammar violates one of the
// structural invariants of the grammar model, e.g. if the start symbol has no
// productions or if a name is used both as a terminal and as a non-terminal.
// No sound analysis is possible for such a grammar.
type MalformedGrammarError struct {
	Grammar string // name of the grammar
	Symbol  string // offending symbol, if any
	Reason  string
}

func malformed(g string, sym string, format string, args ...interface{}) *MalformedGrammarError {
	return &MalformedGrammarError{
		Grammar: g,
		Symbol:  sym,
		Reason:  fmt.Sprintf(format, args...),
	}
}

func (e *MalformedGrammarError) Error() string {
	var b strings.Builder
	b.WriteString("malformed grammar")
	if e.Grammar != "" {
		fmt.Fprintf(&b, " %q", e.Grammar)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Symbol != "" {
		fmt.Fprintf(&b, " (symbol %q)", e.Symbol)
	}
	return b.String()
}

// Is makes every MalformedGrammarError match ErrMalformedGrammar.
func (e *MalformedGrammarError) Is(target error) bool {
	return target == ErrMalformedGrammar
}

// CheckGrammar is the entry check of all the table builders. It returns a
// *MalformedGrammarError for grammars not created by NewGrammar or a
// GrammarBuilder.
func CheckGrammar(g *Grammar) error {
	if g == nil {
		return malformed("", "", "grammar is nil")
	}
	if !g.frozen || len(g.rules) < 2 {
		return malformed(g.Name, "", "grammar has not been constructed by a grammar constructor")
	}
	return nil
}
