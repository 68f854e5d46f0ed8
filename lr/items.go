package lr

import (
	"bytes"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Item is an LR(0) item, i.e. a rule together with a position (the "dot")
// marking how much of the rule's right hand side has been recognized.
//
//    E ➞ E + T
//
//    dot | symbol after dot | item
//    ----+------------------+---------------
//    0   | E                | [E ::= • E + T]
//    1   | +                | [E ::= E • + T]
//    2   | T                | [E ::= E + • T]
//    3   | <none>           | [E ::= E + T •]
//
type Item struct {
	rule *Rule
	dot  int
}

// StartItem returns the initial item for a rule, i.e. the item with the dot
// before the first RHS symbol, together with this symbol.
func StartItem(r *Rule) (Item, *Symbol) {
	i := Item{rule: r, dot: 0}
	return i, i.PeekSymbol()
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the dot position, 0…len(RHS).
func (i Item) Dot() int {
	return i.dot
}

// PeekSymbol returns the symbol after the dot, or nil if the item is
// complete.
func (i Item) PeekSymbol() *Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Advance returns a new item with the dot moved one symbol to the right.
// Completed items are returned unchanged.
func (i Item) Advance() Item {
	if i.dot >= len(i.rule.rhs) {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1}
}

// Prefix returns the symbols before the dot.
func (i Item) Prefix() []*Symbol {
	return i.rule.rhs[:i.dot]
}

// IsComplete is true if the dot is behind the complete right hand side, i.e.
// the item is a candidate for a reduce action.
func (i Item) IsComplete() bool {
	return i.dot == len(i.rule.rhs)
}

func (i Item) String() string {
	var b bytes.Buffer
	b.WriteString("[")
	b.WriteString(i.rule.LHS.Name)
	b.WriteString(" ::=")
	for k, A := range i.rule.rhs {
		if k == i.dot {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(A.Name)
	}
	if i.IsComplete() {
		b.WriteString(" •")
	}
	b.WriteString("]")
	return b.String()
}

// Items are ordered by rule serial, then by dot position. This gives every
// item set a canonical order.
func itemComparator(a, b interface{}) int {
	i1, i2 := asItem(a), asItem(b)
	if c := utils.IntComparator(i1.rule.Serial, i2.rule.Serial); c != 0 {
		return c
	}
	return utils.IntComparator(i1.dot, i2.dot)
}

func newItemSet() *treeset.Set {
	return treeset.NewWith(itemComparator)
}

func asItem(x interface{}) Item {
	return x.(Item)
}

// itemKey is the canonical encoding of an item, used for hashing item sets.
type itemKey struct {
	Rule int
	Dot  int
}

func itemSetString(S *treeset.Set) string {
	var b bytes.Buffer
	b.WriteString("{")
	first := true
	for _, x := range S.Values() {
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(asItem(x).String())
	}
	b.WriteString(" }")
	return b.String()
}

// dumpItems is a debugging helper, tracing the items of an item set.
func dumpItems(S *treeset.Set) {
	for n, x := range S.Values() {
		tracer().Debugf("[%2d] %s", n+1, asItem(x))
	}
}
