package lr

import (
	"fmt"
	"strings"
)

// ActionKind is the kind of an entry in an ACTION table.
type ActionKind uint8

// Kinds of parser actions.
const (
	ShiftKind ActionKind = iota + 1
	ReduceKind
	AcceptKind
)

// Action is a parser action: shift to a state, reduce by a rule, or accept.
type Action struct {
	Kind  ActionKind
	State uint // target state for shift actions
	Rule  int  // rule serial for reduce actions
}

// Shift returns a shift action to state s.
func Shift(s uint) Action {
	return Action{Kind: ShiftKind, State: s}
}

// Reduce returns an action to reduce by rule no. r.
func Reduce(r int) Action {
	return Action{Kind: ReduceKind, Rule: r}
}

// Accept returns the accept action.
func Accept() Action {
	return Action{Kind: AcceptKind}
}

func (a Action) String() string {
	switch a.Kind {
	case ShiftKind:
		return fmt.Sprintf("s%d", a.State)
	case ReduceKind:
		return fmt.Sprintf("r%d", a.Rule)
	case AcceptKind:
		return "acc"
	}
	return "<none>"
}

// Actions are stored in sparse matrices as int32 values:
//
//    reduce by rule r   ➞   r  (r ≥ 1)
//    accept             ➞   AcceptAction
//    shift to state s   ➞   ShiftAction - s
//
const (
	AcceptAction = -1
	ShiftAction  = -2
)

func (a Action) encode() int32 {
	switch a.Kind {
	case ShiftKind:
		return ShiftAction - int32(a.State)
	case AcceptKind:
		return AcceptAction
	}
	return int32(a.Rule)
}

func decodeAction(v int32) Action {
	switch {
	case v == AcceptAction:
		return Accept()
	case v <= ShiftAction:
		return Shift(uint(ShiftAction - v))
	}
	return Reduce(int(v))
}

// === Conflicts =============================================================

// ConflictKind classifies an ACTION table conflict by the kinds of actions
// present in the table cell. An accept action counts as a shift on $.
type ConflictKind uint8

// Kinds of SLR(1) conflicts. A cell may exhibit both.
const (
	ShiftReduce ConflictKind = 1 << iota
	ReduceReduce
)

func (k ConflictKind) String() string {
	var kinds []string
	if k&ShiftReduce != 0 {
		kinds = append(kinds, "shift/reduce")
	}
	if k&ReduceReduce != 0 {
		kinds = append(kinds, "reduce/reduce")
	}
	if len(kinds) == 0 {
		return "<no conflict>"
	}
	return strings.Join(kinds, "+")
}

// Conflict describes an ACTION table cell with more than one action.
// Conflicts are never resolved; they are purely descriptive.
type Conflict struct {
	State    uint    // CFSM state
	Terminal *Symbol // lookahead
	Kind     ConflictKind
	Actions  []Action // all the competing actions
}

// Rules returns the serials of all the rules to reduce in a conflict.
func (c Conflict) Rules() []int {
	var rules []int
	for _, a := range c.Actions {
		if a.Kind == ReduceKind {
			rules = append(rules, a.Rule)
		}
	}
	return rules
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s conflict in state %d on '%s': %v", c.Kind, c.State, c.Terminal, c.Actions)
}

// classify returns the conflict kind for a set of actions, or 0 if the
// actions do not conflict.
func classify(actions []Action) ConflictKind {
	var shifts, reduces int
	for _, a := range actions {
		if a.Kind == ReduceKind {
			reduces++
		} else {
			shifts++
		}
	}
	var k ConflictKind
	if shifts > 0 && reduces > 0 {
		k |= ShiftReduce
	}
	if reduces > 1 {
		k |= ReduceReduce
	}
	return k
}
