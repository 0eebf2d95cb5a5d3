package sarsa

import (
	"sort"

	"github.com/timpalpant/alpharps/choices"
)

// Row holds the value estimate of every action from a single state.
type Row [choices.NumChoices]float64

// Table maps (state, action) pairs to estimated discounted reward.
//
// Entries are created lazily: the first access to a state materializes
// all of its actions at 0.0 in one step, and a materialized state is never
// reset or removed. Tests that want to set up specific values must go
// through Row, which follows the same contract.
type Table struct {
	rows map[choices.Choice]*Row
}

func NewTable() *Table {
	return &Table{
		rows: make(map[choices.Choice]*Row, choices.NumChoices),
	}
}

// Row returns the row for state s, inserting a zeroed row if s
// has never been seen.
func (t *Table) Row(s choices.Choice) *Row {
	row, ok := t.rows[s]
	if !ok {
		row = &Row{}
		t.rows[s] = row
	}

	return row
}

// Get returns the value of action a in state s.
func (t *Table) Get(s, a choices.Choice) float64 {
	return t.Row(s)[a]
}

// Has reports whether state s has been materialized, without
// materializing it.
func (t *Table) Has(s choices.Choice) bool {
	_, ok := t.rows[s]
	return ok
}

// Len returns the number of materialized states.
func (t *Table) Len() int {
	return len(t.rows)
}

// StateValues is a copy of one materialized row of a Table.
type StateValues struct {
	State  choices.Choice
	Values Row
}

// Snapshot returns a copy of all materialized rows, ordered by state.
func (t *Table) Snapshot() []StateValues {
	result := make([]StateValues, 0, len(t.rows))
	for s, row := range t.rows {
		result = append(result, StateValues{State: s, Values: *row})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].State < result[j].State
	})
	return result
}
