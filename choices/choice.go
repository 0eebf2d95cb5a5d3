package choices

import (
	"strings"

	"github.com/pkg/errors"
)

// Choice is one of the three throws in a round of rock-paper-scissors.
type Choice uint8

const (
	Rock Choice = iota
	Paper
	Scissors
)

var choiceStr = [...]string{
	"Rock",
	"Paper",
	"Scissors",
}

var choiceLetter = [...]string{"R", "P", "S"}

// The number of distinct Choices.
const NumChoices = len(choiceStr)

// All enumerates every Choice in R, P, S order.
var All = [NumChoices]Choice{Rock, Paper, Scissors}

// String implements Stringer.
func (c Choice) String() string {
	return choiceStr[c]
}

// Letter returns the single-letter abbreviation of the Choice.
func (c Choice) Letter() string {
	return choiceLetter[c]
}

// Beats reports whether c wins against other: Rock > Scissors > Paper > Rock.
func (c Choice) Beats(other Choice) bool {
	return other.Counter() == c
}

// Counter returns the Choice that beats c.
func (c Choice) Counter() Choice {
	return (c + 1) % Choice(NumChoices)
}

// Parse accepts either the full name or the letter of a Choice.
func Parse(s string) (Choice, error) {
	for _, c := range All {
		if strings.EqualFold(s, c.String()) || strings.EqualFold(s, c.Letter()) {
			return c, nil
		}
	}

	return Rock, errors.Errorf("invalid choice: %q", s)
}
