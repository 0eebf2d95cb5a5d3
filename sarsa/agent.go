// Package sarsa implements a tabular on-policy TD control agent.
package sarsa

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/timpalpant/alpharps/choices"
)

// Config holds the fixed hyperparameters of an Agent.
type Config struct {
	// Probability of playing a uniformly random action.
	Epsilon float64
	// Learning rate.
	Alpha float64
	// Discount factor applied to the value of the next state.
	Gamma float64
}

func DefaultConfig() Config {
	return Config{
		Epsilon: 0.1,
		Alpha:   0.5,
		Gamma:   0.9,
	}
}

func (c Config) Validate() error {
	if err := checkUnitInterval(c.Epsilon); err != nil {
		return errors.Wrap(err, "epsilon")
	}
	if err := checkUnitInterval(c.Alpha); err != nil {
		return errors.Wrap(err, "alpha")
	}
	if err := checkUnitInterval(c.Gamma); err != nil {
		return errors.Wrap(err, "gamma")
	}

	return nil
}

func checkUnitInterval(x float64) error {
	if math.IsNaN(x) || x < 0 || x > 1 {
		return errors.Errorf("%v is outside [0, 1]", x)
	}

	return nil
}

// Agent learns a value table with SARSA. The same epsilon-greedy
// procedure is used to act and to pick the bootstrap action in Update.
//
// An Agent is not safe for concurrent use.
type Agent struct {
	config Config
	table  *Table
	rng    *rand.Rand
}

func NewAgent(config Config, rng *rand.Rand) (*Agent, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid agent config")
	}
	if rng == nil {
		return nil, errors.New("agent requires a random source")
	}

	return &Agent{
		config: config,
		table:  NewTable(),
		rng:    rng,
	}, nil
}

func (a *Agent) Config() Config {
	return a.config
}

// SelectAction returns the action to play from state s.
func (a *Agent) SelectAction(s choices.Choice) choices.Choice {
	if a.rng.Float64() < a.config.Epsilon {
		return choices.All[a.rng.Intn(choices.NumChoices)]
	}

	return a.greedy(s)
}

// greedy returns an action of maximal value, chosen uniformly at random
// among all actions that share the maximum.
func (a *Agent) greedy(s choices.Choice) choices.Choice {
	row := a.table.Row(s)
	best := math.Inf(-1)
	var candidates [choices.NumChoices]choices.Choice
	n := 0
	for _, action := range choices.All {
		v := row[action]
		if v > best {
			best = v
			candidates[0] = action
			n = 1
		} else if v == best {
			candidates[n] = action
			n++
		}
	}

	return candidates[a.rng.Intn(n)]
}

// Update revises the value of (s, action) from one observed transition.
// The bootstrap action at next is drawn with SelectAction, so it consumes
// randomness and may itself be exploratory.
func (a *Agent) Update(s, action choices.Choice, reward int, next choices.Choice) {
	nextAction := a.SelectAction(next)
	target := float64(reward) + a.config.Gamma*a.table.Get(next, nextAction)
	row := a.table.Row(s)
	row[action] += a.config.Alpha * (target - row[action])
}

// Value returns the current estimate for (s, action).
// Like any table read, it materializes s if needed.
func (a *Agent) Value(s, action choices.Choice) float64 {
	return a.table.Get(s, action)
}

// NumStates returns the number of states the agent has visited.
func (a *Agent) NumStates() int {
	return a.table.Len()
}

// Snapshot returns a copy of the learned table.
func (a *Agent) Snapshot() []StateValues {
	return a.table.Snapshot()
}
