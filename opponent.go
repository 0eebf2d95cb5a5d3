package alpharps

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/timpalpant/alpharps/choices"
)

// Opponent is a fixed, non-learning policy the agent is trained against.
type Opponent interface {
	Name() string
	Act(h History) choices.Choice
}

// UniformRandom plays each choice with equal probability.
type UniformRandom struct {
	rng *rand.Rand
}

func NewUniformRandom(rng *rand.Rand) *UniformRandom {
	return &UniformRandom{rng: rng}
}

func (UniformRandom) Name() string { return "Random Strategy" }

func (o *UniformRandom) Act(History) choices.Choice {
	return choices.All[o.rng.Intn(choices.NumChoices)]
}

// Intervals partitions [0, 1] into one cumulative interval per choice,
// in R, P, S order. A draw x selects the first choice whose upper
// boundary is >= x.
type Intervals [choices.NumChoices]float64

func (iv Intervals) Validate() error {
	prev := 0.0
	for i, b := range iv {
		if math.IsNaN(b) || b < 0 || b > 1 {
			return errors.Errorf("boundary %d (%v) is outside [0, 1]", i, b)
		}
		if b < prev {
			return errors.Errorf("boundary %d (%v) is less than boundary %d (%v)", i, b, i-1, prev)
		}
		prev = b
	}

	if last := iv[len(iv)-1]; last != 1.0 {
		return errors.Errorf("last boundary is %v, expected 1.0", last)
	}

	return nil
}

// Pick returns the choice selected by the draw x.
// A draw past the last boundary falls back to Rock.
func (iv Intervals) Pick(x float64) choices.Choice {
	i := sort.Search(len(iv), func(i int) bool {
		return iv[i] >= x
	})
	if i == len(iv) {
		return choices.Rock
	}

	return choices.All[i]
}

// WeightedRandom samples choices from a fixed partition using
// a single uniform draw per round.
type WeightedRandom struct {
	name      string
	intervals Intervals
	rng       *rand.Rand
}

func NewWeightedRandom(name string, intervals Intervals, rng *rand.Rand) (*WeightedRandom, error) {
	if err := intervals.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid intervals for %s", name)
	}

	return &WeightedRandom{
		name:      name,
		intervals: intervals,
		rng:       rng,
	}, nil
}

// NewAlmostRandom plays roughly 34% Rock, 33% Paper and 33% Scissors.
func NewAlmostRandom(rng *rand.Rand) *WeightedRandom {
	return mustNewWeightedRandom("Almost Random Strategy", Intervals{0.33, 0.66, 1.0}, rng)
}

// NewMostlyRandom plays 30% Rock, 30% Paper and 40% Scissors.
func NewMostlyRandom(rng *rand.Rand) *WeightedRandom {
	return mustNewWeightedRandom("Mostly Random Strategy", Intervals{0.3, 0.6, 1.0}, rng)
}

func mustNewWeightedRandom(name string, intervals Intervals, rng *rand.Rand) *WeightedRandom {
	o, err := NewWeightedRandom(name, intervals, rng)
	if err != nil {
		panic(err)
	}

	return o
}

func (o *WeightedRandom) Name() string { return o.name }

func (o *WeightedRandom) Intervals() Intervals { return o.intervals }

func (o *WeightedRandom) Act(History) choices.Choice {
	return o.intervals.Pick(o.rng.Float64())
}

// Numberphile reacts to the outcome of the previous round.
//
// The sign of History.Reward is read as given, from the agent's side:
// after a negative reward it repeats its own previous choice, after a
// positive reward it plays the choice that differs from both previous
// choices, and after a tie it draws from (R, P, S, R).
type Numberphile struct {
	rng *rand.Rand
}

func NewNumberphile(rng *rand.Rand) *Numberphile {
	return &Numberphile{rng: rng}
}

func (Numberphile) Name() string { return "Numberphile Strategy" }

var numberphileTieChoices = [...]choices.Choice{
	choices.Rock, choices.Paper, choices.Scissors, choices.Rock,
}

func (o *Numberphile) Act(h History) choices.Choice {
	switch {
	case h.Reward < 0:
		return h.OpponentPrev
	case h.Reward > 0:
		for _, c := range choices.All {
			if c != h.AgentPrev && c != h.OpponentPrev {
				return c
			}
		}
		// Unreachable: a decided round always has two distinct choices.
		return choices.Rock
	default:
		return numberphileTieChoices[o.rng.Intn(len(numberphileTieChoices))]
	}
}

// StrangeHuman always plays the choice that beats its own previous choice.
type StrangeHuman struct{}

func (StrangeHuman) Name() string { return "Strange Human Strategy" }

func (StrangeHuman) Act(h History) choices.Choice {
	return h.OpponentPrev.Counter()
}

// AlwaysRock always plays Rock.
type AlwaysRock struct{}

func (AlwaysRock) Name() string { return "Always Rock Strategy" }

func (AlwaysRock) Act(History) choices.Choice {
	return choices.Rock
}

// DefaultOpponents returns the standard opponents in run order. Each
// randomized opponent gets its own generator derived from seed.
func DefaultOpponents(seed int64) []Opponent {
	rngFor := func(i int64) *rand.Rand {
		return rand.New(rand.NewSource(seed + i))
	}

	return []Opponent{
		StrangeHuman{},
		NewUniformRandom(rngFor(1)),
		NewAlmostRandom(rngFor(2)),
		NewMostlyRandom(rngFor(3)),
		NewNumberphile(rngFor(4)),
		AlwaysRock{},
	}
}

// SelectOpponents filters opponents by case-insensitive name, preserving
// the order of opponents. An empty list of names selects everything.
func SelectOpponents(opponents []Opponent, names []string) ([]Opponent, error) {
	if len(names) == 0 {
		return opponents, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[normalizeName(name)] = false
	}

	var result []Opponent
	for _, o := range opponents {
		key := normalizeName(o.Name())
		if _, ok := wanted[key]; ok {
			wanted[key] = true
			result = append(result, o)
		}
	}

	for _, name := range names {
		if !wanted[normalizeName(name)] {
			return nil, errors.Errorf("unknown opponent: %q", name)
		}
	}

	return result, nil
}

// normalizeName lets "always-rock", "Always Rock" and
// "Always Rock Strategy" all refer to the same opponent.
func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
	return strings.TrimSuffix(name, "strategy")
}
