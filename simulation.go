package alpharps

import (
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/timpalpant/alpharps/sarsa"
)

// Params controls the length of a run against one opponent.
type Params struct {
	NumEpisodes int
	NumRounds   int
}

func DefaultParams() Params {
	return Params{
		NumEpisodes: 10,
		NumRounds:   100000,
	}
}

func (p Params) Validate() error {
	if p.NumEpisodes <= 0 {
		return errors.Errorf("number of episodes must be positive, got %d", p.NumEpisodes)
	}
	if p.NumRounds <= 0 {
		return errors.Errorf("number of rounds must be positive, got %d", p.NumRounds)
	}

	return nil
}

// Result holds the episode totals of one run against an opponent.
type Result struct {
	Opponent string
	Totals   []int
}

func (r Result) floats() []float64 {
	xs := make([]float64, len(r.Totals))
	for i, total := range r.Totals {
		xs[i] = float64(total)
	}
	return xs
}

// Mean returns the arithmetic mean of the episode totals.
func (r Result) Mean() float64 {
	return stat.Mean(r.floats(), nil)
}

// StdDev returns the sample standard deviation of the episode totals.
func (r Result) StdDev() float64 {
	return stat.StdDev(r.floats(), nil)
}

// Episodes returns the episode indices 0..n-1, for plotting.
func (r Result) Episodes() []int {
	idx := make([]int, len(r.Totals))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// PlayEpisode plays nRounds rounds starting from InitialHistory and
// returns the agent's total reward. The agent's table is updated after
// every round and is not reset.
func PlayEpisode(agent *sarsa.Agent, opponent Opponent, nRounds int) int {
	h := InitialHistory()
	total := 0
	for i := 0; i < nRounds; i++ {
		s := h.State()
		a := agent.SelectAction(s)
		o := opponent.Act(h)
		next, reward := Resolve(a, o)
		total += reward
		agent.Update(s, a, reward, next)
		h = h.Advance(a, o, reward)
	}

	return total
}

// Run plays params.NumEpisodes episodes against opponent with a single
// agent, so learning carries over from one episode to the next.
func Run(agent *sarsa.Agent, opponent Opponent, params Params) Result {
	glog.Infof("Running: %s", opponent.Name())
	start := time.Now()
	result := Result{
		Opponent: opponent.Name(),
		Totals:   make([]int, 0, params.NumEpisodes),
	}

	for ep := 0; ep < params.NumEpisodes; ep++ {
		total := PlayEpisode(agent, opponent, params.NumRounds)
		glog.V(1).Infof("[%s] episode %d: total %d", opponent.Name(), ep, total)
		result.Totals = append(result.Totals, total)
	}

	elapsed := time.Since(start)
	rps := float64(params.NumEpisodes*params.NumRounds) / elapsed.Seconds()
	glog.Infof("[%s] mean %.1f over %d episodes (took: %v, %.0f rounds/sec)",
		opponent.Name(), result.Mean(), params.NumEpisodes, elapsed, rps)
	return result
}

// Matchup pairs an opponent with the agent that trains against it.
type Matchup struct {
	Agent    *sarsa.Agent
	Opponent Opponent
}

// RunAll runs every matchup and returns results in matchup order.
// With maxWorkers > 1, up to maxWorkers matchups run concurrently.
// Matchups must not share an Agent or a randomized Opponent.
func RunAll(matchups []Matchup, params Params, maxWorkers int) ([]Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[*sarsa.Agent]string, len(matchups))
	seenOpponents := make(map[Opponent]int, len(matchups))
	for i, m := range matchups {
		if m.Opponent == nil {
			return nil, errors.Errorf("matchup %d has no opponent", i)
		}
		if m.Agent == nil {
			return nil, errors.Errorf("matchup against %s has no agent", m.Opponent.Name())
		}
		if other, ok := seen[m.Agent]; ok {
			return nil, errors.Errorf("%s and %s share an agent", other, m.Opponent.Name())
		}
		seen[m.Agent] = m.Opponent.Name()

		// Randomized opponents own a *rand.Rand and must not be shared.
		switch m.Opponent.(type) {
		case *UniformRandom, *WeightedRandom, *Numberphile:
			if j, ok := seenOpponents[m.Opponent]; ok {
				return nil, errors.Errorf("matchups %d and %d share the %s opponent",
					j, i, m.Opponent.Name())
			}
			seenOpponents[m.Opponent] = i
		}
	}

	results := make([]Result, len(matchups))
	if maxWorkers <= 1 {
		for i, m := range matchups {
			results[i] = Run(m.Agent, m.Opponent, params)
		}
		return results, nil
	}

	glog.V(2).Infof("Running %d matchups in up to %d workers", len(matchups), maxWorkers)
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxWorkers)
	for i, m := range matchups {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, m Matchup) {
			defer func() { <-sem }()
			defer wg.Done()
			results[i] = Run(m.Agent, m.Opponent, params)
		}(i, m)
	}

	wg.Wait()
	return results, nil
}
