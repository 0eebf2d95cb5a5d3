package alpharps

import (
	"math"
	"math/rand"
	"testing"

	"github.com/timpalpant/alpharps/choices"
	"github.com/timpalpant/alpharps/sarsa"
)

type recordingOpponent struct {
	Opponent
	histories []History
}

func (o *recordingOpponent) Act(h History) choices.Choice {
	o.histories = append(o.histories, h)
	return o.Opponent.Act(h)
}

func newTestAgent(t testing.TB, config sarsa.Config, seed int64) *sarsa.Agent {
	agent, err := sarsa.NewAgent(config, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatal(err)
	}
	return agent
}

func greedyConfig() sarsa.Config {
	config := sarsa.DefaultConfig()
	config.Epsilon = 0
	return config
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("default params are invalid: %v", err)
	}

	for _, p := range []Params{{0, 10}, {10, 0}, {-1, 10}} {
		if err := p.Validate(); err == nil {
			t.Errorf("expected error validating %+v", p)
		}
	}
}

func TestResultStatistics(t *testing.T) {
	r := Result{Opponent: "test", Totals: []int{1, 2, 3, 4}}
	if r.Mean() != 2.5 {
		t.Errorf("mean is %v, expected 2.5", r.Mean())
	}
	if expected := math.Sqrt(5.0 / 3.0); math.Abs(r.StdDev()-expected) > 1e-12 {
		t.Errorf("stddev is %v, expected %v", r.StdDev(), expected)
	}

	episodes := r.Episodes()
	for i, ep := range episodes {
		if ep != i {
			t.Errorf("episode index %d is %d", i, ep)
		}
	}
}

func TestPlayEpisodeBeatsConstantOpponent(t *testing.T) {
	agent := newTestAgent(t, greedyConfig(), 1)
	PlayEpisode(agent, AlwaysRock{}, 1000)

	total := PlayEpisode(agent, AlwaysRock{}, 1000)
	if total <= 0 {
		t.Errorf("total against constant opponent is %d, expected > 0", total)
	}
}

func TestPlayEpisodeStartsFromInitialHistory(t *testing.T) {
	agent := newTestAgent(t, sarsa.DefaultConfig(), 1)
	opponent := &recordingOpponent{Opponent: NewUniformRandom(newTestRand())}
	const nRounds = 50
	result := Run(agent, opponent, Params{NumEpisodes: 3, NumRounds: nRounds})

	if len(opponent.histories) != 3*nRounds {
		t.Fatalf("opponent acted %d times, expected %d", len(opponent.histories), 3*nRounds)
	}
	for ep := 0; ep < 3; ep++ {
		if h := opponent.histories[ep*nRounds]; h != InitialHistory() {
			t.Errorf("episode %d started from %+v, expected %+v", ep, h, InitialHistory())
		}
	}

	if len(result.Totals) != 3 {
		t.Errorf("got %d totals, expected 3", len(result.Totals))
	}
	for _, total := range result.Totals {
		if total < -nRounds || total > nRounds {
			t.Errorf("total %d is out of range", total)
		}
	}
}

func TestHistoryAdvancesWithEachRound(t *testing.T) {
	agent := newTestAgent(t, sarsa.DefaultConfig(), 2)
	opponent := &recordingOpponent{Opponent: StrangeHuman{}}
	PlayEpisode(agent, opponent, 20)

	for i := 1; i < len(opponent.histories); i++ {
		prev, cur := opponent.histories[i-1], opponent.histories[i]
		if cur.OpponentPrev != prev.OpponentPrev.Counter() {
			t.Errorf("round %d: opponent previous choice %v, expected %v",
				i, cur.OpponentPrev, prev.OpponentPrev.Counter())
		}
		if _, reward := Resolve(cur.AgentPrev, cur.OpponentPrev); reward != cur.Reward {
			t.Errorf("round %d: reward %d does not match %v vs %v",
				i, cur.Reward, cur.AgentPrev, cur.OpponentPrev)
		}
	}
}

func TestTablePersistsAcrossEpisodes(t *testing.T) {
	agent := newTestAgent(t, greedyConfig(), 3)
	PlayEpisode(agent, AlwaysRock{}, 1000)
	learned := agent.Value(choices.Rock, choices.Paper)
	if learned <= 0 {
		t.Fatalf("value of Paper against Rock is %v after first episode, expected > 0", learned)
	}
	if agent.NumStates() != 1 {
		t.Errorf("agent visited %d states, expected 1", agent.NumStates())
	}

	PlayEpisode(agent, AlwaysRock{}, 1)
	updated := agent.Value(choices.Rock, choices.Paper)
	if updated == 0.5 {
		t.Error("value looks like it was updated from a reset table")
	}
	if updated < learned {
		t.Errorf("value after second episode is %v, expected at least %v", updated, learned)
	}
	if agent.NumStates() != 1 {
		t.Errorf("agent visited %d states after second episode, expected 1", agent.NumStates())
	}
}

func TestTableGrowsAcrossShortEpisodes(t *testing.T) {
	agent := newTestAgent(t, greedyConfig(), 3)
	// Seed Paper as the greedy reply to Rock so short episodes are deterministic.
	agent.Update(choices.Rock, choices.Paper, 1, choices.Rock)
	first := agent.Value(choices.Rock, choices.Paper)

	PlayEpisode(agent, AlwaysRock{}, 5)
	afterFirst := agent.Value(choices.Rock, choices.Paper)
	if afterFirst <= first {
		t.Fatalf("value after first episode is %v, expected more than %v", afterFirst, first)
	}

	PlayEpisode(agent, AlwaysRock{}, 5)
	afterSecond := agent.Value(choices.Rock, choices.Paper)
	if afterSecond <= afterFirst {
		t.Errorf("value after second episode is %v, expected more than %v", afterSecond, afterFirst)
	}
}

func TestRunAllPreservesOrder(t *testing.T) {
	params := Params{NumEpisodes: 2, NumRounds: 200}
	opponents := DefaultOpponents(5)
	for _, workers := range []int{1, 3} {
		matchups := make([]Matchup, len(opponents))
		for i, o := range DefaultOpponents(5) {
			matchups[i] = Matchup{Agent: newTestAgent(t, sarsa.DefaultConfig(), int64(i)), Opponent: o}
		}

		results, err := RunAll(matchups, params, workers)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != len(opponents) {
			t.Fatalf("got %d results, expected %d", len(results), len(opponents))
		}
		for i, r := range results {
			if r.Opponent != opponents[i].Name() {
				t.Errorf("workers=%d: result %d is for %q, expected %q", workers, i, r.Opponent, opponents[i].Name())
			}
			if len(r.Totals) != params.NumEpisodes {
				t.Errorf("workers=%d: %s has %d totals, expected %d", workers, r.Opponent, len(r.Totals), params.NumEpisodes)
			}
		}
	}
}

func TestRunAllRejectsSharedAgent(t *testing.T) {
	agent := newTestAgent(t, sarsa.DefaultConfig(), 1)
	matchups := []Matchup{
		{Agent: agent, Opponent: AlwaysRock{}},
		{Agent: agent, Opponent: StrangeHuman{}},
	}
	if _, err := RunAll(matchups, DefaultParams(), 1); err == nil {
		t.Error("expected error running matchups that share an agent")
	}
}

func TestRunAllRejectsInvalidParams(t *testing.T) {
	matchups := []Matchup{{Agent: newTestAgent(t, sarsa.DefaultConfig(), 1), Opponent: AlwaysRock{}}}
	if _, err := RunAll(matchups, Params{NumEpisodes: 0, NumRounds: 10}, 1); err == nil {
		t.Error("expected error with zero episodes")
	}
}

func TestRunAllRejectsSharedRandomOpponent(t *testing.T) {
	opponent := NewUniformRandom(newTestRand())
	matchups := []Matchup{
		{Agent: newTestAgent(t, sarsa.DefaultConfig(), 1), Opponent: opponent},
		{Agent: newTestAgent(t, sarsa.DefaultConfig(), 2), Opponent: opponent},
	}
	if _, err := RunAll(matchups, Params{NumEpisodes: 1, NumRounds: 10}, 2); err == nil {
		t.Error("expected error running matchups that share a randomized opponent")
	}
}

func TestRunAllAllowsStatelessOpponentReuse(t *testing.T) {
	matchups := []Matchup{
		{Agent: newTestAgent(t, sarsa.DefaultConfig(), 1), Opponent: AlwaysRock{}},
		{Agent: newTestAgent(t, sarsa.DefaultConfig(), 2), Opponent: AlwaysRock{}},
	}
	results, err := RunAll(matchups, Params{NumEpisodes: 1, NumRounds: 10}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, expected 2", len(results))
	}
}

func TestRunAllRejectsNilOpponent(t *testing.T) {
	matchups := []Matchup{{Agent: newTestAgent(t, sarsa.DefaultConfig(), 1)}}
	if _, err := RunAll(matchups, Params{NumEpisodes: 1, NumRounds: 10}, 1); err == nil {
		t.Error("expected error running a matchup without an opponent")
	}
}

func BenchmarkPlayEpisode(b *testing.B) {
	agent := newTestAgent(b, sarsa.DefaultConfig(), 1)
	opponent := NewNumberphile(newTestRand())
	for i := 0; i < b.N; i++ {
		PlayEpisode(agent, opponent, 1000)
	}
}
