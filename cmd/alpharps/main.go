// Train a SARSA agent against each rock-paper-scissors opponent and
// report the episode totals.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/logrusorgru/aurora"

	"github.com/timpalpant/alpharps"
	"github.com/timpalpant/alpharps/choices"
	"github.com/timpalpant/alpharps/plot"
	"github.com/timpalpant/alpharps/report"
	"github.com/timpalpant/alpharps/sarsa"
)

type RunParams struct {
	Seed       int64
	Agent      sarsa.Config
	Sim        alpharps.Params
	Parallel   int
	Opponents  string
	Plot       bool
	PlotDir    string
	ReportOut  string
	PrintTable bool
	NoColor    bool
}

func main() {
	var params RunParams
	defaultAgent := sarsa.DefaultConfig()
	defaultSim := alpharps.DefaultParams()
	flag.Int64Var(&params.Seed, "seed", time.Now().UnixNano(), "Random seed")
	flag.Float64Var(&params.Agent.Epsilon, "epsilon", defaultAgent.Epsilon,
		"Probability that the agent plays a random action")
	flag.Float64Var(&params.Agent.Alpha, "alpha", defaultAgent.Alpha, "Learning rate")
	flag.Float64Var(&params.Agent.Gamma, "gamma", defaultAgent.Gamma, "Discount factor")
	flag.IntVar(&params.Sim.NumEpisodes, "episodes", defaultSim.NumEpisodes,
		"Number of episodes to play against each opponent")
	flag.IntVar(&params.Sim.NumRounds, "rounds", defaultSim.NumRounds, "Number of rounds per episode")
	flag.IntVar(&params.Parallel, "parallel", 1, "Number of opponents to train against concurrently")
	flag.StringVar(&params.Opponents, "opponents", "",
		"Comma-separated opponents to play (default: all)")
	flag.BoolVar(&params.Plot, "plot", false, "Write a chart of the episode totals for each opponent")
	flag.StringVar(&params.PlotDir, "plot_dir", "charts", "Directory to write charts to")
	flag.StringVar(&params.ReportOut, "report_out", "", "File to save the run report to")
	flag.BoolVar(&params.PrintTable, "print_table", false, "Print the learned value table for each opponent")
	flag.BoolVar(&params.NoColor, "no_color", false, "Disable colored output")
	flag.Parse()
	defer glog.Flush()

	if err := params.Agent.Validate(); err != nil {
		glog.Fatal(err)
	}
	if err := params.Sim.Validate(); err != nil {
		glog.Fatal(err)
	}

	opponents, err := alpharps.SelectOpponents(
		alpharps.DefaultOpponents(params.Seed), splitNames(params.Opponents))
	if err != nil {
		glog.Fatal(err)
	}

	matchups := make([]alpharps.Matchup, len(opponents))
	for i, opponent := range opponents {
		// Agents draw from a different stream than the opponents.
		rng := rand.New(rand.NewSource(params.Seed - int64(i) - 1))
		agent, err := sarsa.NewAgent(params.Agent, rng)
		if err != nil {
			glog.Fatal(err)
		}
		matchups[i] = alpharps.Matchup{Agent: agent, Opponent: opponent}
	}

	glog.Infof("Training against %d opponents (seed %d)", len(matchups), params.Seed)
	results, err := alpharps.RunAll(matchups, params.Sim, params.Parallel)
	if err != nil {
		glog.Fatal(err)
	}

	au := aurora.NewAurora(!params.NoColor)
	for i, result := range results {
		printResult(au, result)
		if params.PrintTable {
			printTable(au, matchups[i].Agent)
		}

		if params.Plot {
			series := plot.Series{
				Name:     result.Opponent,
				Episodes: result.Episodes(),
				Totals:   result.Totals,
				Mean:     result.Mean(),
			}
			if _, err := plot.WriteFile(params.PlotDir, series); err != nil {
				glog.Fatal(err)
			}
		}
	}

	if params.ReportOut != "" {
		r := &report.Report{
			Created: time.Now(),
			Seed:    params.Seed,
			Config:  params.Agent,
			Params:  params.Sim,
			Results: results,
		}
		if err := report.Save(params.ReportOut, r); err != nil {
			glog.Fatal(err)
		}
	}
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func printResult(au aurora.Aurora, result alpharps.Result) {
	mean := result.Mean()
	var meanStr aurora.Value
	switch {
	case mean > 0:
		meanStr = au.Green(mean)
	case mean < 0:
		meanStr = au.Red(mean)
	default:
		meanStr = au.White(mean)
	}

	fmt.Fprintf(os.Stdout, "Running: %s\n", au.Bold(result.Opponent))
	fmt.Fprintf(os.Stdout, "Totals: %v, Mean: %v\n", result.Totals, meanStr)
}

func printTable(au aurora.Aurora, agent *sarsa.Agent) {
	fmt.Fprintf(os.Stdout, "%10s |", "")
	for _, a := range choices.All {
		fmt.Fprintf(os.Stdout, "%10s |", a)
	}
	fmt.Fprintln(os.Stdout)

	for _, row := range agent.Snapshot() {
		fmt.Fprintf(os.Stdout, "%10s |", row.State)
		best := row.Values[0]
		for _, v := range row.Values {
			if v > best {
				best = v
			}
		}

		for _, v := range row.Values {
			cell := fmt.Sprintf("%10.3f", v)
			if v == best {
				fmt.Fprint(os.Stdout, au.Green(cell))
			} else {
				fmt.Fprint(os.Stdout, au.Blue(cell))
			}
			fmt.Fprint(os.Stdout, au.White(" |"))
		}
		fmt.Fprintln(os.Stdout)
	}
}
