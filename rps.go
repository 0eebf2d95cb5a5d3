// Package alpharps trains a SARSA agent against a family of
// rock-paper-scissors opponents.
package alpharps

import (
	"github.com/timpalpant/alpharps/choices"
)

// Resolve plays one round. The next state observed by the agent is the
// opponent's choice, and the reward is from the agent's perspective:
// +1 for a win, -1 for a loss and 0 for a tie.
func Resolve(agent, opponent choices.Choice) (next choices.Choice, reward int) {
	next = opponent
	switch {
	case agent == opponent:
		reward = 0
	case agent.Beats(opponent):
		reward = 1
	default:
		reward = -1
	}

	return next, reward
}

// History is the view of the previous round that opponents act on.
type History struct {
	// The agent's choice in the previous round.
	AgentPrev choices.Choice
	// The opponent's own choice in the previous round.
	OpponentPrev choices.Choice
	// The previous round's reward, from the agent's perspective.
	Reward int
}

// InitialHistory is the history at the start of every episode.
func InitialHistory() History {
	return History{
		AgentPrev:    choices.Rock,
		OpponentPrev: choices.Rock,
		Reward:       0,
	}
}

// Advance returns the history after a round in which the agent played
// agent, the opponent played opponent, and the agent received reward.
func (h History) Advance(agent, opponent choices.Choice, reward int) History {
	return History{
		AgentPrev:    agent,
		OpponentPrev: opponent,
		Reward:       reward,
	}
}

// State is the agent's view of the history: the opponent's previous choice.
func (h History) State() choices.Choice {
	return h.OpponentPrev
}
