// Package conversation limits the number of follow-up questions per summary.
//
// The count is client state: the server echoes prompt_count back and trusts
// whatever the client sends on the next turn. The gate keeps no memory.
package conversation

import "github.com/nijaru/yt-summary/errors"

const DefaultMaxTurns = 8

type Gate struct {
	maxTurns int
}

func NewGate(maxTurns int) *Gate {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Gate{maxTurns: maxTurns}
}

// Admit rejects once promptCount reaches the limit.
func (g *Gate) Admit(promptCount int) error {
	if promptCount >= g.maxTurns {
		return errors.MaxTurnsReached("Gate.Admit")
	}
	return nil
}

// Next is the count the client should send with its next question.
func (g *Gate) Next(promptCount int) int {
	return promptCount + 1
}

func (g *Gate) MaxTurns() int {
	return g.maxTurns
}
