package answer

import (
	"context"
)

type Service interface {
	// Answer replies to a follow-up question using the supplied summary as
	// context and returns the count the client should send next time.
	Answer(ctx context.Context, req Request) (*Result, error)
}

// Request is one conversation turn. A nil field was absent from the client
// payload.
type Request struct {
	Question    *string
	PromptCount *int
	Summary     *string
}

type Result struct {
	Answer      string `json:"answer"`
	PromptCount int    `json:"prompt_count"`
}

// Gate decides whether another question is allowed.
type Gate interface {
	Admit(promptCount int) error
	Next(promptCount int) int
}
