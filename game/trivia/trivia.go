// Package trivia defines the question contract consumed by the game engine
// and ships a small local question bank.
//
// The engine never judges answers. It asks a Provider for a Question when a
// team lands on a question tile and later receives only a boolean verdict.
package trivia

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Category groups questions by the skill they exercise
type Category string

const (
	CategoryColor     Category = "COLOR"
	CategoryDirection Category = "DIRECTION"
	CategoryVocab     Category = "VOCAB"
)

// ErrEmptyBank is returned when a bank has no questions to serve
var ErrEmptyBank = errors.New("question bank is empty")

// Question is an opaque trivia record. Answer and Hint are for whoever judges
// the response; Color is only set for COLOR questions.
type Question struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Hint     string   `json:"hint"`
	Category Category `json:"category"`
	Color    string   `json:"color,omitempty"`
}

// Provider supplies trivia questions. Implementations must return promptly
// once ctx is done.
type Provider interface {
	FetchQuestion(ctx context.Context) (Question, error)
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(ctx context.Context) (Question, error)

// FetchQuestion calls f(ctx)
func (f ProviderFunc) FetchQuestion(ctx context.Context) (Question, error) {
	return f(ctx)
}

// WithTimeout bounds every fetch made through p by d. The bound holds even
// when p ignores ctx: the call is abandoned and its late result discarded.
func WithTimeout(p Provider, d time.Duration) Provider {
	return ProviderFunc(func(ctx context.Context) (Question, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		type result struct {
			q   Question
			err error
		}
		done := make(chan result, 1)
		go func() {
			q, err := p.FetchQuestion(ctx)
			done <- result{q, err}
		}()

		var r result
		select {
		case r = <-done:
		case <-ctx.Done():
			r.err = ctx.Err()
		}
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return Question{}, fmt.Errorf("trivia provider timed out after %s: %w", d, r.err)
			}
			return Question{}, r.err
		}
		return r.q, nil
	})
}
