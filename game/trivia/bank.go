package trivia

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// DefaultDelay is how long the local bank pretends to think
const DefaultDelay = 500 * time.Millisecond

// DefaultQuestions is the built-in English practice bank
var DefaultQuestions = []Question{
	{Question: "What's this color?", Answer: "Red", Hint: "Like an apple", Category: CategoryColor, Color: "#ef4444"},
	{Question: "What's this color?", Answer: "Blue", Hint: "Like the sky", Category: CategoryColor, Color: "#3b82f6"},
	{Question: "What's this color?", Answer: "Green", Hint: "Like grass", Category: CategoryColor, Color: "#22c55e"},
	{Question: "What's this color?", Answer: "Yellow", Hint: "Like the sun", Category: CategoryColor, Color: "#eab308"},
	{Question: "What's this color?", Answer: "Purple", Hint: "Like grapes", Category: CategoryColor, Color: "#a855f7"},
	{Question: "What's this color?", Answer: "Orange", Hint: "Like an orange", Category: CategoryColor, Color: "#f97316"},
	{Question: "Where do you go to buy food?", Answer: "Supermarket", Hint: "It starts with S", Category: CategoryVocab},
	{Question: "Where do you go to mail a letter?", Answer: "Post Office", Hint: "You need a stamp", Category: CategoryVocab},
	{Question: "Where do you go to learn?", Answer: "School", Hint: "You see teachers here", Category: CategoryVocab},
	{Question: "Which way is this?", Answer: "Left", Hint: "Opposite of right", Category: CategoryDirection},
	{Question: "Which way is this?", Answer: "Right", Hint: "Opposite of left", Category: CategoryDirection},
	{Question: "Which way is this?", Answer: "Straight", Hint: "Keep going ahead", Category: CategoryDirection},
	{Question: "Where do the police work?", Answer: "Police Station", Hint: "They keep us safe", Category: CategoryVocab},
	{Question: "Where do you play with friends?", Answer: "Park", Hint: "There are trees and slides", Category: CategoryVocab},
	{Question: "Where do the fire trucks stay?", Answer: "Fire Station", Hint: "It is a red building", Category: CategoryVocab},
	{Question: "What is 100 in Japanese currency?", Answer: "100 Yen", Hint: "You buy cheap things here", Category: CategoryVocab},
}

// Bank serves random questions from a fixed list after a short delay
type Bank struct {
	questions []Question
	delay     time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// BankOption configures a Bank
type BankOption func(*Bank)

// WithDelay overrides the simulated lookup delay
func WithDelay(d time.Duration) BankOption {
	return func(b *Bank) { b.delay = d }
}

// WithQuestions replaces the question list
func WithQuestions(qs []Question) BankOption {
	return func(b *Bank) { b.questions = append([]Question(nil), qs...) }
}

// WithSeed makes question selection deterministic
func WithSeed(seed int64) BankOption {
	return func(b *Bank) { b.rng = rand.New(rand.NewSource(seed)) }
}

// NewBank creates a bank over DefaultQuestions
func NewBank(opts ...BankOption) *Bank {
	b := &Bank{
		questions: DefaultQuestions,
		delay:     DefaultDelay,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Len returns the number of questions in the bank
func (b *Bank) Len() int {
	return len(b.questions)
}

// FetchQuestion waits for the configured delay and returns a random question
func (b *Bank) FetchQuestion(ctx context.Context) (Question, error) {
	if len(b.questions) == 0 {
		return Question{}, ErrEmptyBank
	}

	if b.delay > 0 {
		timer := time.NewTimer(b.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Question{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Question{}, err
	}

	b.mu.Lock()
	idx := b.rng.Intn(len(b.questions))
	b.mu.Unlock()

	return b.questions[idx], nil
}
