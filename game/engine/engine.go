package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/city-explorer-game/game/board"
	"github.com/wricardo/city-explorer-game/game/trivia"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Commands
	Dispatch(cmd Command) Transition

	// Game state
	GetState() GameState
	SetState(state GameState) error
	GetBoard() *board.Board
	GetConfig() *GameConfig
	GetRules() Rules
	IsGameOver() bool

	// History
	GetHistory() []HistoryEntry

	// Move hints for the current team
	Highlights() []board.Position

	// Lifecycle
	SetChangeListener(fn ChangeListener)
	Close()
}

// ChangeListener is called after every applied command, outside the engine
// lock, with a snapshot of the new state
type ChangeListener func(state GameState, events []Event)

// Option configures a GameEngine
type Option func(*GameEngine)

// WithRand injects the random source
func WithRand(rng Rand) Option {
	return func(e *GameEngine) { e.rng = rng }
}

// WithScheduler injects the timer source
func WithScheduler(s Scheduler) Option {
	return func(e *GameEngine) { e.scheduler = s }
}

// WithTrivia sets the question provider
func WithTrivia(p trivia.Provider) Option {
	return func(e *GameEngine) { e.trivia = p }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *GameEngine) { e.logger = l }
}

// WithChangeListener registers the change hook at construction
func WithChangeListener(fn ChangeListener) Option {
	return func(e *GameEngine) { e.onChange = fn }
}

// GameEngine implements the Engine interface. Every command goes through
// Dispatch; timers and trivia results re-enter the same way.
type GameEngine struct {
	mu     sync.Mutex
	state  GameState
	config *GameConfig
	env    Env

	rng       Rand
	scheduler Scheduler
	trivia    trivia.Provider
	logger    *zap.Logger
	onChange  ChangeListener

	history     []HistoryEntry
	totalMoves  int
	cancelTick  func()
	noteCancels map[int]func()

	ctx     context.Context
	cancel  context.CancelFunc
	fetches sync.WaitGroup
	closed  bool

	// outbox holds applied transitions in version order until the change
	// listener has seen them. delivering is held by the goroutine draining it.
	outbox     []change
	delivering sync.Mutex
}

type change struct {
	state  GameState
	events []Event
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	b, err := config.Board()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &GameEngine{
		state:       NewGameState(),
		config:      config,
		rng:         defaultRand(),
		scheduler:   timeScheduler{},
		trivia:      trivia.NewBank(),
		logger:      zap.NewNop(),
		history:     []HistoryEntry{},
		noteCancels: make(map[int]func()),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.env = Env{Board: b, Rules: config.Rules(), Rand: e.rng}

	return e, nil
}

// NewEngineWithDefaults creates a new game engine on the classic board
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultConfig(), opts...)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return e
}

// Dispatch applies a command and schedules whatever follow-up work the new
// state needs. Commands arriving after Close are dropped.
func (e *GameEngine) Dispatch(cmd Command) Transition {
	e.mu.Lock()
	if e.closed {
		t := Transition{State: e.state.Clone()}
		e.mu.Unlock()
		return t
	}
	t := e.apply(cmd)
	if t.Applied {
		e.outbox = append(e.outbox, change{state: t.State.Clone(), events: t.Events})
	}
	e.mu.Unlock()

	e.deliver()
	return t
}

// deliver hands queued changes to the listener outside the engine lock, one
// goroutine at a time and in the order they were applied. A listener that
// dispatches again has its change delivered by the loop already running.
func (e *GameEngine) deliver() {
	for {
		if !e.delivering.TryLock() {
			return
		}
		for {
			e.mu.Lock()
			if len(e.outbox) == 0 || e.closed {
				e.outbox = nil
				e.mu.Unlock()
				break
			}
			next := e.outbox[0]
			e.outbox = e.outbox[1:]
			listener := e.onChange
			e.mu.Unlock()

			if listener != nil {
				listener(next.state, next.events)
			}
		}
		e.delivering.Unlock()

		// A change queued while we were releasing the lock would otherwise wait
		e.mu.Lock()
		pending := len(e.outbox) > 0 && !e.closed
		e.mu.Unlock()
		if !pending {
			return
		}
	}
}

func (e *GameEngine) apply(cmd Command) Transition {
	before := e.state
	t := Reduce(e.state, cmd, e.env)
	if !t.Applied {
		t.State = e.state.Clone()
		return t
	}

	e.state = t.State
	e.record(cmd, before, t)

	if t.FetchQuestion != 0 {
		e.startFetch(t.FetchQuestion)
	}
	e.syncNotificationTimers()
	e.scheduleSettle()

	t.State = e.state.Clone()
	return t
}

// record appends an applied command to the history
func (e *GameEngine) record(cmd Command, before GameState, t Transition) {
	if _, ok := cmd.(ExpireNotification); ok {
		return
	}

	entry := HistoryEntry{
		Action:      cmd.Action(),
		PhaseBefore: before.Phase,
		PhaseAfter:  t.State.Phase,
		Events:      t.Events,
		Timestamp:   time.Now().Unix(),
	}
	if team, ok := before.CurrentTeam(); ok {
		entry.TeamID = team.ID
		from := team.Position
		entry.FromPosition = &from
		if after, ok := t.State.TeamByID(team.ID); ok {
			to := after.Position
			entry.ToPosition = &to
		}
	}

	// History is cumulative and survives Reset
	e.totalMoves++
	entry.Sequence = e.totalMoves
	e.history = append(e.history, entry)

	e.logger.Debug("command applied",
		zap.String("action", entry.Action),
		zap.Int("team", entry.TeamID),
		zap.String("phase", string(entry.PhaseAfter)),
		zap.Uint64("version", t.State.Version),
	)
}

// startFetch asks the trivia provider for a question in the background. The
// result comes back through Dispatch tagged with token. The fetch is bounded
// by the question timeout whether or not the provider watches its context.
func (e *GameEngine) startFetch(token uint64) {
	provider := trivia.WithTimeout(e.trivia, e.env.Rules.QuestionTimeout)
	parent := e.ctx

	e.fetches.Add(1)
	go func() {
		defer e.fetches.Done()

		q, err := provider.FetchQuestion(parent)
		if err != nil {
			e.logger.Warn("trivia unavailable, resuming movement",
				zap.Uint64("token", token),
				zap.Error(err),
			)
			e.Dispatch(QuestionFailed{Token: token, Reason: err.Error()})
			return
		}
		e.Dispatch(QuestionLoaded{Token: token, Question: q})
	}()
}

// scheduleSettle replaces the pending auto end-of-turn task
func (e *GameEngine) scheduleSettle() {
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
	if !e.state.AwaitingSettle() {
		return
	}
	version := e.state.Version
	e.cancelTick = e.scheduler.AfterFunc(e.env.Rules.SettleDelay, func() {
		e.Dispatch(AutoEndTurn{Version: version})
	})
}

// syncNotificationTimers starts expiry timers for new notifications and drops
// timers for notifications that are gone
func (e *GameEngine) syncNotificationTimers() {
	live := make(map[int]bool, len(e.state.Notifications))
	for _, n := range e.state.Notifications {
		live[n.ID] = true
		if _, ok := e.noteCancels[n.ID]; ok {
			continue
		}
		d := e.env.Rules.NotificationDuration
		if n.Kind == NotificationGoHome {
			d = e.env.Rules.HomeNotificationDuration
		}
		id := n.ID
		e.noteCancels[id] = e.scheduler.AfterFunc(d, func() {
			e.Dispatch(ExpireNotification{ID: id})
		})
	}
	for id, cancel := range e.noteCancels {
		if !live[id] {
			cancel()
			delete(e.noteCancels, id)
		}
	}
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// SetState replaces the game state and re-arms its timers. Used by tools and
// tests that need to start from a specific position.
func (e *GameEngine) SetState(state GameState) error {
	if state.Phase == "" {
		return fmt.Errorf("state phase cannot be empty")
	}
	for _, team := range state.Teams {
		if !e.env.Board.InBounds(team.Position) && state.Phase != PhaseTeamCount && state.Phase != PhaseTeamCustomization {
			return fmt.Errorf("team %d is off the board at (%d,%d)", team.ID, team.Position.X, team.Position.Y)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state.Clone()
	e.syncNotificationTimers()
	e.scheduleSettle()
	return nil
}

// GetBoard returns the board the game is played on
func (e *GameEngine) GetBoard() *board.Board {
	return e.env.Board
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetRules returns the rules derived from the configuration
func (e *GameEngine) GetRules() Rules {
	return e.env.Rules
}

// IsGameOver returns whether a team has won
func (e *GameEngine) IsGameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase == PhaseGameOver
}

// GetHistory returns the complete command history
func (e *GameEngine) GetHistory() []HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]HistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// Highlights returns the tiles the current team could plausibly reach this turn
func (e *GameEngine) Highlights() []board.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Highlights(&e.state, e.env.Board)
}

// SetChangeListener replaces the change hook
func (e *GameEngine) SetChangeListener(fn ChangeListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Wait blocks until in-flight trivia fetches have delivered their results
func (e *GameEngine) Wait() {
	e.fetches.Wait()
}

// Close cancels pending timers and in-flight trivia fetches. Results that
// arrive afterwards are dropped and never reach the change listener.
func (e *GameEngine) Close() {
	e.mu.Lock()
	e.closed = true
	e.outbox = nil
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
	for id, cancel := range e.noteCancels {
		cancel()
		delete(e.noteCancels, id)
	}
	e.mu.Unlock()
	e.cancel()
}
