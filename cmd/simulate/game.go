package main

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wricardo/city-explorer-game/game/board"
	"github.com/wricardo/city-explorer-game/game/engine"
	"github.com/wricardo/city-explorer-game/game/trivia"
)

// Strategy decides how simulated teams treat the bus
type Strategy string

const (
	// StrategyWalk always declines the bus
	StrategyWalk Strategy = "walk"
	// StrategySmart rides while the next stop brings the team closer
	StrategySmart Strategy = "smart"
	// StrategyRide boards every bus and never asks to get off
	StrategyRide Strategy = "ride"
)

// ParseStrategy validates a strategy name
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case StrategyWalk, StrategySmart, StrategyRide:
		return st, nil
	}
	return "", fmt.Errorf("unknown strategy %q (walk, smart, ride)", s)
}

// maxStepsPerTurn bounds the commands a single turn may take before the
// game is reported as stuck
const maxStepsPerTurn = 100

// Options control one simulated game
type Options struct {
	Teams    int
	Strategy Strategy
	// Accuracy is the chance a trivia answer is judged correct
	Accuracy float64
	MaxTurns int
	Logger   *zap.Logger
}

// GameResult is what one headless game produced
type GameResult struct {
	Seed     int64
	Finished bool
	WinnerID int
	Turns    int
	Rolls    int

	BusBoardings int
	BusLegs      int
	// ForcedExits counts legs where the team wanted to stay on but had no
	// fare and no free pass
	ForcedExits int

	Questions  int
	RedLights  int
	CoinsEnded []int
}

// stats is filled from the engine change listener. Trivia results are
// delivered on the fetch goroutine, hence the lock.
type stats struct {
	mu sync.Mutex
	GameResult
}

func (s *stats) observe(_ engine.GameState, events []engine.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		switch ev.Type {
		case engine.EventTurnEnded:
			s.Turns++
		case engine.EventDiceRolled:
			s.Rolls++
		case engine.EventBusBoarded:
			s.BusBoardings++
		case engine.EventBusLeg:
			s.BusLegs++
		case engine.EventQuestionReady:
			s.Questions++
		case engine.EventRedLightPlaced:
			s.RedLights++
		}
	}
}

func (s *stats) turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Turns
}

// player drives one engine to completion with a scripted strategy
type player struct {
	engine    *engine.GameEngine
	board     *board.Board
	scheduler *engine.ManualScheduler
	judge     engine.Rand
	opts      Options
	stats     *stats
}

// playGame runs one seeded game headlessly. Timers run on a manual clock and
// questions come from a seeded bank, so the same seed replays the same game.
func playGame(ctx context.Context, config *engine.GameConfig, seed int64, opts Options) (GameResult, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = 500
	}

	st := &stats{GameResult: GameResult{Seed: seed}}
	sched := engine.NewManualScheduler()
	e, err := engine.NewEngine(config,
		engine.WithRand(engine.NewRand(seed)),
		engine.WithScheduler(sched),
		engine.WithTrivia(trivia.NewBank(trivia.WithDelay(0), trivia.WithSeed(seed))),
		engine.WithLogger(opts.Logger),
		engine.WithChangeListener(st.observe),
	)
	if err != nil {
		return GameResult{}, err
	}
	defer e.Close()

	p := &player{
		engine:    e,
		board:     e.GetBoard(),
		scheduler: sched,
		judge:     engine.NewRand(seed + 1),
		opts:      opts,
		stats:     st,
	}

	if t := e.Dispatch(engine.SelectTeamCount{Count: opts.Teams}); !t.Applied {
		return GameResult{}, fmt.Errorf("team count %d rejected", opts.Teams)
	}
	e.Dispatch(engine.StartGame{})

	maxSteps := opts.MaxTurns * maxStepsPerTurn
	for steps := 0; st.turns() < opts.MaxTurns; steps++ {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		state := e.GetState()
		if state.Phase == engine.PhaseGameOver {
			break
		}
		if steps > maxSteps {
			return GameResult{}, fmt.Errorf("seed %d: game stalled in %s", seed, state.Phase)
		}
		if state.Processing {
			e.Wait()
			continue
		}
		p.step(&state)
	}

	e.Wait()
	final := e.GetState()

	st.mu.Lock()
	result := st.GameResult
	st.mu.Unlock()

	result.Finished = final.Phase == engine.PhaseGameOver
	result.WinnerID = final.WinnerID
	for _, team := range final.Teams {
		result.CoinsEnded = append(result.CoinsEnded, team.Coins)
	}
	return result, nil
}

// step issues the next command for whatever the state is waiting on
func (p *player) step(state *engine.GameState) {
	team, ok := state.CurrentTeam()
	if !ok {
		return
	}

	switch state.Phase {
	case engine.PhaseRolling:
		p.engine.Dispatch(engine.RollDice{})

	case engine.PhaseMoving:
		if state.RemainingMoves == 0 {
			p.settle()
			return
		}
		p.walk(state, team)

	case engine.PhaseQuestion:
		p.engine.Dispatch(engine.AnswerQuestion{Correct: p.judge.Float64() < p.opts.Accuracy})

	case engine.PhasePowerupSelect:
		pos := p.redLightFor(state)
		p.engine.Dispatch(engine.SelectRedLight{X: pos.X, Y: pos.Y})

	case engine.PhaseBusOffer:
		if route, ok := p.boardingRoute(team); ok {
			p.engine.Dispatch(engine.StartBusRide{Route: route})
			return
		}
		p.engine.Dispatch(engine.DeclineBus{})

	case engine.PhaseBusTravel:
		stayOn := p.stayOnBus(team)
		if stayOn && team.Coins <= 0 && !team.FreeBus {
			p.stats.mu.Lock()
			p.stats.ForcedExits++
			p.stats.mu.Unlock()
		}
		p.engine.Dispatch(engine.MoveBusOneStop{StayOn: stayOn})

	default:
		p.engine.Dispatch(engine.EndTurnEarly{})
	}
}

// settle lets the clock run so notifications expire and the turn ends on
// its own
func (p *player) settle() {
	if p.scheduler.Pending() == 0 {
		p.engine.Dispatch(engine.EndTurnEarly{})
		return
	}
	p.scheduler.RunAll()
}

// walk spends one move point on the shortest path to the team's target
func (p *player) walk(state *engine.GameState, team *engine.Team) {
	target, ok := engine.NextTarget(team, p.board)
	if !ok {
		p.engine.Dispatch(engine.EndTurnEarly{})
		return
	}
	next, ok := engine.StepToward(state, p.board, team.Position, target)
	if !ok {
		p.engine.Dispatch(engine.EndTurnEarly{})
		return
	}
	dir, _ := engine.DirectionTo(team.Position, next)

	var cmd engine.Command = engine.MoveForward{}
	switch {
	case dir == team.Facing:
	case dir == team.Facing.TurnRight():
		cmd = engine.Turn{Direction: engine.TurnRight}
	default:
		cmd = engine.Turn{Direction: engine.TurnLeft}
	}
	if t := p.engine.Dispatch(cmd); !t.Applied {
		p.engine.Dispatch(engine.EndTurnEarly{})
	}
}

// redLightFor picks the crosswalk closest to the team that plays next
func (p *player) redLightFor(state *engine.GameState) board.Position {
	crosswalks := p.board.Positions(board.Crosswalk)
	if len(crosswalks) == 0 {
		return board.Position{X: -1, Y: -1}
	}
	next := state.Teams[(state.CurrentTeamIndex+1)%len(state.Teams)]
	best := crosswalks[0]
	for _, c := range crosswalks[1:] {
		if board.ManhattanDistance(next.Position, c) < board.ManhattanDistance(next.Position, best) {
			best = c
		}
	}
	return best
}

// boardingRoute picks the route to take from the stop the team stands on
func (p *player) boardingRoute(team *engine.Team) (board.RouteID, bool) {
	routes := p.board.RouteIDs()
	if len(routes) == 0 {
		return "", false
	}
	switch p.opts.Strategy {
	case StrategyRide:
		return routes[0], true
	case StrategySmart:
		target, ok := engine.NextTarget(team, p.board)
		if !ok {
			return "", false
		}
		stop, ok := p.board.StopAt(team.Position)
		if !ok {
			return "", false
		}
		here := board.ManhattanDistance(team.Position, target)
		for _, id := range routes {
			next, err := p.board.NextStop(id, stop.ID)
			if err == nil && board.ManhattanDistance(next.Position(), target) < here {
				return id, true
			}
		}
	}
	return "", false
}

// stayOnBus decides whether to ride one more leg
func (p *player) stayOnBus(team *engine.Team) bool {
	if p.opts.Strategy == StrategyRide {
		return true
	}
	if team.BusStatus == nil {
		return false
	}
	target, ok := engine.NextTarget(team, p.board)
	if !ok {
		return false
	}
	next, err := p.board.NextStop(team.BusStatus.Route, team.BusStatus.CurrentStopID)
	if err != nil {
		return false
	}
	return board.ManhattanDistance(next.Position(), target) < board.ManhattanDistance(team.Position, target)
}
