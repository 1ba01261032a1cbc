package engine

import (
	"testing"

	"github.com/wricardo/city-explorer-game/game/board"
)

func TestMoveForward(t *testing.T) {
	s, env := startedGame(t, 1)

	t.Run("step along facing", func(t *testing.T) {
		start := moving(s, board.Position{X: 0, Y: 0}, board.Right, 3)
		tr := Reduce(start, MoveForward{}, env)
		if !tr.Applied {
			t.Fatal("Expected move to apply")
		}
		team := tr.State.Teams[0]
		if team.Position != (board.Position{X: 1, Y: 0}) {
			t.Errorf("Expected (1,0), got %v", team.Position)
		}
		if tr.State.RemainingMoves != 2 {
			t.Errorf("Expected budget 2, got %d", tr.State.RemainingMoves)
		}
		if !hasEvent(tr.Events, EventMoved) {
			t.Error("Expected moved event")
		}
	})

	blocked := []struct {
		name   string
		pos    board.Position
		facing board.Direction
		setup  func(*GameState)
	}{
		{"out of bounds", board.Position{X: 0, Y: 0}, board.Up, nil},
		{"road", board.Position{X: 2, Y: 1}, board.Down, nil},
		{"red light", board.Position{X: 2, Y: 0}, board.Down, func(gs *GameState) {
			gs.RedLight = &RedLight{Position: board.Position{X: 2, Y: 1}, TurnsRemaining: 2}
		}},
	}
	for _, tt := range blocked {
		t.Run(tt.name, func(t *testing.T) {
			start := moving(s, tt.pos, tt.facing, 3)
			if tt.setup != nil {
				tt.setup(&start)
			}
			tr := Reduce(start, MoveForward{}, env)
			if tr.Applied {
				t.Fatal("Expected move to be blocked")
			}
			if tr.State.Teams[0].Position != tt.pos || tr.State.RemainingMoves != 3 {
				t.Errorf("Blocked move changed position or budget")
			}
			if !hasEvent(tr.Events, EventBlocked) {
				t.Error("Expected blocked event")
			}
		})
	}

	t.Run("no budget", func(t *testing.T) {
		mustIgnore(t, moving(s, board.Position{X: 0, Y: 0}, board.Right, 0), MoveForward{}, env)
	})

	t.Run("wrong phase", func(t *testing.T) {
		mustIgnore(t, s, MoveForward{}, env)
	})
}

func TestTurn(t *testing.T) {
	s, env := startedGame(t, 1)
	start := moving(s, board.Position{X: 1, Y: 0}, board.Up, 3)

	next := mustApply(t, start, Turn{Direction: TurnRight}, env)
	if next.Teams[0].Facing != board.Right {
		t.Errorf("Expected RIGHT, got %s", next.Teams[0].Facing)
	}
	if next.RemainingMoves != 2 {
		t.Errorf("Expected turn to cost 1 move, budget %d", next.RemainingMoves)
	}
	if next.Teams[0].Position != start.Teams[0].Position {
		t.Error("Turning must not move the team")
	}

	next = mustApply(t, next, Turn{Direction: TurnLeft}, env)
	next = mustApply(t, next, Turn{Direction: TurnLeft}, env)
	if next.Teams[0].Facing != board.Left {
		t.Errorf("Expected LEFT, got %s", next.Teams[0].Facing)
	}
	if next.RemainingMoves != 0 {
		t.Errorf("Expected budget spent, got %d", next.RemainingMoves)
	}

	mustIgnore(t, next, Turn{Direction: TurnRight}, env)
	mustIgnore(t, start, Turn{Direction: "BACKWARDS"}, env)
}

func TestRedLightLifetime(t *testing.T) {
	s, env := startedGame(t, 2)
	crosswalk := board.Position{X: 2, Y: 1}

	s = moving(s, board.Position{X: 3, Y: 1}, board.Left, 3)
	s.Phase = PhasePowerupSelect
	s = mustApply(t, s, SelectRedLight{X: crosswalk.X, Y: crosswalk.Y}, env)
	if s.RedLight == nil || s.RedLight.TurnsRemaining != RedLightTurns {
		t.Fatalf("Expected red light with %d turns, got %+v", RedLightTurns, s.RedLight)
	}

	// the placer is blocked too
	if tr := Reduce(s, MoveForward{}, env); tr.Applied {
		t.Fatal("Placer should not be able to enter the red light")
	}

	// first end of turn: still active for the other team
	s = mustApply(t, s, EndTurnEarly{}, env)
	if s.RedLight == nil || s.RedLight.TurnsRemaining != 1 {
		t.Fatalf("Expected 1 turn remaining, got %+v", s.RedLight)
	}
	s = moving(s, board.Position{X: 2, Y: 0}, board.Down, 2)
	if tr := Reduce(s, MoveForward{}, env); tr.Applied {
		t.Fatal("Other team should be blocked while the light is active")
	}

	// second end of turn clears it
	tr := Reduce(s, EndTurnEarly{}, env)
	if !tr.Applied || tr.State.RedLight != nil {
		t.Fatalf("Expected red light cleared, got %+v", tr.State.RedLight)
	}
	if !hasEvent(tr.Events, EventRedLightExpired) {
		t.Error("Expected red_light_expired event")
	}

	s = moving(tr.State, board.Position{X: 2, Y: 0}, board.Down, 2)
	s = mustApply(t, s, MoveForward{}, env)
	if s.Teams[0].Position != crosswalk {
		t.Errorf("Expected crosswalk to be open again, team at %v", s.Teams[0].Position)
	}
}

func TestHighlights(t *testing.T) {
	s, env := startedGame(t, 1)

	if got := Highlights(&s, env.Board); len(got) != 0 {
		t.Errorf("Expected no highlights while ROLLING, got %v", got)
	}

	s = moving(s, board.Position{X: 2, Y: 0}, board.Down, 1)
	s.RedLight = &RedLight{Position: board.Position{X: 2, Y: 1}, TurnsRemaining: 1}

	got := map[board.Position]bool{}
	for _, p := range Highlights(&s, env.Board) {
		got[p] = true
	}
	want := []board.Position{{X: 1, Y: 0}, {X: 3, Y: 0}}
	if len(got) != len(want) {
		t.Fatalf("Expected %d highlights, got %v", len(want), got)
	}
	for _, p := range want {
		if !got[p] {
			t.Errorf("Expected %v highlighted", p)
		}
	}
}

func TestStepToward(t *testing.T) {
	s, env := startedGame(t, 1)

	// the road at (2,2) forces a detour
	step, ok := StepToward(&s, env.Board, board.Position{X: 2, Y: 1}, board.Position{X: 2, Y: 3})
	if !ok {
		t.Fatal("Expected a path around the road")
	}
	if step != (board.Position{X: 1, Y: 1}) && step != (board.Position{X: 3, Y: 1}) {
		t.Errorf("Expected a sideways first step, got %v", step)
	}

	dir, ok := DirectionTo(board.Position{X: 2, Y: 1}, step)
	if !ok || (dir != board.Left && dir != board.Right) {
		t.Errorf("Expected LEFT or RIGHT, got %s", dir)
	}

	if _, ok := StepToward(&s, env.Board, board.Position{X: 0, Y: 0}, board.Position{X: 2, Y: 2}); ok {
		t.Error("Road tile should be unreachable")
	}
}

func TestNextTarget(t *testing.T) {
	s, env := startedGame(t, 1)
	team := &s.Teams[0]
	team.Position = board.Position{X: 0, Y: 0}
	team.Destinations = []board.LocationID{board.Park, board.Bank}
	team.Visited = []board.LocationID{}

	target, ok := NextTarget(team, env.Board)
	if !ok || target != (board.Position{X: 2, Y: 0}) {
		t.Errorf("Expected nearest destination bank at (2,0), got %v", target)
	}

	team.Visited = []board.LocationID{board.Bank, board.Park}
	target, ok = NextTarget(team, env.Board)
	if !ok || target != (board.Position{X: 0, Y: 0}) {
		t.Errorf("Expected home at (0,0), got %v", target)
	}
}
