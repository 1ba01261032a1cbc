package engine

import (
	"fmt"

	"github.com/wricardo/city-explorer-game/game/board"
)

// CanMoveTo checks if a team may step onto p: in bounds, a walkable tile and
// not under the red light
func CanMoveTo(state *GameState, b *board.Board, p board.Position) bool {
	if !b.Traversable(p) {
		return false
	}
	return !state.IsRedLight(p)
}

// blockedReason describes why a step was refused
func blockedReason(state *GameState, b *board.Board, p board.Position) string {
	switch {
	case !b.InBounds(p):
		return "edge of the city"
	case state.IsRedLight(p):
		return "red light"
	default:
		return string(b.Kind(p))
	}
}

// moveForward steps the current team one tile along its facing. The
// interaction resolver runs before the budget is decremented.
func (r *reducer) moveForward() bool {
	s := r.state
	if s.Phase != PhaseMoving || s.RemainingMoves <= 0 {
		return false
	}
	team, ok := s.CurrentTeam()
	if !ok {
		return false
	}

	dx, dy := team.Facing.Delta()
	target := team.Position.Add(dx, dy)

	if !CanMoveTo(s, r.env.Board, target) {
		r.emit(Event{
			Type:     EventBlocked,
			TeamID:   team.ID,
			Position: &target,
			Message:  fmt.Sprintf("Can't move %s: %s at (%d,%d)", team.Facing, blockedReason(s, r.env.Board, target), target.X, target.Y),
		})
		return false
	}

	team.Position = target
	r.emit(Event{Type: EventMoved, TeamID: team.ID, Position: &target})

	r.resolveTile(target)

	s.RemainingMoves--
	return true
}

// turn rotates the current team and costs one move point
func (r *reducer) turn(dir TurnDirection) bool {
	s := r.state
	if s.Phase != PhaseMoving || s.RemainingMoves <= 0 {
		return false
	}
	team, ok := s.CurrentTeam()
	if !ok {
		return false
	}

	switch dir {
	case TurnLeft:
		team.Facing = team.Facing.TurnLeft()
	case TurnRight:
		team.Facing = team.Facing.TurnRight()
	default:
		return false
	}

	s.RemainingMoves--
	r.emit(Event{Type: EventTurned, TeamID: team.ID, Message: string(team.Facing)})
	return true
}
