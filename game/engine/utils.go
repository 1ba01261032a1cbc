package engine

import (
	"github.com/wricardo/city-explorer-game/game/board"
)

// Highlights returns the tiles within reach of the current team this turn:
// walkable, not red-lit and no further than the remaining budget by
// Manhattan distance. Nothing is highlighted outside MOVING.
func Highlights(state *GameState, b *board.Board) []board.Position {
	if state.Phase != PhaseMoving || state.RemainingMoves <= 0 {
		return []board.Position{}
	}
	team, ok := state.CurrentTeam()
	if !ok {
		return []board.Position{}
	}

	out := []board.Position{}
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			p := board.Position{X: x, Y: y}
			if p == team.Position || !CanMoveTo(state, b, p) {
				continue
			}
			if board.ManhattanDistance(team.Position, p) <= state.RemainingMoves {
				out = append(out, p)
			}
		}
	}
	return out
}

// FindNearestUnvisitedDestination finds the closest destination building the
// team still has to visit
func FindNearestUnvisitedDestination(team *Team, b *board.Board) (board.Position, int, bool) {
	minDistance := -1
	var nearest board.Position
	found := false

	for _, id := range team.Destinations {
		if team.HasVisited(id) {
			continue
		}
		for _, p := range b.LocationPositions(id) {
			distance := board.ManhattanDistance(team.Position, p)
			if minDistance == -1 || distance < minDistance {
				minDistance = distance
				nearest = p
				found = true
			}
		}
	}

	return nearest, minDistance, found
}

// NextTarget is where the team should head: its nearest open destination, or
// home once every destination is visited
func NextTarget(team *Team, b *board.Board) (board.Position, bool) {
	if team.DestinationsComplete() {
		return b.HomePosition(team.StartHomeID)
	}
	p, _, ok := FindNearestUnvisitedDestination(team, b)
	return p, ok
}

// StepToward returns the first step of a shortest walkable path from -> to,
// honoring the red light. ok is false when no path exists.
func StepToward(state *GameState, b *board.Board, from, to board.Position) (board.Position, bool) {
	if from == to {
		return from, false
	}
	prev := map[board.Position]board.Position{from: from}
	queue := []board.Position{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			break
		}
		for _, dir := range []board.Direction{board.Up, board.Right, board.Down, board.Left} {
			dx, dy := dir.Delta()
			next := cur.Add(dx, dy)
			if _, seen := prev[next]; seen || !CanMoveTo(state, b, next) {
				continue
			}
			prev[next] = cur
			queue = append(queue, next)
		}
	}
	if _, ok := prev[to]; !ok {
		return from, false
	}
	step := to
	for prev[step] != from {
		step = prev[step]
	}
	return step, true
}

// DirectionTo returns the facing that moves from -> to for adjacent tiles
func DirectionTo(from, to board.Position) (board.Direction, bool) {
	for _, dir := range []board.Direction{board.Up, board.Right, board.Down, board.Left} {
		dx, dy := dir.Delta()
		if from.Add(dx, dy) == to {
			return dir, true
		}
	}
	return "", false
}
