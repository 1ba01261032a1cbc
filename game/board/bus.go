package board

import "fmt"

// RouteID names one direction of the circular bus line
type RouteID string

const (
	Clockwise        RouteID = "CW"
	CounterClockwise RouteID = "CCW"
)

// BusStopInfo is a static stop identity on the board
type BusStopInfo struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// Position returns the stop's board coordinates
func (s BusStopInfo) Position() Position {
	return Position{X: s.X, Y: s.Y}
}

// Stops returns all bus stops in declaration order
func (b *Board) Stops() []BusStopInfo {
	out := make([]BusStopInfo, len(b.stops))
	copy(out, b.stops)
	return out
}

// Stop looks up a stop by id
func (b *Board) Stop(id int) (BusStopInfo, bool) {
	for _, s := range b.stops {
		if s.ID == id {
			return s, true
		}
	}
	return BusStopInfo{}, false
}

// StopAt returns the stop registered at p, if any
func (b *Board) StopAt(p Position) (BusStopInfo, bool) {
	for _, s := range b.stops {
		if s.X == p.X && s.Y == p.Y {
			return s, true
		}
	}
	return BusStopInfo{}, false
}

// Route returns the ordered stop ids for a route
func (b *Board) Route(id RouteID) ([]int, bool) {
	route, ok := b.routes[id]
	if !ok {
		return nil, false
	}
	out := make([]int, len(route))
	copy(out, route)
	return out, true
}

// RouteIDs returns the known route names in a stable order
func (b *Board) RouteIDs() []RouteID {
	ids := make([]RouteID, 0, len(b.routes))
	for _, id := range []RouteID{Clockwise, CounterClockwise} {
		if _, ok := b.routes[id]; ok {
			ids = append(ids, id)
		}
	}
	for id := range b.routes {
		if id != Clockwise && id != CounterClockwise {
			ids = append(ids, id)
		}
	}
	return ids
}

// NextStop returns the stop after current along route, wrapping at the end
func (b *Board) NextStop(route RouteID, current int) (BusStopInfo, error) {
	stops, ok := b.routes[route]
	if !ok {
		return BusStopInfo{}, fmt.Errorf("unknown bus route %q", route)
	}
	for i, id := range stops {
		if id == current {
			next, _ := b.Stop(stops[(i+1)%len(stops)])
			return next, nil
		}
	}
	return BusStopInfo{}, fmt.Errorf("stop %d is not on route %q", current, route)
}

func validateBusNetwork(b *Board) error {
	if len(b.stops) == 0 {
		return fmt.Errorf("%w: no bus stops defined", ErrInvalidLayout)
	}
	seen := make(map[int]bool, len(b.stops))
	placed := make(map[Position]bool, len(b.stops))
	for _, s := range b.stops {
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate bus stop id %d", ErrInvalidLayout, s.ID)
		}
		seen[s.ID] = true
		if placed[s.Position()] {
			return fmt.Errorf("%w: two bus stops at (%d,%d)", ErrInvalidLayout, s.X, s.Y)
		}
		placed[s.Position()] = true
		tile, ok := b.Tile(s.Position())
		if !ok {
			return fmt.Errorf("%w: bus stop %d at (%d,%d) is out of bounds", ErrInvalidLayout, s.ID, s.X, s.Y)
		}
		if tile.Kind != BusStop {
			return fmt.Errorf("%w: bus stop %d at (%d,%d) is on a %s tile", ErrInvalidLayout, s.ID, s.X, s.Y, tile.Kind)
		}
	}
	for _, p := range b.Positions(BusStop) {
		if !placed[p] {
			return fmt.Errorf("%w: bus stop tile at (%d,%d) has no stop id", ErrInvalidLayout, p.X, p.Y)
		}
	}

	if len(b.routes) == 0 {
		return fmt.Errorf("%w: no bus routes defined", ErrInvalidLayout)
	}
	var reference map[int]bool
	for id, route := range b.routes {
		if len(route) < 2 {
			return fmt.Errorf("%w: route %q needs at least 2 stops", ErrInvalidLayout, id)
		}
		set := make(map[int]bool, len(route))
		for _, stopID := range route {
			if !seen[stopID] {
				return fmt.Errorf("%w: route %q references unknown stop %d", ErrInvalidLayout, id, stopID)
			}
			if set[stopID] {
				return fmt.Errorf("%w: route %q visits stop %d twice", ErrInvalidLayout, id, stopID)
			}
			set[stopID] = true
		}
		if reference == nil {
			reference = set
			continue
		}
		if len(set) != len(reference) {
			return fmt.Errorf("%w: route %q does not cover the same stops as the other routes", ErrInvalidLayout, id)
		}
		for stopID := range set {
			if !reference[stopID] {
				return fmt.Errorf("%w: route %q does not cover the same stops as the other routes", ErrInvalidLayout, id)
			}
		}
	}
	return nil
}
