package board

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout is returned when a layout, stop list or route table cannot form a board
var ErrInvalidLayout = errors.New("invalid board layout")

// Corner is a team start position
type Corner struct {
	Home     HomeID    `json:"home"`
	Position Position  `json:"position"`
	Facing   Direction `json:"facing"`
}

// Board is an immutable city map. All lookups are precomputed at construction.
type Board struct {
	width  int
	height int
	tiles  [][]Tile
	homes  map[HomeID]Position
	sites  map[LocationID][]Position
	stops  []BusStopInfo
	routes map[RouteID][]int
}

// New builds a board from rows of cell codes plus its bus network
func New(layout [][]string, stops []BusStopInfo, routes map[RouteID][]int) (*Board, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, fmt.Errorf("%w: layout is empty", ErrInvalidLayout)
	}

	b := &Board{
		width:  len(layout[0]),
		height: len(layout),
		tiles:  make([][]Tile, len(layout)),
		homes:  make(map[HomeID]Position),
		sites:  make(map[LocationID][]Position),
		stops:  append([]BusStopInfo(nil), stops...),
		routes: make(map[RouteID][]int, len(routes)),
	}

	for y, row := range layout {
		if len(row) != b.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidLayout, y+1, len(row), b.width)
		}
		b.tiles[y] = make([]Tile, b.width)
		for x, code := range row {
			tile, err := ParseCode(code)
			if err != nil {
				return nil, fmt.Errorf("row %d, col %d: %w", y+1, x+1, err)
			}
			if tile.Kind == Home {
				if _, dup := b.homes[tile.Home]; dup {
					return nil, fmt.Errorf("%w: home %s appears more than once", ErrInvalidLayout, tile.Code)
				}
				b.homes[tile.Home] = Position{X: x, Y: y}
			}
			if tile.Kind == Building {
				b.sites[tile.Location] = append(b.sites[tile.Location], Position{X: x, Y: y})
			}
			b.tiles[y][x] = tile
		}
	}

	for _, h := range Homes {
		if _, ok := b.homes[h.ID]; !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidLayout, h.Name)
		}
	}

	for id, route := range routes {
		b.routes[id] = append([]int(nil), route...)
	}
	if err := validateBusNetwork(b); err != nil {
		return nil, err
	}

	return b, nil
}

// Width returns the number of columns
func (b *Board) Width() int { return b.width }

// Height returns the number of rows
func (b *Board) Height() int { return b.height }

// InBounds reports whether p lies on the board
func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// Tile returns the tile at p
func (b *Board) Tile(p Position) (Tile, bool) {
	if !b.InBounds(p) {
		return Tile{}, false
	}
	return b.tiles[p.Y][p.X], true
}

// Kind returns the tile kind at p, or "" when out of bounds
func (b *Board) Kind(p Position) TileKind {
	tile, ok := b.Tile(p)
	if !ok {
		return ""
	}
	return tile.Kind
}

// Traversable reports whether a token may step onto p, ignoring obstructions
func (b *Board) Traversable(p Position) bool {
	tile, ok := b.Tile(p)
	return ok && tile.Kind.Traversable()
}

// HomePosition returns where a home tile sits
func (b *Board) HomePosition(id HomeID) (Position, bool) {
	p, ok := b.homes[id]
	return p, ok
}

// Locations returns the locations that have at least one building on this
// board, in building number order
func (b *Board) Locations() []LocationID {
	var ids []LocationID
	for _, loc := range Locations {
		if len(b.sites[loc.ID]) > 0 {
			ids = append(ids, loc.ID)
		}
	}
	return ids
}

// LocationPositions returns where the buildings of a location sit
func (b *Board) LocationPositions(id LocationID) []Position {
	return append([]Position(nil), b.sites[id]...)
}

// Corner returns the start corner for the team at index i, cycling through homes
func (b *Board) Corner(i int) Corner {
	idx := i % len(Homes)
	if idx < 0 {
		idx += len(Homes)
	}
	home := Homes[idx]
	return Corner{
		Home:     home.ID,
		Position: b.homes[home.ID],
		Facing:   cornerFacings[idx],
	}
}

// Positions returns every coordinate holding a tile of kind k, row by row
func (b *Board) Positions(k TileKind) []Position {
	var out []Position
	for y, row := range b.tiles {
		for x, tile := range row {
			if tile.Kind == k {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// Count returns the number of tiles of kind k
func (b *Board) Count(k TileKind) int {
	return len(b.Positions(k))
}

// Rows returns the layout as cell codes
func (b *Board) Rows() [][]string {
	rows := make([][]string, b.height)
	for y, row := range b.tiles {
		rows[y] = make([]string, b.width)
		for x, tile := range row {
			rows[y][x] = tile.Code
		}
	}
	return rows
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Reachable returns every traversable position connected to start through
// orthogonal steps over traversable tiles.
func (b *Board) Reachable(start Position) map[Position]bool {
	seen := map[Position]bool{}
	if !b.Traversable(start) {
		return seen
	}
	queue := []Position{start}
	seen[start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dir := range clockwise {
			dx, dy := dir.Delta()
			next := cur.Add(dx, dy)
			if seen[next] || !b.Traversable(next) {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}
