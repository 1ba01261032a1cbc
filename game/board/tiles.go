package board

import (
	"fmt"
	"strconv"
)

// TileKind represents the classification of a board cell
type TileKind string

const (
	Sidewalk  TileKind = "SIDEWALK"
	Road      TileKind = "ROAD"
	Crosswalk TileKind = "CROSSWALK"
	Building  TileKind = "BUILDING"
	BusStop   TileKind = "BUS_STOP"
	Home      TileKind = "HOME"
	Grass     TileKind = "GRASS"
	Question  TileKind = "QUESTION"
)

// Traversable reports whether a token may stand on a tile of this kind.
// Roads are the only tiles teams cannot walk on; they cross at crosswalks.
func (k TileKind) Traversable() bool {
	return k != Road
}

// Position represents x,y coordinates on the board
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position shifted by dx, dy
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Direction is one of the four cardinal facings
type Direction string

const (
	Up    Direction = "UP"
	Right Direction = "RIGHT"
	Down  Direction = "DOWN"
	Left  Direction = "LEFT"
)

// clockwise is the rotation order used for turning
var clockwise = []Direction{Up, Right, Down, Left}

// Valid reports whether d is one of the four cardinal directions
func (d Direction) Valid() bool {
	return d.index() >= 0
}

func (d Direction) index() int {
	for i, dir := range clockwise {
		if dir == d {
			return i
		}
	}
	return -1
}

// TurnRight rotates 90 degrees clockwise
func (d Direction) TurnRight() Direction {
	i := d.index()
	if i < 0 {
		return d
	}
	return clockwise[(i+1)%len(clockwise)]
}

// TurnLeft rotates 90 degrees counter-clockwise
func (d Direction) TurnLeft() Direction {
	i := d.index()
	if i < 0 {
		return d
	}
	return clockwise[(i+3)%len(clockwise)]
}

// Delta returns the unit step for the direction. Y grows downwards.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Tile is the resolved form of a layout cell code
type Tile struct {
	Code     string     `json:"code"`
	Kind     TileKind   `json:"kind"`
	Location LocationID `json:"location,omitempty"`
	Home     HomeID     `json:"home,omitempty"`
}

// codeTable maps every valid cell code to its tile. It is built once from the
// static location and home tables.
var codeTable = buildCodeTable()

func buildCodeTable() map[string]Tile {
	table := map[string]Tile{
		"S": {Code: "S", Kind: Sidewalk},
		"R": {Code: "R", Kind: Road},
		"C": {Code: "C", Kind: Crosswalk},
		"U": {Code: "U", Kind: BusStop},
		"G": {Code: "G", Kind: Grass},
		"Q": {Code: "Q", Kind: Question},
	}
	for i, loc := range Locations {
		code := "B" + strconv.Itoa(i+1)
		table[code] = Tile{Code: code, Kind: Building, Location: loc.ID}
	}
	for i, home := range Homes {
		code := "H" + strconv.Itoa(i+1)
		table[code] = Tile{Code: code, Kind: Home, Home: home.ID}
	}
	return table
}

// ParseCode resolves a layout cell code into a tile
func ParseCode(code string) (Tile, error) {
	tile, ok := codeTable[code]
	if !ok {
		return Tile{}, fmt.Errorf("%w: unknown cell code %q", ErrInvalidLayout, code)
	}
	return tile, nil
}
