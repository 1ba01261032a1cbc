package board

import (
	"errors"
	"testing"
)

func TestParseCode(t *testing.T) {
	tests := []struct {
		code     string
		kind     TileKind
		location LocationID
		home     HomeID
	}{
		{"S", Sidewalk, "", ""},
		{"R", Road, "", ""},
		{"C", Crosswalk, "", ""},
		{"U", BusStop, "", ""},
		{"G", Grass, "", ""},
		{"Q", Question, "", ""},
		{"B1", Building, ConvStore, ""},
		{"B4", Building, Bank, ""},
		{"B12", Building, YenStore, ""},
		{"H1", Home, "", "home_1"},
		{"H4", Home, "", "home_4"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			tile, err := ParseCode(tt.code)
			if err != nil {
				t.Fatalf("ParseCode(%q) failed: %v", tt.code, err)
			}
			if tile.Kind != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, tile.Kind)
			}
			if tile.Location != tt.location {
				t.Errorf("Expected location %q, got %q", tt.location, tile.Location)
			}
			if tile.Home != tt.home {
				t.Errorf("Expected home %q, got %q", tt.home, tile.Home)
			}
		})
	}

	for _, bad := range []string{"", "X", "B0", "B13", "H5", "s"} {
		if _, err := ParseCode(bad); !errors.Is(err, ErrInvalidLayout) {
			t.Errorf("ParseCode(%q): expected ErrInvalidLayout, got %v", bad, err)
		}
	}
}

func TestTraversable(t *testing.T) {
	for _, k := range []TileKind{Sidewalk, Crosswalk, Building, BusStop, Home, Grass, Question} {
		if !k.Traversable() {
			t.Errorf("Expected %s to be traversable", k)
		}
	}
	if Road.Traversable() {
		t.Error("Road must not be traversable")
	}
}

func TestDirectionRotation(t *testing.T) {
	d := Up
	for _, want := range []Direction{Right, Down, Left, Up} {
		d = d.TurnRight()
		if d != want {
			t.Fatalf("TurnRight: expected %s, got %s", want, d)
		}
	}
	for _, want := range []Direction{Left, Down, Right, Up} {
		d = d.TurnLeft()
		if d != want {
			t.Fatalf("TurnLeft: expected %s, got %s", want, d)
		}
	}
	if Direction("SIDEWAYS").Valid() {
		t.Error("Unknown direction should not be valid")
	}
}

func TestClassicBoard(t *testing.T) {
	b := Classic()

	if b.Width() != 15 || b.Height() != 15 {
		t.Fatalf("Expected 15x15 board, got %dx%d", b.Width(), b.Height())
	}

	corners := []struct {
		pos    Position
		facing Direction
	}{
		{Position{0, 0}, Right},
		{Position{14, 0}, Down},
		{Position{0, 14}, Up},
		{Position{14, 14}, Left},
	}
	for i, want := range corners {
		c := b.Corner(i)
		if c.Position != want.pos || c.Facing != want.facing {
			t.Errorf("Corner %d: expected %v facing %s, got %v facing %s", i, want.pos, want.facing, c.Position, c.Facing)
		}
		if c.Home != Homes[i].ID {
			t.Errorf("Corner %d: expected home %s, got %s", i, Homes[i].ID, c.Home)
		}
	}
	if b.Corner(5) != b.Corner(1) {
		t.Error("Corners should cycle past the fourth team")
	}

	if got := b.Count(Building); got != 12 {
		t.Errorf("Expected 12 buildings, got %d", got)
	}
	if b.Traversable(Position{4, 1}) {
		t.Error("Road at (4,1) should not be traversable")
	}
	if b.Traversable(Position{-1, 0}) || b.Traversable(Position{0, 15}) {
		t.Error("Out of bounds should not be traversable")
	}
	if b.Kind(Position{4, 2}) != Crosswalk {
		t.Errorf("Expected crosswalk at (4,2), got %s", b.Kind(Position{4, 2}))
	}
}

func TestNextStopWraps(t *testing.T) {
	b := Classic()

	next, err := b.NextStop(Clockwise, 6)
	if err != nil {
		t.Fatalf("NextStop failed: %v", err)
	}
	if next.ID != 1 {
		t.Errorf("Expected CW wrap to stop 1, got %d", next.ID)
	}

	next, err = b.NextStop(CounterClockwise, 1)
	if err != nil {
		t.Fatalf("NextStop failed: %v", err)
	}
	if next.ID != 6 || next.Position() != (Position{0, 6}) {
		t.Errorf("Expected CCW stop 6 at (0,6), got %d at %v", next.ID, next.Position())
	}

	if _, err := b.NextStop("EXPRESS", 1); err == nil {
		t.Error("Expected error for unknown route")
	}
	if _, err := b.NextStop(Clockwise, 42); err == nil {
		t.Error("Expected error for stop not on route")
	}
}

func TestNewRejectsInvalidLayouts(t *testing.T) {
	small := [][]string{
		{"H1", "S", "H2"},
		{"U", "C", "U"},
		{"H3", "S", "H4"},
	}
	stops := []BusStopInfo{{ID: 1, X: 0, Y: 1}, {ID: 2, X: 2, Y: 1}}
	routes := map[RouteID][]int{Clockwise: {1, 2}, CounterClockwise: {2, 1}}

	if _, err := New(small, stops, routes); err != nil {
		t.Fatalf("Expected small board to be valid: %v", err)
	}

	tests := []struct {
		name   string
		layout [][]string
		stops  []BusStopInfo
		routes map[RouteID][]int
	}{
		{"empty", nil, stops, routes},
		{"ragged", [][]string{{"H1", "S", "H2"}, {"U", "U"}, {"H3", "S", "H4"}}, stops, routes},
		{"unknown code", [][]string{{"H1", "X", "H2"}, {"U", "C", "U"}, {"H3", "S", "H4"}}, stops, routes},
		{"missing home", [][]string{{"H1", "S", "H2"}, {"U", "C", "U"}, {"H3", "S", "S"}}, stops, routes},
		{"duplicate home", [][]string{{"H1", "H1", "H2"}, {"U", "C", "U"}, {"H3", "S", "H4"}}, stops, routes},
		{"stop off tile", small, []BusStopInfo{{ID: 1, X: 1, Y: 1}, {ID: 2, X: 2, Y: 1}}, routes},
		{"unknown stop in route", small, stops, map[RouteID][]int{Clockwise: {1, 3}}},
		{"mismatched routes", small, []BusStopInfo{{ID: 1, X: 0, Y: 1}, {ID: 2, X: 2, Y: 1}, {ID: 3, X: 2, Y: 1}}, map[RouteID][]int{Clockwise: {1, 2}, CounterClockwise: {3, 1}}},
		{"no routes", small, stops, nil},
		{"unregistered stop tile", [][]string{{"H1", "U", "H2"}, {"U", "C", "U"}, {"H3", "S", "H4"}}, stops, routes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.layout, tt.stops, tt.routes); !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("Expected ErrInvalidLayout, got %v", err)
			}
		})
	}
}

func TestReachableFromHomes(t *testing.T) {
	b := Classic()
	home, _ := b.HomePosition("home_1")
	reach := b.Reachable(home)

	for _, p := range b.Positions(Building) {
		if !reach[p] {
			t.Errorf("Building at %v not reachable from home_1", p)
		}
	}
	for _, s := range b.Stops() {
		if !reach[s.Position()] {
			t.Errorf("Bus stop %d not reachable from home_1", s.ID)
		}
	}
}

func TestLocationsOnBoard(t *testing.T) {
	b := Classic()
	ids := b.Locations()
	if len(ids) != len(Locations) {
		t.Fatalf("Expected all %d locations on the classic board, got %d", len(Locations), len(ids))
	}
	if ids[0] != ConvStore || ids[11] != YenStore {
		t.Errorf("Expected building order, got %v", ids)
	}

	bank := b.LocationPositions(Bank)
	if len(bank) != 1 || bank[0] != (Position{9, 2}) {
		t.Errorf("Expected bank at (9,2), got %v", bank)
	}
}

func TestHomeByID(t *testing.T) {
	home, ok := HomeByID("home_2")
	if !ok || home.Name != "Home 2" {
		t.Errorf("Expected Home 2, got %+v (found=%v)", home, ok)
	}
	if _, ok := HomeByID("home_9"); ok {
		t.Error("Expected unknown home to be missing")
	}

	tile, err := ParseCode("H3")
	if err != nil {
		t.Fatalf("ParseCode failed: %v", err)
	}
	if tile.Kind != Home || tile.Home != Homes[2].ID {
		t.Errorf("Expected H3 to be a %s tile for %s, got %+v", Home, Homes[2].ID, tile)
	}
}
