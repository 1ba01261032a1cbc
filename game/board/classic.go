package board

// ClassicLayout is the 15x15 city the game ships with.
var ClassicLayout = [][]string{
	{"H1", "S", "Q", "S", "Q", "S", "S", "B1", "S", "Q", "S", "S", "Q", "S", "H2"},
	{"S", "G", "Q", "G", "R", "G", "Q", "S", "G", "Q", "G", "G", "G", "Q", "S"},
	{"Q", "G", "B2", "G", "C", "G", "B3", "Q", "G", "B4", "G", "B5", "G", "Q", "S"},
	{"U", "Q", "G", "Q", "R", "G", "G", "U", "G", "G", "Q", "Q", "G", "G", "S"},
	{"S", "S", "S", "S", "R", "Q", "S", "S", "Q", "S", "S", "S", "S", "S", "S"},
	{"R", "R", "C", "R", "R", "R", "C", "R", "R", "R", "C", "R", "R", "R", "R"},
	{"U", "Q", "S", "S", "R", "S", "S", "S", "Q", "S", "S", "Q", "S", "Q", "U"},
	{"B6", "G", "Q", "G", "C", "G", "Q", "S", "G", "G", "G", "G", "Q", "G", "B7"},
	{"S", "S", "S", "S", "R", "Q", "S", "S", "S", "S", "S", "Q", "S", "S", "S"},
	{"R", "R", "C", "R", "R", "R", "C", "R", "R", "R", "C", "R", "R", "R", "R"},
	{"S", "S", "Q", "S", "R", "S", "S", "Q", "S", "S", "Q", "S", "S", "S", "S"},
	{"S", "Q", "B8", "G", "C", "G", "B9", "S", "G", "B10", "G", "B11", "G", "Q", "S"},
	{"Q", "G", "G", "Q", "R", "G", "G", "U", "G", "G", "G", "Q", "G", "G", "S"},
	{"S", "G", "B12", "G", "R", "G", "Q", "S", "G", "G", "G", "Q", "G", "Q", "S"},
	{"H3", "S", "U", "Q", "S", "S", "S", "Q", "S", "S", "Q", "S", "S", "S", "H4"},
}

// ClassicStops are the bus stops of the classic city
var ClassicStops = []BusStopInfo{
	{ID: 1, X: 0, Y: 3},
	{ID: 2, X: 7, Y: 3},
	{ID: 3, X: 14, Y: 6},
	{ID: 4, X: 7, Y: 12},
	{ID: 5, X: 2, Y: 14},
	{ID: 6, X: 0, Y: 6},
}

// ClassicRoutes are the two directions of the classic bus loop
var ClassicRoutes = map[RouteID][]int{
	Clockwise:        {1, 2, 3, 4, 5, 6},
	CounterClockwise: {1, 6, 5, 4, 3, 2},
}

// Classic returns the built-in city board
func Classic() *Board {
	b, err := New(ClassicLayout, ClassicStops, ClassicRoutes)
	if err != nil {
		panic("classic board is invalid: " + err.Error())
	}
	return b
}
