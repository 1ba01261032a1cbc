// Command analyze prints quick, human-readable heuristics about the board
// configuration files in the project's configs directory. It summarizes
// dimensions, tile counts, building rewards and the bus network, and compares
// how far each home has to walk to the buildings.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/city-explorer-game/game/board"
	"github.com/wricardo/city-explorer-game/game/engine"
)

// tileKinds is the print order for tile counts
var tileKinds = []board.TileKind{
	board.Sidewalk,
	board.Crosswalk,
	board.Road,
	board.Grass,
	board.Building,
	board.BusStop,
	board.Question,
	board.Home,
}

// HomeReport is the walking picture from one home corner
type HomeReport struct {
	Home board.HomeInfo
	// Steps to the nearest tile of each building; missing means unreachable
	Steps       map[board.LocationID]int
	Total       int
	Farthest    board.LocationID
	Unreachable []board.LocationID
}

// Analysis holds the statistics for one board
type Analysis struct {
	Name          string
	Width, Height int
	StartingCoins int
	Counts        map[board.TileKind]int
	Buildings     []board.Location
	Routes        map[board.RouteID][]int
	Homes         []HomeReport
	// Spread is the gap between the most and least favoured home's total walk
	Spread int
}

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	for _, configFile := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(configFile))
		config, err := engine.LoadGameConfig(configFile)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			continue
		}
		analysis, err := analyzeConfig(config)
		if err != nil {
			fmt.Printf("Error building board: %v\n", err)
			continue
		}
		printAnalysis(analysis)
	}
}

func analyzeConfig(config *engine.GameConfig) (*Analysis, error) {
	b, err := config.Board()
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Name:          config.Name,
		Width:         b.Width(),
		Height:        b.Height(),
		StartingCoins: config.Rules().StartingCoins,
		Counts:        make(map[board.TileKind]int, len(tileKinds)),
		Routes:        make(map[board.RouteID][]int),
	}
	for _, kind := range tileKinds {
		a.Counts[kind] = b.Count(kind)
	}
	for _, id := range b.Locations() {
		if loc, ok := board.LocationByID(id); ok {
			a.Buildings = append(a.Buildings, loc)
		}
	}
	for _, id := range b.RouteIDs() {
		route, _ := b.Route(id)
		a.Routes[id] = route
	}

	minTotal, maxTotal := -1, 0
	for _, home := range board.Homes {
		start, ok := b.HomePosition(home.ID)
		if !ok {
			continue
		}
		report := analyzeHome(b, home, walkingSteps(b, start))
		if minTotal == -1 || report.Total < minTotal {
			minTotal = report.Total
		}
		if report.Total > maxTotal {
			maxTotal = report.Total
		}
		a.Homes = append(a.Homes, report)
	}
	if minTotal >= 0 {
		a.Spread = maxTotal - minTotal
	}

	return a, nil
}

func analyzeHome(b *board.Board, home board.HomeInfo, steps map[board.Position]int) HomeReport {
	report := HomeReport{Home: home, Steps: make(map[board.LocationID]int)}
	for _, id := range b.Locations() {
		best := -1
		for _, p := range b.LocationPositions(id) {
			if d, ok := steps[p]; ok && (best == -1 || d < best) {
				best = d
			}
		}
		if best == -1 {
			report.Unreachable = append(report.Unreachable, id)
			continue
		}
		report.Steps[id] = best
		report.Total += best
		if report.Farthest == "" || best > report.Steps[report.Farthest] {
			report.Farthest = id
		}
	}
	return report
}

// walkingSteps is a breadth-first walk from start over traversable tiles,
// returning the fewest steps to every reachable position
func walkingSteps(b *board.Board, start board.Position) map[board.Position]int {
	steps := map[board.Position]int{}
	if !b.Traversable(start) {
		return steps
	}
	steps[start] = 0
	queue := []board.Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dir := range []board.Direction{board.Up, board.Right, board.Down, board.Left} {
			dx, dy := dir.Delta()
			next := cur.Add(dx, dy)
			if _, seen := steps[next]; seen || !b.Traversable(next) {
				continue
			}
			steps[next] = steps[cur] + 1
			queue = append(queue, next)
		}
	}
	return steps
}

func printAnalysis(a *Analysis) {
	fmt.Printf("Name: %s\n", a.Name)
	fmt.Printf("Grid Size: %d x %d\n", a.Width, a.Height)
	fmt.Printf("Starting Coins: %d\n", a.StartingCoins)

	fmt.Println("Tiles:")
	for _, kind := range tileKinds {
		fmt.Printf("   %-10s %d\n", kind, a.Counts[kind])
	}

	fmt.Printf("Buildings (%d):\n", len(a.Buildings))
	for _, loc := range a.Buildings {
		reward := string(loc.Reward.Kind)
		if loc.Reward.Amount > 0 {
			reward = fmt.Sprintf("%s +%d", loc.Reward.Kind, loc.Reward.Amount)
		}
		fmt.Printf("   %-18s %s\n", loc.Name, reward)
	}

	routeIDs := make([]string, 0, len(a.Routes))
	for id := range a.Routes {
		routeIDs = append(routeIDs, string(id))
	}
	sort.Strings(routeIDs)
	for _, id := range routeIDs {
		fmt.Printf("Route %s: %v\n", id, a.Routes[board.RouteID(id)])
	}

	for _, home := range a.Homes {
		if len(home.Unreachable) > 0 {
			fmt.Printf("⚠️  CRITICAL: %s cannot reach %v\n", home.Home.Name, home.Unreachable)
			continue
		}
		farthest := home.Farthest
		if loc, ok := board.LocationByID(farthest); ok {
			fmt.Printf("%s: %d steps to all buildings, farthest %s (%d)\n",
				home.Home.Name, home.Total, loc.Name, home.Steps[farthest])
		}
	}

	if a.Spread > len(a.Buildings)*2 {
		fmt.Printf("⚠️  WARNING: homes differ by %d total steps, the board favours some corners\n", a.Spread)
	} else {
		fmt.Printf("✅ Homes are balanced (spread %d steps)\n", a.Spread)
	}
}
