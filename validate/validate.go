// Command validate checks the board configuration JSON files in a configs
// directory (../configs unless a directory is given). It checks:
//   - JSON structure and required fields
//   - Cell codes, grid shape and the four home corners
//   - Bus stop placement and route membership
//   - Rule values (starting coins and timings)
//   - Connectivity: every building, bus stop and home is reachable on foot
//     from every home
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/city-explorer-game/game/board"
	"github.com/wricardo/city-explorer-game/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if config.Name == "" {
		result.fail("Missing required field: name")
	}
	if config.Description == "" {
		result.fail("Missing required field: description")
	}

	b, err := config.Board()
	if err != nil {
		result.fail("Board: %v", err)
		return result
	}

	connectivity := validateConnectivity(b)
	if !connectivity.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, connectivity.Errors...)

	// Remaining rule checks (grid bounds, rule values, building count)
	if result.Valid {
		if err := engine.ValidateGameConfig(&config); err != nil {
			result.fail("%v", err)
		}
	}

	if result.Valid {
		rules := config.Rules()
		result.Errors = append(result.Errors,
			fmt.Sprintf("✓ Name: %s", config.Name),
			fmt.Sprintf("✓ Grid: %dx%d", b.Width(), b.Height()),
			fmt.Sprintf("✓ Buildings: %d", len(b.Locations())),
			fmt.Sprintf("✓ Bus stops: %d on %d routes", len(b.Stops()), len(b.RouteIDs())),
			fmt.Sprintf("✓ Question tiles: %d", b.Count(board.Question)),
			fmt.Sprintf("✓ Crosswalks: %d", b.Count(board.Crosswalk)),
			fmt.Sprintf("✓ Starting coins: %d", rules.StartingCoins),
		)
	}

	return result
}

// validateConnectivity walks the board from every home and reports every
// building, bus stop and other home that cannot be reached on foot.
func validateConnectivity(b *board.Board) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	targets := 0
	for _, home := range board.Homes {
		start, ok := b.HomePosition(home.ID)
		if !ok {
			result.fail("No position for %s", home.Name)
			continue
		}
		reach := b.Reachable(start)

		var unreachable []string
		for _, id := range b.Locations() {
			found := false
			for _, p := range b.LocationPositions(id) {
				if reach[p] {
					found = true
					break
				}
			}
			if !found {
				name := string(id)
				if loc, ok := board.LocationByID(id); ok {
					name = loc.Name
				}
				unreachable = append(unreachable, name)
			}
		}
		for _, stop := range b.Stops() {
			if !reach[stop.Position()] {
				unreachable = append(unreachable, fmt.Sprintf("Bus stop %d at (%d,%d)", stop.ID, stop.X, stop.Y))
			}
		}
		for _, other := range board.Homes {
			if p, ok := b.HomePosition(other.ID); ok && !reach[p] {
				unreachable = append(unreachable, other.Name)
			}
		}
		targets = len(b.Locations()) + len(b.Stops()) + len(board.Homes)

		if len(unreachable) > 0 {
			result.fail("Connectivity failure: %d/%d places unreachable from %s", len(unreachable), targets, home.Name)
			for _, name := range unreachable {
				result.Errors = append(result.Errors, fmt.Sprintf("Unreachable: %s", name))
			}
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Connectivity: All %d places reachable from every home", targets))
	}

	return result
}

// main scans the configs directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
