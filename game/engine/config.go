package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wricardo/city-explorer-game/game/board"
)

const (
	// Validation constants
	MinGridSize = 3
	MaxGridSize = 50

	DefaultStartingCoins            = 1
	DefaultSettleDelay              = 1200 * time.Millisecond
	DefaultNotificationDuration     = 3500 * time.Millisecond
	DefaultHomeNotificationDuration = 5000 * time.Millisecond
	DefaultQuestionTimeout          = 5 * time.Second
)

// GameConfig represents a board configuration loaded from JSON. Each layout
// row is a space separated list of cell codes.
type GameConfig struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Layout      []string                `json:"layout"`
	BusStops    []board.BusStopInfo     `json:"bus_stops"`
	BusRoutes   map[board.RouteID][]int `json:"bus_routes"`

	StartingCoins      *int `json:"starting_coins,omitempty"`
	SettleDelayMS      int  `json:"settle_delay_ms,omitempty"`
	NotificationMS     int  `json:"notification_ms,omitempty"`
	HomeNotificationMS int  `json:"home_notification_ms,omitempty"`
	QuestionTimeoutMS  int  `json:"question_timeout_ms,omitempty"`
}

// Rules are the tunable numbers the engine plays by
type Rules struct {
	StartingCoins            int
	SettleDelay              time.Duration
	NotificationDuration     time.Duration
	HomeNotificationDuration time.Duration
	QuestionTimeout          time.Duration
}

// DefaultRules returns the stock rules
func DefaultRules() Rules {
	return Rules{
		StartingCoins:            DefaultStartingCoins,
		SettleDelay:              DefaultSettleDelay,
		NotificationDuration:     DefaultNotificationDuration,
		HomeNotificationDuration: DefaultHomeNotificationDuration,
		QuestionTimeout:          DefaultQuestionTimeout,
	}
}

// Rules derives the engine rules, falling back to defaults for unset values
func (c *GameConfig) Rules() Rules {
	r := DefaultRules()
	if c.StartingCoins != nil {
		r.StartingCoins = *c.StartingCoins
	}
	if c.SettleDelayMS > 0 {
		r.SettleDelay = time.Duration(c.SettleDelayMS) * time.Millisecond
	}
	if c.NotificationMS > 0 {
		r.NotificationDuration = time.Duration(c.NotificationMS) * time.Millisecond
	}
	if c.HomeNotificationMS > 0 {
		r.HomeNotificationDuration = time.Duration(c.HomeNotificationMS) * time.Millisecond
	}
	if c.QuestionTimeoutMS > 0 {
		r.QuestionTimeout = time.Duration(c.QuestionTimeoutMS) * time.Millisecond
	}
	return r
}

// Cells splits the layout rows into cell codes
func (c *GameConfig) Cells() [][]string {
	rows := make([][]string, len(c.Layout))
	for i, row := range c.Layout {
		rows[i] = strings.Fields(row)
	}
	return rows
}

// Board builds the board described by the config
func (c *GameConfig) Board() (*board.Board, error) {
	return board.New(c.Cells(), c.BusStops, c.BusRoutes)
}

// DefaultConfig returns the classic 15x15 city
func DefaultConfig() *GameConfig {
	layout := make([]string, len(board.ClassicLayout))
	for i, row := range board.ClassicLayout {
		layout[i] = strings.Join(row, " ")
	}
	routes := make(map[board.RouteID][]int, len(board.ClassicRoutes))
	for id, stops := range board.ClassicRoutes {
		routes[id] = append([]int(nil), stops...)
	}
	coins := DefaultStartingCoins
	return &GameConfig{
		Name:          "Classic City",
		Description:   "The original 15x15 town with twelve buildings and a six stop bus loop",
		Layout:        layout,
		BusStops:      append([]board.BusStopInfo(nil), board.ClassicStops...),
		BusRoutes:     routes,
		StartingCoins: &coins,
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if len(config.Layout) < MinGridSize || len(config.Layout) > MaxGridSize {
		return fmt.Errorf("config validation: layout must have between %d and %d rows, got %d", MinGridSize, MaxGridSize, len(config.Layout))
	}
	cells := config.Cells()
	if width := len(cells[0]); width < MinGridSize || width > MaxGridSize {
		return fmt.Errorf("config validation: layout must have between %d and %d columns, got %d", MinGridSize, MaxGridSize, width)
	}

	if config.StartingCoins != nil && *config.StartingCoins < 0 {
		return fmt.Errorf("config validation: starting_coins cannot be negative, got %d", *config.StartingCoins)
	}
	for name, v := range map[string]int{
		"settle_delay_ms":      config.SettleDelayMS,
		"notification_ms":      config.NotificationMS,
		"home_notification_ms": config.HomeNotificationMS,
		"question_timeout_ms":  config.QuestionTimeoutMS,
	} {
		if v < 0 {
			return fmt.Errorf("config validation: %s cannot be negative, got %d", name, v)
		}
	}

	b, err := board.New(cells, config.BusStops, config.BusRoutes)
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// Winnability: every home must reach every building and bus stop on foot
	for _, home := range board.Homes {
		start, _ := b.HomePosition(home.ID)
		reach := b.Reachable(start)
		for _, p := range b.Positions(board.Building) {
			if !reach[p] {
				return fmt.Errorf("config validation: building at (%d, %d) is unreachable from %s", p.X, p.Y, home.Name)
			}
		}
		for _, stop := range b.Stops() {
			if !reach[stop.Position()] {
				return fmt.Errorf("config validation: bus stop %d is unreachable from %s", stop.ID, home.Name)
			}
		}
	}

	if n := len(b.Locations()); n < DestinationsPerTeam {
		return fmt.Errorf("config validation: layout needs at least %d distinct buildings, got %d", DestinationsPerTeam, n)
	}

	return nil
}

// ParseGameConfig decodes and validates a JSON configuration
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return ParseGameConfig(data)
}
