// Package config provides board configuration management for the City Explorer game.
//
// The config package handles:
//   - Loading board configurations from JSON files
//   - Caching and default selection
//   - Configuration discovery and listing
//   - Saving validated configurations
//
// Configuration Format:
//
// Boards are stored as JSON files in the configs directory. Each file defines
// the layout as rows of space separated cell codes (H1..H4 homes, B1..B12
// buildings, S sidewalk, R road, C crosswalk, U bus stop, G grass, Q question),
// the bus stops with their coordinates, the CW and CCW routes, and optional
// rule overrides such as starting_coins and settle_delay_ms.
//
// The classic board is built in. A classic.json in the directory replaces it.
//
// Usage:
//
//	manager, err := config.NewManager("configs", config.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("little_town")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// Validation:
//
// Every file is validated with engine.ValidateGameConfig before it is served
// or saved: rectangular layout, known codes, unique homes, bus stops on stop
// tiles, matching routes and every building and stop reachable from every home.
package config
