package service

import (
	"time"

	"github.com/wricardo/city-explorer-game/game/board"
	"github.com/wricardo/city-explorer-game/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	ConfigName     string            `json:"config_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
	Highlights     []board.Position  `json:"highlights"`
	Board          *BoardInfo        `json:"board,omitempty"`
}

// BoardInfo is the static city map a client renders
type BoardInfo struct {
	Name     string                  `json:"name"`
	Width    int                     `json:"width"`
	Height   int                     `json:"height"`
	Rows     [][]string              `json:"rows"`
	BusStops []board.BusStopInfo     `json:"bus_stops"`
	Routes   map[board.RouteID][]int `json:"routes"`
}

// CommandResult is the outcome of one dispatched command
type CommandResult struct {
	Action     string            `json:"action"`
	Applied    bool              `json:"applied"`
	Message    string            `json:"message,omitempty"`
	GameState  *engine.GameState `json:"game_state"`
	Events     []engine.Event    `json:"events,omitempty"`
	Highlights []board.Position  `json:"highlights"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Entries      []engine.HistoryEntry `json:"entries"`
	TotalEntries int                   `json:"total_entries"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	HasNext      bool                  `json:"has_next"`
	HasPrevious  bool                  `json:"has_previous"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Buildings   int    `json:"buildings"`
	BusStops    int    `json:"bus_stops"`
}

// NewBoardInfo describes b for clients
func NewBoardInfo(name string, b *board.Board) *BoardInfo {
	routes := make(map[board.RouteID][]int)
	for _, id := range b.RouteIDs() {
		stops, _ := b.Route(id)
		routes[id] = stops
	}
	return &BoardInfo{
		Name:     name,
		Width:    b.Width(),
		Height:   b.Height(),
		Rows:     b.Rows(),
		BusStops: b.Stops(),
		Routes:   routes,
	}
}

// NewConfigInfo summarizes a configuration stored under configID
func NewConfigInfo(filename, configID string, config *engine.GameConfig) *ConfigInfo {
	info := &ConfigInfo{
		Filename:    filename,
		ConfigID:    configID,
		Name:        config.Name,
		Description: config.Description,
		Height:      len(config.Layout),
		BusStops:    len(config.BusStops),
	}
	if b, err := config.Board(); err == nil {
		info.Width = b.Width()
		info.Buildings = b.Count(board.Building)
	}
	return info
}
