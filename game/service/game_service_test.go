package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/city-explorer-game/game/board"
	"github.com/wricardo/city-explorer-game/game/engine"
	"github.com/wricardo/city-explorer-game/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	mu       sync.Mutex
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	// Timers never fire on their own in tests
	eng, err := engine.NewEngine(config,
		engine.WithScheduler(engine.NewManualScheduler()),
		engine.WithRand(engine.NewRand(1)),
	)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	c := *session
	return &c, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	c := *session
	return &c, nil
}

func (m *MockSessionManager) List() []*service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		c := *session
		result = append(result, &c)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, exists := m.sessions[id]
	if !exists {
		return service.ErrSessionNotFound
	}
	session.Engine.Close()
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
	saved   map[string]*engine.GameConfig
}

// testConfig is a 7x5 town with three bus stops
func testConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:        "Service Test Town",
		Description: "Small town for service tests",
		Layout: []string{
			"H1 S B4 S B6 S H2",
			"S G C Q G G S",
			"U S R S S B1 U",
			"S G C G G G S",
			"H3 S B11 S S U H4",
		},
		BusStops: []board.BusStopInfo{
			{ID: 1, X: 0, Y: 2},
			{ID: 2, X: 6, Y: 2},
			{ID: 3, X: 5, Y: 4},
		},
		BusRoutes: map[board.RouteID][]int{
			board.Clockwise:        {1, 2, 3},
			board.CounterClockwise: {1, 3, 2},
		},
	}
}

func NewMockConfigManager() *MockConfigManager {
	defaultConfig := testConfig()
	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"test":    defaultConfig,
			"default": defaultConfig,
		},
		saved: make(map[string]*engine.GameConfig),
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, service.NewConfigInfo(name+".json", name, config))
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidConfig, err)
	}
	m.saved[name] = config
	return nil
}

func newTestService(t *testing.T) (service.GameService, *MockSessionManager) {
	t.Helper()
	sessions := NewMockSessionManager()
	t.Cleanup(func() {
		for _, s := range sessions.sessions {
			s.Engine.Close()
		}
	})
	return service.NewGameService(sessions, NewMockConfigManager()), sessions
}

func mustDispatch(t *testing.T, svc service.GameService, id string, cmd engine.Command) *service.CommandResult {
	t.Helper()
	res, err := svc.Dispatch(context.Background(), id, cmd)
	if err != nil {
		t.Fatalf("Dispatch(%s) error: %v", cmd.Action(), err)
	}
	if !res.Applied {
		t.Fatalf("Dispatch(%s) not applied: %s", cmd.Action(), res.Message)
	}
	return res
}

// Test cases
func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name       string
		configName string
		wantErr    error
	}{
		{
			name:       "create with default config",
			configName: "",
		},
		{
			name:       "create with specific config",
			configName: "test",
		},
		{
			name:       "create with invalid config",
			configName: "nonexistent",
			wantErr:    service.ErrConfigNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateSession() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() unexpected error: %v", err)
			}
			if session.GameState == nil || session.GameState.Phase != engine.PhaseTeamCount {
				t.Errorf("Expected a fresh game in TEAM_COUNT, got %+v", session.GameState)
			}
			if session.Board == nil || session.Board.Width != 7 || session.Board.Height != 5 {
				t.Fatalf("Expected 7x5 board info, got %+v", session.Board)
			}
			if len(session.Board.BusStops) != 3 || len(session.Board.Routes) != 2 {
				t.Errorf("Expected 3 stops and 2 routes, got %d and %d", len(session.Board.BusStops), len(session.Board.Routes))
			}
		})
	}
}

func TestGameService_Dispatch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	// Out of phase commands are reported, not returned as errors
	res, err := svc.Dispatch(ctx, info.ID, engine.RollDice{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Applied {
		t.Error("Expected roll_dice to be refused before teams exist")
	}
	if res.Message == "" || res.GameState.Phase != engine.PhaseTeamCount {
		t.Errorf("Expected explanation and unchanged phase, got %q in %s", res.Message, res.GameState.Phase)
	}

	res = mustDispatch(t, svc, info.ID, engine.SelectTeamCount{Count: 2})
	if len(res.GameState.Teams) != 2 || res.GameState.Phase != engine.PhaseTeamCustomization {
		t.Errorf("Expected 2 teams in customization, got %d in %s", len(res.GameState.Teams), res.GameState.Phase)
	}

	mustDispatch(t, svc, info.ID, engine.UpdateTeam{TeamID: 2, Name: "Tigers"})
	res = mustDispatch(t, svc, info.ID, engine.StartGame{})
	if res.GameState.Phase != engine.PhaseRolling {
		t.Fatalf("Expected ROLLING after start, got %s", res.GameState.Phase)
	}
	if res.GameState.Teams[1].Name != "Tigers" {
		t.Errorf("Expected team 2 renamed, got %q", res.GameState.Teams[1].Name)
	}

	res = mustDispatch(t, svc, info.ID, engine.RollDice{})
	if res.GameState.Phase != engine.PhaseMoving {
		t.Fatalf("Expected MOVING after roll, got %s", res.GameState.Phase)
	}
	if res.GameState.RemainingMoves < 1 || res.GameState.RemainingMoves > engine.DiceSides {
		t.Errorf("Roll out of range: %d", res.GameState.RemainingMoves)
	}
	if len(res.Highlights) == 0 {
		t.Error("Expected highlights while moving")
	}

	if _, err := svc.Dispatch(ctx, "nonexistent", engine.RollDice{}); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Dispatch(ctx, info.ID, nil); !errors.Is(err, service.ErrInvalidCommand) {
		t.Errorf("Expected ErrInvalidCommand for nil command, got %v", err)
	}
}

func TestGameService_GetHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	mustDispatch(t, svc, info.ID, engine.SelectTeamCount{Count: 1})
	mustDispatch(t, svc, info.ID, engine.UpdateTeam{TeamID: 1, Name: "Ants"})
	mustDispatch(t, svc, info.ID, engine.StartGame{})
	mustDispatch(t, svc, info.ID, engine.Reset{})
	mustDispatch(t, svc, info.ID, engine.SelectTeamCount{Count: 3})

	tests := []struct {
		name        string
		opts        service.HistoryOptions
		wantActions []string
		wantPages   int
		wantNext    bool
	}{
		{
			name:        "default options are newest first",
			opts:        service.HistoryOptions{},
			wantActions: []string{"select_team_count", "reset", "start_game", "update_team", "select_team_count"},
			wantPages:   1,
		},
		{
			name:        "ascending first page",
			opts:        service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"},
			wantActions: []string{"select_team_count", "update_team"},
			wantPages:   3,
			wantNext:    true,
		},
		{
			name:        "descending last page",
			opts:        service.HistoryOptions{Page: 3, Limit: 2, Order: "desc"},
			wantActions: []string{"select_team_count"},
			wantPages:   3,
		},
		{
			name:        "page past the end",
			opts:        service.HistoryOptions{Page: 9, Limit: 2, Order: "asc"},
			wantActions: []string{},
			wantPages:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetHistory(ctx, info.ID, tt.opts)
			if err != nil {
				t.Fatalf("GetHistory() error = %v", err)
			}
			if result.TotalEntries != 5 {
				t.Errorf("TotalEntries = %d, want 5", result.TotalEntries)
			}
			if result.TotalPages != tt.wantPages || result.HasNext != tt.wantNext {
				t.Errorf("pages=%d next=%v, want %d %v", result.TotalPages, result.HasNext, tt.wantPages, tt.wantNext)
			}
			if result.Entries == nil {
				t.Fatal("Entries must not be nil")
			}
			if len(result.Entries) != len(tt.wantActions) {
				t.Fatalf("Got %d entries, want %d", len(result.Entries), len(tt.wantActions))
			}
			for i, want := range tt.wantActions {
				if result.Entries[i].Action != want {
					t.Errorf("Entry %d action = %s, want %s", i, result.Entries[i].Action, want)
				}
			}
		})
	}

	if _, err := svc.GetHistory(ctx, "nonexistent", service.HistoryOptions{}); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	var ids []string
	for i := 0; i < 3; i++ {
		info, err := svc.CreateSession(ctx, "test")
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
		ids = append(ids, info.ID)
	}

	sessionList, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessionList) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessionList))
	}
	for _, s := range sessionList {
		if s.Board != nil {
			t.Error("Session listings should not carry the board")
		}
	}

	if err := svc.DeleteSession(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.GetSession(ctx, ids[0]); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
	if err := svc.DeleteSession(ctx, ids[0]); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestGameService_HighlightsAndState(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	highlights, err := svc.GetHighlights(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetHighlights() error = %v", err)
	}
	if len(highlights) != 0 {
		t.Errorf("Expected no highlights before the game starts, got %v", highlights)
	}

	mustDispatch(t, svc, info.ID, engine.SelectTeamCount{Count: 1})
	mustDispatch(t, svc, info.ID, engine.StartGame{})

	state, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState() error = %v", err)
	}
	if state.Teams[0].Position != (board.Position{X: 0, Y: 0}) {
		t.Errorf("Expected team 1 at home 1, got %v", state.Teams[0].Position)
	}
	if len(state.Teams[0].Destinations) != engine.DestinationsPerTeam {
		t.Errorf("Expected %d destinations, got %v", engine.DestinationsPerTeam, state.Teams[0].Destinations)
	}
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	configs, err := svc.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs() error = %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d", len(configs))
	}
	for _, c := range configs {
		if c.Width != 7 || c.Height != 5 || c.Buildings != 4 || c.BusStops != 3 {
			t.Errorf("Unexpected config summary %+v", c)
		}
	}

	if err := svc.SaveConfig(ctx, "broken", &engine.GameConfig{Name: "broken"}); !errors.Is(err, service.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if err := svc.SaveConfig(ctx, "copy", testConfig()); err != nil {
		t.Errorf("SaveConfig() error = %v", err)
	}
}

func TestCommandRequest(t *testing.T) {
	x, y := 2, 3
	tests := []struct {
		name    string
		req     service.CommandRequest
		want    engine.Command
		wantErr bool
	}{
		{name: "team count", req: service.CommandRequest{Action: "select_team_count", Count: 3}, want: engine.SelectTeamCount{Count: 3}},
		{name: "update team", req: service.CommandRequest{Action: "update_team", TeamID: 2, Emoji: "🚲"}, want: engine.UpdateTeam{TeamID: 2, Emoji: "🚲"}},
		{name: "update team needs id", req: service.CommandRequest{Action: "update_team", Name: "x"}, wantErr: true},
		{name: "turn lowercase", req: service.CommandRequest{Action: "turn", Direction: "left"}, want: engine.Turn{Direction: engine.TurnLeft}},
		{name: "turn bad direction", req: service.CommandRequest{Action: "turn", Direction: "up"}, wantErr: true},
		{name: "red light", req: service.CommandRequest{Action: "select_red_light", X: &x, Y: &y}, want: engine.SelectRedLight{X: 2, Y: 3}},
		{name: "red light needs coords", req: service.CommandRequest{Action: "select_red_light", X: &x}, wantErr: true},
		{name: "bus route", req: service.CommandRequest{Action: "start_bus_ride", Route: "ccw"}, want: engine.StartBusRide{Route: board.CounterClockwise}},
		{name: "bus needs route", req: service.CommandRequest{Action: "start_bus_ride"}, wantErr: true},
		{name: "stay on", req: service.CommandRequest{Action: "move_bus", StayOn: true}, want: engine.MoveBusOneStop{StayOn: true}},
		{name: "answer", req: service.CommandRequest{Action: "answer_question", Correct: true}, want: engine.AnswerQuestion{Correct: true}},
		{name: "end turn", req: service.CommandRequest{Action: "end_turn"}, want: engine.EndTurnEarly{}},
		{name: "internal action", req: service.CommandRequest{Action: "auto_end_turn"}, wantErr: true},
		{name: "empty", req: service.CommandRequest{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Command()
			if tt.wantErr {
				if !errors.Is(err, service.ErrInvalidCommand) {
					t.Fatalf("Expected ErrInvalidCommand, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Command() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Command() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestGameService_ConcurrentReadsAndDispatch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession() error: %v", err)
	}
	mustDispatch(t, svc, created.ID, engine.SelectTeamCount{Count: 2})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				info, err := svc.GetSession(ctx, created.ID)
				if err != nil {
					t.Error(err)
					return
				}
				if info.LastAccessedAt.Before(info.CreatedAt) {
					t.Error("LastAccessedAt before CreatedAt")
				}
				if _, err := svc.Dispatch(ctx, created.ID, engine.UpdateTeam{TeamID: 1 + g%2, Name: "Racer"}); err != nil {
					t.Error(err)
				}
				if _, err := svc.ListSessions(ctx); err != nil {
					t.Error(err)
				}
			}
		}(g)
	}
	wg.Wait()

	info, err := svc.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession() error: %v", err)
	}
	if !info.LastAccessedAt.After(created.LastAccessedAt) {
		t.Error("Expected reads to advance LastAccessedAt")
	}
}
