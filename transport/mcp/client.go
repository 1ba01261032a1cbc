package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/city-explorer-game/game/board"
	"github.com/wricardo/city-explorer-game/game/engine"
	"github.com/wricardo/city-explorer-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"City Explorer",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`City Explorer - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Each team is dealt two city buildings. Visit both, then walk back to your
home corner. The first team home wins.

TURN FLOW:
create_session -> select_team_count -> (update_team) -> start_game
then per turn: roll_dice -> move_forward / turn ... until the budget is spent.

AVAILABLE TOOLS:
- create_session, list_sessions, get_session, list_configs
- game_state: board, teams and the tiles you may step on next
- describe_cell: what is at a given x,y
- one tool per command: select_team_count, update_team, start_game, roll_dice,
  move_forward, turn, end_turn, select_red_light, start_bus_ride, decline_bus,
  move_bus, answer_question, reset_game
- action_history: past commands
- game_instructions: full rules

A command that is not allowed right now is not an error: the result says
"not applied" and why. Check the phase in game_state before acting.`),
	)

	// Register all tools
	c.registerTools()
}

// commandTool describes one player command exposed as a tool
type commandTool struct {
	name        string
	action      string
	description string
	properties  map[string]interface{}
	required    []string
}

var commandTools = []commandTool{
	{
		name:        "select_team_count",
		action:      engine.ActionSelectTeamCount,
		description: "Create 1 to 4 teams. Only during TEAM_COUNT.",
		properties: map[string]interface{}{
			"count": map[string]interface{}{
				"type":        "integer",
				"minimum":     engine.MinTeams,
				"maximum":     engine.MaxTeams,
				"description": "Number of teams",
			},
		},
		required: []string{"count"},
	},
	{
		name:        "update_team",
		action:      engine.ActionUpdateTeam,
		description: "Rename or restyle a team. Only during TEAM_CUSTOMIZATION. Empty fields are kept.",
		properties: map[string]interface{}{
			"team_id": map[string]interface{}{"type": "integer", "description": "Team to edit (1-based)"},
			"name":    map[string]interface{}{"type": "string", "description": "New team name"},
			"emoji":   map[string]interface{}{"type": "string", "description": "New token emoji"},
			"color":   map[string]interface{}{"type": "string", "description": "New team color"},
		},
		required: []string{"team_id"},
	},
	{
		name:        "start_game",
		action:      engine.ActionStartGame,
		description: "Place teams on their home corners and deal destinations",
	},
	{
		name:        "roll_dice",
		action:      engine.ActionRollDice,
		description: "Roll the die for the current team. Only during ROLLING.",
	},
	{
		name:        "move_forward",
		action:      engine.ActionMoveForward,
		description: "Step one tile in the facing direction, spending one move",
	},
	{
		name:        "turn",
		action:      engine.ActionTurn,
		description: "Rotate the current team 90 degrees. Free, never costs a move.",
		properties: map[string]interface{}{
			"direction": map[string]interface{}{
				"type":        "string",
				"enum":        []string{string(engine.TurnLeft), string(engine.TurnRight)},
				"description": "Rotation",
			},
		},
		required: []string{"direction"},
	},
	{
		name:        "end_turn",
		action:      engine.ActionEndTurn,
		description: "Give up the remaining moves and pass to the next team",
	},
	{
		name:        "select_red_light",
		action:      engine.ActionSelectRedLight,
		description: "Place the red light on a crosswalk. Only during POWERUP_SELECT.",
		properties: map[string]interface{}{
			"x": map[string]interface{}{"type": "integer", "description": "Column (0-based)"},
			"y": map[string]interface{}{"type": "integer", "description": "Row (0-based)"},
		},
		required: []string{"x", "y"},
	},
	{
		name:        "start_bus_ride",
		action:      engine.ActionStartBusRide,
		description: "Board the bus at the current stop. Only during BUS_OFFER; costs one coin unless the team holds a free pass.",
		properties: map[string]interface{}{
			"route": map[string]interface{}{
				"type":        "string",
				"enum":        []string{string(board.Clockwise), string(board.CounterClockwise)},
				"description": "Route direction",
			},
		},
		required: []string{"route"},
	},
	{
		name:        "decline_bus",
		action:      engine.ActionDeclineBus,
		description: "Walk on instead of boarding. Only during BUS_OFFER.",
	},
	{
		name:        "move_bus",
		action:      engine.ActionMoveBus,
		description: "Ride to the next stop (stay_on=true) or get off here. Only during BUS_TRAVEL.",
		properties: map[string]interface{}{
			"stay_on": map[string]interface{}{"type": "boolean", "description": "Keep riding"},
		},
	},
	{
		name:        "answer_question",
		action:      engine.ActionAnswerQuestion,
		description: "Report whether the team answered the trivia question correctly. Only during QUESTION.",
		properties: map[string]interface{}{
			"correct": map[string]interface{}{"type": "boolean", "description": "Verdict"},
		},
		required: []string{"correct"},
	},
	{
		name:        "reset_game",
		action:      engine.ActionReset,
		description: "Start over from team selection",
	},
}

// sessionSchema builds an input schema with a required session_id
func sessionSchema(properties map[string]interface{}, required ...string) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID",
		},
	}
	for k, v := range properties {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   append([]string{"session_id"}, required...),
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional board selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Board configuration to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionSchema(nil),
	}, c.handleGetSession)

	// Game state
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, the teams and the tiles the current team may step on",
		InputSchema: sessionSchema(nil),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe the tile at x,y: kind, building, bus stop, teams and red light",
		InputSchema: sessionSchema(map[string]interface{}{
			"x": map[string]interface{}{"type": "integer", "description": "Column (0-based)"},
			"y": map[string]interface{}{"type": "integer", "description": "Row (0-based)"},
		}, "x", "y"),
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "View past commands with pagination",
		InputSchema: sessionSchema(map[string]interface{}{
			"page":  map[string]interface{}{"type": "integer", "description": "Page number (default 1)"},
			"limit": map[string]interface{}{"type": "integer", "description": "Entries per page (default 20)"},
			"order": map[string]interface{}{"type": "string", "enum": []string{"asc", "desc"}, "description": "Sort order (default desc)"},
		}),
	}, c.handleHistory)

	// Commands
	for _, tool := range commandTools {
		props := map[string]interface{}{
			"intent": map[string]interface{}{
				"type":        "string",
				"description": "Brief explanation of why you are doing this (serves as a rubber duck to help explain your reasoning)",
			},
		}
		for k, v := range tool.properties {
			props[k] = v
		}
		c.mcpServer.AddTool(mcp.Tool{
			Name:        tool.name,
			Description: tool.description,
			InputSchema: sessionSchema(props, tool.required...),
		}, c.commandHandler(tool.action))
	}

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

func sessionPath(sessionID string, parts ...string) string {
	path := "/api/sessions/" + url.PathEscape(sessionID)
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nNext: select_team_count\n", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		phase := "?"
		if s.GameState != nil {
			phase = string(s.GameState.Phase)
		}
		fmt.Fprintf(&result, "- %s (Config: %s, Phase: %s, Created: %s)\n",
			s.ID, s.ConfigName, phase, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(session.GameState)
	if session.Board != nil {
		result += "\n" + formatBoard(session.Board, session.GameState, session.Highlights)
	}
	return mcp.NewToolResultText(result), nil
}

// commandHandler proxies one player command. Every argument except
// session_id and intent is forwarded as the command body.
func (c *Client) commandHandler(action string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := arguments(request)
		sessionID, _ := args["session_id"].(string)
		if sessionID == "" {
			return mcp.NewToolResultError("session_id is required"), nil
		}

		body := map[string]interface{}{"action": action}
		for k, v := range args {
			if k == "session_id" || k == "intent" {
				continue
			}
			body[k] = v
		}

		var result service.CommandResult
		if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "commands"), body, &result); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(formatCommandResult(&result)), nil
	}
}

func (c *Client) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&result, "• %s (config_id: %s)\n  %s\n  Grid: %dx%d, Buildings: %d, Bus stops: %d\n\n",
			config.Name, config.ConfigID, config.Description,
			config.Width, config.Height, config.Buildings, config.BusStops)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	xf, okX := args["x"].(float64)
	yf, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}
	p := board.Position{X: int(xf), Y: int(yf)}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if session.Board == nil {
		return mcp.NewToolResultError("session has no board"), nil
	}

	b := session.Board
	if p.X < 0 || p.X >= b.Width || p.Y < 0 || p.Y >= b.Height {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Board is %dx%d (x 0-%d, y 0-%d)",
			p.X, p.Y, b.Width, b.Height, b.Width-1, b.Height-1)), nil
	}

	return mcp.NewToolResultText(describeCell(b, session.GameState, session.Highlights, p)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `🏙️ City Explorer - Complete Instructions

GAME OBJECTIVE:
Every team gets two buildings to visit. Visit both, then return to the home
corner you started from. The first team back home wins.

SETUP:
1. create_session (optionally with a config_id from list_configs)
2. select_team_count with 1 to 4 teams
3. update_team to rename or restyle teams (optional)
4. start_game: teams are placed on their corners and dealt destinations

TURNS:
• roll_dice gives a budget of 1-6 moves, plus any roll bonus you collected
• move_forward steps one tile in the facing direction and costs one move
• turn LEFT or RIGHT is free
• end_turn passes early; a spent budget ends the turn on its own shortly after

GRID LEGEND:
• S sidewalk, C crosswalk, G grass: walkable
• R road: never walkable, cross at C tiles
• B1..B12 buildings, H1..H4 homes, U bus stops, Q question tiles
• T1..T4 team tokens, ## red light, * tiles you can step on now

BUILDINGS:
Stepping on any building grants its reward once per turn: bonus moves for the
next roll, coins, or a free bus pass. Stepping on one of your destinations
marks it visited.

QUESTION TILES:
Landing on Q ends your movement and asks a trivia question. Judge the answer
and report it with answer_question. A correct answer pays 3 coins or lets you
place the red light on a crosswalk with select_red_light. The red light blocks
that crosswalk for everyone for two turns.

BUS:
Stopping on a bus stop offers a ride (phase BUS_OFFER). start_bus_ride costs
one coin (free with a pass) and rides one leg clockwise (CW) or
counter-clockwise (CCW). move_bus with stay_on=true rides another leg for
another coin; stay_on=false gets off. Riding ends your turn.

PHASES:
TEAM_COUNT → TEAM_CUSTOMIZATION → ROLLING → MOVING → (QUESTION → POWERUP_SELECT)
→ (BUS_OFFER → BUS_TRAVEL) → next team's ROLLING ... → GAME_OVER

TIPS:
• Call game_state before acting; the phase tells you which commands apply
• Commands that do not fit the phase come back "not applied" with a reason
• Face the right way before rolling; turning is free
• Use describe_cell when a tile code is unclear

Good luck exploring the city! 🚶🚌`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
	if session.Board != nil {
		result += "\n" + formatBoard(session.Board, session.GameState, session.Highlights)
	}
	return result
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Phase: %s\n", state.Phase)

	if team, ok := state.CurrentTeam(); ok && state.Phase != engine.PhaseGameOver && state.Phase != engine.PhaseTeamCustomization {
		fmt.Fprintf(&result, "Current team: %s %s (#%d)", team.Emoji, team.Name, team.ID)
		if state.Phase == engine.PhaseMoving {
			fmt.Fprintf(&result, " | Rolled: %d | Moves left: %d", state.DiceRoll, state.RemainingMoves)
		}
		result.WriteString("\n")
	}

	if state.RedLight != nil {
		fmt.Fprintf(&result, "Red light at (%d,%d), %d turn(s) left\n",
			state.RedLight.Position.X, state.RedLight.Position.Y, state.RedLight.TurnsRemaining)
	}
	if state.Processing {
		result.WriteString("Fetching a question...\n")
	}
	if state.Question != nil {
		fmt.Fprintf(&result, "Question (%s): %s\n  Answer: %s\n", state.Question.Category, state.Question.Question, state.Question.Answer)
		if state.Question.Hint != "" {
			fmt.Fprintf(&result, "  Hint: %s\n", state.Question.Hint)
		}
	}

	if len(state.Teams) > 0 {
		result.WriteString("\nTeams:\n")
		for i := range state.Teams {
			result.WriteString(formatTeam(&state.Teams[i]))
		}
	}

	for _, n := range state.Notifications {
		fmt.Fprintf(&result, "📣 %s\n", n.Message)
	}

	if winner, ok := state.Winner(); ok {
		fmt.Fprintf(&result, "\n🎉 %s %s WINS!\n", winner.Emoji, winner.Name)
	}

	return result.String()
}

func formatTeam(team *engine.Team) string {
	var result strings.Builder
	fmt.Fprintf(&result, "- #%d %s %s at (%d,%d) facing %s | Coins: %d",
		team.ID, team.Emoji, team.Name, team.Position.X, team.Position.Y, team.Facing, team.Coins)
	if team.NextRollBonus > 0 {
		fmt.Fprintf(&result, " | Roll bonus: +%d", team.NextRollBonus)
	}
	if team.FreeBus {
		result.WriteString(" | Free bus pass")
	}
	if team.BusStatus != nil {
		fmt.Fprintf(&result, " | On bus %s at stop %d", team.BusStatus.Route, team.BusStatus.CurrentStopID)
	}
	result.WriteString("\n")

	if len(team.Destinations) > 0 {
		parts := make([]string, 0, len(team.Destinations))
		for _, id := range team.Destinations {
			name := string(id)
			if loc, ok := board.LocationByID(id); ok {
				name = loc.Name
			}
			if team.HasVisited(id) {
				name = "✓ " + name
			}
			parts = append(parts, name)
		}
		fmt.Fprintf(&result, "  Destinations: %s\n", strings.Join(parts, ", "))
		if team.DestinationsComplete() {
			result.WriteString("  All visited, head home!\n")
		}
	}
	return result.String()
}

// formatBoard renders the layout with team tokens, the red light and the
// highlighted tiles. Every cell is three characters wide.
func formatBoard(b *service.BoardInfo, state *engine.GameState, highlights []board.Position) string {
	marks := make(map[board.Position]string)
	for _, p := range highlights {
		marks[p] = "*"
	}
	if state != nil {
		if state.RedLight != nil {
			marks[state.RedLight.Position] = "##"
		}
		for _, team := range state.Teams {
			if state.Phase == engine.PhaseTeamCount || state.Phase == engine.PhaseTeamCustomization {
				break
			}
			marks[team.Position] = fmt.Sprintf("T%d", team.ID)
		}
	}

	var result strings.Builder
	result.WriteString("    ")
	for x := 0; x < b.Width; x++ {
		fmt.Fprintf(&result, "%-3d", x)
	}
	result.WriteString("\n")
	for y, row := range b.Rows {
		fmt.Fprintf(&result, "%-4d", y)
		for x, code := range row {
			if mark, ok := marks[board.Position{X: x, Y: y}]; ok {
				code = mark
			}
			fmt.Fprintf(&result, "%-3s", code)
		}
		result.WriteString("\n")
	}
	return result.String()
}

func describeCell(b *service.BoardInfo, state *engine.GameState, highlights []board.Position, p board.Position) string {
	code := b.Rows[p.Y][p.X]

	var result strings.Builder
	fmt.Fprintf(&result, "Cell (%d,%d): %s\n", p.X, p.Y, code)

	tile, err := board.ParseCode(code)
	if err != nil {
		result.WriteString("Unknown tile\n")
		return result.String()
	}
	fmt.Fprintf(&result, "Kind: %s\n", tile.Kind)
	fmt.Fprintf(&result, "Walkable: %t\n", tile.Kind.Traversable())

	if loc, ok := board.LocationByID(tile.Location); ok {
		fmt.Fprintf(&result, "Building: %s (%s)\n", loc.Name, loc.Message)
	}
	if home, ok := board.HomeByID(tile.Home); ok {
		fmt.Fprintf(&result, "Home: %s\n", home.Name)
	}
	for _, stop := range b.BusStops {
		if stop.Position() == p {
			fmt.Fprintf(&result, "Bus stop #%d\n", stop.ID)
		}
	}
	if tile.Kind == board.Question {
		result.WriteString("Landing here asks a trivia question\n")
	}

	if state != nil {
		if state.IsRedLight(p) {
			fmt.Fprintf(&result, "Red light: blocked for %d more turn(s)\n", state.RedLight.TurnsRemaining)
		}
		for _, team := range state.Teams {
			if team.Position == p && state.Phase != engine.PhaseTeamCount && state.Phase != engine.PhaseTeamCustomization {
				fmt.Fprintf(&result, "Team here: %s %s\n", team.Emoji, team.Name)
			}
		}
	}
	for _, h := range highlights {
		if h == p {
			result.WriteString("The current team can step here next\n")
		}
	}
	return result.String()
}

func formatCommandResult(result *service.CommandResult) string {
	var out strings.Builder
	if result.Applied {
		fmt.Fprintf(&out, "✓ %s applied\n", result.Action)
	} else {
		fmt.Fprintf(&out, "✗ %s not applied\n", result.Action)
	}
	if result.Message != "" {
		fmt.Fprintf(&out, "%s\n", result.Message)
	}

	if len(result.Events) > 0 {
		out.WriteString("\nEvents:\n")
		for _, e := range result.Events {
			out.WriteString("- " + formatEvent(e) + "\n")
		}
	}

	out.WriteString("\n" + formatGameState(result.GameState))

	if len(result.Highlights) > 0 {
		parts := make([]string, 0, len(result.Highlights))
		for _, p := range result.Highlights {
			parts = append(parts, fmt.Sprintf("(%d,%d)", p.X, p.Y))
		}
		fmt.Fprintf(&out, "\nCan step to: %s\n", strings.Join(parts, " "))
	}
	return out.String()
}

func formatEvent(e engine.Event) string {
	s := string(e.Type)
	if e.TeamID != 0 {
		s += fmt.Sprintf(" team=%d", e.TeamID)
	}
	if e.Position != nil {
		s += fmt.Sprintf(" at (%d,%d)", e.Position.X, e.Position.Y)
	}
	if e.Value != 0 {
		s += fmt.Sprintf(" value=%d", e.Value)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

func formatHistory(history *service.HistoryResponse) string {
	var result strings.Builder
	fmt.Fprintf(&result, "Action History (Page %d/%d, Total: %d):\n\n",
		history.Page, history.TotalPages, history.TotalEntries)

	for _, entry := range history.Entries {
		fmt.Fprintf(&result, "#%d %s", entry.Sequence, entry.Action)
		if entry.TeamID != 0 {
			fmt.Fprintf(&result, " team=%d", entry.TeamID)
		}
		fmt.Fprintf(&result, " %s→%s", entry.PhaseBefore, entry.PhaseAfter)
		if entry.FromPosition != nil && entry.ToPosition != nil && *entry.FromPosition != *entry.ToPosition {
			fmt.Fprintf(&result, " (%d,%d)→(%d,%d)",
				entry.FromPosition.X, entry.FromPosition.Y, entry.ToPosition.X, entry.ToPosition.Y)
		}
		result.WriteString("\n")
	}

	if history.HasNext {
		result.WriteString("\nMore entries available (use page parameter)")
	}
	return result.String()
}
