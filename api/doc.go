// Package api provides the HTTP REST API for the City Explorer game.
//
// The api package implements:
//   - Session management endpoints
//   - One endpoint per player command plus a generic command endpoint
//   - State, highlight and history queries
//   - Board configuration listing, loading and saving
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Scoreboard rows (?sessionIds=a,b or ?configName=x)
//   - GET /api/sessions/{id} - Session with state, highlights and board
//   - DELETE /api/sessions/{id} - Delete session
//
// Game State:
//   - GET /api/sessions/{id}/state - Current game state
//   - GET /api/sessions/{id}/highlights - Tiles the current team may step on
//   - GET /api/sessions/{id}/history - Action history (?page=1&limit=20&order=desc)
//
// Commands:
//   - POST /api/sessions/{id}/commands - Any command, named by "action"
//   - POST /api/sessions/{id}/select-team-count   {"count": 2}
//   - POST /api/sessions/{id}/update-team         {"team_id": 1, "name": "..", "emoji": "..", "color": ".."}
//   - POST /api/sessions/{id}/start-game
//   - POST /api/sessions/{id}/roll-dice
//   - POST /api/sessions/{id}/move-forward
//   - POST /api/sessions/{id}/turn                {"direction": "LEFT|RIGHT"}
//   - POST /api/sessions/{id}/end-turn
//   - POST /api/sessions/{id}/select-red-light    {"x": 4, "y": 1}
//   - POST /api/sessions/{id}/start-bus-ride      {"route": "CW|CCW"}
//   - POST /api/sessions/{id}/decline-bus
//   - POST /api/sessions/{id}/move-bus            {"stay_on": true}
//   - POST /api/sessions/{id}/answer-question     {"correct": true}
//   - POST /api/sessions/{id}/reset
//
// A command that is not valid in the current phase is not an error: the
// response is 200 with "applied": false and a message saying why.
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Full configuration
//   - POST /api/configs - Save a configuration ({"config_id": "x", ...GameConfig})
//
// WebSocket:
//   - GET /ws?session={id} - Snapshot followed by a state_update per change
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{"error": "session not found: a1b2"}
//
// Unknown sessions and configurations map to 404, malformed commands and
// configurations to 400, anything else to 500.
package api
