// Package mcp exposes the City Explorer REST API as Model Context Protocol tools.
//
// The client holds no game state. Every tool call becomes one or two REST
// requests against a running server and the JSON answer is rendered as text
// an agent can read.
//
// MCP Tools:
//   - create_session, list_sessions, get_session, list_configs
//   - game_state: phase, teams, destinations and a rendered board
//   - describe_cell: tile kind, building reward, bus stop and teams at x,y
//   - action_history: paginated command history
//   - game_instructions: the full rules
//   - one tool per player command (select_team_count, roll_dice, turn, ...)
//
// Command tools accept an optional intent argument. It is never sent to the
// server; it exists so agents explain each step.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
