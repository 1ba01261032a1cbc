// Package service provides the business logic layer for the City Explorer game.
//
// The service package implements:
//   - Multi-session game management
//   - Board configuration listing, loading and saving
//   - Translation of wire commands into engine commands
//   - Paginated action history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine instance; every player
// action goes through Dispatch, which returns the new state together with
// the events the action produced. Commands that are not legal in the current
// phase are not errors: they come back with Applied=false and a message.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cmd, _ := service.CommandRequest{Action: "select_team_count", Count: 2}.Command()
//	result, err := gameService.Dispatch(ctx, info.ID, cmd)
//
// Session Management:
//
// Sessions are identified by short random IDs and keep independent game
// state. Multiple sessions can run concurrently on different boards.
package service
