// Package session provides in-memory session management for the City Explorer game.
//
// The session package implements:
//   - Thread-safe session storage with case-insensitive lookup
//   - Short session ID generation
//   - Idle session expiry
//   - Forwarding of engine changes to a single listener
//
// Core Types:
//
// Manager is the session manager that handles all session operations.
// Each service.Session owns its own engine instance plus metadata like
// creation time and last access time.
//
// Session Identifiers:
//
// Generated IDs are the first four hex digits of a random UUID, grown by
// one digit when the short form keeps colliding.
//
// Change Notifications:
//
// Engines change state on their own when timers fire or trivia arrives. The
// listener registered with WithStateListener sees those changes tagged with
// the session ID; the server uses it to push snapshots to WebSocket clients.
//
// Usage:
//
//	manager := session.NewManager(
//		session.WithLogger(logger),
//		session.WithStateListener(hub.BroadcastState),
//	)
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	go manager.RunCleanup(ctx, time.Minute, 2*time.Hour)
//
// Sessions are never written to disk; restarting the server starts over.
package session
