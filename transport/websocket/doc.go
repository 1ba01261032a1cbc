// Package websocket pushes live game state to browser clients.
//
// A central Hub tracks connections per session. Each connection gets a read
// goroutine that only handles keepalive and a write goroutine that drains
// its send queue.
//
// Message Protocol:
//
// Every frame is one JSON Message:
//   - snapshot: sent once right after connecting, carries the full state
//   - state_update: sent after every applied command, including the ones
//     the engine applies by itself (auto end of turn, trivia arrival,
//     notification expiry); carries the state and the events produced
//   - custom events from BroadcastEvent, with free-form data
//
// Clients send commands over REST; anything they write on the socket is
// ignored.
//
// Usage:
//
//	hub := websocket.NewHub(websocket.WithLogger(logger))
//	go hub.Run(ctx)
//
//	sessions := session.NewManager(session.WithStateListener(hub.BroadcastState))
//
// BroadcastState never blocks the caller. When the queue is full new updates
// are dropped and logged; clients that cannot keep up are disconnected.
package websocket
