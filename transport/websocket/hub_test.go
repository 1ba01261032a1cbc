package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/city-explorer-game/game/engine"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if cap(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected buffered broadcast channel, cap=%d", cap(hub.broadcast))
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("Hub register channels are nil")
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "test-session",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)
	if hub.ClientCount("test-session") != 1 {
		t.Fatalf("Expected 1 client in session, got %d", hub.ClientCount("test-session"))
	}

	hub.unregisterClient(client)
	if hub.ClientCount("test-session") != 0 {
		t.Error("Expected client to be removed")
	}
	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Empty session should be cleaned up")
	}
	if _, ok := <-client.send; ok {
		t.Error("Expected send channel to be closed")
	}

	// Second unregister is a no-op
	hub.unregisterClient(client)
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()

	slow := &Client{hub: hub, sessionID: "s", send: make(chan []byte)}
	fast := &Client{hub: hub, sessionID: "s", send: make(chan []byte, 1)}
	hub.registerClient(slow)
	hub.registerClient(fast)

	hub.broadcastMessage(&Message{SessionID: "s", Event: "ping"})

	if hub.ClientCount("s") != 1 {
		t.Fatalf("Expected the slow client to be dropped, %d left", hub.ClientCount("s"))
	}
	var msg Message
	if err := json.Unmarshal(<-fast.send, &msg); err != nil {
		t.Fatalf("Bad message: %v", err)
	}
	if msg.Event != "ping" {
		t.Errorf("Expected ping, got %q", msg.Event)
	}
}

func TestHubBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub()

	// Nobody runs the hub, so the queue fills up
	for i := 0; i < broadcastBuffer+10; i++ {
		hub.BroadcastEvent("s", "tick", i)
	}
	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected a full queue of %d, got %d", broadcastBuffer, len(hub.broadcast))
	}
}

// dial starts a server that subscribes every connection to sessionID
func dial(t *testing.T, hub *Hub, sessionID string, snapshot *engine.GameState) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, sessionID, snapshot)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	return msg
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount(sessionID) != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients on %s, got %d", n, sessionID, hub.ClientCount(sessionID))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubServeWS(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	snapshot := engine.NewGameState()
	conn := dial(t, hub, "abcd", &snapshot)

	first := readMessage(t, conn)
	if first.Event != EventSnapshot || first.SessionID != "abcd" {
		t.Fatalf("Expected snapshot for abcd, got %+v", first)
	}
	if first.GameState == nil || first.GameState.Phase != engine.PhaseTeamCount {
		t.Errorf("Expected TEAM_COUNT snapshot, got %+v", first.GameState)
	}

	waitForClients(t, hub, "abcd", 1)

	state := engine.NewGameState()
	state.Phase = engine.PhaseTeamCustomization
	state.Version = 1

	// Updates for other sessions are not delivered
	hub.BroadcastState("other", state, nil)
	hub.BroadcastState("abcd", state, []engine.Event{{Type: engine.EventTeamsCreated, Value: 2}})

	update := readMessage(t, conn)
	if update.Event != EventStateUpdate || update.SessionID != "abcd" {
		t.Fatalf("Expected state update for abcd, got %+v", update)
	}
	if update.GameState.Phase != engine.PhaseTeamCustomization || update.GameState.Version != 1 {
		t.Errorf("Unexpected state %+v", update.GameState)
	}
	if len(update.Events) != 1 || update.Events[0].Type != engine.EventTeamsCreated {
		t.Errorf("Unexpected events %+v", update.Events)
	}

	hub.BroadcastEvent("abcd", "session_deleted", map[string]string{"id": "abcd"})
	custom := readMessage(t, conn)
	if custom.Event != "session_deleted" || custom.GameState != nil {
		t.Errorf("Unexpected custom event %+v", custom)
	}
}

func TestHubRunClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- hub.Run(ctx) }()

	conn := dial(t, hub, "s1", nil)
	waitForClients(t, hub, "s1", 1)

	cancel()
	if err := <-stopped; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if hub.ClientCount("s1") != 0 {
		t.Error("Expected all clients to be dropped")
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the connection to be closed")
	}
}
