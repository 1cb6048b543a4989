package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func dialRoom(t *testing.T, hub *Hub, room string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, room)
		if !hub.Register(client) {
			conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestTeamRoom(t *testing.T) {
	assert.Equal(t, "team_7", TeamRoom(7))
}

func TestPublishRosterReachesOnlyTeamRoom(t *testing.T) {
	hub := startHub(t)

	team1 := dialRoom(t, hub, TeamRoom(1))
	team2 := dialRoom(t, hub, TeamRoom(2))

	require.Eventually(t, func() bool {
		return hub.RoomSize(TeamRoom(1)) == 1 && hub.RoomSize(TeamRoom(2)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.PublishRoster(1, EventPlayerCreated, map[string]int{"id": 5})

	_ = team1.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := team1.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]int `json:"payload"`
		RoomID  string         `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, EventPlayerCreated, msg.Type)
	assert.Equal(t, 5, msg.Payload["id"])
	assert.Equal(t, "team_1", msg.RoomID)

	_ = team2.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = team2.ReadMessage()
	assert.Error(t, err)
}

func TestClientDisconnectLeavesRoom(t *testing.T) {
	hub := startHub(t)
	conn := dialRoom(t, hub, TeamRoom(3))

	require.Eventually(t, func() bool { return hub.RoomSize(TeamRoom(3)) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.RoomSize(TeamRoom(3)) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRegisterAfterStopReturnsFalse(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, hub.Register(&Client{room: "x", send: make(chan []byte, 1)}))
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := startHub(t)
	assert.NotPanics(t, func() { hub.BroadcastToRoom("nobody", Message{Type: EventPlayerDeleted}) })
}
