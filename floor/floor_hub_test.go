package floor_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservations/floor"
	"github.com/yeremiapane/restaurant-reservations/models"
)

func startHubServer(t *testing.T, hub *floor.Hub) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn, models.RoleStaff)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestBroadcastReachesConnectedDisplays(t *testing.T) {
	hub := floor.NewHub()
	url := startHubServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, hub.Broadcast("reservation_created", map[string]int{"reservation_id": 5}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Event string         `json:"event"`
		Data  map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "reservation_created", msg.Event)
	assert.Equal(t, 5, msg.Data["reservation_id"])
}

func TestUnregisterOnDisconnect(t *testing.T) {
	hub := floor.NewHub()
	url := startHubServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastWithoutClients(t *testing.T) {
	assert.NoError(t, floor.NewHub().Broadcast("reservation_cancelled", nil))
}

func TestStalledDisplayDoesNotBlockHub(t *testing.T) {
	hub := floor.NewHub()
	url := startHubServer(t, hub)

	// Display yang tidak pernah membaca
	stalled, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- hub.Broadcast("dashboard_stats", strings.Repeat("x", 32<<20))
	}()
	time.Sleep(200 * time.Millisecond)

	start := time.Now()
	assert.Equal(t, 1, hub.Count())
	assert.Less(t, time.Since(start), time.Second)

	other, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer other.Close()
	assert.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 10*time.Millisecond)

	stalled.Close()
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("broadcast did not return after the display went away")
	}
}
