package ws

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

	"github.com/mlefloch/stockscout/internal/pipeline"
	"github.com/mlefloch/stockscout/pkg/logger"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "websocket dial failed")
	t.Cleanup(func() { conn.Close() })

	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d (got %d)", want, hub.ClientCount())
}

func TestHubPublishReachesClient(t *testing.T) {
	hub := NewHub(logger.NewNop())
	conn := dialTestHub(t, hub)
	waitForClients(t, hub, 1)

	hub.Publish(pipeline.Event{
		Stage:   "screening",
		Ticker:  "AAPL",
		Current: 3,
		Total:   10,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err, "read published event")

	var got pipeline.Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "screening", got.Stage)
	assert.Equal(t, "AAPL", string(got.Ticker))
	assert.Equal(t, 3, got.Current)
	assert.Equal(t, 10, got.Total)
}

func TestHubPublishFanOut(t *testing.T) {
	hub := NewHub(logger.NewNop())
	first := dialTestHub(t, hub)
	second := dialTestHub(t, hub)
	waitForClients(t, hub, 2)

	hub.Publish(pipeline.Event{Stage: "universe", Total: 500})

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var got pipeline.Event
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "universe", got.Stage)
	}
}

func TestHubDropsDisconnectedClient(t *testing.T) {
	hub := NewHub(logger.NewNop())
	conn := dialTestHub(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// Publishing after all clients left must not block or panic.
	hub.Publish(pipeline.Event{Stage: "ranked"})
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubPublishWithoutClients(t *testing.T) {
	hub := NewHub(logger.NewNop())
	hub.Publish(pipeline.Event{Stage: "enrichment", Ticker: "MSFT"})
	assert.Equal(t, 0, hub.ClientCount())
}
