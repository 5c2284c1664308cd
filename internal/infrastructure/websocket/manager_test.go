package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vira/internal/infrastructure/localstorage"
)

func TestManagerDeliversEventsToDeviceTabs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := EventBus.New()
	m := NewManager()
	require.NoError(t, m.Subscribe(bus))
	m.Start(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(r.URL.Query().Get("device"), conn)
		if !assert.True(t, m.Join(client)) {
			conn.Close()
			return
		}
		go client.ReadPump(m)
		go client.WritePump()
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	mine, _, err := websocket.DefaultDialer.Dial(url+"?device=dev-a", nil)
	require.NoError(t, err)
	defer mine.Close()
	theirs, _, err := websocket.DefaultDialer.Dial(url+"?device=dev-b", nil)
	require.NoError(t, err)
	defer theirs.Close()

	require.Eventually(t, func() bool {
		return m.Connections("dev-a") == 1 && m.Connections("dev-b") == 1
	}, time.Second, 10*time.Millisecond)

	bus.Publish(localstorage.TopicChanged, localstorage.Event{Device: "dev-a", Key: localstorage.KeyOrders, Op: localstorage.OpSet})

	require.NoError(t, mine.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := mine.ReadMessage()
	require.NoError(t, err)

	var ev localstorage.Event
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, localstorage.KeyOrders, ev.Key)
	assert.Equal(t, localstorage.OpSet, ev.Op)

	require.NoError(t, theirs.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = theirs.ReadMessage()
	assert.Error(t, err, "other devices receive nothing")
}

func TestSendToDeviceDropsSlowClient(t *testing.T) {
	m := NewManager()
	client := &Client{Device: "dev", Send: make(chan []byte)}
	m.clients["dev"] = map[*Client]bool{client: true}

	m.SendToDevice("dev", []byte("x"))

	assert.Equal(t, 0, m.Connections("dev"))
	_, open := <-client.Send
	assert.False(t, open)
}

func TestStoppedManagerDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager()
	m.Start(ctx)
	cancel()
	require.Eventually(t, func() bool {
		select {
		case <-m.done:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	joined := make(chan bool, 1)
	go func() {
		joined <- m.Join(&Client{Device: "dev", Send: make(chan []byte, 1)})
	}()
	select {
	case ok := <-joined:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Join blocked after shutdown")
	}

	left := make(chan struct{})
	go func() {
		m.leave(&Client{Device: "dev"})
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked after shutdown")
	}
}
