package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gorilla/websocket"

	"vira/internal/infrastructure/localstorage"
	"vira/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// Client is one open tab of a device.
type Client struct {
	Device string
	Conn   *websocket.Conn
	Send   chan []byte
}

func NewClient(device string, conn *websocket.Conn) *Client {
	return &Client{
		Device: device,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
	}
}

// Manager fans storage events out to the connected tabs of each device.
type Manager struct {
	clients    map[string]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	events     chan localstorage.Event
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		events:     make(chan localstorage.Event, 256),
		done:       make(chan struct{}),
	}
}

// Subscribe forwards storage events from bus into the manager. Events are
// dropped when the manager falls behind.
func (m *Manager) Subscribe(bus EventBus.Bus) error {
	return bus.Subscribe(localstorage.TopicChanged, func(ev localstorage.Event) {
		select {
		case m.events <- ev:
		default:
			logger.Warn("Dropping storage event for device %s", ev.Device)
		}
	})
}

// Start runs the manager loop until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.Device] == nil {
					m.clients[client.Device] = make(map[*Client]bool)
				}
				m.clients[client.Device][client] = true
				m.mutex.Unlock()
				logger.Debug("Feed client registered: device=%s", client.Device)

			case client := <-m.Unregister:
				m.remove(client)
				logger.Debug("Feed client unregistered: device=%s", client.Device)

			case ev := <-m.events:
				payload, err := json.Marshal(ev)
				if err != nil {
					logger.Error("Failed to encode storage event: %v", err)
					continue
				}
				m.SendToDevice(ev.Device, payload)

			case <-ctx.Done():
				close(m.done)
				m.mutex.Lock()
				for _, tabs := range m.clients {
					for client := range tabs {
						close(client.Send)
					}
				}
				m.clients = make(map[string]map[*Client]bool)
				m.mutex.Unlock()
				return
			}
		}
	}()
}

// Join hands client to the manager loop. It reports false once the manager
// has stopped.
func (m *Manager) Join(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) leave(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
	}
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	tabs := m.clients[client.Device]
	if !tabs[client] {
		return
	}
	delete(tabs, client)
	close(client.Send)
	if len(tabs) == 0 {
		delete(m.clients, client.Device)
	}
}

// SendToDevice queues message for every tab of device. A tab whose buffer
// is full is disconnected.
func (m *Manager) SendToDevice(device string, message []byte) {
	var slow []*Client

	m.mutex.RLock()
	for client := range m.clients[device] {
		select {
		case client.Send <- message:
		default:
			slow = append(slow, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range slow {
		m.remove(client)
	}
}

// Connections returns the number of open tabs for device.
func (m *Manager) Connections(device string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[device])
}

// ReadPump drains the connection so control frames are processed. The feed
// is one-way; client messages are ignored.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.leave(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Feed read error: device=%s, error=%v", c.Device, err)
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("Feed write error: device=%s, error=%v", c.Device, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
