package websockets

import (
	"context"
	"time"

	"hauswart/config"
	authController "hauswart/internal/controllers/auth"
	. "hauswart/internal/models"
	"hauswart/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING           = "ping"
	MESSAGE_TYPE_PONG           = "pong"
	MESSAGE_TYPE_TASKS_SNAPSHOT = "tasks_snapshot"
	MESSAGE_TYPE_ERROR          = "error"

	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 4 * 1024
	SEND_CHANNEL_SIZE = 8
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Client struct {
	ID         string
	StaffName  string
	Connection *websocket.Conn
	Manager    *Manager
	send       chan Message
}

// Manager pushes live task snapshots to connected clients. Every change to
// the task collection re-broadcasts the full ordered sequence; clients
// treat each snapshot as a complete replacement, so duplicate deliveries
// are harmless.
type Manager struct {
	hub    *Hub
	feed   *services.TaskFeed
	auth   authController.AuthControllerInterface
	config config.Config
	log    logger.Logger
}

func New(
	feed *services.TaskFeed,
	auth authController.AuthControllerInterface,
	config config.Config,
) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message, SEND_CHANNEL_SIZE),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		feed:   feed,
		auth:   auth,
		config: config,
		log:    log,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	feed.Subscribe(manager.broadcastSnapshot)

	return manager, nil
}

// HandleWebSocket upgrades an authenticated connection, sends the initial
// snapshot and starts the client pumps. The session token travels as a
// query parameter because browsers cannot set headers on websocket
// upgrades.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	staffName, err := m.auth.ValidateToken(c.Query("token"))
	if err != nil {
		log.Info("Rejecting unauthenticated websocket connection", "error", err.Error())
		_ = c.WriteJSON(Message{
			ID:        uuid.New().String(),
			Type:      MESSAGE_TYPE_ERROR,
			Data:      map[string]any{"error": "authentication required"},
			Timestamp: time.Now(),
		})
		_ = c.Close()
		return
	}

	client := &Client{
		ID:         uuid.New().String(),
		StaffName:  staffName,
		Connection: c,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	m.hub.register <- client
	defer func() {
		m.hub.unregister <- client
		_ = c.Close()
	}()

	m.sendInitialSnapshot(client)

	go client.readPump()
	client.writePump()
}

func (m *Manager) sendInitialSnapshot(client *Client) {
	log := m.log.Function("sendInitialSnapshot")

	tasks, err := m.feed.Snapshot(context.Background())
	if err != nil {
		log.Er("failed to load initial snapshot", err, "clientID", client.ID)
		return
	}

	client.send <- Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_TASKS_SNAPSHOT,
		Data:      map[string]any{"tasks": tasks},
		Timestamp: time.Now(),
	}
}

func (m *Manager) broadcastSnapshot(tasks []*CleaningTask) {
	log := m.log.Function("broadcastSnapshot")

	message := Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_TASKS_SNAPSHOT,
		Data:      map[string]any{"tasks": tasks},
		Timestamp: time.Now(),
	}

	select {
	case m.hub.broadcast <- message:
	default:
		log.Warn("Broadcast channel is full, dropping snapshot", "messageID", message.ID)
	}
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Er("failed to set read deadline in pong handler", err, "clientID", c.ID)
		}
		return nil
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("unexpected websocket close", err, "clientID", c.ID)
			}
			return
		}

		if message.Type == MESSAGE_TYPE_PING {
			c.send <- Message{
				ID:        uuid.New().String(),
				Type:      MESSAGE_TYPE_PONG,
				Timestamp: time.Now(),
			}
		}
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}

			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("failed to write message", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
