package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"trafficflow/internal/logger"
)

const (
	broadcastQueue = 16
	writeTimeout   = 5 * time.Second
)

// Client is one viewer connection. Writes are serialized because the hub
// broadcast and the viewer's own request/response share the connection.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes one text message to the viewer.
func (c *Client) Send(message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Conn returns the underlying connection for reading.
func (c *Client) Conn() *websocket.Conn {
	return c.conn
}

type HubService struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *HubService) Run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for client := range h.clients {
				client.conn.Close()
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Viewer connected. Total: %d", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.conn.Close()
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Viewer disconnected. Total: %d", total)

		case message := <-h.broadcast:
			var failed []*Client
			h.mutex.RLock()
			for client := range h.clients {
				if err := client.Send(message); err != nil {
					h.logger.Error("Error sending message: %v", err)
					failed = append(failed, client)
				}
			}
			h.mutex.RUnlock()

			if len(failed) > 0 {
				h.mutex.Lock()
				for _, client := range failed {
					delete(h.clients, client)
					client.conn.Close()
				}
				h.mutex.Unlock()
			}
		}
	}
}

// Stop ends Run and closes every viewer connection.
func (h *HubService) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds a viewer and returns its Client.
func (h *HubService) Register(conn *websocket.Conn) *Client {
	client := &Client{conn: conn}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
	}
	return client
}

func (h *HubService) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a message for every viewer. It never blocks: when the
// queue is full the message is dropped.
func (h *HubService) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warning("Broadcast queue full, dropping message")
	}
}

func (h *HubService) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
