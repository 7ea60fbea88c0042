package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub fans realtime events out to every connected register so cashiers
// see catalog and stock changes made on other devices.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish marshals an event payload and broadcasts it without blocking
// the caller.
func (h *Hub) Publish(eventType, action string, payload map[string]interface{}, message string) {
	go func() {
		event := map[string]interface{}{
			"type":    eventType,
			"action":  action,
			"message": message,
		}
		for k, v := range payload {
			event[k] = v
		}
		msg, err := json.Marshal(event)
		if err != nil {
			h.log.Warn("failed to marshal ws event", zap.Error(err))
			return
		}
		h.Broadcast <- msg
	}()
}

// PublishStockUpdate notifies registers that a product's stock changed.
func (h *Hub) PublishStockUpdate(action string, product map[string]interface{}, message string) {
	h.Publish("stock_update", action, map[string]interface{}{"product": product}, message)
}

// PublishTransaction notifies registers of a completed or updated sale.
func (h *Hub) PublishTransaction(action string, transaction map[string]interface{}, message string) {
	h.Publish("transaction", action, map[string]interface{}{"transaction": transaction}, message)
}
