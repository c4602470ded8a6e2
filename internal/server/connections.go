package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// ConnectionManager tracks websocket observers. Each connection subscribes
// to one game and receives every state transition of that game as JSON.
type ConnectionManager struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn // connectionID -> socket
	subscribers map[string]int             // connectionID -> gameID
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		subscribers: make(map[string]int),
	}
}

func (cm *ConnectionManager) AddConnection(id string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[id] = conn
}

func (cm *ConnectionManager) RemoveConnection(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.connections, id)
	delete(cm.subscribers, id)
}

// Subscribe points a connection at a game. A second subscribe replaces the
// first; a connection observes one game at a time.
func (cm *ConnectionManager) Subscribe(connectionID string, gameID int) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.subscribers[connectionID] = gameID
}

// Broadcast sends a game event to every connection subscribed to the game.
// A write failure drops only that connection's delivery; the reader loop
// handles the close.
func (cm *ConnectionManager) Broadcast(event GameEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to serialize game event: %v", err)
		return
	}

	cm.mu.RLock()
	targets := make([]*websocket.Conn, 0)
	for connID, gameID := range cm.subscribers {
		if gameID != event.GameID {
			continue
		}
		if conn, exists := cm.connections[connID]; exists {
			targets = append(targets, conn)
		}
	}
	cm.mu.RUnlock()

	for _, conn := range targets {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
			log.Printf("Failed to deliver game event: %v", err)
		}
		cancel()
	}
}
