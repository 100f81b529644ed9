// Package sinks provides output sinks for simulation snapshots: live
// WebSocket streaming, webhook delivery and SQLite result storage.
package sinks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/biocircuit/genesim/internal/genex"
)

// StreamEnvelope is the JSON message broadcast for every sampling boundary.
type StreamEnvelope struct {
	RunID string           `json:"run_id"`
	Rows  []genex.CountRow `json:"rows"`
}

// WebSocketSink broadcasts snapshot batches to all connected WebSocket
// clients. Broadcasting happens on a dedicated goroutine so a slow client
// cannot stall the simulation loop.
type WebSocketSink struct {
	runID      string
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	broadcast  chan StreamEnvelope
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewWebSocketSink creates a streaming sink with a fresh run ID.
func NewWebSocketSink() *WebSocketSink {
	s := &WebSocketSink{
		runID:      uuid.NewString(),
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan StreamEnvelope, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// RunID returns the identifier stamped on every broadcast envelope.
func (s *WebSocketSink) RunID() string {
	return s.runID
}

// Handler returns an http.HandlerFunc that upgrades connections and
// registers them for the stream.
func (s *WebSocketSink) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.RegisterClient(conn)
		// Drain control frames so close handshakes are processed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					s.UnregisterClient(conn)
					return
				}
			}
		}()
	}
}

// RegisterClient registers a new client connection.
func (s *WebSocketSink) RegisterClient(conn *websocket.Conn) {
	select {
	case s.register <- conn:
	case <-s.done:
	}
}

// UnregisterClient removes a client connection.
func (s *WebSocketSink) UnregisterClient(conn *websocket.Conn) {
	select {
	case s.unregister <- conn:
	case <-s.done:
	}
}

// Write queues a snapshot batch for broadcast.
func (s *WebSocketSink) Write(rows []genex.CountRow) error {
	env := StreamEnvelope{RunID: s.runID, Rows: rows}
	select {
	case s.broadcast <- env:
		return nil
	case <-s.done:
		return fmt.Errorf("websocket sink is closed")
	case <-time.After(1 * time.Second):
		return fmt.Errorf("websocket broadcast queue full")
	}
}

func (s *WebSocketSink) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return

		case conn := <-s.register:
			if conn == nil {
				continue
			}
			s.mu.Lock()
			s.clients[conn] = true
			s.mu.Unlock()

		case conn := <-s.unregister:
			if conn == nil {
				continue
			}
			s.mu.Lock()
			if _, ok := s.clients[conn]; ok {
				delete(s.clients, conn)
				conn.Close()
			}
			s.mu.Unlock()

		case env := <-s.broadcast:
			data, err := json.Marshal(env)
			if err != nil {
				continue
			}

			s.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(s.clients))
			for conn := range s.clients {
				conns = append(conns, conn)
			}
			s.mu.RUnlock()

			var failed []*websocket.Conn
			for _, conn := range conns {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					failed = append(failed, conn)
					conn.Close()
				}
			}

			if len(failed) > 0 {
				s.mu.Lock()
				for _, conn := range failed {
					delete(s.clients, conn)
				}
				s.mu.Unlock()
			}
		}
	}
}

// Close stops the broadcaster and disconnects every client.
func (s *WebSocketSink) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.mu.Lock()
		for conn := range s.clients {
			conn.Close()
			delete(s.clients, conn)
		}
		s.mu.Unlock()
	})
	return nil
}
