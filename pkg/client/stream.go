package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/biocircuit/genesim/internal/genex"
)

// StreamEnvelope is one broadcast message: the run identifier and the
// snapshot rows for a single sampling boundary.
type StreamEnvelope struct {
	RunID string           `json:"run_id"`
	Rows  []genex.CountRow `json:"rows"`
}

// StreamClient consumes a live snapshot stream from a running simulation's
// WebSocket endpoint.
type StreamClient struct {
	conn *websocket.Conn
}

// DialStream connects to a snapshot stream at url (ws:// or wss://).
func DialStream(ctx context.Context, url string) (*StreamClient, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to stream %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return &StreamClient{conn: conn}, nil
}

// Next blocks until the next snapshot envelope arrives.
func (c *StreamClient) Next() (StreamEnvelope, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return StreamEnvelope{}, fmt.Errorf("failed to read stream message: %w", err)
	}
	var env StreamEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return StreamEnvelope{}, fmt.Errorf("failed to decode stream message: %w", err)
	}
	return env, nil
}

// Close closes the stream connection.
func (c *StreamClient) Close() error {
	return c.conn.Close()
}
