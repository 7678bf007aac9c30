package controller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mascota-mockups/models"
	"mascota-mockups/service"
)

const (
	streamWriteWait = 10 * time.Second
	streamReadLimit = maxRequestBytes
)

// BatchStreamMessage is sent to websocket clients while a batch renders
type BatchStreamMessage struct {
	Type      string                  `json:"type"` // "item", "done" or "error"
	// Index is the item's position in the request, set on every "item" message
	Index     *int                    `json:"index,omitempty"`
	Total     int                     `json:"total,omitempty"`
	Item      *models.BatchMockupItem `json:"item,omitempty"`
	Succeeded int                     `json:"succeeded,omitempty"`
	Failed    int                     `json:"failed,omitempty"`
	Error     string                  `json:"error,omitempty"`
	ErrorKind string                  `json:"errorKind,omitempty"`
}

// BatchStreamController streams batch renders over a websocket, one message
// per finished template
type BatchStreamController struct {
	mockups  service.MockupServiceInterface
	upgrader websocket.Upgrader
}

// NewBatchStreamController creates a new BatchStreamController
func NewBatchStreamController(mockups service.MockupServiceInterface) *BatchStreamController {
	return &BatchStreamController{
		mockups: mockups,
		upgrader: websocket.Upgrader{
			// allow all origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream handles GET /mockups/batch/ws
// The client sends BatchMockupRequest messages; each is answered with one
// "item" message per template followed by a "done" message.
func (c *BatchStreamController) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Batch stream: upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(streamReadLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var writeMu sync.Mutex
	send := func(msg BatchStreamMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		return conn.WriteJSON(msg)
	}

	log.Printf("📡 Batch stream connected: %s", r.RemoteAddr)
	for {
		var req models.BatchMockupRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️ Batch stream read error: %v", err)
			}
			return
		}

		if err := c.runBatch(ctx, r, req, send); err != nil {
			log.Printf("⚠️ Batch stream write error: %v", err)
			return
		}
	}
}

func (c *BatchStreamController) runBatch(ctx context.Context, r *http.Request, req models.BatchMockupRequest, send func(BatchStreamMessage) error) error {
	design, templateIDs, opts, err := prepareBatch(c.mockups, r.WithContext(ctx), req)
	if err != nil {
		return send(BatchStreamMessage{Type: "error", Error: err.Error(), ErrorKind: batchErrorKind(err)})
	}

	var sendErr error
	resp, err := c.mockups.RenderBatch(ctx, design, templateIDs, opts, func(i int, item models.BatchMockupItem) {
		if sendErr != nil {
			return
		}
		sendErr = send(BatchStreamMessage{Type: "item", Index: &i, Total: len(templateIDs), Item: &item})
	})
	if sendErr != nil {
		return sendErr
	}
	if err != nil {
		return send(BatchStreamMessage{Type: "error", Error: err.Error(), ErrorKind: batchErrorKind(err)})
	}
	return send(BatchStreamMessage{Type: "done", Total: len(templateIDs), Succeeded: resp.Succeeded, Failed: resp.Failed})
}

func batchErrorKind(err error) string {
	var invalid badRequest
	if errors.As(err, &invalid) {
		return ""
	}
	return service.ErrorKind(err)
}
