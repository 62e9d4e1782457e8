package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AntoC-dev/recipelens/internal/extract"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering happens at the CORS layer for HTTP; websocket
		// clients are expected to be the same frontends.
		return true
	},
}

// WebSocketExtractRequest is one extraction request over a WebSocket. The
// image is base64-encoded by encoding/json. Field "all" streams every field
// kind from the same image, one completed message per field.
type WebSocketExtractRequest struct {
	Field     string        `json:"field"`
	Image     []byte        `json:"image"`
	Lang      string        `json:"lang,omitempty"`
	State     extract.State `json:"state,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// AllFieldsRequest selects streaming extraction of every field kind.
const AllFieldsRequest = "all"

// WebSocketExtractResponse reports progress and results for one request.
type WebSocketExtractResponse struct {
	Status    string         `json:"status"` // "processing", "completed", "error", "done"
	Field     string         `json:"field,omitempty"`
	Patch     *extract.Patch `json:"patch,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
	Error     string         `json:"error,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// extractWebSocketHandler handles WebSocket connections for interactive
// extraction sessions, one field at a time while the user drags regions.
func (s *Server) extractWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)
	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Ping to keep the connection alive between user interactions
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}
		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage runs one extraction request and streams status
// updates back.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req WebSocketExtractRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.writeWebSocketResponse(conn, WebSocketExtractResponse{
			Status: "error",
			Error:  "invalid request: " + err.Error(),
		})
		return
	}

	fields := []extract.FieldKind{extract.FieldKind(req.Field)}
	if req.Field == AllFieldsRequest {
		fields = extract.AllFields()
	} else if !extract.ValidField(fields[0]) {
		s.writeWebSocketResponse(conn, WebSocketExtractResponse{
			Status:    "error",
			Error:     "unknown field: " + req.Field,
			RequestID: req.RequestID,
		})
		return
	}
	if len(req.Image) == 0 {
		s.writeWebSocketResponse(conn, WebSocketExtractResponse{
			Status:    "error",
			Error:     "no image data",
			RequestID: req.RequestID,
		})
		return
	}

	ctx := context.Background()
	if s.timeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.timeoutSec)*time.Second)
		defer cancel()
	}

	for _, field := range fields {
		s.writeWebSocketResponse(conn, WebSocketExtractResponse{
			Status:    "processing",
			Field:     string(field),
			RequestID: req.RequestID,
		})

		start := time.Now()
		patch, warnings := s.extractor.Extract(ctx, req.Image, field, req.Lang, req.State)
		extractionDuration.WithLabelValues(string(field)).Observe(time.Since(start).Seconds())
		extractionRequestsTotal.WithLabelValues(string(field), "ok").Inc()
		if len(warnings) > 0 {
			extractionWarningsTotal.WithLabelValues(string(field)).Add(float64(len(warnings)))
		}

		s.writeWebSocketResponse(conn, WebSocketExtractResponse{
			Status:    "completed",
			Field:     string(field),
			Patch:     &patch,
			Warnings:  warnings,
			RequestID: req.RequestID,
		})
	}

	if req.Field == AllFieldsRequest {
		s.writeWebSocketResponse(conn, WebSocketExtractResponse{
			Status:    "done",
			RequestID: req.RequestID,
		})
	}
}

func (s *Server) writeWebSocketResponse(conn *websocket.Conn, resp WebSocketExtractResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("marshaling WebSocket response", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("writing WebSocket message", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
