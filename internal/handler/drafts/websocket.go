package drafts

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/sessionscribe/scribe/internal/editor"
	draftService "github.com/sessionscribe/scribe/internal/service/drafts"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// WebSocketHandler streams edit events for a draft over a websocket.
type WebSocketHandler struct {
	drafts   *draftService.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket handler.
func NewWebSocketHandler(drafts *draftService.Service) *WebSocketHandler {
	return &WebSocketHandler{
		drafts: drafts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes mounts the websocket endpoint on r.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/{draftID}/ws", h.handleWebSocket)
}

// InboundMessage is a client frame. Type is "edit" or "reset"; edit frames
// carry an editor.Edit in Data.
type InboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// OutgoingMessage is a server frame. Type is "draft", "info" or "error".
type OutgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")

	draft, err := h.drafts.Get(r.Context(), draftID)
	if err != nil {
		http.Error(w, "draft not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection for draft: %s", draftID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.sendDraft(conn, draft)

	for {
		var msg InboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		h.handleMessage(ctx, conn, draftID, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *websocket.Conn, draftID string, msg *InboundMessage) {
	switch msg.Type {
	case "edit":
		var edit editor.Edit
		if err := json.Unmarshal(msg.Data, &edit); err != nil {
			h.sendError(conn, draftID, "invalid edit payload")
			return
		}
		draft, err := h.drafts.Edit(ctx, draftID, edit)
		if err != nil {
			h.sendError(conn, draftID, err.Error())
			return
		}
		h.sendDraft(conn, draft)
	case "reset":
		draft, err := h.drafts.Reset(ctx, draftID)
		if err != nil {
			h.sendError(conn, draftID, err.Error())
			return
		}
		h.sendNotice(conn, draftID, "info", "draft reset")
		h.sendDraft(conn, draft)
	default:
		h.sendError(conn, draftID, "unsupported message type: "+msg.Type)
	}
}

func (h *WebSocketHandler) sendDraft(conn *websocket.Conn, draft draftService.Draft) {
	msg := OutgoingMessage{
		Type:      "draft",
		SessionID: draft.ID,
		Data:      draft,
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write draft failed: %v", err)
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, draftID, message string) {
	h.sendNotice(conn, draftID, "error", message)
}

func (h *WebSocketHandler) sendNotice(conn *websocket.Conn, draftID, msgType, message string) {
	msg := OutgoingMessage{
		Type:      msgType,
		SessionID: draftID,
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write %s failed: %v", msgType, err)
	}
}

// pingLoop keeps the connection alive. WriteControl may run concurrently with
// the JSON writes of the read loop.
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
