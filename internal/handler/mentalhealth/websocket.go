package mentalhealth

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/guardianlink/backend/internal/auth"
	"github.com/guardianlink/backend/pkg/utils"
)

const (
	defaultReadTimeout = 60 * time.Second
	pingInterval       = 54 * time.Second
)

type inboundMessage struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Language string `json:"language"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// handleWebSocket runs a chat session for one wallet over a websocket.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")
	if _, err := auth.VerifyWallet(wallet); err != nil {
		utils.RespondError(w, http.StatusForbidden, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection for wallet: %s", wallet)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.send(conn, "connected", map[string]string{"wallet_address": wallet})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}

		switch {
		case msg.Type != "message":
			h.sendError(conn, "unsupported message type: "+msg.Type)
		case strings.TrimSpace(msg.Message) == "":
			h.sendError(conn, "message is required")
		default:
			result := h.converse(ctx, wallet, msg.Message, msg.Language)
			h.send(conn, "reply", chatResponse(result))
		}

		// The idle window starts after the reply; generation may outlast it.
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	}
}

func (h *Handler) send(conn *websocket.Conn, kind string, data interface{}) {
	msg := outgoingMessage{
		Type:      kind,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write %s failed: %v", kind, err)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, "error", map[string]string{"message": message})
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
