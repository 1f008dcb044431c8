package mentalhealth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/guardianlink/backend/internal/auth"
	"github.com/guardianlink/backend/internal/model/chat"
	"github.com/guardianlink/backend/internal/model/ledger"
	"github.com/guardianlink/backend/internal/model/support"
	"github.com/guardianlink/backend/internal/retrieval"
	chatservice "github.com/guardianlink/backend/internal/service/chat"
	ledgerservice "github.com/guardianlink/backend/internal/service/ledger"
	"github.com/guardianlink/backend/internal/service/mentalhealth"
	"github.com/guardianlink/backend/pkg/utils"
)

const defaultServiceType = "general_counseling"

// Responder produces a supportive reply. It never fails.
type Responder interface {
	Reply(ctx context.Context, message string, history []chat.Message, language string) mentalhealth.Result
}

// Subscriber opens paid service subscriptions.
type Subscriber interface {
	Subscribe(ctx context.Context, wallet, serviceType string, durationWeeks int) (ledger.StreamRecord, error)
}

// Handler serves the mental health chat, history, resources and subscription routes.
type Handler struct {
	responder  Responder
	subscriber Subscriber
	history    chatservice.Store
	resources  support.Store
	upgrader   websocket.Upgrader

	readTimeout time.Duration
}

func New(responder Responder, subscriber Subscriber, history chatservice.Store, resources support.Store) *Handler {
	return &Handler{
		responder:   responder,
		subscriber:  subscriber,
		history:     history,
		resources:   resources,
		readTimeout: defaultReadTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/subscribe", h.handleSubscribe)
	r.Post("/chat", h.handleChat)
	r.Get("/history/{wallet}", h.handleHistory)
	r.Get("/resources", h.handleResources)
	r.Get("/ws/{wallet}", h.handleWebSocket)
}

func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		WalletAddress string `json:"wallet_address"`
		ServiceType   string `json:"service_type"`
		DurationWeeks int    `json:"duration_weeks"`
	}

	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := auth.VerifyWallet(payload.WalletAddress); err != nil {
		utils.RespondError(w, http.StatusForbidden, err.Error())
		return
	}
	if payload.ServiceType == "" {
		payload.ServiceType = defaultServiceType
	}

	record, err := h.subscriber.Subscribe(r.Context(), payload.WalletAddress, payload.ServiceType, payload.DurationWeeks)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ledgerservice.ErrInvalidDuration) || errors.Is(err, ledgerservice.ErrInvalidAmount) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"subscription_id": record.ID,
		"service_type":    payload.ServiceType,
		"duration_weeks":  payload.DurationWeeks,
		"message":         fmt.Sprintf("Successfully subscribed to %s for %d weeks", payload.ServiceType, payload.DurationWeeks),
		"stream":          record,
	})
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		WalletAddress string `json:"wallet_address"`
		Message       string `json:"message"`
		Language      string `json:"language"`
	}

	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := auth.VerifyWallet(payload.WalletAddress); err != nil {
		utils.RespondError(w, http.StatusForbidden, err.Error())
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	result := h.converse(r.Context(), payload.WalletAddress, payload.Message, payload.Language)
	utils.RespondJSON(w, http.StatusOK, chatResponse(result))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")
	if _, err := auth.VerifyWallet(wallet); err != nil {
		utils.RespondError(w, http.StatusForbidden, err.Error())
		return
	}

	messages, err := h.history.Get(r.Context(), wallet)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleResources(w http.ResponseWriter, r *http.Request) {
	lang := retrieval.NormalizeLanguage(r.URL.Query().Get("language"))

	docs := h.resources.ByLanguage(lang)
	if len(docs) == 0 {
		lang = support.DefaultLanguage
		docs = h.resources.ByLanguage(lang)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"language":  lang,
		"resources": docs,
	})
}

// converse loads history, generates a reply and records both turns. History
// failures are logged and never surface to the caller.
func (h *Handler) converse(ctx context.Context, wallet, message, language string) mentalhealth.Result {
	if language == "" {
		language = support.DefaultLanguage
	}

	history, err := h.history.Get(ctx, wallet)
	if err != nil {
		log.Printf("[history] load failed for %s, continuing without history: %v", wallet, err)
		history = nil
	}

	result := h.responder.Reply(ctx, message, history, language)

	if _, err := h.history.Append(ctx, wallet, chat.RoleUser, message); err != nil {
		log.Printf("[history] append user turn failed for %s: %v", wallet, err)
	}
	if _, err := h.history.Append(ctx, wallet, chat.RoleAssistant, result.Text); err != nil {
		log.Printf("[history] append assistant turn failed for %s: %v", wallet, err)
	}

	return result
}

func chatResponse(result mentalhealth.Result) map[string]any {
	topics := make([]string, 0, len(result.Topics))
	for _, t := range result.Topics {
		topics = append(topics, string(t))
	}
	return map[string]any{
		"response":  result.Text,
		"topics":    topics,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
