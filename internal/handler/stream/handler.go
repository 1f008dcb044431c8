package stream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guardianlink/backend/internal/auth"
	"github.com/guardianlink/backend/internal/model/disaster"
	"github.com/guardianlink/backend/internal/model/ledger"
	ledgerservice "github.com/guardianlink/backend/internal/service/ledger"
	"github.com/guardianlink/backend/pkg/utils"
)

const defaultPollInterval = 5 * time.Second

// Ledger is the subset of the ledger service used for aid streams.
type Ledger interface {
	Delegate(ctx context.Context, wallet, delegateTo, permission string) (ledger.Delegation, error)
	CreateAidStream(ctx context.Context, wallet, aidType, location string, amount float64, durationDays int) (ledger.StreamRecord, error)
	Status(ctx context.Context, streamID string) (ledger.StreamRecord, error)
}

// Handler serves delegation and aid stream routes, including live status
// updates via Server-Sent Events.
type Handler struct {
	ledger       Ledger
	disasters    disaster.Store
	pollInterval time.Duration
}

func New(l Ledger, disasters disaster.Store) *Handler {
	return &Handler{ledger: l, disasters: disasters, pollInterval: defaultPollInterval}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/delegate", h.handleDelegate)
	r.Post("/create-stream", h.handleCreateStream)
	r.Get("/stream/{streamID}", h.handleStatus)
	r.Get("/stream/{streamID}/events", h.handleEvents)
}

func (h *Handler) handleDelegate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		WalletAddress  string `json:"wallet_address"`
		DelegateTo     string `json:"delegate_to"`
		PermissionType string `json:"permission_type"`
	}

	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := auth.VerifyWallet(payload.WalletAddress); err != nil {
		utils.RespondError(w, http.StatusForbidden, err.Error())
		return
	}
	if payload.DelegateTo == "" || payload.PermissionType == "" {
		utils.RespondError(w, http.StatusBadRequest, "delegate_to and permission_type are required")
		return
	}

	delegation, err := h.ledger.Delegate(r.Context(), payload.WalletAddress, payload.DelegateTo, payload.PermissionType)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"transaction_hash": delegation.TxHash,
		"delegation":       delegation,
	})
}

func (h *Handler) handleCreateStream(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		WalletAddress string  `json:"wallet_address"`
		AidType       string  `json:"aid_type"`
		Location      string  `json:"location"`
		Amount        float64 `json:"amount"`
		DurationDays  int     `json:"duration_days"`
		DisasterID    string  `json:"disaster_id"`
	}

	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := auth.VerifyWallet(payload.WalletAddress); err != nil {
		utils.RespondError(w, http.StatusForbidden, err.Error())
		return
	}
	if payload.DisasterID != "" {
		if _, ok := h.disasters.FindByID(payload.DisasterID); !ok {
			utils.RespondError(w, http.StatusNotFound, disaster.ErrDisasterNotFound.Error())
			return
		}
	}

	record, err := h.ledger.CreateAidStream(r.Context(), payload.WalletAddress, payload.AidType, payload.Location, payload.Amount, payload.DurationDays)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ledgerservice.ErrInvalidAmount) || errors.Is(err, ledgerservice.ErrInvalidDuration) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	if payload.DisasterID != "" {
		if err := h.disasters.AttachStream(payload.DisasterID, record.ID); err != nil {
			log.Printf("[stream] attach %s to %s failed: %v", record.ID, payload.DisasterID, err)
		}
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"stream_id": record.ID,
		"status":    "created",
		"message":   fmt.Sprintf("Aid stream created for %s in %s", payload.AidType, payload.Location),
		"stream":    record,
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	record, err := h.ledger.Status(r.Context(), chi.URLParam(r, "streamID"))
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, record)
}

// handleEvents pushes the stream status every poll interval until the stream
// completes or the client goes away.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	streamID := chi.URLParam(r, "streamID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	record, err := h.ledger.Status(r.Context(), streamID)
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	utils.SetupSSEHeaders(w)
	ctx := r.Context()
	log.Printf("[sse] opening status stream for %s", streamID)

	utils.SendSSEEvent(w, flusher, "status", record)
	if record.Status == ledger.StatusCompleted {
		return
	}

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing status stream for %s", streamID)
			return
		case <-ticker.C:
			record, err := h.ledger.Status(ctx, streamID)
			if err != nil {
				utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
				return
			}
			utils.SendSSEEvent(w, flusher, "status", record)
			if record.Status == ledger.StatusCompleted {
				return
			}
		}
	}
}

func respondLedgerError(w http.ResponseWriter, err error) {
	if errors.Is(err, ledgerservice.ErrStreamNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondError(w, http.StatusInternalServerError, err.Error())
}
