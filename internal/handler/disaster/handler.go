package disaster

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guardianlink/backend/internal/model/disaster"
	disasterservice "github.com/guardianlink/backend/internal/service/disaster"
	"github.com/guardianlink/backend/pkg/utils"
)

// Predictor runs the disaster assessment pipeline.
type Predictor interface {
	Predict(ctx context.Context, location, category string) disasterservice.Prediction
}

// Handler serves risk prediction and the active disaster list.
type Handler struct {
	predictor Predictor
	disasters disaster.Store
}

func New(predictor Predictor, disasters disaster.Store) *Handler {
	return &Handler{predictor: predictor, disasters: disasters}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/predict", h.handlePredict)
	r.Get("/active", h.handleListActive)
	r.Get("/active/{disasterID}", h.handleGetActive)
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Location     string `json:"location"`
		DisasterType string `json:"disaster_type"`
	}

	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prediction := h.predictor.Predict(r.Context(), payload.Location, payload.DisasterType)
	utils.RespondJSON(w, http.StatusOK, prediction)
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.disasters.List())
}

func (h *Handler) handleGetActive(w http.ResponseWriter, r *http.Request) {
	event, ok := h.disasters.FindByID(chi.URLParam(r, "disasterID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, disaster.ErrDisasterNotFound.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, event)
}
