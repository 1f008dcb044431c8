package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/guardianlink/backend/internal/handler/disaster"
	"github.com/guardianlink/backend/internal/handler/mentalhealth"
	"github.com/guardianlink/backend/internal/handler/stream"
	"github.com/guardianlink/backend/internal/metrics"
	middlewarePkg "github.com/guardianlink/backend/internal/middleware"
	disasterModel "github.com/guardianlink/backend/internal/model/disaster"
	"github.com/guardianlink/backend/internal/model/support"
	chatService "github.com/guardianlink/backend/internal/service/chat"
	ledgerService "github.com/guardianlink/backend/internal/service/ledger"
	"github.com/guardianlink/backend/pkg/utils"
)

// Deps are the services the HTTP surface is built from. Metrics may be nil.
type Deps struct {
	Predictor   disaster.Predictor
	Responder   mentalhealth.Responder
	Ledger      *ledgerService.Service
	Disasters   disasterModel.Store
	History     chatService.Store
	Resources   support.Store
	Metrics     *metrics.Collector
	CORSOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.CORSOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	disasterHandler := disaster.New(deps.Predictor, deps.Disasters)
	streamHandler := stream.New(deps.Ledger, deps.Disasters)
	mentalHealthHandler := mentalhealth.New(deps.Responder, deps.Ledger, deps.History, deps.Resources)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Welcome to GuardianLink API"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/disaster", func(api chi.Router) {
		disasterHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
	})

	r.Route("/mental-health", func(api chi.Router) {
		mentalHealthHandler.RegisterRoutes(api)
	})

	return r
}
