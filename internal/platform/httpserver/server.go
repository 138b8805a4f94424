package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	campaignservice "marquee/contexts/kiosk-advertising/campaign-service"
	pricingengine "marquee/contexts/kiosk-advertising/pricing-engine"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	campaigns campaignservice.Module
	pricing   pricingengine.Module
}

func New(
	campaigns campaignservice.Module,
	pricing pricingengine.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		campaigns: campaigns,
		pricing:   pricing,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("GET /campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("POST /campaigns/{campaign_id}/status", s.handleChangeStatus)
	s.mux.HandleFunc("POST /campaigns/{campaign_id}/media", s.handleAttachMedia)
	s.mux.HandleFunc("GET /campaigns/{campaign_id}/media", s.handleListMedia)
	s.mux.HandleFunc("POST /media/{media_id}/review", s.handleReviewMedia)
	s.mux.HandleFunc("POST /operations/trigger", s.handleTrigger)

	s.mux.HandleFunc("POST /pricing/quote", s.handleQuote)
	s.mux.HandleFunc("POST /kiosks", s.handleRegisterKiosk)
	s.mux.HandleFunc("GET /kiosks", s.handleListKiosks)
	s.mux.HandleFunc("GET /kiosks/{kiosk_id}", s.handleGetKiosk)
	s.mux.HandleFunc("POST /admin/discounts", s.handleCreateSetting)
	s.mux.HandleFunc("PATCH /admin/discounts/{setting_id}", s.handleUpdateSetting)
	s.mux.HandleFunc("GET /admin/discounts", s.handleListSettings)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
