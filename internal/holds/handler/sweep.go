package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"glowbook/internal/holds/service"
	httputil "glowbook/pkg/http"
	"glowbook/pkg/logger"
	"glowbook/pkg/middleware"
)

// SweepHandler exposes the hold expiry sweep to the platform scheduler.
// The route sits under /internal and is guarded by the cron shared
// secret, not by API-key roles.
type SweepHandler struct {
	service    service.HoldService
	cronSecret string
	log        *logger.Logger
}

func NewSweepHandler(service service.HoldService, cronSecret string, log *logger.Logger) *SweepHandler {
	return &SweepHandler{
		service:    service,
		cronSecret: cronSecret,
		log:        log,
	}
}

func (h *SweepHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Sweep(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Sweep", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Sweep", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SweepHandler) RegisterRoutes(router *httprouter.Router) {
	guard := middleware.CronSecretVerification(h.cronSecret, h.log)
	// GET is the scheduler's trigger; cron fetches carry no body, so the
	// route must not demand a Content-Type. POST is kept for manual runs.
	router.Handler(http.MethodGet, "/internal/holds/sweep", guard(http.HandlerFunc(h.Sweep)))
	router.Handler(http.MethodPost, "/internal/holds/sweep", guard(http.HandlerFunc(h.Sweep)))
}
