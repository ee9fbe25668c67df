package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"glowbook/internal/assignments/service"
	"glowbook/pkg/auth"
	apperrors "glowbook/pkg/errors"
	httputil "glowbook/pkg/http"
	"glowbook/pkg/logger"
	"glowbook/pkg/middleware"
	"glowbook/pkg/model"
)

type ResourceHandler struct {
	service           service.ResourceService
	assignmentService service.AssignmentService
	log               *logger.Logger
}

func NewResourceHandler(service service.ResourceService, assignmentService service.AssignmentService, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{
		service:           service,
		assignmentService: assignmentService,
		log:               log,
	}
}

func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var resource model.Resource
	if err := json.NewDecoder(r.Body).Decode(&resource); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &resource); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, resource); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ResourceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	resource, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, resource); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ResourceHandler) GetByProvider(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := r.URL.Query().Get("provider_id")
	if providerID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'provider_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByProvider", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByProvider", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	resources, total, err := h.service.GetByProvider(r.Context(), providerID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByProvider", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, resources, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByProvider", "operation", "WritePaginated", "error", err)
	}
}

func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.ResourceUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	resource, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, resource); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

// Availability answers "is this resource free for [start, end)?". An
// optional exclude_booking_id query parameter skips assignments of that
// booking from the conflict check.
func (h *ResourceHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	window, err := httputil.ExtractWindow(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	excludeBookingID := r.URL.Query().Get("exclude_booking_id")

	availability, err := h.assignmentService.CheckAvailability(r.Context(), id, window, excludeBookingID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ResourceHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/resources", middleware.RequireCapability(auth.CapResourcesWrite, h.log, h.Create))
	router.GET("/api/v1/resources", middleware.RequireCapability(auth.CapResourcesRead, h.log, h.GetByProvider))
	router.GET("/api/v1/resources/id/:id", middleware.RequireCapability(auth.CapResourcesRead, h.log, h.GetByID))
	router.PATCH("/api/v1/resources/id/:id", middleware.RequireCapability(auth.CapResourcesWrite, h.log, h.Update))
	router.GET("/api/v1/resources/id/:id/availability", middleware.RequireCapability(auth.CapAssignmentsRead, h.log, h.Availability))
}
