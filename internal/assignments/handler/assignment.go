package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"glowbook/internal/assignments/service"
	"glowbook/pkg/auth"
	httputil "glowbook/pkg/http"
	"glowbook/pkg/logger"
	"glowbook/pkg/middleware"
	"glowbook/pkg/model"
)

type AssignmentHandler struct {
	service service.AssignmentService
	log     *logger.Logger
}

func NewAssignmentHandler(service service.AssignmentService, log *logger.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		log:     log,
	}
}

type assignRequest struct {
	Assignments []model.AssignmentRequest `json:"assignments"`
}

// decodeAssignRequest accepts both the batch form
// {"assignments": [...]} and a bare single assignment object.
func decodeAssignRequest(body []byte) (assignRequest, error) {
	var req assignRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return assignRequest{}, err
	}
	if len(req.Assignments) > 0 {
		return req, nil
	}

	var single model.AssignmentRequest
	if err := json.Unmarshal(body, &single); err == nil && single.ResourceID != "" {
		req.Assignments = []model.AssignmentRequest{single}
	}
	return req, nil
}

func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Assign", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	req, err := decodeAssignRequest(body)
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Assign", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	assignments, err := h.service.Assign(r.Context(), bookingID, req.Assignments)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Assign", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, assignments); err != nil {
		h.log.Error("failed to write created response", "handler", "Assign", "operation", "WriteCreated", "error", err)
	}
}

func (h *AssignmentHandler) GetByBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")

	assignments, err := h.service.GetByBooking(r.Context(), bookingID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, assignments); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByBooking", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AssignmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings/id/:id/resources", middleware.RequireCapability(auth.CapAssignmentsWrite, h.log, h.Assign))
	router.GET("/api/v1/bookings/id/:id/resources", middleware.RequireCapability(auth.CapAssignmentsRead, h.log, h.GetByBooking))
}
