package list_addon_services

import (
	"net/http"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service AddonService
	logger  Logger
}

func NewHandler(service AddonService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/addon-services
// Query params: includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	includeInactive, err := handlers.ParseOptionalBool(r.URL.Query().Get("includeInactive"))
	if err != nil {
		h.logger.Warn("GET /addon-services - Invalid includeInactive: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListServices(r.Context(), !includeInactive)
	if err != nil {
		h.logger.Error("GET /addon-services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /addon-services - Services retrieved: count=%d", len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}
