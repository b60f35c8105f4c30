package create_addon_service

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/service/addons"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "некорректные данные услуги"
	msgServiceExists      = "услуга с таким названием уже существует"
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

// Handle POST /api/v1/addon-services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /addon-services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.ValidateStruct(&req); fields != nil {
		h.logger.Warn("POST /addon-services - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	result, err := h.service.CreateService(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, addons.ErrServiceExists):
			h.logger.Warn("POST /addon-services - Service exists: name=%s", req.Name)
			handlers.RespondError(w, http.StatusConflict, msgServiceExists)

		case errors.Is(err, addons.ErrInvalidInput):
			h.logger.Warn("POST /addon-services - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		default:
			h.logger.Error("POST /addon-services - Failed to create service: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /addon-services - Service created: id=%d, name=%s", result.ID, result.Name)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
