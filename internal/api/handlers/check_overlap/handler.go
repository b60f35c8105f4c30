package check_overlap

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	checkOverlap "github.com/m04kA/SMC-VenueCRM/internal/usecase/check_overlap"
)

const (
	msgValidationFailed = "некорректные параметры запроса"
	msgInvalidTime      = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInput     = "некорректный интервал бронирования"
)

type Handler struct {
	useCase CheckOverlapUseCase
	logger  Logger
}

func NewHandler(useCase CheckOverlapUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/overlap
// Query params: date, startTime, endTime, excludeId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := QueryFromURL(r.URL.Query())
	if fields := handlers.ValidateStruct(query); fields != nil {
		h.logger.Warn("GET /bookings/overlap - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	useCaseReq, err := query.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("GET /bookings/overlap - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgValidationFailed)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkOverlap.ErrInvalidTimeFormat):
			h.logger.Warn("GET /bookings/overlap - Invalid time: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)

		case errors.Is(err, checkOverlap.ErrInvalidInput):
			h.logger.Warn("GET /bookings/overlap - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /bookings/overlap - Failed to check overlap: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/overlap - Checked: date=%s, %s-%s, conflicts=%d",
		query.Date, query.StartTime, query.EndTime, len(result.Conflicts))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
