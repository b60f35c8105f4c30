package export_bookings

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/export"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
	msgInvalidPeriod = "начало периода позже его конца"
	msgPeriodTooLong = "слишком длинный период выгрузки"
)

type Handler struct {
	exporter Exporter
	logger   Logger
	now      func() time.Time
}

// NewHandler loc задаёт часовой пояс площадки для периода по умолчанию
func NewHandler(exporter Exporter, loc *time.Location, logger Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		exporter: exporter,
		logger:   logger,
		now:      func() time.Time { return time.Now().In(loc) },
	}
}

// Handle GET /api/v1/bookings/export
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ToExportRequest(r.URL.Query(), h.now())
	if err != nil {
		h.logger.Warn("GET /bookings/export - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Ответ пишется только после успешной сборки книги
	var buf bytes.Buffer
	report, err := h.exporter.WriteXLSX(r.Context(), &buf, req)
	if err != nil {
		switch {
		case errors.Is(err, export.ErrInvalidPeriod):
			h.logger.Warn("GET /bookings/export - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, export.ErrPeriodTooLong):
			h.logger.Warn("GET /bookings/export - Period too long: %v", err)
			handlers.RespondBadRequest(w, msgPeriodTooLong)

		default:
			h.logger.Error("GET /bookings/export - Failed to export bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(req)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("GET /bookings/export - Failed to write response: %v", err)
		return
	}

	h.logger.Info("GET /bookings/export - Exported %d bookings", len(report.Rows))
}
