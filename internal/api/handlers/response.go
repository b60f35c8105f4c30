package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
)

const msgInternalError = "внутренняя ошибка сервера"

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code      int                `json:"code"`
	Message   string             `json:"message"`
	Fields    map[string]string  `json:"fields,omitempty"`
	Conflicts []ConflictResponse `json:"conflicts,omitempty"`
}

// ConflictResponse бронирование, мешающее записи
type ConflictResponse struct {
	ID          int64  `json:"id"`
	BookingDate string `json:"bookingDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Status      string `json:"status"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError отправляет ошибку в JSON формате
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, ErrorResponse{
		Code:    statusCode,
		Message: message,
	})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondValidationError 400 с описанием невалидных полей
func RespondValidationError(w http.ResponseWriter, message string, fields map[string]string) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
		Fields:  fields,
	})
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondConflict 409 со списком пересекающихся бронирований
func RespondConflict(w http.ResponseWriter, message string, conflicts []domain.ConflictingBooking) {
	RespondJSON(w, http.StatusConflict, ErrorResponse{
		Code:      http.StatusConflict,
		Message:   message,
		Conflicts: FromDomainConflicts(conflicts),
	})
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// FromDomainConflicts конвертирует конфликты в DTO
func FromDomainConflicts(conflicts []domain.ConflictingBooking) []ConflictResponse {
	resp := make([]ConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		resp = append(resp, ConflictResponse{
			ID:          c.ID,
			BookingDate: c.Date.Format(domain.DateFormat),
			StartTime:   c.StartTime.String(),
			EndTime:     c.EndTime.String(),
			Status:      string(c.Status),
		})
	}
	return resp
}

// FormatTime единый формат времени в ответах
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
