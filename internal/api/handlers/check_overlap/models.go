package check_overlap

import (
	"net/url"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	checkOverlap "github.com/m04kA/SMC-VenueCRM/internal/usecase/check_overlap"
)

// OverlapQuery параметры запроса
type OverlapQuery struct {
	Date      string `json:"date" validate:"required,date"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
	ExcludeID string `json:"excludeId" validate:"omitempty,numeric"`
}

// OverlapResponse HTTP response model
type OverlapResponse struct {
	Date      string                      `json:"date"`
	StartTime string                      `json:"startTime"`
	EndTime   string                      `json:"endTime"`
	Overnight bool                        `json:"overnight"`
	Available bool                        `json:"available"`
	Conflicts []handlers.ConflictResponse `json:"conflicts"`
}

// QueryFromURL собирает параметры из query string
func QueryFromURL(values url.Values) *OverlapQuery {
	return &OverlapQuery{
		Date:      values.Get("date"),
		StartTime: values.Get("startTime"),
		EndTime:   values.Get("endTime"),
		ExcludeID: values.Get("excludeId"),
	}
}

// ToUseCaseRequest конвертирует параметры в модель use case
func (q *OverlapQuery) ToUseCaseRequest() (*checkOverlap.Request, error) {
	date, err := handlers.ParseDate(q.Date)
	if err != nil {
		return nil, err
	}

	excludeID, err := handlers.ParseOptionalInt64(q.ExcludeID)
	if err != nil {
		return nil, err
	}

	return &checkOverlap.Request{
		Date:      date,
		StartTime: q.StartTime,
		EndTime:   q.EndTime,
		ExcludeID: excludeID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkOverlap.Response) *OverlapResponse {
	return &OverlapResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		StartTime: resp.StartTime.String(),
		EndTime:   resp.EndTime.String(),
		Overnight: resp.Overnight,
		Available: resp.Available,
		Conflicts: handlers.FromDomainConflicts(resp.Conflicts),
	}
}
