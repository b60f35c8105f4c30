package export_bookings

import (
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/export"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ToExportRequest формирует параметры выгрузки из query.
// По умолчанию выгружается текущий месяц.
// Query params: from, to, includeArchived
func ToExportRequest(values url.Values, now time.Time) (export.Request, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	req := export.Request{
		StartDate: monthStart,
		EndDate:   monthStart.AddDate(0, 1, -1),
	}

	from, err := handlers.ParseOptionalDate(values.Get("from"))
	if err != nil {
		return req, fmt.Errorf("invalid from: %w", err)
	}
	if from != nil {
		req.StartDate = *from
	}

	to, err := handlers.ParseOptionalDate(values.Get("to"))
	if err != nil {
		return req, fmt.Errorf("invalid to: %w", err)
	}
	if to != nil {
		req.EndDate = *to
	}

	req.IncludeArchived, err = handlers.ParseOptionalBool(values.Get("includeArchived"))
	if err != nil {
		return req, fmt.Errorf("invalid includeArchived: %w", err)
	}

	return req, nil
}
