package list_bookings

import (
	"fmt"
	"net/url"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// Query params: from, to, clientId, status, includeArchived
func ToServiceRequest(values url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	from, err := handlers.ParseOptionalDate(values.Get("from"))
	if err != nil {
		return nil, fmt.Errorf("invalid from: %w", err)
	}
	req.StartDate = from

	to, err := handlers.ParseOptionalDate(values.Get("to"))
	if err != nil {
		return nil, fmt.Errorf("invalid to: %w", err)
	}
	req.EndDate = to

	clientID, err := handlers.ParseOptionalInt64(values.Get("clientId"))
	if err != nil {
		return nil, fmt.Errorf("invalid clientId: %w", err)
	}
	req.ClientID = clientID

	if status := values.Get("status"); status != "" {
		req.Status = &status
	}

	req.IncludeArchived, err = handlers.ParseOptionalBool(values.Get("includeArchived"))
	if err != nil {
		return nil, fmt.Errorf("invalid includeArchived: %w", err)
	}

	return req, nil
}
