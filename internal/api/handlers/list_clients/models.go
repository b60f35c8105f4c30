package list_clients

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-VenueCRM/internal/service/clients/models"
)

const maxLimit = 200

// ToServiceRequest формирует запрос к сервису из query параметров
// Query params: search, limit, offset
func ToServiceRequest(values url.Values) (*models.ListClientsRequest, error) {
	req := &models.ListClientsRequest{
		Search: strings.TrimSpace(values.Get("search")),
		Limit:  models.DefaultListLimit,
	}

	if s := values.Get("limit"); s != "" {
		limit, err := strconv.ParseUint(s, 10, 64)
		if err != nil || limit == 0 || limit > maxLimit {
			return nil, fmt.Errorf("invalid limit %q", s)
		}
		req.Limit = limit
	}

	if s := values.Get("offset"); s != "" {
		offset, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid offset: %w", err)
		}
		req.Offset = offset
	}

	return req, nil
}
