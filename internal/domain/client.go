package domain

import "time"

// Client is a venue customer
type Client struct {
	ID        int64
	Name      string
	Phone     string
	Email     *string
	Source    *string // instagram, telegram, website, referral ...
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
