package domain

import "time"

type Vehicle struct {
	ID             int64
	OwnerID        int64
	Name           string
	RegistrationNo string
	PricePerDay    int64
	PricePerKm     int64
	HasAC          bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
