package ports

import (
	"context"
	"errors"
	"hos-schedule-service/internal/domain"
)

var ErrTripNotFound = errors.New("trip not found")

// Port: a boundary for storing trips and their generated ELD logs.
type TripRepository interface {
	// Store a trip and its day records atomically.
	SaveTrip(ctx context.Context, trip domain.Trip, days []domain.DayRecord) error
	// Retrieve a trip and its day records ordered by day number.
	// Returns ErrTripNotFound when the id is unknown.
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, []domain.DayRecord, error)
}
