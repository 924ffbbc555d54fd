package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/shareit/internal/domain"
)

// The types below are the JSON shapes described in spec/openapi.yaml.

// ErrorDetail is the payload of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// CreateBookingRequest is the body of POST /bookings.
type CreateBookingRequest struct {
	ItemID openapi_types.UUID `json:"itemId" validate:"required"`
	Start  time.Time          `json:"start" validate:"required"`
	End    time.Time          `json:"end" validate:"required"`
}

// Booking is the wire form of domain.Booking.
type Booking struct {
	ID       openapi_types.UUID `json:"id"`
	ItemID   openapi_types.UUID `json:"itemId"`
	BookerID openapi_types.UUID `json:"bookerId"`
	Start    time.Time          `json:"start"`
	End      time.Time          `json:"end"`
	Status   string             `json:"status"`
}

// NearestBookingsResponse is the body of GET /items/{itemId}/bookings/nearest.
type NearestBookingsResponse struct {
	LastBooking *Booking `json:"lastBooking"`
	NextBooking *Booking `json:"nextBooking"`
}

// FinishedBookingResponse is the body of GET /items/{itemId}/bookings/finished.
type FinishedBookingResponse struct {
	Finished bool `json:"finished"`
}

func bookingToResponse(b domain.Booking) Booking {
	return Booking{
		ID:       b.ID,
		ItemID:   b.ItemID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
		Status:   string(b.Status),
	}
}

func bookingsToResponse(bookings []domain.Booking) []Booking {
	out := make([]Booking, len(bookings))
	for i, b := range bookings {
		out[i] = bookingToResponse(b)
	}
	return out
}

func optionalBooking(b *domain.Booking) *Booking {
	if b == nil {
		return nil
	}
	r := bookingToResponse(*b)
	return &r
}
