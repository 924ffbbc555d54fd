// Package handler implements the HTTP handlers for the ShareIt booking API.
// Handlers bind and validate the request, call the booking service, and map
// domain errors onto HTTP statuses. Methods are split into files by resource
// but all share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pkordes/shareit/internal/domain"
)

// BookingServicer defines the business operations the booking handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the store or service layer.
type BookingServicer interface {
	Create(ctx context.Context, bookerID, itemID uuid.UUID, start, end time.Time) (domain.Booking, error)
	Approve(ctx context.Context, callerID, bookingID uuid.UUID, approve bool) (domain.Booking, error)
	GetByID(ctx context.Context, callerID, bookingID uuid.UUID) (domain.Booking, error)
	List(ctx context.Context, callerID uuid.UUID, role domain.Role, category string, page domain.PageRequest) ([]domain.Booking, error)
	NearestBookings(ctx context.Context, callerID, itemID uuid.UUID) (domain.NearestBookings, error)
	HasFinishedBooking(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
}

// Server holds the dependencies of every API handler.
type Server struct {
	bookings BookingServicer
	pageSize int
	validate *validator.Validate
	log      *slog.Logger
}

// NewServer constructs the Server. pageSize is the list page size used when
// the request omits size; a nil log discards output.
func NewServer(bookings BookingServicer, pageSize int, log *slog.Logger) *Server {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names ("itemId") rather than Go names ("ItemID").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{bookings: bookings, pageSize: pageSize, validate: v, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, domain.DefaultPageSize, nil)
}

// Routes registers every API route on r. main mounts them on the root router
// together with the middleware stack.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", s.CreateBooking)
		r.Get("/", s.ListBookerBookings)
		r.Get("/owner", s.ListOwnerBookings)
		r.Get("/{bookingId}", s.GetBooking)
		r.Patch("/{bookingId}", s.DecideBooking)
	})

	r.Get("/items/{itemId}/bookings/nearest", s.GetNearestBookings)
	r.Get("/items/{itemId}/bookings/finished", s.GetFinishedBooking)
}

// Handler returns a chi router serving Routes. Tests use it to exercise the
// same routing main wires in production.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
