package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/shareit/internal/domain"
)

// CreateBooking handles POST /bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("payload_too_large", "request body too large"))
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: request body must be a JSON booking", domain.ErrValidation))
		return
	}
	if err := s.validateBody(body); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.bookings.Create(r.Context(), caller, body.ItemID, body.Start, body.End)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/bookings/"+created.ID.String())
	writeJSON(w, http.StatusCreated, bookingToResponse(created))
}

// DecideBooking handles PATCH /bookings/{bookingId}?approved=true|false.
func (s *Server) DecideBooking(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := pathUUID(r, "bookingId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	approve, err := approvedParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	decided, err := s.bookings.Approve(r.Context(), caller, id, approve)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingToResponse(decided))
}

// GetBooking handles GET /bookings/{bookingId}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := pathUUID(r, "bookingId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.bookings.GetByID(r.Context(), caller, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingToResponse(b))
}

// ListBookerBookings handles GET /bookings: the caller's own bookings.
func (s *Server) ListBookerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, domain.RoleBooker)
}

// ListOwnerBookings handles GET /bookings/owner: bookings of the caller's items.
func (s *Server) ListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, domain.RoleOwner)
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request, role domain.Role) {
	caller, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	state, page, err := listParams(r, s.pageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	bookings, err := s.bookings.List(r.Context(), caller, role, state, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingsToResponse(bookings))
}

// validateBody runs the struct tags of a request body and folds the first
// failure into a domain.ErrValidation.
func (s *Server) validateBody(body any) error {
	err := s.validate.Struct(body)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s is %s", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}
