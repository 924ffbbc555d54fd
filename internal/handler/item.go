package handler

import "net/http"

// GetNearestBookings handles GET /items/{itemId}/bookings/nearest.
// Non-owners receive both fields as null.
func (s *Server) GetNearestBookings(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	nearest, err := s.bookings.NearestBookings(r.Context(), caller, itemID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NearestBookingsResponse{
		LastBooking: optionalBooking(nearest.Last),
		NextBooking: optionalBooking(nearest.Next),
	})
}

// GetFinishedBooking handles GET /items/{itemId}/bookings/finished and reports
// whether the caller has completed an approved booking of the item.
func (s *Server) GetFinishedBooking(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	done, err := s.bookings.HasFinishedBooking(r.Context(), caller, itemID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FinishedBookingResponse{Finished: done})
}
