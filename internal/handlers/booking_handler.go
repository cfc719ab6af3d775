package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"salon-backend/internal/cache"
	"salon-backend/internal/models"
	"salon-backend/internal/services"
	"salon-backend/pkg/utils"
)

type BookingHandler struct {
	Service *services.BookingService
}

func NewBookingHandler(s *services.BookingService) *BookingHandler {
	return &BookingHandler{Service: s}
}

// Create handles POST /api/bookings/per-branch. A calendar failure still
// yields 201 with calendar_created=false; only booking-level problems fail
// the request.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		var dup *services.DuplicateSlotError
		switch {
		case errors.As(err, &dup):
			utils.JSON(w, http.StatusConflict, map[string]interface{}{
				"error":               "This time slot is already booked",
				"existing_booking_id": dup.Existing.ID,
			})
		case errors.Is(err, services.ErrInvalidBooking):
			utils.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrClientNotFound),
			errors.Is(err, services.ErrBranchNotFound):
			utils.Error(w, http.StatusNotFound, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	cache.InvalidateBookingCaches(r.Context())
	utils.JSON(w, http.StatusCreated, result)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	booking, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if booking == nil {
		utils.Error(w, http.StatusNotFound, "Booking not found")
		return
	}
	utils.JSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	branchID := optionalIntQuery(r, "branch_id")
	date := r.URL.Query().Get("date")

	bookings, err := h.Service.List(r.Context(), branchID, date)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Status string `json:"status"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, services.ErrInvalidBooking) {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.InvalidateBookingCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// Cancel frees the slot for rebooking
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Service.Cancel(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.InvalidateBookingCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"status": models.BookingStatusCancelled})
}
