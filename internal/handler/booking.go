package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/repository"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/service"
)

// BookingHandler serves the reservation endpoints.  All mutation
// goes through the booking service; the handler only binds the
// request, resolves the caller's identity and enforces ownership.
type BookingHandler struct {
	Svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

type createBookingReq struct {
	TableID         uint64  `json:"table_id"`
	StartTime       string  `json:"start_time"` // RFC 3339
	EndTime         string  `json:"end_time"`   // RFC 3339
	SpecialRequests *string `json:"special_requests"`
}

// Create books a table for the authenticated user.  The booking is
// created in pending status; a taken slot answers 409.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TableID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id required"})
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC 3339"})
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be RFC 3339"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	booking, err := h.Svc.Create(ctx, service.CreateBookingInput{
		UserID:          uid,
		TableID:         req.TableID,
		StartTime:       start,
		EndTime:         end,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

type updateBookingReq struct {
	StartTime       *string `json:"start_time"` // RFC 3339
	EndTime         *string `json:"end_time"`   // RFC 3339
	SpecialRequests *string `json:"special_requests"`
	Status          *string `json:"status"`
}

// Update applies a partial update to a booking.  Customers may only
// touch their own bookings; owners may touch any, which is how a
// branch confirms or cancels one.
func (h *BookingHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	patch := model.BookingPatch{SpecialRequests: req.SpecialRequests}
	if req.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC 3339"})
		}
		patch.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be RFC 3339"})
		}
		patch.EndTime = &t
	}
	if req.Status != nil {
		st := model.BookingStatus(*req.Status)
		if !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		// Only branch staff may confirm; customers reschedule or cancel.
		if st == model.StatusConfirmed && getRole(c) != "OWNER" {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only owners may confirm bookings"})
		}
		patch.Status = &st
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.authorize(ctx, c, id, uid); err != nil {
		return jsonError(c, err)
	}
	booking, err := h.Svc.Update(ctx, id, patch)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// Delete removes a booking, subject to the same ownership rule as
// Update.
func (h *BookingHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.authorize(ctx, c, id, uid); err != nil {
		return jsonError(c, err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine returns the caller's bookings in the bucket selected by
// ?filter= (upcoming, past, pending or cancelled).
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	filter := model.BookingFilter(c.QueryParam("filter"))

	ctx, cancel := reqContext(c)
	defer cancel()

	views, err := h.Svc.ListForUser(ctx, uid, filter)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"filter": filter, "bookings": views})
}

// ListBranch returns a page of a branch's bookings for its staff.
func (h *BookingHandler) ListBranch(c echo.Context) error {
	branchID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid branch id"})
	}
	limit := queryInt(c, "limit", service.DefaultListLimit)
	offset := queryInt(c, "offset", service.DefaultListOffset)

	ctx, cancel := reqContext(c)
	defer cancel()

	page, err := h.Svc.ListForBranch(ctx, branchID, limit, offset)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// authorize loads the booking and rejects customers acting on
// someone else's record.  Owners pass unconditionally.
func (h *BookingHandler) authorize(ctx context.Context, c echo.Context, bookingID, uid uint64) error {
	if getRole(c) == "OWNER" {
		return nil
	}
	booking, err := h.Svc.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != uid {
		return repository.ErrForbidden
	}
	return nil
}
