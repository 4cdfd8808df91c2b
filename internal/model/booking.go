package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
// New bookings always start as pending.  A pending booking may be
// confirmed or cancelled; a confirmed booking may be moved back to
// pending or cancelled.  Cancelled is terminal: once a booking is
// cancelled its slot is released and the record never transitions
// again.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"   // awaiting confirmation, slot is held
	StatusConfirmed BookingStatus = "confirmed" // confirmed by the branch
	StatusCancelled BookingStatus = "cancelled" // released; excluded from overlap checks
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in status s may move to
// next.  Cancelled is terminal; pending and confirmed may move to
// each other or to cancelled.  A no-op transition (same status) is
// always allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	return s != StatusCancelled
}

// BookingFilter selects a status-derived temporal bucket when
// listing a user's bookings.  There is no default: callers must
// supply one of the four values below.
type BookingFilter string

const (
	FilterUpcoming  BookingFilter = "upcoming"  // confirmed, starts in the future
	FilterPast      BookingFilter = "past"      // confirmed, started in the past
	FilterPending   BookingFilter = "pending"   // pending, starts in the future
	FilterCancelled BookingFilter = "cancelled" // cancelled, no time bound
)

// Valid reports whether f is one of the recognized filter values.
func (f BookingFilter) Valid() bool {
	switch f {
	case FilterUpcoming, FilterPast, FilterPending, FilterCancelled:
		return true
	}
	return false
}

// Booking is the central mutable entity of the reservation engine:
// one table reserved by one user for one half-open time interval
// [StartTime, EndTime).  Two non-cancelled bookings on the same
// table must never overlap; bookings that share a boundary instant
// do not overlap (back-to-back reservations are allowed).
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user who made the booking.
//  TableID         – table being reserved.
//  StartTime       – start of the reserved interval (inclusive, UTC).
//  EndTime         – end of the reserved interval (exclusive, UTC).
//  SpecialRequests – optional free-text requests from the customer.
//  Status          – lifecycle state of the booking.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64        `json:"id"`                         // bookings.id
	UserID          uint64        `json:"user_id"`                    // bookings.user_id
	TableID         uint64        `json:"table_id"`                   // bookings.table_id
	StartTime       time.Time     `json:"start_time"`                 // bookings.start_time
	EndTime         time.Time     `json:"end_time"`                   // bookings.end_time
	SpecialRequests *string       `json:"special_requests,omitempty"` // bookings.special_requests (nullable)
	Status          BookingStatus `json:"status"`                     // bookings.status
	CreatedAt       time.Time     `json:"created_at"`                 // bookings.created_at
	UpdatedAt       time.Time     `json:"updated_at"`                 // bookings.updated_at
}

// Overlaps reports whether the booking's interval shares at least
// one instant with [start, end) under half-open semantics.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// BookingPatch lists the booking fields a partial update may
// change.  Nil pointers mean "leave unchanged".  This is the only
// shape Update accepts; free-form field maps are never merged into
// SQL.
type BookingPatch struct {
	StartTime       *time.Time     `json:"start_time"`
	EndTime         *time.Time     `json:"end_time"`
	SpecialRequests *string        `json:"special_requests"`
	Status          *BookingStatus `json:"status"`
}

// Empty reports whether the patch carries no recognized fields.
func (p BookingPatch) Empty() bool {
	return p.StartTime == nil && p.EndTime == nil && p.SpecialRequests == nil && p.Status == nil
}

// ChangesInterval reports whether applying the patch would move
// either end of the booking's time window.
func (p BookingPatch) ChangesInterval() bool {
	return p.StartTime != nil || p.EndTime != nil
}
