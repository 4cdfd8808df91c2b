// Package service implements the reservation engine: availability
// checking, the booking lifecycle, booking queries and the status
// state machine.  All durable state lives behind the store
// interfaces below, which the SQL repositories implement; tests
// substitute in-memory fakes.
package service

import (
	"context"
	"time"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/queue"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/repository"
)

// UserStore resolves user references.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// RestaurantStore resolves restaurant references for display.
type RestaurantStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Restaurant, error)
}

// BranchStore resolves branch references.
type BranchStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Branch, error)
}

// TableStore resolves table references and answers availability
// searches over a branch.
type TableStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Table, error)
	ListAvailable(ctx context.Context, branchID uint64, partySize uint32, start, end time.Time) ([]model.Table, error)
}

// BookingStore owns booking rows.  Create and Update are expected
// to be atomic: they either commit the full state change or nothing,
// and they return repository.ErrSlotUnavailable when the written
// interval would overlap a non-cancelled booking on the same table.
type BookingStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	HasOverlap(ctx context.Context, tableID uint64, start, end time.Time, excludeID uint64) (bool, error)
	Create(ctx context.Context, b *model.Booking) error
	Update(ctx context.Context, current *model.Booking, patch model.BookingPatch) (*model.Booking, error)
	Delete(ctx context.Context, id uint64) error
	ListByUser(ctx context.Context, userID uint64, filter model.BookingFilter, now time.Time) ([]repository.UserBookingView, error)
	ListByBranch(ctx context.Context, branchID uint64, limit, offset int) (int, []repository.BranchBookingView, error)
}

// EventPublisher delivers booking events to the message broker.
// Publishing is best effort; the engine logs and ignores failures
// rather than failing the request.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}
