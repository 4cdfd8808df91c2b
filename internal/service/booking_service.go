package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/queue"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/repository"
)

// Default pagination for branch booking listings.
const (
	DefaultListLimit  = 20
	DefaultListOffset = 0
)

// BookingService orchestrates the booking lifecycle.  It is the
// only caller of BookingStore write methods.  Every operation
// validates references and intervals before touching state, and the
// check-then-commit sequence for a table is serialized through a
// per-table mutex so two concurrent requests can never both observe
// a free slot and both commit.
type BookingService struct {
	users       UserStore
	restaurants RestaurantStore
	branches    BranchStore
	tables      TableStore
	bookings    BookingStore
	publisher   EventPublisher // may be nil when the broker is not configured
	locks       *tableLocker
	now         func() time.Time
}

// NewBookingService wires a BookingService.  publisher may be nil
// to disable eventing.
func NewBookingService(users UserStore, restaurants RestaurantStore, branches BranchStore, tables TableStore, bookings BookingStore, publisher EventPublisher) *BookingService {
	if users == nil || restaurants == nil || branches == nil || tables == nil || bookings == nil {
		panic("nil store passed to NewBookingService")
	}
	return &BookingService{
		users:       users,
		restaurants: restaurants,
		branches:    branches,
		tables:      tables,
		bookings:    bookings,
		publisher:   publisher,
		locks:       newTableLocker(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// validateInterval rejects zero-length and inverted intervals
// before any overlap test runs.  Intervals are half-open, so
// end == start is a zero-length interval and invalid.
func validateInterval(start, end time.Time) error {
	if !end.After(start) {
		return repository.ErrInvalidInterval
	}
	return nil
}

// resolveTable loads the table and its branch, guarding against
// orphaned tables whose branch has been removed.
func (s *BookingService) resolveTable(ctx context.Context, tableID uint64) (*model.Table, *model.Branch, error) {
	table, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		return nil, nil, err
	}
	branch, err := s.branches.GetByID(ctx, table.BranchID)
	if err != nil {
		return nil, nil, err
	}
	return table, branch, nil
}

// CreateBookingInput carries the fields of a create request.
type CreateBookingInput struct {
	UserID          uint64    `json:"user_id"`
	TableID         uint64    `json:"table_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	SpecialRequests *string   `json:"special_requests"`
}

// Create validates the reservation request and, if the table is
// free for the interval, persists a new booking in pending status.
// Validation order: interval shape, user existence, table existence,
// branch existence, then availability.  The availability check and
// the insert run under the table's lock; the store additionally
// re-checks inside its transaction, so a conflicting concurrent
// create fails with repository.ErrSlotUnavailable rather than
// double-booking.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if err := validateInterval(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}
	if _, _, err := s.resolveTable(ctx, in.TableID); err != nil {
		return nil, err
	}

	s.locks.Lock(in.TableID)
	defer s.locks.Unlock(in.TableID)

	overlap, err := s.bookings.HasOverlap(ctx, in.TableID, in.StartTime, in.EndTime, 0)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, repository.ErrSlotUnavailable
	}

	b := &model.Booking{
		UserID:          in.UserID,
		TableID:         in.TableID,
		StartTime:       in.StartTime.UTC(),
		EndTime:         in.EndTime.UTC(),
		SpecialRequests: in.SpecialRequests,
		Status:          model.StatusPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Update applies a partial update to a booking.  Only the supplied
// fields change; the rest keep their prior values.  The booking's
// table and branch are re-validated first to defend against
// referential decay.  A status change must be permitted by the
// state machine (cancelled is terminal).  When either end of the
// interval moves, availability is re-checked against the new
// interval under the table's lock, excluding the booking itself.
// An empty patch returns the existing record unchanged.
func (s *BookingService) Update(ctx context.Context, bookingID uint64, patch model.BookingPatch) (*model.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	table, branch, err := s.resolveTable(ctx, current.TableID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	if patch.Status != nil {
		if !patch.Status.Valid() || !current.Status.CanTransitionTo(*patch.Status) {
			return nil, repository.ErrInvalidStatus
		}
	}

	newStart := current.StartTime
	newEnd := current.EndTime
	if patch.StartTime != nil {
		t := patch.StartTime.UTC()
		patch.StartTime = &t
		newStart = t
	}
	if patch.EndTime != nil {
		t := patch.EndTime.UTC()
		patch.EndTime = &t
		newEnd = t
	}
	if err := validateInterval(newStart, newEnd); err != nil {
		return nil, err
	}

	if patch.ChangesInterval() {
		s.locks.Lock(current.TableID)
		defer s.locks.Unlock(current.TableID)

		overlap, err := s.bookings.HasOverlap(ctx, current.TableID, newStart, newEnd, current.ID)
		if err != nil {
			return nil, err
		}
		if overlap {
			return nil, repository.ErrSlotUnavailable
		}
	}

	updated, err := s.bookings.Update(ctx, current, patch)
	if err != nil {
		return nil, err
	}

	if current.Status != model.StatusConfirmed && updated.Status == model.StatusConfirmed {
		s.publishConfirmed(ctx, updated, table, branch)
	}
	return updated, nil
}

// publishConfirmed emits a booking.confirmed event.  Failures are
// logged and swallowed; eventing never affects the request outcome.
func (s *BookingService) publishConfirmed(ctx context.Context, b *model.Booking, table *model.Table, branch *model.Branch) {
	if s.publisher == nil {
		return
	}
	restaurantName := ""
	if rest, err := s.restaurants.GetByID(ctx, branch.RestaurantID); err == nil {
		restaurantName = rest.Name
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:      b.ID,
		UserID:         b.UserID,
		TableID:        b.TableID,
		TableNumber:    table.TableNumber,
		BranchID:       branch.ID,
		BranchCity:     branch.City,
		BranchAddress:  branch.Address,
		RestaurantName: restaurantName,
		StartTime:      b.StartTime.UTC().Format(time.RFC3339),
		EndTime:        b.EndTime.UTC().Format(time.RFC3339),
		ConfirmedAt:    s.now().Format(time.RFC3339),
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking-service: publish booking.confirmed failed for booking %d: %v", b.ID, err)
	}
}

// Get loads a booking by id.  Returns
// repository.ErrBookingNotFound when it does not exist.
func (s *BookingService) Get(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

// Delete hard-removes a booking.  Returns
// repository.ErrBookingNotFound when it does not exist.
func (s *BookingService) Delete(ctx context.Context, bookingID uint64) error {
	return s.bookings.Delete(ctx, bookingID)
}

// IsTableAvailable reports whether the table is free for the given
// half-open interval.  Cancelled bookings never block a slot.
func (s *BookingService) IsTableAvailable(ctx context.Context, tableID uint64, start, end time.Time) (bool, error) {
	if err := validateInterval(start, end); err != nil {
		return false, err
	}
	if _, err := s.tables.GetByID(ctx, tableID); err != nil {
		return false, err
	}
	overlap, err := s.bookings.HasOverlap(ctx, tableID, start, end, 0)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

// ListForUser returns the user's bookings in the requested bucket,
// joined with table/branch/restaurant display fields and ordered by
// start time descending.  The filter is required; an unrecognized
// value fails with repository.ErrInvalidFilter.  An empty result is
// a valid outcome, not an error.
func (s *BookingService) ListForUser(ctx context.Context, userID uint64, filter model.BookingFilter) ([]repository.UserBookingView, error) {
	if !filter.Valid() {
		return nil, repository.ErrInvalidFilter
	}
	return s.bookings.ListByUser(ctx, userID, filter, s.now())
}

// BranchBookingPage is one page of a branch's bookings together
// with the pagination envelope.
type BranchBookingPage struct {
	TotalCount int                            `json:"total_count"`
	Limit      int                            `json:"limit"`
	Offset     int                            `json:"offset"`
	Bookings   []repository.BranchBookingView `json:"bookings"`
}

// ListForBranch returns a page of the branch's bookings with the
// total count.  Non-positive limits fall back to the default page
// size, negative offsets to zero.  Fails with
// repository.ErrBranchNotFound when the branch is missing.
func (s *BookingService) ListForBranch(ctx context.Context, branchID uint64, limit, offset int) (*BranchBookingPage, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = DefaultListOffset
	}
	if _, err := s.branches.GetByID(ctx, branchID); err != nil {
		return nil, err
	}
	total, views, err := s.bookings.ListByBranch(ctx, branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &BranchBookingPage{TotalCount: total, Limit: limit, Offset: offset, Bookings: views}, nil
}

// ListAvailableTables returns every table in the branch that seats
// the party and is free for the interval.  Reading twice with no
// intervening writes returns identical results.
func (s *BookingService) ListAvailableTables(ctx context.Context, branchID uint64, partySize uint32, start, end time.Time) ([]model.Table, error) {
	if err := validateInterval(start, end); err != nil {
		return nil, err
	}
	if _, err := s.branches.GetByID(ctx, branchID); err != nil {
		return nil, err
	}
	return s.tables.ListAvailable(ctx, branchID, partySize, start, end)
}

// IsNotFound reports whether err is one of the reference-missing
// sentinels, letting handlers collapse them into a single 404 path
// while keeping the specific message.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrUserNotFound) ||
		errors.Is(err, repository.ErrRestaurantNotFound) ||
		errors.Is(err, repository.ErrBranchNotFound) ||
		errors.Is(err, repository.ErrTableNotFound) ||
		errors.Is(err, repository.ErrBookingNotFound) ||
		errors.Is(err, repository.ErrCuisineNotFound)
}
