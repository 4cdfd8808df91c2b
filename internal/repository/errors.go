// Package repository defines the data access layer for the booking
// platform together with the sentinel errors shared by every store.
// Higher layers compare against these values with errors.Is and map
// each one to a stable HTTP status; any other error from a
// repository is treated as a storage failure (HTTP 500).
package repository

import "errors"

// ErrUserNotFound is returned when a referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrRestaurantNotFound is returned when a referenced restaurant does not exist.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrBranchNotFound is returned when a referenced branch does not
// exist.  Besides direct lookups this also guards bookings against
// orphaned tables whose branch has been removed.
var ErrBranchNotFound = errors.New("branch not found")

// ErrTableNotFound is returned when a referenced table does not exist.
var ErrTableNotFound = errors.New("table not found")

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// ErrCuisineNotFound is returned when one or more cuisine IDs do not
// resolve to existing cuisines.
var ErrCuisineNotFound = errors.New("cuisine not found")

// ErrSlotUnavailable is returned when a requested interval overlaps
// an existing non-cancelled booking on the same table.  Handlers
// should translate this into an HTTP 409 response.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrInvalidInterval is returned when a booking interval has
// end_time <= start_time.  Intervals are half-open [start, end), so
// a zero-length interval is invalid.
var ErrInvalidInterval = errors.New("invalid time interval")

// ErrInvalidFilter is returned when a user booking listing is asked
// for with an unrecognized status filter.
var ErrInvalidFilter = errors.New("invalid status filter")

// ErrInvalidStatus is returned when an update supplies an unknown
// booking status or a transition the state machine forbids (for
// example moving a cancelled booking back to pending).
var ErrInvalidStatus = errors.New("invalid status transition")

// ErrDuplicateTable is returned when a table number already exists
// within the same branch.  (branch_id, table_number) is unique.
var ErrDuplicateTable = errors.New("table number already exists in this branch")

// ErrEmailTaken is returned when registering with an email that is
// already in use.
var ErrEmailTaken = errors.New("email already registered")

// ErrForbidden is returned when the caller attempts an operation on
// a resource they do not own.  Handlers should translate this into
// an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting dependent state, such as
// deleting a branch that still has tables.  Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
