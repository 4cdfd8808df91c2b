package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/queue"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/repository"
)

// ----- in-memory fakes -----

type fakeUsers struct{ users map[uint64]*model.User }

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

type fakeRestaurants struct{ items map[uint64]*model.Restaurant }

func (f *fakeRestaurants) GetByID(_ context.Context, id uint64) (*model.Restaurant, error) {
	if r, ok := f.items[id]; ok {
		return r, nil
	}
	return nil, repository.ErrRestaurantNotFound
}

type fakeBranches struct{ items map[uint64]*model.Branch }

func (f *fakeBranches) GetByID(_ context.Context, id uint64) (*model.Branch, error) {
	if b, ok := f.items[id]; ok {
		return b, nil
	}
	return nil, repository.ErrBranchNotFound
}

type fakeTables struct {
	items    map[uint64]*model.Table
	bookings *fakeBookings
}

func (f *fakeTables) GetByID(_ context.Context, id uint64) (*model.Table, error) {
	if t, ok := f.items[id]; ok {
		return t, nil
	}
	return nil, repository.ErrTableNotFound
}

func (f *fakeTables) ListAvailable(ctx context.Context, branchID uint64, partySize uint32, start, end time.Time) ([]model.Table, error) {
	var out []model.Table
	for _, t := range f.items {
		if t.BranchID != branchID || t.MaxCapacity < partySize {
			continue
		}
		busy, err := f.bookings.HasOverlap(ctx, t.ID, start, end, 0)
		if err != nil {
			return nil, err
		}
		if !busy {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableNumber < out[j].TableNumber })
	return out, nil
}

// fakeBookings mimics the SQL repository's contract: Create and
// Update re-check the overlap predicate before committing.
type fakeBookings struct {
	mu    sync.Mutex
	seq   uint64
	items map[uint64]*model.Booking
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{items: make(map[uint64]*model.Booking)}
}

func (f *fakeBookings) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.items[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, repository.ErrBookingNotFound
}

func (f *fakeBookings) hasOverlapLocked(tableID uint64, start, end time.Time, excludeID uint64) bool {
	for _, b := range f.items {
		if b.TableID != tableID || b.ID == excludeID || b.Status == model.StatusCancelled {
			continue
		}
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func (f *fakeBookings) HasOverlap(_ context.Context, tableID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasOverlapLocked(tableID, start, end, excludeID), nil
}

func (f *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hasOverlapLocked(b.TableID, b.StartTime, b.EndTime, 0) {
		return repository.ErrSlotUnavailable
	}
	f.seq++
	b.ID = f.seq
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.items[b.ID] = &cp
	return nil
}

func (f *fakeBookings) Update(_ context.Context, current *model.Booking, patch model.BookingPatch) (*model.Booking, error) {
	if patch.Empty() {
		return current, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[current.ID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	newStart := stored.StartTime
	newEnd := stored.EndTime
	if patch.StartTime != nil {
		newStart = *patch.StartTime
	}
	if patch.EndTime != nil {
		newEnd = *patch.EndTime
	}
	if patch.ChangesInterval() && f.hasOverlapLocked(stored.TableID, newStart, newEnd, stored.ID) {
		return nil, repository.ErrSlotUnavailable
	}
	stored.StartTime = newStart
	stored.EndTime = newEnd
	if patch.SpecialRequests != nil {
		stored.SpecialRequests = patch.SpecialRequests
	}
	if patch.Status != nil {
		stored.Status = *patch.Status
	}
	stored.UpdatedAt = time.Now().UTC()
	cp := *stored
	return &cp, nil
}

func (f *fakeBookings) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeBookings) ListByUser(_ context.Context, userID uint64, filter model.BookingFilter, now time.Time) ([]repository.UserBookingView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.UserBookingView
	for _, b := range f.items {
		if b.UserID != userID {
			continue
		}
		keep := false
		switch filter {
		case model.FilterUpcoming:
			keep = b.Status == model.StatusConfirmed && b.StartTime.After(now)
		case model.FilterPast:
			keep = b.Status == model.StatusConfirmed && b.StartTime.Before(now)
		case model.FilterPending:
			keep = b.Status == model.StatusPending && b.StartTime.After(now)
		case model.FilterCancelled:
			keep = b.Status == model.StatusCancelled
		default:
			return nil, repository.ErrInvalidFilter
		}
		if keep {
			out = append(out, repository.UserBookingView{
				ID: b.ID, StartTime: b.StartTime, EndTime: b.EndTime, Status: b.Status,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (f *fakeBookings) ListByBranch(_ context.Context, _ uint64, limit, offset int) (int, []repository.BranchBookingView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]repository.BranchBookingView, 0, len(f.items))
	for _, b := range f.items {
		all = append(all, repository.BranchBookingView{
			ID: b.ID, UserID: b.UserID, StartTime: b.StartTime, EndTime: b.EndTime, Status: b.Status,
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartTime.After(all[j].StartTime) })
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return total, all[offset:end], nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
}

func (f *fakePublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

// ----- fixtures -----

func at(h int) time.Time {
	return time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC)
}

func newTestService() (*BookingService, *fakeBookings, *fakePublisher) {
	bookings := newFakeBookings()
	users := &fakeUsers{users: map[uint64]*model.User{
		1: {ID: 1, Name: "Alice", Email: "alice@example.com", Role: "CUSTOMER"},
		2: {ID: 2, Name: "Bob", Email: "bob@example.com", Role: "CUSTOMER"},
	}}
	restaurants := &fakeRestaurants{items: map[uint64]*model.Restaurant{
		1: {ID: 1, Name: "Trattoria"},
	}}
	branches := &fakeBranches{items: map[uint64]*model.Branch{
		1: {ID: 1, RestaurantID: 1, City: "Lisbon", Country: "PT", Address: "Rua A 1"},
	}}
	tables := &fakeTables{
		items: map[uint64]*model.Table{
			1: {ID: 1, BranchID: 1, TableNumber: 1, MaxCapacity: 4},
			2: {ID: 2, BranchID: 1, TableNumber: 2, MaxCapacity: 2},
		},
		bookings: bookings,
	}
	pub := &fakePublisher{}
	svc := NewBookingService(users, restaurants, branches, tables, bookings, pub)
	svc.now = func() time.Time { return at(12) }
	return svc, bookings, pub
}

func mustCreate(t *testing.T, svc *BookingService, userID, tableID uint64, start, end time.Time) *model.Booking {
	t.Helper()
	b, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: userID, TableID: tableID, StartTime: start, EndTime: end,
	})
	require.NoError(t, err)
	return b
}

// ----- tests -----

func TestCreateBooking(t *testing.T) {
	svc, _, _ := newTestService()

	note := "window seat"
	b, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: 1, TableID: 1, StartTime: at(18), EndTime: at(20), SpecialRequests: &note,
	})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, time.UTC, b.StartTime.Location())
	assert.Equal(t, &note, b.SpecialRequests)
}

func TestCreateBookingInvalidInterval(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: 1, TableID: 1, StartTime: at(18), EndTime: at(18),
	})
	assert.ErrorIs(t, err, repository.ErrInvalidInterval)

	_, err = svc.Create(context.Background(), CreateBookingInput{
		UserID: 1, TableID: 1, StartTime: at(20), EndTime: at(18),
	})
	assert.ErrorIs(t, err, repository.ErrInvalidInterval)
}

func TestCreateBookingUnknownReferences(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: 99, TableID: 1, StartTime: at(18), EndTime: at(20),
	})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = svc.Create(context.Background(), CreateBookingInput{
		UserID: 1, TableID: 99, StartTime: at(18), EndTime: at(20),
	})
	assert.ErrorIs(t, err, repository.ErrTableNotFound)
}

func TestCreateBookingOverlap(t *testing.T) {
	svc, _, _ := newTestService()
	mustCreate(t, svc, 1, 1, at(18), at(20))

	// Overlapping interval on the same table is refused.
	_, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: 2, TableID: 1, StartTime: at(19), EndTime: at(21),
	})
	assert.ErrorIs(t, err, repository.ErrSlotUnavailable)

	// Back-to-back intervals touch but do not overlap.
	mustCreate(t, svc, 2, 1, at(20), at(22))
	mustCreate(t, svc, 2, 1, at(16), at(18))

	// A different table is independent.
	mustCreate(t, svc, 2, 2, at(18), at(20))
}

func TestCancellationFreesSlot(t *testing.T) {
	svc, _, _ := newTestService()
	b := mustCreate(t, svc, 1, 1, at(18), at(20))

	cancelled := model.StatusCancelled
	_, err := svc.Update(context.Background(), b.ID, model.BookingPatch{Status: &cancelled})
	require.NoError(t, err)

	// The slot is bookable again.
	mustCreate(t, svc, 2, 1, at(18), at(20))
}

func TestUpdateBookingInterval(t *testing.T) {
	svc, _, _ := newTestService()
	b := mustCreate(t, svc, 1, 1, at(18), at(20))
	mustCreate(t, svc, 2, 1, at(20), at(22))

	// Shrinking within its own window never conflicts with itself.
	newEnd := at(19)
	updated, err := svc.Update(context.Background(), b.ID, model.BookingPatch{EndTime: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, at(19), updated.EndTime)

	// Moving onto the neighbouring booking is refused.
	badEnd := at(21)
	_, err = svc.Update(context.Background(), b.ID, model.BookingPatch{EndTime: &badEnd})
	assert.ErrorIs(t, err, repository.ErrSlotUnavailable)

	// Inverting the interval is refused before any overlap check.
	badStart := at(23)
	_, err = svc.Update(context.Background(), b.ID, model.BookingPatch{StartTime: &badStart})
	assert.ErrorIs(t, err, repository.ErrInvalidInterval)
}

func TestUpdateBookingStatus(t *testing.T) {
	svc, _, pub := newTestService()
	b := mustCreate(t, svc, 1, 1, at(18), at(20))

	confirmed := model.StatusConfirmed
	updated, err := svc.Update(context.Background(), b.ID, model.BookingPatch{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, updated.Status)
	require.Len(t, pub.events, 1)
	assert.Equal(t, b.ID, pub.events[0].BookingID)
	assert.Equal(t, "Trattoria", pub.events[0].RestaurantName)

	// Confirming an already confirmed booking emits nothing new.
	_, err = svc.Update(context.Background(), b.ID, model.BookingPatch{Status: &confirmed})
	require.NoError(t, err)
	assert.Len(t, pub.events, 1)

	cancelled := model.StatusCancelled
	_, err = svc.Update(context.Background(), b.ID, model.BookingPatch{Status: &cancelled})
	require.NoError(t, err)

	// Cancelled is terminal.
	pending := model.StatusPending
	_, err = svc.Update(context.Background(), b.ID, model.BookingPatch{Status: &pending})
	assert.ErrorIs(t, err, repository.ErrInvalidStatus)
}

func TestUpdateBookingEmptyPatch(t *testing.T) {
	svc, _, _ := newTestService()
	b := mustCreate(t, svc, 1, 1, at(18), at(20))

	got, err := svc.Update(context.Background(), b.ID, model.BookingPatch{})
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, b.StartTime, got.StartTime)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestConcurrentCreateOneWinner(t *testing.T) {
	svc, _, _ := newTestService()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), CreateBookingInput{
				UserID: 1, TableID: 1, StartTime: at(18), EndTime: at(20),
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, repository.ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestDeleteBooking(t *testing.T) {
	svc, _, _ := newTestService()
	b := mustCreate(t, svc, 1, 1, at(18), at(20))

	require.NoError(t, svc.Delete(context.Background(), b.ID))
	err := svc.Delete(context.Background(), b.ID)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestIsTableAvailable(t *testing.T) {
	svc, _, _ := newTestService()
	mustCreate(t, svc, 1, 1, at(18), at(20))

	free, err := svc.IsTableAvailable(context.Background(), 1, at(19), at(21))
	require.NoError(t, err)
	assert.False(t, free)

	free, err = svc.IsTableAvailable(context.Background(), 1, at(20), at(22))
	require.NoError(t, err)
	assert.True(t, free)

	_, err = svc.IsTableAvailable(context.Background(), 99, at(18), at(20))
	assert.ErrorIs(t, err, repository.ErrTableNotFound)
}

func TestListForUser(t *testing.T) {
	svc, _, _ := newTestService()
	// now is pinned to 12:00; create one of each bucket.
	confirmed := model.StatusConfirmed
	cancelled := model.StatusCancelled

	upcoming := mustCreate(t, svc, 1, 1, at(18), at(20))
	_, err := svc.Update(context.Background(), upcoming.ID, model.BookingPatch{Status: &confirmed})
	require.NoError(t, err)

	past := mustCreate(t, svc, 1, 1, at(8), at(10))
	_, err = svc.Update(context.Background(), past.ID, model.BookingPatch{Status: &confirmed})
	require.NoError(t, err)

	pending := mustCreate(t, svc, 1, 2, at(18), at(20))

	gone := mustCreate(t, svc, 1, 1, at(14), at(16))
	_, err = svc.Update(context.Background(), gone.ID, model.BookingPatch{Status: &cancelled})
	require.NoError(t, err)

	cases := []struct {
		filter model.BookingFilter
		wantID uint64
	}{
		{model.FilterUpcoming, upcoming.ID},
		{model.FilterPast, past.ID},
		{model.FilterPending, pending.ID},
		{model.FilterCancelled, gone.ID},
	}
	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			views, err := svc.ListForUser(context.Background(), 1, tc.filter)
			require.NoError(t, err)
			require.Len(t, views, 1)
			assert.Equal(t, tc.wantID, views[0].ID)
		})
	}

	_, err = svc.ListForUser(context.Background(), 1, model.BookingFilter("all"))
	assert.ErrorIs(t, err, repository.ErrInvalidFilter)
}

func TestListForBranchPagination(t *testing.T) {
	svc, _, _ := newTestService()
	for i := 0; i < 25; i++ {
		mustCreate(t, svc, 1, 1, at(18).Add(time.Duration(i)*2*time.Hour), at(18).Add(time.Duration(i)*2*time.Hour+time.Hour))
	}

	page, err := svc.ListForBranch(context.Background(), 1, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 25, page.TotalCount)
	assert.Equal(t, DefaultListLimit, page.Limit)
	assert.Equal(t, DefaultListOffset, page.Offset)
	assert.Len(t, page.Bookings, 20)

	page, err = svc.ListForBranch(context.Background(), 1, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, 25, page.TotalCount)
	assert.Len(t, page.Bookings, 5)

	_, err = svc.ListForBranch(context.Background(), 99, 10, 0)
	assert.ErrorIs(t, err, repository.ErrBranchNotFound)
}

func TestListAvailableTables(t *testing.T) {
	svc, _, _ := newTestService()
	mustCreate(t, svc, 1, 1, at(18), at(20))

	// Table 1 is busy; table 2 seats only 2.
	tables, err := svc.ListAvailableTables(context.Background(), 1, 2, at(18), at(20))
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, uint64(2), tables[0].ID)

	tables, err = svc.ListAvailableTables(context.Background(), 1, 4, at(18), at(20))
	require.NoError(t, err)
	assert.Empty(t, tables)

	tables, err = svc.ListAvailableTables(context.Background(), 1, 4, at(20), at(22))
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, uint64(1), tables[0].ID)

	_, err = svc.ListAvailableTables(context.Background(), 99, 2, at(18), at(20))
	assert.ErrorIs(t, err, repository.ErrBranchNotFound)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(repository.ErrUserNotFound))
	assert.True(t, IsNotFound(repository.ErrBookingNotFound))
	assert.False(t, IsNotFound(repository.ErrSlotUnavailable))
	assert.False(t, IsNotFound(errors.New("boom")))
}
