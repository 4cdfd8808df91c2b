package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"confirmed to pending", StatusConfirmed, StatusPending, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"cancelled stays cancelled", StatusCancelled, StatusConfirmed, false},
		{"same status is a no-op", StatusPending, StatusPending, true},
		{"unknown target", StatusPending, BookingStatus("archived"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestBookingStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusConfirmed.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, BookingStatus("").Valid())
	assert.False(t, BookingStatus("PENDING").Valid())
}

func TestBookingFilterValid(t *testing.T) {
	for _, f := range []BookingFilter{FilterUpcoming, FilterPast, FilterPending, FilterCancelled} {
		assert.True(t, f.Valid(), string(f))
	}
	assert.False(t, BookingFilter("").Valid())
	assert.False(t, BookingFilter("all").Valid())
}

func TestBookingOverlaps(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC)
	}
	b := &Booking{StartTime: at(18), EndTime: at(20)}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical interval", at(18), at(20), true},
		{"contained", at(18), at(19), true},
		{"containing", at(17), at(21), true},
		{"overlaps start", at(17), at(19), true},
		{"overlaps end", at(19), at(21), true},
		{"back to back before", at(16), at(18), false},
		{"back to back after", at(20), at(22), false},
		{"disjoint before", at(10), at(12), false},
		{"disjoint after", at(21), at(23), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.Overlaps(tc.start, tc.end))
		})
	}
}

func TestBookingPatch(t *testing.T) {
	assert.True(t, BookingPatch{}.Empty())
	assert.False(t, BookingPatch{}.ChangesInterval())

	note := "window seat"
	p := BookingPatch{SpecialRequests: &note}
	assert.False(t, p.Empty())
	assert.False(t, p.ChangesInterval())

	start := time.Now()
	p = BookingPatch{StartTime: &start}
	assert.False(t, p.Empty())
	assert.True(t, p.ChangesInterval())

	end := time.Now()
	p = BookingPatch{EndTime: &end}
	assert.True(t, p.ChangesInterval())
}
