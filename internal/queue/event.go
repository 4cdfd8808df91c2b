// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// BookingConfirmedEvent is published when a booking transitions to
// the confirmed status.  It carries enough denormalized context for
// downstream consumers to log or notify without querying the
// primary database.
type BookingConfirmedEvent struct {
	BookingID      uint64 `json:"booking_id"`
	UserID         uint64 `json:"user_id"`
	TableID        uint64 `json:"table_id"`
	TableNumber    uint32 `json:"table_number"`
	BranchID       uint64 `json:"branch_id"`
	BranchCity     string `json:"branch_city"`
	BranchAddress  string `json:"branch_address"`
	RestaurantName string `json:"restaurant_name"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	ConfirmedAt    string `json:"confirmed_at"`
}
