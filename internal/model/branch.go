package model

import "time"

// Branch represents a single physical location of a restaurant as
// stored in the `branches` table.  Every branch belongs to exactly
// one restaurant, and tables belong to exactly one branch.  The
// parent restaurant must exist before a branch can be created.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – parent restaurant.
//  City         – city the branch operates in.
//  Country      – country the branch operates in.
//  Address      – street address.
//  Location     – optional geolocation string ("lat,lng").
//  CreatedAt    – timestamp of creation.
type Branch struct {
	ID           uint64    `json:"id"`                 // branches.id
	RestaurantID uint64    `json:"restaurant_id"`      // branches.restaurant_id
	City         string    `json:"city"`               // branches.city
	Country      string    `json:"country"`            // branches.country
	Address      string    `json:"address"`            // branches.address
	Location     *string   `json:"location,omitempty"` // branches.location (nullable)
	CreatedAt    time.Time `json:"created_at"`         // branches.created_at
}
