package model

import "time"

// Restaurant represents a restaurant brand in the `restaurants`
// table.  A restaurant owns one or more branches and is tagged with
// any number of cuisines through the `restaurant_cuisines` join
// table.  The reservation engine never mutates restaurants; it only
// resolves them for display and referential checks.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – restaurant name.
//  Description – optional marketing description.
//  Logo        – optional URL of the restaurant logo.
//  Cuisines    – associated cuisine tags (populated on reads that join them).
//  CreatedAt   – timestamp of creation.
type Restaurant struct {
	ID          uint64    `json:"id"`                    // restaurants.id
	Name        string    `json:"name"`                  // restaurants.name
	Description *string   `json:"description,omitempty"` // restaurants.description (nullable)
	Logo        *string   `json:"logo,omitempty"`        // restaurants.logo (nullable)
	Cuisines    []Cuisine `json:"cuisines,omitempty"`    // via restaurant_cuisines
	CreatedAt   time.Time `json:"created_at"`            // restaurants.created_at
}

// Cuisine is a tag describing a style of food (e.g. "Italian").
// Cuisines exist independently and are attached to restaurants
// many-to-many.
type Cuisine struct {
	ID   uint64 `json:"id"`   // cuisines.id
	Name string `json:"name"` // cuisines.name
}
