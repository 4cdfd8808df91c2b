package model

import "time"

// Table describes a bookable physical table inside a branch, as
// stored in the `tables` table.  The pair (branch_id, table_number)
// is unique: a table number identifies one table within its branch.
//
// Fields:
//  ID          – primary key identifier.
//  BranchID    – branch the table belongs to.
//  TableNumber – number of the table within the branch (unique per branch).
//  MaxCapacity – maximum number of guests the table seats.
//  IsSideTable – whether the table sits along a wall.
//  IsOpenSpace – whether the table is in an open-space area.
//  Floor       – floor of the branch the table is on.
//  CreatedAt   – timestamp of creation.
type Table struct {
	ID          uint64    `json:"id"`            // tables.id
	BranchID    uint64    `json:"branch_id"`     // tables.branch_id
	TableNumber uint32    `json:"table_number"`  // tables.table_number
	MaxCapacity uint32    `json:"max_capacity"`  // tables.max_capacity
	IsSideTable bool      `json:"is_side_table"` // tables.is_side_table
	IsOpenSpace bool      `json:"is_open_space"` // tables.is_open_space
	Floor       int32     `json:"floor"`         // tables.floor
	CreatedAt   time.Time `json:"created_at"`    // tables.created_at
}

// TablePatch lists the table fields a partial update may change.
// Nil pointers mean "leave unchanged".  Restricting updates to this
// closed set keeps arbitrary column names out of SET clauses.
type TablePatch struct {
	TableNumber *uint32 `json:"table_number"`
	MaxCapacity *uint32 `json:"max_capacity"`
	IsSideTable *bool   `json:"is_side_table"`
	IsOpenSpace *bool   `json:"is_open_space"`
	Floor       *int32  `json:"floor"`
}

// Empty reports whether the patch carries no recognized fields.
func (p TablePatch) Empty() bool {
	return p.TableNumber == nil && p.MaxCapacity == nil && p.IsSideTable == nil &&
		p.IsOpenSpace == nil && p.Floor == nil
}
