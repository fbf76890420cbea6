package query

import "strings"

// SortKey names a sortable Record attribute.
type SortKey string

// Sortable attributes.
const (
	SortNone      SortKey = ""
	SortName      SortKey = "name"
	SortYear      SortKey = "year"
	SortRating    SortKey = "rating"
	SortID        SortKey = "id"
	SortCreatedAt SortKey = "created_at"
	SortUpdatedAt SortKey = "updated_at"
)

// IsValid checks if the key is one of the sortable attributes (empty means unsorted).
func (k SortKey) IsValid() bool {
	switch k {
	case SortNone, SortName, SortYear, SortRating, SortID, SortCreatedAt, SortUpdatedAt:
		return true
	}
	return false
}

// SortOrder is the sort direction.
type SortOrder string

// Sort directions. The empty order means ascending.
const (
	Ascending  SortOrder = "ascending"
	Descending SortOrder = "descending"
)

// IsValid checks if the order is ascending, descending or unset.
func (o SortOrder) IsValid() bool {
	return o == "" || o == Ascending || o == Descending
}

// IsDescending reports whether results are reversed.
func (o SortOrder) IsDescending() bool { return o == Descending }

// ParseSortOrder accepts the long and short spellings used by web clients.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending
	case "desc", "descending":
		return Descending
	default:
		return SortOrder(s)
	}
}
