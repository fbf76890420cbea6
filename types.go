package mediacat

import "time"

// VideoSource is one encoded rendition of an episode.
type VideoSource struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// Episode is an optional child entry of a record, stored verbatim.
type Episode struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Img    string        `json:"img"`
	Stream []string      `json:"stream,omitempty"`
	Video  []VideoSource `json:"video,omitempty"`
}

// Record is a catalog entry.
type Record struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Year        int       `json:"year"`
	Rating      float64   `json:"rating"`
	Genre       []string  `json:"genre"`
	Tag         []string  `json:"tag"`
	Img         string    `json:"img"`
	Episodes    []Episode `json:"episodes,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// RecordInput holds the fields of a new record. The catalog assigns id and timestamps.
type RecordInput struct {
	Name        string
	Description string
	Year        int
	Rating      float64
	Genre       []string
	Tag         []string
	Img         string
	Episodes    []Episode
}

// RecordPatch is a partial update. Nil fields are unchanged; a non-nil empty slice clears labels.
type RecordPatch struct {
	Name        *string
	Description *string
	Year        *int
	Rating      *float64
	Genre       *[]string
	Tag         *[]string
	Img         *string
	Episodes    *[]Episode
}

// SortKey names a sortable record attribute.
type SortKey string

// Sortable attributes. SortNone keeps storage order, or relevance order for name queries.
const (
	SortNone      SortKey = ""
	SortName      SortKey = "name"
	SortYear      SortKey = "year"
	SortRating    SortKey = "rating"
	SortID        SortKey = "id"
	SortCreatedAt SortKey = "created_at"
	SortUpdatedAt SortKey = "updated_at"
)

// SortOrder is the sort direction.
type SortOrder string

// Sort directions.
const (
	Ascending  SortOrder = "ascending"
	Descending SortOrder = "descending"
)

// Query selects, orders and pages records. Zero Page and PageSize mean 1 and 10.
type Query struct {
	Name        string
	Tags        []string
	Genres      []string
	Description string
	Year        *int
	MinRating   *float64
	MaxRating   *float64
	SortKey     SortKey
	SortOrder   SortOrder
	Page        int
	PageSize    int
}

// Pagination describes a result page.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	PageSize   int `json:"pageSize"`
}

// Page is one page of matching records in final order.
type Page struct {
	Items      []Record   `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Bucket maps a landing page section title to the tag selecting its records.
type Bucket struct {
	Title string
	Tag   string
}

// Card is the reduced record view on the landing page.
type Card struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Img  string `json:"img"`
}

// Section is one landing page bucket, items in storage order.
type Section struct {
	Title string `json:"title"`
	Total int    `json:"total"`
	Items []Card `json:"items"`
}
