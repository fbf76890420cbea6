package client

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// VideoSource is one encoded rendition of an episode.
type VideoSource struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// Episode is an optional child entry of a record.
type Episode struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Img    string        `json:"img"`
	Stream []string      `json:"stream,omitempty"`
	Video  []VideoSource `json:"video,omitempty"`
}

// Record is a catalog entry as served by the API.
type Record struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Year        int        `json:"year"`
	Rating      float64    `json:"rating"`
	Genre       []string   `json:"genre"`
	Tag         []string   `json:"tag"`
	Img         string     `json:"img"`
	Episodes    []Episode  `json:"episodes,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// RecordInput is the body of a create request.
type RecordInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Year        int       `json:"year"`
	Rating      float64   `json:"rating"`
	Genre       []string  `json:"genre"`
	Tag         []string  `json:"tag"`
	Img         string    `json:"img"`
	Episodes    []Episode `json:"episodes,omitempty"`
}

// RecordPatch is the body of an update request. Nil fields are left unchanged.
type RecordPatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Year        *int       `json:"year,omitempty"`
	Rating      *float64   `json:"rating,omitempty"`
	Genre       *[]string  `json:"genre,omitempty"`
	Tag         *[]string  `json:"tag,omitempty"`
	Img         *string    `json:"img,omitempty"`
	Episodes    *[]Episode `json:"episodes,omitempty"`
}

// Query holds GET /query parameters. Zero values are omitted.
type Query struct {
	Name        string
	Tags        []string
	Genres      []string
	Description string
	Year        *int
	MinRating   *float64
	MaxRating   *float64
	Sort        string
	Order       string
	Page        int
	PageSize    int
}

func (q *Query) values() url.Values {
	v := url.Values{}
	setString := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	setString("name", q.Name)
	setString("tag", strings.Join(q.Tags, ","))
	setString("genre", strings.Join(q.Genres, ","))
	setString("description", q.Description)
	setString("sort", q.Sort)
	setString("order", q.Order)
	if q.Year != nil {
		v.Set("year", strconv.Itoa(*q.Year))
	}
	if q.MinRating != nil {
		v.Set("minRating", strconv.FormatFloat(*q.MinRating, 'f', -1, 64))
	}
	if q.MaxRating != nil {
		v.Set("maxRating", strconv.FormatFloat(*q.MaxRating, 'f', -1, 64))
	}
	if q.Page != 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize != 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}

// Pagination describes a result page.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	PageSize   int `json:"pageSize"`
}

// Page is one page of query results.
type Page struct {
	Items      []Record   `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Card is a landing page entry.
type Card struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Img  string `json:"img"`
}

// Section is one landing page bucket.
type Section struct {
	Total int    `json:"total"`
	Items []Card `json:"items"`
}

// UploadResult is the server's answer to an upload.
type UploadResult struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Health is the server health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
