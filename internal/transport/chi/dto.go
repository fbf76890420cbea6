package chi

import (
	"time"

	domquery "github.com/kailas-cloud/mediacat/internal/domain/query"
	domrec "github.com/kailas-cloud/mediacat/internal/domain/record"
	"github.com/kailas-cloud/mediacat/internal/domain/record/patch"
	healthuc "github.com/kailas-cloud/mediacat/internal/usecase/health"
	homeuc "github.com/kailas-cloud/mediacat/internal/usecase/home"
)

// VideoSource is a wire episode rendition.
type VideoSource struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// Episode is a wire episode.
type Episode struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Img    string        `json:"img"`
	Stream []string      `json:"stream,omitempty"`
	Video  []VideoSource `json:"video,omitempty"`
}

// Record is the wire representation of a catalog record.
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

// RecordBody is the create/update request body. Absent fields stay nil.
type RecordBody struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Year        *int       `json:"year"`
	Rating      *float64   `json:"rating"`
	Genre       *[]string  `json:"genre"`
	Tag         *[]string  `json:"tag"`
	Img         *string    `json:"img"`
	Episodes    *[]Episode `json:"episodes"`
}

// Pagination is the wire page metadata.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	PageSize   int `json:"pageSize"`
}

// PageResponse is the GET /query response.
type PageResponse struct {
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

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// UploadResponse is the POST /upload response.
type UploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// HealthResponse is the GET /health response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func recordToResponse(r *domrec.Record) Record {
	out := Record{
		ID:          r.ID(),
		Name:        r.Name(),
		Description: r.Description(),
		Year:        r.Year(),
		Rating:      r.Rating(),
		Genre:       nonNil(r.Genre()),
		Tag:         nonNil(r.Tag()),
		Img:         r.Img(),
		CreatedAt:   timePtr(r.CreatedAt()),
		UpdatedAt:   timePtr(r.UpdatedAt()),
	}
	for _, e := range r.Episodes() {
		out.Episodes = append(out.Episodes, episodeToResponse(e))
	}
	return out
}

func episodeToResponse(e domrec.Episode) Episode {
	out := Episode{ID: e.ID, Name: e.Name, Img: e.Img, Stream: e.Stream}
	for _, v := range e.Video {
		out.Video = append(out.Video, VideoSource{Quality: v.Quality, URL: v.URL})
	}
	return out
}

func episodesFromBody(in []Episode) []domrec.Episode {
	out := make([]domrec.Episode, 0, len(in))
	for _, e := range in {
		ep := domrec.Episode{ID: e.ID, Name: e.Name, Img: e.Img, Stream: e.Stream}
		for _, v := range e.Video {
			ep.Video = append(ep.Video, domrec.VideoSource{Quality: v.Quality, URL: v.URL})
		}
		out = append(out, ep)
	}
	return out
}

func pageToResponse(p *domquery.Page) PageResponse {
	items := make([]Record, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, recordToResponse(&p.Items[i]))
	}
	return PageResponse{
		Items: items,
		Pagination: Pagination{
			Total:      p.Pagination.Total,
			Page:       p.Pagination.Page,
			TotalPages: p.Pagination.TotalPages,
			PageSize:   p.Pagination.PageSize,
		},
	}
}

func sectionsToResponse(sections []homeuc.Section) map[string]Section {
	out := make(map[string]Section, len(sections))
	for _, sec := range sections {
		cards := make([]Card, 0, len(sec.Items))
		for _, c := range sec.Items {
			cards = append(cards, Card{ID: c.ID, Name: c.Name, Img: c.Img})
		}
		out[sec.Title] = Section{Total: sec.Total, Items: cards}
	}
	return out
}

func healthToResponse(rep healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(rep.Checks))
	for k, v := range rep.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(rep.Status), Checks: checks}
}

// toFields builds create input. Absent fields take their zero value.
func (b *RecordBody) toFields() domrec.Fields {
	var f domrec.Fields
	if b.Name != nil {
		f.Name = *b.Name
	}
	if b.Description != nil {
		f.Description = *b.Description
	}
	if b.Year != nil {
		f.Year = *b.Year
	}
	if b.Rating != nil {
		f.Rating = *b.Rating
	}
	if b.Genre != nil {
		f.Genre = *b.Genre
	}
	if b.Tag != nil {
		f.Tag = *b.Tag
	}
	if b.Img != nil {
		f.Img = *b.Img
	}
	if b.Episodes != nil {
		f.Episodes = episodesFromBody(*b.Episodes)
	}
	return f
}

func (b *RecordBody) toPatch() (patch.Patch, error) {
	pb := patch.Builder{
		Name:        b.Name,
		Description: b.Description,
		Year:        b.Year,
		Rating:      b.Rating,
		Genre:       b.Genre,
		Tag:         b.Tag,
		Img:         b.Img,
	}
	if b.Episodes != nil {
		eps := episodesFromBody(*b.Episodes)
		pb.Episodes = &eps
	}
	return patch.New(pb)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
