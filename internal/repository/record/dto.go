package record

import (
	"time"

	domrec "github.com/kailas-cloud/mediacat/internal/domain/record"
)

// recordJSON is the stored document layout. Field names match the legacy
// catalog file so existing database.json files load as-is.
type recordJSON struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Year        int           `json:"year"`
	Rating      float64       `json:"rating"`
	Genre       []string      `json:"genre"`
	Tag         []string      `json:"tag"`
	Img         string        `json:"img"`
	Episodes    []episodeJSON `json:"episodes,omitempty"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

type episodeJSON struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Img    string      `json:"img,omitempty"`
	Stream []string    `json:"stream,omitempty"`
	Video  []videoJSON `json:"video,omitempty"`
}

type videoJSON struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

func toJSON(r *domrec.Record) recordJSON {
	out := recordJSON{
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
	for _, ep := range r.Episodes() {
		e := episodeJSON{ID: ep.ID, Name: ep.Name, Img: ep.Img, Stream: ep.Stream}
		for _, v := range ep.Video {
			e.Video = append(e.Video, videoJSON{Quality: v.Quality, URL: v.URL})
		}
		out.Episodes = append(out.Episodes, e)
	}
	return out
}

func fromJSON(j *recordJSON) domrec.Record {
	f := domrec.Fields{
		Name:        j.Name,
		Description: j.Description,
		Year:        j.Year,
		Rating:      j.Rating,
		Genre:       j.Genre,
		Tag:         j.Tag,
		Img:         j.Img,
	}
	for _, e := range j.Episodes {
		ep := domrec.Episode{ID: e.ID, Name: e.Name, Img: e.Img, Stream: e.Stream}
		for _, v := range e.Video {
			ep.Video = append(ep.Video, domrec.VideoSource{Quality: v.Quality, URL: v.URL})
		}
		f.Episodes = append(f.Episodes, ep)
	}
	return domrec.Reconstruct(j.ID, f, derefTime(j.CreatedAt), derefTime(j.UpdatedAt))
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
