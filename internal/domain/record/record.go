package record

import (
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/mediacat/internal/domain"
)

// Validation limits.
const (
	MaxNameLength        = 512
	MaxDescriptionLength = 16384
	MaxLabels            = 64
	MinYear              = 0
	MaxYear              = 9999
	MinRating            = 0.0
	MaxRating            = 10.0
)

// VideoSource is a single encoded rendition of an episode.
type VideoSource struct {
	Quality string
	URL     string
}

// Episode is an optional child entry of a record. The catalog stores it verbatim.
type Episode struct {
	ID     int64
	Name   string
	Img    string
	Stream []string
	Video  []VideoSource
}

// Fields is the mutable input used to build a Record.
type Fields struct {
	Name        string
	Description string
	Year        int
	Rating      float64
	Genre       []string
	Tag         []string
	Img         string
	Episodes    []Episode
}

// Record is a catalog entry (immutable value object).
type Record struct {
	id          int64
	name        string
	description string
	year        int
	rating      float64
	genre       []string
	tag         []string
	img         string
	episodes    []Episode
	createdAt   time.Time
	updatedAt   time.Time
}

// New validates fields and creates a Record with the given id and creation time.
func New(id int64, f Fields, createdAt time.Time) (Record, error) {
	if err := Validate(f); err != nil {
		return Record{}, err
	}
	return Record{
		id:          id,
		name:        strings.TrimSpace(f.Name),
		description: f.Description,
		year:        f.Year,
		rating:      f.Rating,
		genre:       NormalizeLabels(f.Genre),
		tag:         NormalizeLabels(f.Tag),
		img:         f.Img,
		episodes:    slices.Clone(f.Episodes),
		createdAt:   createdAt,
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id int64, f Fields, createdAt, updatedAt time.Time) Record {
	return Record{
		id:          id,
		name:        f.Name,
		description: f.Description,
		year:        f.Year,
		rating:      f.Rating,
		genre:       f.Genre,
		tag:         f.Tag,
		img:         f.Img,
		episodes:    f.Episodes,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Validate checks record fields against catalog limits.
func Validate(f Fields) error {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return domain.NewFieldError("name", "is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return domain.NewFieldError("name", "is too long")
	}
	if len(f.Description) > MaxDescriptionLength {
		return domain.NewFieldError("description", "is too long")
	}
	if f.Year < MinYear || f.Year > MaxYear {
		return domain.NewFieldError("year", "must be between 0 and 9999")
	}
	if math.IsNaN(f.Rating) || f.Rating < MinRating || f.Rating > MaxRating {
		return domain.NewFieldError("rating", "must be between 0 and 10")
	}
	if len(f.Genre) > MaxLabels {
		return domain.NewFieldError("genre", "has too many labels")
	}
	if len(f.Tag) > MaxLabels {
		return domain.NewFieldError("tag", "has too many labels")
	}
	return nil
}

// NormalizeLabels trims labels and drops blanks and duplicates, keeping first-seen order.
func NormalizeLabels(labels []string) []string {
	if labels == nil {
		return nil
	}
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// ID returns the record identifier.
func (r *Record) ID() int64 { return r.id }

// Name returns the title.
func (r *Record) Name() string { return r.name }

// Description returns the free-text description.
func (r *Record) Description() string { return r.description }

// Year returns the release year.
func (r *Record) Year() int { return r.year }

// Rating returns the rating in [0,10].
func (r *Record) Rating() float64 { return r.rating }

// Genre returns a copy of the genre labels.
func (r *Record) Genre() []string { return slices.Clone(r.genre) }

// Tag returns a copy of the tag labels.
func (r *Record) Tag() []string { return slices.Clone(r.tag) }

// Img returns the cover image URI.
func (r *Record) Img() string { return r.img }

// Episodes returns a copy of the episode list.
func (r *Record) Episodes() []Episode { return slices.Clone(r.episodes) }

// CreatedAt returns the creation time (zero if unknown).
func (r *Record) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last update time (zero if never updated).
func (r *Record) UpdatedAt() time.Time { return r.updatedAt }

// HasAnyGenre reports whether the record carries at least one of the labels.
func (r *Record) HasAnyGenre(labels []string) bool { return intersects(r.genre, labels) }

// HasAnyTag reports whether the record carries at least one of the labels.
func (r *Record) HasAnyTag(labels []string) bool { return intersects(r.tag, labels) }

// HasTag reports whether the record carries the label.
func (r *Record) HasTag(label string) bool { return slices.Contains(r.tag, label) }

// Fields returns the mutable view of the record, used to build patched copies.
func (r *Record) Fields() Fields {
	return Fields{
		Name:        r.name,
		Description: r.description,
		Year:        r.year,
		Rating:      r.rating,
		Genre:       slices.Clone(r.genre),
		Tag:         slices.Clone(r.tag),
		Img:         r.img,
		Episodes:    slices.Clone(r.episodes),
	}
}

func intersects(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

// WithFields validates f and returns a copy carrying f, the same id and createdAt, and the new updatedAt.
func (r *Record) WithFields(f Fields, updatedAt time.Time) (Record, error) {
	next, err := New(r.id, f, r.createdAt)
	if err != nil {
		return Record{}, err
	}
	next.updatedAt = updatedAt
	return next, nil
}
