package patch

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/mediacat/internal/domain"
	"github.com/kailas-cloud/mediacat/internal/domain/record"
)

// Patch is a partial record update.
// Nil fields are unchanged. A non-nil empty slice clears the label set.
type Patch struct {
	name        *string
	description *string
	year        *int
	rating      *float64
	genre       []string
	tag         []string
	img         *string
	episodes    []record.Episode

	setGenre    bool
	setTag      bool
	setEpisodes bool
}

// Builder collects the optional fields of a Patch.
type Builder struct {
	Name        *string
	Description *string
	Year        *int
	Rating      *float64
	Genre       *[]string
	Tag         *[]string
	Img         *string
	Episodes    *[]record.Episode
}

// New validates and creates a Patch. At least one field must be provided.
func New(b Builder) (Patch, error) {
	if b.Name == nil && b.Description == nil && b.Year == nil && b.Rating == nil &&
		b.Genre == nil && b.Tag == nil && b.Img == nil && b.Episodes == nil {
		return Patch{}, fmt.Errorf("at least one field must be provided: %w", domain.ErrInvalidRecord)
	}
	p := Patch{
		name:        b.Name,
		description: b.Description,
		year:        b.Year,
		rating:      b.Rating,
		img:         b.Img,
	}
	if b.Genre != nil {
		p.genre, p.setGenre = *b.Genre, true
	}
	if b.Tag != nil {
		p.tag, p.setTag = *b.Tag, true
	}
	if b.Episodes != nil {
		p.episodes, p.setEpisodes = *b.Episodes, true
	}
	return p, nil
}

// Name returns the new name, or nil if unchanged.
func (p Patch) Name() *string { return p.name }

// Rating returns the new rating, or nil if unchanged.
func (p Patch) Rating() *float64 { return p.rating }

// HasLabels reports whether the patch replaces genre or tag labels.
func (p Patch) HasLabels() bool { return p.setGenre || p.setTag }

// Apply merges the patch into r and returns the validated result stamped with updatedAt.
func (p Patch) Apply(r record.Record, updatedAt time.Time) (record.Record, error) {
	f := r.Fields()
	if p.name != nil {
		f.Name = *p.name
	}
	if p.description != nil {
		f.Description = *p.description
	}
	if p.year != nil {
		f.Year = *p.year
	}
	if p.rating != nil {
		f.Rating = *p.rating
	}
	if p.setGenre {
		f.Genre = p.genre
	}
	if p.setTag {
		f.Tag = p.tag
	}
	if p.img != nil {
		f.Img = *p.img
	}
	if p.setEpisodes {
		f.Episodes = p.episodes
	}
	return r.WithFields(f, updatedAt)
}
