package home

import (
	"context"
	"fmt"
)

// Bucket selects records carrying Tag and shows them under Title.
type Bucket struct {
	Title string
	Tag   string
}

// DefaultBuckets are the landing sections of the web client.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{Title: "Popular", Tag: "popular"},
		{Title: "New release", Tag: "New release"},
	}
}

// Card is the reduced view of a record shown on the landing page.
type Card struct {
	ID   int64
	Name string
	Img  string
}

// Section is one filled bucket.
type Section struct {
	Title string
	Total int
	Items []Card
}

// Service builds the landing page.
type Service struct {
	records Snapshotter
	buckets []Bucket
}

// New creates a landing page service. Empty buckets fall back to DefaultBuckets.
func New(records Snapshotter, buckets []Bucket) *Service {
	if len(buckets) == 0 {
		buckets = DefaultBuckets()
	}
	return &Service{records: records, buckets: buckets}
}

// Buckets returns one section per configured bucket, in configuration order.
// A record appears in every bucket whose tag it carries; items keep storage order.
func (s *Service) Buckets(ctx context.Context) ([]Section, error) {
	snapshot, err := s.records.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	out := make([]Section, len(s.buckets))
	for i, b := range s.buckets {
		out[i] = Section{Title: b.Title, Items: []Card{}}
	}
	for i := range snapshot {
		r := &snapshot[i]
		for j, b := range s.buckets {
			if r.HasTag(b.Tag) {
				out[j].Items = append(out[j].Items, Card{ID: r.ID(), Name: r.Name(), Img: r.Img()})
			}
		}
	}
	for i := range out {
		out[i].Total = len(out[i].Items)
	}
	return out, nil
}
