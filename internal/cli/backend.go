package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/mediacat"
	"github.com/kailas-cloud/mediacat/internal/config"
	uploaduc "github.com/kailas-cloud/mediacat/internal/usecase/upload"
	"github.com/kailas-cloud/mediacat/pkg/client"
)

// backend is what commands need from a catalog, local or remote.
type backend interface {
	Query(ctx context.Context, q client.Query) (client.Page, error)
	Get(ctx context.Context, id int64) (client.Record, error)
	Create(ctx context.Context, in client.RecordInput) (client.Record, error)
	Update(ctx context.Context, id int64, p client.RecordPatch) (client.Record, error)
	Delete(ctx context.Context, id int64) error
	Home(ctx context.Context) (map[string]client.Section, error)
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)
	Close()
}

// openBackend is swapped in tests.
var openBackend = func(ctx context.Context, o *RootOptions) (backend, error) {
	if o.Server != "" {
		c, err := client.New(o.Server, client.WithTimeout(o.Timeout))
		if err != nil {
			return nil, err
		}
		return remoteBackend{c}, nil
	}
	lb, err := openLocal(ctx, o)
	if err != nil {
		return nil, err
	}
	return lb, nil
}

type remoteBackend struct {
	*client.Client
}

func (remoteBackend) Close() {}

type localBackend struct {
	cat       *mediacat.Catalog
	uploadDir string
}

func openLocal(ctx context.Context, o *RootOptions) (*localBackend, error) {
	var storage mediacat.Option
	switch o.Driver {
	case config.DriverSQLite:
		storage = mediacat.WithSQLite(o.DB)
	default:
		storage = mediacat.WithFile(o.DB)
	}
	cat, err := mediacat.Open(ctx, storage, mediacat.WithReadinessTimeout(o.Timeout))
	if err != nil {
		return nil, err
	}
	return &localBackend{cat: cat, uploadDir: o.UploadDir}, nil
}

func (b *localBackend) Close() { b.cat.Close() }

func (b *localBackend) Query(ctx context.Context, q client.Query) (client.Page, error) {
	page, err := b.cat.Query(ctx, mediacat.Query{
		Name:        q.Name,
		Tags:        q.Tags,
		Genres:      q.Genres,
		Description: q.Description,
		Year:        q.Year,
		MinRating:   q.MinRating,
		MaxRating:   q.MaxRating,
		SortKey:     mediacat.SortKey(q.Sort),
		SortOrder:   mediacat.SortOrder(q.Order),
		Page:        q.Page,
		PageSize:    q.PageSize,
	})
	if err != nil {
		return client.Page{}, err
	}
	out := client.Page{
		Items: make([]client.Record, 0, len(page.Items)),
		Pagination: client.Pagination{
			Total:      page.Pagination.Total,
			Page:       page.Pagination.Page,
			TotalPages: page.Pagination.TotalPages,
			PageSize:   page.Pagination.PageSize,
		},
	}
	for i := range page.Items {
		out.Items = append(out.Items, toClientRecord(&page.Items[i]))
	}
	return out, nil
}

func (b *localBackend) Get(ctx context.Context, id int64) (client.Record, error) {
	rec, err := b.cat.Get(ctx, id)
	if err != nil {
		return client.Record{}, err
	}
	return toClientRecord(&rec), nil
}

func (b *localBackend) Create(ctx context.Context, in client.RecordInput) (client.Record, error) {
	rec, err := b.cat.Create(ctx, mediacat.RecordInput{
		Name:        in.Name,
		Description: in.Description,
		Year:        in.Year,
		Rating:      in.Rating,
		Genre:       in.Genre,
		Tag:         in.Tag,
		Img:         in.Img,
		Episodes:    toLibEpisodes(in.Episodes),
	})
	if err != nil {
		return client.Record{}, err
	}
	return toClientRecord(&rec), nil
}

func (b *localBackend) Update(ctx context.Context, id int64, p client.RecordPatch) (client.Record, error) {
	lp := mediacat.RecordPatch{
		Name:        p.Name,
		Description: p.Description,
		Year:        p.Year,
		Rating:      p.Rating,
		Genre:       p.Genre,
		Tag:         p.Tag,
		Img:         p.Img,
	}
	if p.Episodes != nil {
		eps := toLibEpisodes(*p.Episodes)
		lp.Episodes = &eps
	}
	rec, err := b.cat.Update(ctx, id, lp)
	if err != nil {
		return client.Record{}, err
	}
	return toClientRecord(&rec), nil
}

func (b *localBackend) Delete(ctx context.Context, id int64) error {
	return b.cat.Delete(ctx, id)
}

func (b *localBackend) Home(ctx context.Context) (map[string]client.Section, error) {
	sections, err := b.cat.Home(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]client.Section, len(sections))
	for _, s := range sections {
		cards := make([]client.Card, 0, len(s.Items))
		for _, c := range s.Items {
			cards = append(cards, client.Card{ID: c.ID, Name: c.Name, Img: c.Img})
		}
		out[s.Title] = client.Section{Total: s.Total, Items: cards}
	}
	return out, nil
}

// Upload stores the file in the local upload directory and returns its server-relative URL.
func (b *localBackend) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	if b.uploadDir == "" {
		return "", errors.New("local upload directory not configured")
	}
	svc, err := uploaduc.New(uploaduc.Config{Dir: b.uploadDir})
	if err != nil {
		return "", fmt.Errorf("prepare upload dir: %w", err)
	}
	stored, err := svc.Save(ctx, filename, content)
	if err != nil {
		return "", err
	}
	return svc.PublicURL(stored.Name, ""), nil
}

func toClientRecord(r *mediacat.Record) client.Record {
	out := client.Record{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Year:        r.Year,
		Rating:      r.Rating,
		Genre:       r.Genre,
		Tag:         r.Tag,
		Img:         r.Img,
		CreatedAt:   timePtr(r.CreatedAt),
		UpdatedAt:   timePtr(r.UpdatedAt),
	}
	for _, e := range r.Episodes {
		ep := client.Episode{ID: e.ID, Name: e.Name, Img: e.Img, Stream: e.Stream}
		for _, v := range e.Video {
			ep.Video = append(ep.Video, client.VideoSource{Quality: v.Quality, URL: v.URL})
		}
		out.Episodes = append(out.Episodes, ep)
	}
	return out
}

func toLibEpisodes(in []client.Episode) []mediacat.Episode {
	if in == nil {
		return nil
	}
	out := make([]mediacat.Episode, 0, len(in))
	for _, e := range in {
		ep := mediacat.Episode{ID: e.ID, Name: e.Name, Img: e.Img, Stream: e.Stream}
		for _, v := range e.Video {
			ep.Video = append(ep.Video, mediacat.VideoSource{Quality: v.Quality, URL: v.URL})
		}
		out = append(out, ep)
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
