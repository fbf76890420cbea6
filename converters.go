package mediacat

import (
	domquery "github.com/kailas-cloud/mediacat/internal/domain/query"
	domrec "github.com/kailas-cloud/mediacat/internal/domain/record"
	"github.com/kailas-cloud/mediacat/internal/domain/record/patch"
	homeuc "github.com/kailas-cloud/mediacat/internal/usecase/home"
)

func fromInternalRecord(r *domrec.Record) Record {
	out := Record{
		ID:          r.ID(),
		Name:        r.Name(),
		Description: r.Description(),
		Year:        r.Year(),
		Rating:      r.Rating(),
		Genre:       nonNil(r.Genre()),
		Tag:         nonNil(r.Tag()),
		Img:         r.Img(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
	for _, e := range r.Episodes() {
		ep := Episode{ID: e.ID, Name: e.Name, Img: e.Img, Stream: e.Stream}
		for _, v := range e.Video {
			ep.Video = append(ep.Video, VideoSource{Quality: v.Quality, URL: v.URL})
		}
		out.Episodes = append(out.Episodes, ep)
	}
	return out
}

func toInternalEpisodes(in []Episode) []domrec.Episode {
	if in == nil {
		return nil
	}
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

func toInternalFields(in *RecordInput) domrec.Fields {
	return domrec.Fields{
		Name:        in.Name,
		Description: in.Description,
		Year:        in.Year,
		Rating:      in.Rating,
		Genre:       in.Genre,
		Tag:         in.Tag,
		Img:         in.Img,
		Episodes:    toInternalEpisodes(in.Episodes),
	}
}

func toInternalPatch(p *RecordPatch) (patch.Patch, error) {
	b := patch.Builder{
		Name:        p.Name,
		Description: p.Description,
		Year:        p.Year,
		Rating:      p.Rating,
		Genre:       p.Genre,
		Tag:         p.Tag,
		Img:         p.Img,
	}
	if p.Episodes != nil {
		eps := toInternalEpisodes(*p.Episodes)
		if eps == nil {
			eps = []domrec.Episode{}
		}
		b.Episodes = &eps
	}
	return patch.New(b)
}

func toInternalRequest(q *Query) domquery.Request {
	req := domquery.NewRequest()
	req.NameQuery = q.Name
	req.TagFilter = q.Tags
	req.GenreFilter = q.Genres
	req.DescriptionFilter = q.Description
	req.YearFilter = q.Year
	req.MinRating = q.MinRating
	req.MaxRating = q.MaxRating
	req.SortKey = domquery.SortKey(q.SortKey)
	if q.SortOrder != "" {
		req.SortOrder = domquery.ParseSortOrder(string(q.SortOrder))
	}
	if q.Page != 0 {
		req.Page = q.Page
	}
	if q.PageSize != 0 {
		req.PageSize = q.PageSize
	}
	return req
}

func fromInternalPage(p *domquery.Page) Page {
	items := make([]Record, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, fromInternalRecord(&p.Items[i]))
	}
	return Page{
		Items: items,
		Pagination: Pagination{
			Total:      p.Pagination.Total,
			Page:       p.Pagination.Page,
			TotalPages: p.Pagination.TotalPages,
			PageSize:   p.Pagination.PageSize,
		},
	}
}

func toInternalBuckets(in []Bucket) []homeuc.Bucket {
	out := make([]homeuc.Bucket, 0, len(in))
	for _, b := range in {
		out = append(out, homeuc.Bucket{Title: b.Title, Tag: b.Tag})
	}
	return out
}

func fromInternalSections(in []homeuc.Section) []Section {
	out := make([]Section, 0, len(in))
	for _, s := range in {
		cards := make([]Card, 0, len(s.Items))
		for _, c := range s.Items {
			cards = append(cards, Card{ID: c.ID, Name: c.Name, Img: c.Img})
		}
		out = append(out, Section{Title: s.Title, Total: s.Total, Items: cards})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
