package mediacat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/kailas-cloud/mediacat/internal/db"
	"github.com/kailas-cloud/mediacat/internal/db/driver"
	recordrepo "github.com/kailas-cloud/mediacat/internal/repository/record"
	homeuc "github.com/kailas-cloud/mediacat/internal/usecase/home"
	queryuc "github.com/kailas-cloud/mediacat/internal/usecase/query"
	recorduc "github.com/kailas-cloud/mediacat/internal/usecase/record"
)

const defaultReadinessTimeout = 10 * time.Second

// Catalog is the embedded catalog entry point. Safe for concurrent use.
type Catalog struct {
	store   db.Store
	query   *queryuc.Service
	records *recorduc.Service
	home    *homeuc.Service
	obs     *observer
}

// Open connects to the configured storage and wires the catalog.
// The provided context bounds the initial readiness check.
func Open(ctx context.Context, opts ...Option) (*Catalog, error) {
	cfg := &catalogConfig{readiness: defaultReadinessTimeout, collation: "en"}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.storage.Driver == "" {
		return nil, errors.New("mediacat: storage required (use WithFile, WithSQLite, WithRedis or WithValkey)")
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := driver.Open(cfg.storage)
	if err != nil {
		return nil, fmt.Errorf("mediacat: open storage: %w", err)
	}
	if err := store.WaitForReady(ctx, cfg.readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("mediacat: storage not ready: %w", err)
	}

	return wireCatalog(store, engine, cfg.buckets, obs), nil
}

func newEngine(cfg *catalogConfig) (*queryuc.Engine, error) {
	tag, err := language.Parse(cfg.collation)
	if err != nil {
		return nil, fmt.Errorf("mediacat: invalid collation %q: %w", cfg.collation, err)
	}
	opts := []queryuc.EngineOption{queryuc.WithCollation(tag)}
	if t := cfg.fuzzyThreshold; t != nil {
		if *t < 0 || *t > 1 {
			return nil, fmt.Errorf("mediacat: fuzzy threshold must be in [0,1], got %g", *t)
		}
		opts = append(opts, queryuc.WithFuzzyThreshold(*t))
	}
	return queryuc.NewEngine(opts...), nil
}

func wireCatalog(store db.Store, engine *queryuc.Engine, buckets []Bucket, obs *observer) *Catalog {
	repo := recordrepo.New(store)
	return &Catalog{
		store:   store,
		query:   queryuc.New(repo, engine),
		records: recorduc.New(repo),
		home:    homeuc.New(repo, toInternalBuckets(buckets)),
		obs:     obs,
	}
}

// Close releases the storage.
func (c *Catalog) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks storage connectivity.
func (c *Catalog) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { c.obs.observe("ping", start, err) }(time.Now())
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Query runs q against the current collection.
func (c *Catalog) Query(ctx context.Context, q Query) (_ Page, err error) {
	defer func(start time.Time) { c.obs.observe("query", start, err) }(time.Now())
	page, err := c.query.Query(ctx, toInternalRequest(&q))
	if err != nil {
		return Page{}, err
	}
	return fromInternalPage(&page), nil
}

// Find starts a fluent query.
func (c *Catalog) Find() *QueryBuilder {
	return &QueryBuilder{catalog: c}
}

// Get returns the record with the given id, or ErrNotFound.
func (c *Catalog) Get(ctx context.Context, id int64) (_ Record, err error) {
	defer func(start time.Time) { c.obs.observe("get", start, err) }(time.Now())
	rec, err := c.records.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	return fromInternalRecord(&rec), nil
}

// Create validates and stores a new record.
func (c *Catalog) Create(ctx context.Context, in RecordInput) (_ Record, err error) {
	defer func(start time.Time) { c.obs.observe("create", start, err) }(time.Now())
	rec, err := c.records.Create(ctx, toInternalFields(&in))
	if err != nil {
		return Record{}, err
	}
	return fromInternalRecord(&rec), nil
}

// Update merges p into the stored record and stamps updated_at.
func (c *Catalog) Update(ctx context.Context, id int64, p RecordPatch) (_ Record, err error) {
	defer func(start time.Time) { c.obs.observe("update", start, err) }(time.Now())
	ip, err := toInternalPatch(&p)
	if err != nil {
		return Record{}, err
	}
	rec, err := c.records.Update(ctx, id, ip)
	if err != nil {
		return Record{}, err
	}
	return fromInternalRecord(&rec), nil
}

// Delete removes a record, or returns ErrNotFound.
func (c *Catalog) Delete(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { c.obs.observe("delete", start, err) }(time.Now())
	return c.records.Delete(ctx, id)
}

// Home groups records into the landing page sections, in configured order.
func (c *Catalog) Home(ctx context.Context) (_ []Section, err error) {
	defer func(start time.Time) { c.obs.observe("home", start, err) }(time.Now())
	sections, err := c.home.Buckets(ctx)
	if err != nil {
		return nil, err
	}
	return fromInternalSections(sections), nil
}
