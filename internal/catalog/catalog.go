package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/materials-advisor/internal/observability"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

var (
	ErrEmbedding   = errors.New("catalog: embedding failed")
	ErrDimension   = errors.New("catalog: vector dimension mismatch")
	ErrNameMissing = errors.New("catalog: entry name required")
)

const (
	DefaultDimension = 1536
	DefaultTopK      = 5
)

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

type Config struct {
	Dimension int
}

// Catalog holds the reference materials and their embedding index.
type Catalog struct {
	log      *logger.Logger
	embedder Embedder
	store    Store
	dim      int

	mu      sync.RWMutex
	entries []Entry
	index   *flatIndex
}

// New loads the catalog from store, or starts from the seed list when the
// store is empty. The seed list is not saved until the first mutation.
func New(ctx context.Context, log *logger.Logger, embedder Embedder, store Store, cfg Config) (*Catalog, error) {
	if log == nil {
		return nil, fmt.Errorf("catalog: logger required")
	}
	if store == nil {
		return nil, fmt.Errorf("catalog: store required")
	}
	dim := cfg.Dimension
	if dim <= 0 {
		dim = DefaultDimension
	}
	c := &Catalog{
		log:      log.With("service", "Catalog"),
		embedder: embedder,
		store:    store,
		dim:      dim,
		index:    newFlatIndex(dim),
	}

	snap, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		seed, err := SeedEntries()
		if err != nil {
			return nil, err
		}
		c.entries = seed
		c.log.Info("catalog seeded", "entries", len(seed))
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if err := snap.validate(dim); err != nil {
		return nil, err
	}
	c.entries = snap.Entries
	for _, v := range snap.Vectors {
		if err := c.index.add(v.Position, v.Values); err != nil {
			return nil, err
		}
	}
	c.log.Info("catalog loaded", "entries", len(c.entries), "vectors", c.index.len())
	return c, nil
}

func (c *Catalog) Dimension() int { return c.dim }

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// List returns a copy of all entries in insertion order.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}
	return out
}

// Search returns up to topK entries nearest to query. Before any entry has
// a vector it returns the first entries in insertion order without scores.
func (c *Catalog) Search(ctx context.Context, query string, topK int) (out []Match, err error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	ctx, span := observability.StartSpan(ctx, "catalog.Search", attribute.Int("catalog.top_k", topK))
	defer func() { observability.EndSpan(span, err) }()

	vec, err := c.embedOne(ctx, query)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.index.len() == 0 {
		n := min(topK, len(c.entries))
		out = make([]Match, 0, n)
		for _, e := range c.entries[:n] {
			out = append(out, Match{Entry: e.clone()})
		}
		return out, nil
	}

	hits, err := c.index.search(vec, topK)
	if err != nil {
		return nil, err
	}
	out = make([]Match, 0, len(hits))
	for _, h := range hits {
		score := similarity(h.dist)
		out = append(out, Match{Entry: c.entries[h.pos].clone(), Score: &score})
	}
	return out, nil
}

// Add appends e and saves a snapshot. The new entry is embedded in the same
// batch as any entries still missing a vector, so the index keeps covering
// the whole catalog. A failed embed or save leaves the catalog as it was.
func (c *Catalog) Add(ctx context.Context, e Entry) (err error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return ErrNameMissing
	}
	ctx, span := observability.StartSpan(ctx, "catalog.Add", attribute.String("catalog.entry", e.Name))
	defer func() { observability.EndSpan(span, err) }()

	if c.embedder == nil {
		return fmt.Errorf("%w: no embedder configured", ErrEmbedding)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pos := len(c.entries)
	c.entries = append(c.entries, e.clone())
	n, err := c.indexPendingLocked(ctx)
	if err != nil {
		c.entries = c.entries[:pos]
		return err
	}
	c.log.Info("catalog entry added", "name", e.Name, "position", pos, "embedded", n)
	return nil
}

// Reindex embeds every entry without a vector in one batch and saves.
func (c *Catalog) Reindex(ctx context.Context) (n int, err error) {
	ctx, span := observability.StartSpan(ctx, "catalog.Reindex")
	defer func() { observability.EndSpan(span, err) }()

	if c.embedder == nil {
		return 0, fmt.Errorf("%w: no embedder configured", ErrEmbedding)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n, err = c.indexPendingLocked(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.log.Info("catalog reindexed", "embedded", n)
	}
	return n, nil
}

// indexPendingLocked embeds all unindexed entries in a single call, adds
// them to the index and saves. On error the index is restored. Nothing is
// saved when every entry already has a vector.
func (c *Catalog) indexPendingLocked(ctx context.Context) (int, error) {
	var (
		positions []int
		texts     []string
	)
	for i, e := range c.entries {
		if !c.index.contains(i) {
			positions = append(positions, i)
			texts = append(texts, e.EmbeddingText())
		}
	}
	if len(positions) == 0 {
		return 0, nil
	}

	vecs, err := c.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if len(vecs) != len(texts) {
		return 0, fmt.Errorf("%w: got %d vectors for %d entries", ErrEmbedding, len(vecs), len(texts))
	}
	for _, v := range vecs {
		if len(v) != c.dim {
			return 0, fmt.Errorf("%w: got %d want %d", ErrDimension, len(v), c.dim)
		}
	}

	prev := c.index.len()
	for i, pos := range positions {
		if err := c.index.add(pos, vecs[i]); err != nil {
			c.index.truncate(prev)
			return 0, err
		}
	}
	if err := c.saveLocked(ctx); err != nil {
		c.index.truncate(prev)
		return 0, err
	}
	return len(positions), nil
}

func (c *Catalog) embedOne(ctx context.Context, text string) ([]float32, error) {
	if c.embedder == nil {
		return nil, fmt.Errorf("%w: no embedder configured", ErrEmbedding)
	}
	vecs, err := c.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for 1 input", ErrEmbedding, len(vecs))
	}
	return vecs[0], nil
}

func (c *Catalog) saveLocked(ctx context.Context) error {
	snap := &Snapshot{
		Dimension: c.dim,
		Entries:   make([]Entry, len(c.entries)),
		Vectors:   make([]Vector, 0, c.index.len()),
		SavedAt:   time.Now().UTC(),
	}
	for i, e := range c.entries {
		snap.Entries[i] = e.clone()
	}
	for i, v := range c.index.vectors {
		snap.Vectors = append(snap.Vectors, Vector{Position: c.index.positions[i], Values: append([]float32(nil), v...)})
	}
	if err := c.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}
