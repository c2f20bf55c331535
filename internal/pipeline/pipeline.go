// Package pipeline orchestrates the analyze path: read the uploaded
// file, consult the derivation cache, run the engine on a miss.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/finlens/finlens/internal/cache"
	"github.com/finlens/finlens/internal/derive"
	"github.com/finlens/finlens/internal/ingest"
	"github.com/finlens/finlens/internal/model"
)

// Pipeline runs ingestion and derivation with optional memoization
type Pipeline struct {
	store  *cache.Store // nil when caching is disabled
	config *model.Config
}

// New creates a pipeline from configuration. With caching enabled, a
// cache directory selects the layered memory+disk backend; otherwise
// results are memoized in memory only.
func New(cfg *model.Config) *Pipeline {
	var store *cache.Store
	if cfg.Cache.Enabled {
		var backend cache.Backend
		if cfg.Cache.Dir != "" {
			backend = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			backend = cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
		}
		store = cache.NewStore(backend, cfg.Cache.MemoryTTL)
	}

	return &Pipeline{
		store:  store,
		config: cfg,
	}
}

// AnalyzeFile reads a statement file and returns its enriched statement
func (p *Pipeline) AnalyzeFile(path string) (*model.Statement, error) {
	rows, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Analyze(rows)
}

// AnalyzeReader reads a statement from r in the given format
func (p *Pipeline) AnalyzeReader(r io.Reader, format ingest.Format) (*model.Statement, error) {
	rows, err := ingest.Read(r, format)
	if err != nil {
		return nil, err
	}
	return p.Analyze(rows)
}

// Analyze derives the enriched statement for raw rows, reusing a cached
// result when the same content was analyzed before. Derivation is pure,
// so a cache hit is indistinguishable from a fresh run.
func (p *Pipeline) Analyze(rows []model.RawRow) (*model.Statement, error) {
	if p.store != nil {
		if st, found := p.store.Get(rows); found {
			if p.config.Output.Verbose {
				fmt.Fprintf(os.Stderr, "cache hit for statement %s\n", cache.Fingerprint(rows))
			}
			return st, nil
		}
	}

	st, err := derive.EnrichWithLabels(rows, p.config.Labels)
	if err != nil {
		return nil, err
	}

	if p.store != nil {
		if err := p.store.Put(rows, st); err != nil && p.config.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Warning: failed to cache statement: %v\n", err)
		}
	}

	return st, nil
}

// Lookup returns a previously derived statement by its content
// fingerprint without re-running the engine. Used by callers that hold
// only the fingerprint (the HTTP chat endpoint).
func (p *Pipeline) Lookup(fingerprint string) (*model.Statement, bool) {
	if p.store == nil {
		return nil, false
	}
	return p.store.GetByKey(fingerprint)
}
