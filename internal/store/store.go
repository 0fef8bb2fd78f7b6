package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gongahkia/lexcore/internal/cache"
	"github.com/gongahkia/lexcore/internal/citation"
	"github.com/gongahkia/lexcore/internal/querycompile"
	"github.com/gongahkia/lexcore/pkg/models"
)

// Store wraps a Backend and owns every cross-backend semantic the spec
// requires: one-shot capability/metadata caching, three-tier search stage
// ordering, stable dedup, and limit clamping.
type Store struct {
	backend Backend
	grammar citation.Grammar

	openOnce sync.Once
	openErr  error

	capsOnce sync.Once
	caps     models.CapabilitySet
	capsErr  error

	metaOnce sync.Once
	meta     StoreMetadata
	metaErr  error

	// searchCache memoizes SearchStatutes results across calls. Unset by
	// default (the in-process sync.Once caching above already satisfies
	// the no-shared-mutable-cache requirement); set via SetCache for
	// deployments that configure a shared cache.Cache backend.
	searchCache    cache.Cache
	searchCacheTTL time.Duration
}

// New builds a Store over backend. grammar is used to recognize exact
// citation queries for the first search stage; pass citation.NewGerman()
// for the German adapter.
func New(backend Backend, grammar citation.Grammar) *Store {
	return &Store{backend: backend, grammar: grammar}
}

// SetCache attaches a shared cache.Cache to memoize SearchStatutes results
// across process instances, keyed by query+limit, for ttl. Optional: the
// Store behaves identically to New's default (no cross-call memoization
// beyond the per-process capability/metadata sync.Once) when never called.
func (s *Store) SetCache(c cache.Cache, ttl time.Duration) {
	s.searchCache = c
	s.searchCacheTTL = ttl
}

func (s *Store) ensureOpen(ctx context.Context) error {
	s.openOnce.Do(func() {
		s.openErr = s.backend.Open(ctx)
	})
	return s.openErr
}

// Capabilities returns the process-lifetime cached Capability Set.
func (s *Store) Capabilities(ctx context.Context) (models.CapabilitySet, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}
	s.capsOnce.Do(func() {
		s.caps, s.capsErr = s.backend.Capabilities(ctx)
	})
	return s.caps, s.capsErr
}

func (s *Store) Metadata(ctx context.Context) (StoreMetadata, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return StoreMetadata{}, err
	}
	s.metaOnce.Do(func() {
		s.meta, s.metaErr = s.backend.Metadata(ctx)
	})
	return s.meta, s.metaErr
}

func (s *Store) Counts(ctx context.Context) (TableCounts, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return TableCounts{}, err
	}
	return s.backend.Counts(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// clamp enforces the backpressure policy of §5: limit is clamped to
// [1,max], falling back to def when zero.
func clamp(limit, def, max int) int {
	if limit == 0 {
		limit = def
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}

// substringTokens tokenizes a query for the final fallback stage: lowercase
// whitespace-split tokens of length >= 2.
func substringTokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

// mergeDedup appends src's documents to dst, skipping any id already in
// seen, until dst reaches limit. Returns the possibly-extended dst.
func mergeDedup(dst []*models.Document, src []*models.Document, seen map[string]bool, limit int) []*models.Document {
	for _, d := range src {
		if len(dst) >= limit {
			break
		}
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		dst = append(dst, d)
	}
	return dst
}

// GetByID probes statutes, then case law, then preparatory works, in that
// order, returning the first match.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Document, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}
	return s.backend.GetByID(ctx, id)
}

// GetByCitation parses citation and joins on any of its normalized lookup
// forms, returning rows with the preferred normalization first.
func (s *Store) GetByCitation(ctx context.Context, citationStr string, limit int) ([]*models.Document, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}
	limit = clamp(limit, 20, 100)
	parsed := s.grammar.Parse(citationStr)
	if parsed == nil {
		return nil, nil
	}
	return s.backend.GetDocumentsByCitation(ctx, lowerAll(parsed.LookupCitations), limit)
}

// SearchStatutes runs the three-tier search over law_documents.
func (s *Store) SearchStatutes(ctx context.Context, q StatuteQuery) ([]*models.Document, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}
	limit := clamp(q.Limit, 20, 100)

	cacheKey := fmt.Sprintf("statutes:%s:%d", strings.ToLower(strings.TrimSpace(q.Query)), limit)
	if s.searchCache != nil {
		if cached, err := s.searchCache.Get(ctx, cacheKey); err == nil && cached != nil {
			if docs, ok := cached.([]*models.Document); ok {
				return docs, nil
			}
		}
	}

	seen := make(map[string]bool, limit)
	results := make([]*models.Document, 0, limit)

	if parsed := s.grammar.Parse(q.Query); parsed != nil {
		rows, err := s.backend.SearchStatutesExact(ctx, lowerAll(parsed.LookupCitations), limit)
		if err != nil {
			return nil, err
		}
		results = mergeDedup(results, rows, seen, limit)
	}

	if len(results) < limit {
		cq := querycompile.Compile(q.Query)
		if cq.Primary != "" {
			rows, err := s.backend.SearchStatutesFullText(ctx, cq.Primary, limit)
			if err != nil {
				return nil, err
			}
			results = mergeDedup(results, rows, seen, limit)
		}
		if len(results) < limit && cq.Fallback != "" {
			rows, err := s.backend.SearchStatutesFullText(ctx, cq.Fallback, limit)
			if err != nil {
				return nil, err
			}
			results = mergeDedup(results, rows, seen, limit)
		}
	}

	if len(results) < limit {
		tokens := substringTokens(q.Query)
		if len(tokens) > 0 {
			rows, err := s.backend.SearchStatutesSubstring(ctx, tokens, limit)
			if err != nil {
				return nil, err
			}
			results = mergeDedup(results, rows, seen, limit)
		}
	}

	if s.searchCache != nil {
		_ = s.searchCache.Set(ctx, cacheKey, results, s.searchCacheTTL)
	}

	return results, nil
}

// SearchCaseLaw runs the same three-stage template over case_law_documents,
// with the exact stage matching on {ecli, file_number, citation, case_id,
// id} and court/date filters applied at every stage.
func (s *Store) SearchCaseLaw(ctx context.Context, q CaseLawQuery) ([]*models.Document, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}
	limit := clamp(q.Limit, 20, 100)
	seen := make(map[string]bool, limit)
	results := make([]*models.Document, 0, limit)

	keys := []string{strings.ToLower(strings.TrimSpace(q.Query))}
	if keys[0] != "" {
		rows, err := s.backend.SearchCaseLawExact(ctx, keys, q, limit)
		if err != nil {
			return nil, err
		}
		results = mergeDedup(results, rows, seen, limit)
	}

	if len(results) < limit {
		cq := querycompile.Compile(q.Query)
		if cq.Primary != "" {
			rows, err := s.backend.SearchCaseLawFullText(ctx, cq.Primary, q, limit)
			if err != nil {
				return nil, err
			}
			results = mergeDedup(results, rows, seen, limit)
		}
		if len(results) < limit && cq.Fallback != "" {
			rows, err := s.backend.SearchCaseLawFullText(ctx, cq.Fallback, q, limit)
			if err != nil {
				return nil, err
			}
			results = mergeDedup(results, rows, seen, limit)
		}
	}

	if len(results) < limit {
		tokens := substringTokens(q.Query)
		if len(tokens) > 0 {
			rows, err := s.backend.SearchCaseLawSubstring(ctx, tokens, q, limit)
			if err != nil {
				return nil, err
			}
			results = mergeDedup(results, rows, seen, limit)
		}
	}

	return results, nil
}

// SearchPreparatoryWorks requires at least one of {citation, statuteId,
// query}; callers must validate this before calling (the adapter maps the
// absence to invalid_arguments).
func (s *Store) SearchPreparatoryWorks(ctx context.Context, q PrepWorksQuery) ([]*models.Document, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}
	limit := clamp(q.Limit, 20, 100)

	var hints []string
	if q.Citation != "" {
		hints = append(hints, q.Citation)
		if parsed := s.grammar.Parse(q.Citation); parsed != nil {
			if code, ok := parsed.Parsed[models.CompCode]; ok {
				hints = append(hints, code)
			}
		}
	}
	if q.StatuteID != "" {
		hints = append(hints, q.StatuteID)
	}
	if q.Query != "" {
		hints = append(hints, q.Query)
	}

	if len(hints) == 0 {
		return s.backend.SearchPrepWorksListing(ctx, limit)
	}

	seen := make(map[string]bool, limit)
	results := make([]*models.Document, 0, limit)

	cq := querycompile.Compile(hints[0])
	if cq.Primary != "" {
		rows, err := s.backend.SearchPrepWorksFullText(ctx, cq.Primary, limit)
		if err != nil {
			return nil, err
		}
		results = mergeDedup(results, rows, seen, limit)
	}

	if len(results) < limit {
		var allTokens []string
		for _, h := range hints {
			allTokens = append(allTokens, substringTokens(h)...)
		}
		if len(allTokens) > 0 {
			rows, err := s.backend.SearchPrepWorksSubstring(ctx, allTokens, limit)
			if err != nil {
				return nil, err
			}
			results = mergeDedup(results, rows, seen, limit)
		}
	}

	return results, nil
}
