// Package store implements the Store component: read-only access to the
// three primary document tables (law_documents, case_law_documents,
// preparatory_works), capability probing, and the three-tier search
// (exact citation -> full-text ranked -> substring fallback).
//
// Grounded on the teacher's internal/storage package: one Storage
// interface (here: Backend) with swappable SQLite/Postgres/Mongo
// implementations selected by config.Database.Driver, exactly as
// cmd/kite-api/main.go switches on it.
package store

import (
	"context"

	"github.com/gongahkia/lexcore/pkg/models"
)

// StatuteQuery parameterizes search_documents.
type StatuteQuery struct {
	Query string
	Limit int
}

// CaseLawQuery parameterizes search_case_law.
type CaseLawQuery struct {
	Query    string
	Limit    int
	Court    string
	DateFrom string
	DateTo   string
}

// PrepWorksQuery parameterizes get_preparatory_works.
type PrepWorksQuery struct {
	Citation  string
	StatuteID string
	Query     string
	Limit     int
}

// TableCounts are the per-table row counts exposed for diagnostics.
type TableCounts struct {
	LawDocuments      int64 `json:"lawDocuments"`
	CaseLawDocuments  int64 `json:"caseLawDocuments"`
	PreparatoryWorks  int64 `json:"preparatoryWorks"`
}

// StoreMetadata describes the opened corpus snapshot.
type StoreMetadata struct {
	Tier          string `json:"tier"`
	SchemaVersion int    `json:"schemaVersion"`
	BuiltAt       string `json:"builtAt"`
	Builder       string `json:"builder"`
}

// Backend is implemented once per supported database engine. Store wraps a
// Backend and owns all cross-backend semantics: capability-set caching,
// stage ordering, dedup, and limit clamping. A Backend need only return raw
// candidate rows per stage; it performs no merging.
type Backend interface {
	// Open prepares the backend for reads. Returns ErrUnavailable if the
	// underlying database cannot be reached/opened (e.g. file absent).
	Open(ctx context.Context) error

	// Capabilities probes which optional tables/indexes exist.
	Capabilities(ctx context.Context) (models.CapabilitySet, error)

	Metadata(ctx context.Context) (StoreMetadata, error)
	Counts(ctx context.Context) (TableCounts, error)

	GetByID(ctx context.Context, id string) (*models.Document, error)

	// SearchStatutesExact returns law_documents whose stored citation
	// (lowercased) matches any of lookupCitations, in candidate order then
	// id ascending.
	SearchStatutesExact(ctx context.Context, lookupCitations []string, limit int) ([]*models.Document, error)
	// SearchStatutesFullText runs a compiled expression against the
	// law_documents full-text index, ordered by rank.
	SearchStatutesFullText(ctx context.Context, compiled string, limit int) ([]*models.Document, error)
	// SearchStatutesSubstring applies AND-ed substring predicates over
	// title/citation/text_snippet.
	SearchStatutesSubstring(ctx context.Context, tokens []string, limit int) ([]*models.Document, error)

	SearchCaseLawExact(ctx context.Context, keys []string, filter CaseLawQuery, limit int) ([]*models.Document, error)
	SearchCaseLawFullText(ctx context.Context, compiled string, filter CaseLawQuery, limit int) ([]*models.Document, error)
	SearchCaseLawSubstring(ctx context.Context, tokens []string, filter CaseLawQuery, limit int) ([]*models.Document, error)

	SearchPrepWorksFullText(ctx context.Context, compiled string, limit int) ([]*models.Document, error)
	SearchPrepWorksSubstring(ctx context.Context, tokens []string, limit int) ([]*models.Document, error)
	SearchPrepWorksListing(ctx context.Context, limit int) ([]*models.Document, error)

	GetDocumentsByCitation(ctx context.Context, lookupCitations []string, limit int) ([]*models.Document, error)

	Close() error
}
