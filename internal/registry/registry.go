// Package registry implements the Registry component: a case-insensitive
// jurisdiction-code to Adapter lookup, built once at process start from a
// static adapter list.
//
// Grounded on the teacher's internal/plugins/registry.go (mutex-guarded
// map, idempotent register, zerolog logging on register/unregister),
// narrowed from the teacher's multi-kind plugin taxonomy down to the single
// Adapter role the spec defines.
package registry

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gongahkia/lexcore/internal/adapter"
	lexerrors "github.com/gongahkia/lexcore/pkg/errors"
	"github.com/gongahkia/lexcore/pkg/models"
)

// Adapter is the surface the Shell dispatches against. *adapter.German
// satisfies it structurally.
type Adapter interface {
	Descriptor() models.AdapterDescriptor
	Capabilities(ctx context.Context) (models.CapabilitySet, error)

	SearchDocuments(ctx context.Context, query string, limit int) (adapter.SearchResult, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	SearchCaseLaw(ctx context.Context, query string, limit int, court, dateFrom, dateTo string) (adapter.SearchResult, error)
	GetPreparatoryWorks(ctx context.Context, citationStr, statuteID, query string, limit int) (adapter.SearchResult, error)

	ParseCitation(s string) *adapter.ParseCitationResult
	ValidateCitation(ctx context.Context, s string) (adapter.ValidateCitationResult, error)
	FormatCitation(s, style string) adapter.FormatCitationResult

	CheckCurrency(ctx context.Context, citationStr, statuteID, asOfDate string) (adapter.CurrencyResult, error)
	BuildLegalStance(ctx context.Context, query string, limit int, includeCaseLaw, includePreparatoryWorks bool) (adapter.LegalStanceResult, error)

	GetEuBasis(ctx context.Context, citationStr, statuteID, documentID string, limit int) (adapter.EuBasisResult, error)
	SearchEuImplementations(ctx context.Context, query string, limit int) (adapter.EuImplementationsResult, error)
	GetNationalImplementations(ctx context.Context, euID string, limit int) (adapter.NationalImplementationsResult, error)
	GetProvisionEuBasis(ctx context.Context, documentID string, limit int) (adapter.EuBasisResult, error)
	ValidateEuCompliance(ctx context.Context, euID, citationStr, statuteID string) (adapter.ValidateEuComplianceResult, error)

	RunIngestion(ctx context.Context, sourceID string, dryRun bool) (adapter.IngestionReport, error)
}

// Registry is the process-wide, case-insensitive jurisdiction lookup.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func New() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

func normalize(code string) string {
	out := make([]rune, 0, len(code))
	for _, r := range code {
		if r >= 'A' && r <= 'Z' {
			r = r - 'A' + 'a'
		}
		out = append(out, r)
	}
	return string(out)
}

// Register adds an adapter under its descriptor's jurisdiction code.
// Idempotent for the identical instance; rejects a second registration
// under the same normalized code with duplicate_country otherwise.
func (r *Registry) Register(a Adapter) error {
	code := normalize(a.Descriptor().JurisdictionCode)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.adapters[code]; ok {
		if existing == a {
			return nil
		}
		return lexerrors.DuplicateCountry(code)
	}
	r.adapters[code] = a
	log.Info().Str("country", code).Msg("registered jurisdiction adapter")
	return nil
}

// Get looks up an adapter by jurisdiction code, case-insensitively.
func (r *Registry) Get(code string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[normalize(code)]
	if !ok {
		return nil, lexerrors.UnknownCountry(code)
	}
	return a, nil
}

// CountrySummary is the list_countries row shape.
type CountrySummary struct {
	Country      string          `json:"country"`
	Capabilities map[string]bool `json:"capabilities"`
}

// List returns every registered jurisdiction with its runtime Capability
// Set, sorted by jurisdiction code for deterministic output.
func (r *Registry) List(ctx context.Context) ([]CountrySummary, error) {
	r.mu.RLock()
	codes := make([]string, 0, len(r.adapters))
	snapshot := make(map[string]Adapter, len(r.adapters))
	for code, a := range r.adapters {
		codes = append(codes, code)
		snapshot[code] = a
	}
	r.mu.RUnlock()

	sortStrings(codes)

	out := make([]CountrySummary, 0, len(codes))
	for _, code := range codes {
		a := snapshot[code]
		caps, err := a.Capabilities(ctx)
		if err != nil && err != lexerrors.ErrUnavailable {
			return nil, err
		}
		out = append(out, CountrySummary{Country: code, Capabilities: capFlags(caps)})
	}
	return out, nil
}

func capFlags(cs models.CapabilitySet) map[string]bool {
	out := make(map[string]bool, len(models.AllCapabilities))
	for _, c := range models.AllCapabilities {
		out[string(c)] = cs.Has(c)
	}
	return out
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j] < ss[j-1]; j-- {
			ss[j], ss[j-1] = ss[j-1], ss[j]
		}
	}
}
