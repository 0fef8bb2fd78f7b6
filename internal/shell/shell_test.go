package shell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gongahkia/lexcore/internal/adapter"
	"github.com/gongahkia/lexcore/internal/registry"
	lexerrors "github.com/gongahkia/lexcore/pkg/errors"
	"github.com/gongahkia/lexcore/pkg/models"
)

// fakeAdapter is a minimal registry.Adapter stub for exercising Shell
// dispatch, validation, and capability gating without a real Store.
type fakeAdapter struct {
	descriptor models.AdapterDescriptor
	caps       models.CapabilitySet
	capsErr    error
}

func (f *fakeAdapter) Descriptor() models.AdapterDescriptor { return f.descriptor }
func (f *fakeAdapter) Capabilities(ctx context.Context) (models.CapabilitySet, error) {
	return f.caps, f.capsErr
}
func (f *fakeAdapter) SearchDocuments(ctx context.Context, query string, limit int) (adapter.SearchResult, error) {
	return adapter.SearchResult{Documents: []*models.Document{{ID: "x"}}, Total: 1}, nil
}
func (f *fakeAdapter) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return &models.Document{ID: id}, nil
}
func (f *fakeAdapter) SearchCaseLaw(ctx context.Context, query string, limit int, court, dateFrom, dateTo string) (adapter.SearchResult, error) {
	return adapter.SearchResult{}, nil
}
func (f *fakeAdapter) GetPreparatoryWorks(ctx context.Context, citationStr, statuteID, query string, limit int) (adapter.SearchResult, error) {
	return adapter.SearchResult{}, nil
}
func (f *fakeAdapter) ParseCitation(s string) *adapter.ParseCitationResult {
	return &adapter.ParseCitationResult{Original: s, Normalized: s}
}
func (f *fakeAdapter) ValidateCitation(ctx context.Context, s string) (adapter.ValidateCitationResult, error) {
	return adapter.ValidateCitationResult{Valid: true, Normalized: s}, nil
}
func (f *fakeAdapter) FormatCitation(s, style string) adapter.FormatCitationResult {
	return adapter.FormatCitationResult{Original: s, Formatted: s, Style: style, Valid: true}
}
func (f *fakeAdapter) CheckCurrency(ctx context.Context, citationStr, statuteID, asOfDate string) (adapter.CurrencyResult, error) {
	return adapter.CurrencyResult{Status: adapter.StatusLikelyInForce}, nil
}
func (f *fakeAdapter) BuildLegalStance(ctx context.Context, query string, limit int, includeCaseLaw, includePreparatoryWorks bool) (adapter.LegalStanceResult, error) {
	return adapter.LegalStanceResult{Query: query}, nil
}
func (f *fakeAdapter) GetEuBasis(ctx context.Context, citationStr, statuteID, documentID string, limit int) (adapter.EuBasisResult, error) {
	return adapter.EuBasisResult{}, nil
}
func (f *fakeAdapter) SearchEuImplementations(ctx context.Context, query string, limit int) (adapter.EuImplementationsResult, error) {
	return adapter.EuImplementationsResult{}, nil
}
func (f *fakeAdapter) GetNationalImplementations(ctx context.Context, euID string, limit int) (adapter.NationalImplementationsResult, error) {
	return adapter.NationalImplementationsResult{}, nil
}
func (f *fakeAdapter) GetProvisionEuBasis(ctx context.Context, documentID string, limit int) (adapter.EuBasisResult, error) {
	return adapter.EuBasisResult{}, nil
}
func (f *fakeAdapter) ValidateEuCompliance(ctx context.Context, euID, citationStr, statuteID string) (adapter.ValidateEuComplianceResult, error) {
	return adapter.ValidateEuComplianceResult{}, nil
}
func (f *fakeAdapter) RunIngestion(ctx context.Context, sourceID string, dryRun bool) (adapter.IngestionReport, error) {
	return adapter.IngestionReport{SourceID: sourceID, DryRun: dryRun}, nil
}

func newTestShell(t *testing.T) *Shell {
	t.Helper()
	reg := registry.New()
	fa := &fakeAdapter{
		descriptor: models.AdapterDescriptor{
			JurisdictionCode: "de", Name: "Germany",
			Documents: true, CaseLaw: false, PreparatoryWorks: true,
			Citations: true, Formatting: true, Currency: true,
			LegalStance: true, EU: true, Ingestion: false,
		},
		caps: models.NewCapabilitySet(models.CapCoreLegislation),
	}
	require.NoError(t, reg.Register(fa))
	return New(reg)
}

func TestUnknownCountry(t *testing.T) {
	s := newTestShell(t)
	res := s.HandleToolCall(context.Background(), "describe_country", map[string]interface{}{"country": "se"})
	assert.False(t, res.OK)
	require.NotNil(t, res.Error)
	assert.Equal(t, "unknown_country", res.Error.Code)
}

func TestRunIngestionMissingCountry(t *testing.T) {
	s := newTestShell(t)
	res := s.HandleToolCall(context.Background(), "run_ingestion", map[string]interface{}{})
	assert.False(t, res.OK)
	require.NotNil(t, res.Error)
	assert.Equal(t, "invalid_arguments", res.Error.Code)
}

func TestSearchDocumentsSuccess(t *testing.T) {
	s := newTestShell(t)
	res := s.HandleToolCall(context.Background(), "search_documents", map[string]interface{}{"country": "de", "query": "BGB"})
	assert.True(t, res.OK)
	assert.Nil(t, res.Error)
}

func TestStaticCapabilityGating(t *testing.T) {
	s := newTestShell(t)
	res := s.HandleToolCall(context.Background(), "search_case_law", map[string]interface{}{"country": "de", "query": "x"})
	assert.False(t, res.OK)
	require.NotNil(t, res.Error)
	assert.Equal(t, "unsupported_capability", res.Error.Code)
}

func TestRuntimeCapabilityUpgradeNotice(t *testing.T) {
	s := newTestShell(t)
	res := s.HandleToolCall(context.Background(), "get_eu_basis", map[string]interface{}{"country": "de", "statuteId": "bdsg"})
	assert.True(t, res.OK)
	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, data["available"])
}

func TestUnknownTool(t *testing.T) {
	s := newTestShell(t)
	res := s.HandleToolCall(context.Background(), "delete_everything", map[string]interface{}{"country": "de"})
	assert.False(t, res.OK)
	require.NotNil(t, res.Error)
	assert.Equal(t, "unknown_tool", res.Error.Code)
}

func TestListCountries(t *testing.T) {
	s := newTestShell(t)
	res := s.HandleToolCall(context.Background(), "list_countries", nil)
	assert.True(t, res.OK)
}

// newUnavailableShell wires a fakeAdapter whose Capabilities call reports
// ErrUnavailable, as a Store does when its backing DB file is absent.
func newUnavailableShell(t *testing.T) *Shell {
	t.Helper()
	reg := registry.New()
	fa := &fakeAdapter{
		descriptor: models.AdapterDescriptor{
			JurisdictionCode: "de", Name: "Germany",
			Documents: true, CaseLaw: false, PreparatoryWorks: true,
			Citations: true, Formatting: true, Currency: true,
			LegalStance: true, EU: true, Ingestion: false,
		},
		capsErr: lexerrors.ErrUnavailable,
	}
	require.NoError(t, reg.Register(fa))
	return New(reg)
}

func TestListCountriesDegradesOnUnavailableStore(t *testing.T) {
	s := newUnavailableShell(t)
	res := s.HandleToolCall(context.Background(), "list_countries", nil)
	assert.True(t, res.OK)
	assert.Nil(t, res.Error)
}

func TestDescribeCountryDegradesOnUnavailableStore(t *testing.T) {
	s := newUnavailableShell(t)
	res := s.HandleToolCall(context.Background(), "describe_country", map[string]interface{}{"country": "de"})
	require.True(t, res.OK)
	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	flags, ok := data["capabilities"].(map[string]bool)
	require.True(t, ok)
	for cap, has := range flags {
		assert.Falsef(t, has, "capability %s should be false when the store is unavailable", cap)
	}
}

func TestRuntimeGatedToolDegradesOnUnavailableStore(t *testing.T) {
	s := newUnavailableShell(t)
	res := s.HandleToolCall(context.Background(), "get_eu_basis", map[string]interface{}{"country": "de", "statuteId": "bdsg"})
	assert.True(t, res.OK)
	require.Nil(t, res.Error)
	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, data["available"])
}
