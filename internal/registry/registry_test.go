package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gongahkia/lexcore/internal/adapter"
	lexerrors "github.com/gongahkia/lexcore/pkg/errors"
	"github.com/gongahkia/lexcore/pkg/models"
)

// stubAdapter is a minimal Adapter satisfying the registry's dispatch
// surface; every business method beyond Descriptor/Capabilities is unused
// by these tests and panics if called.
type stubAdapter struct {
	descriptor models.AdapterDescriptor
	caps       models.CapabilitySet
	capsErr    error
}

func (s *stubAdapter) Descriptor() models.AdapterDescriptor { return s.descriptor }
func (s *stubAdapter) Capabilities(ctx context.Context) (models.CapabilitySet, error) {
	return s.caps, s.capsErr
}
func (s *stubAdapter) SearchDocuments(ctx context.Context, query string, limit int) (adapter.SearchResult, error) {
	panic("not used")
}
func (s *stubAdapter) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	panic("not used")
}
func (s *stubAdapter) SearchCaseLaw(ctx context.Context, query string, limit int, court, dateFrom, dateTo string) (adapter.SearchResult, error) {
	panic("not used")
}
func (s *stubAdapter) GetPreparatoryWorks(ctx context.Context, citationStr, statuteID, query string, limit int) (adapter.SearchResult, error) {
	panic("not used")
}
func (s *stubAdapter) ParseCitation(str string) *adapter.ParseCitationResult { panic("not used") }
func (s *stubAdapter) ValidateCitation(ctx context.Context, str string) (adapter.ValidateCitationResult, error) {
	panic("not used")
}
func (s *stubAdapter) FormatCitation(str, style string) adapter.FormatCitationResult {
	panic("not used")
}
func (s *stubAdapter) CheckCurrency(ctx context.Context, citationStr, statuteID, asOfDate string) (adapter.CurrencyResult, error) {
	panic("not used")
}
func (s *stubAdapter) BuildLegalStance(ctx context.Context, query string, limit int, includeCaseLaw, includePreparatoryWorks bool) (adapter.LegalStanceResult, error) {
	panic("not used")
}
func (s *stubAdapter) GetEuBasis(ctx context.Context, citationStr, statuteID, documentID string, limit int) (adapter.EuBasisResult, error) {
	panic("not used")
}
func (s *stubAdapter) SearchEuImplementations(ctx context.Context, query string, limit int) (adapter.EuImplementationsResult, error) {
	panic("not used")
}
func (s *stubAdapter) GetNationalImplementations(ctx context.Context, euID string, limit int) (adapter.NationalImplementationsResult, error) {
	panic("not used")
}
func (s *stubAdapter) GetProvisionEuBasis(ctx context.Context, documentID string, limit int) (adapter.EuBasisResult, error) {
	panic("not used")
}
func (s *stubAdapter) ValidateEuCompliance(ctx context.Context, euID, citationStr, statuteID string) (adapter.ValidateEuComplianceResult, error) {
	panic("not used")
}
func (s *stubAdapter) RunIngestion(ctx context.Context, sourceID string, dryRun bool) (adapter.IngestionReport, error) {
	panic("not used")
}

func TestRegisterAndGetCaseInsensitive(t *testing.T) {
	r := New()
	a := &stubAdapter{descriptor: models.AdapterDescriptor{JurisdictionCode: "de"}}
	require.NoError(t, r.Register(a))

	got, err := r.Get("DE")
	require.NoError(t, err)
	assert.Same(t, Adapter(a), got)
}

func TestRegisterDuplicateCountryRejected(t *testing.T) {
	r := New()
	a1 := &stubAdapter{descriptor: models.AdapterDescriptor{JurisdictionCode: "de"}}
	a2 := &stubAdapter{descriptor: models.AdapterDescriptor{JurisdictionCode: "de"}}
	require.NoError(t, r.Register(a1))

	err := r.Register(a2)
	require.Error(t, err)
	le := lexerrors.AsLexError(err)
	assert.Equal(t, "duplicate_country", le.Code)
}

func TestRegisterSameInstanceIsIdempotent(t *testing.T) {
	r := New()
	a := &stubAdapter{descriptor: models.AdapterDescriptor{JurisdictionCode: "de"}}
	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(a))
}

func TestGetUnknownCountry(t *testing.T) {
	r := New()
	_, err := r.Get("se")
	require.Error(t, err)
	le := lexerrors.AsLexError(err)
	assert.Equal(t, "unknown_country", le.Code)
}

func TestListSortsByCode(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(&stubAdapter{descriptor: models.AdapterDescriptor{JurisdictionCode: "fr"}, caps: models.NewCapabilitySet(models.CapCoreLegislation)}))
	require.NoError(t, r.Register(&stubAdapter{descriptor: models.AdapterDescriptor{JurisdictionCode: "de"}, caps: models.NewCapabilitySet(models.CapCoreLegislation)}))

	out, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "de", out[0].Country)
	assert.Equal(t, "fr", out[1].Country)
	assert.True(t, out[0].Capabilities[string(models.CapCoreLegislation)])
}

func TestListDegradesOnUnavailableStore(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(&stubAdapter{
		descriptor: models.AdapterDescriptor{JurisdictionCode: "de"},
		capsErr:    lexerrors.ErrUnavailable,
	}))

	out, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	for cap, has := range out[0].Capabilities {
		assert.Falsef(t, has, "capability %s should be false when the store is unavailable", cap)
	}
}

func TestListPropagatesOtherCapabilitiesErrors(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(&stubAdapter{
		descriptor: models.AdapterDescriptor{JurisdictionCode: "de"},
		capsErr:    assert.AnError,
	}))

	_, err := r.List(context.Background())
	assert.Error(t, err)
}
