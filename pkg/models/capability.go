package models

// Capability is one member of the closed vocabulary of data capabilities a
// Store snapshot may expose.
type Capability string

const (
	CapCoreLegislation     Capability = "core_legislation"
	CapBasicCaseLaw        Capability = "basic_case_law"
	CapEuReferences        Capability = "eu_references"
	CapExpandedCaseLaw     Capability = "expanded_case_law"
	CapFullPreparatoryWorks Capability = "full_preparatory_works"
	CapAgencyGuidance      Capability = "agency_guidance"
)

// AllCapabilities enumerates the closed vocabulary, used for validation and
// deterministic iteration (e.g. describe_country's capabilities map).
var AllCapabilities = []Capability{
	CapCoreLegislation,
	CapBasicCaseLaw,
	CapEuReferences,
	CapExpandedCaseLaw,
	CapFullPreparatoryWorks,
	CapAgencyGuidance,
}

// CapabilitySet is a set over Capability, derived from table presence in
// the Store and cached for the process lifetime.
type CapabilitySet map[Capability]bool

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	cs := make(CapabilitySet, len(caps))
	for _, c := range caps {
		cs[c] = true
	}
	return cs
}

func (cs CapabilitySet) Has(c Capability) bool {
	return cs[c]
}

// List returns the set's members in the AllCapabilities order, for
// deterministic JSON output.
func (cs CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(cs))
	for _, c := range AllCapabilities {
		if cs[c] {
			out = append(out, c)
		}
	}
	return out
}

// AdapterDescriptor describes a registered adapter's identity and static
// capability contract. Static flags are the contract; the runtime
// CapabilitySet (obtained separately from the Store) is the availability.
type AdapterDescriptor struct {
	JurisdictionCode string   `json:"jurisdictionCode"`
	Name             string   `json:"name"`
	DefaultLanguage  string   `json:"defaultLanguage"`
	Sources          []string `json:"sources"`

	Documents        bool `json:"-"`
	CaseLaw          bool `json:"-"`
	PreparatoryWorks bool `json:"-"`
	Citations        bool `json:"-"`
	Formatting       bool `json:"-"`
	Currency         bool `json:"-"`
	LegalStance      bool `json:"-"`
	EU               bool `json:"-"`
	Ingestion        bool `json:"-"`
}

// ToolSupport returns a map of tool name to whether this adapter's static
// contract supports it, used by describe_country.
func (d AdapterDescriptor) ToolSupport() map[string]bool {
	return map[string]bool{
		"search_documents":            d.Documents,
		"get_document":                d.Documents,
		"search_case_law":             d.CaseLaw,
		"get_preparatory_works":       d.PreparatoryWorks,
		"parse_citation":              d.Citations,
		"validate_citation":           d.Citations,
		"format_citation":             d.Formatting,
		"check_currency":              d.Currency,
		"build_legal_stance":          d.LegalStance,
		"get_eu_basis":                d.EU,
		"search_eu_implementations":   d.EU,
		"get_national_implementations": d.EU,
		"get_provision_eu_basis":      d.EU,
		"validate_eu_compliance":      d.EU,
		"run_ingestion":               d.Ingestion,
	}
}
