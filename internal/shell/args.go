package shell

import (
	"encoding/json"
	"reflect"
	"strings"
)

// decodeArgs re-marshals a loosely-typed arguments object into a typed
// per-tool record. A typed record plus this single conversion layer is the
// validation boundary the Shell applies before any adapter call; a
// non-object or unmarshal-incompatible payload is surfaced as
// invalid_arguments by the caller.
func decodeArgs(raw map[string]interface{}, dst interface{}) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// trimStrings trims every string field of the struct dst points to in
// place, so "required"/"required_without*" tags reject whitespace-only
// values the same way they reject absent ones (§4.1: non-empty after
// trimming).
func trimStrings(dst interface{}) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

// boundArgs is implemented by every per-tool argument struct below except
// describeCountryArgs (describe_country is handled by the Shell directly),
// so the Shell can read the country selector straight off a validated
// struct, before resolving an adapter.
type boundArgs interface {
	country() string
}

type describeCountryArgs struct {
	Country string `json:"country" validate:"required"`
}

type searchDocumentsArgs struct {
	Country string `json:"country" validate:"required"`
	Query   string `json:"query" validate:"required"`
	Limit   int    `json:"limit"`
}

func (a *searchDocumentsArgs) country() string { return a.Country }

type getDocumentArgs struct {
	Country string `json:"country" validate:"required"`
	ID      string `json:"id" validate:"required"`
}

func (a *getDocumentArgs) country() string { return a.Country }

type searchCaseLawArgs struct {
	Country  string `json:"country" validate:"required"`
	Query    string `json:"query" validate:"required"`
	Limit    int    `json:"limit"`
	Court    string `json:"court"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
}

func (a *searchCaseLawArgs) country() string { return a.Country }

type getPreparatoryWorksArgs struct {
	Country   string `json:"country" validate:"required"`
	Citation  string `json:"citation" validate:"required_without_all=StatuteID Query"`
	StatuteID string `json:"statuteId" validate:"required_without_all=Citation Query"`
	Query     string `json:"query" validate:"required_without_all=Citation StatuteID"`
	Limit     int    `json:"limit"`
}

func (a *getPreparatoryWorksArgs) country() string { return a.Country }

type parseCitationArgs struct {
	Country  string `json:"country" validate:"required"`
	Citation string `json:"citation" validate:"required"`
}

func (a *parseCitationArgs) country() string { return a.Country }

type validateCitationArgs struct {
	Country  string `json:"country" validate:"required"`
	Citation string `json:"citation" validate:"required"`
}

func (a *validateCitationArgs) country() string { return a.Country }

type formatCitationArgs struct {
	Country  string `json:"country" validate:"required"`
	Citation string `json:"citation" validate:"required"`
	Style    string `json:"style" validate:"omitempty,oneof=default short pinpoint"`
}

func (a *formatCitationArgs) country() string { return a.Country }

type checkCurrencyArgs struct {
	Country   string `json:"country" validate:"required"`
	Citation  string `json:"citation" validate:"required_without=StatuteID"`
	StatuteID string `json:"statuteId" validate:"required_without=Citation"`
	AsOfDate  string `json:"asOfDate"`
}

func (a *checkCurrencyArgs) country() string { return a.Country }

type buildLegalStanceArgs struct {
	Country                 string `json:"country" validate:"required"`
	Query                   string `json:"query" validate:"required"`
	Limit                   int    `json:"limit"`
	IncludeCaseLaw          bool   `json:"includeCaseLaw"`
	IncludePreparatoryWorks bool   `json:"includePreparatoryWorks"`
}

func (a *buildLegalStanceArgs) country() string { return a.Country }

type getEuBasisArgs struct {
	Country    string `json:"country" validate:"required"`
	Citation   string `json:"citation" validate:"required_without_all=StatuteID DocumentID"`
	StatuteID  string `json:"statuteId" validate:"required_without_all=Citation DocumentID"`
	DocumentID string `json:"documentId" validate:"required_without_all=Citation StatuteID"`
	Limit      int    `json:"limit"`
}

func (a *getEuBasisArgs) country() string { return a.Country }

type searchEuImplementationsArgs struct {
	Country string `json:"country" validate:"required"`
	Query   string `json:"query" validate:"required"`
	Limit   int    `json:"limit"`
}

func (a *searchEuImplementationsArgs) country() string { return a.Country }

type getNationalImplementationsArgs struct {
	Country string `json:"country" validate:"required"`
	EuID    string `json:"euId" validate:"required"`
	Limit   int    `json:"limit"`
}

func (a *getNationalImplementationsArgs) country() string { return a.Country }

type getProvisionEuBasisArgs struct {
	Country    string `json:"country" validate:"required"`
	DocumentID string `json:"documentId" validate:"required"`
	Limit      int    `json:"limit"`
}

func (a *getProvisionEuBasisArgs) country() string { return a.Country }

type validateEuComplianceArgs struct {
	Country   string `json:"country" validate:"required"`
	EuID      string `json:"euId" validate:"required"`
	Citation  string `json:"citation"`
	StatuteID string `json:"statuteId"`
}

func (a *validateEuComplianceArgs) country() string { return a.Country }

type runIngestionArgs struct {
	Country  string `json:"country" validate:"required"`
	SourceID string `json:"sourceId"`
	DryRun   bool   `json:"dryRun"`
}

func (a *runIngestionArgs) country() string { return a.Country }

// argsFactories lists every tool the Shell dispatches to a resolved
// adapter (everything except list_countries/describe_country, which the
// Shell handles directly). Presence in this table is what "a known tool
// name" means; HandleToolCall checks it before resolving an adapter.
var argsFactories = map[string]func() boundArgs{
	"search_documents":             func() boundArgs { return &searchDocumentsArgs{} },
	"get_document":                 func() boundArgs { return &getDocumentArgs{} },
	"search_case_law":              func() boundArgs { return &searchCaseLawArgs{} },
	"get_preparatory_works":        func() boundArgs { return &getPreparatoryWorksArgs{} },
	"parse_citation":               func() boundArgs { return &parseCitationArgs{} },
	"validate_citation":            func() boundArgs { return &validateCitationArgs{} },
	"format_citation":              func() boundArgs { return &formatCitationArgs{} },
	"check_currency":               func() boundArgs { return &checkCurrencyArgs{} },
	"build_legal_stance":           func() boundArgs { return &buildLegalStanceArgs{} },
	"get_eu_basis":                 func() boundArgs { return &getEuBasisArgs{} },
	"search_eu_implementations":    func() boundArgs { return &searchEuImplementationsArgs{} },
	"get_national_implementations": func() boundArgs { return &getNationalImplementationsArgs{} },
	"get_provision_eu_basis":       func() boundArgs { return &getProvisionEuBasisArgs{} },
	"validate_eu_compliance":       func() boundArgs { return &validateEuComplianceArgs{} },
	"run_ingestion":                func() boundArgs { return &runIngestionArgs{} },
}
