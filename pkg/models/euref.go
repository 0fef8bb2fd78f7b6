package models

// EuReferenceType is the closed set of EU act types the extractor detects.
type EuReferenceType string

const (
	EuDirective  EuReferenceType = "directive"
	EuRegulation EuReferenceType = "regulation"
	EuDecision   EuReferenceType = "decision"
	EuAct        EuReferenceType = "act"
)

// EuReference is a cross-reference to an external EU legal act, extracted
// from a document's searchable text.
type EuReference struct {
	EuID             string          `json:"euId"`
	EuType           EuReferenceType `json:"euType"`
	SourceKind       DocumentKind    `json:"sourceKind"`
	SourceID         string          `json:"sourceId"`
	SourceStatuteID  string          `json:"sourceStatuteId,omitempty"`
	SourceCitation   string          `json:"sourceCitation,omitempty"`
	SourceTitle      string          `json:"sourceTitle,omitempty"`
	SourceURL        string          `json:"sourceUrl,omitempty"`
	ContextSnippet   string          `json:"contextSnippet"`
	Confidence       float64         `json:"confidence"`
}

// ImplementationSummary groups EuReferences by (euId, euType) for
// get_national_implementations / search_eu_implementations responses.
type ImplementationSummary struct {
	EuID                string   `json:"euId"`
	EuType              EuReferenceType `json:"euType"`
	ImplementationCount int      `json:"implementationCount"`
	StatuteIDs          []string `json:"statuteIds"`
}
