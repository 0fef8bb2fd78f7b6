// Package models defines the retrieval core's data model: Document,
// ParsedCitation, EuReference, CapabilitySet, AdapterDescriptor, and the
// tool-call Result Envelope.
package models

// DocumentKind is the closed set of retrievable document kinds.
type DocumentKind string

const (
	KindStatute          DocumentKind = "statute"
	KindRegulation       DocumentKind = "regulation"
	KindCase             DocumentKind = "case"
	KindPreparatoryWork  DocumentKind = "preparatory_work"
	KindOther            DocumentKind = "other"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case KindStatute, KindRegulation, KindCase, KindPreparatoryWork, KindOther:
		return true
	}
	return false
}

// Document is the atomic retrieval unit returned by the Store and the
// Adapter's search/fetch operations.
type Document struct {
	ID            string                 `json:"id"`
	Jurisdiction  string                 `json:"jurisdiction"`
	Kind          DocumentKind           `json:"kind"`
	Title         string                 `json:"title"`
	Citation      string                 `json:"citation,omitempty"`
	SourceURL     string                 `json:"sourceUrl,omitempty"`
	EffectiveDate string                 `json:"effectiveDate,omitempty"`
	TextSnippet   string                 `json:"textSnippet,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`

	// Case-law specific fields, empty/zero for non-case documents.
	ECLI           string `json:"ecli,omitempty"`
	FileNumber     string `json:"fileNumber,omitempty"`
	CaseID         string `json:"caseId,omitempty"`
	Court          string `json:"court,omitempty"`
	DecisionDate   string `json:"decisionDate,omitempty"`

	// Preparatory-work specific field.
	PublicationDate string `json:"publicationDate,omitempty"`

	// StatuteID links a case or preparatory work back to the statute it
	// concerns, when known. Used by currency check and EU linkage.
	StatuteID string `json:"statuteId,omitempty"`
}

// Valid reports whether the document satisfies the core's structural
// invariants: non-empty id, kind in the closed set, no nested metadata.
func (d *Document) Valid() bool {
	if d.ID == "" {
		return false
	}
	if !d.Kind.Valid() {
		return false
	}
	for _, v := range d.Metadata {
		switch v.(type) {
		case string, float64, int, int64, bool, nil:
			continue
		default:
			return false
		}
	}
	return true
}

// SearchableText assembles the text the EU extractor and substring search
// operate over: title, citation, snippet, and scalar metadata values,
// whitespace-collapsed by the caller.
func (d *Document) SearchableText() string {
	text := d.Title
	if d.Citation != "" {
		text += " " + d.Citation
	}
	if d.TextSnippet != "" {
		text += " " + d.TextSnippet
	}
	for _, v := range d.Metadata {
		if s, ok := v.(string); ok {
			text += " " + s
		}
	}
	return text
}
