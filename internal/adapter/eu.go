package adapter

import (
	"context"

	"github.com/gongahkia/lexcore/internal/euref"
	"github.com/gongahkia/lexcore/pkg/models"
)

type EuBasisResult struct {
	References []models.EuReference `json:"references"`
	Total      int                  `json:"total"`
}

// resolveByAnyOf gathers the document set a citation/statuteId/documentId
// triple resolves to, in documentId, statuteId, citation order, skipping
// empty selectors.
// Mirrors the candidate-gathering shape of CheckCurrency.
func (a *German) resolveByAnyOf(ctx context.Context, citationStr, statuteID, documentID string) ([]*models.Document, error) {
	var docs []*models.Document
	if documentID != "" {
		d, err := a.GetDocument(ctx, documentID)
		if err != nil {
			return nil, err
		}
		if d != nil {
			docs = append(docs, d)
		}
	}
	if statuteID != "" {
		d, err := a.GetDocument(ctx, statuteID)
		if err != nil {
			return nil, err
		}
		if d != nil {
			docs = append(docs, d)
		}
	}
	if citationStr != "" {
		rows, err := a.store.GetByCitation(ctx, citationStr, 20)
		if isUnavailable(err) {
			// nothing more to gather
		} else if err != nil {
			return nil, err
		} else {
			docs = append(docs, rows...)
		}
	}
	return docs, nil
}

// GetEuBasis extracts EU references from the document(s) resolved by
// citation/statuteId/documentId (at least one required by the caller),
// deduped per document, concatenated and truncated to limit.
func (a *German) GetEuBasis(ctx context.Context, citationStr, statuteID, documentID string, limit int) (EuBasisResult, error) {
	limit = clampLimit(limit, 20, 200)
	docs, err := a.resolveByAnyOf(ctx, citationStr, statuteID, documentID)
	if err != nil {
		return EuBasisResult{}, err
	}
	var refs []models.EuReference
	for _, d := range docs {
		refs = append(refs, euref.ExtractFromDocument(d)...)
		if len(refs) >= limit {
			refs = refs[:limit]
			break
		}
	}
	return EuBasisResult{References: refs, Total: len(refs)}, nil
}

// GetProvisionEuBasis is GetEuBasis scoped to a single resolved document.
func (a *German) GetProvisionEuBasis(ctx context.Context, documentID string, limit int) (EuBasisResult, error) {
	return a.GetEuBasis(ctx, "", "", documentID, limit)
}

type EuImplementationsResult struct {
	Results []models.ImplementationSummary `json:"results"`
	Total   int                            `json:"total"`
}

// SearchEuImplementations searches statutes by query, extracts EU references
// from each matching document, and summarizes by (euId, euType).
func (a *German) SearchEuImplementations(ctx context.Context, query string, limit int) (EuImplementationsResult, error) {
	limit = clampLimit(limit, 20, 200)
	docs, err := a.SearchDocuments(ctx, query, 100)
	if err != nil {
		return EuImplementationsResult{}, err
	}
	var refs []models.EuReference
	for _, d := range docs.Documents {
		refs = append(refs, euref.ExtractFromDocument(d)...)
	}
	summaries := euref.Summarize(refs)
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return EuImplementationsResult{Results: summaries, Total: len(summaries)}, nil
}

type NationalImplementationsResult struct {
	Results []*models.Document `json:"results"`
	Total   int                `json:"total"`
}

// GetNationalImplementations finds statutes whose extracted EU references
// identifier-match euId, using the act's own identifier text as the search
// query (statute snippets name the EU act they transpose).
func (a *German) GetNationalImplementations(ctx context.Context, euID string, limit int) (NationalImplementationsResult, error) {
	limit = clampLimit(limit, 20, 200)
	target := euref.NormalizeFreeform(euID)
	docs, err := a.SearchDocuments(ctx, euID, 100)
	if err != nil {
		return NationalImplementationsResult{}, err
	}
	var out []*models.Document
	seen := map[string]bool{}
	for _, d := range docs.Documents {
		for _, ref := range euref.ExtractFromDocument(d) {
			if euref.IdentifiersMatch(ref.EuID, target) && !seen[d.ID] {
				seen[d.ID] = true
				out = append(out, d)
				break
			}
		}
		if len(out) >= limit {
			break
		}
	}
	return NationalImplementationsResult{Results: out, Total: len(out)}, nil
}

type ComplianceStatus string

const (
	ComplianceMapped    ComplianceStatus = "mapped"
	ComplianceNotMapped ComplianceStatus = "not_mapped"
	ComplianceUnknown   ComplianceStatus = "unknown"
)

type ValidateEuComplianceResult struct {
	EuID            string               `json:"euId"`
	Status          ComplianceStatus     `json:"status"`
	Matches         []models.EuReference `json:"matches,omitempty"`
	RelatedStatutes []string             `json:"relatedStatutes,omitempty"`
	Reason          string               `json:"reason,omitempty"`
}

// ValidateEuCompliance checks whether the statute/citation resolved by the
// given selectors carries an extracted reference matching euId.
func (a *German) ValidateEuCompliance(ctx context.Context, euID, citationStr, statuteID string) (ValidateEuComplianceResult, error) {
	if citationStr == "" && statuteID == "" {
		return ValidateEuComplianceResult{EuID: euID, Status: ComplianceUnknown,
			Reason: "no citation or statuteId selector provided"}, nil
	}
	target := euref.NormalizeFreeform(euID)
	docs, err := a.resolveByAnyOf(ctx, citationStr, statuteID, "")
	if err != nil {
		return ValidateEuComplianceResult{}, err
	}
	if len(docs) == 0 {
		return ValidateEuComplianceResult{EuID: euID, Status: ComplianceUnknown,
			Reason: "no document resolved for the given selector"}, nil
	}

	var matches []models.EuReference
	var related []string
	seen := map[string]bool{}
	for _, d := range docs {
		for _, ref := range euref.ExtractFromDocument(d) {
			if euref.IdentifiersMatch(ref.EuID, target) {
				matches = append(matches, ref)
				if !seen[d.ID] {
					seen[d.ID] = true
					related = append(related, d.ID)
				}
			}
		}
	}
	if len(matches) == 0 {
		return ValidateEuComplianceResult{EuID: euID, Status: ComplianceNotMapped,
			Reason: "resolved document carries no matching EU reference"}, nil
	}
	return ValidateEuComplianceResult{EuID: euID, Status: ComplianceMapped, Matches: matches, RelatedStatutes: related}, nil
}
