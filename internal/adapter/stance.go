package adapter

import (
	"context"

	"github.com/gongahkia/lexcore/pkg/models"
)

type LegalStanceResult struct {
	Query             string             `json:"query"`
	Statutes          []*models.Document `json:"statutes"`
	CaseLaw           []*models.Document `json:"caseLaw,omitempty"`
	PreparatoryWorks  []*models.Document `json:"preparatoryWorks,omitempty"`
	KeyCitations      []string           `json:"keyCitations"`
}

// BuildLegalStance issues up to three retrievals against the same query and
// per-category limit (statutes always, case law and preparatory works only
// when requested), then derives keyCitations as the deduplicated,
// order-preserving union of the three document lists' citations, truncated
// to 2*limit.
func (a *German) BuildLegalStance(ctx context.Context, query string, limit int, includeCaseLaw, includePreparatoryWorks bool) (LegalStanceResult, error) {
	limit = clampLimit(limit, 20, 100)

	statutes, err := a.SearchDocuments(ctx, query, limit)
	if err != nil {
		return LegalStanceResult{}, err
	}

	var caseLaw, prepWorks SearchResult
	if includeCaseLaw {
		caseLaw, err = a.SearchCaseLaw(ctx, query, limit, "", "", "")
		if err != nil {
			return LegalStanceResult{}, err
		}
	}
	if includePreparatoryWorks {
		prepWorks, err = a.GetPreparatoryWorks(ctx, "", "", query, limit)
		if err != nil {
			return LegalStanceResult{}, err
		}
	}

	keyCitations := unionCitations(2*limit, statutes.Documents, caseLaw.Documents, prepWorks.Documents)

	return LegalStanceResult{
		Query: query, Statutes: statutes.Documents, CaseLaw: caseLaw.Documents,
		PreparatoryWorks: prepWorks.Documents, KeyCitations: keyCitations,
	}, nil
}

func unionCitations(max int, lists ...[]*models.Document) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, d := range list {
			if d.Citation == "" || seen[d.Citation] {
				continue
			}
			seen[d.Citation] = true
			out = append(out, d.Citation)
			if len(out) >= max {
				return out
			}
		}
	}
	return out
}
