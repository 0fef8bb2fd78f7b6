package adapter

import (
	"context"

	"github.com/gongahkia/lexcore/internal/store"
	"github.com/gongahkia/lexcore/pkg/models"
)

// SearchResult is the {documents, total} shape shared by all document
// search tools.
type SearchResult struct {
	Documents []*models.Document `json:"documents"`
	Total     int                `json:"total"`
}

func (a *German) SearchDocuments(ctx context.Context, query string, limit int) (SearchResult, error) {
	limit = clampLimit(limit, 20, 100)
	docs, err := a.store.SearchStatutes(ctx, store.StatuteQuery{Query: query, Limit: limit})
	if isUnavailable(err) {
		docs = seedSearch(a.seed, query, limit)
		err = nil
	}
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Documents: docs, Total: len(docs)}, nil
}

func (a *German) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := a.store.GetByID(ctx, id)
	if isUnavailable(err) {
		for _, d := range a.seed {
			if d.ID == id {
				return d, nil
			}
		}
		return nil, nil
	}
	return doc, err
}

func (a *German) SearchCaseLaw(ctx context.Context, query string, limit int, court, dateFrom, dateTo string) (SearchResult, error) {
	limit = clampLimit(limit, 20, 100)
	docs, err := a.store.SearchCaseLaw(ctx, store.CaseLawQuery{
		Query: query, Limit: limit, Court: court, DateFrom: dateFrom, DateTo: dateTo,
	})
	if isUnavailable(err) {
		return SearchResult{Documents: nil, Total: 0}, nil
	}
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Documents: docs, Total: len(docs)}, nil
}

func (a *German) GetPreparatoryWorks(ctx context.Context, citationStr, statuteID, query string, limit int) (SearchResult, error) {
	limit = clampLimit(limit, 20, 100)
	docs, err := a.store.SearchPreparatoryWorks(ctx, store.PrepWorksQuery{
		Citation: citationStr, StatuteID: statuteID, Query: query, Limit: limit,
	})
	if isUnavailable(err) {
		return SearchResult{Documents: nil, Total: 0}, nil
	}
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Documents: docs, Total: len(docs)}, nil
}
