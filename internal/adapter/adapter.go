// Package adapter implements the Adapter component: the jurisdiction-scoped
// unit binding Store + Citation Grammar + EU Reference Extractor behind a
// uniform capability-flagged operation surface.
//
// Grounded on the teacher's internal/plugins/interface.go (capability
// flagged surface, tagged variant over inheritance per spec.md §9) and
// internal/jurisdiction/metadata.go (enrichment-pipeline composition
// style).
package adapter

import (
	"context"
	"strings"

	"github.com/gongahkia/lexcore/internal/citation"
	lexerrors "github.com/gongahkia/lexcore/pkg/errors"
	"github.com/gongahkia/lexcore/pkg/models"
	"github.com/gongahkia/lexcore/internal/store"
)

// Ingestor is the narrow interface the adapter needs from the ingestion
// subsystem (internal/ingest.Runner implements it). Kept here, not in
// internal/ingest, so adapter does not need to import ingest's queue/worker
// wiring types.
type Ingestor interface {
	Run(ctx context.Context, sourceID string, dryRun bool) (IngestionReport, error)
}

// IngestionReport is the run_ingestion return shape.
type IngestionReport struct {
	StartedAt      string `json:"startedAt"`
	FinishedAt     string `json:"finishedAt"`
	SourceID       string `json:"sourceId"`
	DryRun         bool   `json:"dryRun"`
	IngestedCount  int    `json:"ingestedCount"`
	SkippedCount   int    `json:"skippedCount"`
}

// German is the jurisdiction adapter for German federal law.
type German struct {
	descriptor models.AdapterDescriptor
	store      *store.Store
	grammar    citation.Grammar
	ingestor   Ingestor
	seed       []*models.Document
}

// New builds the German adapter. ingestor may be nil when run_ingestion is
// not wired (the descriptor's Ingestion flag should then be false).
func New(st *store.Store, ingestor Ingestor) *German {
	return &German{
		descriptor: models.AdapterDescriptor{
			JurisdictionCode: "de",
			Name:             "Germany",
			DefaultLanguage:  "de",
			Sources:          []string{"gesetze-im-internet.de", "bundesgerichtshof.de", "bundestag.de"},
			Documents:        true,
			CaseLaw:          true,
			PreparatoryWorks: true,
			Citations:        true,
			Formatting:       true,
			Currency:         true,
			LegalStance:      true,
			EU:               true,
			Ingestion:        ingestor != nil,
		},
		store:    st,
		grammar:  citation.NewGerman(),
		ingestor: ingestor,
		seed:     seedDocuments,
	}
}

func (a *German) Descriptor() models.AdapterDescriptor {
	return a.descriptor
}

// Capabilities returns the runtime-detected Capability Set from the Store.
func (a *German) Capabilities(ctx context.Context) (models.CapabilitySet, error) {
	return a.store.Capabilities(ctx)
}

// seedDocuments is the minimal in-memory fallback used only when the Store
// reports ErrUnavailable, so describe_country/search tools remain usable
// against an unconfigured corpus rather than failing outright.
var seedDocuments = []*models.Document{
	{
		ID: "bdsg:1", Jurisdiction: "de", Kind: models.KindStatute,
		Title: "Bundesdatenschutzgesetz", Citation: "§ 1 BDSG",
		TextSnippet: "Dieses Gesetz dient dem Schutz natuerlicher Personen, vgl. Richtlinie (EU) 2016/679.",
	},
	{
		ID: "gg:1", Jurisdiction: "de", Kind: models.KindStatute,
		Title: "Grundgesetz", Citation: "Art. 1 Abs. 1 GG",
		TextSnippet: "Die Wuerde des Menschen ist unantastbar.",
	},
}

func seedSearch(seed []*models.Document, query string, limit int) []*models.Document {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []*models.Document
	for _, d := range seed {
		if len(out) >= limit {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(d.Title), q) || strings.Contains(strings.ToLower(d.Citation), q) {
			out = append(out, d)
		}
	}
	return out
}

func clampLimit(limit, def, max int) int {
	if limit == 0 {
		limit = def
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}

func isUnavailable(err error) bool {
	return err == lexerrors.ErrUnavailable
}
