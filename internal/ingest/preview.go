package ingest

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// PreviewResult summarizes how many candidate document stubs a local HTML
// snapshot contains, without ingesting any of it.
type PreviewResult struct {
	ArticleCount int
	SectionCount int
}

// PreviewHTML counts <article> and <section> elements in the HTML file at
// path, grounded on the teacher's goquery-selector scraping style
// (internal/scraper/jurisdictions/*.go) but reading a local file instead
// of fetching over the network — ingestion of primary sources stays out
// of scope, this only previews an already-materialized snapshot.
func PreviewHTML(path string) (PreviewResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("parse snapshot: %w", err)
	}

	return PreviewResult{
		ArticleCount: doc.Find("article").Length(),
		SectionCount: doc.Find("section").Length(),
	}, nil
}
