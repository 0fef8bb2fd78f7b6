package citation

import (
	"regexp"
	"strings"

	"github.com/gongahkia/lexcore/pkg/models"
)

// Swedish recognizes the Svensk författningssamling form "SFS YYYY:N".
// Trivial regex-driven grammar demonstrating the interface is not
// German-specific.
type Swedish struct{}

func NewSwedish() *Swedish { return &Swedish{} }

var sfsRe = regexp.MustCompile(`(?i)^sfs\s*(\d{4}):(\d+)$`)

func (s *Swedish) Parse(raw string) *models.ParsedCitation {
	m := sfsRe.FindStringSubmatch(collapse(raw))
	if m == nil {
		return nil
	}
	normalized := "SFS " + m[1] + ":" + m[2]
	return &models.ParsedCitation{
		Type:       models.CitationArticle,
		Normalized: normalized,
		Parsed: map[string]string{
			"year":   m[1],
			"number": m[2],
			models.CompCode: "SFS",
		},
		LookupCitations: []string{strings.ToLower(normalized)},
	}
}

// Norwegian recognizes the Lovdata form "LOV-YYYY-MM-DD-N".
type Norwegian struct{}

func NewNorwegian() *Norwegian { return &Norwegian{} }

var lovRe = regexp.MustCompile(`(?i)^lov-(\d{4})-(\d{2})-(\d{2})-(\d+)$`)

func (n *Norwegian) Parse(raw string) *models.ParsedCitation {
	m := lovRe.FindStringSubmatch(collapse(raw))
	if m == nil {
		return nil
	}
	normalized := "LOV-" + m[1] + "-" + m[2] + "-" + m[3] + "-" + m[4]
	return &models.ParsedCitation{
		Type:       models.CitationArticle,
		Normalized: normalized,
		Parsed: map[string]string{
			"year":   m[1],
			"month":  m[2],
			"day":    m[3],
			"number": m[4],
			models.CompCode: "LOV",
		},
		LookupCitations: []string{strings.ToLower(normalized)},
	}
}
