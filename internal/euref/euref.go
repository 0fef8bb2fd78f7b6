// Package euref implements the EU Reference Extractor: it scans a
// document's searchable text for references to EU directives, regulations,
// decisions, and acts, yielding normalized identifiers with confidence.
//
// Grounded on the teacher's internal/citation/extractor.go (ordered
// detector table, per-match parse function) and normalizer.go
// (normalize/generate symmetry), generalized from case-citation detection
// to EU-act detection.
package euref

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gongahkia/lexcore/pkg/models"
)

type detector struct {
	re         *regexp.Regexp
	confidence float64
	// extract returns (jurisdiction, year, number, explicitType) from a
	// regex match, where explicitType is "" when the detector does not
	// itself determine type (callers fall back to "act").
	extract func(m []string) (jur, year, number, explicitType string)
}

var jurAlias = map[string]string{
	"eu":  "EU",
	"eg":  "EU",
	"ewg": "EU",
}

func canonicalJur(j string) string {
	if v, ok := jurAlias[strings.ToLower(j)]; ok {
		return v
	}
	return strings.ToUpper(j)
}

var detectors = []detector{
	{
		// CELEX: 3<YYYY>[RLDC]<NNNN>, optional "CELEX:" prefix.
		re:         regexp.MustCompile(`(?i)(?:celex:?\s*)?\b3(\d{4})([rldc])(\d{4,})\b`),
		confidence: 0.99,
		extract: func(m []string) (string, string, string, string) {
			typ := "act"
			switch strings.ToLower(m[2]) {
			case "r":
				typ = "regulation"
			case "l":
				typ = "directive"
			case "d":
				typ = "decision"
			}
			return "EU", m[1], m[3], typ
		},
	},
	{
		// Typed prefix: Richtlinie/Directive/Verordnung/Regulation <jur>? <num>/<num>
		// jurisdiction may be parenthesized, e.g. "Richtlinie (EU) 2016/679".
		re:         regexp.MustCompile(`(?i)\b(richtlinie|directive|verordnung|regulation)\s*\(?\s*(eu|eg|ewg)?\s*\)?\s*(\d+)/(\d+)\b`),
		confidence: 0.95,
		extract: func(m []string) (string, string, string, string) {
			typ := "act"
			switch strings.ToLower(m[1]) {
			case "richtlinie", "directive":
				typ = "directive"
			case "verordnung", "regulation":
				typ = "regulation"
			}
			jur := m[2]
			if jur == "" {
				jur = "EU"
			}
			return jur, m[3], m[4], typ
		},
	},
	{
		// Typed suffix: <type> <num>/<num>/<jur>
		re:         regexp.MustCompile(`(?i)\b(richtlinie|directive|verordnung|regulation)\s*(\d+)/(\d+)/(eu|eg|ewg)\b`),
		confidence: 0.94,
		extract: func(m []string) (string, string, string, string) {
			typ := "act"
			switch strings.ToLower(m[1]) {
			case "richtlinie", "directive":
				typ = "directive"
			case "verordnung", "regulation":
				typ = "regulation"
			}
			return m[4], m[2], m[3], typ
		},
	},
	{
		// Generic prefix: <jur> Nr.? <num>/<num>
		re:         regexp.MustCompile(`(?i)\b(eu|eg|ewg)\s*(?:nr\.?\s*)?(\d+)/(\d+)\b`),
		confidence: 0.90,
		extract: func(m []string) (string, string, string, string) {
			return m[1], m[2], m[3], "act"
		},
	},
	{
		// Generic suffix: <num>/<num>/<jur>
		re:         regexp.MustCompile(`(?i)\b(\d+)/(\d+)/(eu|eg|ewg)\b`),
		confidence: 0.89,
		extract: func(m []string) (string, string, string, string) {
			return m[3], m[1], m[2], "act"
		},
	},
}

func stripLeadingZeros(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return strconv.Itoa(n)
}

func normalize(jur, year, number string) string {
	return canonicalJur(jur) + " " + year + "/" + stripLeadingZeros(number)
}

func snippet(text string, start, end int) string {
	const radius = 90
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}
	return strings.TrimSpace(text[lo:hi])
}

// match is an internal detection hit before document context is attached.
type match struct {
	euID       string
	euType     models.EuReferenceType
	confidence float64
	snippet    string
}

func extractMatches(text string) []match {
	var out []match
	for _, d := range detectors {
		locs := d.re.FindAllStringSubmatchIndex(text, -1)
		for _, loc := range locs {
			groups := make([]string, len(loc)/2)
			for i := range groups {
				s, e := loc[2*i], loc[2*i+1]
				if s < 0 {
					continue
				}
				groups[i] = text[s:e]
			}
			jur, year, number, typ := d.extract(groups)
			if typ == "" {
				typ = "act"
			}
			out = append(out, match{
				euID:       normalize(jur, year, number),
				euType:     models.EuReferenceType(typ),
				confidence: d.confidence,
				snippet:    snippet(text, loc[0], loc[1]),
			})
		}
	}
	return out
}

// dedupe keeps one match per (euID, euType), the one with the highest
// confidence, in the order in which each pair first appears in matches.
func dedupe(matches []match) []match {
	best := make(map[string]match)
	var order []string
	for _, m := range matches {
		key := m.euID + "|" + strings.ToLower(string(m.euType))
		if existing, ok := best[key]; !ok || m.confidence > existing.confidence {
			if !ok {
				order = append(order, key)
			}
			best[key] = m
		}
	}
	out := make([]match, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

// ExtractFromDocument extracts and dedupes EU references from a document's
// searchable text, attaching source metadata to each.
func ExtractFromDocument(doc *models.Document) []models.EuReference {
	text := doc.SearchableText()
	matches := dedupe(extractMatches(text))
	out := make([]models.EuReference, 0, len(matches))
	for _, m := range matches {
		out = append(out, models.EuReference{
			EuID:            m.euID,
			EuType:          m.euType,
			SourceKind:      doc.Kind,
			SourceID:        doc.ID,
			SourceStatuteID: doc.StatuteID,
			SourceCitation:  doc.Citation,
			SourceTitle:     doc.Title,
			SourceURL:       doc.SourceURL,
			ContextSnippet:  m.snippet,
			Confidence:      m.confidence,
		})
	}
	return out
}

// IdentifiersMatch reports whether two EU identifiers refer to the same
// act: equal after normalization, or equal after stripping the
// jurisdiction prefix. Both inputs are assumed already normalized via
// NormalizeFreeform.
func IdentifiersMatch(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	return strings.EqualFold(stripJurisdiction(a), stripJurisdiction(b))
}

func stripJurisdiction(id string) string {
	parts := strings.SplitN(id, " ", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return id
}

// NormalizeFreeform attempts to parse a user-supplied euId (e.g. "EU
// 2016/679", "2016/679", or a bare CELEX number) into the canonical "<JUR>
// <year>/<number>" form. Returns the input unchanged if it matches no known
// shape.
func NormalizeFreeform(raw string) string {
	raw = strings.TrimSpace(raw)
	matches := extractMatches(raw)
	if len(matches) > 0 {
		return matches[0].euID
	}
	return raw
}

// Summarize groups references by (euId, euType), counting distinct source
// ids and listing distinct statute ids, sorted by implementationCount desc
// then euId asc.
func Summarize(refs []models.EuReference) []models.ImplementationSummary {
	type agg struct {
		euType     models.EuReferenceType
		sources    map[string]bool
		statuteIDs map[string]bool
	}
	groups := make(map[string]*agg)
	var keys []string
	for _, r := range refs {
		key := r.EuID + "|" + string(r.EuType)
		g, ok := groups[key]
		if !ok {
			g = &agg{euType: r.EuType, sources: map[string]bool{}, statuteIDs: map[string]bool{}}
			groups[key] = g
			keys = append(keys, key)
		}
		g.sources[r.SourceID] = true
		if r.SourceStatuteID != "" {
			g.statuteIDs[r.SourceStatuteID] = true
		}
	}

	out := make([]models.ImplementationSummary, 0, len(keys))
	for _, key := range keys {
		euID := strings.SplitN(key, "|", 2)[0]
		g := groups[key]
		ids := make([]string, 0, len(g.statuteIDs))
		for id := range g.statuteIDs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out = append(out, models.ImplementationSummary{
			EuID:                euID,
			EuType:              g.euType,
			ImplementationCount: len(g.sources),
			StatuteIDs:          ids,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ImplementationCount != out[j].ImplementationCount {
			return out[i].ImplementationCount > out[j].ImplementationCount
		}
		return out[i].EuID < out[j].EuID
	})
	return out
}
