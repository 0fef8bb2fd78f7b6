package citation

import (
	"regexp"
	"strings"

	"github.com/gongahkia/lexcore/pkg/models"
)

// German recognizes the paragraph form (§/§§ ... code) and the article form
// (Art./Artikel ... code), each with an optional ordered subdivision tail:
// Abs./Absatz, S./Satz, Nr./Nummer, Buchst./Buchstabe.
type German struct{}

func NewGerman() *German { return &German{} }

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	paragraphHeadRe = regexp.MustCompile(`(?i)^(§§?)\s*(\d+[a-z]?(?:\s*(?:,|bis|-)\s*\d+[a-z]?)*)\s*(.*)$`)
	articleHeadRe   = regexp.MustCompile(`(?i)^(art\.?|artikel)\s*(\d+[a-z]?)\s*(.*)$`)

	tailAbsRe    = regexp.MustCompile(`(?i)^(?:abs\.?|absatz)\s*(\d+[a-z]?)\s*(.*)$`)
	tailSatzRe   = regexp.MustCompile(`(?i)^(?:s\.?|satz)\s*(\d+[a-z]?)\s*(.*)$`)
	tailNrRe     = regexp.MustCompile(`(?i)^(?:nr\.?|nummer)\s*(\d+[a-z]?)\s*(.*)$`)
	tailBuchstRe = regexp.MustCompile(`(?i)^(?:buchst\.?|buchstabe)\s*([a-z])\s*(.*)$`)

	codeRe         = regexp.MustCompile(`^[A-Za-zÄÖÜäöüß]+$`)
	rangeOrListRe  = regexp.MustCompile(`(?i)(,|bis|-)`)
)

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func lowerTrailingLetter(s string) string {
	if s == "" {
		return s
	}
	last := s[len(s)-1]
	if last >= 'A' && last <= 'Z' {
		return s[:len(s)-1] + string(last+'a'-'A')
	}
	return s
}

// normalizeSpec collapses whitespace around separators in a multi-number
// section/article spec and lower-cases any trailing subdivision letters.
func normalizeSpec(spec string) string {
	parts := regexp.MustCompile(`(?i)\s*(,|bis|-)\s*`).Split(spec, -1)
	seps := regexp.MustCompile(`(?i)\s*(,|bis|-)\s*`).FindAllStringSubmatch(spec, -1)
	var b strings.Builder
	for i, p := range parts {
		b.WriteString(lowerTrailingLetter(strings.TrimSpace(p)))
		if i < len(seps) {
			sep := strings.ToLower(strings.TrimSpace(seps[i][1]))
			if sep == "," {
				b.WriteString(", ")
			} else {
				b.WriteString(" " + sep + " ")
			}
		}
	}
	return b.String()
}

type tail struct {
	paragraph string
	sentence  string
	number    string
	letter    string
}

// parseTail consumes the optional Abs./S./Nr./Buchst. components in order
// from rest, returning the structured tail and whatever remains (expected
// to be the code abbreviation).
func parseTail(rest string) (tail, string) {
	var t tail
	rest = strings.TrimSpace(rest)
	if m := tailAbsRe.FindStringSubmatch(rest); m != nil {
		t.paragraph = lowerTrailingLetter(m[1])
		rest = strings.TrimSpace(m[2])
	}
	if m := tailSatzRe.FindStringSubmatch(rest); m != nil {
		t.sentence = lowerTrailingLetter(m[1])
		rest = strings.TrimSpace(m[2])
	}
	if m := tailNrRe.FindStringSubmatch(rest); m != nil {
		t.number = lowerTrailingLetter(m[1])
		rest = strings.TrimSpace(m[2])
	}
	if m := tailBuchstRe.FindStringSubmatch(rest); m != nil {
		t.letter = strings.ToLower(m[1])
		rest = strings.TrimSpace(m[2])
	}
	return t, rest
}

func (t tail) writeCanonical(b *strings.Builder) {
	if t.paragraph != "" {
		b.WriteString(" Abs. " + t.paragraph)
	}
	if t.sentence != "" {
		b.WriteString(" S. " + t.sentence)
	}
	if t.number != "" {
		b.WriteString(" Nr. " + t.number)
	}
	if t.letter != "" {
		b.WriteString(" Buchst. " + t.letter)
	}
}

func (g *German) Parse(raw string) *models.ParsedCitation {
	s := collapse(raw)
	if s == "" {
		return nil
	}

	if m := paragraphHeadRe.FindStringSubmatch(s); m != nil {
		spec := normalizeSpec(m[2])
		t, codeTail := parseTail(m[3])
		if !codeRe.MatchString(codeTail) {
			return nil
		}
		code := strings.ToUpper(codeTail)
		doubled := rangeOrListRe.MatchString(m[2])
		marker := "§"
		if doubled {
			marker = "§§"
		}

		var b strings.Builder
		b.WriteString(marker + " " + spec)
		t.writeCanonical(&b)
		b.WriteString(" " + code)
		normalized := b.String()

		parsed := map[string]string{
			models.CompSection: spec,
			models.CompCode:    code,
			models.CompMarker:  marker,
		}
		if t.paragraph != "" {
			parsed[models.CompParagraph] = t.paragraph
		}
		if t.sentence != "" {
			parsed[models.CompSentence] = t.sentence
		}
		if t.number != "" {
			parsed[models.CompNumber] = t.number
		}
		if t.letter != "" {
			parsed[models.CompLetter] = t.letter
		}

		lookup := marker + " " + spec + " " + code

		return &models.ParsedCitation{
			Type:            models.CitationParagraph,
			Normalized:      normalized,
			Parsed:          parsed,
			LookupCitations: []string{strings.ToLower(lookup)},
		}
	}

	if m := articleHeadRe.FindStringSubmatch(s); m != nil {
		artNum := lowerTrailingLetter(m[2])
		t, codeTail := parseTail(m[3])
		if !codeRe.MatchString(codeTail) {
			return nil
		}
		code := strings.ToUpper(codeTail)

		var b strings.Builder
		b.WriteString("Art. " + artNum)
		t.writeCanonical(&b)
		b.WriteString(" " + code)
		normalized := b.String()

		parsed := map[string]string{
			models.CompArticle: artNum,
			models.CompCode:    code,
			models.CompMarker:  "Art.",
		}
		if t.paragraph != "" {
			parsed[models.CompParagraph] = t.paragraph
		}
		if t.sentence != "" {
			parsed[models.CompSentence] = t.sentence
		}
		if t.number != "" {
			parsed[models.CompNumber] = t.number
		}
		if t.letter != "" {
			parsed[models.CompLetter] = t.letter
		}

		lookup := "Art. " + artNum + " " + code

		return &models.ParsedCitation{
			Type:            models.CitationArticle,
			Normalized:      normalized,
			Parsed:          parsed,
			LookupCitations: []string{strings.ToLower(lookup)},
		}
	}

	return nil
}

// ShortForm implements the format_citation "short" style: marker + primary
// number + code, dropping any subdivision tail.
func ShortForm(p *models.ParsedCitation) string {
	if p == nil {
		return ""
	}
	switch p.Type {
	case models.CitationArticle:
		return "Art. " + p.Parsed[models.CompArticle] + " " + p.Parsed[models.CompCode]
	default:
		return p.Parsed[models.CompMarker] + " " + p.Parsed[models.CompSection] + " " + p.Parsed[models.CompCode]
	}
}
