package adapter

import (
	"context"
	"strings"

	germancitation "github.com/gongahkia/lexcore/internal/citation"
)

type ParseCitationResult struct {
	Original   string            `json:"original"`
	Normalized string            `json:"normalized"`
	Parsed     map[string]string `json:"parsed"`
}

func (a *German) ParseCitation(s string) *ParseCitationResult {
	p := a.grammar.Parse(s)
	if p == nil {
		return nil
	}
	return &ParseCitationResult{Original: s, Normalized: p.Normalized, Parsed: p.Parsed}
}

type ValidateCitationResult struct {
	Valid      bool   `json:"valid"`
	Normalized string `json:"normalized,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (a *German) ValidateCitation(ctx context.Context, s string) (ValidateCitationResult, error) {
	p := a.grammar.Parse(s)
	if p == nil {
		return ValidateCitationResult{Valid: false, Reason: "does not match a recognized citation form"}, nil
	}
	lookups := make([]string, len(p.LookupCitations))
	copy(lookups, p.LookupCitations)

	rows, err := a.store.GetByCitation(ctx, s, 1)
	if isUnavailable(err) {
		return ValidateCitationResult{Valid: true, Normalized: p.Normalized}, nil
	}
	if err != nil {
		return ValidateCitationResult{}, err
	}
	if len(rows) == 0 {
		return ValidateCitationResult{Valid: false, Normalized: p.Normalized, Reason: "format valid, not in corpus"}, nil
	}
	return ValidateCitationResult{Valid: true, Normalized: p.Normalized}, nil
}

type FormatCitationResult struct {
	Original  string `json:"original"`
	Formatted string `json:"formatted"`
	Style     string `json:"style"`
	Valid     bool   `json:"valid"`
	Reason    string `json:"reason,omitempty"`
}

func (a *German) FormatCitation(s, style string) FormatCitationResult {
	if style == "" {
		style = "default"
	}
	p := a.grammar.Parse(s)
	if p == nil {
		return FormatCitationResult{
			Original: s, Formatted: strings.TrimSpace(s), Style: style,
			Valid: false, Reason: "does not match a recognized citation form",
		}
	}
	formatted := p.Normalized
	if style == "short" {
		formatted = germancitation.ShortForm(p)
	}
	return FormatCitationResult{Original: s, Formatted: formatted, Style: style, Valid: true}
}
