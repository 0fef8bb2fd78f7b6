package euref

import (
	"testing"

	"github.com/gongahkia/lexcore/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromDocumentDedupesPerPair(t *testing.T) {
	doc := &models.Document{
		ID:   "bdsg:1",
		Kind: models.KindStatute,
		TextSnippet: "See Richtlinie (EU) 2016/679, implementing 32016R0679, " +
			"also cited as 2016/679/EU for data protection.",
	}
	refs := ExtractFromDocument(doc)
	require.NotEmpty(t, refs)

	seen := map[string]bool{}
	for _, r := range refs {
		key := r.EuID + "|" + string(r.EuType)
		assert.False(t, seen[key], "duplicate pair %s", key)
		seen[key] = true
		assert.Equal(t, "EU 2016/679", r.EuID)
	}
}

func TestIdentifiersMatch(t *testing.T) {
	assert.True(t, IdentifiersMatch("EU 2016/679", "2016/679"))
	assert.True(t, IdentifiersMatch(NormalizeFreeform("32016R0679"), "EU 2016/679"))
	assert.False(t, IdentifiersMatch("EU 2016/679", "EU 2015/999"))
}

func TestSummarizeOrdering(t *testing.T) {
	refs := []models.EuReference{
		{EuID: "EU 2016/679", EuType: models.EuRegulation, SourceID: "a", SourceStatuteID: "bdsg"},
		{EuID: "EU 2016/679", EuType: models.EuRegulation, SourceID: "b", SourceStatuteID: "tmg"},
		{EuID: "EU 2015/999", EuType: models.EuRegulation, SourceID: "c", SourceStatuteID: "bdsg"},
	}
	summary := Summarize(refs)
	require.Len(t, summary, 2)
	assert.Equal(t, "EU 2016/679", summary[0].EuID)
	assert.Equal(t, 2, summary[0].ImplementationCount)
	assert.Equal(t, []string{"bdsg", "tmg"}, summary[0].StatuteIDs)
}

func TestCELEXConfidenceHighest(t *testing.T) {
	matches := extractMatches("32016R0679")
	require.Len(t, matches, 1)
	assert.Equal(t, 0.99, matches[0].confidence)
	assert.Equal(t, models.EuReferenceType("regulation"), matches[0].euType)
}
