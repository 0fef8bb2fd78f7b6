package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGermanParseParagraph(t *testing.T) {
	g := NewGerman()
	p := g.Parse("§ 823 abs. 1 bgb")
	require.NotNil(t, p)
	assert.Equal(t, "§ 823 Abs. 1 BGB", p.Normalized)
	assert.Equal(t, "BGB", p.Parsed["code"])
	assert.Equal(t, "823", p.Parsed["section"])
	assert.Equal(t, "1", p.Parsed["paragraph"])
	assert.Equal(t, []string{"§ 823 bgb"}, p.LookupCitations)
}

func TestGermanParseArticle(t *testing.T) {
	g := NewGerman()
	p := g.Parse("Artikel 1 Absatz 1 GG")
	require.NotNil(t, p)
	assert.Equal(t, "Art. 1 Abs. 1 GG", p.Normalized)
}

func TestGermanShortForm(t *testing.T) {
	g := NewGerman()
	p := g.Parse("§ 1 Absatz 1 bdsg")
	require.NotNil(t, p)
	assert.Equal(t, "§ 1 BDSG", ShortForm(p))
}

func TestGermanMarkerDoubling(t *testing.T) {
	g := NewGerman()
	list := g.Parse("§ 1, 2 BGB")
	require.NotNil(t, list)
	assert.Equal(t, "§§", list.Parsed["marker"])

	rng := g.Parse("§ 1 bis 3 BGB")
	require.NotNil(t, rng)
	assert.Equal(t, "§§", rng.Parsed["marker"])

	single := g.Parse("§ 823 BGB")
	require.NotNil(t, single)
	assert.Equal(t, "§", single.Parsed["marker"])
}

func TestGermanParseUnsupported(t *testing.T) {
	g := NewGerman()
	assert.Nil(t, g.Parse("not a citation at all"))
	assert.Nil(t, g.Parse(""))
}

func TestGermanNormalizationIdempotent(t *testing.T) {
	g := NewGerman()
	inputs := []string{
		"§ 823 abs. 1 bgb",
		"Artikel 1 Absatz 1 GG",
		"§§ 1, 2 BGB",
		"§ 1 Nr. 2 Buchst. a BDSG",
	}
	for _, in := range inputs {
		first := g.Parse(in)
		require.NotNil(t, first, in)
		second := g.Parse(first.Normalized)
		require.NotNil(t, second, in)
		assert.Equal(t, first.Normalized, second.Normalized, in)
		assert.Equal(t, first.Parsed, second.Parsed, in)
	}
}

func TestSwedishAndNorwegianGrammars(t *testing.T) {
	se := NewSwedish()
	p := se.Parse("sfs 2018:218")
	require.NotNil(t, p)
	assert.Equal(t, "SFS 2018:218", p.Normalized)
	assert.Nil(t, se.Parse("§ 1 BGB"))

	no := NewNorwegian()
	q := no.Parse("lov-2018-06-15-38")
	require.NotNil(t, q)
	assert.Equal(t, "LOV-2018-06-15-38", q.Normalized)
}

func TestFor(t *testing.T) {
	assert.NotNil(t, For("DE"))
	assert.NotNil(t, For("se"))
	assert.Nil(t, For("xx"))
}
