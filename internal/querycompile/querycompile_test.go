package querycompile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileEmpty(t *testing.T) {
	cq := Compile("")
	assert.Equal(t, "", cq.Primary)
	assert.Equal(t, "", cq.Fallback)
}

func TestCompileSingleToken(t *testing.T) {
	cq := Compile("BDSG")
	assert.Equal(t, "BDSG*", cq.Primary)
	assert.Empty(t, cq.Fallback)
}

func TestCompileMultiToken(t *testing.T) {
	cq := Compile("data protection")
	assert.Equal(t, "data* AND protection*", cq.Primary)
	assert.Equal(t, "data* OR protection*", cq.Fallback)
}

func TestCompileStripsQuotes(t *testing.T) {
	cq := Compile(`say "hello" now`)
	assert.NotContains(t, cq.Primary, `"`)
}

func TestCompileQuotesReservedChars(t *testing.T) {
	cq := Compile("covid-19 BGB")
	assert.Equal(t, 1, strings.Count(cq.Primary, `"covid-19"*`))
}

func TestCompileDeterministic(t *testing.T) {
	a := Compile("data protection act")
	b := Compile("data protection act")
	assert.Equal(t, a, b)
}
