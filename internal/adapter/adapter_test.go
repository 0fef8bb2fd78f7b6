package adapter

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gongahkia/lexcore/internal/citation"
	"github.com/gongahkia/lexcore/internal/store"
)

// newFixtureAdapter builds a temp sqlite corpus seeded with two statutes,
// § 1 BDSG (whose snippet references Richtlinie (EU) 2016/679) and
// § 823 BGB (no EU text), then wraps it in a German adapter with no
// ingestor wired.
func newFixtureAdapter(t *testing.T) *German {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.db")

	rw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer rw.Close()
	require.NoError(t, store.BuildSchema(rw))

	_, err = rw.Exec(`INSERT INTO law_documents (id, jurisdiction, kind, title, citation, effective_date, text_snippet)
		VALUES (?, 'de', 'statute', ?, ?, ?, ?)`,
		"bdsg:1", "Bundesdatenschutzgesetz", "§ 1 BDSG", "2018-05-25",
		"Dieses Gesetz dient dem Schutz natuerlicher Personen, vgl. Richtlinie (EU) 2016/679.")
	require.NoError(t, err)
	_, err = rw.Exec(`INSERT INTO law_documents (id, jurisdiction, kind, title, citation, effective_date, text_snippet)
		VALUES (?, 'de', 'statute', ?, ?, ?, ?)`,
		"bgb:823", "Bürgerliches Gesetzbuch", "§ 823 BGB", "1900-01-01", "Schadensersatzpflicht")
	require.NoError(t, err)

	backend := store.NewSQLiteBackend(path)
	return New(store.New(backend, citation.NewGerman()), nil)
}

func TestSearchDocumentsOrdersExactMatchFirst(t *testing.T) {
	a := newFixtureAdapter(t)
	res, err := a.SearchDocuments(context.Background(), "§ 1 BDSG", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res.Documents)
	assert.Equal(t, "bdsg:1", res.Documents[0].ID)
	assert.Equal(t, len(res.Documents), res.Total)
}

func TestCheckCurrencyLikelyInForceWithinSourceDate(t *testing.T) {
	a := newFixtureAdapter(t)
	res, err := a.CheckCurrency(context.Background(), "§ 1 BDSG", "", "2020-01-01")
	require.NoError(t, err)
	assert.Equal(t, StatusLikelyInForce, res.Status)
	assert.Equal(t, "2018-05-25", res.SourceDate)
}

func TestCheckCurrencyUnknownWhenAsOfPrecedesSourceDate(t *testing.T) {
	a := newFixtureAdapter(t)
	res, err := a.CheckCurrency(context.Background(), "§ 1 BDSG", "", "2010-01-01")
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, res.Status)
}

func TestCheckCurrencyNotFoundWhenNoCandidates(t *testing.T) {
	a := newFixtureAdapter(t)
	res, err := a.CheckCurrency(context.Background(), "§ 999 Nichtexistent", "", "")
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, res.Status)
}

func TestGetEuBasisFindsGdprReference(t *testing.T) {
	a := newFixtureAdapter(t)
	res, err := a.GetEuBasis(context.Background(), "§ 1 BDSG", "", "", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res.References)

	found := false
	for _, ref := range res.References {
		if strings.Contains(ref.EuID, "2016/679") {
			found = true
		}
	}
	assert.True(t, found, "expected an extracted EU reference to 2016/679")
}

func TestGetEuBasisEmptyForStatuteWithoutEuText(t *testing.T) {
	a := newFixtureAdapter(t)
	res, err := a.GetEuBasis(context.Background(), "§ 823 BGB", "", "", 10)
	require.NoError(t, err)
	assert.Empty(t, res.References)
}
