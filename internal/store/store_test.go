package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/gongahkia/lexcore/internal/cache"
	"github.com/gongahkia/lexcore/internal/citation"
	"github.com/gongahkia/lexcore/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixtureStore builds a temp sqlite file with BuildSchema applied and
// seeds it via a separate read-write connection (mirroring what an
// out-of-scope ingestion process would do), then returns a Store reading
// it through the read-only SQLiteBackend path.
func newFixtureStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.db")

	rw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer rw.Close()
	require.NoError(t, BuildSchema(rw))

	_, err = rw.Exec(`INSERT INTO law_documents (id, jurisdiction, kind, title, citation, text_snippet)
		VALUES (?, 'de', 'statute', ?, ?, ?)`,
		"bdsg:1", "Bundesdatenschutzgesetz", "§ 1 BDSG",
		"Dieses Gesetz dient dem Schutz ... Richtlinie (EU) 2016/679 ...")
	require.NoError(t, err)
	_, err = rw.Exec(`INSERT INTO law_documents (id, jurisdiction, kind, title, citation, text_snippet)
		VALUES (?, 'de', 'statute', ?, ?, ?)`,
		"bgb:823", "Bürgerliches Gesetzbuch", "§ 823 BGB", "Schadensersatzpflicht")
	require.NoError(t, err)

	backend := NewSQLiteBackend(path)
	return New(backend, citation.NewGerman())
}

func TestStoreOpeningUnavailable(t *testing.T) {
	s := New(NewSQLiteBackend(filepath.Join(t.TempDir(), "missing.db")), citation.NewGerman())
	_, err := s.Counts(context.Background())
	assert.Error(t, err)
}

func TestStoreSearchStatutesExactFirst(t *testing.T) {
	s := newFixtureStore(t)
	docs, err := s.SearchStatutes(context.Background(), StatuteQuery{Query: "§ 1 BDSG", Limit: 2})
	require.NoError(t, err)
	require.NotEmpty(t, docs)
	assert.Equal(t, "bdsg:1", docs[0].ID)
}

func TestStoreSearchStatutesDedup(t *testing.T) {
	s := newFixtureStore(t)
	docs, err := s.SearchStatutes(context.Background(), StatuteQuery{Query: "Gesetz", Limit: 10})
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, d := range docs {
		assert.False(t, seen[d.ID])
		seen[d.ID] = true
	}
}

func TestStoreSearchStatutesServesFromCacheOnSecondCall(t *testing.T) {
	s := newFixtureStore(t)
	c := cache.NewMemoryCache(&cache.Config{MaxKeys: 100, TTL: time.Minute})
	s.SetCache(c, time.Minute)

	ctx := context.Background()
	first, err := s.SearchStatutes(ctx, StatuteQuery{Query: "§ 1 BDSG", Limit: 2})
	require.NoError(t, err)
	require.NotEmpty(t, first)

	key := "statutes:§ 1 bdsg:2"
	cached, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, cached)

	second, err := s.SearchStatutes(ctx, StatuteQuery{Query: "§ 1 BDSG", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestStoreGetByID(t *testing.T) {
	s := newFixtureStore(t)
	doc, err := s.GetByID(context.Background(), "bgb:823")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "§ 823 BGB", doc.Citation)

	missing, err := s.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStoreCapabilities(t *testing.T) {
	s := newFixtureStore(t)
	caps, err := s.Capabilities(context.Background())
	require.NoError(t, err)
	assert.True(t, caps.Has(models.CapCoreLegislation))
	assert.False(t, caps.Has(models.CapFullPreparatoryWorks))
}
