package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewHTMLCountsArticlesAndSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.html")
	html := `<html><body>
		<article><section>one</section><section>two</section></article>
		<article>no sections here</article>
	</body></html>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0o644))

	result, err := PreviewHTML(path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ArticleCount)
	assert.Equal(t, 2, result.SectionCount)
}

func TestPreviewHTMLMissingFile(t *testing.T) {
	_, err := PreviewHTML(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}
