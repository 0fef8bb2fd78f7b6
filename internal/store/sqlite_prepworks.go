package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gongahkia/lexcore/pkg/models"
)

const prepWorkColumns = `id, jurisdiction, kind, title, citation, source_url, text_snippet, metadata, publication_date, statute_id`

func scanPrepWorkDoc(rows rowScanner) (*models.Document, error) {
	var d models.Document
	var citation, sourceURL, snippet, metadataJSON, pubDate, statuteID sql.NullString
	if err := rows.Scan(&d.ID, &d.Jurisdiction, &d.Kind, &d.Title, &citation, &sourceURL, &snippet, &metadataJSON,
		&pubDate, &statuteID); err != nil {
		return nil, err
	}
	d.Citation = citation.String
	d.SourceURL = sourceURL.String
	d.TextSnippet = snippet.String
	d.Metadata = decodeMetadata(metadataJSON.String)
	d.PublicationDate = pubDate.String
	d.StatuteID = statuteID.String
	return &d, nil
}

func (b *SQLiteBackend) queryPrepWorkDocs(ctx context.Context, query string, args ...interface{}) ([]*models.Document, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Document
	for rows.Next() {
		d, err := scanPrepWorkDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (b *SQLiteBackend) SearchPrepWorksFullText(ctx context.Context, compiled string, limit int) ([]*models.Document, error) {
	exists, err := b.tableExists(ctx, "preparatory_works_fts")
	if err != nil || !exists {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s FROM preparatory_works d
		JOIN preparatory_works_fts f ON d.rowid = f.rowid
		WHERE preparatory_works_fts MATCH ?
		ORDER BY rank LIMIT ?`, prefixCols("d", prepWorkColumns))
	return b.queryPrepWorkDocs(ctx, query, compiled, limit)
}

func (b *SQLiteBackend) SearchPrepWorksSubstring(ctx context.Context, tokens []string, limit int) ([]*models.Document, error) {
	where, args := substringWhere(tokens, []string{"title", "citation", "text_snippet"})
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s FROM preparatory_works WHERE %s ORDER BY publication_date DESC, id DESC LIMIT ?`,
		prepWorkColumns, where)
	return b.queryPrepWorkDocs(ctx, query, args...)
}

func (b *SQLiteBackend) SearchPrepWorksListing(ctx context.Context, limit int) ([]*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM preparatory_works ORDER BY publication_date DESC, id DESC LIMIT ?`, prepWorkColumns)
	return b.queryPrepWorkDocs(ctx, query, limit)
}

// GetDocumentsByCitation joins law_documents on any normalized lookup form,
// preferred candidate first.
func (b *SQLiteBackend) GetDocumentsByCitation(ctx context.Context, lookupCitations []string, limit int) ([]*models.Document, error) {
	return b.SearchStatutesExact(ctx, lookupCitations, limit)
}
