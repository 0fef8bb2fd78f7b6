package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gongahkia/lexcore/pkg/models"
)

const caseLawColumns = `id, jurisdiction, kind, title, citation, source_url, text_snippet, metadata, ecli, file_number, case_id, court, decision_date, statute_id`

func scanCaseLawDoc(rows rowScanner) (*models.Document, error) {
	var d models.Document
	var citation, sourceURL, snippet, metadataJSON, ecli, fileNumber, caseID, court, decisionDate, statuteID sql.NullString
	if err := rows.Scan(&d.ID, &d.Jurisdiction, &d.Kind, &d.Title, &citation, &sourceURL, &snippet, &metadataJSON,
		&ecli, &fileNumber, &caseID, &court, &decisionDate, &statuteID); err != nil {
		return nil, err
	}
	d.Citation = citation.String
	d.SourceURL = sourceURL.String
	d.TextSnippet = snippet.String
	d.Metadata = decodeMetadata(metadataJSON.String)
	d.ECLI = ecli.String
	d.FileNumber = fileNumber.String
	d.CaseID = caseID.String
	d.Court = court.String
	d.DecisionDate = decisionDate.String
	d.StatuteID = statuteID.String
	return &d, nil
}

// caseLawFilterWhere builds the court/date-range predicate shared by all
// three case-law search stages.
func caseLawFilterWhere(q CaseLawQuery) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if q.Court != "" {
		clauses = append(clauses, "LOWER(court) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Court)+"%")
	}
	if q.DateFrom != "" {
		clauses = append(clauses, "decision_date >= ?")
		args = append(args, q.DateFrom)
	}
	if q.DateTo != "" {
		clauses = append(clauses, "decision_date <= ?")
		args = append(args, q.DateTo)
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

func (b *SQLiteBackend) queryCaseLawDocs(ctx context.Context, query string, args ...interface{}) ([]*models.Document, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Document
	for rows.Next() {
		d, err := scanCaseLawDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (b *SQLiteBackend) SearchCaseLawExact(ctx context.Context, keys []string, filter CaseLawQuery, limit int) ([]*models.Document, error) {
	key := ""
	for _, k := range keys {
		if k != "" {
			key = k
			break
		}
	}
	if key == "" {
		return nil, nil
	}
	filterSQL, filterArgs := caseLawFilterWhere(filter)
	query := fmt.Sprintf(`
		SELECT %s FROM case_law_documents
		WHERE (LOWER(ecli) = ? OR LOWER(file_number) = ? OR LOWER(citation) = ? OR LOWER(case_id) = ? OR LOWER(id) = ?)%s
		ORDER BY decision_date DESC, id DESC LIMIT ?`, caseLawColumns, filterSQL)
	args := []interface{}{key, key, key, key, key}
	args = append(args, filterArgs...)
	args = append(args, limit)
	return b.queryCaseLawDocs(ctx, query, args...)
}

func (b *SQLiteBackend) SearchCaseLawFullText(ctx context.Context, compiled string, filter CaseLawQuery, limit int) ([]*models.Document, error) {
	exists, err := b.tableExists(ctx, "case_law_documents_fts")
	if err != nil || !exists {
		return nil, err
	}
	filterSQL, filterArgs := caseLawFilterWhere(filter)
	query := fmt.Sprintf(`
		SELECT %s FROM case_law_documents d
		JOIN case_law_documents_fts f ON d.rowid = f.rowid
		WHERE case_law_documents_fts MATCH ?%s
		ORDER BY rank LIMIT ?`, prefixCols("d", caseLawColumns), filterSQL)
	args := []interface{}{compiled}
	args = append(args, filterArgs...)
	args = append(args, limit)
	return b.queryCaseLawDocs(ctx, query, args...)
}

func (b *SQLiteBackend) SearchCaseLawSubstring(ctx context.Context, tokens []string, filter CaseLawQuery, limit int) ([]*models.Document, error) {
	where, args := substringWhere(tokens, []string{"title", "citation", "text_snippet"})
	filterSQL, filterArgs := caseLawFilterWhere(filter)
	args = append(args, filterArgs...)
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s FROM case_law_documents WHERE %s%s ORDER BY decision_date DESC, id DESC LIMIT ?`,
		caseLawColumns, where, filterSQL)
	return b.queryCaseLawDocs(ctx, query, args...)
}
