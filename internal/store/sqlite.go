package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	lexerrors "github.com/gongahkia/lexcore/pkg/errors"
	"github.com/gongahkia/lexcore/pkg/models"
)

// capabilityTables maps each Capability to the table whose presence in
// sqlite_master attests it. Grounded on the teacher's single cases_fts
// table, generalized to three primary tables plus three optional
// enrichment tables.
var capabilityTables = map[models.Capability]string{
	models.CapCoreLegislation:      "law_documents",
	models.CapBasicCaseLaw:         "case_law_documents",
	models.CapExpandedCaseLaw:      "case_law_documents_expanded",
	models.CapFullPreparatoryWorks: "preparatory_works",
	models.CapEuReferences:         "eu_reference_index",
	models.CapAgencyGuidance:       "agency_guidance_documents",
}

// SQLiteBackend is the primary Backend implementation, grounded on the
// teacher's internal/storage/sqlite.go: FTS5 virtual tables with
// content-sync triggers, BM25-equivalent ORDER BY rank.
type SQLiteBackend struct {
	path string
	db   *sql.DB
}

func NewSQLiteBackend(path string) *SQLiteBackend {
	return &SQLiteBackend{path: path}
}

func (b *SQLiteBackend) Open(ctx context.Context) error {
	if b.path != ":memory:" {
		if _, err := os.Stat(b.path); err != nil {
			return lexerrors.ErrUnavailable
		}
	}
	dsn := b.path
	if b.path != ":memory:" {
		dsn += "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&mode=ro"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return lexerrors.ErrUnavailable
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return lexerrors.ErrUnavailable
	}
	b.db = db
	return nil
}

func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *SQLiteBackend) tableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := b.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (b *SQLiteBackend) Capabilities(ctx context.Context) (models.CapabilitySet, error) {
	cs := make(models.CapabilitySet)
	for cap, table := range capabilityTables {
		ok, err := b.tableExists(ctx, table)
		if err != nil {
			return nil, err
		}
		cs[cap] = ok
	}
	return cs, nil
}

func (b *SQLiteBackend) Metadata(ctx context.Context) (StoreMetadata, error) {
	meta := StoreMetadata{Tier: "sqlite", SchemaVersion: 1, Builder: "lexcore-ingest"}
	row := b.db.QueryRowContext(ctx, `SELECT value FROM store_metadata WHERE key = 'built_at'`)
	var builtAt string
	if err := row.Scan(&builtAt); err == nil {
		meta.BuiltAt = builtAt
	}
	return meta, nil
}

func (b *SQLiteBackend) Counts(ctx context.Context) (TableCounts, error) {
	var tc TableCounts
	for table, dst := range map[string]*int64{
		"law_documents":     &tc.LawDocuments,
		"case_law_documents": &tc.CaseLawDocuments,
		"preparatory_works":  &tc.PreparatoryWorks,
	} {
		exists, err := b.tableExists(ctx, table)
		if err != nil {
			return tc, err
		}
		if !exists {
			continue
		}
		if err := b.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(dst); err != nil {
			return tc, err
		}
	}
	return tc, nil
}

const lawDocColumns = `id, jurisdiction, kind, title, citation, source_url, effective_date, text_snippet, metadata`

func scanLawDoc(rows rowScanner) (*models.Document, error) {
	var d models.Document
	var citation, sourceURL, effectiveDate, snippet, metadataJSON sql.NullString
	if err := rows.Scan(&d.ID, &d.Jurisdiction, &d.Kind, &d.Title, &citation, &sourceURL, &effectiveDate, &snippet, &metadataJSON); err != nil {
		return nil, err
	}
	d.Citation = citation.String
	d.SourceURL = sourceURL.String
	d.EffectiveDate = effectiveDate.String
	d.TextSnippet = snippet.String
	d.Metadata = decodeMetadata(metadataJSON.String)
	return &d, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (b *SQLiteBackend) GetByID(ctx context.Context, id string) (*models.Document, error) {
	for _, q := range []struct {
		table string
		scan  func(rowScanner) (*models.Document, error)
	}{
		{"law_documents", scanLawDoc},
		{"case_law_documents", scanCaseLawDoc},
		{"preparatory_works", scanPrepWorkDoc},
	} {
		exists, err := b.tableExists(ctx, q.table)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		cols := lawDocColumns
		if q.table == "case_law_documents" {
			cols = caseLawColumns
		} else if q.table == "preparatory_works" {
			cols = prepWorkColumns
		}
		row := b.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, cols, q.table), id)
		doc, err := q.scan(row)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	return nil, nil
}

func (b *SQLiteBackend) SearchStatutesExact(ctx context.Context, lookupCitations []string, limit int) ([]*models.Document, error) {
	if len(lookupCitations) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(lookupCitations))
	whens := make([]string, len(lookupCitations))
	args := make([]interface{}, 0, 2*len(lookupCitations)+1)
	for i, c := range lookupCitations {
		placeholders[i] = "?"
		args = append(args, c)
	}
	for i, c := range lookupCitations {
		whens[i] = fmt.Sprintf("WHEN ? THEN %d", i)
		args = append(args, c)
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s FROM law_documents WHERE LOWER(citation) IN (%s) ORDER BY CASE LOWER(citation) %s END, id ASC LIMIT ?`,
		lawDocColumns, strings.Join(placeholders, ","), strings.Join(whens, " "))
	return b.queryLawDocs(ctx, query, args...)
}

func (b *SQLiteBackend) SearchStatutesFullText(ctx context.Context, compiled string, limit int) ([]*models.Document, error) {
	exists, err := b.tableExists(ctx, "law_documents_fts")
	if err != nil || !exists {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s FROM law_documents d
		JOIN law_documents_fts f ON d.rowid = f.rowid
		WHERE law_documents_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, prefixCols("d", lawDocColumns))
	return b.queryLawDocs(ctx, query, compiled, limit)
}

func (b *SQLiteBackend) SearchStatutesSubstring(ctx context.Context, tokens []string, limit int) ([]*models.Document, error) {
	where, args := substringWhere(tokens, []string{"title", "citation", "text_snippet"})
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s FROM law_documents WHERE %s ORDER BY id ASC LIMIT ?`, lawDocColumns, where)
	return b.queryLawDocs(ctx, query, args...)
}

func (b *SQLiteBackend) queryLawDocs(ctx context.Context, query string, args ...interface{}) ([]*models.Document, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Document
	for rows.Next() {
		d, err := scanLawDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// prefixCols prepends alias. to each column name in a comma list.
func prefixCols(alias, cols string) string {
	parts := strings.Split(cols, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

// substringWhere builds an AND-of-ORs predicate: each token must match at
// least one of the given columns as a substring.
func substringWhere(tokens []string, columns []string) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	for _, t := range tokens {
		var ors []string
		for _, c := range columns {
			ors = append(ors, fmt.Sprintf("%s LIKE ?", c))
			args = append(args, "%"+t+"%")
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}
	if len(clauses) == 0 {
		return "1=1", args
	}
	return strings.Join(clauses, " AND "), args
}

func decodeMetadata(raw string) map[string]interface{} {
	if raw == "" {
		return nil
	}
	m := make(map[string]interface{})
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}
