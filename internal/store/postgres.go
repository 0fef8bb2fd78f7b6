package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	lexerrors "github.com/gongahkia/lexcore/pkg/errors"
	"github.com/gongahkia/lexcore/pkg/models"
)

// PostgresBackend is an alternate Backend using tsvector/GIN indexes and
// ts_rank, grounded on the teacher's internal/storage/postgres.go
// connection-string and query-building style. It satisfies the same
// three-tier contract as SQLiteBackend for statutes; tsquery syntax replaces
// FTS5 MATCH. Its case-law and preparatory-works methods return an error.
type PostgresBackend struct {
	connStr string
	db      *sql.DB
}

func NewPostgresBackend(connStr string) *PostgresBackend {
	return &PostgresBackend{connStr: connStr}
}

func (b *PostgresBackend) Open(ctx context.Context) error {
	db, err := sql.Open("postgres", b.connStr)
	if err != nil {
		return lexerrors.ErrUnavailable
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return lexerrors.ErrUnavailable
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	b.db = db
	return nil
}

func (b *PostgresBackend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *PostgresBackend) tableExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := b.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, name).Scan(&exists)
	return exists, err
}

func (b *PostgresBackend) Capabilities(ctx context.Context) (models.CapabilitySet, error) {
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

func (b *PostgresBackend) Metadata(ctx context.Context) (StoreMetadata, error) {
	return StoreMetadata{Tier: "postgres", SchemaVersion: 1, Builder: "lexcore-ingest"}, nil
}

func (b *PostgresBackend) Counts(ctx context.Context) (TableCounts, error) {
	var tc TableCounts
	for table, dst := range map[string]*int64{
		"law_documents":      &tc.LawDocuments,
		"case_law_documents": &tc.CaseLawDocuments,
		"preparatory_works":  &tc.PreparatoryWorks,
	} {
		exists, err := b.tableExists(ctx, table)
		if err != nil || !exists {
			continue
		}
		if err := b.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(dst); err != nil {
			return tc, err
		}
	}
	return tc, nil
}

func (b *PostgresBackend) GetByID(ctx context.Context, id string) (*models.Document, error) {
	row := b.db.QueryRowContext(ctx, `SELECT `+lawDocColumns+` FROM law_documents WHERE id = $1`, id)
	d, err := scanLawDoc(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (b *PostgresBackend) pgQueryLawDocs(ctx context.Context, query string, args ...interface{}) ([]*models.Document, error) {
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

func (b *PostgresBackend) SearchStatutesExact(ctx context.Context, lookupCitations []string, limit int) ([]*models.Document, error) {
	if len(lookupCitations) == 0 {
		return nil, nil
	}
	query := `SELECT ` + lawDocColumns + ` FROM law_documents WHERE LOWER(citation) = ANY($1) ORDER BY array_position($1::text[], LOWER(citation)), id ASC LIMIT $2`
	return b.pgQueryLawDocs(ctx, query, pqStringArray(lookupCitations), limit)
}

func (b *PostgresBackend) SearchStatutesFullText(ctx context.Context, compiled string, limit int) ([]*models.Document, error) {
	query := `
		SELECT ` + lawDocColumns + ` FROM law_documents
		WHERE to_tsvector('simple', title || ' ' || coalesce(citation,'') || ' ' || coalesce(text_snippet,''))
			@@ to_tsquery('simple', $1)
		ORDER BY ts_rank(to_tsvector('simple', title || ' ' || coalesce(citation,'') || ' ' || coalesce(text_snippet,'')),
			to_tsquery('simple', $1)) DESC
		LIMIT $2`
	return b.pgQueryLawDocs(ctx, query, toTSQuery(compiled), limit)
}

func (b *PostgresBackend) SearchStatutesSubstring(ctx context.Context, tokens []string, limit int) ([]*models.Document, error) {
	where, args := pgSubstringWhere(tokens, []string{"title", "citation", "text_snippet"}, 1)
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s FROM law_documents WHERE %s ORDER BY id ASC LIMIT $%d`, lawDocColumns, where, len(args))
	return b.pgQueryLawDocs(ctx, query, args...)
}

// toTSQuery converts our FTS5-flavored compiled expression (tokens joined
// by AND/OR, *-suffixed prefixes, occasional quoted literals) into
// Postgres to_tsquery syntax (tokens joined by &/|, :* prefix matches).
func toTSQuery(compiled string) string {
	s := strings.ReplaceAll(compiled, ` AND `, " & ")
	s = strings.ReplaceAll(s, ` OR `, " | ")
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "*", ":*")
	return s
}

func pgSubstringWhere(tokens []string, columns []string, startIdx int) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	idx := startIdx
	for _, t := range tokens {
		var ors []string
		for _, c := range columns {
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", c, idx))
			args = append(args, "%"+t+"%")
			idx++
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}
	if len(clauses) == 0 {
		return "1=1", args
	}
	return strings.Join(clauses, " AND "), args
}

// pqStringArray renders a Go string slice as a Postgres text[] literal,
// avoiding an additional dependency on lib/pq's pq.Array helper types.
func pqStringArray(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return "{" + strings.Join(quoted, ",") + "}"
}

func (b *PostgresBackend) SearchCaseLawExact(ctx context.Context, keys []string, filter CaseLawQuery, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("postgres backend: case-law search not wired in this deployment tier")
}
func (b *PostgresBackend) SearchCaseLawFullText(ctx context.Context, compiled string, filter CaseLawQuery, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("postgres backend: case-law search not wired in this deployment tier")
}
func (b *PostgresBackend) SearchCaseLawSubstring(ctx context.Context, tokens []string, filter CaseLawQuery, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("postgres backend: case-law search not wired in this deployment tier")
}
func (b *PostgresBackend) SearchPrepWorksFullText(ctx context.Context, compiled string, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("postgres backend: preparatory-works search not wired in this deployment tier")
}
func (b *PostgresBackend) SearchPrepWorksSubstring(ctx context.Context, tokens []string, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("postgres backend: preparatory-works search not wired in this deployment tier")
}
func (b *PostgresBackend) SearchPrepWorksListing(ctx context.Context, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("postgres backend: preparatory-works search not wired in this deployment tier")
}
func (b *PostgresBackend) GetDocumentsByCitation(ctx context.Context, lookupCitations []string, limit int) ([]*models.Document, error) {
	return b.SearchStatutesExact(ctx, lookupCitations, limit)
}
