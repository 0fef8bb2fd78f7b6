package store

import "database/sql"

// BuildSchema creates the law_documents/case_law_documents/
// preparatory_works tables, their FTS5 companions, and content-sync
// triggers. It is not called by the read-only Backend: schema creation
// belongs to ingestion (out of core scope). It is exported so the
// ingestion package and tests can materialize a fixture corpus with the
// exact shape the Backend expects.
//
// Grounded on the teacher's internal/storage/sqlite.go initSchema: one
// FTS5 virtual table per primary table, content= pointing back at it,
// AFTER INSERT/UPDATE/DELETE triggers keeping the index in sync.
func BuildSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS law_documents (
			id TEXT PRIMARY KEY,
			jurisdiction TEXT NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			citation TEXT,
			source_url TEXT,
			effective_date TEXT,
			text_snippet TEXT,
			metadata TEXT
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS law_documents_fts USING fts5(
			title, citation, text_snippet,
			content=law_documents, content_rowid=rowid
		)`,
		`CREATE TRIGGER IF NOT EXISTS law_documents_ai AFTER INSERT ON law_documents BEGIN
			INSERT INTO law_documents_fts(rowid, title, citation, text_snippet)
			VALUES (new.rowid, new.title, new.citation, new.text_snippet);
		END`,
		`CREATE TRIGGER IF NOT EXISTS law_documents_ad AFTER DELETE ON law_documents BEGIN
			INSERT INTO law_documents_fts(law_documents_fts, rowid, title, citation, text_snippet)
			VALUES ('delete', old.rowid, old.title, old.citation, old.text_snippet);
		END`,
		`CREATE TRIGGER IF NOT EXISTS law_documents_au AFTER UPDATE ON law_documents BEGIN
			INSERT INTO law_documents_fts(law_documents_fts, rowid, title, citation, text_snippet)
			VALUES ('delete', old.rowid, old.title, old.citation, old.text_snippet);
			INSERT INTO law_documents_fts(rowid, title, citation, text_snippet)
			VALUES (new.rowid, new.title, new.citation, new.text_snippet);
		END`,

		`CREATE TABLE IF NOT EXISTS case_law_documents (
			id TEXT PRIMARY KEY,
			jurisdiction TEXT NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			citation TEXT,
			source_url TEXT,
			text_snippet TEXT,
			metadata TEXT,
			ecli TEXT,
			file_number TEXT,
			case_id TEXT,
			court TEXT,
			decision_date TEXT,
			statute_id TEXT
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS case_law_documents_fts USING fts5(
			title, citation, text_snippet,
			content=case_law_documents, content_rowid=rowid
		)`,
		`CREATE TRIGGER IF NOT EXISTS case_law_documents_ai AFTER INSERT ON case_law_documents BEGIN
			INSERT INTO case_law_documents_fts(rowid, title, citation, text_snippet)
			VALUES (new.rowid, new.title, new.citation, new.text_snippet);
		END`,
		`CREATE TRIGGER IF NOT EXISTS case_law_documents_ad AFTER DELETE ON case_law_documents BEGIN
			INSERT INTO case_law_documents_fts(case_law_documents_fts, rowid, title, citation, text_snippet)
			VALUES ('delete', old.rowid, old.title, old.citation, old.text_snippet);
		END`,
		`CREATE TRIGGER IF NOT EXISTS case_law_documents_au AFTER UPDATE ON case_law_documents BEGIN
			INSERT INTO case_law_documents_fts(case_law_documents_fts, rowid, title, citation, text_snippet)
			VALUES ('delete', old.rowid, old.title, old.citation, old.text_snippet);
			INSERT INTO case_law_documents_fts(rowid, title, citation, text_snippet)
			VALUES (new.rowid, new.title, new.citation, new.text_snippet);
		END`,

		`CREATE TABLE IF NOT EXISTS preparatory_works (
			id TEXT PRIMARY KEY,
			jurisdiction TEXT NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			citation TEXT,
			source_url TEXT,
			text_snippet TEXT,
			metadata TEXT,
			publication_date TEXT,
			statute_id TEXT
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS preparatory_works_fts USING fts5(
			title, citation, text_snippet,
			content=preparatory_works, content_rowid=rowid
		)`,
		`CREATE TRIGGER IF NOT EXISTS preparatory_works_ai AFTER INSERT ON preparatory_works BEGIN
			INSERT INTO preparatory_works_fts(rowid, title, citation, text_snippet)
			VALUES (new.rowid, new.title, new.citation, new.text_snippet);
		END`,
		`CREATE TRIGGER IF NOT EXISTS preparatory_works_ad AFTER DELETE ON preparatory_works BEGIN
			INSERT INTO preparatory_works_fts(preparatory_works_fts, rowid, title, citation, text_snippet)
			VALUES ('delete', old.rowid, old.title, old.citation, old.text_snippet);
		END`,
		`CREATE TRIGGER IF NOT EXISTS preparatory_works_au AFTER UPDATE ON preparatory_works BEGIN
			INSERT INTO preparatory_works_fts(preparatory_works_fts, rowid, title, citation, text_snippet)
			VALUES ('delete', old.rowid, old.title, old.citation, old.text_snippet);
			INSERT INTO preparatory_works_fts(rowid, title, citation, text_snippet)
			VALUES (new.rowid, new.title, new.citation, new.text_snippet);
		END`,

		`CREATE TABLE IF NOT EXISTS store_metadata (key TEXT PRIMARY KEY, value TEXT)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
