// Package sqlite provides a search index backed by a SQLite database.
//
// Documents are stored as JSON bodies keyed by identity. Term filters are
// evaluated with json_each, so a term matches a scalar field equal to it
// or a multi-valued field containing it.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SearchIndex = (*Index)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS index_document (
    id   TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    body TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_index_document_kind ON index_document (kind);
`

// Index is a SQLite implementation of driven.SearchIndex.
type Index struct {
	db       *sql.DB
	path     string
	onCreate driven.DocumentCreatedHook
}

// NewIndex opens the index database at path, creating it if needed.
// If path is empty, defaults to ~/.pagemedia/data/index.db. The hook, if
// not nil, runs when a document is added for the first time.
func NewIndex(path string, onCreate driven.DocumentCreatedHook) (*Index, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".pagemedia", "data", "index.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	// One writer at a time; bulk transactions read before they write.
	db.SetMaxOpenConns(1)

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating index schema: %w", err)
		}
	}

	return &Index{db: db, path: path, onCreate: onCreate}, nil
}

// Path returns the index database file path.
func (i *Index) Path() string {
	return i.path
}

// Close releases the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

// termText renders a json_each value the way domain.StringValue renders a
// term: booleans as true/false and integral reals without a fraction.
const termText = `CASE type
	WHEN 'true' THEN 'true'
	WHEN 'false' THEN 'false'
	WHEN 'real' THEN CASE WHEN value = CAST(value AS INTEGER)
		THEN CAST(CAST(value AS INTEGER) AS TEXT)
		ELSE CAST(value AS TEXT) END
	ELSE CAST(value AS TEXT) END`

// Search returns documents of a kind matching every term, ordered by identity.
func (i *Index) Search(ctx context.Context, kind string, filter driven.TermFilter) ([]domain.IndexDocument, error) {
	query := "SELECT id, kind, body FROM index_document WHERE kind = ?"
	args := []any{kind}

	// Sorted for a stable statement text.
	fields := make([]string, 0, len(filter))
	for field := range filter {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		query += " AND EXISTS (SELECT 1 FROM json_each(body, ?) WHERE " + termText + " = ?)"
		args = append(args, jsonPath(field), domain.StringValue(filter[field]))
	}
	query += " ORDER BY id"

	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("searching index", err)
	}
	defer rows.Close()

	var docs []domain.IndexDocument
	for rows.Next() {
		var id, k, body string
		if err := rows.Scan(&id, &k, &body); err != nil {
			return nil, unavailable("scanning document", err)
		}
		doc, err := decode(id, k, body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating documents", err)
	}
	return docs, nil
}

// Get retrieves a document by identity.
func (i *Index) Get(ctx context.Context, id string) (*domain.IndexDocument, error) {
	var k, body string
	err := i.db.QueryRowContext(ctx, "SELECT kind, body FROM index_document WHERE id = ?", id).Scan(&k, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("getting document", err)
	}
	doc, err := decode(id, k, body)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Bulk applies all operations in one transaction.
func (i *Index) Bulk(ctx context.Context, ops []driven.IndexOperation) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("beginning bulk", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, op := range ops {
		if op.Document.ID == "" {
			return fmt.Errorf("%w: document without identity", domain.ErrInvalidInput)
		}

		switch op.Type {
		case driven.OpAdd:
			doc := op.Document.Clone()
			exists, err := documentExists(ctx, tx, doc.ID)
			if err != nil {
				return err
			}
			if !exists && i.onCreate != nil {
				i.onCreate(&doc)
			}
			if err := upsert(ctx, tx, doc); err != nil {
				return err
			}
		case driven.OpUpdate:
			exists, err := documentExists(ctx, tx, op.Document.ID)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("update %s: %w", op.Document.ID, domain.ErrNotFound)
			}
			if err := upsert(ctx, tx, op.Document); err != nil {
				return err
			}
		case driven.OpDelete:
			if _, err := tx.ExecContext(ctx, "DELETE FROM index_document WHERE id = ?", op.Document.ID); err != nil {
				return unavailable("deleting document", err)
			}
		default:
			return fmt.Errorf("%w: operation %q", domain.ErrInvalidInput, op.Type)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("committing bulk", err)
	}
	return nil
}

func documentExists(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM index_document WHERE id = ?", id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("checking document", err)
	}
	return true, nil
}

func upsert(ctx context.Context, tx *sql.Tx, doc domain.IndexDocument) error {
	fields := doc.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", doc.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO index_document (id, kind, body) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET kind = excluded.kind, body = excluded.body
	`, doc.ID, doc.Kind, string(body))
	if err != nil {
		return unavailable("writing document", err)
	}
	return nil
}

func decode(id, kind, body string) (domain.IndexDocument, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	fields := make(map[string]any)
	if err := dec.Decode(&fields); err != nil {
		return domain.IndexDocument{}, fmt.Errorf("decoding document %s: %w", id, err)
	}
	return domain.IndexDocument{ID: id, Kind: kind, Fields: fields}, nil
}

func jsonPath(field string) string {
	return `$."` + strings.ReplaceAll(field, `"`, `\"`) + `"`
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrIndexUnavailable, err)
}
