package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// ==================== Content Value Store ====================

// contentValueStore implements driven.ContentValueStore.
type contentValueStore struct {
	store *Store
}

var _ driven.ContentValueStore = (*contentValueStore)(nil)

// Exists reports whether at least one content value matches the query.
func (s *contentValueStore) Exists(ctx context.Context, q domain.ContentQuery) (bool, error) {
	if len(q.Contents) == 0 {
		return false, nil
	}

	query := `
		SELECT id FROM element_structure_value
		WHERE eid = ? AND language = ? AND version = ?
		AND content IN (` + placeholders(len(q.Contents)) + `)`
	args := []any{q.ElementID, q.Language, q.Version}
	for _, c := range q.Contents {
		args = append(args, c)
	}
	if len(q.FieldTypes) > 0 {
		query += ` AND type IN (` + placeholders(len(q.FieldTypes)) + `)`
		for _, t := range q.FieldTypes {
			args = append(args, t)
		}
	}
	query += ` LIMIT 1`

	var id string
	err := s.store.queryRow(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("querying content values", err)
	}
	return true, nil
}

// SaveContentValue stores a structured content value. An empty ID is
// assigned a new one.
func (s *Store) SaveContentValue(ctx context.Context, v domain.ContentValue) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := s.exec(ctx, `
		INSERT INTO element_structure_value (id, eid, version, language, type, content)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			eid = excluded.eid,
			version = excluded.version,
			language = excluded.language,
			type = excluded.type,
			content = excluded.content
	`, v.ID, v.ElementID, v.Version, v.Language, v.FieldType, v.Content)
	if err != nil {
		return unavailable("saving content value", err)
	}
	return nil
}

// DeleteContentValues removes the content values of one element revision.
func (s *Store) DeleteContentValues(ctx context.Context, elementID int64, version int, language string) error {
	_, err := s.exec(ctx,
		"DELETE FROM element_structure_value WHERE eid = ? AND version = ? AND language = ?",
		elementID, version, language)
	if err != nil {
		return unavailable("deleting content values", err)
	}
	return nil
}

// ==================== Tree Store ====================

// treeStore implements driven.TreeStore.
type treeStore struct {
	store *Store
}

var _ driven.TreeStore = (*treeStore)(nil)

// PublishedVersion returns the published version of a node in a language.
func (s *treeStore) PublishedVersion(
	ctx context.Context, siterootID string, nodeID int64, language string,
) (int, bool, error) {
	var version int
	err := s.store.queryRow(ctx, `
		SELECT version FROM tree_node_online
		WHERE siteroot_id = ? AND node_id = ? AND language = ?
	`, siterootID, nodeID, language).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, unavailable("querying published version", err)
	}
	return version, true, nil
}

// SavePublishedNode records the published version of a node.
func (s *Store) SavePublishedNode(ctx context.Context, n domain.PublishedNode) error {
	_, err := s.exec(ctx, `
		INSERT INTO tree_node_online (siteroot_id, node_id, eid, language, version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(siteroot_id, node_id, language) DO UPDATE SET
			eid = excluded.eid,
			version = excluded.version
	`, n.SiterootID, n.NodeID, n.ElementID, n.Language, n.Version)
	if err != nil {
		return unavailable("saving published node", err)
	}
	return nil
}

// DeletePublishedNode takes a node offline in one language.
func (s *Store) DeletePublishedNode(ctx context.Context, siterootID string, nodeID int64, language string) error {
	_, err := s.exec(ctx,
		"DELETE FROM tree_node_online WHERE siteroot_id = ? AND node_id = ? AND language = ?",
		siterootID, nodeID, language)
	if err != nil {
		return unavailable("deleting published node", err)
	}
	return nil
}

// ==================== Siteroot Store ====================

// siterootStore implements driven.SiterootStore.
type siterootStore struct {
	store *Store
}

var _ driven.SiterootStore = (*siterootStore)(nil)

// Properties returns the properties of a siteroot.
func (s *siterootStore) Properties(ctx context.Context, siterootID string) (map[string]string, error) {
	var id string
	err := s.store.queryRow(ctx, "SELECT id FROM siteroot WHERE id = ?", siterootID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("querying siteroot", err)
	}

	rows, err := s.store.query(ctx,
		"SELECT name, value FROM siteroot_property WHERE siteroot_id = ?", siterootID)
	if err != nil {
		return nil, unavailable("querying siteroot properties", err)
	}
	defer rows.Close()

	props := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, unavailable("scanning siteroot property", err)
		}
		props[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating siteroot properties", err)
	}
	return props, nil
}

// SaveSiteroot creates a siteroot and replaces its properties.
func (s *Store) SaveSiteroot(ctx context.Context, siterootID string, props map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("beginning transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []struct {
		query string
		args  []any
	}{
		{"INSERT INTO siteroot (id) VALUES (?) ON CONFLICT(id) DO NOTHING", []any{siterootID}},
		{"DELETE FROM siteroot_property WHERE siteroot_id = ?", []any{siterootID}},
	}
	for name, value := range props {
		stmts = append(stmts, struct {
			query string
			args  []any
		}{
			"INSERT INTO siteroot_property (siteroot_id, name, value) VALUES (?, ?, ?)",
			[]any{siterootID, name, value},
		})
	}

	for _, st := range stmts {
		if _, err := tx.ExecContext(ctx, s.rebind(st.query), st.args...); err != nil {
			return unavailable("saving siteroot", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("committing siteroot", err)
	}
	return nil
}
