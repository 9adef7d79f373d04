package sqlite

import (
	"context"
	"database/sql"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// usageStore implements driven.UsageStore.
type usageStore struct {
	store *Store
}

var _ driven.UsageStore = (*usageStore)(nil)

// FileUsagesByElement returns all file usages owned by an element.
func (s *usageStore) FileUsagesByElement(ctx context.Context, usageType string, usageID int64) ([]domain.FileUsage, error) {
	rows, err := s.store.query(ctx, `
		SELECT file_id, file_version, usage_type, usage_id, status
		FROM media_file_usage
		WHERE usage_type = ? AND usage_id = ?
		ORDER BY file_id, file_version
	`, usageType, usageID)
	if err != nil {
		return nil, unavailable("querying file usages", err)
	}
	return scanFileUsages(rows)
}

// FileUsagesByFile returns all usages of one file version.
func (s *usageStore) FileUsagesByFile(ctx context.Context, file domain.FileRef, usageType string) ([]domain.FileUsage, error) {
	rows, err := s.store.query(ctx, `
		SELECT file_id, file_version, usage_type, usage_id, status
		FROM media_file_usage
		WHERE file_id = ? AND file_version = ? AND usage_type = ?
		ORDER BY usage_id
	`, file.ID, file.Version, usageType)
	if err != nil {
		return nil, unavailable("querying file usages", err)
	}
	return scanFileUsages(rows)
}

// FolderUsages returns all folder usages of a usage type.
func (s *usageStore) FolderUsages(ctx context.Context, usageType string) ([]domain.FolderUsage, error) {
	rows, err := s.store.query(ctx, `
		SELECT folder_id, usage_type, usage_id, status
		FROM media_folder_usage
		WHERE usage_type = ?
		ORDER BY folder_id, usage_id
	`, usageType)
	if err != nil {
		return nil, unavailable("querying folder usages", err)
	}
	defer rows.Close()

	var usages []domain.FolderUsage
	for rows.Next() {
		var u domain.FolderUsage
		if err := rows.Scan(&u.FolderID, &u.UsageType, &u.UsageID, &u.Status); err != nil {
			return nil, unavailable("scanning folder usage", err)
		}
		usages = append(usages, u)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating folder usages", err)
	}
	return usages, nil
}

func scanFileUsages(rows *sql.Rows) ([]domain.FileUsage, error) {
	defer rows.Close()

	var usages []domain.FileUsage
	for rows.Next() {
		var u domain.FileUsage
		if err := rows.Scan(&u.FileID, &u.FileVersion, &u.UsageType, &u.UsageID, &u.Status); err != nil {
			return nil, unavailable("scanning file usage", err)
		}
		usages = append(usages, u)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating file usages", err)
	}
	return usages, nil
}

// SaveFileUsage creates or updates a file usage record.
func (s *Store) SaveFileUsage(ctx context.Context, u domain.FileUsage) error {
	_, err := s.exec(ctx, `
		INSERT INTO media_file_usage (file_id, file_version, usage_type, usage_id, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(file_id, file_version, usage_type, usage_id) DO UPDATE SET
			status = excluded.status
	`, u.FileID, u.FileVersion, u.UsageType, u.UsageID, u.Status)
	if err != nil {
		return unavailable("saving file usage", err)
	}
	return nil
}

// DeleteFileUsages removes all file usages owned by an element.
func (s *Store) DeleteFileUsages(ctx context.Context, usageType string, usageID int64) error {
	_, err := s.exec(ctx, "DELETE FROM media_file_usage WHERE usage_type = ? AND usage_id = ?", usageType, usageID)
	if err != nil {
		return unavailable("deleting file usages", err)
	}
	return nil
}

// SaveFolderUsage creates or updates a folder usage record.
func (s *Store) SaveFolderUsage(ctx context.Context, u domain.FolderUsage) error {
	_, err := s.exec(ctx, `
		INSERT INTO media_folder_usage (folder_id, usage_type, usage_id, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(folder_id, usage_type, usage_id) DO UPDATE SET
			status = excluded.status
	`, u.FolderID, u.UsageType, u.UsageID, u.Status)
	if err != nil {
		return unavailable("saving folder usage", err)
	}
	return nil
}
