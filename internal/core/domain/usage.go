package domain

// UsageTypeElement marks usage records owned by content elements.
const UsageTypeElement = "element"

// Usage status bits.
const (
	UsageStatusOnline = 1 << iota
	UsageStatusLatest
	UsageStatusOld
)

// FileUsage links an element to one version of a media file.
type FileUsage struct {
	FileID      string `json:"file_id"`
	FileVersion int    `json:"file_version"`
	UsageType   string `json:"usage_type"`
	UsageID     int64  `json:"usage_id"`
	Status      int    `json:"status"`
}

// IsOnline reports whether the ONLINE status bit is set.
func (u FileUsage) IsOnline() bool { return u.Status&UsageStatusOnline != 0 }

// File returns the referenced file version.
func (u FileUsage) File() FileRef { return FileRef{ID: u.FileID, Version: u.FileVersion} }

// FolderUsage links an element to a media folder.
type FolderUsage struct {
	FolderID  string `json:"folder_id"`
	UsageType string `json:"usage_type"`
	UsageID   int64  `json:"usage_id"`
	Status    int    `json:"status"`
}

// IsOnline reports whether the ONLINE status bit is set.
func (u FolderUsage) IsOnline() bool { return u.Status&UsageStatusOnline != 0 }

// ContentQuery asks whether a published element revision holds a
// structured content value referencing any of Contents.
type ContentQuery struct {
	// ElementID is the element (page type) id.
	ElementID int64

	// Language of the revision.
	Language string

	// Version is the published version number.
	Version int

	// Contents are the candidate content values (file tokens, folder ids).
	Contents []string

	// FieldTypes restricts matching to these structural field types.
	// Empty means any field type.
	FieldTypes []string
}

// ContentValue is one structured content value of an element revision.
type ContentValue struct {
	ID        string `json:"id,omitempty"`
	ElementID int64  `json:"eid"`
	Version   int    `json:"version"`
	Language  string `json:"language"`
	FieldType string `json:"type"`
	Content   string `json:"content"`
}

// PublishedNode records the published version of a tree node in one language.
type PublishedNode struct {
	SiterootID string `json:"siteroot_id"`
	NodeID     int64  `json:"node_id"`
	ElementID  int64  `json:"eid"`
	Language   string `json:"language"`
	Version    int    `json:"version"`
}
