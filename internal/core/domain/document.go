package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Document kinds stored in the search index.
const (
	KindMedia = "media"
	KindPage  = "page"
)

// Media document field names.
const (
	FieldFileID          = "file_id"
	FieldFileVersion     = "file_version"
	FieldFolderID        = "folder_id"
	FieldParentFolderIDs = "parent_folder_ids"
	FieldMediaType       = "media_type"
	FieldRestricted      = "restricted"

	// Owned fields, written exclusively by reconciliation.
	FieldTypeIDs     = "typeIds"
	FieldNodeIDs     = "nodeIds"
	FieldSiterootIDs = "siterootIds"
	FieldLanguages   = "languages"
)

// Page document field names.
const (
	PageFieldTypeID     = "typeId"
	PageFieldNodeID     = "nodeId"
	PageFieldSiterootID = "siterootId"
	PageFieldLanguage   = "language"
	PageFieldRestricted = "restricted"
)

// TransientMediaFields are computed at query time by the index and
// must be stripped before a media document is written back.
var TransientMediaFields = []string{"copy", "score", "cleantitle"}

// IndexDocument is a raw search index record: an identity, a kind,
// and an arbitrary bag of named fields.
type IndexDocument struct {
	// ID is the document identity within the index.
	ID string `json:"id"`

	// Kind distinguishes media documents from page documents.
	Kind string `json:"kind"`

	// Fields holds the named attributes. Multi-valued fields hold slices.
	Fields map[string]any `json:"fields"`
}

// Get returns the value of a field, or nil if absent.
func (d IndexDocument) Get(field string) any {
	if d.Fields == nil {
		return nil
	}
	return d.Fields[field]
}

// Clone returns a deep copy of the document. Slice values are copied
// so that mutations of the clone never reach the original.
func (d IndexDocument) Clone() IndexDocument {
	fields := make(map[string]any, len(d.Fields))
	for k, v := range d.Fields {
		fields[k] = cloneValue(v)
	}
	return IndexDocument{ID: d.ID, Kind: d.Kind, Fields: fields}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		return append([]any(nil), t...)
	case []string:
		return append([]string(nil), t...)
	case []int64:
		return append([]int64(nil), t...)
	case []int:
		return append([]int(nil), t...)
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	default:
		return v
	}
}

// FileRef identifies one version of a media file.
type FileRef struct {
	ID      string
	Version int
}

// Token returns the composite "fileId;fileVersion" content token used
// by structured content values to reference a file.
func (f FileRef) Token() string {
	return f.ID + ";" + strconv.Itoa(f.Version)
}

// MediaIdentity returns the stable index identity of a media file version.
func MediaIdentity(fileID string, version int) string {
	return fmt.Sprintf("media_%s_%d", fileID, version)
}

// ParseMediaIdentity recovers the file reference from a media identity.
func ParseMediaIdentity(id string) (FileRef, error) {
	rest, ok := strings.CutPrefix(id, "media_")
	if !ok {
		return FileRef{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, id)
	}
	sep := strings.LastIndex(rest, "_")
	if sep <= 0 || sep == len(rest)-1 {
		return FileRef{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, id)
	}
	version, err := strconv.Atoi(rest[sep+1:])
	if err != nil {
		return FileRef{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, id)
	}
	return FileRef{ID: rest[:sep], Version: version}, nil
}

// MediaDocument is a working view over a media index document.
type MediaDocument struct {
	doc IndexDocument
}

// NewMediaDocument wraps an index document. The fields map is
// allocated when absent.
func NewMediaDocument(doc IndexDocument) *MediaDocument {
	if doc.Fields == nil {
		doc.Fields = make(map[string]any)
	}
	doc.Kind = KindMedia
	return &MediaDocument{doc: doc}
}

// ID returns the media document identity.
func (m *MediaDocument) ID() string { return m.doc.ID }

// Get returns a raw field value.
func (m *MediaDocument) Get(field string) any { return m.doc.Get(field) }

// Set writes a raw field value.
func (m *MediaDocument) Set(field string, value any) { m.doc.Fields[field] = value }

// Has reports whether the field is present.
func (m *MediaDocument) Has(field string) bool {
	_, ok := m.doc.Fields[field]
	return ok
}

// Unset removes a field.
func (m *MediaDocument) Unset(field string) { delete(m.doc.Fields, field) }

// File returns the referenced file version. When the document body
// lacks file attributes the identity is parsed instead.
func (m *MediaDocument) File() (FileRef, error) {
	id := StringValue(m.Get(FieldFileID))
	if id == "" {
		return ParseMediaIdentity(m.doc.ID)
	}
	version, ok := Int64Value(m.Get(FieldFileVersion))
	if !ok {
		ref, err := ParseMediaIdentity(m.doc.ID)
		if err != nil {
			return FileRef{}, err
		}
		version = int64(ref.Version)
	}
	return FileRef{ID: id, Version: int(version)}, nil
}

// FolderID returns the folder directly containing the file.
func (m *MediaDocument) FolderID() string { return StringValue(m.Get(FieldFolderID)) }

// ParentFolderIDs returns the ordered ancestor folder chain.
func (m *MediaDocument) ParentFolderIDs() []string {
	return StringValues(m.Get(FieldParentFolderIDs))
}

// MediaType returns the asset type (image, video, document...).
func (m *MediaDocument) MediaType() string { return StringValue(m.Get(FieldMediaType)) }

// Restricted reports whether any contributing page is access restricted.
func (m *MediaDocument) Restricted() bool { return BoolValue(m.Get(FieldRestricted)) }

// TypeIDs returns the owned element id set.
func (m *MediaDocument) TypeIDs() []int64 { return Int64Values(m.Get(FieldTypeIDs)) }

// NodeIDs returns the owned tree node id set.
func (m *MediaDocument) NodeIDs() []int64 { return Int64Values(m.Get(FieldNodeIDs)) }

// SiterootIDs returns the owned siteroot id set.
func (m *MediaDocument) SiterootIDs() []string { return StringValues(m.Get(FieldSiterootIDs)) }

// Languages returns the owned language set.
func (m *MediaDocument) Languages() []string { return StringValues(m.Get(FieldLanguages)) }

// StripTransient removes query-time fields that must not be persisted.
func (m *MediaDocument) StripTransient() {
	for _, f := range TransientMediaFields {
		delete(m.doc.Fields, f)
	}
}

// Clone returns an independent working copy.
func (m *MediaDocument) Clone() *MediaDocument {
	return &MediaDocument{doc: m.doc.Clone()}
}

// IndexDocument returns the underlying index record.
func (m *MediaDocument) IndexDocument() IndexDocument { return m.doc }

// FieldNames returns the document's field names in sorted order.
func (m *MediaDocument) FieldNames() []string {
	names := make([]string, 0, len(m.doc.Fields))
	for k := range m.doc.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
