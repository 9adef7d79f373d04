package domain

import "strings"

// Siteroot property keys consulted for media indexing policy.
const (
	PropertyFolderRecursive = "indexer.elements.media.folder.recursiv"
	PropertyFieldPrefix     = "indexer.elements.media.field."
	PropertyAssetPrefix     = "indexer.elements.media."
)

// Structural field types that may reference media.
const (
	StructureFieldFile   = "file"
	StructureFieldFolder = "folder"
)

// StructureFieldTypes lists the field types checked against site policy.
func StructureFieldTypes() []string {
	return []string{StructureFieldFile, StructureFieldFolder}
}

// AssetTypes lists the media asset types a site may gate.
func AssetTypes() []string {
	return []string{"audio", "document", "flash", "image", "video"}
}

// SitePolicy is the typed media indexing policy of one siteroot.
type SitePolicy struct {
	// SiterootID is the site this policy belongs to.
	SiterootID string

	// FolderRecursive scans the full ancestor folder chain instead of
	// only the immediate folder.
	FolderRecursive bool

	// IndexableFieldTypes restricts which structural field types count
	// as a reference. Empty means all field types count.
	IndexableFieldTypes []string

	// AssetTypes holds the per-asset-type indexing switches.
	AssetTypes map[string]bool
}

// DefaultSitePolicy is used when a siteroot cannot be found:
// non-recursive scanning and no field type restriction.
func DefaultSitePolicy(siterootID string) SitePolicy {
	return SitePolicy{
		SiterootID: siterootID,
		AssetTypes: map[string]bool{},
	}
}

// SitePolicyFromProperties builds a policy from a siteroot property bag.
func SitePolicyFromProperties(siterootID string, props map[string]string) SitePolicy {
	policy := DefaultSitePolicy(siterootID)
	policy.FolderRecursive = truthy(props[PropertyFolderRecursive])
	for _, fieldType := range StructureFieldTypes() {
		if truthy(props[PropertyFieldPrefix+fieldType]) {
			policy.IndexableFieldTypes = append(policy.IndexableFieldTypes, fieldType)
		}
	}
	for _, assetType := range AssetTypes() {
		policy.AssetTypes[assetType] = truthy(props[PropertyAssetPrefix+assetType])
	}
	return policy
}

// AssetTypeIndexable reports whether the site indexes the given media type.
func (p SitePolicy) AssetTypeIndexable(mediaType string) bool {
	return p.AssetTypes[strings.ToLower(mediaType)]
}

// FileIndexingEnabled reports whether any asset type is indexable.
func (p SitePolicy) FileIndexingEnabled() bool {
	for _, assetType := range AssetTypes() {
		if p.AssetTypes[assetType] {
			return true
		}
	}
	return false
}
