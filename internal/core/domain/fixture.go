package domain

// Fixture is a batch of content state loaded in one import: usage
// records, structured content values, published nodes, siteroot
// properties and index documents.
type Fixture struct {
	FileUsages     []FileUsage                  `json:"file_usages"`
	FolderUsages   []FolderUsage                `json:"folder_usages"`
	ContentValues  []ContentValue               `json:"content_values"`
	PublishedNodes []PublishedNode              `json:"published_nodes"`
	Siteroots      map[string]map[string]string `json:"siteroots"`
	Documents      []IndexDocument              `json:"documents"`
}

// ImportSummary counts what an import wrote.
type ImportSummary struct {
	FileUsages     int
	FolderUsages   int
	ContentValues  int
	PublishedNodes int
	Siteroots      int
	Documents      int
	Scheduled      int
}
