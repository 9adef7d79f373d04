package domain

// FieldType is the declared storage type of a document field.
type FieldType string

// Field storage types.
const (
	FieldTypeInteger FieldType = "integer"
	FieldTypeString  FieldType = "string"
)

// FieldSpec declares the shape of a document field.
type FieldSpec struct {
	Name  string
	Type  FieldType
	Array bool
}

// FieldMapping maps a page attribute onto a media field.
type FieldMapping struct {
	MediaField string
	PageField  string
}

// OwnedMediaFields are the multi-valued fields reconciliation owns.
func OwnedMediaFields() []FieldSpec {
	return []FieldSpec{
		{Name: FieldTypeIDs, Type: FieldTypeInteger, Array: true},
		{Name: FieldNodeIDs, Type: FieldTypeInteger, Array: true},
		{Name: FieldSiterootIDs, Type: FieldTypeString, Array: true},
		{Name: FieldLanguages, Type: FieldTypeString, Array: true},
	}
}

// PageToMediaMapping is the fixed page-to-media attribute mapping.
func PageToMediaMapping() []FieldMapping {
	return []FieldMapping{
		{MediaField: FieldTypeIDs, PageField: PageFieldTypeID},
		{MediaField: FieldNodeIDs, PageField: PageFieldNodeID},
		{MediaField: FieldSiterootIDs, PageField: PageFieldSiterootID},
		{MediaField: FieldLanguages, PageField: PageFieldLanguage},
	}
}
