package domain

// PageDocument is one published, language-specific revision of a
// structural content node as stored in the search index.
type PageDocument struct {
	// ID is the page document identity within the index.
	ID string

	// TypeID is the owning element id.
	TypeID int64

	// NodeID is the tree node id.
	NodeID int64

	// SiterootID is the site the node belongs to.
	SiterootID string

	// Language is the revision language.
	Language string

	// Restricted marks pages behind access control.
	Restricted bool

	// Context holds the remaining index fields, available to observers.
	Context map[string]any
}

// Value returns the page attribute feeding a media field mapping.
func (p PageDocument) Value(field string) any {
	switch field {
	case PageFieldTypeID:
		return p.TypeID
	case PageFieldNodeID:
		return p.NodeID
	case PageFieldSiterootID:
		return p.SiterootID
	case PageFieldLanguage:
		return p.Language
	case PageFieldRestricted:
		return p.Restricted
	}
	if p.Context == nil {
		return nil
	}
	return p.Context[field]
}

// PageDocumentFromIndex converts a page index record.
// Unknown fields are kept in Context.
func PageDocumentFromIndex(doc IndexDocument) PageDocument {
	page := PageDocument{ID: doc.ID, Context: make(map[string]any)}
	for k, v := range doc.Fields {
		switch k {
		case PageFieldTypeID, "eid":
			if n, ok := Int64Value(v); ok {
				page.TypeID = n
			}
		case PageFieldNodeID, "tid":
			if n, ok := Int64Value(v); ok {
				page.NodeID = n
			}
		case PageFieldSiterootID:
			page.SiterootID = StringValue(v)
		case PageFieldLanguage:
			page.Language = StringValue(v)
		case PageFieldRestricted:
			page.Restricted = BoolValue(v)
		default:
			page.Context[k] = v
		}
	}
	return page
}

// IndexDocument converts the page back to an index record.
func (p PageDocument) IndexDocument() IndexDocument {
	fields := make(map[string]any, len(p.Context)+5)
	for k, v := range p.Context {
		fields[k] = v
	}
	fields[PageFieldTypeID] = p.TypeID
	fields[PageFieldNodeID] = p.NodeID
	fields[PageFieldSiterootID] = p.SiterootID
	fields[PageFieldLanguage] = p.Language
	fields[PageFieldRestricted] = p.Restricted
	return IndexDocument{ID: p.ID, Kind: KindPage, Fields: fields}
}
