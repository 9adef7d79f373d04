package services

import (
	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// DocumentSchema declares the owned multi-valued fields every media
// document must carry before reconciliation merges into it.
type DocumentSchema struct {
	fields []domain.FieldSpec
}

// NewDocumentSchema creates the media document schema.
func NewDocumentSchema() *DocumentSchema {
	return &DocumentSchema{fields: domain.OwnedMediaFields()}
}

// Fields returns the declared field shapes.
func (s *DocumentSchema) Fields() []domain.FieldSpec {
	return append([]domain.FieldSpec(nil), s.fields...)
}

// Declare adds missing owned fields to a freshly created media document.
// Documents of other kinds are left untouched.
func (s *DocumentSchema) Declare(doc *domain.IndexDocument) {
	if doc.Kind != domain.KindMedia {
		return
	}
	if doc.Fields == nil {
		doc.Fields = make(map[string]any)
	}
	for _, spec := range s.fields {
		if _, ok := doc.Fields[spec.Name]; !ok {
			doc.Fields[spec.Name] = emptyValue(spec)
		}
	}
}

// Clear empties every owned field and the restricted flag so the
// document can be rebuilt from scratch.
func (s *DocumentSchema) Clear(media *domain.MediaDocument) {
	for _, spec := range s.fields {
		media.Set(spec.Name, emptyValue(spec))
	}
	media.Set(domain.FieldRestricted, false)
}

// CreatedHook returns the declaration as an index creation hook.
func (s *DocumentSchema) CreatedHook() driven.DocumentCreatedHook {
	return s.Declare
}

func emptyValue(spec domain.FieldSpec) any {
	if spec.Type == domain.FieldTypeInteger {
		return []int64{}
	}
	return []string{}
}
