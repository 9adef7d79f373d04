package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaIdentity(t *testing.T) {
	assert.Equal(t, "media_F_2", MediaIdentity("F", 2))
	assert.Equal(t, "media_a_b_10", MediaIdentity("a_b", 10))
}

func TestParseMediaIdentity(t *testing.T) {
	tests := []struct {
		id      string
		want    FileRef
		wantErr bool
	}{
		{"media_F_2", FileRef{ID: "F", Version: 2}, false},
		{"media_a_b_10", FileRef{ID: "a_b", Version: 10}, false},
		{"media_F_", FileRef{}, true},
		{"media__2", FileRef{}, true},
		{"media_F_x", FileRef{}, true},
		{"page_F_2", FileRef{}, true},
		{"", FileRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := ParseMediaIdentity(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidIdentity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileRef_Token(t *testing.T) {
	assert.Equal(t, "F;2", FileRef{ID: "F", Version: 2}.Token())
}

func TestIndexDocument_Clone(t *testing.T) {
	doc := IndexDocument{
		ID:   "media_F_2",
		Kind: KindMedia,
		Fields: map[string]any{
			FieldTypeIDs:   []int64{1},
			FieldLanguages: []any{"en"},
			"nested":       map[string]any{"list": []string{"a"}},
		},
	}

	clone := doc.Clone()
	clone.Fields[FieldTypeIDs].([]int64)[0] = 99
	clone.Fields[FieldLanguages].([]any)[0] = "de"
	clone.Fields["nested"].(map[string]any)["list"].([]string)[0] = "z"
	clone.Fields["extra"] = true

	assert.Equal(t, []int64{1}, doc.Fields[FieldTypeIDs])
	assert.Equal(t, []any{"en"}, doc.Fields[FieldLanguages])
	assert.Equal(t, []string{"a"}, doc.Fields["nested"].(map[string]any)["list"])
	assert.NotContains(t, doc.Fields, "extra")
}

func TestIndexDocument_Get(t *testing.T) {
	assert.Nil(t, IndexDocument{}.Get("x"))
	assert.Equal(t, 1, IndexDocument{Fields: map[string]any{"x": 1}}.Get("x"))
}

func TestNewMediaDocument(t *testing.T) {
	m := NewMediaDocument(IndexDocument{ID: "media_F_2"})
	assert.Equal(t, "media_F_2", m.ID())
	assert.Equal(t, KindMedia, m.IndexDocument().Kind)
	assert.NotNil(t, m.IndexDocument().Fields)
}

func TestMediaDocument_File(t *testing.T) {
	tests := []struct {
		name    string
		doc     IndexDocument
		want    FileRef
		wantErr bool
	}{
		{
			name: "body attributes",
			doc:  IndexDocument{ID: "x", Fields: map[string]any{FieldFileID: "F", FieldFileVersion: float64(3)}},
			want: FileRef{ID: "F", Version: 3},
		},
		{
			name: "version from identity",
			doc:  IndexDocument{ID: "media_F_4", Fields: map[string]any{FieldFileID: "F"}},
			want: FileRef{ID: "F", Version: 4},
		},
		{
			name: "identity only",
			doc:  IndexDocument{ID: "media_G_1"},
			want: FileRef{ID: "G", Version: 1},
		},
		{
			name:    "unparsable",
			doc:     IndexDocument{ID: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMediaDocument(tt.doc).File()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidIdentity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMediaDocument_Accessors(t *testing.T) {
	m := NewMediaDocument(IndexDocument{ID: "media_F_2", Fields: map[string]any{
		FieldFolderID:        "9",
		FieldParentFolderIDs: []any{"7", "9"},
		FieldMediaType:       "image",
		FieldRestricted:      "1",
		FieldTypeIDs:         []any{float64(43), float64(42), float64(43)},
		FieldNodeIDs:         []any{"100"},
		FieldSiterootIDs:     "main",
		FieldLanguages:       []string{"en", "de"},
	}})

	assert.Equal(t, "9", m.FolderID())
	assert.Equal(t, []string{"7", "9"}, m.ParentFolderIDs())
	assert.Equal(t, "image", m.MediaType())
	assert.True(t, m.Restricted())
	assert.Equal(t, []int64{42, 43}, m.TypeIDs())
	assert.Equal(t, []int64{100}, m.NodeIDs())
	assert.Equal(t, []string{"main"}, m.SiterootIDs())
	assert.Equal(t, []string{"de", "en"}, m.Languages())
}

func TestMediaDocument_StripTransient(t *testing.T) {
	m := NewMediaDocument(IndexDocument{ID: "media_F_2", Fields: map[string]any{
		"copy": "x", "score": 1.0, "cleantitle": "t", "title": "T",
	}})
	m.StripTransient()
	assert.Equal(t, []string{"title"}, m.FieldNames())
}

func TestMediaDocument_SetUnset(t *testing.T) {
	m := NewMediaDocument(IndexDocument{ID: "media_F_2"})
	m.Set("title", "T")
	assert.True(t, m.Has("title"))
	m.Unset("title")
	assert.False(t, m.Has("title"))
}

func TestMediaDocument_Clone(t *testing.T) {
	m := NewMediaDocument(IndexDocument{ID: "media_F_2", Fields: map[string]any{FieldTypeIDs: []int64{1}}})
	c := m.Clone()
	c.Set(FieldTypeIDs, []int64{2})
	assert.Equal(t, []int64{1}, m.TypeIDs())
}

