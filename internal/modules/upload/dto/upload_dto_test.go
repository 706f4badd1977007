package dto

import (
	"testing"

	"anoa.com/blogapi/pkg/schemadoc"
	"anoa.com/blogapi/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileUploadVO_ZeroSizeIsValid(t *testing.T) {
	vo := FileUploadVO{URL: "https://cdn.example.com/a.txt", Filename: "a.txt", OriginalName: "empty.txt", Size: 0, Type: "text/plain"}
	assert.NoError(t, validator.Validate(vo))

	encoded, err := validator.Encode(vo)
	require.NoError(t, err)
	var decoded FileUploadVO
	require.NoError(t, validator.DecodeJSON(encoded, &decoded))
	assert.Equal(t, vo, decoded)
}

func TestFileUploadVO_NegativeSize(t *testing.T) {
	vo := FileUploadVO{URL: "https://cdn.example.com/a.txt", Filename: "a.txt", Size: -1}

	var ve *validator.ValidationError
	require.ErrorAs(t, validator.Validate(vo), &ve)
	assert.True(t, ve.Has("size", validator.FieldRangeViolation))

	err := validator.DecodeJSON([]byte(`{"url":"u","filename":"f","size":-1}`), &FileUploadVO{})
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("size", validator.FieldRangeViolation))
}

func TestFileUploadVO_RequiresURLAndFilename(t *testing.T) {
	var ve *validator.ValidationError
	require.ErrorAs(t, validator.Validate(&FileUploadVO{Size: 3}), &ve)
	assert.ElementsMatch(t, []string{"url", "filename"}, ve.Fields())
}

func TestFileUploadVO_Documented(t *testing.T) {
	table, ok := schemadoc.Default().Lookup("FileUploadVO")
	require.True(t, ok)
	assert.Equal(t, "outbound", table.Direction)
	assert.Len(t, table.Fields, 5)
}
