package dto

import (
	"testing"

	"anoa.com/blogapi/pkg/schemadoc"
	"anoa.com/blogapi/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagVO_StatusOutsideEnum(t *testing.T) {
	for _, body := range []string{
		`{"id":1,"name":"Go","slug":"go","articleCount":0,"status":2}`,
		`{"id":1,"name":"Go","slug":"go","articleCount":0,"status":-1}`,
	} {
		var vo TagVO
		err := validator.DecodeJSON([]byte(body), &vo)

		var ve *validator.ValidationError
		require.ErrorAs(t, err, &ve, body)
		assert.True(t, ve.Has("status", validator.FieldFormatViolation), body)
	}

	var ve *validator.ValidationError
	require.ErrorAs(t, validator.Validate(TagVO{Name: "Go", Slug: "go", Status: 2}), &ve)
	assert.Equal(t, []string{"status"}, ve.Fields())
}

func TestTagVO_RoundTripUnchanged(t *testing.T) {
	vo := TagVO{ID: 3, Name: "Go", Slug: "go", Status: StatusActive, ArticleCount: 0}

	encoded, err := validator.Encode(vo)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"name":"Go","slug":"go","articleCount":0,"status":1}`, string(encoded))

	var decoded TagVO
	require.NoError(t, validator.DecodeJSON(encoded, &decoded))
	assert.Equal(t, vo, decoded)
}

func TestTagVO_NegativeArticleCount(t *testing.T) {
	var ve *validator.ValidationError
	require.ErrorAs(t, validator.Validate(TagVO{Name: "Go", Slug: "go", ArticleCount: -4, Status: 1}), &ve)
	assert.True(t, ve.Has("articleCount", validator.FieldRangeViolation))
}

func TestTagRequest(t *testing.T) {
	var req TagRequest
	require.NoError(t, validator.DecodeJSON([]byte(`{"name":"Go"}`), &req))
	assert.Equal(t, StatusActive, req.Status)

	req = TagRequest{}
	require.NoError(t, validator.DecodeJSON([]byte(`{"name":"Go","status":0}`), &req))
	assert.Equal(t, StatusDisabled, req.Status)

	err := validator.DecodeJSON([]byte(`{"name":"a-name-that-is-way-longer-than-thirty","color":"#12345","status":"on"}`), &TagRequest{})
	var ve *validator.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("name", validator.FieldLengthViolation))
	assert.True(t, ve.Has("color", validator.FieldFormatViolation))
	assert.True(t, ve.Has("status", validator.TypeMismatch))
}

func TestTagFilter_DefaultsToActive(t *testing.T) {
	var f TagFilter
	require.NoError(t, validator.DecodeValues(nil, &f))
	assert.Equal(t, StatusActive, f.Status)
}

func TestTag_Documented(t *testing.T) {
	for _, shape := range []string{"TagVO", "TagRequest"} {
		_, ok := schemadoc.Default().Lookup(shape)
		assert.True(t, ok, shape)
	}
}
