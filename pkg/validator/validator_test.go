package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryStruct struct {
	PlaceID string `query:"placeId" validate:"required,max=16"`
	Lang    string `json:"lang" validate:"omitempty,min=2"`
	Limit   int    `validate:"gte=0,lte=10"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(queryStruct{PlaceID: "ChIJ123", Lang: "es", Limit: 5})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired_UsesQueryName(t *testing.T) {
	err := Validate(queryStruct{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["placeId"])

	field, tag := valErr.First()
	assert.Equal(t, "placeId", field)
	assert.Equal(t, "required", tag)
	assert.Equal(t, "placeId is required", valErr.Error())
}

func TestValidate_UsesJSONNameAsFallback(t *testing.T) {
	err := Validate(queryStruct{PlaceID: "x", Lang: "e"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["lang"], "at least 2")
}

func TestValidate_UsesFieldNameWithoutTags(t *testing.T) {
	err := Validate(queryStruct{PlaceID: "x", Limit: 11})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Limit"], "10")
}

func TestValidate_MaxLength(t *testing.T) {
	err := Validate(queryStruct{PlaceID: "this-place-id-is-too-long"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be at most 16 characters", valErr.Fields()["placeId"])
}

func TestValidationError_FirstOnEmpty(t *testing.T) {
	field, tag := (&ValidationError{}).First()
	assert.Empty(t, field)
	assert.Empty(t, tag)
}
