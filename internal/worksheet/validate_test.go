package worksheet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{
		Grade:   "Grade 5",
		Topic:   "Fractions",
		Count:   10,
		Types:   []QuestionType{TypeMultipleChoice},
		WithKey: true,
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validRequest().Validate())
}

func TestValidate_CollectsAllFields(t *testing.T) {
	err := Request{Count: 0}.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		fields[i] = f.Field
	}
	assert.Equal(t, []string{"grade", "topic", "count", "types"}, fields)
}

func TestValidate_CountBounds(t *testing.T) {
	for _, n := range []int{-1, 0, 51, 100} {
		r := validRequest()
		r.Count = n
		assert.Error(t, r.Validate(), "count %d", n)
	}
	for _, n := range []int{1, 25, 50} {
		r := validRequest()
		r.Count = n
		assert.NoError(t, r.Validate(), "count %d", n)
	}
}

func TestValidate_UnknownAndDuplicateTypes(t *testing.T) {
	r := validRequest()
	r.Types = []QuestionType{"essay"}
	assert.Error(t, r.Validate())

	r.Types = []QuestionType{TypeFillInBlank, TypeFillInBlank}
	assert.Error(t, r.Validate())
}

func TestValidate_Messages(t *testing.T) {
	r := validRequest()
	r.Grade = "   "
	r.Count = 51
	r.Types = []QuestionType{TypeMultipleChoice, "essay"}

	var verr *ValidationError
	require.ErrorAs(t, r.Validate(), &verr)
	assert.Equal(t, []FieldError{
		{Field: "grade", Message: "is required"},
		{Field: "count", Message: "must be between 1 and 50"},
		{Field: "types", Message: `unknown question type "essay"`},
	}, verr.Fields)

	r = validRequest()
	r.Types = []QuestionType{TypeFillInBlank, TypeFillInBlank}
	require.ErrorAs(t, r.Validate(), &verr)
	assert.Equal(t, []FieldError{{Field: "types", Message: "question types must not repeat"}}, verr.Fields)

	r.Types = nil
	require.ErrorAs(t, r.Validate(), &verr)
	assert.Equal(t, []FieldError{{Field: "types", Message: "at least one question type is required"}}, verr.Fields)
}

func TestValidateExceptCount(t *testing.T) {
	r := validRequest()
	r.Count = 0
	assert.NoError(t, r.ValidateExceptCount())

	r.Topic = ""
	var verr *ValidationError
	require.ErrorAs(t, r.ValidateExceptCount(), &verr)
	assert.Equal(t, []FieldError{{Field: "topic", Message: "is required"}}, verr.Fields)
}

func TestParseType(t *testing.T) {
	cases := map[string]QuestionType{
		"mc":              TypeMultipleChoice,
		"Multiple-Choice": TypeMultipleChoice,
		"blank":           TypeFillInBlank,
		"fill-in-blank":   TypeFillInBlank,
	}
	for in, want := range cases {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseType("essay")
	assert.Error(t, err)
}

func TestPrimaryType(t *testing.T) {
	r := Request{Types: []QuestionType{TypeFillInBlank, TypeMultipleChoice}}
	assert.Equal(t, TypeFillInBlank, r.PrimaryType())
	assert.True(t, r.Includes(TypeMultipleChoice))
	assert.Equal(t, TypeFillInBlank, Request{}.PrimaryType())
}
