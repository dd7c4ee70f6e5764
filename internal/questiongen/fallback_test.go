package questiongen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/worksheetgen/internal/worksheet"
)

func TestFallback_MultipleChoice(t *testing.T) {
	req := worksheet.Request{Grade: "Grade 5", Topic: "Fractions", Count: 5, Types: bothTypes}
	qs := Fallback(req)

	assert.Len(t, qs, 5)
	for i, q := range qs {
		assert.Equal(t, i+1, q.ID)
		assert.Equal(t, worksheet.TypeMultipleChoice, q.Type)
		assert.Contains(t, q.Question, "Fractions")
		assert.Contains(t, q.Question, fmt.Sprintf("Question %d", i+1))
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, q.Answer)
		assert.NotEmpty(t, q.Explanation)
	}
}

func TestFallback_FillInBlankOnly(t *testing.T) {
	req := worksheet.Request{Grade: "Grade 2", Topic: "Addition", Count: 3,
		Types: []worksheet.QuestionType{worksheet.TypeFillInBlank}}
	qs := Fallback(req)

	assert.Len(t, qs, 3)
	for _, q := range qs {
		assert.Equal(t, worksheet.TypeFillInBlank, q.Type)
		assert.Nil(t, q.Options)
		assert.True(t, strings.Contains(q.Question, "____"))
		assert.NotEmpty(t, q.Answer)
	}
}

func TestFallback_Bounds(t *testing.T) {
	assert.Empty(t, Fallback(worksheet.Request{Topic: "x"}))
	assert.Len(t, Fallback(worksheet.Request{Topic: "x", Count: worksheet.MaxCount, Types: bothTypes}), worksheet.MaxCount)

	qs := Fallback(worksheet.Request{Count: 1, Types: bothTypes})
	assert.Contains(t, qs[0].Question, "this topic")
}
