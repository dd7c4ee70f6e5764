package questiongen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/worksheetgen/internal/llm"
	"github.com/abhisek/worksheetgen/internal/worksheet"
)

func TestDecodeEdited(t *testing.T) {
	raw := []byte(`[
		{"id": 4, "type": "multiple-choice", "question": "Pick one", "options": ["x", "y"], "answer": "y"},
		{"type": "fill-in-blank", "question": "2 + 2 = ____", "options": ["A) 4"], "answer": "4"}
	]`)

	qs, err := DecodeEdited(raw, worksheet.TypeMultipleChoice)
	require.NoError(t, err)
	require.Len(t, qs, 2)

	assert.Equal(t, 1, qs[0].ID)
	assert.Equal(t, []string{"A) x", "B) y", "C) " + PlaceholderOption, "D) " + PlaceholderOption}, qs[0].Options)
	assert.Equal(t, "B) y", qs[0].Answer)
	assert.Equal(t, PlaceholderExplanation, qs[0].Explanation)

	assert.Equal(t, 2, qs[1].ID)
	assert.Nil(t, qs[1].Options)
}

func TestDecodeEdited_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty list", `[]`},
		{"not an array", `{"question": "x"}`},
		{"missing answer", `[{"type": "fill-in-blank", "question": "x"}]`},
		{"unknown type", `[{"type": "essay", "question": "x", "answer": "y"}]`},
		{"too many options", `[{"type": "multiple-choice", "question": "x", "answer": "A", "options": ["1","2","3","4","5"]}]`},
		{"malformed", `[{"type": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEdited([]byte(tt.raw), worksheet.TypeMultipleChoice)
			require.Error(t, err)
			var inv *llm.ErrInvalidResponse
			assert.ErrorAs(t, err, &inv)
		})
	}
}

func TestRenormalize_DoesNotMutateInput(t *testing.T) {
	in := []worksheet.Question{{ID: 7, Type: worksheet.TypeMultipleChoice, Question: "q", Options: []string{"one"}, Answer: "one"}}
	out := Renormalize(in, worksheet.TypeMultipleChoice)

	assert.Equal(t, 7, in[0].ID)
	assert.Equal(t, []string{"one"}, in[0].Options)
	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, "A) one", out[0].Answer)
}
