package questiongen

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/worksheetgen/internal/worksheet"
)

var bothTypes = []worksheet.QuestionType{worksheet.TypeMultipleChoice, worksheet.TypeFillInBlank}

const validArray = `[
  {"id": 1, "type": "multiple-choice", "question": "What is $\\frac{1}{2} + \\frac{1}{2}$?",
   "options": ["A) 0", "B) 1", "C) 2", "D) 4"], "answer": "B) 1", "explanation": "Two halves make one."},
  {"id": 2, "type": "fill-in-blank", "question": "$3 \\times 4 = $ ____", "answer": "12"}
]`

func TestExtract_EveryPrefixIsNotReady(t *testing.T) {
	for i := 0; i < len(validArray); i++ {
		qs, err := Extract(validArray[:i], bothTypes, false)
		if !errors.Is(err, ErrNotReady) {
			t.Fatalf("prefix %d: expected ErrNotReady, got %v", i, err)
		}
		if qs != nil {
			t.Fatalf("prefix %d: expected no questions, got %+v", i, qs)
		}
	}

	qs, err := Extract(validArray, bothTypes, false)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func TestExtract_Idempotent(t *testing.T) {
	for _, text := range []string{validArray, validArray[:40], "noise", `[{"question":"\frac"}]`} {
		a, errA := Extract(text, bothTypes, false)
		b, errB := Extract(text, bothTypes, false)
		assert.Equal(t, a, b)
		assert.Equal(t, errA == nil, errB == nil)
	}
}

func TestExtract_ReassignsIDs(t *testing.T) {
	text := `[{"id":9,"question":"a","answer":"1"},{"id":"x","question":"b","answer":"2"},{"question":"c","answer":"3"},{"id":9,"question":"d","answer":"4"}]`
	qs, err := Extract(text, []worksheet.QuestionType{worksheet.TypeFillInBlank}, true)
	require.NoError(t, err)
	require.Len(t, qs, 4)
	for i, q := range qs {
		assert.Equal(t, i+1, q.ID)
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw     string
		primary worksheet.QuestionType
		want    worksheet.QuestionType
	}{
		{"multiple-choice", worksheet.TypeFillInBlank, worksheet.TypeMultipleChoice},
		{"choice", worksheet.TypeFillInBlank, worksheet.TypeMultipleChoice},
		{"Multiple Choice Question", worksheet.TypeFillInBlank, worksheet.TypeMultipleChoice},
		{"fill-in-blank", worksheet.TypeMultipleChoice, worksheet.TypeFillInBlank},
		{"blank", worksheet.TypeMultipleChoice, worksheet.TypeFillInBlank},
		{"FILL_IN", worksheet.TypeMultipleChoice, worksheet.TypeFillInBlank},
		{"", worksheet.TypeFillInBlank, worksheet.TypeFillInBlank},
		{"essay", worksheet.TypeMultipleChoice, worksheet.TypeMultipleChoice},
		{"multiple choice or fill in the blank", worksheet.TypeFillInBlank, worksheet.TypeFillInBlank},
		{"essay", "", worksheet.TypeFillInBlank},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeType(tt.raw, tt.primary))
		})
	}
}

func TestExtract_TypeMarkersAndOptions(t *testing.T) {
	text := `[
		{"type":"choice","question":"q1","options":["1","2","3","4"],"answer":"2"},
		{"type":"blank","question":"q2","options":["A) x","B) y"],"answer":"z"}
	]`
	qs, err := Extract(text, []worksheet.QuestionType{worksheet.TypeFillInBlank}, true)
	require.NoError(t, err)
	require.Len(t, qs, 2)

	assert.Equal(t, worksheet.TypeMultipleChoice, qs[0].Type)
	assert.Equal(t, []string{"A) 1", "B) 2", "C) 3", "D) 4"}, qs[0].Options)
	assert.Equal(t, "B) 2", qs[0].Answer, "answer matched by option body")

	assert.Equal(t, worksheet.TypeFillInBlank, qs[1].Type)
	assert.Nil(t, qs[1].Options, "options dropped for fill-in-blank")
}

func TestExtract_MultipleChoiceOptionRepair(t *testing.T) {
	text := `[{"type":"multiple-choice","question":"q","options":["a. red","b. blue","c. green"],"answer":"c"}]`
	qs, err := Extract(text, bothTypes, true)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, []string{"A) red", "B) blue", "C) green", "D) " + PlaceholderOption}, qs[0].Options)
	assert.Equal(t, "C) green", qs[0].Answer, "answer matched by label")
}

func TestExtract_PlaceholdersForMissingFields(t *testing.T) {
	qs, err := Extract(`[{"id":1,"type":"fill-in-blank"}]`, bothTypes, true)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, PlaceholderQuestion, qs[0].Question)
	assert.Equal(t, PlaceholderAnswer, qs[0].Answer)
	assert.Equal(t, PlaceholderExplanation, qs[0].Explanation)
}

func TestExtract_NumericAnswerAndSkippedElements(t *testing.T) {
	qs, err := Extract(`[1, "two", {"question":"2+2","answer":4}, null]`, []worksheet.QuestionType{worksheet.TypeFillInBlank}, true)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, 1, qs[0].ID)
	assert.Equal(t, "4", qs[0].Answer)
}

func TestExtract_EscapeRepairRoundTrip(t *testing.T) {
	for _, cmd := range []string{"frac", "times", "theta", "beta", "neq", "rightarrow", "sqrt", "pi"} {
		t.Run(cmd, func(t *testing.T) {
			text := `[{"id":1,"question":"Compute \` + cmd + `{x}","answer":"1"}]`
			qs, err := Extract(text, bothTypes, true)
			require.NoError(t, err)
			require.Len(t, qs, 1)
			assert.Equal(t, `Compute \`+cmd+`{x}`, qs[0].Question)
		})
	}
}

func TestExtract_EscapeRepairControlCharCommands(t *testing.T) {
	cmds := []string{
		"rho", "tau", "nu", "therefore", "forall", "textbf", "tilde", "nabla", "not", "binom",
		"bmod", "boldsymbol", "top", "bot", "neg", "textit", "textrm",
	}
	for _, cmd := range cmds {
		t.Run(cmd, func(t *testing.T) {
			text := `[{"question":"$\` + cmd + `$","answer":"1"}]`
			qs, err := Extract(text, bothTypes, true)
			require.NoError(t, err)
			require.Len(t, qs, 1)
			assert.Equal(t, `$\`+cmd+`$`, qs[0].Question)
			assert.NotContains(t, qs[0].Question, "\r")
			assert.NotContains(t, qs[0].Question, "\t")
			assert.NotContains(t, qs[0].Question, "\n")
			assert.NotContains(t, qs[0].Question, "\f")
			assert.NotContains(t, qs[0].Question, "\b")
		})
	}
}

func TestLatexCommands_AllRepaired(t *testing.T) {
	for _, cmd := range LatexCommands {
		repaired, n := RepairEscapes(`"\` + cmd + `"`)
		assert.Equal(t, 1, n, cmd)

		var got string
		require.NoError(t, json.Unmarshal([]byte(repaired), &got), cmd)
		assert.Equal(t, `\`+cmd, got)
	}
}

func TestExtract_EmptyTypesDefaultToFillInBlank(t *testing.T) {
	qs, err := Extract(`[{"question":"q","type":"essay","options":["1","2"],"answer":"a"}]`, nil, true)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, worksheet.TypeFillInBlank, qs[0].Type)
	assert.Nil(t, qs[0].Options)
}

func TestExtract_EscapeRepairBraces(t *testing.T) {
	qs, err := Extract(`[{"question":"The set \{1, 2\}","answer":"ok"}]`, bothTypes, true)
	require.NoError(t, err)
	assert.Equal(t, `The set \{1, 2\}`, qs[0].Question)
}

func TestRepairEscapes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		repairs int
	}{
		{"single before command", `"\frac{1}{2}"`, `"\\frac{1}{2}"`, 1},
		{"already escaped", `"\\frac{1}{2}"`, `"\\frac{1}{2}"`, 0},
		{"triple collapses", `"\\\frac"`, `"\\frac"`, 1},
		{"quadruple collapses", `"\\\\times"`, `"\\times"`, 1},
		{"stray brace", `"\{"`, `"\\{"`, 1},
		{"unknown command", `"\mathbb{R}"`, `"\\mathbb{R}"`, 1},
		{"json newline kept", `"a\nb"`, `"a\nb"`, 0},
		{"escaped quote kept", `"say \"hi\""`, `"say \"hi\""`, 0},
		{"unicode escape kept", `"\u00e9"`, `"\u00e9"`, 0},
		{"no backslash", `"plain"`, `"plain"`, 0},
		{"rho is not a carriage return", `"\rho"`, `"\\rho"`, 1},
		{"tau is not a tab", `"\tau"`, `"\\tau"`, 1},
		{"nabla is not a newline", `"\nabla f"`, `"\\nabla f"`, 1},
		{"forall is not a form feed", `"\forall x"`, `"\\forall x"`, 1},
		{"binom is not a backspace", `"\binom{n}{k}"`, `"\\binom{n}{k}"`, 1},
		{"not before equals", `"a \not= b"`, `"a \\not= b"`, 1},
		{"newline before word kept", `"line\nnote"`, `"line\nnote"`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := RepairEscapes(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.repairs, n)

			again, n2 := RepairEscapes(got)
			assert.Equal(t, got, again, "repair must be idempotent")
			assert.Zero(t, n2)

			var s string
			assert.NoError(t, json.Unmarshal([]byte(got), &s))
		})
	}
}

func TestExtract_CodeFencesAndProse(t *testing.T) {
	inner := `[{"id":1,"question":"q","answer":"a"}]`
	for name, text := range map[string]string{
		"json fence":  "```json\n" + inner + "\n```",
		"plain fence": "```\n" + inner + "\n```",
		"prose":       "Here is your worksheet:\n" + inner + "\nGood luck!",
	} {
		t.Run(name, func(t *testing.T) {
			qs, err := Extract(text, bothTypes, true)
			require.NoError(t, err)
			require.Len(t, qs, 1)
			assert.Equal(t, "q", qs[0].Question)
		})
	}
}

func TestExtract_FinalFailureIsParseError(t *testing.T) {
	for _, text := range []string{"", "I cannot help with that.", `[]`, `[{"question":"a",}]`, `[{"question":"unterminated`} {
		_, err := Extract(text, bothTypes, true)
		var perr *ParseError
		require.ErrorAs(t, err, &perr, "text %q", text)
		assert.False(t, errors.Is(err, ErrNotReady))
	}
}

func TestExtract_ScenarioA(t *testing.T) {
	text := `[{"id":9,"question":"2+2=?","type":"multiple-choice","options":["A) 3","B) 4","C) 5","D) 6"],"answer":"B) 4"}]`
	qs, err := Extract(text, []worksheet.QuestionType{worksheet.TypeMultipleChoice}, false)
	require.NoError(t, err)
	require.Len(t, qs, 1)

	q := qs[0]
	assert.Equal(t, 1, q.ID)
	assert.Equal(t, worksheet.TypeMultipleChoice, q.Type)
	assert.Equal(t, []string{"A) 3", "B) 4", "C) 5", "D) 6"}, q.Options)
	assert.Equal(t, "B) 4", q.Answer)
}

func TestExtract_ScenarioB(t *testing.T) {
	text := `[{"question":"x+1=2, x=?","type":"fill-in-blank","answer":"1"}]`
	qs, err := Extract(text, bothTypes, false)
	require.NoError(t, err)
	require.Len(t, qs, 1)

	q := qs[0]
	assert.Equal(t, 1, q.ID)
	assert.Equal(t, worksheet.TypeFillInBlank, q.Type)
	assert.Nil(t, q.Options)
	assert.Equal(t, "1", q.Answer)
	assert.NotEmpty(t, q.Explanation)

	b, err := json.Marshal(q)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(b), `"options"`))
}

func TestStream_ScenarioD(t *testing.T) {
	s := NewStream(bothTypes, nil)
	deltas := []string{`[{"id":1,"question":"What is \frac`, `{1}{2}`, ` of 8?","answer":"4"`, `}`, `]`}

	for i, d := range deltas[:len(deltas)-1] {
		qs, changed := s.Append(d)
		assert.False(t, changed, "delta %d", i)
		assert.Nil(t, qs, "delta %d", i)
	}

	qs, changed := s.Append(deltas[len(deltas)-1])
	require.True(t, changed)
	require.Len(t, qs, 1)
	assert.Equal(t, `What is \frac{1}{2} of 8?`, qs[0].Question)
}
