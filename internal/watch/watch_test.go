package watch

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/worksheetgen/internal/questiongen"
	"github.com/abhisek/worksheetgen/internal/worksheet"
)

func testRequest() worksheet.Request {
	return worksheet.Request{Grade: "Grade 5", Topic: "Decimals", Count: 2, Types: worksheet.AllTypes}
}

func TestModel_StreamingProgress(t *testing.T) {
	m := NewModel(testRequest(), nil)

	m.Update(deltaMsg{Update: questiongen.Update{Delta: `[{"question":"0.5 + 0.25 = ?"`}})
	out := m.render()
	assert.Contains(t, out, "Worksheet: Decimals")
	assert.Contains(t, out, "1 chunks")
	assert.Contains(t, out, `0.5 + 0.25`)
	assert.Contains(t, out, "0%")

	qs := []worksheet.Question{{ID: 1, Type: worksheet.TypeFillInBlank, Question: "0.5 + 0.25 = ____"}}
	m.Update(deltaMsg{Update: questiongen.Update{Delta: `}]`, Questions: qs, Changed: true}})
	out = m.render()
	assert.Contains(t, out, " 1. [FB] 0.5 + 0.25 = ____")
	assert.Contains(t, out, "50%")
}

func TestModel_DoneQuits(t *testing.T) {
	m := NewModel(testRequest(), nil)
	res := &questiongen.Result{
		Source:    questiongen.SourceModel,
		Questions: []worksheet.Question{{ID: 1, Type: worksheet.TypeMultipleChoice, Question: "q1"}, {ID: 2, Question: "q2"}},
	}

	_, cmd := m.Update(doneMsg{Result: res})
	assert.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	out := m.render()
	assert.Contains(t, out, "✓ 2 questions")
	assert.Contains(t, out, "100%")
	assert.NotContains(t, out, "q: stop")

	got, err := m.Result()
	assert.NoError(t, err)
	assert.Same(t, res, got)
}

func TestModel_FallbackAndError(t *testing.T) {
	m := NewModel(testRequest(), nil)
	m.Update(doneMsg{Result: &questiongen.Result{Source: questiongen.SourceFallback, FallbackReason: "provider: down"}})
	assert.Contains(t, m.render(), "placeholder questions")

	m = NewModel(testRequest(), nil)
	m.Update(doneMsg{Err: errors.New("context canceled")})
	assert.Contains(t, m.render(), "stopped: context canceled")
}

func TestModel_TailAndTruncate(t *testing.T) {
	m := NewModel(testRequest(), nil)
	m.Update(tea.WindowSizeMsg{Width: 30, Height: 20})
	m.Update(deltaMsg{Update: questiongen.Update{Delta: "l1\nl2\nl3\nl4\nl5\n" + strings.Repeat("x", 100)}})

	tail := m.tail()
	assert.NotContains(t, tail, "l1")
	assert.NotContains(t, tail, "l2")
	assert.Contains(t, tail, "l3")
	assert.Contains(t, tail, "...")

	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}

func TestModel_QuitCancels(t *testing.T) {
	cancelled := false
	m := NewModel(testRequest(), func() { cancelled = true })

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	assert.True(t, cancelled)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
