// Package watch is a terminal view that follows one streaming generation
// session as it happens.
package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/worksheetgen/internal/questiongen"
	"github.com/abhisek/worksheetgen/internal/worksheet"
)

// tailLines is how much raw model output stays visible.
const tailLines = 4

// deltaMsg carries one streaming update into the program.
type deltaMsg struct {
	Update questiongen.Update
}

// doneMsg is sent once the session finishes.
type doneMsg struct {
	Result *questiongen.Result
	Err    error
}

// Model is the Bubble Tea model for the watch view.
type Model struct {
	req     worksheet.Request
	cancel  context.CancelFunc
	spinner spinner.Model

	questions []worksheet.Question
	text      strings.Builder
	deltas    int
	started   time.Time
	elapsed   time.Duration

	result *questiongen.Result
	err    error
	done   bool
	width  int
}

// NewModel creates the view for req. cancel aborts the generation session
// when the user quits early.
func NewModel(req worksheet.Request, cancel context.CancelFunc) *Model {
	return &Model{
		req:     req,
		cancel:  cancel,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		started: time.Now(),
		width:   80,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil

	case deltaMsg:
		m.deltas++
		m.text.WriteString(msg.Update.Delta)
		if msg.Update.Changed {
			m.questions = msg.Update.Questions
		}
		return m, nil

	case doneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		m.elapsed = time.Since(m.started)
		if msg.Result != nil {
			m.questions = msg.Result.Questions
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Worksheet: %s", m.req.Topic)))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s · %d questions", m.req.Grade, m.req.Count)))
	b.WriteString("\n\n")

	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(progressBar("Parsed", m.progress(), min(m.width, 80)))
	b.WriteString("\n\n")

	for _, q := range m.questions {
		line := fmt.Sprintf("%2d. [%s] %s", q.ID, shortType(q.Type), q.Question)
		b.WriteString(bodyStyle.Render(truncate(line, m.width-2)))
		b.WriteString("\n")
	}

	if !m.done {
		if tail := m.tail(); tail != "" {
			b.WriteString("\n")
			b.WriteString(streamStyle.Render(tail))
			b.WriteString("\n")
		}
		b.WriteString(hintStyle.Render("q: stop"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) status() string {
	switch {
	case m.done && m.err != nil:
		return errorStyle.Render("✗ stopped: " + m.err.Error())
	case m.done && m.result != nil && m.result.Source == questiongen.SourceFallback:
		return warnStyle.Render("! model output unusable, using placeholder questions") + " " +
			hintStyle.Render(m.result.FallbackReason)
	case m.done:
		return successStyle.Render(fmt.Sprintf("✓ %d questions in %s", len(m.questions), m.elapsed.Round(100*time.Millisecond)))
	default:
		return m.spinner.View() + " " + bodyStyle.Render(fmt.Sprintf("streaming · %d chunks · %d chars", m.deltas, m.text.Len()))
	}
}

func (m *Model) progress() float64 {
	if m.req.Count <= 0 {
		return 0
	}
	return float64(len(m.questions)) / float64(m.req.Count)
}

// tail returns the last few lines of raw output.
func (m *Model) tail() string {
	text := strings.TrimRight(m.text.String(), "\n")
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > tailLines {
		lines = lines[len(lines)-tailLines:]
	}
	for i, l := range lines {
		lines[i] = truncate(l, m.width-6)
	}
	return strings.Join(lines, "\n")
}

// Result returns the finished session outcome.
func (m *Model) Result() (*questiongen.Result, error) {
	return m.result, m.err
}

func shortType(t worksheet.QuestionType) string {
	if t == worksheet.TypeMultipleChoice {
		return "MC"
	}
	return "FB"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// Run streams one session under the watch view and returns its outcome. If
// the user quits first, the session is cancelled and context.Canceled is
// returned.
func Run(ctx context.Context, gen *questiongen.Generator, req worksheet.Request) (*questiongen.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(req, cancel)
	p := tea.NewProgram(m, tea.WithContext(ctx))

	type outcome struct {
		res *questiongen.Result
		err error
	}
	finished := make(chan outcome, 1)

	go func() {
		res, err := gen.Stream(ctx, req, func(u questiongen.Update) error {
			p.Send(deltaMsg{Update: u})
			return nil
		})
		finished <- outcome{res, err}
		p.Send(doneMsg{Result: res, Err: err})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("watch view: %w", err)
	}
	cancel()

	out := <-finished
	return out.res, out.err
}
