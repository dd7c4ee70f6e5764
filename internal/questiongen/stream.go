package questiongen

import (
	"strings"

	"github.com/abhisek/worksheetgen/internal/logger"
	"github.com/abhisek/worksheetgen/internal/worksheet"
)

// Stream accumulates the text of one generation session and keeps the last
// question list that parsed successfully. A Stream is owned by a single
// session and is not safe for concurrent use.
type Stream struct {
	types []worksheet.QuestionType
	log   *logger.Logger

	text   strings.Builder
	last   []worksheet.Question
	parses int
}

// NewStream starts an empty accumulator for the requested question types.
func NewStream(types []worksheet.QuestionType, log *logger.Logger) *Stream {
	if log == nil {
		log = logger.Nop()
	}
	return &Stream{types: types, log: log}
}

// Append adds delta to the accumulated text and re-runs the extractor on the
// whole text. It returns the current best question list and whether this
// delta produced a new successful parse. A failed parse never clears or
// alters the previous result.
func (s *Stream) Append(delta string) ([]worksheet.Question, bool) {
	s.text.WriteString(delta)

	qs, repairs, err := extract(s.text.String(), s.types, false)
	if err != nil {
		s.log.Debug("extract not ready", "reason", err.Error(), "chars", s.text.Len())
		return worksheet.CloneAll(s.last), false
	}

	if repairs > 0 {
		s.log.Debug("repaired LaTeX escapes", "repairs", repairs)
	}
	s.last = qs
	s.parses++
	return worksheet.CloneAll(qs), true
}

// Finish runs the extractor once more with the stream marked as ended. When
// the final text does not parse, the last good result is returned if one
// exists; otherwise the *ParseError is returned.
func (s *Stream) Finish() ([]worksheet.Question, error) {
	qs, repairs, err := extract(s.text.String(), s.types, true)
	if err == nil {
		if repairs > 0 {
			s.log.Debug("repaired LaTeX escapes", "repairs", repairs)
		}
		s.last = qs
		s.parses++
		return worksheet.CloneAll(qs), nil
	}
	if s.last != nil {
		s.log.Warn("final text did not parse, keeping last good result",
			"error", err, "questions", len(s.last))
		return worksheet.CloneAll(s.last), nil
	}
	return nil, err
}

// Latest returns a copy of the last successfully parsed list, or nil.
func (s *Stream) Latest() []worksheet.Question {
	return worksheet.CloneAll(s.last)
}

// Text returns the accumulated text.
func (s *Stream) Text() string {
	return s.text.String()
}

// Parses reports how many deltas produced a successful parse.
func (s *Stream) Parses() int {
	return s.parses
}
