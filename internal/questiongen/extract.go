package questiongen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/worksheetgen/internal/worksheet"
)

// ErrNotReady means the accumulated text does not yet hold a complete
// question array. It is a normal mid-stream state, not a failure.
var ErrNotReady = errors.New("question array not ready")

// ParseError is returned when the stream has ended and no valid question
// array can be recovered from the final text.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse question array: %s: %v", e.Reason, e.Err)
	}
	return "parse question array: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extract scans the full accumulated text and returns the normalized question
// list it holds. types are the requested question types; the first one is
// used when an element's type is ambiguous. While final is false, anything
// short of a decodable array yields an error matching ErrNotReady. Once final
// is true the same conditions yield a *ParseError.
//
// Extract is pure: the same text always produces the same result.
func Extract(text string, types []worksheet.QuestionType, final bool) ([]worksheet.Question, error) {
	qs, _, err := extract(text, types, final)
	return qs, err
}

// extract also reports how many escape repairs were applied.
func extract(text string, types []worksheet.QuestionType, final bool) ([]worksheet.Question, int, error) {
	candidate, reason := locateArray(text)
	if reason != "" {
		return nil, 0, notReady(reason, nil, final)
	}

	repaired, repairs := RepairEscapes(candidate)

	raw, err := decodeArray(repaired)
	if err != nil {
		return nil, repairs, notReady("decode", err, final)
	}

	primary := worksheet.Request{Types: types}.PrimaryType()
	qs := normalize(raw, primary)
	if len(qs) == 0 {
		return nil, repairs, notReady("no question objects", nil, final)
	}
	return qs, repairs, nil
}

func notReady(reason string, err error, final bool) error {
	if final {
		return &ParseError{Reason: reason, Err: err}
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotReady, reason, err)
	}
	return fmt.Errorf("%w: %s", ErrNotReady, reason)
}

// locateArray strips code fences, cuts the text from the first "[" to the last
// "]" and runs the cheap structural checks. It returns the candidate, or a
// non-empty reason when the text is not ready.
func locateArray(text string) (string, string) {
	cleaned := stripCodeFences(text)

	start := strings.IndexByte(cleaned, '[')
	end := strings.LastIndexByte(cleaned, ']')
	if start < 0 || end < 0 || end < start {
		return "", "no array brackets"
	}
	candidate := cleaned[start : end+1]

	if strings.Count(candidate, "[") != strings.Count(candidate, "]") {
		return "", "unbalanced brackets"
	}
	if strings.Count(candidate, "{") != strings.Count(candidate, "}") {
		return "", "unbalanced braces"
	}
	if !strings.Contains(candidate, `"id"`) && !strings.Contains(candidate, `"question"`) {
		return "", "missing question keys"
	}
	if trimmed := strings.TrimRightFunc(candidate, isSpace); !strings.HasSuffix(trimmed, "]") {
		return "", "array not closed"
	}
	return candidate, ""
}

// stripCodeFences removes a leading ``` or ```json marker and a trailing ```
// marker. Unterminated fences mid-stream are left for locateArray to skip.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "[{") {
			// Drop the language tag line, e.g. "json".
			s = s[nl+1:]
		}
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

func decodeArray(s string) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\r' || r == '\t'
}
