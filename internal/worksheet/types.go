package worksheet

// QuestionType is one of the closed set of supported question kinds.
type QuestionType string

const (
	// TypeMultipleChoice questions carry exactly 4 labelled options.
	TypeMultipleChoice QuestionType = "multiple-choice"

	// TypeFillInBlank questions mark the blank with underscores, e.g. "x = ____".
	TypeFillInBlank QuestionType = "fill-in-blank"
)

// AllTypes lists every supported question type in display order.
var AllTypes = []QuestionType{TypeMultipleChoice, TypeFillInBlank}

// Valid reports whether t is a member of the closed enumeration.
func (t QuestionType) Valid() bool {
	return t == TypeMultipleChoice || t == TypeFillInBlank
}

// Label returns the human-readable name used in prompts and documents.
func (t QuestionType) Label() string {
	switch t {
	case TypeMultipleChoice:
		return "Multiple choice"
	case TypeFillInBlank:
		return "Fill in the blank"
	default:
		return string(t)
	}
}

// Request is the user-supplied configuration for one worksheet.
// It is treated as immutable once submitted.
type Request struct {
	// Grade is a non-empty label such as "Grade 5".
	Grade string `json:"grade" yaml:"grade" validate:"notblank"`

	// Topic is free text describing what the questions should cover.
	Topic string `json:"topic" yaml:"topic" validate:"notblank"`

	// Count is the desired number of questions, 1..MaxCount.
	Count int `json:"count" yaml:"count" validate:"min=1,max=50"`

	// Types is the non-empty set of requested question types, in the
	// order the user picked them.
	Types []QuestionType `json:"types" yaml:"types" validate:"min=1,unique,dive,oneof=multiple-choice fill-in-blank"`

	// WithKey requests an answer key document alongside the student sheet.
	WithKey bool `json:"with_key" yaml:"with_key"`
}

// Includes reports whether the request asks for questions of type t.
func (r Request) Includes(t QuestionType) bool {
	for _, rt := range r.Types {
		if rt == t {
			return true
		}
	}
	return false
}

// PrimaryType is the type used when a generated question's type is
// ambiguous. An empty type set means fill-in-blank.
func (r Request) PrimaryType() QuestionType {
	if len(r.Types) == 0 {
		return TypeFillInBlank
	}
	return r.Types[0]
}

// Question is a single worksheet question.
type Question struct {
	// ID is 1-based and dense. It is assigned by the extractor and never
	// trusted from model output.
	ID int `json:"id"`

	Type QuestionType `json:"type"`

	// Question may embed inline ($...$) or block ($$...$$) math markup.
	Question string `json:"question"`

	// Options is populated only for multiple-choice questions and holds
	// exactly 4 label-prefixed strings, e.g. "A) 3".
	Options []string `json:"options,omitempty"`

	// Answer is the correct answer. For multiple choice it matches the text
	// of one option.
	Answer string `json:"answer"`

	Explanation string `json:"explanation,omitempty"`
}

// Clone returns a deep copy so callers can edit without aliasing.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	return out
}

// CloneAll deep-copies a question list.
func CloneAll(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}
