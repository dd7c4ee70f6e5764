package questiongen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/worksheetgen/internal/worksheet"
)

// Placeholders substituted for fields the model left out.
const (
	PlaceholderQuestion    = "Question text unavailable."
	PlaceholderAnswer      = "Answer unavailable."
	PlaceholderExplanation = "No explanation provided."
	PlaceholderOption      = "(no option)"
)

// optionCount is the fixed number of options on a multiple-choice question.
const optionCount = 4

var optionLabels = [optionCount]string{"A", "B", "C", "D"}

// optionLabelRe matches a leading "A) ", "b. ", "C:" or "D、" label.
var optionLabelRe = regexp.MustCompile(`^\s*([A-Da-d])\s*[\)\.:、．]\s*`)

// normalize turns decoded array elements into questions with ids 1..N.
// Elements that are not JSON objects are skipped.
func normalize(raw []any, primary worksheet.QuestionType) []worksheet.Question {
	objs := lo.FilterMap(raw, func(item any, _ int) (map[string]any, bool) {
		m, ok := item.(map[string]any)
		return m, ok
	})

	return lo.Map(objs, func(m map[string]any, i int) worksheet.Question {
		q := worksheet.Question{
			ID:          i + 1,
			Type:        NormalizeType(stringField(m, "type"), primary),
			Question:    stringField(m, "question"),
			Answer:      stringField(m, "answer"),
			Explanation: stringField(m, "explanation"),
		}
		if q.Type == worksheet.TypeMultipleChoice {
			q.Options = normalizeOptions(stringList(m["options"]))
			q.Answer = matchAnswer(q.Answer, q.Options)
		}
		fillPlaceholders(&q)
		return q
	})
}

// NormalizeType maps a free-form type string onto the closed enumeration by
// substring markers. Ambiguous or unknown values fall back to primary.
func NormalizeType(raw string, primary worksheet.QuestionType) worksheet.QuestionType {
	s := strings.ToLower(raw)
	isChoice := strings.Contains(s, "multi") || strings.Contains(s, "choice")
	isBlank := strings.Contains(s, "fill") || strings.Contains(s, "blank")
	switch {
	case isChoice && !isBlank:
		return worksheet.TypeMultipleChoice
	case isBlank && !isChoice:
		return worksheet.TypeFillInBlank
	}
	if primary.Valid() {
		return primary
	}
	return worksheet.TypeFillInBlank
}

// Renormalize applies the same rules to an edited question list: ids are
// reassigned, options are fixed up or dropped, and blank fields get
// placeholders. The input is not modified.
func Renormalize(qs []worksheet.Question, primary worksheet.QuestionType) []worksheet.Question {
	out := worksheet.CloneAll(qs)
	for i := range out {
		q := &out[i]
		q.ID = i + 1
		q.Type = NormalizeType(string(q.Type), primary)
		if q.Type == worksheet.TypeMultipleChoice {
			q.Options = normalizeOptions(q.Options)
			q.Answer = matchAnswer(q.Answer, q.Options)
		} else {
			q.Options = nil
		}
		fillPlaceholders(q)
	}
	return out
}

func fillPlaceholders(q *worksheet.Question) {
	if strings.TrimSpace(q.Question) == "" {
		q.Question = PlaceholderQuestion
	}
	if strings.TrimSpace(q.Answer) == "" {
		q.Answer = PlaceholderAnswer
	}
	if strings.TrimSpace(q.Explanation) == "" {
		q.Explanation = PlaceholderExplanation
	}
}

// normalizeOptions returns exactly optionCount options, each carrying its
// positional label.
func normalizeOptions(opts []string) []string {
	out := make([]string, optionCount)
	for i := range out {
		body := PlaceholderOption
		if i < len(opts) {
			if b := optionBody(opts[i]); b != "" {
				body = b
			}
		}
		out[i] = optionLabels[i] + ") " + body
	}
	return out
}

func optionBody(opt string) string {
	return strings.TrimSpace(optionLabelRe.ReplaceAllString(opt, ""))
}

// matchAnswer rewrites a multiple-choice answer to the full text of the
// option it refers to: by exact text, by bare label ("B", "b)"), or by
// option body. Unmatched answers are returned unchanged.
func matchAnswer(answer string, options []string) string {
	a := strings.TrimSpace(answer)
	if a == "" {
		return answer
	}
	for _, o := range options {
		if o == a {
			return o
		}
	}
	if label := strings.ToUpper(strings.TrimRight(a, ").:、． ")); len(label) == 1 && label[0] >= 'A' && label[0] <= 'D' {
		return options[label[0]-'A']
	}
	body := optionBody(a)
	for _, o := range options {
		if strings.EqualFold(optionBody(o), body) {
			return o
		}
	}
	return answer
}

func stringField(m map[string]any, key string) string {
	return scalarString(m[key])
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	return lo.FilterMap(items, func(item any, _ int) (string, bool) {
		s := scalarString(item)
		return s, s != ""
	})
}
