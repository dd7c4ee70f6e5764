package questiongen

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/worksheetgen/internal/worksheet"
)

// Fallback returns req.Count placeholder questions. Every question is
// multiple-choice when the request includes that type, fill-in-blank
// otherwise. Each question names the topic and its 1-based position.
func Fallback(req worksheet.Request) []worksheet.Question {
	if req.Count <= 0 {
		return []worksheet.Question{}
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = "this topic"
	}
	mc := req.Includes(worksheet.TypeMultipleChoice)

	return lo.Times(req.Count, func(i int) worksheet.Question {
		n := i + 1
		if mc {
			return worksheet.Question{
				ID:          n,
				Type:        worksheet.TypeMultipleChoice,
				Question:    fmt.Sprintf("Question %d about %s: which of the following options is correct?", n, topic),
				Options:     []string{"A) Option 1", "B) Option 2", "C) Option 3", "D) Option 4"},
				Answer:      "A) Option 1",
				Explanation: "This is the explanation for the correct answer.",
			}
		}
		return worksheet.Question{
			ID:          n,
			Type:        worksheet.TypeFillInBlank,
			Question:    fmt.Sprintf("Question %d about %s: fill in the blank ____.", n, topic),
			Answer:      "Correct answer",
			Explanation: "This is the explanation for the fill-in-the-blank question.",
		}
	})
}
