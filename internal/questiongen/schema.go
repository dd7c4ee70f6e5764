package questiongen

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/worksheetgen/internal/llm"
	"github.com/abhisek/worksheetgen/internal/worksheet"
)

// QuestionListSchema describes a hand-edited question list submitted for
// re-rendering. It is looser than the generated wire shape: ids are optional
// because they are reassigned, and option count is enforced only as an upper
// bound because normalization pads.
var QuestionListSchema = &llm.Schema{
	Name: "worksheet-question-list",
	Definition: map[string]any{
		"type":     "array",
		"minItems": worksheet.MinCount,
		"maxItems": worksheet.MaxCount,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{"type": "integer"},
				"type": map[string]any{
					"type": "string",
					"enum": []any{string(worksheet.TypeMultipleChoice), string(worksheet.TypeFillInBlank)},
				},
				"question": map[string]any{"type": "string", "minLength": 1, "maxLength": 2000},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"maxItems": optionCount,
				},
				"answer":      map[string]any{"type": "string", "minLength": 1},
				"explanation": map[string]any{"type": "string"},
			},
			"required": []any{"type", "question", "answer"},
		},
	},
}

// DecodeEdited validates raw JSON against QuestionListSchema and returns the
// re-normalized questions.
func DecodeEdited(raw []byte, primary worksheet.QuestionType) ([]worksheet.Question, error) {
	if err := llm.Validate(QuestionListSchema, raw); err != nil {
		return nil, err
	}
	var qs []worksheet.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return Renormalize(qs, primary), nil
}
