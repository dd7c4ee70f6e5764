package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/worksheetgen/internal/worksheet"
)

const roleFraming = `You are an experienced teacher writing printable practice worksheets.
You write clear, accurate, age-appropriate questions and keep the difficulty
gradually increasing from the first question to the last.`

// exampleOutput seeds the expected shape. The math example carries LaTeX
// escaped for JSON (two backslashes inside the string value).
const exampleOutput = `[
  {
    "id": 1,
    "type": "multiple-choice",
    "question": "Which number is the sum of 2 and 3?",
    "options": ["A) 4", "B) 5", "C) 6", "D) 7"],
    "answer": "B) 5",
    "explanation": "2 + 3 = 5."
  },
  {
    "id": 2,
    "type": "fill-in-blank",
    "question": "$\\frac{1}{2} + \\frac{1}{4} = $ ____",
    "answer": "$\\frac{3}{4}$",
    "explanation": "Rewrite $\\frac{1}{2}$ as $\\frac{2}{4}$, then $\\frac{2}{4} + \\frac{1}{4} = \\frac{3}{4}$."
  }
]`

// BuildPrompt assembles the single instruction string sent to the model.
func BuildPrompt(req worksheet.Request) string {
	var b strings.Builder

	b.WriteString(roleFraming)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Grade: %s\n", req.Grade)
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)
	fmt.Fprintf(&b, "Question types: %s\n", typeList(req.Types))

	b.WriteString("\nRules:\n")
	fmt.Fprintf(&b, "- Write exactly %d questions suitable for %s students.\n", req.Count, req.Grade)
	if req.Includes(worksheet.TypeMultipleChoice) || len(req.Types) == 0 {
		b.WriteString(`- For "multiple-choice" questions, give exactly 4 options labelled "A) ", "B) ", "C) ", "D) ". Exactly one option is correct and "answer" repeats that option verbatim, label included.` + "\n")
	}
	if req.Includes(worksheet.TypeFillInBlank) {
		b.WriteString(`- For "fill-in-blank" questions, mark the blank with four underscores, e.g. "The answer is ____". Omit "options".` + "\n")
	}
	b.WriteString("- Give every question a short explanation of the answer.\n")
	b.WriteString("- Write math in LaTeX between $...$ for inline formulas or $$...$$ for display formulas.\n")
	b.WriteString(`- Inside JSON strings every LaTeX backslash must be escaped, e.g. write "\\frac{1}{2}", never "\frac{1}{2}".` + "\n")
	b.WriteString("- Double-check that every answer is correct.\n")

	b.WriteString("\nReturn a JSON array in exactly this format:\n")
	b.WriteString(exampleOutput)
	b.WriteString("\n\n")

	b.WriteString("Output only the JSON array. Do not add any text before or after it and do not wrap it in code fences.")
	return b.String()
}

func typeList(types []worksheet.QuestionType) string {
	if len(types) == 0 {
		return string(worksheet.TypeMultipleChoice)
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = fmt.Sprintf("%q", string(t))
	}
	return strings.Join(names, " and ")
}
