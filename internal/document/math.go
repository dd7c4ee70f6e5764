package document

import (
	"regexp"
	"strings"
)

// SegmentKind classifies a run of question text.
type SegmentKind string

const (
	SegmentText   SegmentKind = "text"
	SegmentInline SegmentKind = "inline"
	SegmentBlock  SegmentKind = "block"
)

// Segment is a run of plain text or a single math expression with its
// delimiters removed.
type Segment struct {
	Kind    SegmentKind `json:"kind"`
	Content string      `json:"content"`
}

// mathRe matches $$...$$ (may span lines) or $...$ (single line).
var mathRe = regexp.MustCompile(`(?s)\$\$.*?\$\$|\$[^$\n]*?\$`)

// SplitMath splits mixed text into text, inline math and block math
// segments in order. Math with an empty body is kept as text.
func SplitMath(text string) []Segment {
	var segs []Segment
	appendText := func(s string) {
		if s == "" {
			return
		}
		if n := len(segs); n > 0 && segs[n-1].Kind == SegmentText {
			segs[n-1].Content += s
			return
		}
		segs = append(segs, Segment{Kind: SegmentText, Content: s})
	}

	last := 0
	for _, loc := range mathRe.FindAllStringIndex(text, -1) {
		appendText(text[last:loc[0]])
		last = loc[1]

		match := text[loc[0]:loc[1]]
		kind, body := SegmentInline, match[1:len(match)-1]
		if strings.HasPrefix(match, "$$") && len(match) >= 4 {
			kind, body = SegmentBlock, match[2:len(match)-2]
		}
		body = strings.TrimSpace(body)
		if body == "" {
			appendText(match)
			continue
		}
		segs = append(segs, Segment{Kind: kind, Content: body})
	}
	appendText(text[last:])
	return segs
}

// HasMath reports whether text contains at least one math expression.
func HasMath(text string) bool {
	for _, s := range SplitMath(text) {
		if s.Kind != SegmentText {
			return true
		}
	}
	return false
}
