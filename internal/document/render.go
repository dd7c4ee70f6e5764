// Package document formats finished question lists into printable HTML
// documents and encodes them for download.
package document

import (
	"bytes"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/abhisek/worksheetgen/internal/worksheet"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Kind identifies which of the two documents a Document is.
type Kind string

const (
	KindStudent   Kind = "student"
	KindAnswerKey Kind = "answer_key"
)

// Suggested download names. The payload is HTML.
const (
	StudentFilename   = "student-worksheet.html"
	AnswerKeyFilename = "answer-key.html"
)

const dataURIPrefix = "data:text/html;base64,"

// ErrNoQuestions is returned when Render is given an empty list.
var ErrNoQuestions = errors.New("document: no questions to render")

// KaTeX locates the math typesetting assets linked from every document.
type KaTeX struct {
	CSS        string
	JS         string
	AutoRender string
}

// DefaultKaTeX points at the public jsDelivr build.
var DefaultKaTeX = KaTeX{
	CSS:        "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.css",
	JS:         "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.js",
	AutoRender: "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/contrib/auto-render.min.js",
}

// Document is one rendered, self-contained HTML file.
type Document struct {
	Kind     Kind   `json:"kind"`
	Filename string `json:"filename"`
	DataURI  string `json:"data_uri"`
	HTML     []byte `json:"-"`
}

// Set is the output of one Render call. AnswerKey is nil unless the request
// asked for one.
type Set struct {
	Student   *Document `json:"student"`
	AnswerKey *Document `json:"answer_key,omitempty"`
}

// Documents returns the non-nil documents in the set.
func (s *Set) Documents() []*Document {
	docs := []*Document{s.Student}
	if s.AnswerKey != nil {
		docs = append(docs, s.AnswerKey)
	}
	return docs
}

var templates = template.Must(
	template.New("document").
		Funcs(template.FuncMap{"math": mathHTML}).
		ParseFS(templateFS, "templates/*.html.tmpl"),
)

type pageData struct {
	Title     string
	Grade     string
	Topic     string
	Questions []worksheet.Question
	KaTeX     KaTeX
}

// Render produces the student document and, when req.WithKey is set, the
// answer key. The questions are expected to be final and normalized.
func Render(questions []worksheet.Question, req worksheet.Request) (*Set, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	data := pageData{
		Grade:     req.Grade,
		Topic:     req.Topic,
		Questions: questions,
		KaTeX:     DefaultKaTeX,
	}

	data.Title = "Worksheet: " + req.Topic
	student, err := render(KindStudent, "student.html.tmpl", StudentFilename, data)
	if err != nil {
		return nil, err
	}
	set := &Set{Student: student}

	if req.WithKey {
		data.Title = "Answer Key: " + req.Topic
		set.AnswerKey, err = render(KindAnswerKey, "answer_key.html.tmpl", AnswerKeyFilename, data)
		if err != nil {
			return nil, err
		}
	}
	return set, nil
}

func render(kind Kind, name, filename string, data pageData) (*Document, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", kind, err)
	}
	html := buf.Bytes()
	return &Document{
		Kind:     kind,
		Filename: filename,
		DataURI:  EncodeDataURI(html),
		HTML:     html,
	}, nil
}

// EncodeDataURI wraps an HTML payload as a base64 data URI.
func EncodeDataURI(html []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(html)
}

// DecodeDataURI reverses EncodeDataURI.
func DecodeDataURI(uri string) ([]byte, error) {
	payload, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("document: not an HTML data URI")
	}
	return base64.StdEncoding.DecodeString(payload)
}

// mathHTML escapes text and wraps each math segment in the delimiters the
// auto-render script looks for.
func mathHTML(text string) template.HTML {
	var b strings.Builder
	for _, seg := range SplitMath(text) {
		switch seg.Kind {
		case SegmentInline:
			b.WriteString(`<span class="math-inline">\(`)
			b.WriteString(template.HTMLEscapeString(seg.Content))
			b.WriteString(`\)</span>`)
		case SegmentBlock:
			b.WriteString(`<div class="math-block">\[`)
			b.WriteString(template.HTMLEscapeString(seg.Content))
			b.WriteString(`\]</div>`)
		default:
			b.WriteString(template.HTMLEscapeString(seg.Content))
		}
	}
	return template.HTML(b.String())
}
