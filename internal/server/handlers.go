package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/worksheetgen/internal/document"
	"github.com/abhisek/worksheetgen/internal/questiongen"
	"github.com/abhisek/worksheetgen/internal/worksheet"
)

type typeOption struct {
	Value worksheet.QuestionType `json:"value"`
	Label string                 `json:"label"`
}

type optionsResponse struct {
	Grades       []string     `json:"grades"`
	Types        []typeOption `json:"types"`
	MinCount     int          `json:"min_count"`
	MaxCount     int          `json:"max_count"`
	DefaultCount int          `json:"default_count"`
}

// WorksheetResponse is returned by the create endpoint and as the payload of
// the streaming "done" event.
type WorksheetResponse struct {
	SessionID      string               `json:"session_id"`
	Source         questiongen.Source   `json:"source"`
	FallbackReason string               `json:"fallback_reason,omitempty"`
	Model          string               `json:"model,omitempty"`
	Questions      []worksheet.Question `json:"questions"`
	Documents      *document.Set        `json:"documents"`
}

// RenderRequest carries a hand-edited question list.
type RenderRequest struct {
	Request   worksheet.Request `json:"request"`
	Questions json.RawMessage   `json:"questions"`
}

// RenderResponse holds the re-normalized questions and their documents.
type RenderResponse struct {
	Questions []worksheet.Question `json:"questions"`
	Documents *document.Set        `json:"documents"`
}

func (s *Server) healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) options(c *gin.Context) {
	types := make([]typeOption, len(worksheet.AllTypes))
	for i, t := range worksheet.AllTypes {
		types[i] = typeOption{Value: t, Label: t.Label()}
	}
	c.JSON(http.StatusOK, optionsResponse{
		Grades:       worksheet.Grades,
		Types:        types,
		MinCount:     worksheet.MinCount,
		MaxCount:     worksheet.MaxCount,
		DefaultCount: worksheet.DefaultCount,
	})
}

func (s *Server) topicSuggestion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topic": worksheet.SuggestTopic()})
}

func (s *Server) mathSymbols(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": document.Symbols()})
}

// bindRequest decodes and validates a worksheet request, writing the error
// response itself on failure.
func bindRequest(c *gin.Context) (worksheet.Request, bool) {
	var req worksheet.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", err)
		return req, false
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return req, false
	}
	return req, true
}

func (s *Server) createWorksheet(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}

	res, err := s.generator.Generate(c.Request.Context(), req)
	if err != nil {
		// Only the caller's own cancellation gets here.
		respondError(c, http.StatusServiceUnavailable, "cancelled", err)
		return
	}

	resp, err := buildResponse(res, req)
	if err != nil {
		status, code := statusFor(err)
		respondError(c, status, code, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) renderWorksheet(c *gin.Context) {
	var body RenderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if len(body.Questions) == 0 {
		respondError(c, http.StatusBadRequest, "invalid_questions", errors.New("questions is required"))
		return
	}
	if err := body.Request.ValidateExceptCount(); err != nil {
		status, code := statusFor(err)
		respondError(c, status, code, err)
		return
	}

	qs, err := questiongen.DecodeEdited(body.Questions, body.Request.PrimaryType())
	if err != nil {
		status, code := statusFor(err)
		respondError(c, status, code, err)
		return
	}

	set, err := document.Render(qs, body.Request)
	if err != nil {
		status, code := statusFor(err)
		respondError(c, status, code, err)
		return
	}
	c.JSON(http.StatusOK, RenderResponse{Questions: qs, Documents: set})
}

func buildResponse(res *questiongen.Result, req worksheet.Request) (*WorksheetResponse, error) {
	set, err := document.Render(res.Questions, req)
	if err != nil {
		return nil, fmt.Errorf("render documents: %w", err)
	}
	return &WorksheetResponse{
		SessionID:      res.SessionID,
		Source:         res.Source,
		FallbackReason: res.FallbackReason,
		Model:          res.Model,
		Questions:      res.Questions,
		Documents:      set,
	}, nil
}
