package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/worksheetgen/internal/questiongen"
	"github.com/abhisek/worksheetgen/internal/worksheet"
)

// SSE event names emitted by the streaming endpoint.
const (
	EventDelta     = "delta"
	EventQuestions = "questions"
	EventDone      = "done"
	EventError     = "error"
)

type deltaEvent struct {
	Text string `json:"text"`
}

type questionsEvent struct {
	Questions []worksheet.Question `json:"questions"`
}

// streamWorksheet runs one streaming session. Every delta is forwarded; a
// "questions" event follows whenever the delta produced a new parse. The
// final "done" event carries the complete response with documents. A client
// disconnect cancels the session and nothing more is written.
func (s *Server) streamWorksheet(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	res, err := s.generator.Stream(ctx, req, func(u questiongen.Update) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.SSEvent(EventDelta, deltaEvent{Text: u.Delta})
		if u.Changed {
			c.SSEvent(EventQuestions, questionsEvent{Questions: u.Questions})
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		s.log.Info("stream session ended early", "error", err.Error(), "request_id", c.GetString(ctxKeyRequestID))
		return
	}

	resp, err := buildResponse(res, req)
	if err != nil {
		_, code := statusFor(err)
		c.SSEvent(EventError, APIError{Message: err.Error(), Code: code})
		c.Writer.Flush()
		return
	}
	c.SSEvent(EventDone, resp)
	c.Writer.Flush()
}
