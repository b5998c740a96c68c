package api

import (
	"errors"
	"html/template"

	"dream-analyzer/internal/domain/entity"
	"dream-analyzer/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const msgUnexpected = "An unexpected error occurred."

type DreamHandler struct {
	analyzer *usecase.DreamAnalyzer
}

func NewDreamHandler(analyzer *usecase.DreamAnalyzer) *DreamHandler {
	return &DreamHandler{analyzer: analyzer}
}

func (h *DreamHandler) Index(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"Error":            "",
		"DreamDescription": "",
	})
}

func (h *DreamHandler) AnalyzeDream(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Set("X-Request-ID", requestID)
	log := logrus.WithFields(logrus.Fields{
		"component":  "handler",
		"request_id": requestID,
	})

	var req entity.DreamRequest
	if err := c.BodyParser(&req); err != nil {
		// An unreadable body carries no description; the analyzer reports it as empty.
		log.WithError(err).Debug("Form body not parsed")
		req = entity.DreamRequest{}
	}

	res, err := h.analyzer.Analyze(c.UserContext(), req)
	if err != nil {
		// The Delivery layer maps the business error to a user message
		msg, ok := userMessage(err)
		if !ok {
			log.WithError(err).Error("Analysis failed")
			return err
		}
		log.WithError(err).Info("Analysis not completed")
		return c.Render("index", fiber.Map{
			"Error":            msg,
			"DreamDescription": req.Description,
		})
	}

	log.WithFields(logrus.Fields{
		"model":    res.Model,
		"attempts": res.Attempts,
	}).Info("Analysis rendered")

	return c.Render("result", fiber.Map{
		"Analysis": template.HTML(res.HTML),
	})
}

// userMessage returns the text shown for err, or false when err is not a
// known failure and should surface as a server error.
func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, entity.ErrMissingAPIKey):
		return "API Key missing. Please check .env file.", true
	case errors.Is(err, entity.ErrEmptyDream):
		return "Please describe a dream for analysis.", true
	case errors.Is(err, entity.ErrNotADream):
		return "I only analyze dreams. Please describe a dream.", true
	case errors.Is(err, entity.ErrUpstreamBusy):
		return "Server is currently busy (Rate Limit Exceeded). Please try again in 1 minute.", true
	}

	var upstream *entity.UpstreamError
	if errors.As(err, &upstream) {
		return "API Error: " + upstream.Message, true
	}
	if errors.Is(err, entity.ErrGenerationFailed) {
		return msgUnexpected, true
	}
	return "", false
}
