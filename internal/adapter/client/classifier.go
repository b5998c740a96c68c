package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const classifierInstruction = `You are a Dream Intent Judge.
    Decide whether the following user text describes a dream (something the user saw or experienced while asleep).
    - If it describes a dream, respond ONLY with "YES".
    - If it is a greeting, a question, small talk or anything else, respond ONLY with "NO".`

// ModelClassifier asks the model whether a text describes a dream. Errors
// let the text through so a classifier outage does not block analysis.
type ModelClassifier struct {
	client *genai.Client
	model  string
}

func NewModelClassifier(client *genai.Client, model string) *ModelClassifier {
	return &ModelClassifier{client: client, model: model}
}

func (c *ModelClassifier) IsDreamLike(ctx context.Context, text string) bool {
	prompt := fmt.Sprintf("%s\n\nText: %s", classifierInstruction, text)

	log := logrus.WithField("component", "classifier")

	// Thinking tokens count against MaxOutputTokens, so thinking is disabled.
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0),
		MaxOutputTokens: 8,
		ThinkingConfig:  &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	})
	if err != nil {
		log.WithError(err).Warn("Dream classifier unavailable, allowing input")
		return true
	}

	answer := resp.Text()
	if strings.TrimSpace(answer) == "" {
		log.WithField("finish_reason", finishReason(resp)).Warn("Dream classifier returned no verdict, allowing input")
		return true
	}
	return parseVerdict(answer)
}

func finishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return ""
	}
	return string(resp.Candidates[0].FinishReason)
}

func parseVerdict(answer string) bool {
	result := strings.TrimSpace(strings.ToUpper(answer))
	if result == "" {
		return true
	}
	return !strings.HasPrefix(result, "NO")
}
