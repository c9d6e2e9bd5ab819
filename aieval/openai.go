package aieval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const evalPrompt = `You are a judge for a student creative-work contest.
Evaluate the following work for creativity, technique, presentation and impact.
Respond with strict JSON only: {"score": <number 0-100>, "feedback": "<one paragraph>"}.

Work:
%s`

const moderationPrompt = `You are a content moderator for an education platform for minors.
Decide whether the following content is acceptable for publication.
Respond with strict JSON only: {"approved": <true|false>}.

Content:
%s`

type LLMConfig struct {
	APIKey      string  `validate:"required"`
	BaseURL     string  // empty for the default endpoint
	Model       string  `validate:"required"`
	Temperature float32 `validate:"gte=0,lte=1"`
	MaxTokens   int     `validate:"required,min=50,max=2000"`
	// RatePerSec bounds the sustained request rate to the LLM service.
	RatePerSec float64 `validate:"gt=0"`
	Burst      int     `validate:"min=1"`
}

// LLMEvaluator scores and moderates content through an OpenAI-compatible
// chat completion API. Temperature defaults to 0 so identical content gets
// a stable score.
type LLMEvaluator struct {
	client  *openai.Client
	config  LLMConfig
	limiter *rate.Limiter
}

func NewLLMEvaluator(config LLMConfig) (*LLMEvaluator, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid llm config: %w", err)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &LLMEvaluator{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSec), config.Burst),
	}, nil
}

func (e *LLMEvaluator) Evaluate(ctx context.Context, content string) (Evaluation, error) {
	raw, err := e.complete(ctx, fmt.Sprintf(evalPrompt, content))
	if err != nil {
		return Evaluation{}, err
	}

	var parsed struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return Evaluation{}, fmt.Errorf("unparseable evaluator response %q: %w", raw, err)
	}

	return Evaluation{
		Score:    clampScore(parsed.Score),
		Feedback: parsed.Feedback,
	}, nil
}

func (e *LLMEvaluator) Moderate(ctx context.Context, content string) (bool, error) {
	raw, err := e.complete(ctx, fmt.Sprintf(moderationPrompt, content))
	if err != nil {
		return false, err
	}

	var parsed struct {
		Approved bool `json:"approved"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return false, fmt.Errorf("unparseable moderator response %q: %w", raw, err)
	}

	return parsed.Approved, nil
}

func (e *LLMEvaluator) complete(ctx context.Context, prompt string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.config.Model,
		Temperature: e.config.Temperature,
		MaxTokens:   e.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// extractJSON trims whatever the model wrapped around the JSON object,
// usually markdown fences.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
