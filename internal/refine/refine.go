// Package refine is the optional model-backed confidence refinement
// boundary. The default refiner is the identity; a configured provider
// may adjust a confidence score but never replaces the lexical
// decision that produced it.
package refine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/parleyhq/parley/internal/model"
)

// Input carries the decision context handed to a refiner
type Input struct {
	Score  float64 // Lexical confidence in [0,1]
	Stage  string  // Current debate stage label
	Reason string  // Lexical decision reason
	Topic  string  // Conversation topic
}

// Refiner adjusts a confidence score. Implementations must return the
// input score unchanged when they cannot improve on it.
type Refiner interface {
	Name() string
	Refine(ctx context.Context, in Input) (float64, error)
}

// Identity returns every score unchanged. It is the default refiner.
type Identity struct{}

func (Identity) Name() string { return "identity" }

func (Identity) Refine(_ context.Context, in Input) (float64, error) {
	return in.Score, nil
}

// New creates a refiner from configuration. An empty provider yields
// the identity refiner.
func New(cfg model.RefinerConfig) (Refiner, error) {
	switch strings.ToLower(cfg.Provider) {
	case "":
		return Identity{}, nil
	case "openai":
		return newOpenAIRefiner(cfg)
	default:
		return nil, fmt.Errorf("unknown refiner provider: %s (supported: openai)", cfg.Provider)
	}
}

// openAIRefiner asks a chat model to second-guess the lexical
// confidence. Calls are rate limited; any failure falls back to the
// input score so the pipeline never blocks on the provider.
type openAIRefiner struct {
	client    *openai.Client
	limiter   *rate.Limiter
	model     string
	maxTokens int
	timeout   time.Duration
}

func newOpenAIRefiner(cfg model.RefinerConfig) (*openAIRefiner, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 64
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	return &openAIRefiner{
		client:    openai.NewClientWithConfig(clientConfig),
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		model:     chatModel,
		maxTokens: maxTokens,
		timeout:   timeout,
	}, nil
}

func (r *openAIRefiner) Name() string { return "openai" }

func (r *openAIRefiner) Refine(ctx context.Context, in Input) (float64, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return in.Score, err
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"A debate analyzer rated its conclusion confidence %.2f for stage %q with reason: %s. "+
			"Topic: %s. Reply with a single number between 0 and 1, your calibrated confidence. "+
			"Reply with the number only.",
		in.Score, in.Stage, in.Reason, in.Topic)

	resp, err := r.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You calibrate confidence scores for a conversation analysis tool. Answer with one number in [0,1].",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   r.maxTokens,
		Temperature: 0.0,
	})
	if err != nil {
		return in.Score, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return in.Score, fmt.Errorf("no response from OpenAI")
	}

	refined, err := parseScore(resp.Choices[0].Message.Content)
	if err != nil {
		return in.Score, err
	}
	return refined, nil
}

// parseScore extracts the first parseable number and clamps it to [0,1]
func parseScore(content string) (float64, error) {
	for _, field := range strings.Fields(content) {
		field = strings.Trim(field, ",;:()[]")
		score, err := strconv.ParseFloat(field, 64)
		if err != nil {
			continue
		}
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		return score, nil
	}
	return 0, fmt.Errorf("no numeric score in refiner response: %q", content)
}
