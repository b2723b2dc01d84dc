package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/mailsense/mailsense/internal/core/domain"
	"github.com/mailsense/mailsense/internal/platform/config"
	"github.com/mailsense/mailsense/internal/platform/observability"
)

const (
	rateLimiterBurst = 5

	breakerMaxRequests = 1
	breakerMinRequests = 5
	breakerTimeout     = time.Minute

	failureReasonCall      = "call"
	failureReasonMalformed = "malformed"
	failureReasonBreaker   = "circuit_open"
	failureReasonRateLimit = "rate_limit"
)

const classifyPrompt = `Classifique o texto do email abaixo em uma das categorias: 'Produtivo' ou 'Improdutivo'.
Retorne apenas um objeto JSON com as chaves: category, confidence, short_reason, suggested_reply.
- category: 'Produtivo' ou 'Improdutivo'
- confidence: número entre 0.0 e 1.0
- short_reason: uma frase curta explicando a decisão
- suggested_reply: sugestão de resposta breve`

var errMissingField = errors.New("missing required field")

type openAIClassifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
	logger  *zerolog.Logger
}

// NewOpenAI builds the network-backed classifier. The circuit breaker opens
// after repeated call failures so a struggling upstream degrades the service
// to rules instead of stacking timeouts.
func NewOpenAI(cfg *config.Config, logger *zerolog.Logger) Classifier {
	return newOpenAIClassifier(openai.NewClient(cfg.OpenAIAPIKey), cfg, logger)
}

func newOpenAIClassifier(client *openai.Client, cfg *config.Config, logger *zerolog.Logger) *openAIClassifier {
	settings := gobreaker.Settings{
		Name:        "remote-classifier",
		MaxRequests: breakerMaxRequests,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= breakerMinRequests &&
				counts.TotalFailures*2 >= counts.Requests
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("remote classifier circuit breaker state change")
		},
	}

	return &openAIClassifier{
		client:  client,
		model:   cfg.LLMModel,
		timeout: cfg.RemoteTimeout,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), rateLimiterBurst),
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		logger:  logger,
	}
}

// Classify performs a single time-bounded attempt against the service. No
// retries: a slow upstream must not stretch worst-case request latency.
func (c *openAIClassifier) Classify(ctx context.Context, text string) Outcome {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		observability.RemoteFailuresTotal.WithLabelValues(failureReasonRateLimit).Inc()

		return Outcome{Status: StatusUnavailable, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	started := time.Now()

	content, err := c.breaker.Execute(func() (string, error) {
		return c.complete(ctx, text)
	})

	observability.RemoteRequestDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		reason := failureReasonCall
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			reason = failureReasonBreaker
		}

		observability.RemoteFailuresTotal.WithLabelValues(reason).Inc()
		c.logger.Warn().Err(err).Msg("remote classification call failed")

		return Outcome{Status: StatusUnavailable, Err: err}
	}

	classification, err := parsePayload(content)
	if err != nil {
		observability.RemoteFailuresTotal.WithLabelValues(failureReasonMalformed).Inc()
		c.logger.Warn().Err(err).Str("content", content).Msg("remote classification payload malformed")

		return Outcome{Status: StatusMalformed, Err: err}
	}

	return Outcome{Status: StatusOK, Classification: classification}
}

func (c *openAIClassifier) complete(ctx context.Context, text string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: classifyPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Email:\n" + text,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// parsePayload validates the expected four-field object. Any deviation from
// the shape is a parse failure, reported as malformed.
func parsePayload(content string) (Classification, error) {
	raw := extractJSON(content)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Classification{}, fmt.Errorf("unmarshal payload: %w", err)
	}

	for _, key := range []string{"category", "confidence", "short_reason", "suggested_reply"} {
		if _, ok := fields[key]; !ok {
			return Classification{}, fmt.Errorf("%w: %s", errMissingField, key)
		}
	}

	var payload struct {
		Category       string  `json:"category"`
		Confidence     float64 `json:"confidence"`
		ShortReason    string  `json:"short_reason"`
		SuggestedReply string  `json:"suggested_reply"`
	}

	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Classification{}, fmt.Errorf("unmarshal payload fields: %w", err)
	}

	category, err := parseCategory(payload.Category)
	if err != nil {
		return Classification{}, err
	}

	if payload.Confidence < 0 || payload.Confidence > 1 {
		return Classification{}, fmt.Errorf("confidence %v out of range", payload.Confidence)
	}

	return Classification{
		Category:       category,
		Confidence:     domain.ClampConfidence(payload.Confidence),
		ShortReason:    payload.ShortReason,
		SuggestedReply: payload.SuggestedReply,
	}, nil
}

func parseCategory(s string) (domain.Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "produtivo", "productive":
		return domain.CategoryProductive, nil
	case "improdutivo", "unproductive":
		return domain.CategoryUnproductive, nil
	default:
		return "", fmt.Errorf("unexpected category %q", s)
	}
}
