package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const defaultMaxRetries = 2

var ErrEmptyResponse = errors.New("chat: empty response from model")

// generator is the slice of genai.Models the client uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient classifies chat messages and renders analysis results as prose.
type GeminiClient struct {
	models     generator
	model      string
	maxRetries uint64
	backoff    func() backoff.BackOff
	log        logrus.FieldLogger
}

func NewGeminiClient(ctx context.Context, apiKey, model string, log logrus.FieldLogger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: create genai client: %w", err)
	}
	return newGeminiClient(client.Models, model, log), nil
}

func newGeminiClient(models generator, model string, log logrus.FieldLogger) *GeminiClient {
	return &GeminiClient{
		models:     models,
		model:      model,
		maxRetries: defaultMaxRetries,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 10 * time.Second
			return b
		},
		log: log,
	}
}

// Classify asks the model which intent the message expresses.
func (c *GeminiClient) Classify(ctx context.Context, message string, fc FinancialContext) (*Intent, error) {
	text, err := c.generate(ctx, classifyPrompt(message, fc), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, err
	}
	return ParseIntent(text)
}

// Render turns data into a short answer to query.
func (c *GeminiClient) Render(ctx context.Context, data any, query string) (string, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("chat: encode data: %w", err)
	}

	text, err := c.generate(ctx, renderPrompt(encoded, query), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	attempt := 0
	operation := func() (string, error) {
		attempt++
		resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
		if err != nil {
			if !retryable(err) {
				return "", backoff.Permanent(err)
			}
			c.log.WithError(err).WithField("attempt", attempt).Warn("GeminiClient.generate.retrying")
			return "", err
		}

		text := resp.Text()
		if strings.TrimSpace(text) == "" {
			return "", backoff.Permanent(ErrEmptyResponse)
		}
		return text, nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), c.maxRetries), ctx)
	text, err := backoff.RetryWithData(operation, policy)
	if err != nil {
		return "", fmt.Errorf("chat: generate content: %w", err)
	}
	return text, nil
}

// retryable reports whether err is a rate limit or server side failure.
func retryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return false
}
