// Package gateway issues the six AI capability calls against Gemini and
// normalizes responses into plain results. Advisory capabilities never return
// errors; they degrade to fixed fallback values.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"unmute-go/internal/logger"
)

// Backend is the subset of the Gemini models service the client needs.
// *genai.Models satisfies it.
type Backend interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Models struct {
	Categorize string
	Transcribe string
	Analyze    string
	Chat       string
	Search     string
	Speech     string
}

func DefaultModels() Models {
	return Models{
		Categorize: "gemini-flash-lite-latest",
		Transcribe: "gemini-3-flash-preview",
		Analyze:    "gemini-3-pro-preview",
		Chat:       "gemini-3-pro-preview",
		Search:     "gemini-3-flash-preview",
		Speech:     "gemini-2.5-flash-preview-tts",
	}
}

type Options struct {
	Models         Models
	ThinkingBudget int32
	Voice          string
	// MaxRetries bounds retries after the first attempt; zero means one attempt.
	MaxRetries      uint64
	MaxRetryElapsed time.Duration
}

func DefaultOptions() Options {
	return Options{
		Models:          DefaultModels(),
		ThinkingBudget:  32768,
		Voice:           "Kore",
		MaxRetries:      2,
		MaxRetryElapsed: 20 * time.Second,
	}
}

type Client struct {
	backend Backend
	opts    Options
	log     *logger.Logger
}

func New(backend Backend, opts Options, log *logger.Logger) *Client {
	def := DefaultOptions()
	if opts.Models.Categorize == "" {
		opts.Models.Categorize = def.Models.Categorize
	}
	if opts.Models.Transcribe == "" {
		opts.Models.Transcribe = def.Models.Transcribe
	}
	if opts.Models.Analyze == "" {
		opts.Models.Analyze = def.Models.Analyze
	}
	if opts.Models.Chat == "" {
		opts.Models.Chat = def.Models.Chat
	}
	if opts.Models.Search == "" {
		opts.Models.Search = def.Models.Search
	}
	if opts.Models.Speech == "" {
		opts.Models.Speech = def.Models.Speech
	}
	if opts.Voice == "" {
		opts.Voice = def.Voice
	}
	return &Client{backend: backend, opts: opts, log: log.Component("gateway")}
}

// NewGenAIBackend connects to the Gemini API with an API key.
func NewGenAIBackend(ctx context.Context, apiKey string) (Backend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client.Models, nil
}

// generate runs one GenerateContent call with exponential backoff.
func (c *Client) generate(ctx context.Context, capability, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	log := c.log.WithField("capability", capability).WithField("model", model)

	var resp *genai.GenerateContentResponse
	attempt := 0
	op := func() error {
		attempt++
		r, err := c.backend.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(err)
			}
			// client errors other than rate limiting will not succeed on retry
			var apiErr genai.APIError
			if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != 429 {
				log.WithField("status", apiErr.Code).WithField("error", err.Error()).Warn("gateway call rejected")
				return backoff.Permanent(err)
			}
			log.WithField("attempt", attempt).WithField("error", err.Error()).Warn("gateway call failed")
			return err
		}
		resp = r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.opts.MaxRetryElapsed
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.opts.MaxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("%s call failed: %w", capability, err)
	}
	log.WithField("attempts", attempt).Debug("gateway call succeeded")
	return resp, nil
}
