package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/autopromptix/autopromptix/config"
	"github.com/autopromptix/autopromptix/metrics"
	"github.com/autopromptix/autopromptix/utils"
)

// ChatAPI is the subset of *openai.Client used by Client.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client is an Oracle backed by an OpenAI compatible chat completions API.
// Complete never returns an error.
type Client struct {
	api         ChatAPI
	apiKey      string
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	maxRetries  int
	retryDelay  time.Duration
	language    string
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	logger      utils.Logger
	metrics     *metrics.Metrics
}

type ClientOption func(*Client)

// WithChatAPI replaces the OpenAI client, mostly for tests.
func WithChatAPI(api ChatAPI) ClientOption {
	return func(c *Client) {
		c.api = api
	}
}

func WithLogger(logger utils.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds a Client from cfg.
func NewClient(cfg *config.Config, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		language:    cfg.Language,
		logger:      cfg.Logger,
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "oracle:" + cfg.Model,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= cfg.BreakerMinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Oracle circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = utils.NewLogger(cfg.LogLevel)
	}
	if c.api == nil {
		oaCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oaCfg.BaseURL = cfg.BaseURL
		}
		c.api = openai.NewClientWithConfig(oaCfg)
	}
	if c.apiKey == "" {
		c.logger.Warn("OPENAI_API_KEY not set, completions will fail with an authentication apology")
	}
	return c
}

// Complete sends systemPrompt and userInput as a two message chat. Any
// failure is logged and converted into an apology text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userInput string) (string, error) {
	start := time.Now()
	text, err := c.complete(ctx, systemPrompt, userInput)
	if err != nil {
		oe := Classify(err)
		c.logger.Error("Oracle completion failed", "kind", oe.Kind.String(), "status", oe.StatusCode, "error", err)
		c.metrics.ObserveOracle(oe.Kind.String(), time.Since(start))
		return Apology(c.language, oe), nil
	}
	c.metrics.ObserveOracle("ok", time.Since(start))
	return text, nil
}

func (c *Client) complete(ctx context.Context, systemPrompt, userInput string) (string, error) {
	if c.apiKey == "" && c.isDefaultAPI() {
		return "", NewError(KindAuth, "missing API key", nil)
	}

	var lastErr *Error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		c.logger.Debug("Requesting completion", "model", c.model, "attempt", attempt+1)

		text, err := c.attempt(ctx, systemPrompt, userInput)
		if err == nil {
			return text, nil
		}

		lastErr = Classify(err)
		c.logger.Warn("Completion attempt failed", "error", err, "attempt", attempt+1)
		if !lastErr.Retryable() || attempt == c.maxRetries {
			break
		}

		c.metrics.IncOracleRetry()
		if err := c.wait(ctx); err != nil {
			return "", NewError(KindUnavailable, "waiting to retry", err)
		}
	}
	return "", lastErr
}

func (c *Client) isDefaultAPI() bool {
	_, ok := c.api.(*openai.Client)
	return ok
}

func (c *Client) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.retryDelay):
		return nil
	}
}

func (c *Client) attempt(ctx context.Context, systemPrompt, userInput string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", NewError(KindUnavailable, "rate limiter", err)
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userInput},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, NewError(KindProtocol, "response has no choices", nil)
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})
	if err != nil {
		return "", err
	}
	text, ok := out.(string)
	if !ok {
		return "", NewError(KindProtocol, fmt.Sprintf("unexpected result type %T", out), nil)
	}
	return text, nil
}
