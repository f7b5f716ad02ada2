// Package llm wraps the OpenAI-compatible chat completion endpoint used by
// every agent and turns raw replies into JSON.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"material-selector/internal/common/config"
	apperrors "material-selector/internal/common/errors"
	commonhttp "material-selector/internal/common/http"
	"material-selector/internal/common/logger"
	"material-selector/internal/common/metrics"
	"material-selector/internal/common/observability"
)

var ErrEmptyCompletion = errors.New("model returned no choices")

// Request is one system+user exchange.
type Request struct {
	CallSite    string
	System      string
	User        string
	Temperature *float64
	MaxTokens   int
}

// ChatModel is the one capability agents and the orchestrator need.
type ChatModel interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64
}

// Client is safe for concurrent use and is meant to be shared.
type Client struct {
	client      openai.Client
	model       string
	timeout     time.Duration
	temperature float64
	logger      logger.Logger
}

func NewClient(cfg Config, httpClient *commonhttp.Client, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient.HTTPClient()))
	}

	return &Client{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
		logger:      log.With(map[string]interface{}{"model": cfg.Model}),
	}
}

// NewFromConfig builds the process-wide client from the model section.
func NewFromConfig(cfg *config.Config, log logger.Logger) *Client {
	timeout := config.GetDuration(cfg.Model.Timeout)
	httpClient := commonhttp.NewClient(timeout,
		commonhttp.WithLogger(log),
		commonhttp.WithUserAgent(cfg.App.Name+"/"+cfg.App.Version),
	)
	return NewClient(Config{
		BaseURL:     cfg.Model.BaseURL,
		APIKey:      cfg.Model.APIKey,
		Model:       cfg.Model.Name,
		Timeout:     timeout,
		Temperature: cfg.Model.Temperature,
	}, httpClient, log)
}

// Model returns the configured model id.
func (c *Client) Model() string {
	return c.model
}

func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	callSite := req.CallSite
	if callSite == "" {
		callSite = "unknown"
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := otel.Tracer("material-selector/llm").Start(ctx, "model."+callSite)
	span.SetAttributes(attribute.String("model", c.model))

	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: messages,
	}
	switch {
	case req.Temperature != nil:
		params.Temperature = openai.Float(*req.Temperature)
	case c.temperature > 0:
		params.Temperature = openai.Float(c.temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, params)
	metrics.ModelCallDuration.WithLabelValues(callSite).Observe(time.Since(start).Seconds())

	if err == nil && len(completion.Choices) == 0 {
		err = ErrEmptyCompletion
	} else if err != nil {
		err = fmt.Errorf("chat completion: %w", err)
	}
	observability.EndSpan(span, err)

	if err != nil {
		metrics.ModelCalls.WithLabelValues(callSite, metrics.StatusError).Inc()
		c.logger.Warn("Model call failed", map[string]interface{}{
			"callSite":  callSite,
			"errorCode": string(Classify(err)),
			"error":     err.Error(),
		})
		return "", err
	}

	metrics.ModelCalls.WithLabelValues(callSite, metrics.StatusSuccess).Inc()
	content := completion.Choices[0].Message.Content
	c.logger.Debug("Model call completed", map[string]interface{}{
		"callSite":    callSite,
		"durationMs":  time.Since(start).Milliseconds(),
		"replyLength": len(content),
	})
	return content, nil
}

// Classify maps a model or parsing error onto an error code for logs, metric
// labels and workflow errors.
func Classify(err error) apperrors.ErrorCode {
	if err == nil {
		return ""
	}
	if code := apperrors.CodeOf(err); code != apperrors.ErrCodeInternal {
		return code
	}

	var apiErr *openai.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrCodeModelTimeout
	case errors.As(err, &apiErr) && (apiErr.StatusCode == 401 || apiErr.StatusCode == 403):
		return apperrors.ErrCodeModelAuthFailed
	case errors.Is(err, ErrNoJSONObject), errors.Is(err, ErrMalformedJSON), errors.Is(err, ErrDecodeReply):
		return apperrors.ErrCodeResponseParseFailed
	default:
		return apperrors.ErrCodeModelCallFailed
	}
}
