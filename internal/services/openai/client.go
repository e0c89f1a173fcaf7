package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sdk "github.com/sashabaranov/go-openai"

	"subforge/internal/logging"
	"subforge/internal/services"
)

const defaultTimeout = 120 * time.Second

// Config captures the settings shared by the OpenAI backends.
type Config struct {
	APIKey string
	// BaseURL overrides the API root for OpenAI-compatible servers such as
	// LocalAI. Empty uses api.openai.com.
	BaseURL string
	// TranscriptionModel names the speech-to-text model (e.g. whisper-1).
	TranscriptionModel string
	// ChatModel names the chat model used for translation.
	ChatModel      string
	Language       string
	TimeoutSeconds int
}

// Client wraps the go-openai SDK client.
type Client struct {
	cfg    Config
	api    *sdk.Client
	logger *slog.Logger
}

// NewClient builds a client. A missing API key is a configuration error
// unless a custom BaseURL points at a server that needs none.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "", "openai", "api key required (openai.api_key or OPENAI_API_KEY)", nil)
	}

	sdkCfg := sdk.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		sdkCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	sdkCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		cfg:    cfg,
		api:    sdk.NewClientWithConfig(sdkCfg),
		logger: logging.NewComponentLogger(logger, "openai"),
	}, nil
}

// HealthCheck lists models to verify credentials and reachability.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return classify("", "list models", err)
	}
	return nil
}

// classify tags SDK errors with the service markers.
func classify(stage, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, stage, operation, "", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	status := 0
	var apiErr *sdk.APIError
	var reqErr *sdk.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return services.Wrap(services.ErrConfiguration, stage, operation, fmt.Sprintf("rejected credentials (status %d)", status), err)
	case status == http.StatusTooManyRequests || status >= 500:
		return services.Wrap(services.ErrTransient, stage, operation, fmt.Sprintf("status %d", status), err)
	default:
		return services.Wrap(services.ErrExternalTool, stage, operation, "", err)
	}
}
