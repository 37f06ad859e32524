package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"muxsummary/internal/analysis"
	"muxsummary/internal/config"
	"muxsummary/internal/prompt"

	openai "github.com/sashabaranov/go-openai"
)

// Resolver 每次调用时解析 provider 配置，启动后新增的凭据无需重启即可生效
// Resolver yields the provider configuration at call time, so a credential added
// after launch is picked up by the next analysis
type Resolver func() config.ProviderConfig

// StaticResolver always returns cfg.
func StaticResolver(cfg config.ProviderConfig) Resolver {
	return func() config.ProviderConfig { return cfg }
}

// Client 基于 go-openai 的分析客户端
// Client performs analysis round-trips through go-openai
type Client struct {
	resolve Resolver
	getenv  func(string) string
	logger  *slog.Logger
}

func NewClient(resolve Resolver) *Client {
	return &Client{
		resolve: resolve,
		getenv:  os.Getenv,
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger used for request diagnostics.
func (c *Client) WithLogger(l *slog.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// Analyze 发送一次 chat completion 请求；所有失败都被归类为 analysis.Result
// Analyze sends one chat completion request. Every failure is classified into an
// analysis.Result; no error escapes.
func (c *Client) Analyze(ctx context.Context, userPrompt string) analysis.Result {
	cfg := c.resolve()

	apiKey := strings.TrimSpace(c.getenv(cfg.APIKeyEnv))
	if apiKey == "" {
		return analysis.Failure(analysis.KindMissingCredential,
			fmt.Sprintf("API key not found: set $%s", cfg.APIKeyEnv))
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	httpClient := &http.Client{}
	if cfg.TimeoutMS > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	clientCfg.HTTPClient = httpClient
	client := openai.NewClientWithConfig(clientCfg)

	c.logger.Debug("analysis request", "base_url", clientCfg.BaseURL, "model", cfg.Model, "prompt_bytes", len(userPrompt))
	resp, err := client.CreateChatCompletion(ctx, buildRequest(cfg, userPrompt))
	if err != nil {
		res := classify(err)
		c.logger.Warn("analysis request failed", "kind", res.Kind().String(), "detail", res.Detail())
		return res
	}

	if len(resp.Choices) == 0 {
		return analysis.Failure(analysis.KindMalformedResponse, "response contained no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return analysis.Failure(analysis.KindMalformedResponse, "response content is empty")
	}
	return analysis.Success(content)
}

func buildRequest(cfg config.ProviderConfig, userPrompt string) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}
	if cfg.MaxTokens > 0 {
		req.MaxCompletionTokens = cfg.MaxTokens
	}
	// 推理模型只接受默认 temperature；负值表示沿用服务端默认
	// Reasoning models only accept the default temperature. A negative value
	// leaves it to the server.
	if cfg.Temperature >= 0 && !isReasoningModel(cfg.Model) {
		req.Temperature = requestTemperature(cfg.Temperature)
	}
	return req
}

// requestTemperature maps an explicit 0 to the smallest positive float32, since
// go-openai drops a zero temperature from the request body (omitempty).
func requestTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func isReasoningModel(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

// classify maps a go-openai error onto an ErrorKind.
func classify(err error) analysis.Result {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return remoteFailure(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := strings.TrimSpace(string(reqErr.Body))
		if msg == "" && reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return remoteFailure(reqErr.HTTPStatusCode, msg)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return analysis.Failure(analysis.KindNetworkFailure, "request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return analysis.Failure(analysis.KindNetworkFailure, "request cancelled")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return analysis.Failure(analysis.KindNetworkFailure, "request timed out: "+err.Error())
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return analysis.Failure(analysis.KindNetworkFailure, "connection failed: "+urlErr.Err.Error())
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return analysis.Failure(analysis.KindMalformedResponse, "could not decode response: "+err.Error())
	}

	return analysis.Failure(analysis.KindNetworkFailure, err.Error())
}

func remoteFailure(status int, message string) analysis.Result {
	message = strings.TrimSpace(message)
	if len(message) > 300 {
		message = message[:300] + "..."
	}
	label := fmt.Sprintf("HTTP %d", status)
	if status == http.StatusTooManyRequests {
		label = fmt.Sprintf("rate limited (HTTP %d)", status)
	}
	if message == "" {
		return analysis.Failure(analysis.KindRemoteError, label)
	}
	return analysis.Failure(analysis.KindRemoteError, label+": "+message)
}
