package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/askme/internal/ai"
	"github.com/spigell/askme/internal/logger"
	"github.com/spigell/askme/internal/utils"
	"go.uber.org/zap"
)

const (
	apiURL       = "https://api.deepseek.com/v1"
	defaultModel = "deepseek-chat"
	userAgent    = "spigell/askme"
	contentType  = "application/json"

	maxTokens   = 300
	temperature = 0.7

	defaultMaxLogLength = 200

	// Bytes of an error body kept in the returned error.
	maxErrorBody = 512
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	token      string
	model      string
	maxLogLen  int
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

type Options struct {
	APIKey       string
	Model        string
	BaseURL      string
	MaxLogLength int
}

func New(log *zap.Logger, opts Options) (*Client, error) {
	token := strings.TrimSpace(opts.APIKey)
	if token == "" {
		return nil, errors.New("deepseek api key is required")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = apiURL
	}

	maxLogLen := opts.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return &Client{
		token:     token,
		model:     model,
		maxLogLen: maxLogLen,
		logger:    logger.WithCommonFields(log, ai.ProviderDeepSeek, model),
		APIURL:    base,
		// Deadlines come from the caller's context.
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		UserAgent:  userAgent,
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// GenerateContent sends prompt as a single user message and returns the first choice.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	payload, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req = c.setHeaders(req)

	c.logger.Debug("deepseek completion request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	resp, err := c.request(req)
	if err != nil {
		return "", fmt.Errorf("deepseek request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read deepseek response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s: %s", resp.Status, utils.TruncateForLog(string(data), maxErrorBody))
	}

	var completion completionResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return "", fmt.Errorf("decode deepseek response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}

	output := strings.TrimSpace(completion.Choices[0].Message.Content)
	if output == "" {
		return "", ai.ErrEmptyResponse
	}

	c.logger.Debug("deepseek completion response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.TruncateForLog(output, c.maxLogLen)),
	)

	return output, nil
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", contentType)

	return req
}
