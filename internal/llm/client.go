// Package llm talks to a local Ollama-compatible generation endpoint and turns
// its free-form reply into a model.AIResult.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mandalart-cli/internal/catalog"
	"mandalart-cli/internal/model"

	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "http://localhost:11434"
	DefaultModel    = "llama3"
)

// Options are forwarded verbatim as the request's "options" object
// (e.g. temperature, num_ctx). The client does not interpret them.
type Options map[string]any

// DefaultOptions mirrors the values used when no configuration is present.
func DefaultOptions() Options {
	return Options{"temperature": 0.7, "num_ctx": 4096}
}

// Client generates Mandalart plans. The zero value is not usable; call New.
type Client struct {
	endpoint   string
	model      string
	options    Options
	policy     Policy
	questions  []model.Question
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			c.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

func WithModel(name string) Option {
	return func(c *Client) {
		if name = strings.TrimSpace(name); name != "" {
			c.model = name
		}
	}
}

func WithOptions(opts Options) Option {
	return func(c *Client) { c.options = opts }
}

func WithPolicy(p Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithQuestions sets the catalog used to label answers in the prompt.
func WithQuestions(qs []model.Question) Option {
	return func(c *Client) { c.questions = qs }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for DefaultEndpoint/DefaultModel unless overridden.
// No request timeout is set; callers bound requests with their context.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		model:      DefaultModel,
		options:    DefaultOptions(),
		policy:     PolicyLenient,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.questions == nil {
		c.questions = catalog.Default()
	}
	return c
}

func (c *Client) Model() string    { return c.model }
func (c *Client) Endpoint() string { return c.endpoint }
func (c *Client) Policy() Policy   { return c.policy }

type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Format  string  `json:"format"`
	Options Options `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends the answers to the endpoint and returns a complete plan.
// Every failure is a *GenerationError.
func (c *Client) Generate(ctx context.Context, answers []string) (model.AIResult, error) {
	text, err := c.complete(ctx, BuildPrompt(c.questions, answers))
	if err != nil {
		return model.AIResult{}, err
	}
	return c.Parse(text)
}

// Parse turns a raw response text into a plan according to the client's policy.
func (c *Client) Parse(text string) (model.AIResult, error) {
	var r model.AIResult
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &r); err != nil {
		c.logger.Warn("unparsable generation response", zap.Error(err), zap.String("raw", truncate(text, 512)))
		return model.AIResult{}, &GenerationError{Kind: KindMalformed, Raw: text, Err: err}
	}

	if c.policy == PolicyStrict {
		if err := Validate(r); err != nil {
			c.logger.Warn("incomplete generation response", zap.Error(err), zap.Int("keyAreas", len(r.KeyAreas)))
			return model.AIResult{}, &GenerationError{Kind: KindIncomplete, Raw: text, Err: err}
		}
	} else if NeedsRepair(r) {
		c.logger.Info("repairing generation response", zap.Int("keyAreas", len(r.KeyAreas)))
	}
	return Repair(r), nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Format:  "json",
		Options: c.options,
	})
	if err != nil {
		return "", &GenerationError{Kind: KindTransport, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &GenerationError{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("generation request", zap.String("endpoint", c.endpoint), zap.String("model", c.model), zap.Int("promptBytes", len(prompt)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("generation request failed", zap.Error(err))
		return "", &GenerationError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("generation endpoint returned error", zap.Int("status", resp.StatusCode), zap.String("body", string(b)))
		return "", &GenerationError{
			Kind:       KindTransport,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(http.StatusText(resp.StatusCode) + " " + string(b))),
		}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &GenerationError{Kind: KindMalformed, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	return out.Response, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
