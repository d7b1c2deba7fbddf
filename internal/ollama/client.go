// Package ollama is a small client for the Ollama generate API.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// Config selects the server, model and sampling options.
type Config struct {
	Host        string
	Model       string
	Temperature float64
	NumCtx      int
	KeepAlive   string
	Timeout     time.Duration
}

// Client calls /api/generate and /api/tags.
type Client struct {
	http *resty.Client
	cfg  Config
}

type generateOptions struct {
	NumCtx      int     `json:"num_ctx"`
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	Model     string          `json:"model"`
	Prompt    string          `json:"prompt"`
	Stream    bool            `json:"stream"`
	KeepAlive string          `json:"keep_alive,omitempty"`
	Options   generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// New returns a Client. Missing fields take the defaults used by the
// assistant: localhost, mistral, 4096 context, 20s timeout.
func New(cfg Config) *Client {
	if cfg.Host == "" {
		cfg.Host = "http://localhost:11434"
	}
	if !strings.HasPrefix(cfg.Host, "http://") && !strings.HasPrefix(cfg.Host, "https://") {
		cfg.Host = "http://" + cfg.Host
	}
	if cfg.Model == "" {
		cfg.Model = "mistral"
	}
	if cfg.NumCtx <= 0 {
		cfg.NumCtx = 4096
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Host, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{http: c, cfg: cfg}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

// Generate sends prompt and returns the model's trimmed text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Model:     c.cfg.Model,
		Prompt:    prompt,
		Stream:    false,
		KeepAlive: c.cfg.KeepAlive,
		Options:   generateOptions{NumCtx: c.cfg.NumCtx, Temperature: c.cfg.Temperature},
	}
	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&out).
		SetError(&out).
		Post("/api/generate")
	if err != nil {
		return "", &ClassifiedError{Category: Recoverable, Underlying: fmt.Errorf("ollama request: %w", err)}
	}
	if resp.StatusCode() != http.StatusOK {
		return "", classifyStatus(resp.StatusCode(), resp.String())
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama error: %s", out.Error)
	}
	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// HealthPing checks that /api/tags lists the configured model.
func (c *Client) HealthPing(ctx context.Context) error {
	var data struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&data).Get("/api/tags")
	if err != nil {
		return &ClassifiedError{Category: Recoverable, Underlying: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return classifyStatus(resp.StatusCode(), resp.String())
	}
	want := baseModelName(c.cfg.Model)
	for _, m := range data.Models {
		if baseModelName(m.Name) == want {
			return nil
		}
	}
	return &ClassifiedError{Category: Irrecoverable, Underlying: fmt.Errorf("model %s not found", want)}
}

// WaitReady retries HealthPing with exponential backoff until it succeeds,
// an irrecoverable error occurs, maxElapsed passes or ctx ends.
func (c *Client) WaitReady(ctx context.Context, maxElapsed time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxElapsed

	op := func() error {
		err := c.HealthPing(ctx)
		if err != nil && IsIrrecoverable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

func baseModelName(name string) string {
	return strings.SplitN(name, ":", 2)[0]
}
