// Package llm produces free-text clinical advice from a locally hosted
// language model served by Ollama.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/ollama/ollama/api"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type chatClient interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// OllamaGenerator sends a single-message chat and returns the cleaned reply.
type OllamaGenerator struct {
	client chatClient
	model  string
}

func NewOllamaGenerator(host, model string, httpClient *http.Client) (*OllamaGenerator, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("ollama host %q must be an absolute URL", host)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaGenerator{client: api.NewClient(base, httpClient), model: model}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    g.model,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
	}

	var b strings.Builder
	err := g.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		b.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat %s: %w", g.model, err)
	}
	return Clean(b.String()), nil
}

var (
	thinkBlock  = regexp.MustCompile(`(?s)<think>.*?</think>`)
	markdown    = regexp.MustCompile(`[*#]`)
	listMarkers = regexp.MustCompile(`(?m)^\s*-\s*`)
)

// Clean strips reasoning blocks and markdown decoration from model output.
func Clean(s string) string {
	s = strings.TrimSpace(thinkBlock.ReplaceAllString(s, ""))
	s = strings.TrimSpace(markdown.ReplaceAllString(s, ""))
	return strings.TrimSpace(listMarkers.ReplaceAllString(s, ""))
}
