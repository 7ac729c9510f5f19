package copywriter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"InstaCatalog/entity"
	"InstaCatalog/internal/lib/sl"

	"github.com/sashabaranov/go-openai"
)

const (
	taglinePrompt = "You write short taglines for small businesses that sell on Instagram and WhatsApp. " +
		"Reply with one sentence of at most 12 words, no hashtags, no quotes."
	blurbPrompt = "You write product descriptions for a small online catalog. " +
		"Reply with one or two friendly sentences, at most 35 words, no hashtags, no prices."
)

type Writer struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

func New(apiKey, model string, log *slog.Logger) *Writer {
	return NewWithConfig(openai.DefaultConfig(apiKey), model, log)
}

func NewWithConfig(conf openai.ClientConfig, model string, log *slog.Logger) *Writer {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Writer{
		client: openai.NewClientWithConfig(conf),
		model:  model,
		log:    log.With(sl.Module("copywriter")),
	}
}

func (w *Writer) Tagline(ctx context.Context, c *entity.Catalog) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Business: %s\nCategory: %s\n", c.BusinessName, c.BusinessType)
	if c.Bio != "" {
		fmt.Fprintf(&b, "Instagram bio: %s\n", c.Bio)
	}
	for i, p := range c.Products {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "Product: %s\n", p.Name)
	}
	return w.complete(ctx, taglinePrompt, b.String(), 40)
}

func (w *Writer) ProductBlurb(ctx context.Context, p entity.Product, businessType string) (string, error) {
	msg := fmt.Sprintf("Category: %s\nProduct: %s", businessType, p.Name)
	if len(p.Labels) > 0 {
		msg += "\nWhat the photo shows: " + strings.Join(p.Labels, ", ")
	}
	return w.complete(ctx, blurbPrompt, msg, 90)
}

func (w *Writer) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	resp, err := w.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: w.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices")
	}

	text := strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"`)
	if text == "" {
		return "", fmt.Errorf("chat completion: empty answer")
	}
	w.log.Debug("completion",
		slog.String("model", resp.Model),
		slog.Int("tokens", resp.Usage.TotalTokens))
	return text, nil
}
