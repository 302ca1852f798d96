package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ajitpratap0/docmeta/pkg/xmlutil"
)

// promptTemplate receives the escaped section title and body as XML elements.
const promptTemplate = `Summarize the following documentation section in one concise sentence (max 25 words). Output ONLY the sentence.

<section>
%s
%s
</section>`

// ClaudeSummarizer summarizes sections with Claude.
type ClaudeSummarizer struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// NewClaudeSummarizer creates a Summarizer backed by Claude.
func NewClaudeSummarizer(apiKey, model string, maxTokens int, opts ...option.RequestOption) *ClaudeSummarizer {
	c := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &ClaudeSummarizer{
		client:    &c,
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

// Prompt builds the summarization prompt for a section.
func Prompt(title, body string) string {
	return fmt.Sprintf(promptTemplate, xmlutil.Element("title", title), xmlutil.Element("content", body))
}

// Summarize asks Claude for a one-sentence summary of the section body.
func (c *ClaudeSummarizer) Summarize(ctx context.Context, title, body string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(title, body))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarizing section %q: %w", title, err)
	}

	for i := range resp.Content {
		if resp.Content[i].Type == "text" {
			return strings.TrimSpace(resp.Content[i].Text), nil
		}
	}
	return "", nil
}
