package main

import (
	"fmt"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

const digestSystemPrompt = `You are an editor writing the introduction for a daily Israeli tech news digest. Summarize the day's headlines in 2-3 sentences of plain prose. Respond with the paragraph only, no heading and no markup.`

// DigestWriter produces a short editorial paragraph for the archive document
type DigestWriter struct {
	apiKey    string
	model     string
	maxTokens int
}

// NewDigestWriter creates a digest writer using the given model
func NewDigestWriter(apiKey, model string, maxTokens int) *DigestWriter {
	return &DigestWriter{apiKey: apiKey, model: model, maxTokens: maxTokens}
}

// Digest summarizes the collected headlines. The caller treats the digest as
// optional and drops it on error.
func (d *DigestWriter) Digest(articles []*Article) (string, error) {
	var sb strings.Builder
	sb.WriteString("Today's headlines:\n")
	for _, article := range articles {
		sb.WriteString(fmt.Sprintf("- %s (%s): %s\n", article.Title, article.Source, article.Description))
	}

	settings := types.RequestSettings{
		Model:       d.model,
		MaxTokens:   d.maxTokens,
		Temperature: 0.3,
	}
	response, err := anthropic.PromptWithSettings(digestSystemPrompt, sb.String(), "", d.apiKey, settings)
	if err != nil {
		return "", fmt.Errorf("digest prompt failed: %w", err)
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in digest response")
	}

	return strings.TrimSpace(response.Content[0].Text), nil
}
