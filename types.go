package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Article represents one normalized news item as reported by the search provider
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Date        string `json:"date"` // reported publish date, YYYY-MM-DD
}

// Decode errors
var (
	ErrEmptyResponse = errors.New("empty response text")
	ErrMissingTitle  = errors.New("article missing title")
	ErrMissingURL    = errors.New("article missing url")
)

var codeFenceRe = regexp.MustCompile("^```[a-zA-Z]*\\n?|\\n?```$")

// stripCodeFences removes markdown code fences the model sometimes adds
// despite being instructed not to
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = codeFenceRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// DecodeArticle parses provider response text into an Article. It either
// returns a record with title and url present or an explicit error; a
// partially-shaped object never passes through.
func DecodeArticle(text string) (*Article, error) {
	cleaned := stripCodeFences(text)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var article Article
	if err := json.Unmarshal([]byte(cleaned), &article); err != nil {
		return nil, fmt.Errorf("parsing article JSON: %w", err)
	}

	if strings.TrimSpace(article.Title) == "" {
		return nil, ErrMissingTitle
	}
	if strings.TrimSpace(article.URL) == "" {
		return nil, ErrMissingURL
	}

	return &article, nil
}

// PublishResult tracks the outcome of publishing one article
type PublishResult struct {
	Article *Article
	Err     error
}

// Success reports whether the article was stored
func (r PublishResult) Success() bool {
	return r.Err == nil
}

// RunSummary is the artifact persisted at the end of a successful run
type RunSummary struct {
	Timestamp         time.Time `json:"timestamp"`
	ArticlesFound     int       `json:"articlesFound"`
	ArticlesPublished int       `json:"articlesPublished"`
}
