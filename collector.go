package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Collector runs the fixed query list against the search provider and
// accumulates the usable article records.
type Collector struct {
	client    *SearchClient
	queries   []string
	limiter   *rate.Limiter
	converter *md.Converter
	log       *logrus.Logger
}

// NewCollector creates a collector that paces provider calls by delay
func NewCollector(client *SearchClient, queries []string, delay time.Duration, log *logrus.Logger) *Collector {
	return &Collector{
		client:    client,
		queries:   queries,
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
		converter: md.NewConverter("", true, nil),
		log:       log,
	}
}

// Collect issues every configured query in order and returns the records that
// parsed cleanly. A failing query is logged and contributes zero records; it
// never aborts the remaining queries. Collect itself only errors when the
// context is cancelled while waiting on the rate limiter.
func (c *Collector) Collect(ctx context.Context) ([]*Article, error) {
	articles := make([]*Article, 0, len(c.queries))

	c.log.Infof("Collecting %d queries...", len(c.queries))
	for i, query := range c.queries {
		if err := c.limiter.Wait(ctx); err != nil {
			return articles, fmt.Errorf("waiting before query %d: %w", i+1, err)
		}

		c.log.Infof("[%d/%d] Searching: %s", i+1, len(c.queries), query)
		article, err := c.collectOne(ctx, query)
		if err != nil {
			if errors.Is(err, ErrMissingTitle) || errors.Is(err, ErrMissingURL) {
				// The model answered but had nothing usable. Not a malfunction.
				c.log.Debugf("No article for %q: %v", query, err)
			} else {
				c.log.Warnf("✗ Query failed %q: %v", query, err)
			}
			continue
		}

		c.log.Infof("✓ Found: %s (%s)", article.Title, article.Source)
		articles = append(articles, article)
	}

	return articles, nil
}

func (c *Collector) collectOne(ctx context.Context, query string) (*Article, error) {
	text, err := c.client.Prompt(ctx, buildSearchPrompt(query))
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}

	article, err := DecodeArticle(text)
	if err != nil {
		return nil, err
	}

	article.Description = c.sanitizeDescription(article.Description)
	return article, nil
}

// sanitizeDescription converts HTML fragments the model occasionally returns
// into markdown before the description reaches the archive or the store
func (c *Collector) sanitizeDescription(description string) string {
	if !strings.Contains(description, "<") {
		return description
	}
	markdown, err := c.converter.ConvertString(description)
	if err != nil {
		return description
	}
	return strings.TrimSpace(markdown)
}

func buildSearchPrompt(query string) string {
	return strings.ReplaceAll(strings.TrimSpace(searchPromptTemplate), "{{.Query}}", query)
}
