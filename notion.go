package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	notionBaseURL = "https://api.notion.com"
	notionVersion = "2022-06-28"
)

// NotionClient creates rows in a Notion database
type NotionClient struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewNotionClient creates a client authenticating with the given token
func NewNotionClient(token string) *NotionClient {
	return &NotionClient{
		token:   token,
		baseURL: notionBaseURL,
		client:  &http.Client{},
	}
}

// Property value envelopes per the Notion pages API schema

type notionText struct {
	Content string `json:"content"`
}

type notionRichText struct {
	Text notionText `json:"text"`
}

type titleProperty struct {
	Title []notionRichText `json:"title"`
}

type richTextProperty struct {
	RichText []notionRichText `json:"rich_text"`
}

type urlProperty struct {
	URL string `json:"url"`
}

type notionDate struct {
	Start string `json:"start"`
}

type dateProperty struct {
	Date notionDate `json:"date"`
}

type notionProperties struct {
	Name        titleProperty    `json:"Name"`
	Description richTextProperty `json:"Description"`
	URL         urlProperty      `json:"URL"`
	Source      richTextProperty `json:"Source"`
	Date        *dateProperty    `json:"Date,omitempty"`
}

type notionParent struct {
	DatabaseID string `json:"database_id"`
}

type createPageRequest struct {
	Parent     notionParent     `json:"parent"`
	Properties notionProperties `json:"properties"`
}

// CreatePage creates one database row carrying the article's five fields
func (c *NotionClient) CreatePage(ctx context.Context, databaseID string, article *Article) error {
	reqBody := createPageRequest{
		Parent: notionParent{DatabaseID: databaseID},
		Properties: notionProperties{
			Name:        titleProperty{Title: []notionRichText{{Text: notionText{Content: article.Title}}}},
			Description: richTextProperty{RichText: []notionRichText{{Text: notionText{Content: article.Description}}}},
			URL:         urlProperty{URL: article.URL},
			Source:      richTextProperty{RichText: []notionRichText{{Text: notionText{Content: article.Source}}}},
		},
	}
	if article.Date != "" {
		reqBody.Properties.Date = &dateProperty{Date: notionDate{Start: article.Date}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Notion-Version", notionVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("notion api error (status %d): %s", res.StatusCode, string(body))
	}

	return nil
}

// Publisher mirrors collected articles into the Notion database
type Publisher struct {
	client     *NotionClient
	databaseID string
	log        *logrus.Logger
}

// NewPublisher creates a publisher targeting one database
func NewPublisher(client *NotionClient, databaseID string, log *logrus.Logger) *Publisher {
	return &Publisher{client: client, databaseID: databaseID, log: log}
}

// Publish creates one row per article, in input order, continuing past
// individual failures. It returns exactly one outcome per input article; no
// retries, no rollback.
func (p *Publisher) Publish(ctx context.Context, articles []*Article) []PublishResult {
	results := make([]PublishResult, 0, len(articles))

	for i, article := range articles {
		p.log.Infof("[%d/%d] Publishing: %s", i+1, len(articles), article.Title)
		err := p.client.CreatePage(ctx, p.databaseID, article)
		if err != nil {
			p.log.Warnf("✗ Publish failed %s: %v", article.URL, err)
		} else {
			p.log.Infof("✓ Published: %s", article.Title)
		}
		results = append(results, PublishResult{Article: article, Err: err})
	}

	return results
}
