package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreatePagePropertyEnvelope(t *testing.T) {
	var captured createPageRequest
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		if r.URL.Path != "/v1/pages" {
			t.Errorf("path = %q, want /v1/pages", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"object": "page"}`))
	}))
	defer server.Close()

	client := NewNotionClient("secret-token")
	client.baseURL = server.URL

	article := &Article{
		Title:       "Cyber firm raises $50M",
		Description: "A funding round.",
		URL:         "https://example.com/a",
		Source:      "TechNews",
		Date:        "2025-06-01",
	}
	if err := client.CreatePage(context.Background(), "db-123", article); err != nil {
		t.Fatalf("CreatePage() error = %v", err)
	}

	if headers.Get("Authorization") != "Bearer secret-token" {
		t.Errorf("Authorization header = %q", headers.Get("Authorization"))
	}
	if headers.Get("Notion-Version") != notionVersion {
		t.Errorf("Notion-Version header = %q", headers.Get("Notion-Version"))
	}

	if captured.Parent.DatabaseID != "db-123" {
		t.Errorf("parent database_id = %q", captured.Parent.DatabaseID)
	}
	props := captured.Properties
	if len(props.Name.Title) != 1 || props.Name.Title[0].Text.Content != article.Title {
		t.Errorf("Name property = %+v", props.Name)
	}
	if len(props.Description.RichText) != 1 || props.Description.RichText[0].Text.Content != article.Description {
		t.Errorf("Description property = %+v", props.Description)
	}
	if props.URL.URL != article.URL {
		t.Errorf("URL property = %q", props.URL.URL)
	}
	if len(props.Source.RichText) != 1 || props.Source.RichText[0].Text.Content != article.Source {
		t.Errorf("Source property = %+v", props.Source)
	}
	if props.Date == nil || props.Date.Date.Start != article.Date {
		t.Errorf("Date property = %+v", props.Date)
	}
}

func TestCreatePageOmitsEmptyDate(t *testing.T) {
	var rawBody map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope struct {
			Properties map[string]json.RawMessage `json:"properties"`
		}
		json.NewDecoder(r.Body).Decode(&envelope)
		rawBody = envelope.Properties
		w.Write([]byte(`{"object": "page"}`))
	}))
	defer server.Close()

	client := NewNotionClient("secret-token")
	client.baseURL = server.URL

	article := &Article{Title: "No date", URL: "https://example.com/n"}
	if err := client.CreatePage(context.Background(), "db-123", article); err != nil {
		t.Fatalf("CreatePage() error = %v", err)
	}

	if _, ok := rawBody["Date"]; ok {
		t.Error("Date property should be omitted when the article has no date")
	}
}

func TestCreatePageErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"object": "error", "message": "validation failed"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewNotionClient("secret-token")
	client.baseURL = server.URL

	err := client.CreatePage(context.Background(), "db-123", &Article{Title: "t", URL: "https://example.com"})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "status 400") || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("error should carry status and body: %v", err)
	}
}

func TestPublishContinuesPastFailures(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var envelope struct {
			Properties struct {
				Name titleProperty `json:"Name"`
			} `json:"properties"`
		}
		json.NewDecoder(r.Body).Decode(&envelope)
		if strings.HasPrefix(envelope.Properties.Name.Title[0].Text.Content, "fail") {
			http.Error(w, `{"message": "boom"}`, http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"object": "page"}`))
	}))
	defer server.Close()

	client := NewNotionClient("secret-token")
	client.baseURL = server.URL
	publisher := NewPublisher(client, "db-123", testLogger())

	articles := []*Article{
		{Title: "ok one", URL: "https://example.com/1"},
		{Title: "fail two", URL: "https://example.com/2"},
		{Title: "ok three", URL: "https://example.com/3"},
		{Title: "fail four", URL: "https://example.com/4"},
	}

	results := publisher.Publish(context.Background(), articles)

	if len(results) != len(articles) {
		t.Fatalf("got %d results, want %d", len(results), len(articles))
	}
	if requests != len(articles) {
		t.Errorf("server saw %d requests, want %d", requests, len(articles))
	}

	succeeded := 0
	for i, result := range results {
		if result.Article != articles[i] {
			t.Errorf("result %d out of order", i)
		}
		if result.Success() {
			succeeded++
		}
	}
	if succeeded != 2 {
		t.Errorf("succeeded = %d, want 2", succeeded)
	}
	if results[1].Err == nil || results[3].Err == nil {
		t.Error("failing articles should carry their errors")
	}
}

func TestPublishEmptyInput(t *testing.T) {
	publisher := NewPublisher(NewNotionClient("secret-token"), "db-123", testLogger())

	results := publisher.Publish(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
