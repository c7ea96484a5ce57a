package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	indexFilename = "README.md"
	indexHeader   = "# News Archive\n\nDaily snapshots of Israeli tech news, one document per collection run.\n\n"
	entryPrefix   = "- ["
)

// ArchiveWriter renders collected articles into dated markdown documents and
// maintains the cumulative index.
type ArchiveWriter struct {
	root string
	log  *logrus.Logger
}

// NewArchiveWriter creates a writer rooted at the archive directory
func NewArchiveWriter(root string, log *logrus.Logger) *ArchiveWriter {
	return &ArchiveWriter{root: root, log: log}
}

// DocumentPath returns the archive location for a run date
func (w *ArchiveWriter) DocumentPath(date time.Time) string {
	return filepath.Join(w.root, date.Format("2006"), date.Format("01"), date.Format("2006-01-02")+".md")
}

// Render produces the archive document for one run. Articles keep collector
// order; their position is the only ordering key.
func (w *ArchiveWriter) Render(date time.Time, digest string, articles []*Article) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Israeli Tech News - %s\n\n", date.Format("January 2, 2006")))
	if digest != "" {
		sb.WriteString(digest + "\n\n")
	}

	for i, article := range articles {
		sb.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, article.Title))
		sb.WriteString(fmt.Sprintf("**Source:** %s  \n", article.Source))
		sb.WriteString(fmt.Sprintf("**Date:** %s\n\n", article.Date))
		sb.WriteString(fmt.Sprintf("[Read article](%s)\n\n", article.URL))
		if article.Description != "" {
			sb.WriteString(article.Description + "\n\n")
		}
		sb.WriteString("---\n\n")
	}

	return sb.String()
}

// Write renders and stores the archive document, creating the year/month
// directories as needed. An existing document at the same path is overwritten.
func (w *ArchiveWriter) Write(date time.Time, digest string, articles []*Article) (string, error) {
	path := w.DocumentPath(date)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating archive directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(w.Render(date, digest, articles)), 0644); err != nil {
		return "", fmt.Errorf("writing archive document: %w", err)
	}

	return path, nil
}

// indexEntry is the full line recorded in the index for one run
func (w *ArchiveWriter) indexEntry(date time.Time, count int) string {
	link := fmt.Sprintf("%s/%s/%s.md", date.Format("2006"), date.Format("01"), date.Format("2006-01-02"))
	return fmt.Sprintf("%s%s](%s) (%d articles)", entryPrefix, date.Format("2006-01-02"), link, count)
}

// UpdateIndex records a run in the cumulative index document. The new entry
// goes above all existing entries but below any header prose. Inserting an
// identical line twice is a no-op; a same-date run with a different count is
// recorded as a second line.
func (w *ArchiveWriter) UpdateIndex(date time.Time, count int) error {
	indexPath := filepath.Join(w.root, indexFilename)

	content := indexHeader
	data, err := os.ReadFile(indexPath)
	if err == nil {
		content = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading index: %w", err)
	}

	entry := w.indexEntry(date, count)

	lines := strings.Split(content, "\n")
	insertAt := -1
	for i, line := range lines {
		if line == entry {
			w.log.Debugf("Index already contains entry: %s", entry)
			return nil
		}
		if insertAt == -1 && strings.HasPrefix(line, entryPrefix) {
			insertAt = i
		}
	}

	if insertAt == -1 {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += entry + "\n"
	} else {
		lines = append(lines[:insertAt], append([]string{entry}, lines[insertAt:]...)...)
		content = strings.Join(lines, "\n")
	}

	if err := os.MkdirAll(w.root, 0755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}
	if err := os.WriteFile(indexPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	return nil
}
