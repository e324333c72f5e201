package dto

import "time"

// Document is the wire form of a stored source document.
type Document struct {
	ID         string            `json:"id"`
	SourceType string            `json:"source_type"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// DocumentPage is one page of documents.
type DocumentPage struct {
	Items         []Document `json:"items"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

// Insight is the wire form of a derived artifact.
type Insight struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	SourceDocs []string          `json:"source_docs"`
	Metadata   map[string]string `json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

// InsightPage is one page of insights.
type InsightPage struct {
	Items         []Insight `json:"items"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}
