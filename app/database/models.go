package database

import (
	"time"
)

// Raw article lifecycle statuses. Transitions are one-way:
// pending -> approved|rejected (scoring), approved -> rewritten (rewriting).
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusRewritten = "rewritten"
)

// Source represents a configured content origin (RSS feed)
type Source struct {
	ID                 string
	Name               string
	SourceType         string
	URL                string
	Priority           int
	IsActive           bool
	CheckIntervalHours int
	LastCheckedAt      *time.Time
	LastFoundAt        *time.Time
	CreatedAt          time.Time
}

// RawArticle represents one ingested feed item
type RawArticle struct {
	ID                   string
	SourceID             string
	Title                string
	Content              string
	OriginalURL          string
	Author               string
	PublishedAt          *time.Time
	QualityScore         *float64
	ViralPotential       *float64
	EngagementPrediction *float64
	Status               string
	CreatedAt            time.Time
}

// RewriteTemplate holds the persisted prompt metadata for one rewrite style
type RewriteTemplate struct {
	ID           string
	Name         string
	Style        string
	SystemPrompt string
	UsageCount   int
	CreatedAt    time.Time
}

// PublishedArticle represents one style-specific rewritten output
type PublishedArticle struct {
	ID              string
	RawArticleID    string
	TemplateID      string
	Title           string
	Summary         string
	Content         string
	Keywords        []string
	TargetPlatforms []string
	CreatedAt       time.Time
}
