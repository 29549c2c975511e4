package database

import (
	"time"
)

// NewArticle carries the fields required to insert a freshly scraped item
type NewArticle struct {
	SourceID    string
	Title       string
	Content     string
	OriginalURL string
	Author      string
	PublishedAt time.Time
}

// ArticleScores carries the quality metrics produced by the scorer
type ArticleScores struct {
	QualityScore         float64
	ViralPotential       float64
	EngagementPrediction float64
}

// NewPublishedArticle carries the fields required to persist a rewrite output
type NewPublishedArticle struct {
	RawArticleID    string
	TemplateID      string
	Title           string
	Summary         string
	Content         string
	Keywords        []string
	TargetPlatforms []string
}

// SourceStats aggregates ingestion counts for a single source
type SourceStats struct {
	TotalArticles int
	Last24Hours   int
	Last7Days     int
}

// PublishedStats aggregates today's generation output
type PublishedStats struct {
	TotalArticles int
	UniqueSources int
	AvgQuality    float64
}

type SourceRepository interface {
	GetActiveSources(sourceType string) ([]Source, error)
	UpsertSource(name, url, sourceType string, active bool, checkIntervalHours int) error
	MarkChecked(sourceID string) error
	MarkFound(sourceID string) error
	GetSourceStats(sourceID string) (SourceStats, error)
}

type ArticleRepository interface {
	ExistsByURL(url string) (bool, error)
	InsertArticle(article NewArticle) error
	GetPendingArticles(limit int) ([]RawArticle, error)
	GetArticlesByStatus(status string, limit int) ([]RawArticle, error)
	GetTopArticles(limit int, window time.Duration) ([]RawArticle, error)
	UpdateScores(articleID string, scores ArticleScores, status string) error
	UpdateStatus(articleID string, status string) error
	MarkRewritten(articleID string) error
}

type TemplateRepository interface {
	GetTemplateByStyle(style string) (*RewriteTemplate, error)
	IncrementUsage(templateID string) error
}

type PublishedArticleRepository interface {
	InsertPublished(article NewPublishedArticle) error
	GetRecentPublished(limit int) ([]PublishedArticle, error)
	GetTodayStats() (PublishedStats, error)
}
