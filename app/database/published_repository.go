package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// publishedArticleRepository handles database operations for rewritten outputs
type publishedArticleRepository struct {
	db *DB
}

// NewPublishedArticleRepository creates a new published article repository
func NewPublishedArticleRepository(db *DB) PublishedArticleRepository {
	return &publishedArticleRepository{db: db}
}

// InsertPublished stores one rewritten output linked to its raw article and template
func (r *publishedArticleRepository) InsertPublished(article NewPublishedArticle) error {
	_, err := r.db.Exec(`
		INSERT INTO published_articles (raw_article_id, template_id, title, summary, content, keywords, target_platforms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, article.RawArticleID, article.TemplateID, article.Title, article.Summary,
		article.Content, pq.Array(article.Keywords), pq.Array(article.TargetPlatforms))
	if err != nil {
		return fmt.Errorf("failed to insert published article: %w", err)
	}

	return nil
}

// GetRecentPublished returns the most recent rewritten outputs
func (r *publishedArticleRepository) GetRecentPublished(limit int) ([]PublishedArticle, error) {
	rows, err := r.db.Query(`
		SELECT id, raw_article_id, template_id, title, COALESCE(summary, ''),
		       content, COALESCE(keywords, '{}'), COALESCE(target_platforms, '{}'), created_at
		FROM published_articles
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get published articles: %w", err)
	}
	defer rows.Close()

	var articles []PublishedArticle
	for rows.Next() {
		var a PublishedArticle
		err := rows.Scan(&a.ID, &a.RawArticleID, &a.TemplateID, &a.Title, &a.Summary,
			&a.Content, pq.Array(&a.Keywords), pq.Array(&a.TargetPlatforms), &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan published article row: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating published article rows: %w", err)
	}

	return articles, nil
}

// GetTodayStats aggregates today's generation output
func (r *publishedArticleRepository) GetTodayStats() (PublishedStats, error) {
	var stats PublishedStats
	var avgQuality sql.NullFloat64
	err := r.db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT p.raw_article_id), AVG(a.quality_score)
		FROM published_articles p
		JOIN raw_articles a ON a.id = p.raw_article_id
		WHERE p.created_at >= date_trunc('day', NOW())
	`).Scan(&stats.TotalArticles, &stats.UniqueSources, &avgQuality)
	if err != nil {
		return PublishedStats{}, fmt.Errorf("failed to get today stats: %w", err)
	}

	if avgQuality.Valid {
		stats.AvgQuality = avgQuality.Float64
	}

	return stats, nil
}
