package database

import (
	"database/sql"
	"fmt"
	"time"
)

// articleRepository handles database operations for raw articles
type articleRepository struct {
	db *DB
}

// NewArticleRepository creates a new raw article repository
func NewArticleRepository(db *DB) ArticleRepository {
	return &articleRepository{db: db}
}

// ExistsByURL checks whether an article with the given origin URL is already stored
func (r *articleRepository) ExistsByURL(url string) (bool, error) {
	var id string
	err := r.db.QueryRow(`SELECT id FROM raw_articles WHERE original_url = $1 LIMIT 1`, url).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}

	return true, nil
}

// InsertArticle stores a freshly scraped article with status pending.
// The unique constraint on original_url guards against concurrent duplicates.
func (r *articleRepository) InsertArticle(article NewArticle) error {
	_, err := r.db.Exec(`
		INSERT INTO raw_articles (source_id, title, content, original_url, author, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (original_url) DO NOTHING
	`, article.SourceID, article.Title, article.Content, article.OriginalURL,
		article.Author, article.PublishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

// GetPendingArticles returns up to limit unscored articles, newest first
func (r *articleRepository) GetPendingArticles(limit int) ([]RawArticle, error) {
	rows, err := r.db.Query(`
		SELECT id, source_id, title, COALESCE(content, ''), original_url,
		       COALESCE(author, ''), published_at, quality_score, viral_potential,
		       engagement_prediction, status, created_at
		FROM raw_articles
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// GetArticlesByStatus returns up to limit articles with the given status, newest first
func (r *articleRepository) GetArticlesByStatus(status string, limit int) ([]RawArticle, error) {
	rows, err := r.db.Query(`
		SELECT id, source_id, title, COALESCE(content, ''), original_url,
		       COALESCE(author, ''), published_at, quality_score, viral_potential,
		       engagement_prediction, status, created_at
		FROM raw_articles
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles by status: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// GetTopArticles returns approved articles created within the trailing window,
// ordered by quality score with viral potential as tie-breaker
func (r *articleRepository) GetTopArticles(limit int, window time.Duration) ([]RawArticle, error) {
	rows, err := r.db.Query(`
		SELECT id, source_id, title, COALESCE(content, ''), original_url,
		       COALESCE(author, ''), published_at, quality_score, viral_potential,
		       engagement_prediction, status, created_at
		FROM raw_articles
		WHERE status = $1
		  AND created_at > NOW() - $2::interval
		ORDER BY quality_score DESC, viral_potential DESC
		LIMIT $3
	`, StatusApproved, fmt.Sprintf("%d seconds", int(window.Seconds())), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// UpdateScores persists the scorer's quality metrics and the resulting status
func (r *articleRepository) UpdateScores(articleID string, scores ArticleScores, status string) error {
	_, err := r.db.Exec(`
		UPDATE raw_articles
		SET quality_score = $1, viral_potential = $2, engagement_prediction = $3, status = $4
		WHERE id = $5
	`, scores.QualityScore, scores.ViralPotential, scores.EngagementPrediction, status, articleID)
	if err != nil {
		return fmt.Errorf("failed to update article scores: %w", err)
	}

	return nil
}

// UpdateStatus sets the article's lifecycle status
func (r *articleRepository) UpdateStatus(articleID string, status string) error {
	_, err := r.db.Exec(`UPDATE raw_articles SET status = $1 WHERE id = $2`, status, articleID)
	if err != nil {
		return fmt.Errorf("failed to update article status: %w", err)
	}

	return nil
}

// MarkRewritten transitions an approved article to rewritten. The status guard
// makes the transition fire once and keeps rewritten articles from regressing.
func (r *articleRepository) MarkRewritten(articleID string) error {
	_, err := r.db.Exec(`
		UPDATE raw_articles SET status = $1 WHERE id = $2 AND status = $3
	`, StatusRewritten, articleID, StatusApproved)
	if err != nil {
		return fmt.Errorf("failed to mark article rewritten: %w", err)
	}

	return nil
}

func scanArticles(rows *sql.Rows) ([]RawArticle, error) {
	var articles []RawArticle
	for rows.Next() {
		var a RawArticle
		err := rows.Scan(&a.ID, &a.SourceID, &a.Title, &a.Content, &a.OriginalURL,
			&a.Author, &a.PublishedAt, &a.QualityScore, &a.ViralPotential,
			&a.EngagementPrediction, &a.Status, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}
