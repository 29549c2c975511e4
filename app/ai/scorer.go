package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/contenthub/contenthub/app/database"
)

// ScoreResult is the completion service's multi-dimensional quality verdict
type ScoreResult struct {
	OverallScore    float64 `json:"overall_score"`
	Originality     float64 `json:"originality"`
	Utility         float64 `json:"utility"`
	Timeliness      float64 `json:"timeliness"`
	ViralPotential  float64 `json:"viral_potential"`
	AudienceBreadth float64 `json:"audience_breadth"`
	ShouldRewrite   bool    `json:"should_rewrite"`
	Reason          string  `json:"reason"`
}

// ScoreSummary aggregates one scoring batch. Scored counts attempts, not
// successes.
type ScoreSummary struct {
	Scored   int
	Approved int
	Rejected int
}

// Scorer evaluates raw articles against the quality rubric
type Scorer struct {
	client      CompletionClient
	articleRepo database.ArticleRepository
	itemDelay   time.Duration
}

// NewScorer creates a scorer with the default 500ms inter-item delay
func NewScorer(client CompletionClient, articleRepo database.ArticleRepository) *Scorer {
	return &Scorer{
		client:      client,
		articleRepo: articleRepo,
		itemDelay:   500 * time.Millisecond,
	}
}

// ScoreArticle evaluates a single article and persists the result. On any
// failure the article is forced to rejected (best-effort) so it does not
// stay pending forever, and the error is returned to the caller.
func (s *Scorer) ScoreArticle(ctx context.Context, articleID, title, content string) (*ScoreResult, error) {
	result, err := s.scoreArticle(ctx, articleID, title, content)
	if err != nil {
		slog.Error("Scoring failed", "article_id", articleID, "error", err)
		if updateErr := s.articleRepo.UpdateStatus(articleID, database.StatusRejected); updateErr != nil {
			slog.Warn("Failed to mark article rejected", "article_id", articleID, "error", updateErr)
		}
		return nil, err
	}

	return result, nil
}

func (s *Scorer) scoreArticle(ctx context.Context, articleID, title, content string) (*ScoreResult, error) {
	prompt := fmt.Sprintf(`你是一个内容质量评估专家。请给这篇文章打分（0-1）：

标题：%s
内容：%s

评分维度：
1. 原创性 (0-1) - 内容是否独特、有新意
2. 实用性 (0-1) - 对读者是否有实际价值
3. 时效性 (0-1) - 是否是当前热点或具有长期价值
4. 爆款潜力 (0-1) - 标题是否吸引、是否有争议性、能否引发讨论
5. 受众广度 (0-1) - 大众关心还是小众领域

只返回 JSON，不要其他内容：
{
  "overall_score": 0.85,
  "originality": 0.7,
  "utility": 0.9,
  "timeliness": 0.8,
  "viral_potential": 0.75,
  "audience_breadth": 0.85,
  "should_rewrite": true,
  "reason": "高实用性的技术文章，适合改写"
}`, title, truncate(content, 2000))

	slog.Debug("Scoring article", "article_id", articleID, "title", truncate(title, 50))

	response, err := s.client.Complete(ctx, CompletionRequest{
		Model:       s.client.FastModel(),
		System:      "你是一个专业的内容质量评估专家，善于识别有价值的文章。",
		Prompt:      prompt,
		Temperature: 0.3,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("score completion failed: %w", err)
	}

	var result ScoreResult
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to parse score response: %w", err)
	}

	if result.OverallScore < 0 || result.OverallScore > 1 {
		return nil, fmt.Errorf("invalid score returned: %f", result.OverallScore)
	}

	status := database.StatusRejected
	if result.ShouldRewrite {
		status = database.StatusApproved
	}

	scores := database.ArticleScores{
		QualityScore:         result.OverallScore,
		ViralPotential:       result.ViralPotential,
		EngagementPrediction: result.AudienceBreadth,
	}
	if err := s.articleRepo.UpdateScores(articleID, scores, status); err != nil {
		return nil, fmt.Errorf("failed to persist scores: %w", err)
	}

	slog.Info("Article scored", "article_id", articleID, "score", result.OverallScore,
		"status", status, "reason", result.Reason)

	return &result, nil
}

// ScorePendingArticles scores up to limit pending articles, newest first,
// strictly sequentially with a fixed delay between items. A single failure
// never stops the batch.
func (s *Scorer) ScorePendingArticles(ctx context.Context, limit int) (ScoreSummary, error) {
	articles, err := s.articleRepo.GetPendingArticles(limit)
	if err != nil {
		return ScoreSummary{}, fmt.Errorf("failed to load pending articles: %w", err)
	}

	slog.Info("Scoring pending articles", "count", len(articles))

	summary := ScoreSummary{Scored: len(articles)}
	for _, article := range articles {
		result, err := s.ScoreArticle(ctx, article.ID, article.Title, article.Content)
		if err != nil {
			summary.Rejected++
		} else if result.ShouldRewrite {
			summary.Approved++
		} else {
			summary.Rejected++
		}

		// Separate from the rate limiter: keeps bursts bounded even when
		// the limiter interval is small.
		if err := sleep(ctx, s.itemDelay); err != nil {
			return summary, err
		}
	}

	slog.Info("Scoring complete", "scored", summary.Scored,
		"approved", summary.Approved, "rejected", summary.Rejected)

	return summary, nil
}

// GetTopArticles returns the best approved articles from the trailing window
func (s *Scorer) GetTopArticles(limit, hours int) ([]database.RawArticle, error) {
	return s.articleRepo.GetTopArticles(limit, time.Duration(hours)*time.Hour)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
