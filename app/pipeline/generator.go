package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contenthub/contenthub/app/ai"
	"github.com/contenthub/contenthub/app/database"
	"github.com/contenthub/contenthub/app/feed"
)

// ArticleScraper is the ingestion stage of a pipeline run
type ArticleScraper interface {
	ScrapeAll(ctx context.Context) ([]feed.ScrapeResult, error)
}

// ArticleScorer is the scoring and selection stage of a pipeline run
type ArticleScorer interface {
	ScorePendingArticles(ctx context.Context, limit int) (ai.ScoreSummary, error)
	GetTopArticles(limit, hours int) ([]database.RawArticle, error)
}

// ArticleRewriter is the rewriting stage of a pipeline run
type ArticleRewriter interface {
	BatchRewrite(ctx context.Context, articles []database.RawArticle, styles []ai.Style) ai.BatchResult
}

// GenerationResult summarizes one pipeline run
type GenerationResult struct {
	Success          bool          `json:"success"`
	ArticlesFetched  int           `json:"articles_fetched"`
	ArticlesScored   int           `json:"articles_scored"`
	ArticlesApproved int           `json:"articles_approved"`
	ArticlesSelected int           `json:"articles_selected"`
	RewritesCreated  int           `json:"rewrites_created"`
	Duration         time.Duration `json:"duration"`
	Error            string        `json:"error,omitempty"`
}

// Generator sequences ingestion, scoring, selection and rewriting into one
// daily content-generation run
type Generator struct {
	scraper       ArticleScraper
	scorer        ArticleScorer
	rewriter      ArticleRewriter
	publishedRepo database.PublishedArticleRepository
	scoreLimit    int
	settleDelay   time.Duration
}

// NewGenerator creates a pipeline generator
func NewGenerator(scraper ArticleScraper, scorer ArticleScorer, rewriter ArticleRewriter,
	publishedRepo database.PublishedArticleRepository, scoreLimit int) *Generator {
	if scoreLimit <= 0 {
		scoreLimit = 100
	}

	return &Generator{
		scraper:       scraper,
		scorer:        scorer,
		rewriter:      rewriter,
		publishedRepo: publishedRepo,
		scoreLimit:    scoreLimit,
		settleDelay:   2 * time.Second,
	}
}

// GenerateDailyContent runs the end-to-end workflow: scrape all sources,
// score pending articles, select the best from the trailing 24 hours and
// rewrite them in every requested style. Any stage error is caught and
// reported in the result together with the counters accumulated so far;
// this method never panics and never returns an error.
func (g *Generator) GenerateDailyContent(ctx context.Context, articleCount int, styles []ai.Style) GenerationResult {
	start := time.Now()

	if articleCount <= 0 {
		articleCount = 10
	}
	if len(styles) == 0 {
		styles = ai.DefaultStyles()
	}

	slog.Info("Daily content generation started", "article_count", articleCount, "styles", len(styles))

	var result GenerationResult
	err := g.run(ctx, articleCount, styles, &result)
	result.Duration = time.Since(start)

	if err != nil {
		slog.Error("Daily content generation failed", "error", err, "duration", result.Duration)
		result.Error = err.Error()
		return result
	}

	result.Success = true
	slog.Info("Daily content generation complete",
		"fetched", result.ArticlesFetched,
		"scored", result.ArticlesScored,
		"approved", result.ArticlesApproved,
		"selected", result.ArticlesSelected,
		"rewrites", result.RewritesCreated,
		"duration", result.Duration)

	return result
}

func (g *Generator) run(ctx context.Context, articleCount int, styles []ai.Style, result *GenerationResult) error {
	slog.Info("Step 1: fetching new articles")
	fetchResults, err := g.scraper.ScrapeAll(ctx)
	if err != nil {
		return fmt.Errorf("scraping failed: %w", err)
	}
	for _, r := range fetchResults {
		result.ArticlesFetched += r.Count
	}

	// Settle delay: lets the store commit fresh inserts before the scoring
	// stage reads them back.
	if err := wait(ctx, g.settleDelay); err != nil {
		return err
	}

	slog.Info("Step 2: scoring pending articles")
	summary, err := g.scorer.ScorePendingArticles(ctx, g.scoreLimit)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}
	result.ArticlesScored = summary.Scored
	result.ArticlesApproved = summary.Approved

	slog.Info("Step 3: selecting top articles", "limit", articleCount)
	topArticles, err := g.scorer.GetTopArticles(articleCount, 24)
	if err != nil {
		return fmt.Errorf("selection failed: %w", err)
	}
	result.ArticlesSelected = len(topArticles)

	if len(topArticles) == 0 {
		slog.Info("No approved articles selected, skipping rewrite step")
		return nil
	}

	slog.Info("Step 4: rewriting selected articles", "selected", len(topArticles))
	batch := g.rewriter.BatchRewrite(ctx, topArticles, styles)
	result.RewritesCreated = batch.Successful

	return nil
}

// ManualGenerate runs the same workflow as a scheduled run, for on-demand
// invocation
func (g *Generator) ManualGenerate(ctx context.Context, articleCount int, styles []ai.Style) GenerationResult {
	slog.Info("Manual generation triggered")
	return g.GenerateDailyContent(ctx, articleCount, styles)
}

// TodayStats aggregates today's generation output
func (g *Generator) TodayStats() (database.PublishedStats, error) {
	return g.publishedRepo.GetTodayStats()
}

func wait(ctx context.Context, d time.Duration) error {
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
