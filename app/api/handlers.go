package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contenthub/contenthub/app/ai"
	"github.com/contenthub/contenthub/app/database"
	"github.com/contenthub/contenthub/app/feed"
	"github.com/contenthub/contenthub/app/pipeline"
)

func NewHandler(sourceRepo database.SourceRepository, articleRepo database.ArticleRepository,
	publishedRepo database.PublishedArticleRepository, scraper *feed.Scraper,
	generator *pipeline.Generator, version string) *Handler {
	return &Handler{
		sourceRepo:    sourceRepo,
		articleRepo:   articleRepo,
		publishedRepo: publishedRepo,
		scraper:       scraper,
		generator:     generator,
		version:       version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	today, err := h.generator.TodayStats()
	if err != nil {
		slog.Error("Database error", "operation", "today_stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	sources, err := h.sourceRepo.GetActiveSources("rss")
	if err != nil {
		slog.Error("Database error", "operation", "get_sources", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	sourceStats := make([]gin.H, 0, len(sources))
	for _, source := range sources {
		stats, err := h.scraper.SourceStats(source.ID)
		if err != nil {
			slog.Warn("Failed to load source stats", "source", source.Name, "error", err)
			continue
		}
		sourceStats = append(sourceStats, gin.H{
			"name":            source.Name,
			"url":             source.URL,
			"last_checked_at": source.LastCheckedAt,
			"last_found_at":   source.LastFoundAt,
			"total_articles":  stats.TotalArticles,
			"last_24h":        stats.Last24Hours,
			"last_7d":         stats.Last7Days,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"today": gin.H{
			"published_articles": today.TotalArticles,
			"unique_sources":     today.UniqueSources,
			"avg_quality":        today.AvgQuality,
		},
		"sources": sourceStats,
	})
}

func (h *Handler) ListArticles(c *gin.Context) {
	status := c.DefaultQuery("status", database.StatusPending)
	limit := parseLimit(c.DefaultQuery("limit", "50"))

	articles, err := h.articleRepo.GetArticlesByStatus(status, limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "status", status, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}

func (h *Handler) ListPublished(c *gin.Context) {
	limit := parseLimit(c.DefaultQuery("limit", "50"))

	articles, err := h.publishedRepo.GetRecentPublished(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_published", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}

// TriggerGenerate starts a manual generation run in the background. The run
// itself is strictly sequential; only the HTTP response is detached from it.
func (h *Handler) TriggerGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An empty or malformed body means "use defaults"
		req = GenerateRequest{}
	}

	go func() {
		result := h.generator.ManualGenerate(context.Background(), req.ArticleCount, ai.ParseStyles(req.Styles))
		slog.Info("Manual generation finished", "success", result.Success,
			"rewrites", result.RewritesCreated, "duration", result.Duration)
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "generation started"})
}

// TriggerScrape starts a manual scrape of all sources in the background
func (h *Handler) TriggerScrape(c *gin.Context) {
	go func() {
		if _, err := h.scraper.ScrapeAll(context.Background()); err != nil {
			slog.Error("Manual scraping failed", "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "scraping started"})
}

func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > 500 {
		return 50
	}
	return limit
}
