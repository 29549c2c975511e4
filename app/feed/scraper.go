package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"

	"github.com/contenthub/contenthub/app/database"
)

// Feed entries whose inline content is shorter than this are candidates for
// full-page extraction.
const minRichContentLen = 300

// ScrapeResult is the outcome of scraping one source
type ScrapeResult struct {
	SourceID string
	Success  bool
	Count    int
	Error    string
}

// Scraper fetches configured RSS sources and persists net-new articles
type Scraper struct {
	httpClient  *http.Client
	parser      *gofeed.Parser
	sourceRepo  database.SourceRepository
	articleRepo database.ArticleRepository
	extractor   *ContentExtractor
	userAgent   string
	sourcePause time.Duration
}

// NewScraper creates a scraper. The extractor is optional; when nil, feed
// entries keep whatever content the feed itself carries.
func NewScraper(httpClient *http.Client, sourceRepo database.SourceRepository,
	articleRepo database.ArticleRepository, extractor *ContentExtractor, userAgent string) *Scraper {
	return &Scraper{
		httpClient:  httpClient,
		parser:      gofeed.NewParser(),
		sourceRepo:  sourceRepo,
		articleRepo: articleRepo,
		extractor:   extractor,
		userAgent:   userAgent,
		sourcePause: time.Second,
	}
}

// ScrapeSource fetches one source's feed and saves its net-new entries.
// Failures are caught and reported in the result, never propagated; the
// source's last_checked_at is updated on every attempt.
func (s *Scraper) ScrapeSource(ctx context.Context, source database.Source) ScrapeResult {
	slog.Info("Scraping source", "source", source.Name, "url", source.URL)

	count, err := s.scrapeSource(ctx, source)

	if markErr := s.sourceRepo.MarkChecked(source.ID); markErr != nil {
		slog.Warn("Failed to update source check time", "source", source.Name, "error", markErr)
	}

	if err != nil {
		slog.Error("Scraping failed", "source", source.Name, "error", err)
		return ScrapeResult{SourceID: source.ID, Success: false, Count: 0, Error: err.Error()}
	}

	if count > 0 {
		if markErr := s.sourceRepo.MarkFound(source.ID); markErr != nil {
			slog.Warn("Failed to update source found time", "source", source.Name, "error", markErr)
		}
	}

	slog.Info("Scraping finished", "source", source.Name, "new_articles", count)

	return ScrapeResult{SourceID: source.ID, Success: true, Count: count}
}

func (s *Scraper) scrapeSource(ctx context.Context, source database.Source) (int, error) {
	data, err := s.fetch(ctx, source.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch feed: %w", err)
	}

	parsedFeed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to parse feed: %w", err)
	}

	saved := 0
	for _, item := range parsedFeed.Items {
		if item == nil || item.Link == "" || item.Title == "" {
			continue
		}

		exists, err := s.articleRepo.ExistsByURL(item.Link)
		if err != nil {
			return saved, fmt.Errorf("failed to check for duplicate: %w", err)
		}
		if exists {
			continue
		}

		article := database.NewArticle{
			SourceID:    source.ID,
			Title:       item.Title,
			Content:     extractItemContent(item),
			OriginalURL: item.Link,
			Author:      extractAuthor(item, parsedFeed.Title),
			PublishedAt: extractPublishedAt(item),
		}

		article.Content = s.enrichContent(ctx, article.Content, item.Link)

		if err := s.articleRepo.InsertArticle(article); err != nil {
			slog.Error("Failed to save article", "title", item.Title, "error", err)
			continue
		}
		saved++
	}

	return saved, nil
}

// ScrapeAll scrapes every active RSS source strictly sequentially, with a
// fixed pause between sources to stay polite to remote hosts. A single
// source's failure never aborts the batch.
func (s *Scraper) ScrapeAll(ctx context.Context) ([]ScrapeResult, error) {
	sources, err := s.sourceRepo.GetActiveSources("rss")
	if err != nil {
		return nil, fmt.Errorf("failed to load active sources: %w", err)
	}

	slog.Info("Scraping all sources", "count", len(sources))

	results := make([]ScrapeResult, 0, len(sources))
	for _, source := range sources {
		results = append(results, s.ScrapeSource(ctx, source))

		if err := sleep(ctx, s.sourcePause); err != nil {
			return results, err
		}
	}

	total := 0
	for _, result := range results {
		total += result.Count
	}
	slog.Info("Scraping complete", "sources", len(results), "new_articles", total)

	return results, nil
}

// SourceStats returns ingestion counts for one source
func (s *Scraper) SourceStats(sourceID string) (database.SourceStats, error) {
	return s.sourceRepo.GetSourceStats(sourceID)
}

func (s *Scraper) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// enrichContent fetches the article page and extracts its main content when
// the feed entry only carried a short snippet. Extraction failures keep the
// original feed content.
func (s *Scraper) enrichContent(ctx context.Context, content, link string) string {
	if s.extractor == nil || utf8.RuneCountInString(content) >= minRichContentLen {
		return content
	}

	data, err := s.fetch(ctx, link)
	if err != nil {
		slog.Debug("Content extraction fetch failed", "url", link, "error", err)
		return content
	}

	extracted, err := s.extractor.Run(data)
	if err != nil {
		slog.Debug("Content extraction failed", "url", link, "error", err)
		return content
	}

	return extracted
}

// extractItemContent picks the richest content field the feed entry carries
func extractItemContent(item *gofeed.Item) string {
	if encoded := encodedContent(item); encoded != "" {
		return encoded
	}
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}

func encodedContent(item *gofeed.Item) string {
	ext, ok := item.Extensions["content"]
	if !ok {
		return ""
	}
	for _, encoded := range ext["encoded"] {
		if encoded.Value != "" {
			return encoded.Value
		}
	}
	return ""
}

func extractAuthor(item *gofeed.Item, feedTitle string) string {
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 && item.DublinCoreExt.Creator[0] != "" {
		return item.DublinCoreExt.Creator[0]
	}
	for _, author := range item.Authors {
		if author != nil && author.Name != "" {
			return author.Name
		}
	}
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	return feedTitle
}

func extractPublishedAt(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	return time.Now()
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
