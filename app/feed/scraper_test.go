package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/contenthub/contenthub/app/database"
)

type fakeSourceRepo struct {
	sources []database.Source
	checked map[string]int
	found   map[string]int
}

func newFakeSourceRepo(sources ...database.Source) *fakeSourceRepo {
	return &fakeSourceRepo{
		sources: sources,
		checked: make(map[string]int),
		found:   make(map[string]int),
	}
}

func (f *fakeSourceRepo) GetActiveSources(sourceType string) ([]database.Source, error) {
	return f.sources, nil
}

func (f *fakeSourceRepo) UpsertSource(name, url, sourceType string, active bool, checkIntervalHours int) error {
	return nil
}

func (f *fakeSourceRepo) MarkChecked(sourceID string) error {
	f.checked[sourceID]++
	return nil
}

func (f *fakeSourceRepo) MarkFound(sourceID string) error {
	f.found[sourceID]++
	return nil
}

func (f *fakeSourceRepo) GetSourceStats(sourceID string) (database.SourceStats, error) {
	return database.SourceStats{}, nil
}

type fakeArticleStore struct {
	urls     map[string]bool
	inserted []database.NewArticle
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{urls: make(map[string]bool)}
}

func (f *fakeArticleStore) ExistsByURL(url string) (bool, error) {
	return f.urls[url], nil
}

func (f *fakeArticleStore) InsertArticle(article database.NewArticle) error {
	f.urls[article.OriginalURL] = true
	f.inserted = append(f.inserted, article)
	return nil
}

func (f *fakeArticleStore) GetPendingArticles(limit int) ([]database.RawArticle, error) {
	return nil, nil
}

func (f *fakeArticleStore) GetArticlesByStatus(status string, limit int) ([]database.RawArticle, error) {
	return nil, nil
}

func (f *fakeArticleStore) GetTopArticles(limit int, window time.Duration) ([]database.RawArticle, error) {
	return nil, nil
}

func (f *fakeArticleStore) UpdateScores(articleID string, scores database.ArticleScores, status string) error {
	return nil
}

func (f *fakeArticleStore) UpdateStatus(articleID string, status string) error {
	return nil
}

func (f *fakeArticleStore) MarkRewritten(articleID string) error {
	return nil
}

func rssFeed(items string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
<title>Test Feed</title>
<link>https://example.com</link>
%s
</channel>
</rss>`, items)
}

const twoItems = `<item>
<title>First article</title>
<link>https://example.com/first</link>
<description>First description with enough text to stay above the extraction threshold. This sentence keeps going to make the inline feed body comfortably long so the scraper does not try to fetch the article page. Padding padding padding padding padding padding padding padding padding padding padding padding padding padding padding padding padding.</description>
<dc:creator>Alice</dc:creator>
<pubDate>Mon, 31 Aug 2026 10:00:00 GMT</pubDate>
</item>
<item>
<title>Second article</title>
<link>https://example.com/second</link>
<description>Second description with enough text to stay above the extraction threshold. This sentence keeps going to make the inline feed body comfortably long so the scraper does not try to fetch the article page. Padding padding padding padding padding padding padding padding padding padding padding padding padding padding padding padding padding.</description>
</item>`

func newTestScraper(sourceRepo database.SourceRepository, articleRepo database.ArticleRepository) *Scraper {
	scraper := NewScraper(&http.Client{Timeout: time.Second}, sourceRepo, articleRepo, nil, "contenthub-test/1.0")
	scraper.sourcePause = 0
	return scraper
}

func TestScrapeSource_SavesNewArticles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(twoItems))
	}))
	defer server.Close()

	sourceRepo := newFakeSourceRepo()
	articleRepo := newFakeArticleStore()
	scraper := newTestScraper(sourceRepo, articleRepo)

	source := database.Source{ID: "source-1", Name: "Test Feed", URL: server.URL}
	result := scraper.ScrapeSource(context.Background(), source)

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Count != 2 {
		t.Errorf("expected 2 new articles, got %d", result.Count)
	}
	if len(articleRepo.inserted) != 2 {
		t.Fatalf("expected 2 inserts, got %d", len(articleRepo.inserted))
	}

	first := articleRepo.inserted[0]
	if first.Title != "First article" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.OriginalURL != "https://example.com/first" {
		t.Errorf("unexpected url %q", first.OriginalURL)
	}
	if first.Author != "Alice" {
		t.Errorf("dc:creator should win, got author %q", first.Author)
	}
	if first.SourceID != "source-1" {
		t.Errorf("unexpected source id %q", first.SourceID)
	}
	if first.PublishedAt.IsZero() {
		t.Error("published time should be set")
	}

	// No author on the second item falls back to the feed title
	if articleRepo.inserted[1].Author != "Test Feed" {
		t.Errorf("expected feed title fallback, got author %q", articleRepo.inserted[1].Author)
	}

	if sourceRepo.checked["source-1"] != 1 {
		t.Errorf("expected 1 check mark, got %d", sourceRepo.checked["source-1"])
	}
	if sourceRepo.found["source-1"] != 1 {
		t.Errorf("expected 1 found mark, got %d", sourceRepo.found["source-1"])
	}
}

func TestScrapeSource_DeduplicatesByURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(twoItems))
	}))
	defer server.Close()

	sourceRepo := newFakeSourceRepo()
	articleRepo := newFakeArticleStore()
	scraper := newTestScraper(sourceRepo, articleRepo)

	source := database.Source{ID: "source-1", Name: "Test Feed", URL: server.URL}

	first := scraper.ScrapeSource(context.Background(), source)
	second := scraper.ScrapeSource(context.Background(), source)

	if first.Count != 2 {
		t.Errorf("expected 2 new articles on first pass, got %d", first.Count)
	}
	if !second.Success || second.Count != 0 {
		t.Errorf("second pass should succeed with 0 new articles, got %+v", second)
	}
	if len(articleRepo.inserted) != 2 {
		t.Errorf("expected 2 total inserts, got %d", len(articleRepo.inserted))
	}

	if sourceRepo.checked["source-1"] != 2 {
		t.Errorf("every attempt updates the check time, got %d", sourceRepo.checked["source-1"])
	}
	if sourceRepo.found["source-1"] != 1 {
		t.Errorf("found time only updates when articles were saved, got %d", sourceRepo.found["source-1"])
	}
}

func TestScrapeSource_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sourceRepo := newFakeSourceRepo()
	articleRepo := newFakeArticleStore()
	scraper := newTestScraper(sourceRepo, articleRepo)

	source := database.Source{ID: "source-1", Name: "Broken Feed", URL: server.URL}
	result := scraper.ScrapeSource(context.Background(), source)

	if result.Success {
		t.Error("expected failure")
	}
	if result.Count != 0 {
		t.Errorf("expected count 0, got %d", result.Count)
	}
	if result.Error == "" {
		t.Error("expected error message in result")
	}

	if sourceRepo.checked["source-1"] != 1 {
		t.Errorf("check time must update even on failure, got %d", sourceRepo.checked["source-1"])
	}
	if sourceRepo.found["source-1"] != 0 {
		t.Errorf("found time must not update on failure, got %d", sourceRepo.found["source-1"])
	}
}

func TestScrapeSource_SkipsIncompleteItems(t *testing.T) {
	items := `<item>
<title>Valid article</title>
<link>https://example.com/valid</link>
<description>Good enough body text for this entry, repeated to keep it long. Good enough body text for this entry, repeated to keep it long. Good enough body text for this entry, repeated to keep it long. Good enough body text for this entry, repeated to keep it long. Good enough body text for this entry.</description>
</item>
<item>
<title>No link on this one</title>
<description>Skipped because there is no link.</description>
</item>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(items))
	}))
	defer server.Close()

	articleRepo := newFakeArticleStore()
	scraper := newTestScraper(newFakeSourceRepo(), articleRepo)

	result := scraper.ScrapeSource(context.Background(), database.Source{ID: "source-1", URL: server.URL})

	if result.Count != 1 {
		t.Errorf("expected 1 saved article, got %d", result.Count)
	}
	if len(articleRepo.inserted) != 1 || articleRepo.inserted[0].Title != "Valid article" {
		t.Errorf("unexpected inserts %+v", articleRepo.inserted)
	}
}

func TestScrapeSource_PrefersEncodedContent(t *testing.T) {
	items := `<item>
<title>Rich article</title>
<link>https://example.com/rich</link>
<description>Short summary only.</description>
<content:encoded><![CDATA[Full encoded body of the article with much more detail than the summary. It repeats itself a few times so the scraper treats it as rich content and skips page extraction. It repeats itself a few times so the scraper treats it as rich content and skips page extraction. It repeats itself a few times so the scraper treats it as rich content.]]></content:encoded>
</item>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(items))
	}))
	defer server.Close()

	articleRepo := newFakeArticleStore()
	scraper := newTestScraper(newFakeSourceRepo(), articleRepo)

	result := scraper.ScrapeSource(context.Background(), database.Source{ID: "source-1", URL: server.URL})

	if result.Count != 1 {
		t.Fatalf("expected 1 saved article, got %d (error %q)", result.Count, result.Error)
	}
	content := articleRepo.inserted[0].Content
	if content == "Short summary only." {
		t.Error("content:encoded should take priority over the description")
	}
	if len(content) < minRichContentLen {
		t.Errorf("expected the full encoded body, got %q", content)
	}
}

func TestScrapeAll(t *testing.T) {
	goodServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(twoItems))
	}))
	defer goodServer.Close()

	brokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer brokenServer.Close()

	emptyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(""))
	}))
	defer emptyServer.Close()

	sourceRepo := newFakeSourceRepo(
		database.Source{ID: "good", Name: "Good", URL: goodServer.URL},
		database.Source{ID: "broken", Name: "Broken", URL: brokenServer.URL},
		database.Source{ID: "empty", Name: "Empty", URL: emptyServer.URL},
	)
	articleRepo := newFakeArticleStore()
	scraper := newTestScraper(sourceRepo, articleRepo)

	results, err := scraper.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("a failing source must not fail the batch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantCounts := []int{2, 0, 0}
	wantSuccess := []bool{true, false, true}
	for i, result := range results {
		if result.Count != wantCounts[i] {
			t.Errorf("result %d: expected count %d, got %d", i, wantCounts[i], result.Count)
		}
		if result.Success != wantSuccess[i] {
			t.Errorf("result %d: expected success=%v, got %v", i, wantSuccess[i], result.Success)
		}
	}
}

func TestScrapeSource_EnrichesShortContent(t *testing.T) {
	articleHTML := `<!DOCTYPE html>
<html>
<head><title>Rich page</title></head>
<body>
<article>
<h1>Rich page</h1>
<p>This is the full article body served by the page itself. It carries several sentences of real prose so the extractor has something substantial to work with when it strips the page down to its readable content.</p>
<p>A second paragraph adds more weight to the extraction result and makes sure the text content is clearly longer than the short snippet the feed entry carried.</p>
</article>
</body>
</html>`

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		items := fmt.Sprintf(`<item>
<title>Snippet article</title>
<link>%s/article</link>
<description>Tiny snippet.</description>
</item>`, server.URL)
		fmt.Fprint(w, rssFeed(items))
	})
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML)
	})

	articleRepo := newFakeArticleStore()
	scraper := NewScraper(&http.Client{Timeout: time.Second}, newFakeSourceRepo(), articleRepo, NewContentExtractor(), "contenthub-test/1.0")
	scraper.sourcePause = 0

	result := scraper.ScrapeSource(context.Background(), database.Source{ID: "source-1", URL: server.URL + "/feed"})

	if result.Count != 1 {
		t.Fatalf("expected 1 saved article, got %d (error %q)", result.Count, result.Error)
	}
	content := articleRepo.inserted[0].Content
	if content == "Tiny snippet." {
		t.Error("short feed content should be replaced by the extracted page body")
	}
}

func TestContentExtractor_EmptyInput(t *testing.T) {
	if _, err := NewContentExtractor().Run(nil); err == nil {
		t.Error("expected error for empty input")
	}
}
