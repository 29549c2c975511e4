package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/contenthub/contenthub/app/database"
)

// fakeClient returns canned completion responses in call order
type fakeClient struct {
	responses []string
	errs      []error
	requests  []CompletionRequest
}

func (f *fakeClient) Complete(_ context.Context, req CompletionRequest) (string, error) {
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", fmt.Errorf("unexpected completion call %d", i)
}

func (f *fakeClient) FastModel() string    { return "fast-model" }
func (f *fakeClient) QualityModel() string { return "quality-model" }

// fakeArticleRepo is an in-memory stand-in for the raw article store
type fakeArticleRepo struct {
	pending  []database.RawArticle
	top      []database.RawArticle
	statuses map[string]string
	scores   map[string]database.ArticleScores
	urls     map[string]bool
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{
		statuses: make(map[string]string),
		scores:   make(map[string]database.ArticleScores),
		urls:     make(map[string]bool),
	}
}

func (f *fakeArticleRepo) ExistsByURL(url string) (bool, error) {
	return f.urls[url], nil
}

func (f *fakeArticleRepo) InsertArticle(article database.NewArticle) error {
	f.urls[article.OriginalURL] = true
	return nil
}

func (f *fakeArticleRepo) GetPendingArticles(limit int) ([]database.RawArticle, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeArticleRepo) GetArticlesByStatus(status string, limit int) ([]database.RawArticle, error) {
	return nil, nil
}

func (f *fakeArticleRepo) GetTopArticles(limit int, window time.Duration) ([]database.RawArticle, error) {
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func (f *fakeArticleRepo) UpdateScores(articleID string, scores database.ArticleScores, status string) error {
	f.scores[articleID] = scores
	f.statuses[articleID] = status
	return nil
}

func (f *fakeArticleRepo) UpdateStatus(articleID string, status string) error {
	f.statuses[articleID] = status
	return nil
}

func (f *fakeArticleRepo) MarkRewritten(articleID string) error {
	if f.statuses[articleID] == database.StatusApproved {
		f.statuses[articleID] = database.StatusRewritten
	}
	return nil
}

// fakeTemplateRepo serves template rows for a fixed set of styles
type fakeTemplateRepo struct {
	templates map[string]*database.RewriteTemplate
	usage     map[string]int
}

func newFakeTemplateRepo(styles ...string) *fakeTemplateRepo {
	repo := &fakeTemplateRepo{
		templates: make(map[string]*database.RewriteTemplate),
		usage:     make(map[string]int),
	}
	for i, style := range styles {
		repo.templates[style] = &database.RewriteTemplate{
			ID:    fmt.Sprintf("template-%d", i+1),
			Style: style,
		}
	}
	return repo
}

func (f *fakeTemplateRepo) GetTemplateByStyle(style string) (*database.RewriteTemplate, error) {
	return f.templates[style], nil
}

func (f *fakeTemplateRepo) IncrementUsage(templateID string) error {
	f.usage[templateID]++
	return nil
}

// fakePublishedRepo records inserted rewrite outputs
type fakePublishedRepo struct {
	inserted  []database.NewPublishedArticle
	insertErr error
}

func (f *fakePublishedRepo) InsertPublished(article database.NewPublishedArticle) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, article)
	return nil
}

func (f *fakePublishedRepo) GetRecentPublished(limit int) ([]database.PublishedArticle, error) {
	return nil, nil
}

func (f *fakePublishedRepo) GetTodayStats() (database.PublishedStats, error) {
	return database.PublishedStats{TotalArticles: len(f.inserted)}, nil
}
