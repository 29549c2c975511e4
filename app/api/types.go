package api

import (
	"github.com/contenthub/contenthub/app/database"
	"github.com/contenthub/contenthub/app/feed"
	"github.com/contenthub/contenthub/app/pipeline"
)

type Handler struct {
	sourceRepo    database.SourceRepository
	articleRepo   database.ArticleRepository
	publishedRepo database.PublishedArticleRepository
	scraper       *feed.Scraper
	generator     *pipeline.Generator
	version       string
}

// GenerateRequest is the POST /api/generate payload
type GenerateRequest struct {
	ArticleCount int      `json:"article_count"`
	Styles       []string `json:"styles"`
}
