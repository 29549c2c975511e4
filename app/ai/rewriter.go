package ai

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/contenthub/contenthub/app/database"
)

// RewriteResult is one parsed style-specific rewrite
type RewriteResult struct {
	Title   string
	Summary string
	Content string
	Tags    []string
}

// BatchResult aggregates one batch rewrite run
type BatchResult struct {
	Total      int
	Successful int
	Failed     int
}

// Rewriter composes title optimization and full rewrite generation into a
// persisted output for one article/style pair
type Rewriter struct {
	client        CompletionClient
	titles        *TitleOptimizer
	articleRepo   database.ArticleRepository
	templateRepo  database.TemplateRepository
	publishedRepo database.PublishedArticleRepository
}

// NewRewriter creates a rewriter
func NewRewriter(client CompletionClient, titles *TitleOptimizer,
	articleRepo database.ArticleRepository, templateRepo database.TemplateRepository,
	publishedRepo database.PublishedArticleRepository) *Rewriter {
	return &Rewriter{
		client:        client,
		titles:        titles,
		articleRepo:   articleRepo,
		templateRepo:  templateRepo,
		publishedRepo: publishedRepo,
	}
}

// RewriteArticle rewrites one article in the given style and persists the
// output. The raw article transitions to rewritten on the first successful
// persisted rewrite.
func (r *Rewriter) RewriteArticle(ctx context.Context, rawArticleID, originalTitle, originalContent string, style Style) (*RewriteResult, error) {
	slog.Info("Rewriting article", "article_id", rawArticleID, "style", style,
		"title", truncate(originalTitle, 50))

	titles, err := r.titles.GenerateTitles(ctx, originalTitle, originalContent, style, 10)
	if err != nil {
		return nil, fmt.Errorf("title generation failed: %w", err)
	}
	bestTitle := r.titles.SelectBestTitle(titles)

	prompt := fmt.Sprintf(`%s

---

原标题：%s
原文内容：%s

目标标题：%s

请按照上述要求改写内容。

**重要要求：**
1. 保持核心观点，但完全重新表达
2. 添加个人见解和分析
3. 举例说明（如果适用）
4. 确保原创性，避免被检测为重复内容
5. 字数控制在建议范围内

输出格式（严格按此格式）：

标题：%s

摘要：[100字左右的内容摘要]

正文：
[改写后的正文内容]

标签：#标签1 #标签2 #标签3`,
		style.Prompt(), originalTitle, truncate(originalContent, 3000), bestTitle.Title, bestTitle.Title)

	response, err := r.client.Complete(ctx, CompletionRequest{
		Model:       r.client.QualityModel(),
		System:      "你是专业的内容创作者，擅长将现有内容改写成不同风格，确保原创性和可读性。",
		Prompt:      prompt,
		Temperature: 0.8,
		MaxTokens:   3500,
	})
	if err != nil {
		return nil, fmt.Errorf("rewrite completion failed: %w", err)
	}

	parsed := parseRewriteResponse(response, bestTitle.Title)

	template, err := r.templateRepo.GetTemplateByStyle(string(style))
	if err != nil {
		return nil, fmt.Errorf("template lookup failed: %w", err)
	}
	if template == nil {
		return nil, fmt.Errorf("template not found for style: %s", style)
	}

	err = r.publishedRepo.InsertPublished(database.NewPublishedArticle{
		RawArticleID:    rawArticleID,
		TemplateID:      template.ID,
		Title:           parsed.Title,
		Summary:         parsed.Summary,
		Content:         parsed.Content,
		Keywords:        parsed.Tags,
		TargetPlatforms: []string{string(style)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist rewrite: %w", err)
	}

	if err := r.templateRepo.IncrementUsage(template.ID); err != nil {
		return nil, fmt.Errorf("failed to increment template usage: %w", err)
	}

	if err := r.articleRepo.MarkRewritten(rawArticleID); err != nil {
		return nil, fmt.Errorf("failed to update article status: %w", err)
	}

	slog.Info("Rewrite complete", "article_id", rawArticleID, "style", style,
		"title", truncate(parsed.Title, 50))

	return &parsed, nil
}

// BatchRewrite attempts every article x style pair strictly sequentially.
// A failed pair is counted and logged, never aborts the rest.
func (r *Rewriter) BatchRewrite(ctx context.Context, articles []database.RawArticle, styles []Style) BatchResult {
	result := BatchResult{Total: len(articles) * len(styles)}

	slog.Info("Batch rewrite started", "articles", len(articles), "styles", len(styles))

	for _, article := range articles {
		for _, style := range styles {
			_, err := r.RewriteArticle(ctx, article.ID, article.Title, article.Content, style)
			if err != nil {
				slog.Error("Rewrite failed", "article_id", article.ID, "style", style, "error", err)
				result.Failed++
				continue
			}
			result.Successful++
		}
	}

	slog.Info("Batch rewrite complete", "total", result.Total,
		"successful", result.Successful, "failed", result.Failed)

	return result
}

var hashtagPattern = regexp.MustCompile(`#[\p{Han}a-zA-Z0-9_]+`)

// parseRewriteResponse scans the free-form completion output line by line for
// labeled sections. Both full-width and half-width colons are accepted. If no
// body section can be found the entire raw response becomes the body, so
// content is never lost.
func parseRewriteResponse(text, defaultTitle string) RewriteResult {
	result := RewriteResult{Title: defaultTitle}

	var contentLines []string
	inBody := false

	for _, line := range strings.Split(text, "\n") {
		switch {
		case hasMarker(line, "标题"):
			if title := markerValue(line, "标题"); title != "" {
				result.Title = title
			}
			inBody = false
		case hasMarker(line, "摘要"):
			result.Summary = markerValue(line, "摘要")
			inBody = false
		case hasMarker(line, "标签"):
			for _, tag := range strings.Split(markerValue(line, "标签"), "#") {
				if tag = strings.TrimSpace(tag); tag != "" {
					result.Tags = append(result.Tags, tag)
				}
			}
			inBody = false
		case hasMarker(line, "正文"):
			inBody = true
		case inBody && strings.TrimSpace(line) != "":
			contentLines = append(contentLines, line)
		}
	}

	result.Content = strings.TrimSpace(strings.Join(contentLines, "\n"))
	if result.Content == "" {
		result.Content = text
	}

	if len(result.Tags) == 0 {
		for _, match := range hashtagPattern.FindAllString(result.Content, -1) {
			result.Tags = append(result.Tags, strings.TrimPrefix(match, "#"))
		}
	}

	return result
}

func hasMarker(line, marker string) bool {
	return strings.HasPrefix(line, marker+"：") || strings.HasPrefix(line, marker+":")
}

func markerValue(line, marker string) string {
	value := strings.TrimPrefix(line, marker)
	value = strings.TrimPrefix(value, "：")
	value = strings.TrimPrefix(value, ":")
	return strings.TrimSpace(value)
}
