package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
)

// TitleOption is one candidate title with its predicted click-through rate
type TitleOption struct {
	Title        string  `json:"title"`
	PredictedCTR float64 `json:"predicted_ctr"`
}

// TitleOptimizer generates and ranks candidate titles for one article/style pair
type TitleOptimizer struct {
	client CompletionClient
}

// NewTitleOptimizer creates a title optimizer
func NewTitleOptimizer(client CompletionClient) *TitleOptimizer {
	return &TitleOptimizer{client: client}
}

// GenerateTitles requests count candidate titles for the target style and
// returns them sorted by predicted CTR, best first
func (o *TitleOptimizer) GenerateTitles(ctx context.Context, originalTitle, content string, style Style, count int) ([]TitleOption, error) {
	prompt := fmt.Sprintf(`你是标题优化专家。基于原文，生成 %d 个高点击率标题。

原标题：%s
核心内容：%s
目标平台：%s

%s

要求：
1. 30字以内
2. 包含数字或疑问句（吸引点击）
3. 制造好奇心或紧迫感
4. 正能量或痛点切入
5. 符合平台调性和用户习惯

只返回 JSON，不要其他内容：
{
  "titles": [
    {"title": "标题1", "predicted_ctr": 0.15},
    {"title": "标题2", "predicted_ctr": 0.12}
  ]
}`, count, originalTitle, truncate(content, 500), style, style.TitleGuidance())

	slog.Debug("Generating titles", "style", style, "count", count)

	response, err := o.client.Complete(ctx, CompletionRequest{
		Model:       o.client.FastModel(),
		System:      "你是爆款标题创作专家，深谙各平台用户心理和点击偏好。",
		Prompt:      prompt,
		Temperature: 0.7,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("title completion failed: %w", err)
	}

	titles, err := parseTitleResponse(response)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(titles, func(i, j int) bool {
		return titles[i].PredictedCTR > titles[j].PredictedCTR
	})

	slog.Debug("Titles generated", "style", style, "count", len(titles),
		"best", titles[0].Title, "predicted_ctr", titles[0].PredictedCTR)

	return titles, nil
}

// parseTitleResponse accepts both the requested object form and a bare array
func parseTitleResponse(response string) ([]TitleOption, error) {
	var wrapped struct {
		Titles []TitleOption `json:"titles"`
	}
	if err := json.Unmarshal([]byte(response), &wrapped); err == nil && len(wrapped.Titles) > 0 {
		return wrapped.Titles, nil
	}

	var titles []TitleOption
	if err := json.Unmarshal([]byte(response), &titles); err == nil && len(titles) > 0 {
		return titles, nil
	}

	return nil, fmt.Errorf("no titles in completion response")
}

// SelectBestTitle returns the option with the highest predicted CTR. Ties
// resolve to the first-encountered option.
func (o *TitleOptimizer) SelectBestTitle(titles []TitleOption) TitleOption {
	var best TitleOption
	for i, title := range titles {
		if i == 0 || title.PredictedCTR > best.PredictedCTR {
			best = title
		}
	}
	return best
}
