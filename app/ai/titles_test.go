package ai

import (
	"context"
	"testing"
)

func TestTitleOptimizer_GenerateTitles_SortedByCTR(t *testing.T) {
	client := &fakeClient{responses: []string{
		`{"titles": [
			{"title": "平平无奇的标题", "predicted_ctr": 0.05},
			{"title": "最吸引人的标题", "predicted_ctr": 0.25},
			{"title": "还不错的标题", "predicted_ctr": 0.15}
		]}`,
	}}
	optimizer := NewTitleOptimizer(client)

	titles, err := optimizer.GenerateTitles(context.Background(), "原标题", "内容", StyleToutiao, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(titles) != 3 {
		t.Fatalf("expected 3 titles, got %d", len(titles))
	}
	for i := 1; i < len(titles); i++ {
		if titles[i-1].PredictedCTR < titles[i].PredictedCTR {
			t.Errorf("titles not sorted by CTR descending at index %d", i)
		}
	}
	if titles[0].Title != "最吸引人的标题" {
		t.Errorf("expected the highest-CTR title first, got %q", titles[0].Title)
	}

	if len(client.requests) != 1 {
		t.Fatalf("expected 1 completion call, got %d", len(client.requests))
	}
	if client.requests[0].Model != "fast-model" {
		t.Errorf("title generation should use the fast model, got %s", client.requests[0].Model)
	}
	if !client.requests[0].JSONMode {
		t.Error("title generation should request JSON mode")
	}
}

func TestTitleOptimizer_GenerateTitles_BareArrayResponse(t *testing.T) {
	client := &fakeClient{responses: []string{
		`[{"title": "标题A", "predicted_ctr": 0.1}]`,
	}}
	optimizer := NewTitleOptimizer(client)

	titles, err := optimizer.GenerateTitles(context.Background(), "原标题", "内容", StyleZhihu, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 1 || titles[0].Title != "标题A" {
		t.Errorf("unexpected titles: %v", titles)
	}
}

func TestTitleOptimizer_GenerateTitles_EmptyResponse(t *testing.T) {
	client := &fakeClient{responses: []string{`{"titles": []}`}}
	optimizer := NewTitleOptimizer(client)

	if _, err := optimizer.GenerateTitles(context.Background(), "原标题", "内容", StyleZhihu, 5); err == nil {
		t.Error("expected error when the response contains no titles")
	}
}

func TestTitleOptimizer_SelectBestTitle(t *testing.T) {
	optimizer := NewTitleOptimizer(nil)

	titles := []TitleOption{
		{Title: "first", PredictedCTR: 0.10},
		{Title: "best", PredictedCTR: 0.30},
		{Title: "last", PredictedCTR: 0.20},
	}

	best := optimizer.SelectBestTitle(titles)
	if best.Title != "best" {
		t.Errorf("expected %q, got %q", "best", best.Title)
	}
}

func TestTitleOptimizer_SelectBestTitle_TiesResolveToFirst(t *testing.T) {
	optimizer := NewTitleOptimizer(nil)

	titles := []TitleOption{
		{Title: "first", PredictedCTR: 0.20},
		{Title: "second", PredictedCTR: 0.20},
	}

	best := optimizer.SelectBestTitle(titles)
	if best.Title != "first" {
		t.Errorf("ties should resolve to the first-encountered option, got %q", best.Title)
	}
}
