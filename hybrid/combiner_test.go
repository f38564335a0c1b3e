package hybrid

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/recall"
)

type fakeSource struct {
	name  string
	items []*core.Item
	err   error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	return s.items, s.err
}

func fixed(items []*core.Item) SourceFunc {
	return func(int) recall.Source { return &fakeSource{name: "fixed", items: items} }
}

func failing() SourceFunc {
	return func(int) recall.Source { return &fakeSource{name: "failing", err: errors.New("boom")} }
}

func scored(id string, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	return it
}

func TestCombinerWeightedSum(t *testing.T) {
	c := &Combiner{
		Strategies: []Strategy{
			{Weight: 0.6, Build: fixed([]*core.Item{scored("a", 1.0), scored("b", 0.5)})},
			{Weight: 0.4, Build: fixed([]*core.Item{scored("b", 1.0), scored("c", 0.5)})},
		},
	}

	items := c.Recommend(context.Background(), &core.RecommendContext{UserID: "u1"}, 10)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	// b 出现在两路：0.5*0.6 + 1.0*0.4 = 0.7，超过 a 的 0.6
	if items[0].ID != "b" {
		t.Errorf("top item = %s, want b (cross-strategy sum)", items[0].ID)
	}
	if diff := items[0].Score - 0.7; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("b score = %v, want 0.7", items[0].Score)
	}
}

func TestCombinerTruncatesToN(t *testing.T) {
	c := &Combiner{
		Strategies: []Strategy{
			{Weight: 1, Build: fixed([]*core.Item{
				scored("a", 5), scored("b", 4), scored("c", 3), scored("d", 2),
			})},
		},
	}
	items := c.Recommend(context.Background(), &core.RecommendContext{}, 2)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "a" || items[1].ID != "b" {
		t.Errorf("wrong truncation order: %s, %s", items[0].ID, items[1].ID)
	}
}

func TestCombinerNoDuplicates(t *testing.T) {
	c := &Combiner{
		Strategies: []Strategy{
			{Weight: 0.5, Build: fixed([]*core.Item{scored("a", 1), scored("b", 1)})},
			{Weight: 0.5, Build: fixed([]*core.Item{scored("a", 1), scored("b", 1)})},
		},
	}
	items := c.Recommend(context.Background(), &core.RecommendContext{}, 10)
	seen := make(map[string]bool)
	for _, it := range items {
		if seen[it.ID] {
			t.Errorf("duplicate item %s in blended output", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestCombinerRankDecay(t *testing.T) {
	c := &Combiner{
		Strategies: []Strategy{
			{Weight: 0.4, Build: fixed([]*core.Item{scored("a", 99), scored("b", 99)})},
		},
		RankDecayStep: 0.05,
		RankOnly:      true,
	}
	items := c.Recommend(context.Background(), &core.RecommendContext{}, 10)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// RankOnly 模式忽略原始分：位置 0 贡献 0.4，位置 1 贡献 0.4*0.95
	if diff := items[0].Score - 0.4; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("rank 0 score = %v, want 0.4", items[0].Score)
	}
	if diff := items[1].Score - 0.4*0.95; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("rank 1 score = %v, want %v", items[1].Score, 0.4*0.95)
	}
}

func TestCombinerRankDecayClampedAtZero(t *testing.T) {
	// index >= 20 时 1 - idx*0.05 为负，贡献必须截断为 0 而不是负数
	many := make([]*core.Item, 25)
	for i := range many {
		many[i] = scored(string(rune('a'+i)), 1)
	}
	c := &Combiner{
		Strategies:    []Strategy{{Weight: 1, Build: fixed(many)}},
		RankDecayStep: 0.05,
		RankOnly:      true,
	}
	items := c.Recommend(context.Background(), &core.RecommendContext{}, 25)
	for _, it := range items {
		if it.Score < 0 {
			t.Errorf("item %s has negative score %v", it.ID, it.Score)
		}
	}
}

func TestCombinerAllFailFallsBack(t *testing.T) {
	c := &Combiner{
		Strategies: []Strategy{
			{Weight: 0.6, Build: failing()},
			{Weight: 0.4, Build: failing()},
		},
		Fallback: fixed([]*core.Item{scored("popular", 1)}),
	}
	items := c.Recommend(context.Background(), &core.RecommendContext{}, 5)
	if len(items) != 1 || items[0].ID != "popular" {
		t.Errorf("expected fallback result, got %v", items)
	}
}

func TestCombinerPartialFailure(t *testing.T) {
	c := &Combiner{
		Strategies: []Strategy{
			{Weight: 0.6, Build: failing()},
			{Weight: 0.4, Build: fixed([]*core.Item{scored("a", 1)})},
		},
		Fallback: fixed([]*core.Item{scored("popular", 1)}),
	}
	items := c.Recommend(context.Background(), &core.RecommendContext{}, 5)
	if len(items) != 1 || items[0].ID != "a" {
		t.Errorf("surviving strategy should be used, got %v", items)
	}
}

func TestCombinerEmptyEverything(t *testing.T) {
	c := &Combiner{
		Strategies: []Strategy{{Weight: 1, Build: fixed(nil)}},
		Fallback:   fixed(nil),
	}
	items := c.Recommend(context.Background(), &core.RecommendContext{}, 5)
	if len(items) != 0 {
		t.Errorf("expected empty list, got %v", items)
	}
}
