package hybrid

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/recsite/core"
)

func TestProductCombinerLayers(t *testing.T) {
	c := &ProductCombiner{
		CF:       fixed([]*core.Item{scored("cf1", 1.0)}),
		Category: fixed([]*core.Item{scored("cat1", 0.8), scored("cf1", 0.7)}),
		Popular:  fixed([]*core.Item{scored("pop1", 0.5), scored("cat1", 0.5)}),
	}

	items := c.Recommend(context.Background(), &core.RecommendContext{UserID: "u1"}, 3)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	// CF 层优先且分数 1.2 倍加权
	if items[0].ID != "cf1" {
		t.Errorf("first slot = %s, want cf1", items[0].ID)
	}
	if math.Abs(items[0].Score-1.2) > 1e-9 {
		t.Errorf("cf score = %v, want 1.2", items[0].Score)
	}

	// 后续层按顺序补位，已出现的物品不重复
	if items[1].ID != "cat1" || items[2].ID != "pop1" {
		t.Errorf("fill order wrong: %s, %s", items[1].ID, items[2].ID)
	}
}

func TestProductCombinerTruncates(t *testing.T) {
	c := &ProductCombiner{
		CF: fixed([]*core.Item{scored("a", 1), scored("b", 1), scored("c", 1)}),
	}
	items := c.Recommend(context.Background(), &core.RecommendContext{}, 2)
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestProductCombinerCFFailure(t *testing.T) {
	c := &ProductCombiner{
		CF:      failing(),
		Popular: fixed([]*core.Item{scored("pop1", 0.5)}),
	}
	items := c.Recommend(context.Background(), &core.RecommendContext{}, 5)
	if len(items) != 1 || items[0].ID != "pop1" {
		t.Errorf("CF failure should fall through to popular, got %v", items)
	}
}

func TestProductCombinerBlendLayerLabel(t *testing.T) {
	c := &ProductCombiner{
		CF: fixed([]*core.Item{scored("a", 1)}),
	}
	items := c.Recommend(context.Background(), &core.RecommendContext{}, 1)
	if got := items[0].LabelValue("blend_layer"); got != "cf" {
		t.Errorf("blend_layer = %q, want cf", got)
	}
}
