package recall

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pkg/utils"
)

// Category 是同类目召回源：取指定类目下最近更新的已发布物品。
//
// 类目的确定顺序：
//  1. 显式配置的 CategoryName
//  2. rctx.Params["category"]
//  3. rctx.ItemID 锚点物品的类目（详情页"同类推荐"）
//  4. rctx.Profile 中权重最高的类目（商品混合推荐的补位阶段）
//
// 确定不了类目时返回空结果。
type Category struct {
	Catalog      core.Catalog
	Interactions core.InteractionStore

	// CategoryName 固定类目；为空时按上述顺序推断
	CategoryName string

	// ExcludeInteracted 是否排除用户已交互过的物品
	ExcludeInteracted bool

	// TopK 返回 TopK 个物品，默认 5
	TopK int
}

func (r *Category) Name() string {
	return "recall.category"
}

func (r *Category) resolveCategory(ctx context.Context, rctx *core.RecommendContext) string {
	if r.CategoryName != "" {
		return r.CategoryName
	}
	if rctx == nil {
		return ""
	}
	if v, ok := rctx.Params["category"].(string); ok && v != "" {
		return v
	}
	if rctx.ItemID != "" && r.Catalog != nil {
		if anchor, err := r.Catalog.GetItem(ctx, rctx.ItemID); err == nil && anchor != nil {
			return anchor.Category
		}
	}
	if rctx.Profile != nil {
		best, bestW := "", 0.0
		for cat, w := range rctx.Profile.Categories {
			if w > bestW || (w == bestW && (best == "" || cat < best)) {
				best, bestW = cat, w
			}
		}
		return best
	}
	return ""
}

func (r *Category) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}

	category := r.resolveCategory(ctx, rctx)
	if category == "" {
		return nil, nil
	}

	items, err := r.Catalog.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	excludeID := ""
	if rctx != nil {
		excludeID = rctx.ItemID
	}

	seen := make(map[string]struct{})
	if r.ExcludeInteracted && r.Interactions != nil && rctx != nil && rctx.UserID != "" {
		events, err := r.Interactions.ListInteractions(ctx, core.InteractionQuery{UserID: rctx.UserID})
		if err == nil {
			for _, ev := range events {
				if ev != nil {
					seen[ev.ItemID] = struct{}{}
				}
			}
		}
	}

	matched := make([]*core.CatalogItem, 0)
	for _, item := range items {
		if item == nil || item.Category != category || item.ID == excludeID {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		matched = append(matched, item)
	}

	// 最近更新在前
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})
	topK := r.TopK
	if topK <= 0 {
		topK = 5
	}
	if len(matched) > topK {
		matched = matched[:topK]
	}

	out := make([]*core.Item, 0, len(matched))
	for i, item := range matched {
		it := core.NewItem(item.ID)
		it.Score = float64(len(matched) - i) // 次序分
		it.PutLabel("recall_source", utils.Label{Value: "category", Source: "recall"})
		it.PutLabel("reason", utils.Label{Value: fmt.Sprintf("more from %s", category), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
