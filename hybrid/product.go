package hybrid

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pkg/utils"
)

// ProductCombiner 是商品域的分层填充混合器：
//  1. 协同过滤结果加权提升（CFBoost，默认 1.2）优先占位
//  2. 同类目推荐补足剩余名额
//  3. 热门销量兜底填满
//
// 与 Combiner 的加权求和不同，这里各层按顺序填充，
// 已出现的物品不会被后续层覆盖。
type ProductCombiner struct {
	CF       SourceFunc
	Category SourceFunc
	Popular  SourceFunc

	// CFBoost 协同过滤分数提升系数，默认 1.2
	CFBoost float64

	Logger zerolog.Logger
}

const defaultCFBoost = 1.2

// Recommend 执行商品混合推荐，永远不返回错误。
func (c *ProductCombiner) Recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
	n int,
) []*core.Item {
	if n <= 0 {
		return nil
	}

	boost := c.CFBoost
	if boost <= 0 {
		boost = defaultCFBoost
	}

	seen := make(map[string]bool, n)
	out := make([]*core.Item, 0, n)

	appendLayer := func(items []*core.Item, scale float64, layer string) {
		for _, it := range items {
			if it == nil || seen[it.ID] || len(out) >= n {
				continue
			}
			if scale != 1 {
				it.Score *= scale
			}
			it.PutLabel("blend_layer", utils.Label{Value: layer, Source: "hybrid.product"})
			seen[it.ID] = true
			out = append(out, it)
		}
	}

	appendLayer(c.fetch(ctx, rctx, c.CF, n), boost, "cf")
	if len(out) < n {
		appendLayer(c.fetch(ctx, rctx, c.Category, n-len(out)), 1, "category")
	}
	if len(out) < n {
		appendLayer(c.fetch(ctx, rctx, c.Popular, n-len(out)), 1, "popular")
	}
	return out
}

func (c *ProductCombiner) fetch(
	ctx context.Context,
	rctx *core.RecommendContext,
	build SourceFunc,
	limit int,
) []*core.Item {
	if build == nil || limit <= 0 {
		return nil
	}
	src := build(limit)
	items, err := src.Recall(ctx, rctx)
	if err != nil {
		c.Logger.Warn().
			Err(err).
			Str("source", src.Name()).
			Str("user_id", rctx.UserID).
			Msg("product blend layer failed, skipping")
		return nil
	}
	return items
}
