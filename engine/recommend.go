package engine

import (
	"context"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/hybrid"
	"github.com/rushteam/recsite/recall"
	"github.com/rushteam/recsite/similarity"
)

// 场景标识，随 RecommendContext 透传，便于日志归因。
const (
	sceneHome   = "home"
	sceneDetail = "detail"
)

// 首页三路混合的权重：各路策略分数量纲不一致，只按位置计权。
const (
	homeContentWeight    = 0.4
	homeCFWeight         = 0.3
	homePreferenceWeight = 0.3
	homeRankDecayStep    = 0.05
)

// 内容详情页双路混合的权重：两路都是相似度量纲，按分数加权。
const (
	detailSimilarWeight = 0.6
	detailCFWeight      = 0.4
)

// GetHybridRecommendations 混合推荐（首页场景）。
//
// 内容域：内容相似 40% + 协同过滤 30% + 偏好匹配 30%，
// 各路结果按位置衰减计权，重复物品分数相加。
// 商品域：协同过滤结果 1.2 倍加权优先，同类目补足，销量兜底。
func (e *Engine) GetHybridRecommendations(ctx context.Context, userID string, n int) []core.Recommendation {
	rctx := e.newContext(ctx, userID, "", sceneHome)

	var items []*core.Item
	if e.domain == DomainProduct {
		combiner := &hybrid.ProductCombiner{
			CF:       e.userCFSource,
			Category: e.categorySource,
			Popular:  e.popularSource,
			Logger:   e.blendLogger(),
		}
		items = combiner.Recommend(ctx, rctx, n)
	} else {
		combiner := &hybrid.Combiner{
			Strategies: []hybrid.Strategy{
				{Weight: homeContentWeight, Build: e.contentBasedSource},
				{Weight: homeCFWeight, Build: e.userCFSource},
				{Weight: homePreferenceWeight, Build: e.preferenceSource},
			},
			RankDecayStep: homeRankDecayStep,
			RankOnly:      true,
			Overfetch:     hybrid.OverfetchDouble,
			Fallback:      e.popularSource,
			Logger:        e.blendLogger(),
		}
		items = combiner.Recommend(ctx, rctx, n)
	}
	return core.ToRecommendations(items)
}

// GetContentBasedRecommendations 基于内容特征的个性化推荐，
// 无信号时回退到流行度。
func (e *Engine) GetContentBasedRecommendations(ctx context.Context, userID string, n int) []core.Recommendation {
	rctx := e.newContext(ctx, userID, "", sceneHome)
	src := recall.OrElse(e.contentBasedSource(n), e.popularSource(n))
	return e.recommend(ctx, rctx, src, n)
}

// GetCollaborativeFilteringRecommendations 基于用户的协同过滤推荐，
// 无相似用户时回退到流行度。
func (e *Engine) GetCollaborativeFilteringRecommendations(ctx context.Context, userID string, n int) []core.Recommendation {
	rctx := e.newContext(ctx, userID, "", sceneHome)
	src := recall.OrElse(e.userCFSource(n), e.popularSource(n))
	return e.recommend(ctx, rctx, src, n)
}

// GetSimilarItems 相似物品推荐（详情页场景）。
//
// 内容域：物品相似度 60% + 物品协同过滤 40%，按分数加权混合。
// 商品域：物品协同过滤，无信号回退到销量榜。
func (e *Engine) GetSimilarItems(ctx context.Context, itemID string, n int) []core.Recommendation {
	rctx := e.newContext(ctx, "", itemID, sceneDetail)

	if e.domain == DomainProduct {
		src := recall.OrElse(e.itemCFSource(n), e.popularSource(n))
		return e.recommend(ctx, rctx, src, n)
	}

	combiner := &hybrid.Combiner{
		Strategies: []hybrid.Strategy{
			{Weight: detailSimilarWeight, Build: e.similarContentSource},
			{Weight: detailCFWeight, Build: e.itemCFSource},
		},
		Overfetch: hybrid.OverfetchHalf,
		Fallback:  e.popularSource,
		Logger:    e.blendLogger(),
	}
	return core.ToRecommendations(combiner.Recommend(ctx, rctx, n))
}

// GetPopularItems 流行度推荐：内容域按近期热门标签命中数，
// 商品域按成交销量（有 KV 时走 zset 快路径）。
func (e *Engine) GetPopularItems(ctx context.Context, n int) []core.Recommendation {
	rctx := e.newContext(ctx, "", "", sceneHome)
	return e.recommend(ctx, rctx, e.popularSource(n), n)
}

// recommend 执行单路召回并转换为对外结果。错误只记日志。
func (e *Engine) recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
	src recall.Source,
	n int,
) []core.Recommendation {
	items, err := src.Recall(ctx, rctx)
	if err != nil {
		e.log.Error().
			Err(err).
			Str("source", src.Name()).
			Str("user_id", rctx.UserID).
			Str("item_id", rctx.ItemID).
			Msg("recall failed, returning empty list")
		return []core.Recommendation{}
	}
	if len(items) > n {
		items = items[:n]
	}
	return core.ToRecommendations(items)
}

// 各路策略的构造器。策略对象本身无状态，按请求构造开销可忽略。

func (e *Engine) contentBasedSource(limit int) recall.Source {
	return &recall.ContentBased{
		Matrix:       e.matrix,
		Interactions: e.interactions,
		TopK:         limit,
	}
}

func (e *Engine) similarContentSource(limit int) recall.Source {
	return &recall.SimilarContent{
		Catalog: e.catalog,
		Weights: similarity.DefaultContentWeights(),
		TopK:    limit,
	}
}

func (e *Engine) userCFSource(limit int) recall.Source {
	cf := &recall.UserCF{
		Interactions: e.interactions,
		TopK:         limit,
	}
	if e.domain == DomainProduct {
		cf.MinSimilarity = productMinSimilarity
		cf.TopKUsers = productTopKUsers
		cf.Types = []string{core.InteractionPurchase, core.InteractionCart}
		cf.TypeDiscounts = map[string]float64{core.InteractionCart: 0.5}
	}
	return cf
}

func (e *Engine) itemCFSource(limit int) recall.Source {
	cf := &recall.ItemCF{
		Interactions: e.interactions,
		TopK:         limit,
	}
	if e.domain == DomainProduct {
		cf.Types = []string{core.InteractionPurchase, core.InteractionCart}
	}
	return cf
}

func (e *Engine) preferenceSource(limit int) recall.Source {
	return &recall.Preference{
		Catalog:      e.catalog,
		Interactions: e.interactions,
		Profiles:     e.profiles,
		TopK:         limit,
	}
}

func (e *Engine) categorySource(limit int) recall.Source {
	return &recall.Category{
		Catalog:           e.catalog,
		Interactions:      e.interactions,
		ExcludeInteracted: true,
		TopK:              limit,
	}
}

func (e *Engine) popularSource(limit int) recall.Source {
	if e.domain == DomainProduct {
		return &recall.Hot{
			Catalog:      e.catalog,
			Interactions: e.interactions,
			Store:        e.kv,
			Key:          HotKey,
			TopK:         limit,
		}
	}
	return &recall.TagTrending{
		Catalog: e.catalog,
		TopK:    limit,
	}
}
