package recall

import (
	"context"
	"sort"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pkg/utils"
)

// Hot 是商品侧的热销召回源。
//
// 读取路径（按优先级）：
//  1. KV 有序集合（Store + Key）：离线作业预计算的热销榜，ZRange 直接取 TopN
//  2. 交互日志兜底：按完成购买的总数量降序，数量相同按上架时间降序
//
// 作为通用兜底使用：只有目录为空时才会返回空。
type Hot struct {
	Catalog      core.Catalog
	Interactions core.InteractionStore

	// Store 可选的 KV 存储（例如 Redis），Key 为热销榜有序集合的 key
	Store core.KeyValueStore
	Key   string

	// TopK 返回 TopK 个物品，默认 10
	TopK int
}

func (r *Hot) Name() string {
	return "recall.hot"
}

func (r *Hot) topK() int {
	if r.TopK <= 0 {
		return 10
	}
	return r.TopK
}

func (r *Hot) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	// 优先走预计算榜单
	if r.Store != nil && r.Key != "" {
		members, err := r.Store.ZRange(ctx, r.Key, 0, int64(r.topK())-1)
		if err == nil && len(members) > 0 {
			out := make([]*core.Item, 0, len(members))
			for i, id := range members {
				it := core.NewItem(id)
				it.Score = float64(len(members) - i) // 保持榜单次序的单调分
				it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
				it.PutLabel("reason", utils.Label{Value: "best seller", Source: "recall"})
				out = append(out, it)
			}
			return out, nil
		}
		// 榜单不可用时落到交互日志统计
	}

	return r.recallFromInteractions(ctx)
}

func (r *Hot) recallFromInteractions(ctx context.Context) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}

	items, err := r.Catalog.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	// 完成购买的总数量（purchase 事件的 score 即数量）
	sales := make(map[string]float64)
	if r.Interactions != nil {
		events, err := r.Interactions.ListInteractions(ctx, core.InteractionQuery{
			Types: []string{core.InteractionPurchase},
		})
		if err == nil {
			for _, ev := range events {
				if ev != nil {
					sales[ev.ItemID] += ev.Score
				}
			}
		}
		// 交互日志读失败时退化为"最新上架"，不向上抛错
	}

	ranked := make([]*core.CatalogItem, 0, len(items))
	for _, it := range items {
		if it != nil {
			ranked = append(ranked, it)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := sales[ranked[i].ID], sales[ranked[j].ID]
		if si != sj {
			return si > sj
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})
	if len(ranked) > r.topK() {
		ranked = ranked[:r.topK()]
	}

	out := make([]*core.Item, 0, len(ranked))
	for _, item := range ranked {
		it := core.NewItem(item.ID)
		it.Score = sales[item.ID]
		it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
		it.PutLabel("reason", utils.Label{Value: "best seller", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
