package filter

import (
	"context"
	"sync"

	"github.com/rushteam/recsite/core"
)

// InteractedFilter 过滤掉用户已经交互过的物品。
//
// 这是推荐结果的基础不变式：各策略自身已排除已交互物品，
// 此过滤器兜住策略遗漏（例如预计算榜单里混入的已购商品）。
//
// MinScore 可设定"qualifying"门槛：只有累计交互分达到门槛的物品
// 才视为已见；0 表示任何交互都算。
type InteractedFilter struct {
	Interactions core.InteractionStore

	// Types 参与判断的交互类型，空表示全部
	Types []string

	// MinScore 累计交互分门槛
	MinScore float64

	// 同一次请求内缓存用户的已交互集合，避免逐 item 查询
	mu     sync.Mutex
	cached map[string]map[string]float64 // userID -> itemID -> 累计分
}

func (f *InteractedFilter) Name() string {
	return "filter.interacted"
}

func (f *InteractedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Interactions == nil || rctx == nil || rctx.UserID == "" || item == nil {
		return false, nil
	}

	scores, err := f.userItems(ctx, rctx.UserID)
	if err != nil {
		// 交互日志读失败时不过滤，宁可多展示不可误杀
		return false, nil
	}
	score, ok := scores[item.ID]
	if !ok {
		return false, nil
	}
	return score >= f.MinScore, nil
}

func (f *InteractedFilter) userItems(ctx context.Context, userID string) (map[string]float64, error) {
	f.mu.Lock()
	if f.cached != nil {
		if scores, ok := f.cached[userID]; ok {
			f.mu.Unlock()
			return scores, nil
		}
	}
	f.mu.Unlock()

	events, err := f.Interactions.ListInteractions(ctx, core.InteractionQuery{
		UserID: userID,
		Types:  f.Types,
	})
	if err != nil {
		return nil, err
	}
	scores := make(map[string]float64, len(events))
	for _, ev := range events {
		if ev != nil {
			scores[ev.ItemID] += ev.Score
		}
	}

	f.mu.Lock()
	if f.cached == nil {
		f.cached = make(map[string]map[string]float64)
	}
	f.cached[userID] = scores
	f.mu.Unlock()
	return scores, nil
}

// Reset 清空请求级缓存。复用同一个过滤器实例处理多个请求时调用。
func (f *InteractedFilter) Reset() {
	f.mu.Lock()
	f.cached = nil
	f.mu.Unlock()
}
