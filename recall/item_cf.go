package recall

import (
	"context"
	"time"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pkg/utils"
	"github.com/rushteam/recsite/similarity"
)

// ItemCF 是基于物品的协同过滤召回源（Item-based Collaborative Filtering）。
//
// 核心思想："被同一批用户买过/看过的物品，相互相似"
//
// 商品详情页的"买了又买"模块用它：以 rctx.ItemID 为锚点，
// 把每个物品表示为"哪些用户跟它交互过、交互了多少"的用户向量，
// 其他物品按用户向量与锚点的余弦相似度降序排序。
// 这是共现驱动的相似，不看内容特征。
//
// 锚点无共现记录时返回空结果，由上层组合兜底。
type ItemCF struct {
	Interactions core.InteractionStore

	// Window 参与统计的交互回看窗口，<=0 表示不限
	Window time.Duration

	// Types 参与统计的交互类型，空表示全部
	Types []string

	// TopK 返回 TopK 个物品，默认 10
	TopK int
}

func (r *ItemCF) Name() string {
	return "recall.item_cf"
}

func (r *ItemCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Interactions == nil || rctx == nil || rctx.ItemID == "" {
		return nil, nil
	}

	var since time.Time
	if r.Window > 0 {
		since = time.Now().Add(-r.Window)
	}

	events, err := r.Interactions.ListInteractions(ctx, core.InteractionQuery{Since: since, Types: r.Types})
	if err != nil {
		return nil, err
	}

	// item -> user -> 累计分（物品的用户向量）
	itemUsers := make(map[string]map[string]float64)
	for _, ev := range events {
		if ev == nil || ev.UserID == "" || ev.ItemID == "" {
			continue
		}
		row := itemUsers[ev.ItemID]
		if row == nil {
			row = make(map[string]float64)
			itemUsers[ev.ItemID] = row
		}
		row[ev.UserID] += ev.Score
	}

	anchorUsers, ok := itemUsers[rctx.ItemID]
	if !ok || len(anchorUsers) == 0 {
		return nil, nil
	}

	type scoredItem struct {
		itemID string
		score  float64
	}
	scores := make([]scoredItem, 0)
	for itemID, users := range itemUsers {
		if itemID == rctx.ItemID {
			continue
		}
		sim := similarity.Cosine(anchorUsers, users)
		if sim > 0 {
			scores = append(scores, scoredItem{itemID: itemID, score: sim})
		}
	}
	if len(scores) == 0 {
		return nil, nil
	}

	for i := 0; i < len(scores); i++ {
		maxIdx := i
		for j := i + 1; j < len(scores); j++ {
			if scores[j].score > scores[maxIdx].score {
				maxIdx = j
			}
		}
		scores[i], scores[maxIdx] = scores[maxIdx], scores[i]
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 10
	}
	if len(scores) > topK {
		scores = scores[:topK]
	}

	out := make([]*core.Item, 0, len(scores))
	for _, s := range scores {
		it := core.NewItem(s.itemID)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "item_cf", Source: "recall"})
		it.PutLabel("reason", utils.Label{Value: "customers also engaged with this", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
