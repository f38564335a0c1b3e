package recall

import (
	"context"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pkg/utils"
	"github.com/rushteam/recsite/similarity"
)

// SimilarContent 是内容侧的"相似物品"召回源（详情页 "related" 模块）。
//
// 以 rctx.ItemID 为锚点，用内容相似度（类别/标签/关键词/作者四信号）
// 对目录内其他已发布物品打分，降序返回。不依赖任何交互数据，
// 对冷启动物品同样有效。
type SimilarContent struct {
	Catalog core.Catalog

	// Weights 内容相似度权重，零值时使用默认 0.4/0.3/0.2/0.1
	Weights similarity.ContentWeights

	// TopK 返回 TopK 个物品，默认 5
	TopK int
}

func (r *SimilarContent) Name() string {
	return "recall.similar_content"
}

func (r *SimilarContent) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || rctx.ItemID == "" {
		return nil, nil
	}

	anchor, err := r.Catalog.GetItem(ctx, rctx.ItemID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.Catalog.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	weights := r.Weights
	if weights == (similarity.ContentWeights{}) {
		weights = similarity.DefaultContentWeights()
	}

	type scoredItem struct {
		itemID string
		score  float64
	}
	scores := make([]scoredItem, 0)
	for _, item := range items {
		if item == nil || item.ID == anchor.ID {
			continue
		}
		score := similarity.ContentWith(anchor, item, weights)
		if score > 0 {
			scores = append(scores, scoredItem{itemID: item.ID, score: score})
		}
	}

	// 稳定降序：同分保持目录顺序
	for i := 1; i < len(scores); i++ {
		for j := i; j > 0 && scores[j].score > scores[j-1].score; j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 5
	}
	if len(scores) > topK {
		scores = scores[:topK]
	}

	out := make([]*core.Item, 0, len(scores))
	for _, s := range scores {
		it := core.NewItem(s.itemID)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "similar_content", Source: "recall"})
		it.PutLabel("reason", utils.Label{Value: "similar to what you are viewing", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
