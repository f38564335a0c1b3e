package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/feature"
	"github.com/rushteam/recsite/pkg/utils"
	"github.com/rushteam/recsite/similarity"
)

// ContentBased 是基于内容特征的个性化召回源（Content-Based Filtering）。
//
// 核心思想："用户喜欢具有某些特征的物品，推荐具有相似特征的其他物品"
//
// 算法流程：
//  1. 汇总用户交互：每个交互过的物品累加其特征向量 × 该物品上的总交互分
//  2. 对聚合出的"用户向量"做 L2 归一化
//  3. 对所有未交互过的目录物品，按与用户向量的余弦相似度降序排序
//  4. 并列分数按目录顺序稳定排序
//
// 数据不足（矩阵为空 / 用户无历史）时返回空结果，由上层组合兜底。
type ContentBased struct {
	Matrix       *feature.Matrix
	Interactions core.InteractionStore

	// TopK 返回 TopK 个物品，默认 20
	TopK int
}

func (r *ContentBased) Name() string {
	return "recall.content_based"
}

func (r *ContentBased) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Matrix == nil || r.Interactions == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	ids, vectors, err := r.Matrix.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	events, err := r.Interactions.ListInteractions(ctx, core.InteractionQuery{UserID: rctx.UserID})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	// 每个物品上的总交互分
	itemScores := make(map[string]float64)
	for _, ev := range events {
		if ev != nil {
			itemScores[ev.ItemID] += ev.Score
		}
	}

	// 聚合用户向量 = Σ (物品特征向量 × 总交互分)
	userVec := make(map[string]float64)
	for itemID, weight := range itemScores {
		vec, ok := vectors[itemID]
		if !ok {
			continue
		}
		for k, v := range vec {
			userVec[k] += v * weight
		}
	}
	if len(userVec) == 0 {
		return nil, nil
	}
	userVec = similarity.Normalize(userVec)

	// 按目录顺序遍历，保证并列分数时次序稳定
	type scoredItem struct {
		itemID string
		score  float64
	}
	scores := make([]scoredItem, 0, len(ids))
	for _, itemID := range ids {
		if _, seen := itemScores[itemID]; seen {
			continue // 不推荐已交互过的物品
		}
		score := similarity.Cosine(userVec, vectors[itemID])
		if score > 0 {
			scores = append(scores, scoredItem{itemID: itemID, score: score})
		}
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}
	// 稳定排序：降序，同分保持目录顺序
	for i := 1; i < len(scores); i++ {
		for j := i; j > 0 && scores[j].score > scores[j-1].score; j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
	if len(scores) > topK {
		scores = scores[:topK]
	}

	out := make([]*core.Item, 0, len(scores))
	for _, s := range scores {
		it := core.NewItem(s.itemID)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "content_based", Source: "recall"})
		it.PutLabel("reason", utils.Label{
			Value:  fmt.Sprintf("similar to items you engaged with (%.0f%% match)", s.score*100),
			Source: "recall",
		})
		out = append(out, it)
	}
	return out, nil
}
