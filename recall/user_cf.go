package recall

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pkg/utils"
	"github.com/rushteam/recsite/similarity"
)

// UserCF 是基于用户的协同过滤召回源（User-based Collaborative Filtering）。
//
// 核心思想："兴趣相似的用户，喜欢相似的物品"
//
// 算法流程：
//  1. 从交互日志构建用户×物品矩阵（每个 (user, item) 累加交互分）
//  2. 目标用户与其他所有用户做余弦相似度，保留 > MinSimilarity 的邻居
//  3. 取 TopKUsers 个最相似用户（0 表示全部保留）
//  4. 候选物品分 = 邻居评分的相似度加权平均，
//     权重 = similarity / Σ(所有入选 similarity)；
//     规范加权避免邻居多的用户拿到偏高的裸加和
//  5. 排除目标用户已交互过的物品
//
// 目标用户无历史、或邻居相似度总和为 0 时返回空结果。
type UserCF struct {
	Interactions core.InteractionStore

	// Window 参与建矩阵的交互回看窗口，默认 30 天；<0 表示不限
	Window time.Duration

	// Types 参与建矩阵的交互类型，空表示全部
	Types []string

	// TypeDiscounts 按交互类型打折（商品域：cart 信号打折参与矩阵）
	TypeDiscounts map[string]float64

	// MinSimilarity 邻居的最低相似度门槛。
	// 内容域沿用 0（只要求为正），商品域为 0.1 —— 两域不一致是历史调参
	// 差异，保留为配置项，待产品侧确认后统一。
	MinSimilarity float64

	// TopKUsers 最多保留的相似用户数，0 表示全部
	TopKUsers int

	// TopK 最终返回的物品数，默认 20
	TopK int
}

func (r *UserCF) Name() string {
	return "recall.user_cf"
}

// buildUserItemMatrix 从交互日志构建 user -> item -> 累计分 的矩阵。
func buildUserItemMatrix(
	ctx context.Context,
	store core.InteractionStore,
	since time.Time,
	types []string,
	discounts map[string]float64,
) (map[string]map[string]float64, error) {
	events, err := store.ListInteractions(ctx, core.InteractionQuery{Since: since, Types: types})
	if err != nil {
		return nil, err
	}

	matrix := make(map[string]map[string]float64)
	for _, ev := range events {
		if ev == nil || ev.UserID == "" || ev.ItemID == "" {
			continue
		}
		score := ev.Score
		if d, ok := discounts[ev.Type]; ok {
			score *= d
		}
		row := matrix[ev.UserID]
		if row == nil {
			row = make(map[string]float64)
			matrix[ev.UserID] = row
		}
		row[ev.ItemID] += score
	}
	return matrix, nil
}

func (r *UserCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Interactions == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	var since time.Time
	switch {
	case r.Window < 0:
		// 不限窗口
	case r.Window == 0:
		since = time.Now().Add(-30 * 24 * time.Hour)
	default:
		since = time.Now().Add(-r.Window)
	}

	matrix, err := buildUserItemMatrix(ctx, r.Interactions, since, r.Types, r.TypeDiscounts)
	if err != nil {
		return nil, err
	}

	targetItems, ok := matrix[rctx.UserID]
	if !ok || len(targetItems) == 0 {
		return nil, nil
	}

	// 与其他用户的相似度
	type neighbor struct {
		userID string
		sim    float64
	}
	neighbors := make([]neighbor, 0)
	for userID, items := range matrix {
		if userID == rctx.UserID {
			continue
		}
		sim := similarity.Cosine(targetItems, items)
		if sim > r.MinSimilarity && sim > 0 {
			neighbors = append(neighbors, neighbor{userID: userID, sim: sim})
		}
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	// TopKUsers 截断（相似度降序）
	if r.TopKUsers > 0 && len(neighbors) > r.TopKUsers {
		for i := 0; i < r.TopKUsers; i++ {
			maxIdx := i
			for j := i + 1; j < len(neighbors); j++ {
				if neighbors[j].sim > neighbors[maxIdx].sim {
					maxIdx = j
				}
			}
			neighbors[i], neighbors[maxIdx] = neighbors[maxIdx], neighbors[i]
		}
		neighbors = neighbors[:r.TopKUsers]
	}

	var totalSim float64
	for _, nb := range neighbors {
		totalSim += nb.sim
	}
	if totalSim == 0 {
		return nil, nil
	}

	// 相似度加权平均：weight = sim / totalSim
	itemScores := make(map[string]float64)
	for _, nb := range neighbors {
		weight := nb.sim / totalSim
		for itemID, rating := range matrix[nb.userID] {
			if _, seen := targetItems[itemID]; seen {
				continue // 不推荐已交互过的物品
			}
			itemScores[itemID] += weight * rating
		}
	}

	type scoredItem struct {
		itemID string
		score  float64
	}
	scores := make([]scoredItem, 0, len(itemScores))
	for itemID, score := range itemScores {
		scores = append(scores, scoredItem{itemID: itemID, score: score})
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
		topK = 20
	}
	if len(scores) > topK {
		scores = scores[:topK]
	}

	out := make([]*core.Item, 0, len(scores))
	for _, s := range scores {
		it := core.NewItem(s.itemID)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "user_cf", Source: "recall"})
		it.PutLabel("reason", utils.Label{
			Value:  fmt.Sprintf("popular with %d users like you", len(neighbors)),
			Source: "recall",
		})
		out = append(out, it)
	}
	return out, nil
}
