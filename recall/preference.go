package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/recsite/behavior"
	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pkg/utils"
)

// Preference 是基于偏好画像的召回源：直接拿行为分析器产出的
// 类别/作者/标签权重去匹配目录物品。
//
// 物品分 = 类别权重 + 作者权重 + Σ 标签权重 × 0.5。
// 已交互物品被排除；画像为空时返回空结果。
type Preference struct {
	Catalog      core.Catalog
	Interactions core.InteractionStore

	// Profiles 画像来源；rctx.Profile 已有画像时优先使用
	Profiles behavior.ProfileSource

	// TopK 返回 TopK 个物品，默认 20
	TopK int
}

// 标签信号相对类别信号的折扣，与行为分析器保持一致。
const preferenceTagRatio = 0.5

func (r *Preference) Name() string {
	return "recall.preference"
}

func (r *Preference) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	profile := rctx.Profile
	if profile == nil && r.Profiles != nil {
		var err error
		profile, err = r.Profiles.LoadProfile(ctx, rctx.UserID)
		if err != nil {
			return nil, err
		}
	}
	if profile.Empty() {
		return nil, nil
	}

	// 已交互物品集合（用于排除）
	seen := make(map[string]struct{})
	if r.Interactions != nil {
		events, err := r.Interactions.ListInteractions(ctx, core.InteractionQuery{UserID: rctx.UserID})
		if err != nil {
			return nil, err
		}
		for _, ev := range events {
			if ev != nil {
				seen[ev.ItemID] = struct{}{}
			}
		}
	}

	items, err := r.Catalog.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	type scoredItem struct {
		itemID string
		score  float64
		why    string
	}
	scores := make([]scoredItem, 0)
	for _, item := range items {
		if item == nil {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}

		score := profile.CategoryWeight(item.Category) + profile.AuthorWeight(item.Author)
		for tag := range item.TagSet() {
			score += profile.TagWeight(tag) * preferenceTagRatio
		}
		if score <= 0 {
			continue
		}

		why := "matches your interests"
		if w := profile.CategoryWeight(item.Category); w > 0 {
			why = fmt.Sprintf("you often engage with %s", item.Category)
		}
		scores = append(scores, scoredItem{itemID: item.ID, score: score, why: why})
	}

	// 稳定降序：同分保持目录顺序
	for i := 1; i < len(scores); i++ {
		for j := i; j > 0 && scores[j].score > scores[j-1].score; j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
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
		it.PutLabel("recall_source", utils.Label{Value: "preference", Source: "recall"})
		it.PutLabel("reason", utils.Label{Value: s.why, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
