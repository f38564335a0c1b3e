package recall

import (
	"context"
	"sort"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pkg/utils"
)

// TagTrending 是内容侧的热门召回源：近期发布 + 热门标签命中。
//
// 算法流程：
//  1. 取最近发布的 Lookback 篇已发布内容（按创建时间降序，默认 20）
//  2. 统计这批内容的标签词频，取前 TopTags 个热门标签（默认 5）
//  3. 候选分 = 命中热门标签的个数，0 分不入选
//  4. 降序返回，同分保持"最近发布"次序
//
// 无个性化信号时的通用兜底；只有目录为空时才会返回空。
type TagTrending struct {
	Catalog core.Catalog

	// Lookback 参与统计的近期内容数量，默认 20
	Lookback int

	// TopTags 热门标签数量，默认 5
	TopTags int

	// TopK 返回 TopK 个物品，默认 5
	TopK int
}

func (r *TagTrending) Name() string {
	return "recall.trending"
}

func (r *TagTrending) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
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

	// 最近发布在前
	recent := make([]*core.CatalogItem, 0, len(items))
	for _, it := range items {
		if it != nil {
			recent = append(recent, it)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	lookback := r.Lookback
	if lookback <= 0 {
		lookback = 20
	}
	if len(recent) > lookback {
		recent = recent[:lookback]
	}

	// 标签词频统计，取 TopTags 个热门标签
	type tagCount struct {
		tag   string
		count int
		first int
	}
	counts := make(map[string]*tagCount)
	order := make([]*tagCount, 0)
	pos := 0
	for _, item := range recent {
		for _, tag := range item.Tags {
			if tag == "" {
				continue
			}
			if tc, ok := counts[tag]; ok {
				tc.count++
			} else {
				tc := &tagCount{tag: tag, count: 1, first: pos}
				counts[tag] = tc
				order = append(order, tc)
			}
			pos++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})
	topTags := r.TopTags
	if topTags <= 0 {
		topTags = 5
	}
	if len(order) > topTags {
		order = order[:topTags]
	}
	popular := make(map[string]struct{}, len(order))
	for _, tc := range order {
		popular[tc.tag] = struct{}{}
	}

	// 候选分 = 命中热门标签个数
	type scoredItem struct {
		itemID string
		score  float64
	}
	scores := make([]scoredItem, 0)
	for _, item := range recent {
		hits := 0
		for tag := range item.TagSet() {
			if _, ok := popular[tag]; ok {
				hits++
			}
		}
		if hits > 0 {
			scores = append(scores, scoredItem{itemID: item.ID, score: float64(hits)})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
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
		it.PutLabel("recall_source", utils.Label{Value: "trending", Source: "recall"})
		it.PutLabel("reason", utils.Label{Value: "trending right now", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
