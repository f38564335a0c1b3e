// Package hybrid 按固定线性权重混合多路推荐策略的结果。
//
// 混合规则：
//   - 每路策略按超额数量拉取候选（去重后仍能凑满 n 个）
//   - 同一物品出现在多路结果中时，分数相加（不取最大、不取平均）
//   - 任何一路策略失败只记录日志，不影响其他策略
//   - 全部失败时回退到兜底热门源
package hybrid

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/recall"
)

// SourceFunc 按给定候选数构建召回源，Combiner 据此实现超额拉取。
type SourceFunc func(limit int) recall.Source

// Strategy 是混合中的一路策略及其混合权重。
type Strategy struct {
	Weight float64
	Build  SourceFunc
}

// OverfetchHalf 每路策略拉取 n/2+1 个候选。
func OverfetchHalf(n int) int { return n/2 + 1 }

// OverfetchDouble 每路策略拉取 n*2 个候选。
func OverfetchDouble(n int) int { return n * 2 }

// Combiner 把多路策略的结果按权重混合为一个有序列表。
//
// RankDecayStep > 0 时，每路策略自身列表内的物品按位置做额外衰减：
// weight × (1 − index × step)，下限截断为 0，
// 使各路策略自己的头部结果比尾部结果贡献更大。
type Combiner struct {
	Strategies []Strategy

	// RankDecayStep 位置衰减步长，0 表示不做位置衰减
	RankDecayStep float64

	// RankOnly 为 true 时忽略各路策略自身的分数，只按权重和位置计算贡献。
	// 各路策略分数量纲不一致（相似度 vs 标签命中数）时使用。
	RankOnly bool

	// Overfetch 每路策略的候选拉取数，默认 OverfetchHalf
	Overfetch func(n int) int

	// Fallback 兜底源（通常为热门），所有策略都失败/为空时使用
	Fallback SourceFunc

	Logger zerolog.Logger
}

// Recommend 执行混合推荐。永远不向调用方返回错误：
// 内部任何一路失败都被吞掉，最坏情况返回空列表。
func (c *Combiner) Recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
	n int,
) []*core.Item {
	if n <= 0 {
		return nil
	}

	overfetch := c.Overfetch
	if overfetch == nil {
		overfetch = OverfetchHalf
	}
	limit := overfetch(n)
	if limit < n {
		limit = n
	}

	var (
		order  []string
		merged = make(map[string]*core.Item, n*2)
		scores = make(map[string]float64, n*2)
	)

	produced := 0
	for _, st := range c.Strategies {
		if st.Build == nil {
			continue
		}
		src := st.Build(limit)
		items, err := src.Recall(ctx, rctx)
		if err != nil {
			c.Logger.Warn().
				Err(err).
				Str("source", src.Name()).
				Str("user_id", rctx.UserID).
				Msg("blend strategy failed, skipping")
			continue
		}
		if len(items) == 0 {
			continue
		}
		produced += len(items)

		for idx, it := range items {
			if it == nil {
				continue
			}
			w := st.Weight
			if c.RankDecayStep > 0 {
				w *= 1 - float64(idx)*c.RankDecayStep
				if w < 0 {
					w = 0
				}
			}
			contrib := w
			if !c.RankOnly {
				contrib = it.Score * w
			}

			if prev, ok := merged[it.ID]; ok {
				// 多路命中：分数相加，Labels 合并
				scores[it.ID] += contrib
				for k, v := range it.Labels {
					prev.PutLabel(k, v)
				}
				continue
			}
			merged[it.ID] = it
			scores[it.ID] = contrib
			order = append(order, it.ID)
		}
	}

	if produced == 0 {
		return c.fallback(ctx, rctx, n)
	}

	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		it := merged[id]
		it.Score = scores[id]
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (c *Combiner) fallback(
	ctx context.Context,
	rctx *core.RecommendContext,
	n int,
) []*core.Item {
	if c.Fallback == nil {
		return nil
	}
	src := c.Fallback(n)
	items, err := src.Recall(ctx, rctx)
	if err != nil {
		c.Logger.Error().
			Err(err).
			Str("source", src.Name()).
			Msg("fallback source failed")
		return nil
	}
	if len(items) > n {
		items = items[:n]
	}
	return items
}
