// Package behavior 把用户的交互历史聚合成偏好画像（PreferenceProfile）。
//
// 画像是打分链路的核心输入之一：偏好召回直接用它匹配物品，
// 混合推荐用它做冷启动判断与解释。
package behavior

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/recsite/core"
)

// ProfileSource 是偏好画像的来源抽象：本地分析器或外部特征平台。
type ProfileSource interface {
	// LoadProfile 获取用户偏好画像；无信号用户返回空画像而非错误
	LoadProfile(ctx context.Context, userID string) (*core.PreferenceProfile, error)
}

// DefaultTypeWeights 是各交互类型的默认权重。
// 权重乘以事件自身的 score（view/like 通常为 1.0，purchase 为数量）。
func DefaultTypeWeights() map[string]float64 {
	return map[string]float64{
		core.InteractionView:     1.0,
		core.InteractionEdit:     3.0,
		core.InteractionLike:     2.0,
		core.InteractionShare:    2.5,
		core.InteractionCreate:   4.0,
		core.InteractionDownload: 1.5,
		core.InteractionCart:     2.0,
		core.InteractionPurchase: 3.5,
	}
}

// Analyzer 是行为分析器：读交互日志 + 目录，产出偏好画像。
//
// 算法流程：
//  1. 取窗口内的交互事件（购买/加购不受窗口限制）
//  2. 事件按时间升序，位置 i 的事件得到衰减因子 Decay^(n-i-1)，
//     最新事件衰减为 1.0，越旧衰减越强（几何衰减，无硬截断）
//  3. 贡献值 = 类型权重 × 事件 score × 衰减，累加到类别/作者/标签桶
//     （标签按类别权重的一半计）
//  4. 每个桶各自按最大值归一化到 [0,1]
type Analyzer struct {
	Catalog      core.Catalog
	Interactions core.InteractionStore

	// TypeWeights 各交互类型的权重，空时使用 DefaultTypeWeights
	TypeWeights map[string]float64

	// Decay 相邻事件间的衰减因子，(0,1]，默认 0.95
	Decay float64

	// Window 回看窗口，默认 90 天
	Window time.Duration

	// UnwindowedTypes 不受窗口限制的交互类型（默认 purchase / cart）
	UnwindowedTypes []string
}

// 标签桶相对类别桶的折扣。
const tagWeightRatio = 0.5

// recentActivityWindow 是 RecentActivity 统计的窗口。
const recentActivityWindow = 7 * 24 * time.Hour

func (a *Analyzer) decay() float64 {
	if a.Decay <= 0 || a.Decay > 1 {
		return 0.95
	}
	return a.Decay
}

func (a *Analyzer) window() time.Duration {
	if a.Window <= 0 {
		return 90 * 24 * time.Hour
	}
	return a.Window
}

func (a *Analyzer) unwindowed() map[string]struct{} {
	types := a.UnwindowedTypes
	if types == nil {
		types = []string{core.InteractionPurchase, core.InteractionCart}
	}
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// LoadProfile 实现 ProfileSource 接口。
func (a *Analyzer) LoadProfile(ctx context.Context, userID string) (*core.PreferenceProfile, error) {
	return a.Analyze(ctx, userID)
}

// Analyze 聚合 userID 的交互历史为偏好画像。
// 无交互用户返回空画像，不返回错误。
func (a *Analyzer) Analyze(ctx context.Context, userID string) (*core.PreferenceProfile, error) {
	profile := core.NewPreferenceProfile(userID)
	if a.Interactions == nil || a.Catalog == nil || userID == "" {
		return profile, nil
	}

	events, err := a.Interactions.ListInteractions(ctx, core.InteractionQuery{UserID: userID})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return profile, nil
	}

	// 窗口过滤：购买/加购类不受窗口限制
	now := time.Now()
	cutoff := now.Add(-a.window())
	unwindowed := a.unwindowed()
	qualified := events[:0:0]
	for _, ev := range events {
		if ev == nil {
			continue
		}
		if _, ok := unwindowed[ev.Type]; !ok && ev.Timestamp.Before(cutoff) {
			continue
		}
		qualified = append(qualified, ev)
	}
	if len(qualified) == 0 {
		return profile, nil
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].Timestamp.Before(qualified[j].Timestamp)
	})

	items, err := a.Catalog.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*core.CatalogItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	typeWeights := a.TypeWeights
	if typeWeights == nil {
		typeWeights = DefaultTypeWeights()
	}

	d := a.decay()
	n := len(qualified)
	recentCutoff := now.Add(-recentActivityWindow)

	for i, ev := range qualified {
		item, ok := byID[ev.ItemID]
		if !ok {
			// 已下架/未发布的物品不参与画像
			continue
		}

		tw, ok := typeWeights[ev.Type]
		if !ok {
			tw = 1.0
		}

		// 位置 i 的衰减因子：最新事件 (i == n-1) 为 1.0
		decayFactor := 1.0
		for k := 0; k < n-i-1; k++ {
			decayFactor *= d
		}

		weight := tw * ev.Score * decayFactor

		if item.Category != "" {
			profile.Categories[item.Category] += weight
		}
		if item.Author != "" {
			profile.Authors[item.Author] += weight
		}
		for tag := range item.TagSet() {
			profile.Tags[tag] += weight * tagWeightRatio
		}

		profile.TotalInteractions++
		if !ev.Timestamp.Before(recentCutoff) {
			profile.RecentActivity++
		}
	}

	normalizeBucket(profile.Categories)
	normalizeBucket(profile.Authors)
	normalizeBucket(profile.Tags)

	return profile, nil
}

// normalizeBucket 按桶内最大值归一化到 [0,1]；每个桶独立归一化。
func normalizeBucket(bucket map[string]float64) {
	var max float64
	for _, v := range bucket {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return
	}
	for k, v := range bucket {
		bucket[k] = v / max
	}
}
