package core

// Recommendation 是对外返回的一条推荐结果。
//
// 所有策略统一产出这四个字段：不产生 reason 的策略填默认文案，
// 避免上游拿到字段时有时有、有时无的松散结构。
type Recommendation struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"` // 可读的推荐理由
	Source string  `json:"source"` // 产出该条结果的策略名
}

// DefaultReason 是策略未给出理由时的默认文案。
const DefaultReason = "recommended for you"

// ToRecommendation 把链路内部的 Item 转为对外的 Recommendation。
// reason / source 从 Labels 提取，缺失时取默认值。
func ToRecommendation(it *Item) Recommendation {
	if it == nil {
		return Recommendation{Reason: DefaultReason}
	}
	reason := it.LabelValue("reason")
	if reason == "" {
		reason = DefaultReason
	}
	source := it.LabelValue("recall_source")
	if source == "" {
		source = "unknown"
	}
	return Recommendation{
		ItemID: it.ID,
		Score:  it.Score,
		Reason: reason,
		Source: source,
	}
}

// ToRecommendations 批量转换。
func ToRecommendations(items []*Item) []Recommendation {
	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, ToRecommendation(it))
	}
	return out
}
