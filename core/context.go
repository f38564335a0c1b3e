package core

import "github.com/rushteam/recsite/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/物品/场景信息，贯穿整个链路透传。
type RecommendContext struct {
	UserID string // 使用 string 类型（通用，支持 UUID / 自增 ID 等格式）
	ItemID string // 物品维度请求（相似物品）时的锚点物品
	Scene  string // 场景：detail / home / cart ...

	// Profile 是行为分析器产出的用户偏好画像；为空时由策略自行构建
	Profile *PreferenceProfile

	// Labels 是请求级标签，可驱动策略行为（新用户、冷启动等）
	Labels map[string]utils.Label

	// Params 请求级上下文参数（query、device_type、realtime_* 等）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
