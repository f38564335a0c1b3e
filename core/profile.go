package core

// PreferenceProfile 是用户偏好画像：行为分析器把交互历史聚合成
// 类别/作者/标签三个维度的加权偏好。
//
// 设计要点：
//   - 每个维度各自按最大值归一化到 [0,1]，维度之间不做全局归一化
//   - 按请求即时构建，不落库；它只是交互日志的一个视图
//   - 无交互用户得到空画像（所有 map 为空），这不是错误
type PreferenceProfile struct {
	UserID string

	// 偏好权重（各维度独立归一化到 [0,1]）
	Categories map[string]float64
	Authors    map[string]float64
	Tags       map[string]float64

	// 行为统计
	TotalInteractions int // 参与聚合的事件总数
	RecentActivity    int // 最近 7 天的事件数
}

// NewPreferenceProfile 创建一个空画像。
func NewPreferenceProfile(userID string) *PreferenceProfile {
	return &PreferenceProfile{
		UserID:     userID,
		Categories: make(map[string]float64),
		Authors:    make(map[string]float64),
		Tags:       make(map[string]float64),
	}
}

// Empty 判断画像是否为空（无任何偏好信号）。
func (p *PreferenceProfile) Empty() bool {
	if p == nil {
		return true
	}
	return len(p.Categories) == 0 && len(p.Authors) == 0 && len(p.Tags) == 0
}

// CategoryWeight 获取类别偏好权重，不存在时为 0。
func (p *PreferenceProfile) CategoryWeight(category string) float64 {
	if p == nil || p.Categories == nil {
		return 0
	}
	return p.Categories[category]
}

// TagWeight 获取标签偏好权重，不存在时为 0。
func (p *PreferenceProfile) TagWeight(tag string) float64 {
	if p == nil || p.Tags == nil {
		return 0
	}
	return p.Tags[tag]
}

// AuthorWeight 获取作者/卖家偏好权重，不存在时为 0。
func (p *PreferenceProfile) AuthorWeight(author string) float64 {
	if p == nil || p.Authors == nil {
		return 0
	}
	return p.Authors[author]
}
