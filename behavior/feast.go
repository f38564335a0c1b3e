package behavior

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/feast"
)

// FeastProfileSource 从 Feast 在线特征存储读取离线物化的偏好画像。
//
// 离线作业周期性地把 Analyzer 的产出写入 Feast（各桶以 JSON 字符串特征存储），
// 在线读取即可省去逐请求扫交互日志。适合交互量大的用户。
type FeastProfileSource struct {
	Client feast.Client

	// Project Feast 项目名
	Project string

	// FeatureView 特征视图名，默认 "user_profile"
	FeatureView string

	// EntityKey 实体键名，默认 "user_id"
	EntityKey string
}

func (s *FeastProfileSource) featureView() string {
	if s.FeatureView == "" {
		return "user_profile"
	}
	return s.FeatureView
}

func (s *FeastProfileSource) entityKey() string {
	if s.EntityKey == "" {
		return "user_id"
	}
	return s.EntityKey
}

// LoadProfile 实现 ProfileSource 接口。
// 特征缺失时返回空画像；Feast 不可用时返回错误，由调用方决定回退。
func (s *FeastProfileSource) LoadProfile(ctx context.Context, userID string) (*core.PreferenceProfile, error) {
	profile := core.NewPreferenceProfile(userID)
	if s.Client == nil || userID == "" {
		return profile, nil
	}

	fv := s.featureView()
	featCategories := fv + ":categories_json"
	featAuthors := fv + ":authors_json"
	featTags := fv + ":tags_json"
	featTotal := fv + ":total_interactions"
	featRecent := fv + ":recent_activity"

	resp, err := s.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   []string{featCategories, featAuthors, featTags, featTotal, featRecent},
		EntityRows: []map[string]any{{s.entityKey(): userID}},
		Project:    s.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("behavior: load profile from feast: %w", err)
	}
	if len(resp.FeatureVectors) == 0 {
		return profile, nil
	}

	values := resp.FeatureVectors[0].Values
	if m := decodeWeights(values[featCategories]); m != nil {
		profile.Categories = m
	}
	if m := decodeWeights(values[featAuthors]); m != nil {
		profile.Authors = m
	}
	if m := decodeWeights(values[featTags]); m != nil {
		profile.Tags = m
	}
	if f, ok := values[featTotal].(float64); ok {
		profile.TotalInteractions = int(f)
	}
	if f, ok := values[featRecent].(float64); ok {
		profile.RecentActivity = int(f)
	}

	return profile, nil
}

// decodeWeights 解析 JSON 字符串特征为权重 map；非字符串或解析失败返回 nil。
func decodeWeights(v any) map[string]float64 {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	var m map[string]float64
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}

var _ ProfileSource = (*FeastProfileSource)(nil)
var _ ProfileSource = (*Analyzer)(nil)
