// Package feast 提供 Feast Feature Store 的在线特征客户端。
//
// Feast 是一个开源 Feature Store；本包只覆盖推荐链路需要的在线读路径：
// 离线画像作业把用户偏好物化到 Feast 在线存储，引擎在请求时读取，
// 省去逐请求扫交互日志的开销。
//
// 参考：https://github.com/feast-dev/feast
package feast

import "context"

// Client 是 Feast 在线特征客户端的领域接口。
type Client interface {
	// GetOnlineFeatures 获取在线特征（用于实时打分）
	//
	// 参数：
	//   - Features: 特征名称列表，例如 ["user_profile:categories_json"]
	//   - EntityRows: 实体行，例如 [{"user_id": "u42"}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 是在线特征请求。
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，格式 "feature_view:feature_name"
	Features []string

	// EntityRows 实体行，每行是实体键到值的映射
	EntityRows []map[string]any

	// Project 项目名称；为空时使用客户端默认项目
	Project string
}

// GetOnlineFeaturesResponse 是在线特征响应。
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 与请求的 EntityRows 一一对应
	FeatureVectors []FeatureVector
}

// FeatureVector 是单个实体的特征向量。
type FeatureVector struct {
	// Values 特征名称到值的映射
	Values map[string]any

	// EntityRow 对应的实体行
	EntityRow map[string]any
}

// ClientOption 是客户端配置选项。
type ClientOption func(*ClientConfig)

// ClientConfig 是客户端配置。
type ClientConfig struct {
	Endpoint string
	Project  string
	Auth     *AuthConfig
}

// AuthConfig 是认证配置。
type AuthConfig struct {
	Type  string // static
	Token string
}

// WithAuth 配置选项：设置认证信息。
func WithAuth(auth *AuthConfig) ClientOption {
	return func(c *ClientConfig) {
		c.Auth = auth
	}
}
