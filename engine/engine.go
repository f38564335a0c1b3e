// Package engine 是推荐引擎的对外门面：路由层只依赖本包。
//
// 错误边界：所有推荐入口永远返回列表（可能为空），不向调用方抛错。
// 数据缺失（无交互、目录为空、相似度为零）不是错误，逐级回退到
// 流行度兜底；上游读失败被逐策略捕获并记日志。
package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/recsite/behavior"
	"github.com/rushteam/recsite/classify"
	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/feature"
)

// Domain 决定引擎的混合策略与流行度口径。
type Domain string

const (
	// DomainContent 内容域：标签热度流行、三路加权混合
	DomainContent Domain = "content"
	// DomainProduct 商品域：销量流行、CF 加权分层混合
	DomainProduct Domain = "product"
)

// 商品域 CF 的历史调参值，与内容域（0 门槛、全量邻居）不一致。
const (
	productMinSimilarity = 0.1
	productTopKUsers     = 10
)

// HotKey 是热销榜在 KV 存储中的有序集合 key。
const HotKey = "rec:hot:products"

// Config 是引擎的装配配置。
type Config struct {
	Domain       Domain
	Catalog      core.Catalog
	Interactions core.InteractionStore

	// KV 可选：热销榜 zset 快路径（通常为 Redis）
	KV core.KeyValueStore

	// Profiles 可选：外部画像来源（如 Feast）；空时用本地行为分析器
	Profiles behavior.ProfileSource

	Logger zerolog.Logger
}

// Engine 组合目录、交互日志、特征矩阵与各路策略。
// 构造一次、并发复用；特征矩阵是进程级缓存。
type Engine struct {
	domain       Domain
	catalog      core.Catalog
	interactions core.InteractionStore
	kv           core.KeyValueStore
	matrix       *feature.Matrix
	profiles     behavior.ProfileSource
	classifier   classify.Classifier
	log          zerolog.Logger
}

func New(cfg Config) *Engine {
	domain := cfg.Domain
	if domain == "" {
		domain = DomainContent
	}

	profiles := cfg.Profiles
	if profiles == nil {
		profiles = &behavior.Analyzer{
			Catalog:      cfg.Catalog,
			Interactions: cfg.Interactions,
		}
	}

	return &Engine{
		domain:       domain,
		catalog:      cfg.Catalog,
		interactions: cfg.Interactions,
		kv:           cfg.KV,
		matrix:       feature.NewMatrix(cfg.Catalog),
		profiles:     profiles,
		log:          cfg.Logger,
	}
}

// Matrix 暴露特征矩阵缓存，供维护入口手动失效/重建。
func (e *Engine) Matrix() *feature.Matrix {
	return e.matrix
}

// newContext 构造请求上下文并尽力装载用户画像。
// 画像加载失败只记日志：策略在无画像时自行退化。
func (e *Engine) newContext(ctx context.Context, userID, itemID, scene string) *core.RecommendContext {
	rctx := &core.RecommendContext{
		UserID: userID,
		ItemID: itemID,
		Scene:  scene,
	}
	if userID == "" {
		return rctx
	}
	profile, err := e.profiles.LoadProfile(ctx, userID)
	if err != nil {
		e.log.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("load profile failed, strategies degrade to no-profile mode")
		return rctx
	}
	rctx.Profile = profile
	return rctx
}

func (e *Engine) blendLogger() zerolog.Logger {
	return e.log.With().Str("component", "hybrid").Logger()
}
