// Package recsite 是内容与商品混合推荐引擎（Recommendation for Sites）。
//
// 设计要点：
// - Engine-first: 上游只依赖 engine 门面，所有入口永不抛错、永远返回列表
// - Pipeline 可编排: 召回/过滤/混合/重排通过 Node 串联，可由配置装配
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
package recsite

import (
	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/engine"
	"github.com/rushteam/recsite/pipeline"
)

// 轻量 facade：便于用户直接 import "recsite" 使用核心抽象。
type Engine = engine.Engine
type EngineConfig = engine.Config
type Recommendation = core.Recommendation
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	DomainContent = engine.DomainContent
	DomainProduct = engine.DomainProduct

	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindBlend       = pipeline.KindBlend
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// NewEngine 构造推荐引擎。
func NewEngine(cfg EngineConfig) *Engine {
	return engine.New(cfg)
}
