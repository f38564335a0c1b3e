// Package config 提供从配置文件装配 Pipeline 的 Node 工厂。
//
// 需要外部存储的 Node（召回、过滤）通过 Deps 注入依赖，
// 纯计算 Node（截断、多样性）直接从配置构建。
package config

import (
	"fmt"
	"time"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/filter"
	"github.com/rushteam/recsite/pipeline"
	"github.com/rushteam/recsite/pkg/conv"
	"github.com/rushteam/recsite/recall"
	"github.com/rushteam/recsite/rerank"
)

// Deps 是 Node 构建所需的外部依赖。
type Deps struct {
	Catalog      core.Catalog
	Interactions core.InteractionStore
	KV           core.KeyValueStore
}

// DefaultFactory 返回注册了所有内置 Node 的工厂。
func DefaultFactory(deps Deps) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	factory.Register("recall.fanout", func(cfg map[string]any) (pipeline.Node, error) {
		return buildFanoutNode(deps, cfg)
	})
	factory.Register("filter", func(cfg map[string]any) (pipeline.Node, error) {
		return buildFilterNode(deps, cfg)
	})
	factory.Register("rerank.topn", buildTopNNode)
	factory.Register("rerank.diversity", buildDiversityNode)

	return factory
}

func buildFanoutNode(deps Deps, cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		src, err := buildSource(deps, sourceMap)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet[bool](cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	return fanout, nil
}

func buildSource(deps Deps, cfg map[string]any) (recall.Source, error) {
	topK := int(conv.ConfigGetInt64(cfg, "top_k", 0))

	switch sourceType := conv.ConfigGet[string](cfg, "type", ""); sourceType {
	case "hot":
		return &recall.Hot{
			Catalog:      deps.Catalog,
			Interactions: deps.Interactions,
			Store:        deps.KV,
			Key:          conv.ConfigGet[string](cfg, "key", ""),
			TopK:         topK,
		}, nil
	case "trending":
		return &recall.TagTrending{
			Catalog:  deps.Catalog,
			Lookback: int(conv.ConfigGetInt64(cfg, "lookback", 0)),
			TopTags:  int(conv.ConfigGetInt64(cfg, "top_tags", 0)),
			TopK:     topK,
		}, nil
	case "category":
		return &recall.Category{
			Catalog:           deps.Catalog,
			Interactions:      deps.Interactions,
			CategoryName:      conv.ConfigGet[string](cfg, "category", ""),
			ExcludeInteracted: conv.ConfigGet[bool](cfg, "exclude_interacted", false),
			TopK:              topK,
		}, nil
	case "user_cf":
		cf := &recall.UserCF{
			Interactions:  deps.Interactions,
			MinSimilarity: conv.ConfigGetFloat64(cfg, "min_similarity", 0),
			TopKUsers:     int(conv.ConfigGetInt64(cfg, "top_k_users", 0)),
			TopK:          topK,
			Types:         conv.SliceAnyToString(cfg["types"]),
		}
		if days := conv.ConfigGetInt64(cfg, "window_days", 0); days > 0 {
			cf.Window = time.Duration(days) * 24 * time.Hour
		}
		return cf, nil
	case "preference":
		return &recall.Preference{
			Catalog:      deps.Catalog,
			Interactions: deps.Interactions,
			TopK:         topK,
		}, nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
}

func buildFilterNode(deps Deps, cfg map[string]any) (pipeline.Node, error) {
	var filters []filter.Filter

	if conv.ConfigGet[bool](cfg, "exclude_interacted", false) {
		filters = append(filters, &filter.InteractedFilter{
			Interactions: deps.Interactions,
		})
	}
	for _, expr := range conv.SliceAnyToString(cfg["rules"]) {
		rf, err := filter.NewRuleFilter(expr)
		if err != nil {
			return nil, fmt.Errorf("compile filter rule %q: %w", expr, err)
		}
		filters = append(filters, rf)
	}

	return &filter.Node{Filters: filters}, nil
}

func buildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func buildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		LabelKey:  conv.ConfigGet[string](cfg, "label_key", ""),
		MaxPerKey: int(conv.ConfigGetInt64(cfg, "max_per_key", 0)),
	}, nil
}
