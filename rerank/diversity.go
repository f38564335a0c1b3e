package rerank

import (
	"context"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pipeline"
)

// Diversity 是一个类别多样性 ReRank 节点：限制同一类别最多出现 MaxPerKey 次。
// 类别来源优先级：
// - label["category"].Value
// - meta["category"] (string)
type Diversity struct {
	LabelKey  string // 默认 "category"
	MaxPerKey int    // 每个类别最多保留的数量，默认 1
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	key := n.LabelKey
	if key == "" {
		key = "category"
	}
	max := n.MaxPerKey
	if max <= 0 {
		max = 1
	}

	seen := make(map[string]int, 32)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		cate := ""
		if it.Labels != nil {
			if lbl, ok := it.Labels[key]; ok {
				cate = lbl.Value
			}
		}
		if cate == "" && it.Meta != nil {
			if v, ok := it.Meta[key]; ok {
				if s, ok := v.(string); ok {
					cate = s
				}
			}
		}

		if cate == "" {
			out = append(out, it)
			continue
		}
		if seen[cate] >= max {
			continue
		}
		seen[cate]++
		out = append(out, it)
	}

	return out, nil
}
