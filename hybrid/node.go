package hybrid

import (
	"context"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pipeline"
)

// BlendNode 把 Combiner 封装为 pipeline Node，作为混合阶段使用。
// 上游传入的 items 会被忽略：混合器自己驱动各路策略拉取候选。
type BlendNode struct {
	Combiner *Combiner

	// N 混合输出的物品数
	N int
}

func (n *BlendNode) Name() string {
	return "hybrid.blend"
}

func (n *BlendNode) Kind() pipeline.Kind {
	return pipeline.KindBlend
}

func (n *BlendNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if n.Combiner == nil {
		return nil, nil
	}
	return n.Combiner.Recommend(ctx, rctx, n.N), nil
}
