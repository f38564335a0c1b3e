package recall

import (
	"context"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pipeline"
)

// Fanout 同时实现 pipeline.Node，可直接作为 Pipeline 的召回节点使用。
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return n.Recall(ctx, rctx)
}
