package recall

import (
	"context"

	"github.com/rushteam/recsite/core"
)

// Source 表示一个可复用的召回源（内容相似/CF/偏好/热门/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
//
// 约定：数据不足（无历史、无共现、矩阵为空）返回 (nil, nil)，
// 不算错误；错误只表示上游读取失败。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// OrElse 把兜底策略显式组合进召回源：primary 出错或结果为空时，
// 改用 fallback 的结果。替代"异常当控制流"的隐式兜底写法，
// 组合本身可以单测。
func OrElse(primary, fallback Source) Source {
	return &orElse{primary: primary, fallback: fallback}
}

type orElse struct {
	primary  Source
	fallback Source
}

func (o *orElse) Name() string {
	if o.primary == nil {
		return o.fallback.Name()
	}
	return o.primary.Name()
}

func (o *orElse) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if o.primary != nil {
		items, err := o.primary.Recall(ctx, rctx)
		if err == nil && len(items) > 0 {
			return items, nil
		}
	}
	if o.fallback == nil {
		return nil, nil
	}
	return o.fallback.Recall(ctx, rctx)
}
