package filter

import (
	"context"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的规则过滤器：表达式求值为 true 的物品被过滤。
//
// 示例：
//   - `label.recall_source == "hot"` → 过滤掉热门兜底来源的物品
//   - `item.score < 0.05`            → 过滤掉低分候选
//   - `rctx.scene == "home" && label.category == "Archived"`
type RuleFilter struct {
	rule *dsl.Rule
}

// NewRuleFilter 编译表达式并创建规则过滤器。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	rule, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{rule: rule}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.rule == nil || f.rule.Expr == "" {
		return false, nil
	}
	hit, err := f.rule.Eval(item, rctx)
	if err != nil {
		// 表达式运行时错误（例如访问不存在的 key）不过滤该物品
		return false, nil
	}
	return hit, nil
}
