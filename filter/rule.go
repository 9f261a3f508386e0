package filter

import (
	"context"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/pkg/dsl"
)

// RuleFilter 是规则过滤器，使用 CEL 表达式判断商品是否应该被过滤。
// 表达式返回 true 表示该商品被过滤掉。
//
// 示例：
//   - `item.meta.category == "Clearance"` → 过滤清仓类商品
//   - `item.score < 0.1` → 过滤低分候选
//   - `label.reason == "popular" && item.meta.price > 1000.0` → 过滤高价热门商品
type RuleFilter struct {
	// Expr 是 CEL 过滤表达式，空表达式不过滤任何商品
	Expr string
}

// NewRuleFilter 创建一个规则过滤器。
func NewRuleFilter(expr string) *RuleFilter {
	return &RuleFilter{Expr: expr}
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}

	ok, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		// 表达式错误时保留候选，不让规则问题影响推荐可用性
		return false, nil
	}
	return ok, nil
}
