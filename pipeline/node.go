package pipeline

import (
	"context"

	"github.com/shoplab/shoprec/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：推荐引擎生成候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除黑名单/已购/规则命中的候选
	KindReRank      Kind = "rerank"      // 重排阶段：截断、多样性打散等业务调优
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充商品信息或最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态，
// 过滤做剔除、重排做顺序调整，都是同一个签名。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
