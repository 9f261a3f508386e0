package pipeline

import (
	"context"

	"github.com/shoplab/shoprec/core"
)

// Pipeline 把引擎产出的候选集串过一串后处理 Node（过滤、重排）。
// 推荐服务在引擎召回之后、response 组装之前运行它。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
