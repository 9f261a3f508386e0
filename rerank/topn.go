package rerank

import (
	"context"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在过滤后截取前 N 个商品。
// 引擎返回的候选已按分数排好序，过滤可能打薄结果，
// 截断放在 Pipeline 最后保证最终数量不超过请求的 limit。
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &filter.FilterNode{...},  // 过滤
//	        &rerank.TopNNode{N: 10},  // 截取 Top 10
//	    },
//	}
type TopNNode struct {
	// N 要保留的商品数量（Top N）
	// 如果 N <= 0，则返回所有商品（不截断）
	// 如果 N > len(items)，则返回所有商品
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 {
		return items, nil
	}

	if len(items) <= n.N {
		return items, nil
	}

	return items[:n.N], nil
}
