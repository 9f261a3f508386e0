package rerank

import (
	"context"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/pipeline"
)

// Diversity 是一个简单的多样性 ReRank 节点：限制每个商品类目的出现次数，
// 避免榜单被单一类目刷屏（例如全是 Electronics）。
//
// 类目来源优先级：
//   - label["category"].Value
//   - meta["category"] (string)
//
// 无类目信息的商品不参与限制，直接保留。
type Diversity struct {
	LabelKey    string // 默认 "category"
	MaxPerGroup int    // 每个类目最多保留几个，默认 1
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
	maxPer := n.MaxPerGroup
	if maxPer <= 0 {
		maxPer = 1
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
		if seen[cate] >= maxPer {
			continue
		}
		seen[cate]++
		out = append(out, it)
	}

	return out, nil
}
