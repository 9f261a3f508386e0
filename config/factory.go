package config

import (
	"fmt"

	"github.com/shoplab/shoprec/filter"
	"github.com/shoplab/shoprec/pipeline"
	"github.com/shoplab/shoprec/pkg/conv"
	"github.com/shoplab/shoprec/rerank"
)

// DefaultFactory 返回一个包含所有内置 Node 的默认工厂。
//
// 配置示例：
//
//	pipeline:
//	  name: post-process
//	  nodes:
//	    - type: filter
//	      config:
//	        blacklist: ["P99"]
//	        rule: 'item.meta.category == "Clearance"'
//	    - type: rerank.diversity
//	      config:
//	        max_per_group: 3
//	    - type: rerank.topn
//	      config:
//	        n: 10
func DefaultFactory() *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	factory.Register("filter", buildFilterNode)
	factory.Register("rerank.topn", buildTopNNode)
	factory.Register("rerank.diversity", buildDiversityNode)

	return factory
}

func buildFilterNode(config map[string]interface{}) (pipeline.Node, error) {
	node := &filter.FilterNode{}

	if ids := conv.SliceAnyToString(config["blacklist"]); len(ids) > 0 {
		node.Filters = append(node.Filters, filter.NewBlacklistFilter(ids, nil, ""))
	}
	if expr := conv.ConfigGet[string](config, "rule", ""); expr != "" {
		node.Filters = append(node.Filters, filter.NewRuleFilter(expr))
	}

	if len(node.Filters) == 0 {
		return nil, fmt.Errorf("filter node requires at least one of: blacklist, rule")
	}
	return node, nil
}

func buildTopNNode(config map[string]interface{}) (pipeline.Node, error) {
	n := int(conv.ConfigGetInt64(config, "n", 0))
	if n <= 0 {
		return nil, fmt.Errorf("rerank.topn requires n > 0")
	}
	return &rerank.TopNNode{N: n}, nil
}

func buildDiversityNode(config map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{
		LabelKey:    conv.ConfigGet[string](config, "label_key", ""),
		MaxPerGroup: int(conv.ConfigGetInt64(config, "max_per_group", 0)),
	}, nil
}
