// Package shoprec 是一个电商商品推荐引擎（Shop Recommender）。
//
// 设计要点：
// - Snapshot-first: 训练产出不可变快照，原子切换，请求期零锁读取
// - 四种策略: cf（协同过滤）/ content（TF-IDF 内容）/ hybrid（加权混合）/ popular（热门）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - Node 可扩展: 引擎产出后的过滤与重排通过 Pipeline Node 串联，自定义 Node 即可插拔
package shoprec

import "github.com/shoplab/shoprec/pipeline"

// 轻量 facade：便于用户直接 import "shoprec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
