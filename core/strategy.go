package core

import "context"

// Strategy 是推荐策略的封闭枚举。
// 字符串参数只在服务边界解析一次（ParseStrategy），
// 深层打分逻辑通过 Recommender 接口分发，不做字符串分支。
type Strategy string

const (
	StrategyCF      Strategy = "cf"      // 协同过滤（customer-customer 相似度）
	StrategyContent Strategy = "content" // 基于内容（TF-IDF 商品相似度）
	StrategyHybrid  Strategy = "hybrid"  // 加权混合（默认 60% CF + 40% Content）
	StrategyPopular Strategy = "popular" // 热门兜底（全局购买次数）
)

// ParseStrategy 在边界解析策略字符串；未知策略返回 INVALID_CONFIG 错误。
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyCF, StrategyContent, StrategyHybrid, StrategyPopular:
		return Strategy(s), nil
	default:
		return "", NewDomainError(ModuleEngine, ErrorCodeInvalidConfig, "engine: unknown strategy: "+s)
	}
}

// Recommender 是四个引擎共享的推荐接口。
// 返回空列表表示“无候选”（EmptyResult），不是错误；
// 未知客户返回 NOT_FOUND；模型未就绪返回 UNAVAILABLE。
type Recommender interface {
	// Name 返回引擎名称（用于日志/监控/reason label）
	Name() string

	// Recommend 为客户生成至多 limit 条候选，按分数降序、同分按商品 ID 升序
	Recommend(ctx context.Context, customerID string, limit int) ([]*Item, error)
}
