package core

// 推荐理由常量。响应中的 reason 与 score 量纲绑定：
// CF/Content/Hybrid 的分数经归一化（近似 [0,1]），
// Popular / PopularityFallback 的分数是原始购买次数。
const (
	ReasonCustomersLikeYou   = "customers_like_you"  // CF：相似客户购买过
	ReasonContentBased       = "content_based"       // Content：与已购商品相似
	ReasonHybrid             = "hybrid"              // 混合加权
	ReasonPopular            = "popular"             // 热门策略
	ReasonPopularityFallback = "popularity_fallback" // 冷启动兜底（hybrid 无任何个性化信号）
)

// Recommendation 是服务边界的响应结构。
// Name/Category/Price 只用于展示补全，不参与排序。
type Recommendation struct {
	ProductID string  `json:"product_id"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
	Strategy  string  `json:"strategy"`
	Name      string  `json:"name,omitempty"`
	Category  string  `json:"category,omitempty"`
	Price     float64 `json:"price,omitempty"`
}

// SimilarCustomer 是 similar-customers 查询的响应结构。
type SimilarCustomer struct {
	CustomerID string  `json:"customer_id"`
	Score      float64 `json:"similarity_score"`
}

// SimilarProduct 是 similar-products 查询的响应结构。
type SimilarProduct struct {
	ProductID string  `json:"product_id"`
	Score     float64 `json:"similarity_score"`
}
