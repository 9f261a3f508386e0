package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/model"
	"github.com/shoplab/shoprec/pipeline"
	"github.com/shoplab/shoprec/pkg/utils"
	"github.com/shoplab/shoprec/recall"
)

// 结果数量的边界。limit <= 0 取默认值，超过上限截断到上限。
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// cacheKeyPrefix 是推荐结果缓存的统一前缀，训练完成后按它整体失效。
const cacheKeyPrefix = "rec:"

// 训练完成后导出到 KV 后端的键：热门榜有序集合 + 商品元信息。
// 外部系统直接 ZRange/BatchGet 即可读榜，不必经过推荐服务。
const (
	popularSetKey    = "popular"
	productKeyPrefix = "product:"
)

// Service 是推荐系统的服务门面：
// 策略分发、结果缓存、后处理 Pipeline、响应补全都在这一层。
// 四个引擎共享同一个 model.Manager 的快照。
type Service struct {
	manager *model.Manager

	cf      *recall.Collaborative
	content *recall.Content
	popular *recall.Popular
	hybrid  *recall.Hybrid

	cache    core.Store
	cacheTTL int // 秒

	pipe   *pipeline.Pipeline
	logger *slog.Logger
}

// Option 配置 Service 的可选项。
type Option func(*options)

type options struct {
	neighborhoodSize     int
	cfMinSimilarity      float64
	contentMinSimilarity float64
	topMSimilar          int
	cfWeight             float64
	contentWeight        float64
	cache                core.Store
	cacheTTL             int
	pipe                 *pipeline.Pipeline
	logger               *slog.Logger
}

// WithNeighborhoodSize 设置 CF 引擎的邻域大小 K'。
func WithNeighborhoodSize(k int) Option {
	return func(o *options) { o.neighborhoodSize = k }
}

// WithCFMinSimilarity 设置 CF 引擎的邻居相似度下限。
// 两个引擎的相似度量纲不同，阈值各自独立配置。
func WithCFMinSimilarity(s float64) Option {
	return func(o *options) { o.cfMinSimilarity = s }
}

// WithContentMinSimilarity 设置内容引擎的相似度下限。
func WithContentMinSimilarity(s float64) Option {
	return func(o *options) { o.contentMinSimilarity = s }
}

// WithTopMSimilar 设置内容引擎每个已购商品取的相似商品数。
func WithTopMSimilar(m int) Option {
	return func(o *options) { o.topMSimilar = m }
}

// WithHybridWeights 设置混合策略的 (cf, content) 权重。
func WithHybridWeights(cf, content float64) Option {
	return func(o *options) { o.cfWeight, o.contentWeight = cf, content }
}

// WithCache 启用推荐结果缓存，ttl 单位秒。
func WithCache(s core.Store, ttl int) Option {
	return func(o *options) { o.cache, o.cacheTTL = s, ttl }
}

// WithPipeline 设置引擎产出后运行的后处理 Pipeline（过滤、重排）。
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(o *options) { o.pipe = p }
}

// WithLogger 设置结构化日志。
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New 创建推荐服务。权重等配置错误在这里暴露，不会留到请求期。
func New(manager *model.Manager, opts ...Option) (*Service, error) {
	if manager == nil {
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			"service: model manager is required")
	}

	o := &options{
		cfWeight:      recall.DefaultCFWeight,
		contentWeight: recall.DefaultContentWeight,
	}
	for _, opt := range opts {
		opt(o)
	}

	cf := &recall.Collaborative{
		Snapshots:        manager,
		NeighborhoodSize: o.neighborhoodSize,
		MinSimilarity:    o.cfMinSimilarity,
	}
	content := &recall.Content{
		Snapshots:     manager,
		TopMSimilar:   o.topMSimilar,
		MinSimilarity: o.contentMinSimilarity,
	}
	popular := &recall.Popular{Snapshots: manager}

	hybrid, err := recall.NewHybrid(cf, content, popular, o.cfWeight, o.contentWeight)
	if err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		manager:  manager,
		cf:       cf,
		content:  content,
		popular:  popular,
		hybrid:   hybrid,
		cache:    o.cache,
		cacheTTL: o.cacheTTL,
		pipe:     o.pipe,
		logger:   logger,
	}, nil
}

// Recommend 为客户生成推荐。
//
// strategy 必须是 cf / content / hybrid / popular 之一；
// limit <= 0 取 DefaultLimit，超过 MaxLimit 截断。
// 未知客户返回 NOT_FOUND，模型未训练返回 UNAVAILABLE，
// 有历史但无可推荐商品返回空列表（不是错误）。
func (s *Service) Recommend(ctx context.Context, strategy string, customerID string, limit int) ([]core.Recommendation, error) {
	st, err := core.ParseStrategy(strategy)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit)

	// 缓存命中直接返回
	cacheKey := fmt.Sprintf("%s%s:%s:%d", cacheKeyPrefix, st, customerID, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached []core.Recommendation
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			// 缓存内容损坏时按未命中处理
		}
	}

	items, err := s.engineFor(st).Recommend(ctx, customerID, limit)
	if err != nil {
		return nil, err
	}

	// 先补全 meta 再跑 Pipeline，让规则过滤和多样性重排能看到类目/价格
	snap := s.manager.Active()
	s.enrich(snap, items)

	if s.pipe != nil {
		rctx := &core.RecommendContext{CustomerID: customerID, Scene: string(st)}
		items, err = s.pipe.Run(ctx, rctx, items)
		if err != nil {
			return nil, err
		}
	}

	out := s.toRecommendations(st, items)

	if s.cache != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, s.cacheTTL); err != nil {
				s.logger.Warn("cache set failed", "key", cacheKey, "err", err)
			}
		}
	}

	return out, nil
}

// SimilarCustomers 返回与目标客户最相似的 k 个客户。
func (s *Service) SimilarCustomers(ctx context.Context, customerID string, k int) ([]core.SimilarCustomer, error) {
	return s.cf.SimilarCustomers(ctx, customerID, clampLimit(k))
}

// SimilarProducts 返回与目标商品内容最相似的 k 个商品。
func (s *Service) SimilarProducts(ctx context.Context, productID string, k int) ([]core.SimilarProduct, error) {
	return s.content.SimilarProducts(ctx, productID, clampLimit(k))
}

// Train 触发一次全量训练。成功后整体失效推荐结果缓存，
// 避免新快照和旧缓存并存；若缓存后端支持 KV 扩展接口，
// 同时把热门榜和商品元信息导出供外部系统读取。
func (s *Service) Train(ctx context.Context) (*model.TrainReport, error) {
	report, err := s.manager.Train(ctx)
	if err != nil {
		return report, err
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPrefix(ctx, cacheKeyPrefix); err != nil {
			s.logger.Warn("cache invalidation failed", "prefix", cacheKeyPrefix, "err", err)
		}
		if kv, ok := s.cache.(core.KeyValueStore); ok {
			if snap := s.manager.Active(); snap != nil {
				if err := s.exportPopularity(ctx, kv, snap); err != nil {
					s.logger.Warn("popularity export failed", "err", err)
				}
			}
		}
	}

	return report, nil
}

// exportPopularity 把热门榜写入有序集合、商品元信息批量写入 KV。
// 先清掉上一版导出，避免下架商品残留在榜单里。导出失败不影响训练结果。
func (s *Service) exportPopularity(ctx context.Context, kv core.KeyValueStore, snap *model.Snapshot) error {
	if err := kv.Delete(ctx, popularSetKey); err != nil {
		return err
	}
	if err := kv.DeleteByPrefix(ctx, productKeyPrefix); err != nil {
		return err
	}

	for _, e := range snap.Popularity() {
		if err := kv.ZAdd(ctx, popularSetKey, e.Count, e.ProductID); err != nil {
			return err
		}
	}

	kvs := make(map[string][]byte, snap.ProductCount())
	for _, id := range snap.ProductIDs() {
		p, ok := snap.Product(id)
		if !ok {
			continue
		}
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		kvs[productKeyPrefix+id] = data
	}
	if len(kvs) == 0 {
		return nil
	}
	return kv.BatchSet(ctx, kvs)
}

// Ready 返回是否已有可用快照。
func (s *Service) Ready() bool {
	return s.manager.Ready()
}

// Metrics 返回当前模型的统计信息。
func (s *Service) Metrics() model.Metrics {
	return s.manager.Metrics()
}

func (s *Service) engineFor(st core.Strategy) core.Recommender {
	switch st {
	case core.StrategyCF:
		return s.cf
	case core.StrategyContent:
		return s.content
	case core.StrategyPopular:
		return s.popular
	default:
		return s.hybrid
	}
}

// enrich 把商品展示信息写进 item.Meta 和 category label。
// 展示补全允许使用最新快照，即使引擎用的是上一个版本。
func (s *Service) enrich(snap *model.Snapshot, items []*core.Item) {
	if snap == nil {
		return
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		p, ok := snap.Product(it.ID)
		if !ok {
			continue
		}
		if it.Meta == nil {
			it.Meta = make(map[string]any, 3)
		}
		it.Meta["name"] = p.Name
		it.Meta["category"] = p.Category
		it.Meta["price"] = p.Price
		it.PutLabel("category", utils.Label{Value: p.Category, Source: "catalog"})
	}
}

func (s *Service) toRecommendations(st core.Strategy, items []*core.Item) []core.Recommendation {
	out := make([]core.Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		rec := core.Recommendation{
			ProductID: it.ID,
			Score:     it.Score,
			Strategy:  string(st),
		}
		if lbl, ok := it.GetLabel("reason"); ok {
			rec.Reason = lbl.Value
		}
		if it.Meta != nil {
			if v, ok := it.Meta["name"].(string); ok {
				rec.Name = v
			}
			if v, ok := it.Meta["category"].(string); ok {
				rec.Category = v
			}
			if v, ok := it.Meta["price"].(float64); ok {
				rec.Price = v
			}
		}
		out = append(out, rec)
	}
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
