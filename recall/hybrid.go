package recall

import (
	"context"
	"fmt"
	"math"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/pkg/utils"
	"github.com/shoplab/shoprec/pkg/vec"
)

// 默认混合权重：60% 协同过滤 + 40% 内容。
const (
	DefaultCFWeight      = 0.6
	DefaultContentWeight = 0.4
)

const weightTolerance = 1e-9

// Hybrid 是混合引擎：把 CF 与 Content 的候选按配置权重合并为一个榜单。
//
// 合并流程：
//  1. 两个策略各取 2×limit 个原始候选
//  2. 各自在自己的候选集内做 min-max 归一化到 [0,1]
//     （不在全目录上归一化，避免单策略因量纲差异被压制）
//  3. final[p] = cfWeight × cf_norm[p] + contentWeight × content_norm[p]
//  4. 单侧为空时权重全部让渡给另一侧（不稀释）；
//     两侧都空（全新客户）时整体委托热门榜，reason 标记兜底
//  5. TopN，同分按商品 ID 升序
//
// 权重在构造期校验（INVALID_CONFIG），绝不在请求期报配置错。
// 未知客户返回 NOT_FOUND——热门兜底只对“已知但无历史”的客户生效。
type Hybrid struct {
	cf      *Collaborative
	content *Content
	popular *Popular

	cfWeight      float64
	contentWeight float64
}

// NewHybrid 构造混合引擎并校验权重。
// 两个权重都必须落在 (0,1) 且相加为 1。
func NewHybrid(cf *Collaborative, content *Content, popular *Popular, cfWeight, contentWeight float64) (*Hybrid, error) {
	if cf == nil || content == nil || popular == nil {
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			"hybrid: all three engines are required")
	}
	if err := ValidateWeights(cfWeight, contentWeight); err != nil {
		return nil, err
	}
	return &Hybrid{
		cf:            cf,
		content:       content,
		popular:       popular,
		cfWeight:      cfWeight,
		contentWeight: contentWeight,
	}, nil
}

// ValidateWeights 校验混合权重：各自落在 (0,1)、相加为 1。
func ValidateWeights(cfWeight, contentWeight float64) error {
	if cfWeight <= 0 || cfWeight >= 1 || contentWeight <= 0 || contentWeight >= 1 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("hybrid: weights must be in (0,1), got cf=%v content=%v", cfWeight, contentWeight))
	}
	if math.Abs(cfWeight+contentWeight-1.0) > weightTolerance {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("hybrid: weights must sum to 1.0, got %v", cfWeight+contentWeight))
	}
	return nil
}

func (r *Hybrid) Name() string { return "recall.hybrid" }

// Weights 返回当前配置的 (cf, content) 权重。
func (r *Hybrid) Weights() (float64, float64) {
	return r.cfWeight, r.contentWeight
}

// Recommend 为客户生成混合推荐。
func (r *Hybrid) Recommend(ctx context.Context, customerID string, limit int) ([]*core.Item, error) {
	if limit <= 0 {
		limit = defaultTopK
	}

	// 整个请求固定在同一个快照上：
	// 并发 retrain 也不可能把新旧矩阵混进一次合并
	snap, err := activeSnapshot(r.cf.Snapshots)
	if err != nil {
		return nil, err
	}

	// 未知客户是显式错误，不做静默兜底
	if _, ok := snap.CustomerIndex(customerID); !ok {
		return nil, core.ErrCustomerNotFound
	}

	// 每侧取 2×limit 候选，给归一化与合并留余量
	fetch := limit * 2
	cfItems, err := r.cf.recommendOn(snap, customerID, fetch)
	if err != nil {
		return nil, err
	}
	contentItems, err := r.content.recommendOn(snap, customerID, fetch)
	if err != nil {
		return nil, err
	}

	// 两侧都空：全新客户，整体委托热门榜并标记兜底
	if len(cfItems) == 0 && len(contentItems) == 0 {
		return r.popular.topPopularOn(snap, limit, core.ReasonPopularityFallback), nil
	}

	cfScores := itemScores(cfItems)
	contentScores := itemScores(contentItems)

	// 各策略在自己的候选集内归一化
	cfNorm := vec.MinMaxNormalize(cfScores)
	contentNorm := vec.MinMaxNormalize(contentScores)

	// 单侧为空时权重让渡，避免缺失策略稀释分数
	wcf, wct := r.cfWeight, r.contentWeight
	switch {
	case len(cfNorm) == 0:
		wcf, wct = 0, 1
	case len(contentNorm) == 0:
		wcf, wct = 1, 0
	}

	final := make(map[string]float64, len(cfNorm)+len(contentNorm))
	for id, s := range cfNorm {
		final[id] += wcf * s
	}
	for id, s := range contentNorm {
		final[id] += wct * s
	}

	out := make([]*core.Item, 0, limit)
	for _, s := range rankTop(final, limit) {
		it := core.NewItem(s.id)
		it.Score = s.score
		it.PutLabel("reason", utils.Label{Value: core.ReasonHybrid, Source: "combine"})
		it.PutLabel("strategy", utils.Label{Value: string(core.StrategyHybrid), Source: "combine"})
		out = append(out, it)
	}
	return out, nil
}

func itemScores(items []*core.Item) map[string]float64 {
	out := make(map[string]float64, len(items))
	for _, it := range items {
		out[it.ID] = it.Score
	}
	return out
}
