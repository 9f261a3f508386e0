package recall

import (
	"context"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/model"
	"github.com/shoplab/shoprec/pkg/utils"
)

// Popular 是全局热门引擎，也是无条件兜底策略。
//
// 热门榜在快照构建期算好：总购买量降序、总收入降序、商品 ID 升序。
// 分数就是原始购买量（与 CF/Content 的归一化分数量纲不同，
// 由 reason label 区分）。不依赖任何客户信号，因此对未知客户也不报错。
type Popular struct {
	Snapshots SnapshotProvider
}

func (r *Popular) Name() string { return "recall.popular" }

// TopPopular 返回购买量最高的 k 个商品。
func (r *Popular) TopPopular(ctx context.Context, k int) ([]*core.Item, error) {
	snap, err := activeSnapshot(r.Snapshots)
	if err != nil {
		return nil, err
	}
	return r.topPopularOn(snap, k, core.ReasonPopular), nil
}

// Recommend 实现 core.Recommender；customerID 被忽略（热门无个性化信号）。
func (r *Popular) Recommend(ctx context.Context, customerID string, limit int) ([]*core.Item, error) {
	return r.TopPopular(ctx, limit)
}

// topPopularOn 在固定快照上取热门榜，供 Hybrid 兜底复用。
func (r *Popular) topPopularOn(snap *model.Snapshot, k int, reason string) []*core.Item {
	if k <= 0 {
		k = defaultTopK
	}
	entries := snap.Popularity()
	if len(entries) > k {
		entries = entries[:k]
	}
	out := make([]*core.Item, 0, len(entries))
	for _, e := range entries {
		it := core.NewItem(e.ProductID)
		it.Score = e.Count
		it.PutLabel("reason", utils.Label{Value: reason, Source: "recall"})
		it.PutLabel("strategy", utils.Label{Value: string(core.StrategyPopular), Source: "recall"})
		out = append(out, it)
	}
	return out
}
