package filter

import (
	"context"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/model"
)

// PurchasedFilter 是已购过滤器，过滤掉客户已经购买过的商品。
// 购买历史直接来自当前模型快照的交互矩阵，不依赖外部存储。
//
// 召回引擎本身已排除已购商品；此过滤器用于兜底场景
// （例如热门榜、外部注入的候选）仍会带出已购商品的情况。
type PurchasedFilter struct {
	// Snapshots 提供当前活跃快照
	Snapshots SnapshotProvider
}

// SnapshotProvider 提供当前活跃的模型快照。
type SnapshotProvider interface {
	Active() *model.Snapshot
}

func (f *PurchasedFilter) Name() string {
	return "filter.purchased"
}

func (f *PurchasedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.CustomerID == "" {
		return false, nil
	}
	if f.Snapshots == nil {
		return false, nil
	}

	snap := f.Snapshots.Active()
	if snap == nil {
		return false, nil
	}

	ci, ok := snap.CustomerIndex(rctx.CustomerID)
	if !ok {
		return false, nil
	}
	pi, ok := snap.ProductIndex(item.ID)
	if !ok {
		return false, nil
	}

	return snap.Quantity(ci, pi) > 0, nil
}
