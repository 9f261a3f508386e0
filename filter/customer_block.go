package filter

import (
	"context"

	"github.com/shoplab/shoprec/core"
)

// CustomerBlockFilter 是客户屏蔽过滤器，过滤掉客户标记为"不感兴趣"的商品。
type CustomerBlockFilter struct {
	// Store 用于从存储中读取客户屏蔽列表
	Store CustomerBlockStore

	// KeyPrefix 是 Store 中的 key 前缀，实际 key 为 {KeyPrefix}:{CustomerID}
	KeyPrefix string
}

// CustomerBlockStore 是客户屏蔽存储接口。
type CustomerBlockStore interface {
	// GetCustomerBlocks 获取客户屏蔽的商品 ID 列表
	GetCustomerBlocks(ctx context.Context, customerID string, keyPrefix string) ([]string, error)
}

// NewCustomerBlockFilter 创建一个客户屏蔽过滤器。
func NewCustomerBlockFilter(storeAdapter *StoreAdapter, keyPrefix string) *CustomerBlockFilter {
	var store CustomerBlockStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &CustomerBlockFilter{
		Store:     store,
		KeyPrefix: keyPrefix,
	}
}

func (f *CustomerBlockFilter) Name() string {
	return "filter.customer_block"
}

func (f *CustomerBlockFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.CustomerID == "" {
		return false, nil
	}

	if f.Store == nil {
		return false, nil
	}

	keyPrefix := f.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "customer:block"
	}

	blockedIDs, err := f.Store.GetCustomerBlocks(ctx, rctx.CustomerID, keyPrefix)
	if err != nil {
		return false, nil
	}

	for _, id := range blockedIDs {
		if item.ID == id {
			return true, nil
		}
	}

	return false, nil
}
