package filter

import (
	"context"
	"encoding/json"

	"github.com/shoplab/shoprec/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 黑名单和客户屏蔽列表都以 JSON 字符串数组存储。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 从 Store 读取黑名单。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}

	return ids, nil
}

// GetCustomerBlocks 从 Store 读取客户的"不感兴趣"商品列表。
func (a *StoreAdapter) GetCustomerBlocks(ctx context.Context, customerID string, keyPrefix string) ([]string, error) {
	key := keyPrefix + ":" + customerID
	return a.GetBlacklist(ctx, key)
}
