package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shoplab/shoprec/core"
)

// StoreVectorAdapter 把 core.KeyValueStore 适配为 core.VectorStore。
// 同一版本同一种类的向量成批放进一个 Hash：
//
//	key   = vec:{kind}:{version}
//	field = 客户/商品 ID
//	value = JSON 编码的 []float64
//
// Redis 后端即 HSET/HGETALL，内存后端行为一致。
type StoreVectorAdapter struct {
	store core.KeyValueStore
}

// NewStoreVectorAdapter 创建向量持久化适配器。
func NewStoreVectorAdapter(s core.KeyValueStore) *StoreVectorAdapter {
	return &StoreVectorAdapter{store: s}
}

func vectorKey(kind core.VectorKind, version string) string {
	return fmt.Sprintf("vec:%s:%s", kind, version)
}

// PersistVector 写入一条向量。
func (a *StoreVectorAdapter) PersistVector(ctx context.Context, kind core.VectorKind, id string, vector []float64, version string) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	return a.store.HSet(ctx, vectorKey(kind, version), id, data)
}

// LoadVectors 读取某版本下某种类的全部向量。
func (a *StoreVectorAdapter) LoadVectors(ctx context.Context, kind core.VectorKind, version string) (map[string][]float64, error) {
	fields, err := a.store.HGetAll(ctx, vectorKey(kind, version))
	if err != nil {
		return nil, err
	}

	out := make(map[string][]float64, len(fields))
	for id, data := range fields {
		var vec []float64
		if err := json.Unmarshal(data, &vec); err != nil {
			return nil, fmt.Errorf("decode vector %s/%s: %w", kind, id, err)
		}
		out[id] = vec
	}
	return out, nil
}

var _ core.VectorStore = (*StoreVectorAdapter)(nil)
