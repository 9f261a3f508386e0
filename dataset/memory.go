package dataset

import (
	"context"

	"github.com/shoplab/shoprec/core"
)

// MemorySource 是内存实现的 DataSource，用于测试/开发/原型。
// 数据在构造时一次性给定，Load 返回副本避免调用方改动底层切片。
type MemorySource struct {
	Interactions []core.Interaction
	Products     []core.Product
	Customers    []string
}

// NewMemorySource 创建内存数据源。
func NewMemorySource(interactions []core.Interaction, products []core.Product, customers []string) *MemorySource {
	return &MemorySource{
		Interactions: interactions,
		Products:     products,
		Customers:    customers,
	}
}

func (s *MemorySource) Name() string { return "memory" }

func (s *MemorySource) LoadInteractions(_ context.Context) ([]core.Interaction, error) {
	out := make([]core.Interaction, len(s.Interactions))
	copy(out, s.Interactions)
	return out, nil
}

func (s *MemorySource) LoadProducts(_ context.Context) ([]core.Product, error) {
	out := make([]core.Product, len(s.Products))
	copy(out, s.Products)
	return out, nil
}

func (s *MemorySource) LoadCustomers(_ context.Context) ([]string, error) {
	out := make([]string, len(s.Customers))
	copy(out, s.Customers)
	return out, nil
}

var _ core.DataSource = (*MemorySource)(nil)
