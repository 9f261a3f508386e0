package model

import (
	"time"

	"github.com/shoplab/shoprec/core"
)

// PopularityEntry 是热门榜的一项：score 即原始购买量。
type PopularityEntry struct {
	ProductID string
	Count     float64 // 总购买量（聚合 quantity）
	Revenue   float64 // 总收入（quantity × price），仅用于 tie-break
}

// Snapshot 是一次训练产出的不可变模型快照：
// 交互矩阵、客户相似度矩阵、商品特征矩阵、商品相似度矩阵、热门榜、构建时间。
//
// 快照一经发布绝不修改；读路径不加任何锁。
// 同一时刻只有一个快照处于 active 状态（由 Manager 原子替换），
// 已持有旧快照引用的读者继续用旧快照完成请求。
type Snapshot struct {
	customerIDs []string // 升序，矩阵行序
	productIDs  []string // 升序，矩阵列序
	customerIdx map[string]int
	productIdx  map[string]int

	// quantities[c][p] = 客户 c 对商品 p 的聚合购买量（无交互为 0）
	quantities [][]float64

	// customerVectors 是行 L2 归一化后的客户向量（快照生命周期内只读）
	customerVectors [][]float64

	// customerSim[i][j] = 客户 i 与 j 的余弦相似度
	customerSim [][]float64

	// productVectors 是商品文本的 TF-IDF 特征向量（L2 归一化）
	productVectors [][]float64

	// productSim[i][j] = 商品 i 与 j 的余弦相似度
	productSim [][]float64

	// popularity 按 Count 降序、Revenue 降序、ProductID 升序排好
	popularity []PopularityEntry

	products map[string]core.Product

	interactionCount int
	sparsity         float64
	builtAt          time.Time
	version          string
}

// CustomerIndex 返回客户在矩阵中的行号。
func (s *Snapshot) CustomerIndex(customerID string) (int, bool) {
	idx, ok := s.customerIdx[customerID]
	return idx, ok
}

// ProductIndex 返回商品在矩阵中的列号。
func (s *Snapshot) ProductIndex(productID string) (int, bool) {
	idx, ok := s.productIdx[productID]
	return idx, ok
}

// CustomerIDs 返回矩阵行序的客户 ID 列表（只读）。
func (s *Snapshot) CustomerIDs() []string { return s.customerIDs }

// ProductIDs 返回矩阵列序的商品 ID 列表（只读）。
func (s *Snapshot) ProductIDs() []string { return s.productIDs }

// Quantity 返回客户 ci 对商品 pi 的聚合购买量。
func (s *Snapshot) Quantity(ci, pi int) float64 {
	return s.quantities[ci][pi]
}

// CustomerRow 返回客户 ci 的原始购买量行（只读）。
func (s *Snapshot) CustomerRow(ci int) []float64 {
	return s.quantities[ci]
}

// CustomerVector 返回客户 ci 归一化后的交互向量（只读）。
func (s *Snapshot) CustomerVector(ci int) []float64 {
	return s.customerVectors[ci]
}

// CustomerSimilarity 返回客户 i 与 j 的相似度。
func (s *Snapshot) CustomerSimilarity(i, j int) float64 {
	return s.customerSim[i][j]
}

// ProductVector 返回商品 pi 的 TF-IDF 特征向量（只读）。
func (s *Snapshot) ProductVector(pi int) []float64 {
	return s.productVectors[pi]
}

// ProductSimilarity 返回商品 i 与 j 的相似度。
func (s *Snapshot) ProductSimilarity(i, j int) float64 {
	return s.productSim[i][j]
}

// Popularity 返回热门榜（只读，已排序）。
func (s *Snapshot) Popularity() []PopularityEntry { return s.popularity }

// Product 返回商品元信息（响应补全用）。
func (s *Snapshot) Product(productID string) (core.Product, bool) {
	p, ok := s.products[productID]
	return p, ok
}

// CustomerCount 返回矩阵中的客户数。
func (s *Snapshot) CustomerCount() int { return len(s.customerIDs) }

// ProductCount 返回矩阵中的商品数。
func (s *Snapshot) ProductCount() int { return len(s.productIDs) }

// InteractionCount 返回原始购买记录条数。
func (s *Snapshot) InteractionCount() int { return s.interactionCount }

// Sparsity 返回交互矩阵中零元素的占比。
func (s *Snapshot) Sparsity() float64 { return s.sparsity }

// BuiltAt 返回快照构建完成时间。
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Version 返回快照版本号（向量持久化用）。
func (s *Snapshot) Version() string { return s.version }
