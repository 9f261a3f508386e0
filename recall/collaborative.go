package recall

import (
	"context"
	"sort"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/model"
	"github.com/shoplab/shoprec/pkg/utils"
)

// Collaborative 是基于客户的协同过滤引擎（User-based CF）。
//
// 核心思想："购买模式相似的客户，会买相似的商品"
//
// 算法流程：
//  1. 客户 → 归一化购买向量（快照构建期完成）
//  2. 从快照的客户相似度矩阵取目标客户的一行
//  3. 取 TopK′ 相似客户（邻域大小独立于响应条数）
//  4. 推荐邻居买过、而目标客户没买过的商品：
//     score[p] = Σ(similarity × 邻居购买量)
//
// 纯读操作，无副作用；每次调用只用一个快照引用。
type Collaborative struct {
	Snapshots SnapshotProvider

	// NeighborhoodSize 计算时考虑的 TopK′ 个相似客户；<= 0 时默认 20
	NeighborhoodSize int

	// MinSimilarity 邻居相似度下限（严格大于才算邻居）；默认 0
	MinSimilarity float64
}

func (r *Collaborative) Name() string { return "recall.cf" }

const defaultNeighborhoodSize = 20

// SimilarCustomers 返回至多 k 个最相似的客户，排除自身，
// 相似度降序、同分按客户 ID 升序。未知客户返回 NOT_FOUND。
func (r *Collaborative) SimilarCustomers(ctx context.Context, customerID string, k int) ([]core.SimilarCustomer, error) {
	snap, err := activeSnapshot(r.Snapshots)
	if err != nil {
		return nil, err
	}
	neighbors, err := r.neighbors(snap, customerID, k)
	if err != nil {
		return nil, err
	}
	out := make([]core.SimilarCustomer, 0, len(neighbors))
	for _, n := range neighbors {
		out = append(out, core.SimilarCustomer{CustomerID: n.id, Score: n.score})
	}
	return out, nil
}

// Recommend 为客户生成协同过滤推荐。
// 已购商品无条件排除；无邻居（冷客户）返回空列表让调用方兜底。
func (r *Collaborative) Recommend(ctx context.Context, customerID string, limit int) ([]*core.Item, error) {
	snap, err := activeSnapshot(r.Snapshots)
	if err != nil {
		return nil, err
	}
	return r.recommendOn(snap, customerID, limit)
}

// recommendOn 在固定快照上打分，供 Hybrid 复用以保证快照一致性。
func (r *Collaborative) recommendOn(snap *model.Snapshot, customerID string, limit int) ([]*core.Item, error) {
	if limit <= 0 {
		limit = defaultTopK
	}

	ci, ok := snap.CustomerIndex(customerID)
	if !ok {
		return nil, core.ErrCustomerNotFound
	}

	kPrime := r.NeighborhoodSize
	if kPrime <= 0 {
		kPrime = defaultNeighborhoodSize
	}
	neighbors, err := r.neighborsByIndex(snap, ci, kPrime)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	target := snap.CustomerRow(ci)
	scores := make(map[string]float64)
	productIDs := snap.ProductIDs()
	for _, n := range neighbors {
		ni, _ := snap.CustomerIndex(n.id)
		row := snap.CustomerRow(ni)
		for pi, qty := range row {
			if qty <= 0 {
				continue
			}
			// 目标客户已购商品无条件排除
			if target[pi] > 0 {
				continue
			}
			scores[productIDs[pi]] += n.score * qty
		}
	}

	out := make([]*core.Item, 0, limit)
	for _, s := range rankTop(scores, limit) {
		it := core.NewItem(s.id)
		it.Score = s.score
		it.PutLabel("reason", utils.Label{Value: core.ReasonCustomersLikeYou, Source: "recall"})
		it.PutLabel("strategy", utils.Label{Value: string(core.StrategyCF), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// neighbors 取目标客户的 TopK 相似客户（排除自身，只保留正相似度）。
func (r *Collaborative) neighbors(snap *model.Snapshot, customerID string, k int) ([]scored, error) {
	ci, ok := snap.CustomerIndex(customerID)
	if !ok {
		return nil, core.ErrCustomerNotFound
	}
	return r.neighborsByIndex(snap, ci, k)
}

func (r *Collaborative) neighborsByIndex(snap *model.Snapshot, ci int, k int) ([]scored, error) {
	customerIDs := snap.CustomerIDs()
	out := make([]scored, 0, len(customerIDs))
	for j, id := range customerIDs {
		if j == ci {
			continue // 跳过自己
		}
		sim := snap.CustomerSimilarity(ci, j)
		if sim <= r.MinSimilarity {
			continue
		}
		out = append(out, scored{id: id, score: sim})
	}
	// customerIDs 升序遍历保证同分时 ID 升序稳定
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}
