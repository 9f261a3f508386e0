package recall

import (
	"context"
	"sort"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/model"
	"github.com/shoplab/shoprec/pkg/utils"
)

// Content 是基于内容的推荐引擎（Content-Based Recommendation）。
//
// 核心思想："客户买过的商品长什么样，就推长得像的商品"
//
// 商品文本（name/category/description）在快照构建期经 TF-IDF 向量化，
// 商品-商品相似度即这些向量的余弦相似度。引擎本身只做查表与累加：
// 对客户的每个已购商品取 TopM 相似商品，相似度跨已购商品求和
//（求和而非平均：口味更广的客户浮现更多候选），排除已购后取 TopN。
type Content struct {
	Snapshots SnapshotProvider

	// TopMSimilar 每个已购商品取的相似商品数；<= 0 时默认 20
	TopMSimilar int

	// MinSimilarity 相似度下限，低于此值的邻居不参与累加；
	// 0 表示使用默认 0.1（空文本商品相似度为 0，天然被排除）
	MinSimilarity float64
}

func (r *Content) Name() string { return "recall.content" }

const (
	defaultTopK          = 20
	defaultTopMSimilar   = 20
	defaultMinSimilarity = 0.1
)

func (r *Content) minSimilarity() float64 {
	if r.MinSimilarity <= 0 {
		return defaultMinSimilarity
	}
	return r.MinSimilarity
}

// SimilarProducts 返回至多 k 个相似商品，排除自身，
// 相似度降序、同分按商品 ID 升序。未知商品返回 NOT_FOUND。
func (r *Content) SimilarProducts(ctx context.Context, productID string, k int) ([]core.SimilarProduct, error) {
	snap, err := activeSnapshot(r.Snapshots)
	if err != nil {
		return nil, err
	}
	pi, ok := snap.ProductIndex(productID)
	if !ok {
		return nil, core.ErrProductNotFound
	}
	neighbors := r.similarByIndex(snap, pi, k, nil)
	out := make([]core.SimilarProduct, 0, len(neighbors))
	for _, n := range neighbors {
		out = append(out, core.SimilarProduct{ProductID: n.id, Score: n.score})
	}
	return out, nil
}

// Recommend 为客户生成内容推荐。
// 无购买历史的客户得到空列表（不是错误），由调用方兜底。
func (r *Content) Recommend(ctx context.Context, customerID string, limit int) ([]*core.Item, error) {
	snap, err := activeSnapshot(r.Snapshots)
	if err != nil {
		return nil, err
	}
	return r.recommendOn(snap, customerID, limit)
}

// recommendOn 在固定快照上打分，供 Hybrid 复用以保证快照一致性。
func (r *Content) recommendOn(snap *model.Snapshot, customerID string, limit int) ([]*core.Item, error) {
	if limit <= 0 {
		limit = defaultTopK
	}

	ci, ok := snap.CustomerIndex(customerID)
	if !ok {
		return nil, core.ErrCustomerNotFound
	}

	// 已购商品集合：既是相似源，也是排除集
	row := snap.CustomerRow(ci)
	purchased := make(map[int]struct{})
	for pi, qty := range row {
		if qty > 0 {
			purchased[pi] = struct{}{}
		}
	}
	if len(purchased) == 0 {
		return nil, nil
	}

	topM := r.TopMSimilar
	if topM <= 0 {
		topM = defaultTopMSimilar
	}

	scores := make(map[string]float64)
	// purchased 的遍历序不影响结果：累加满足交换律
	for pi := range purchased {
		for _, n := range r.similarByIndex(snap, pi, topM, purchased) {
			scores[n.id] += n.score
		}
	}

	out := make([]*core.Item, 0, limit)
	for _, s := range rankTop(scores, limit) {
		it := core.NewItem(s.id)
		it.Score = s.score
		it.PutLabel("reason", utils.Label{Value: core.ReasonContentBased, Source: "recall"})
		it.PutLabel("strategy", utils.Label{Value: string(core.StrategyContent), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// similarByIndex 取商品 pi 的 TopK 相似商品，排除自身与 exclude 集合，
// 相似度低于下限的不计入。
func (r *Content) similarByIndex(snap *model.Snapshot, pi int, k int, exclude map[int]struct{}) []scored {
	minSim := r.minSimilarity()
	productIDs := snap.ProductIDs()
	out := make([]scored, 0, k)
	for j, id := range productIDs {
		if j == pi {
			continue // 排除自身
		}
		if _, skip := exclude[j]; skip {
			continue
		}
		sim := snap.ProductSimilarity(pi, j)
		if sim < minSim {
			continue
		}
		out = append(out, scored{id: id, score: sim})
	}
	// productIDs 升序遍历保证同分时 ID 升序稳定
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
