package model

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/pkg/tfidf"
	"github.com/shoplab/shoprec/pkg/vec"
)

// BuildOptions 控制快照构建。
type BuildOptions struct {
	// MaxFeatures 是 TF-IDF 词表上限；<= 0 使用默认 128
	MaxFeatures int
}

// Build 从数据源拉取全量数据并构建一个完整快照。
//
// 约定：
//   - 商品集为空 → TRAINING_FAILURE（无候选可推）
//   - 交互集为空是合法输入：得到空 CF 矩阵，混合策略落到热门兜底
//   - 从未被购买的商品是全零列；零购买客户是零向量，均不报错
//   - 所有 ID 轴按升序固定，两次构建同一份数据产出完全一致的快照
func Build(ctx context.Context, source core.DataSource, opts BuildOptions) (*Snapshot, error) {
	var (
		interactions []core.Interaction
		products     []core.Product
		customers    []string
	)

	// 三个集合互相独立，并发拉取
	eg, loadCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		interactions, err = source.LoadInteractions(loadCtx)
		if err != nil {
			return fmt.Errorf("load interactions: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		products, err = source.LoadProducts(loadCtx)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		customers, err = source.LoadCustomers(loadCtx)
		if err != nil {
			return fmt.Errorf("load customers: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, trainingFailure(err.Error())
	}

	if len(products) == 0 {
		return nil, trainingFailure("model: empty product catalog")
	}

	snap := &Snapshot{
		products:         make(map[string]core.Product, len(products)),
		interactionCount: len(interactions),
	}

	// 商品轴 = 目录商品，升序
	for _, p := range products {
		if _, dup := snap.products[p.ID]; dup {
			return nil, trainingFailure("model: duplicate product id: " + p.ID)
		}
		snap.products[p.ID] = p
	}
	snap.productIDs = make([]string, 0, len(products))
	for id := range snap.products {
		snap.productIDs = append(snap.productIDs, id)
	}
	sort.Strings(snap.productIDs)
	snap.productIdx = make(map[string]int, len(snap.productIDs))
	for i, id := range snap.productIDs {
		snap.productIdx[id] = i
	}

	// 客户轴 = 已知客户 ∪ 交互中出现的客户，升序。
	// 零购买客户保留零向量，以区分“无此客户”与“尚无历史”。
	customerSet := make(map[string]struct{}, len(customers))
	for _, id := range customers {
		customerSet[id] = struct{}{}
	}
	for _, it := range interactions {
		customerSet[it.CustomerID] = struct{}{}
	}
	snap.customerIDs = make([]string, 0, len(customerSet))
	for id := range customerSet {
		snap.customerIDs = append(snap.customerIDs, id)
	}
	sort.Strings(snap.customerIDs)
	snap.customerIdx = make(map[string]int, len(snap.customerIDs))
	for i, id := range snap.customerIDs {
		snap.customerIdx[id] = i
	}

	buildInteractionMatrix(snap, interactions)

	// 剩余构件互相独立，并发构建
	eg2, _ := errgroup.WithContext(ctx)
	eg2.Go(func() error {
		buildCustomerSimilarity(snap)
		return nil
	})
	eg2.Go(func() error {
		return buildProductFeatures(snap, opts.MaxFeatures)
	})
	eg2.Go(func() error {
		buildPopularity(snap)
		return nil
	})
	if err := eg2.Wait(); err != nil {
		return nil, trainingFailure(err.Error())
	}

	snap.builtAt = time.Now()
	snap.version = snap.builtAt.UTC().Format("20060102T150405.000Z")
	return snap, nil
}

func trainingFailure(msg string) error {
	return core.NewDomainError(core.ModuleModel, core.ErrorCodeTrainingFailure, msg)
}

// buildInteractionMatrix 聚合购买记录为客户×商品矩阵，并产出归一化客户向量。
func buildInteractionMatrix(snap *Snapshot, interactions []core.Interaction) {
	nc, np := len(snap.customerIDs), len(snap.productIDs)
	snap.quantities = make([][]float64, nc)
	for i := range snap.quantities {
		snap.quantities[i] = make([]float64, np)
	}

	nonZero := 0
	for _, it := range interactions {
		ci, ok := snap.customerIdx[it.CustomerID]
		if !ok {
			continue
		}
		pi, ok := snap.productIdx[it.ProductID]
		if !ok {
			// 目录外商品：一条脏数据不应让整次训练失败
			continue
		}
		if snap.quantities[ci][pi] == 0 && it.Quantity != 0 {
			nonZero++
		}
		snap.quantities[ci][pi] += it.Quantity
	}

	total := nc * np
	if total > 0 {
		snap.sparsity = 1 - float64(nonZero)/float64(total)
	} else {
		snap.sparsity = 1
	}

	// 客户向量 = 行的单位 L2 归一化：购买量级不同的客户按方向可比
	snap.customerVectors = make([][]float64, nc)
	for i, row := range snap.quantities {
		v := make([]float64, np)
		copy(v, row)
		vec.L2Normalize(v)
		snap.customerVectors[i] = v
	}
}

// buildCustomerSimilarity 计算客户-客户余弦相似度矩阵。
func buildCustomerSimilarity(snap *Snapshot) {
	n := len(snap.customerVectors)
	snap.customerSim = make([][]float64, n)
	for i := range snap.customerSim {
		snap.customerSim[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sim := vec.Cosine(snap.customerVectors[i], snap.customerVectors[j])
			snap.customerSim[i][j] = sim
			snap.customerSim[j][i] = sim
		}
	}
}

// buildProductFeatures 向量化商品文本并计算商品-商品相似度矩阵。
// 每个商品的 name/category/description 拼接为一篇文档；
// 词表在本次快照内冻结，之后新增的商品对内容打分不可见直至下次训练。
func buildProductFeatures(snap *Snapshot, maxFeatures int) error {
	corpus := make([]string, len(snap.productIDs))
	for i, id := range snap.productIDs {
		p := snap.products[id]
		corpus[i] = strings.TrimSpace(p.Name + " " + p.Category + " " + p.Description)
	}

	vectorizer := tfidf.NewVectorizer(maxFeatures)
	vectors, err := vectorizer.Fit(corpus)
	if err != nil {
		return fmt.Errorf("model: vectorize products: %w", err)
	}
	snap.productVectors = vectors

	n := len(vectors)
	snap.productSim = make([][]float64, n)
	for i := range snap.productSim {
		snap.productSim[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sim := vec.Cosine(vectors[i], vectors[j])
			snap.productSim[i][j] = sim
			snap.productSim[j][i] = sim
		}
	}
	return nil
}

// buildPopularity 计算全局热门榜：总购买量降序，总收入降序，商品 ID 升序。
func buildPopularity(snap *Snapshot) {
	entries := make([]PopularityEntry, len(snap.productIDs))
	for pi, id := range snap.productIDs {
		var count float64
		for ci := range snap.customerIDs {
			count += snap.quantities[ci][pi]
		}
		entries[pi] = PopularityEntry{
			ProductID: id,
			Count:     count,
			Revenue:   count * snap.products[id].Price,
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		if entries[i].Revenue != entries[j].Revenue {
			return entries[i].Revenue > entries[j].Revenue
		}
		return entries[i].ProductID < entries[j].ProductID
	})
	snap.popularity = entries
}
