package core

import "context"

// Interaction 是一条购买事件：(customer, product, quantity)。
// 同一 (customer, product) 的多条记录在矩阵构建前按数量求和聚合；
// 没有交互意味着 0，不是缺失。
type Interaction struct {
	CustomerID string
	ProductID  string
	Quantity   float64
}

// Product 是商品记录。文本属性（Name/Category/Description）只被内容引擎
// 使用；Price/Category 只用于响应补全与热门排序的 tie-break，不参与打分。
type Product struct {
	ID          string
	Name        string
	Category    string
	Description string
	Price       float64
}

// DataSource 是核心对数据访问层的唯一依赖契约。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（dataset）实现
//   - 三个 Load 都是训练期的一次性批量读取，超时/重试语义由实现负责
//   - 核心不拥有任何文件格式或 SQL schema
//
// 实现：
//   - dataset.MemorySource（测试/原型）
//   - dataset.SQLiteSource（modernc.org/sqlite）
//   - 其他后端（PostgreSQL、CSV 等）也可以实现此接口
type DataSource interface {
	// Name 返回数据源名称（用于日志/监控）
	Name() string

	// LoadInteractions 加载全量购买记录
	LoadInteractions(ctx context.Context) ([]Interaction, error)

	// LoadProducts 加载全量商品
	LoadProducts(ctx context.Context) ([]Product, error)

	// LoadCustomers 加载全量客户 ID（用于热门/冷启动簿记：
	// 零购买客户也必须出现在矩阵里，得到零向量）
	LoadCustomers(ctx context.Context) ([]string, error)
}

// VectorKind 标识持久化向量的种类。
type VectorKind string

const (
	VectorKindCustomer VectorKind = "customer" // 客户交互向量（归一化后）
	VectorKindProduct  VectorKind = "product"  // 商品 TF-IDF 特征向量
)

// VectorStore 是可选的向量外化契约。
// 快照内的矩阵本身始终驻留内存；持久化仅供外部消费方
//（离线分析、其他服务）读取，写入失败不影响训练结果。
type VectorStore interface {
	// PersistVector 写入一条向量，version 为快照版本（构建时间戳）
	PersistVector(ctx context.Context, kind VectorKind, id string, vector []float64, version string) error

	// LoadVectors 读取某版本下某种类的全部向量
	LoadVectors(ctx context.Context, kind VectorKind, version string) (map[string][]float64, error)
}
