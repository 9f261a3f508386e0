package model

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shoplab/shoprec/core"
)

// State 是生命周期状态机的状态。
// Uninitialized → Training → Ready ⇄ Training(retrain) → Ready；
// Training 构建失败进入 Failed（已有的 Ready 快照继续服务）。
type State string

const (
	StateUninitialized State = "uninitialized"
	StateTraining      State = "training"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

// TrainReport 是一次 Train 调用的结果汇总。
type TrainReport struct {
	Status       string        `json:"status"` // success / failed
	Customers    int           `json:"customers"`
	Products     int           `json:"products"`
	Interactions int           `json:"interactions"`
	Sparsity     float64       `json:"sparsity"`
	Duration     time.Duration `json:"duration"`
	BuiltAt      time.Time     `json:"built_at"`
	Version      string        `json:"version"`
}

// Metrics 是模型观测指标。
type Metrics struct {
	Customers     int       `json:"customers"`
	Products      int       `json:"products"`
	Interactions  int       `json:"interactions"`
	Sparsity      float64   `json:"sparsity"`
	LastTrainedAt time.Time `json:"last_trained_at"`
	TrainCount    int       `json:"train_count"`
	State         State     `json:"state"`
	Version       string    `json:"version,omitempty"`
}

// Manager 编排模型训练并持有当前服务中的快照。
//
// 并发模型：
//   - 读路径只经过一次 atomic.Pointer 读取，与训练完全无锁并行
//   - 训练在单独的调用方 goroutine 上执行；发布是一次 Store，
//     任何读者都不可能观测到半成品快照
//   - 同时只允许一次训练（后到者收到 ErrTrainingInProgress）
//   - 训练失败时旧快照原样保留，失败只上报给 Train 的调用方
type Manager struct {
	source  core.DataSource
	opts    BuildOptions
	vectors core.VectorStore // 可选，向量外化
	logger  *slog.Logger

	active atomic.Pointer[Snapshot]

	trainMu sync.Mutex // 整个训练期间持有，串行化 Train
	stateMu sync.Mutex // 保护状态机
	state   State
	history int // 成功训练次数
}

// ManagerOption 配置 Manager。
type ManagerOption func(*Manager)

// WithVectorStore 启用训练后的向量持久化（best-effort）。
func WithVectorStore(vs core.VectorStore) ManagerOption {
	return func(m *Manager) { m.vectors = vs }
}

// WithLogger 指定结构化日志器。
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// NewManager 创建生命周期管理器。
func NewManager(source core.DataSource, opts BuildOptions, options ...ManagerOption) *Manager {
	m := &Manager{
		source: source,
		opts:   opts,
		state:  StateUninitialized,
		logger: slog.Default(),
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// Active 返回当前服务中的快照；从未成功训练过时返回 nil。
// 调用方拿到的引用在整个请求期间有效，不受并发 retrain 影响。
func (m *Manager) Active() *Snapshot {
	return m.active.Load()
}

// Ready 在至少一次成功 Train 之后为 true。
func (m *Manager) Ready() bool {
	return m.active.Load() != nil
}

// State 返回状态机当前状态。
func (m *Manager) State() State {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.stateMu.Lock()
	m.state = s
	m.stateMu.Unlock()
}

// Train 全量重建所有矩阵与热门榜，并原子替换 active 快照。
// 构建失败时旧快照继续服务，错误只返回给本次调用方。
func (m *Manager) Train(ctx context.Context) (*TrainReport, error) {
	if !m.trainMu.TryLock() {
		return nil, core.ErrTrainingInProgress
	}
	defer m.trainMu.Unlock()
	m.setState(StateTraining)

	start := time.Now()
	m.logger.Info("model: training started", "source", m.source.Name())

	snap, err := Build(ctx, m.source, m.opts)
	if err != nil {
		m.setState(StateFailed)
		m.logger.Error("model: training failed, previous snapshot retained",
			"error", err, "have_snapshot", m.active.Load() != nil)
		return &TrainReport{Status: "failed", Duration: time.Since(start)}, err
	}

	// 唯一的写点：单次指针替换发布整个快照
	m.active.Store(snap)
	m.setState(StateReady)
	m.stateMu.Lock()
	m.history++
	m.stateMu.Unlock()

	report := &TrainReport{
		Status:       "success",
		Customers:    snap.CustomerCount(),
		Products:     snap.ProductCount(),
		Interactions: snap.InteractionCount(),
		Sparsity:     snap.Sparsity(),
		Duration:     time.Since(start),
		BuiltAt:      snap.BuiltAt(),
		Version:      snap.Version(),
	}
	m.logger.Info("model: training complete",
		"customers", report.Customers,
		"products", report.Products,
		"interactions", report.Interactions,
		"sparsity", report.Sparsity,
		"duration", report.Duration,
		"version", report.Version)

	if m.vectors != nil {
		m.persistVectors(ctx, snap)
	}
	return report, nil
}

// persistVectors 把快照向量外化到 VectorStore。
// 写失败只记日志：外化是给外部消费方的，不影响本进程服务。
func (m *Manager) persistVectors(ctx context.Context, snap *Snapshot) {
	version := snap.Version()
	for i, id := range snap.CustomerIDs() {
		if err := m.vectors.PersistVector(ctx, core.VectorKindCustomer, id, snap.CustomerVector(i), version); err != nil {
			m.logger.Warn("model: persist customer vector failed", "customer", id, "error", err)
			return
		}
	}
	for i, id := range snap.ProductIDs() {
		if err := m.vectors.PersistVector(ctx, core.VectorKindProduct, id, snap.ProductVector(i), version); err != nil {
			m.logger.Warn("model: persist product vector failed", "product", id, "error", err)
			return
		}
	}
	m.logger.Info("model: vectors persisted", "version", version)
}

// Metrics 返回模型观测指标；未训练时计数为零、时间为零值。
func (m *Manager) Metrics() Metrics {
	m.stateMu.Lock()
	state, trained := m.state, m.history
	m.stateMu.Unlock()
	snap := m.active.Load()
	if snap == nil {
		return Metrics{State: state, Sparsity: 1, TrainCount: trained}
	}
	return Metrics{
		Customers:     snap.CustomerCount(),
		Products:      snap.ProductCount(),
		Interactions:  snap.InteractionCount(),
		Sparsity:      snap.Sparsity(),
		LastTrainedAt: snap.BuiltAt(),
		TrainCount:    trained,
		State:         state,
		Version:       snap.Version(),
	}
}
