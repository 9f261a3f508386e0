package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/recall"
)

// Config 是应用级配置（YAML）。
// 所有字段都有可用的默认值，零值配置可以直接跑起来。
//
// 示例：
//
//	model:
//	  max_features: 128
//	cf:
//	  neighborhood_size: 20
//	  min_similarity: 0.0
//	content:
//	  top_m_similar: 20
//	  min_similarity: 0.1
//	hybrid:
//	  cf_weight: 0.6
//	  content_weight: 0.4
//	cache:
//	  enabled: true
//	  addr: "localhost:6379"
//	  db: 0
//	  ttl: 300
//	dataset:
//	  driver: sqlite
//	  dsn: "file:shop.db"
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	CF      CFConfig      `yaml:"cf"`
	Content ContentConfig `yaml:"content"`
	Hybrid  HybridConfig  `yaml:"hybrid"`
	Cache   CacheConfig   `yaml:"cache"`
	Dataset DatasetConfig `yaml:"dataset"`
	Vectors VectorsConfig `yaml:"vectors"`
}

// ModelConfig 控制训练期参数。
type ModelConfig struct {
	// MaxFeatures 是 TF-IDF 词表上限，0 取默认 128
	MaxFeatures int `yaml:"max_features"`
}

// CFConfig 控制协同过滤引擎。
type CFConfig struct {
	// NeighborhoodSize 是邻域大小 K'，0 取默认 20
	NeighborhoodSize int `yaml:"neighborhood_size"`
	// MinSimilarity 是邻居相似度下限
	MinSimilarity float64 `yaml:"min_similarity"`
}

// ContentConfig 控制内容引擎。
type ContentConfig struct {
	// TopMSimilar 是每个已购商品取的相似商品数，0 取默认 20
	TopMSimilar int `yaml:"top_m_similar"`
	// MinSimilarity 是相似度下限，0 取默认 0.1
	MinSimilarity float64 `yaml:"min_similarity"`
}

// HybridConfig 控制混合策略权重。
type HybridConfig struct {
	// CFWeight + ContentWeight 必须等于 1，各自落在 (0,1)。
	// 两者都为 0 时取默认 0.6 / 0.4。
	CFWeight      float64 `yaml:"cf_weight"`
	ContentWeight float64 `yaml:"content_weight"`
}

// CacheConfig 控制推荐结果缓存。
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"` // Redis 地址，空则使用内存缓存
	DB      int    `yaml:"db"`
	TTL     int    `yaml:"ttl"` // 秒，0 表示不过期
}

// DatasetConfig 控制训练数据来源。
type DatasetConfig struct {
	Driver string `yaml:"driver"` // "sqlite" 或 "memory"
	DSN    string `yaml:"dsn"`
}

// VectorsConfig 控制向量持久化。
type VectorsConfig struct {
	Persist bool `yaml:"persist"`
}

// Load 从 YAML 文件加载配置并校验。
// 校验失败返回 INVALID_CONFIG——配置错误必须在启动期暴露。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("config: read %s: %v", path, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("config: parse %s: %v", path, err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置的取值范围。
func (c *Config) Validate() error {
	if c.Model.MaxFeatures < 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("config: model.max_features must be >= 0, got %d", c.Model.MaxFeatures))
	}
	if c.CF.NeighborhoodSize < 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("config: cf.neighborhood_size must be >= 0, got %d", c.CF.NeighborhoodSize))
	}
	if c.CF.MinSimilarity < 0 || c.CF.MinSimilarity > 1 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("config: cf.min_similarity must be in [0,1], got %v", c.CF.MinSimilarity))
	}
	if c.Content.MinSimilarity < 0 || c.Content.MinSimilarity > 1 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("config: content.min_similarity must be in [0,1], got %v", c.Content.MinSimilarity))
	}
	if c.Cache.TTL < 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("config: cache.ttl must be >= 0, got %d", c.Cache.TTL))
	}

	cfW, ctW := c.HybridWeights()
	if err := recall.ValidateWeights(cfW, ctW); err != nil {
		return err
	}

	switch c.Dataset.Driver {
	case "", "memory":
	case "sqlite":
		if c.Dataset.DSN == "" {
			return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
				"config: dataset.dsn is required for sqlite driver")
		}
	default:
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("config: unknown dataset.driver %q", c.Dataset.Driver))
	}

	return nil
}

// HybridWeights 返回生效的混合权重（两者都为 0 时取默认值）。
func (c *Config) HybridWeights() (cf, content float64) {
	if c.Hybrid.CFWeight == 0 && c.Hybrid.ContentWeight == 0 {
		return recall.DefaultCFWeight, recall.DefaultContentWeight
	}
	return c.Hybrid.CFWeight, c.Hybrid.ContentWeight
}
