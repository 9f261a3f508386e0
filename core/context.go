package core

import "github.com/shoplab/shoprec/pkg/utils"

// RecommendContext 承载客户/场景/请求信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	CustomerID string // 客户 ID（矩阵行键，核心不关心其格式）
	Scene      string // 场景标识，例如 "homepage" / "cart" / "detail"

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	// 例如：冷启动客户、价格敏感等
	Labels map[string]utils.Label

	// Params 请求级上下文参数（limit、strategy 等已在边界解析，
	// 这里只承载过滤规则等扩展参数）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
