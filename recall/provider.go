package recall

import (
	"sort"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/model"
)

// SnapshotProvider 向引擎提供当前 active 的模型快照。
// model.Manager 实现此接口；引擎在每次请求开始时取一次引用，
// 整个请求过程只用这一个快照（并发 retrain 不影响进行中的读）。
type SnapshotProvider interface {
	Active() *model.Snapshot
}

// activeSnapshot 取当前快照；尚无成功训练时返回 UNAVAILABLE。
func activeSnapshot(p SnapshotProvider) (*model.Snapshot, error) {
	if p == nil {
		return nil, core.ErrModelNotReady
	}
	snap := p.Active()
	if snap == nil {
		return nil, core.ErrModelNotReady
	}
	return snap, nil
}

// scored 是引擎内部的候选打分记录。
type scored struct {
	id    string
	score float64
}

// rankTop 按分数降序、同分按 ID 升序排序并截断到 topK。
// 排序整体确定：同一输入两次调用产出一致结果。
func rankTop(scores map[string]float64, topK int) []scored {
	out := make([]scored, 0, len(scores))
	for id, s := range scores {
		out = append(out, scored{id: id, score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].id < out[j].id
	})
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
