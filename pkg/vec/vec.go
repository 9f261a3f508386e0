// Package vec 提供稠密向量的基础数值运算。
// 相似度计算以纯函数形式暴露（两个等长向量 → 标量），
// 使归一化与算法复杂度独立于任何数值库、可单独测试。
package vec

import "math"

// Dot 计算两个等长向量的点积。长度不一致时返回 0。
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm 计算向量的 L2 范数。
func Norm(a []float64) float64 {
	var sum float64
	for _, v := range a {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Cosine 计算两个等长向量的余弦相似度，取值 [-1, 1]。
// 任一向量为零向量时返回 0；对任意非零向量 x，Cosine(x, x) = 1。
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// 浮点误差可能越过 ±1 边界
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}

// L2Normalize 将向量原地归一化为单位 L2 范数。零向量保持不变。
// 购买量不同的客户经此归一化后按方向（而非量级）可比。
func L2Normalize(a []float64) {
	norm := Norm(a)
	if norm == 0 {
		return
	}
	for i := range a {
		a[i] /= norm
	}
}

// MinMaxNormalize 将分数集合按 min-max 映射到 [0, 1]，返回新 map。
// 空集合返回空 map；全部同分（max == min）时统一映射为 1.0，
// 避免单一候选被压成 0 分。
func MinMaxNormalize(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, s := range scores {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	if max == min {
		for id := range scores {
			out[id] = 1.0
		}
		return out
	}
	span := max - min
	for id, s := range scores {
		out[id] = (s - min) / span
	}
	return out
}
