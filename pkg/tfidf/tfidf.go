// Package tfidf 实现一个带词表上限、unigram+bigram 的 TF-IDF 向量化器。
//
// 语义对齐常见实现（平滑 IDF、向量 L2 归一化）：
//   - idf(t) = ln((1+N)/(1+df(t))) + 1
//   - 词表在 Fit 时从语料构建并冻结；上限按语料词频取 TopK，
//     同频按词字典序升序，保证同一语料两次 Fit 产出完全一致的词表
//   - Transform 对词表外的词贡献 0；空白文档产出零向量
package tfidf

// Vectorizer 是 TF-IDF 向量化器；先 Fit 后 Transform。
type Vectorizer struct {
	// MaxFeatures 词表上限；<= 0 表示默认 128
	MaxFeatures int

	vocabulary map[string]int
	idf        []float64
	fitted     bool
}

const defaultMaxFeatures = 128

// NewVectorizer 创建一个未拟合的向量化器。
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = defaultMaxFeatures
	}
	return &Vectorizer{MaxFeatures: maxFeatures}
}

// Dimension 返回向量维度（词表大小，<= MaxFeatures）。
func (v *Vectorizer) Dimension() int {
	return len(v.idf)
}

// Vocabulary 返回词 → 维度下标的词表（只读使用）。
func (v *Vectorizer) Vocabulary() map[string]int {
	return v.vocabulary
}
