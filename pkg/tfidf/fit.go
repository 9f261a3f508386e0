package tfidf

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyCorpus 表示 Fit 收到了空语料。
var ErrEmptyCorpus = errors.New("tfidf: empty corpus")

// Fit 从语料构建词表与 IDF，并返回全部文档的 L2 归一化向量。
// 文档顺序与输入一致；同一语料两次 Fit 的输出逐位一致（确定性）。
func (v *Vectorizer) Fit(corpus []string) ([][]float64, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	// 1. 分词并统计：语料词频（词表截断用）与文档频率（IDF 用）
	tokenized := make([][]string, len(corpus))
	termCount := make(map[string]int)
	docFreq := make(map[string]int)
	for i, doc := range corpus {
		terms := Tokenize(doc)
		tokenized[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			termCount[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				docFreq[t]++
			}
		}
	}

	// 2. 按语料词频取 TopK 构建词表；同频按词升序保证确定性
	terms := make([]string, 0, len(termCount))
	for t := range termCount {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCount[terms[i]] != termCount[terms[j]] {
			return termCount[terms[i]] > termCount[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}
	// 维度下标按词升序分配，与词频无关
	sort.Strings(terms)

	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, t := range terms {
		v.vocabulary[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1.0
	}
	v.fitted = true

	// 3. 产出全部文档向量
	out := make([][]float64, len(corpus))
	for i, terms := range tokenized {
		out[i] = v.transformTerms(terms)
	}
	return out, nil
}

// Transform 计算单个文档的 TF-IDF 向量（L2 归一化）。
// 未 Fit 时返回 nil；词表外的词贡献 0；空白文档产出零向量。
func (v *Vectorizer) Transform(doc string) []float64 {
	if !v.fitted {
		return nil
	}
	return v.transformTerms(Tokenize(doc))
}

func (v *Vectorizer) transformTerms(terms []string) []float64 {
	out := make([]float64, len(v.idf))
	if len(terms) == 0 {
		return out
	}
	tf := make(map[int]int)
	total := 0
	for _, t := range terms {
		if idx, ok := v.vocabulary[t]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return out
	}
	var norm float64
	for idx, count := range tf {
		w := (float64(count) / float64(total)) * v.idf[idx]
		out[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range out {
			out[i] /= norm
		}
	}
	return out
}
