package tfidf

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// Tokenize 将文本切分为 unigram + bigram 词项。
// 小写化、按字母序列切词、剔除英文停用词后，
// 相邻两词以空格拼接生成 bigram。
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := tokenPattern.FindAllString(lower, -1)
	if len(raw) == 0 {
		return nil
	}
	unigrams := make([]string, 0, len(raw))
	for _, t := range raw {
		if _, isStop := stopwords[t]; isStop {
			continue
		}
		unigrams = append(unigrams, t)
	}
	out := make([]string, 0, len(unigrams)*2)
	out = append(out, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		out = append(out, unigrams[i]+" "+unigrams[i+1])
	}
	return out
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "being", "it", "this", "that", "these", "those",
		"from", "up", "down", "over", "under", "again", "further", "than",
		"so", "such", "into", "about", "between", "through", "during",
		"before", "after", "above", "below", "out", "off", "own", "same",
		"too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
