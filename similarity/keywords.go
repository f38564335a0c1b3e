package similarity

import (
	"regexp"
	"strings"
)

// 关键词抽取的默认参数。
const DefaultKeywordCount = 10

var (
	htmlTagRe  = regexp.MustCompile(`<[^>]+>`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)
)

// stopWords 是关键词抽取排除的常见虚词。
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {}, "might": {}, "can": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {}, "him": {}, "her": {}, "us": {}, "them": {}, "my": {}, "your": {},
	"his": {}, "its": {}, "our": {}, "their": {}, "not": {}, "no": {}, "yes": {},
	"if": {}, "when": {}, "where": {}, "why": {}, "how": {},
}

// ExtractKeywords 从正文中抽取最高频的 n 个关键词。
//
// 处理流程：转小写、去 HTML 标签、去非字母数字字符、按空白切分、
// 丢弃长度 <= 3 的 token 与停用词、按词频降序取前 n。
// 同频词按首次出现顺序排序，保证结果稳定。
func ExtractKeywords(text string, n int) []string {
	if n <= 0 {
		n = DefaultKeywordCount
	}

	clean := htmlTagRe.ReplaceAllString(strings.ToLower(text), "")
	clean = nonAlnumRe.ReplaceAllString(clean, "")

	type wordCount struct {
		word  string
		count int
		first int // 首次出现位置，用于稳定排序
	}
	counts := make(map[string]*wordCount)
	order := make([]*wordCount, 0)

	for i, w := range strings.Fields(clean) {
		if len(w) <= 3 {
			continue
		}
		if _, ok := stopWords[w]; ok {
			continue
		}
		if wc, ok := counts[w]; ok {
			wc.count++
			continue
		}
		wc := &wordCount{word: w, count: 1, first: i}
		counts[w] = wc
		order = append(order, wc)
	}

	// 按词频降序、同频按首次出现顺序。候选量小，插入排序足够。
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			a, b := order[j-1], order[j]
			if b.count > a.count || (b.count == a.count && b.first < a.first) {
				order[j-1], order[j] = b, a
			} else {
				break
			}
		}
	}

	if len(order) > n {
		order = order[:n]
	}
	out := make([]string, 0, len(order))
	for _, wc := range order {
		out = append(out, wc.word)
	}
	return out
}

// KeywordSet 抽取关键词并返回集合形式，便于 Jaccard 计算。
func KeywordSet(text string, n int) map[string]struct{} {
	words := ExtractKeywords(text, n)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
