package similarity

import "github.com/rushteam/recsite/core"

// ContentWeights 是内容相似度四个信号的权重配置。
// 四个信号相加，名义范围 [0, 1.0]，不做二次归一化。
type ContentWeights struct {
	Category float64 `yaml:"category"` // 类别完全一致
	Tags     float64 `yaml:"tags"`     // 标签集合 Jaccard
	Keywords float64 `yaml:"keywords"` // 正文关键词集合 Jaccard
	Author   float64 `yaml:"author"`   // 作者完全一致
}

// DefaultContentWeights 返回默认权重：0.4 / 0.3 / 0.2 / 0.1。
func DefaultContentWeights() ContentWeights {
	return ContentWeights{
		Category: 0.4,
		Tags:     0.3,
		Keywords: 0.2,
		Author:   0.1,
	}
}

// Content 按默认权重计算两个物品的内容相似度。
func Content(a, b *core.CatalogItem) float64 {
	return ContentWith(a, b, DefaultContentWeights())
}

// ContentWith 按给定权重计算两个物品的内容相似度：
//   - 类别一致：+w.Category
//   - 标签 Jaccard：× w.Tags
//   - 关键词 Jaccard（正文 Top-10 高频词）：× w.Keywords
//   - 作者一致：+w.Author
func ContentWith(a, b *core.CatalogItem, w ContentWeights) float64 {
	if a == nil || b == nil {
		return 0
	}

	var score float64

	if a.Category != "" && a.Category == b.Category {
		score += w.Category
	}

	tagsA, tagsB := a.TagSet(), b.TagSet()
	if len(tagsA) > 0 && len(tagsB) > 0 {
		score += w.Tags * Jaccard(tagsA, tagsB)
	}

	kwA := KeywordSet(a.Body, DefaultKeywordCount)
	kwB := KeywordSet(b.Body, DefaultKeywordCount)
	if len(kwA) > 0 && len(kwB) > 0 {
		score += w.Keywords * Jaccard(kwA, kwB)
	}

	if a.Author != "" && a.Author == b.Author {
		score += w.Author
	}

	return score
}
