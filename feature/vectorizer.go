// Package feature 把目录物品转换为稀疏特征向量，并维护进程级的特征矩阵缓存。
//
// 特征空间：
//   - cat:<category>  类别特征
//   - tag:<tag>       标签特征
//   - kw:<keyword>    正文高频关键词特征
//   - author:<author> 作者/卖家特征
//
// 权重为基础权重 × IDF 阻尼（全目录 df 越高的特征贡献越低），
// 使稀有标签/关键词比"人人都有"的特征更有区分度。
package feature

import (
	"math"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/similarity"
)

// VectorWeights 是各特征族的基础权重。
type VectorWeights struct {
	Category float64 `yaml:"category"`
	Tag      float64 `yaml:"tag"`
	Keyword  float64 `yaml:"keyword"`
	Author   float64 `yaml:"author"`
}

// DefaultVectorWeights 返回默认基础权重。
func DefaultVectorWeights() VectorWeights {
	return VectorWeights{
		Category: 2.0,
		Tag:      1.5,
		Keyword:  1.0,
		Author:   0.5,
	}
}

// Vectorizer 把单个物品 tokenize 为原始特征项（未加 IDF）。
type Vectorizer struct {
	// Weights 基础权重，零值时使用 DefaultVectorWeights
	Weights VectorWeights

	// KeywordCount 正文关键词数量，默认 10
	KeywordCount int
}

func (v *Vectorizer) weights() VectorWeights {
	w := v.Weights
	if w.Category == 0 && w.Tag == 0 && w.Keyword == 0 && w.Author == 0 {
		return DefaultVectorWeights()
	}
	return w
}

// Terms 返回物品的原始特征项（特征 key → 基础权重）。
func (v *Vectorizer) Terms(item *core.CatalogItem) map[string]float64 {
	if item == nil {
		return nil
	}
	w := v.weights()
	terms := make(map[string]float64)

	if item.Category != "" {
		terms["cat:"+item.Category] = w.Category
	}
	for tag := range item.TagSet() {
		terms["tag:"+tag] = w.Tag
	}
	kwCount := v.KeywordCount
	if kwCount <= 0 {
		kwCount = similarity.DefaultKeywordCount
	}
	for _, kw := range similarity.ExtractKeywords(item.Body, kwCount) {
		terms["kw:"+kw] = w.Keyword
	}
	if item.Author != "" {
		terms["author:"+item.Author] = w.Author
	}

	return terms
}

// buildVectors 对整个目录构建特征向量：基础权重 × IDF。
// idf = ln(1 + N/df)，N 为物品数，df 为含该特征的物品数。
func (v *Vectorizer) buildVectors(items []*core.CatalogItem) (ids []string, vectors map[string]map[string]float64) {
	raw := make(map[string]map[string]float64, len(items))
	ids = make([]string, 0, len(items))
	df := make(map[string]int)

	for _, item := range items {
		if item == nil {
			continue
		}
		terms := v.Terms(item)
		if len(terms) == 0 {
			continue
		}
		raw[item.ID] = terms
		ids = append(ids, item.ID)
		for key := range terms {
			df[key]++
		}
	}

	n := float64(len(ids))
	vectors = make(map[string]map[string]float64, len(raw))
	for id, terms := range raw {
		vec := make(map[string]float64, len(terms))
		for key, base := range terms {
			idf := math.Log(1 + n/float64(df[key]))
			vec[key] = base * idf
		}
		vectors[id] = vec
	}
	return ids, vectors
}
