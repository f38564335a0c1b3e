// Package similarity 提供推荐链路中的相似度计算：
// 稀疏向量余弦相似度（用户-用户 / 物品-物品 / 任意加权比较）
// 与内容侧的多信号相似度（类别 / 标签 / 关键词 / 作者）。
package similarity

import "math"

// Cosine 计算两个稀疏向量的余弦相似度。
//
// 约定：
//   - 点积只在两个向量的公共 key 上累加
//   - 分母使用各自完整向量的模长（不是交集部分的模长）
//   - 无公共 key 或任一模长为 0 时返回 0
//   - 结果对负值截断到 0（相似度只作为非负影响参与打分）
func Cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot float64
	common := false
	for k, va := range a {
		if vb, ok := b[k]; ok {
			dot += va * vb
			common = true
		}
	}
	if !common {
		return 0
	}

	var normA, normB float64
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	return sim
}

// Jaccard 计算两个集合的 Jaccard 重合度：|交集| / |并集|。
// 任一集合为空时返回 0。
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Normalize 对稀疏向量做 L2 归一化，返回新向量；零向量原样返回。
func Normalize(v map[string]float64) map[string]float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	out := make(map[string]float64, len(v))
	for k, x := range v {
		out[k] = x / norm
	}
	return out
}
