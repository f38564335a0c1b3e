package classify

import (
	"fmt"
	"strings"
)

// Explanation 是分类结果的可读解释，用于调试和后台展示。
type Explanation struct {
	Classification   UserType `json:"classification"`
	TechScore        float64  `json:"tech_score"`
	BusinessScore    float64  `json:"business_score"`
	TechKeywords     []string `json:"tech_keywords"`
	BusinessKeywords []string `json:"business_keywords"`
	Reasoning        string   `json:"reasoning"`
}

const maxExplainKeywords = 10

// Explain 返回带命中关键词和分数的分类解释。
func (c *Classifier) Explain(title, body, category string, tags []string) *Explanation {
	text := strings.ToLower(title + " " + body + " " + strings.Join(tags, " "))

	techScore := c.techScore(text, category)
	businessScore := c.businessScore(text, category)
	classification := c.Classify(title, body, category, tags)

	return &Explanation{
		Classification:   classification,
		TechScore:        techScore,
		BusinessScore:    businessScore,
		TechKeywords:     matchedKeywords(text, techKeywords),
		BusinessKeywords: matchedKeywords(text, businessKeywords),
		Reasoning:        reasoning(classification, techScore, businessScore),
	}
}

func matchedKeywords(text string, groups map[string][]string) []string {
	// 按分组名排序遍历，保证输出确定
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}

	var out []string
	for _, name := range names {
		for _, kw := range groups[name] {
			if strings.Contains(text, kw) {
				out = append(out, kw)
				if len(out) >= maxExplainKeywords {
					return out
				}
			}
		}
	}
	return out
}

func reasoning(cls UserType, techScore, businessScore float64) string {
	switch cls {
	case UserTypeTech:
		return fmt.Sprintf("classified as tech: technical score %.2f with technical keywords and patterns", techScore)
	case UserTypeBusiness:
		return fmt.Sprintf("classified as business: business score %.2f with business-focused language", businessScore)
	default:
		return fmt.Sprintf("classified as mixed: balanced scores (tech %.2f, business %.2f) or general content", techScore, businessScore)
	}
}
