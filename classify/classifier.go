// Package classify 根据标题/正文/类目/标签把内容划分为
// tech / business / mixed 三类受众。
//
// 打分规则：两个独立分数（tech、business）由关键词分组命中加权
// 加上正则模式加成构成，各自上限 1.0；
// 只有当一方分数同时高于另一方且超过阈值 0.3 时才判为该类，
// 分数接近或都偏低时一律归为 mixed。
package classify

import (
	"regexp"
	"strings"
)

// UserType 是内容的受众类型。
type UserType string

const (
	UserTypeTech     UserType = "tech"
	UserTypeBusiness UserType = "business"
	UserTypeMixed    UserType = "mixed"
)

// 分数阈值：低于该值的内容一律归为 mixed
const scoreThreshold = 0.3

// 关键词分组权重
const (
	weightPrimary   = 0.08 // programming / strategy
	weightSecondary = 0.06 // tech_concepts / management
	weightRole      = 0.04 // roles
)

var techKeywords = map[string][]string{
	"programming": {
		"code", "programming", "development", "software", "api", "database",
		"algorithm", "framework", "library", "python", "javascript", "react",
		"node.js", "sql", "html", "css", "git", "github", "docker", "kubernetes",
		"cloud", "aws", "azure", "deployment", "server", "backend", "frontend",
		"full-stack", "devops", "ci/cd", "testing", "debugging", "refactoring",
	},
	"tech_concepts": {
		"machine learning", "ai", "artificial intelligence", "data science",
		"cybersecurity", "blockchain", "iot", "automation", "integration",
		"architecture", "microservices", "scalability", "performance",
		"optimization", "analytics", "big data", "neural network",
	},
	"technical_roles": {
		"developer", "engineer", "programmer", "architect", "devops",
		"data scientist", "analyst", "technical lead", "cto", "tech team",
	},
}

var businessKeywords = map[string][]string{
	"strategy": {
		"strategy", "business model", "revenue", "profit", "growth", "market",
		"customer", "client", "sales", "marketing", "roi", "kpi", "metrics",
		"budget", "finance", "investment", "stakeholder", "partnership",
	},
	"management": {
		"management", "leadership", "team", "project management", "agile",
		"scrum", "planning", "roadmap", "milestone", "delivery", "timeline",
		"resource", "allocation", "efficiency", "productivity", "workflow",
	},
	"business_roles": {
		"manager", "director", "ceo", "cfo", "cmo", "vp", "executive",
		"business analyst", "product manager", "project manager", "consultant",
		"stakeholder", "decision maker",
	},
}

// 类目本身就能显著指示受众类型
var techCategories = map[string]bool{
	"Tutorial":        true,
	"Documentation":   true,
	"Technical Guide": true,
	"API Reference":   true,
}

var businessCategories = map[string]bool{
	"Business Plan":     true,
	"Market Analysis":   true,
	"Strategy Document": true,
	"Financial Report":  true,
}

var (
	codeSyntaxRe = regexp.MustCompile(`\b(function|class|import|export|const|let|var)\b`)
	sqlVerbRe    = regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b`)
	methodCallRe = regexp.MustCompile(`[a-zA-Z]+\.[a-zA-Z]+\([^)]*\)`)

	financialRe    = regexp.MustCompile(`\$[\d,]+|\b\d+%|\bQ[1-4]\b|\bFY\d{4}\b`)
	trendRe        = regexp.MustCompile(`\b(increase|decrease|growth|decline) (by|of) \d+%`)
	businessTermRe = regexp.MustCompile(`\b(revenue|profit|loss|budget|cost)\b`)
)

// Classifier 是内容受众分类器。纯函数实现，自身没有任何副作用，
// 分类结果的持久化由调用方决定。
type Classifier struct{}

// Classify 对单条内容分类。
func (c *Classifier) Classify(title, body, category string, tags []string) UserType {
	text := strings.ToLower(title + " " + body + " " + strings.Join(tags, " "))

	techScore := c.techScore(text, category)
	businessScore := c.businessScore(text, category)

	switch {
	case techScore > businessScore && techScore > scoreThreshold:
		return UserTypeTech
	case businessScore > techScore && businessScore > scoreThreshold:
		return UserTypeBusiness
	default:
		return UserTypeMixed
	}
}

func (c *Classifier) techScore(text, category string) float64 {
	if len(strings.Fields(text)) == 0 {
		return 0
	}

	score := 0.0
	if techCategories[category] {
		score += 0.4
	}

	score += keywordScore(text, techKeywords, "programming", "tech_concepts")

	if codeSyntaxRe.MatchString(text) {
		score += 0.2
	}
	if sqlVerbRe.MatchString(text) {
		score += 0.15
	}
	if methodCallRe.MatchString(text) {
		score += 0.1
	}

	return capScore(score)
}

func (c *Classifier) businessScore(text, category string) float64 {
	if len(strings.Fields(text)) == 0 {
		return 0
	}

	score := 0.0
	if businessCategories[category] {
		score += 0.4
	}

	score += keywordScore(text, businessKeywords, "strategy", "management")

	if financialRe.MatchString(text) {
		score += 0.15
	}
	if trendRe.MatchString(text) {
		score += 0.1
	}
	if businessTermRe.MatchString(text) {
		score += 0.1
	}

	return capScore(score)
}

// keywordScore 对各关键词分组统计命中数并按分组权重累加。
func keywordScore(text string, groups map[string][]string, primary, secondary string) float64 {
	score := 0.0
	for group, keywords := range groups {
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				matches++
			}
		}
		switch group {
		case primary:
			score += float64(matches) * weightPrimary
		case secondary:
			score += float64(matches) * weightSecondary
		default:
			score += float64(matches) * weightRole
		}
	}
	return score
}

func capScore(s float64) float64 {
	if s > 1.0 {
		return 1.0
	}
	return s
}
