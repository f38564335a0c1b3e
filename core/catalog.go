package core

import (
	"context"
	"strings"
	"time"
)

// 物品类型：内容（CMS 文章）与商品（电商 SKU）共用同一套目录抽象。
const (
	KindContent = "content"
	KindProduct = "product"
)

// CatalogItem 是目录中的一条物品：内容或商品。
// 对推荐引擎而言目录是只读的；增删改由上游 CRUD 负责。
type CatalogItem struct {
	ID        string
	Kind      string // content / product
	Title     string
	Body      string // 正文 / 商品描述，可能含 HTML
	Category  string
	Author    string // 内容作者 / 商品卖家
	Tags      []string
	UserType  string // 派生标签：tech / business / mixed（可选回写）
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TagSet 返回标签集合（去重、去空白）。
func (c *CatalogItem) TagSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Tags))
	for _, t := range c.Tags {
		t = strings.TrimSpace(t)
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// Catalog 是目录的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 引擎只消费已发布物品；状态过滤由实现方完成
type Catalog interface {
	// ListPublished 返回全部已发布物品
	ListPublished(ctx context.Context) ([]*CatalogItem, error)

	// GetItem 按 ID 获取物品；不存在时返回 ErrCatalogNotFound
	GetItem(ctx context.Context, id string) (*CatalogItem, error)

	// Version 返回目录版本号，目录内容变化时单调递增。
	// 特征矩阵缓存据此判断是否过期。
	Version(ctx context.Context) (int64, error)
}

// CatalogLabeler 是目录的可选扩展接口：回写派生的 user_type 标签。
// 引擎在分类后机会性调用；实现方可拒绝（返回 ErrStoreNotSupported）。
type CatalogLabeler interface {
	SetUserType(ctx context.Context, itemID, userType string) error
}

// ErrCatalogNotFound 表示物品不存在。
var ErrCatalogNotFound = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: item not found")
