package core

import (
	"context"
	"time"
)

// 交互类型。score 的含义随类型变化：view/like 通常为 1.0，
// purchase 的 score 为数量，cart 为加购数量。
const (
	InteractionView     = "view"
	InteractionEdit     = "edit"
	InteractionLike     = "like"
	InteractionShare    = "share"
	InteractionCreate   = "create"
	InteractionDownload = "download"
	InteractionCart     = "cart"
	InteractionPurchase = "purchase"
)

// InteractionEvent 是一条用户-物品交互记录。创建后不可变；
// 交互日志是 append-only 的（按天龄批量清理属于维护操作，不在打分链路内）。
type InteractionEvent struct {
	ID        string // 事件 ID（存储层生成，ULID）
	UserID    string
	ItemID    string
	Type      string  // view / edit / like / share / create / download / cart / purchase
	Score     float64 // >= 0
	Timestamp time.Time
}

// InteractionQuery 是交互日志的查询条件；零值字段表示不过滤。
type InteractionQuery struct {
	UserID string
	ItemID string
	Types  []string
	Since  time.Time
}

// InteractionStore 是交互日志的领域接口。
type InteractionStore interface {
	// ListInteractions 按条件查询交互事件，时间升序
	ListInteractions(ctx context.Context, q InteractionQuery) ([]*InteractionEvent, error)

	// RecordInteraction 追加一条交互事件（仅反馈入口使用，打分链路只读）
	RecordInteraction(ctx context.Context, ev *InteractionEvent) error
}

// Match 判断事件是否命中查询条件。供内存实现与测试复用。
func (q InteractionQuery) Match(ev *InteractionEvent) bool {
	if ev == nil {
		return false
	}
	if q.UserID != "" && ev.UserID != q.UserID {
		return false
	}
	if q.ItemID != "" && ev.ItemID != q.ItemID {
		return false
	}
	if !q.Since.IsZero() && ev.Timestamp.Before(q.Since) {
		return false
	}
	if len(q.Types) > 0 {
		hit := false
		for _, t := range q.Types {
			if ev.Type == t {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
