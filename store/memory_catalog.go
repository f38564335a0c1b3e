package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rushteam/recsite/core"
)

// MemoryCatalog 是内存实现的目录，用于测试/开发。
type MemoryCatalog struct {
	mu      sync.RWMutex
	items   map[string]*core.CatalogItem
	order   []string // 插入顺序，保证遍历可复现
	version int64
}

func NewMemoryCatalog(items ...*core.CatalogItem) *MemoryCatalog {
	c := &MemoryCatalog{items: make(map[string]*core.CatalogItem)}
	for _, it := range items {
		c.Put(it)
	}
	return c
}

// Put 新增或更新物品，并递增版本号。
func (c *MemoryCatalog) Put(item *core.CatalogItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[item.ID]; !ok {
		c.order = append(c.order, item.ID)
	}
	cp := *item
	c.items[item.ID] = &cp
	c.version++
}

func (c *MemoryCatalog) ListPublished(ctx context.Context) ([]*core.CatalogItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*core.CatalogItem, 0, len(c.order))
	for _, id := range c.order {
		if it := c.items[id]; it.Published {
			cp := *it
			out = append(out, &cp)
		}
	}
	// 与 SQLite 实现保持一致：创建时间降序
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (c *MemoryCatalog) GetItem(ctx context.Context, id string) (*core.CatalogItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[id]
	if !ok {
		return nil, core.ErrCatalogNotFound
	}
	cp := *it
	return &cp, nil
}

func (c *MemoryCatalog) Version(ctx context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version, nil
}

func (c *MemoryCatalog) SetUserType(ctx context.Context, itemID, userType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[itemID]
	if !ok {
		return core.ErrCatalogNotFound
	}
	it.UserType = userType
	return nil
}

// MemoryInteractions 是内存实现的交互日志，用于测试/开发。
type MemoryInteractions struct {
	mu     sync.RWMutex
	events []*core.InteractionEvent
}

func NewMemoryInteractions(events ...*core.InteractionEvent) *MemoryInteractions {
	s := &MemoryInteractions{}
	for _, ev := range events {
		s.RecordInteraction(context.Background(), ev)
	}
	return s
}

func (s *MemoryInteractions) ListInteractions(ctx context.Context, q core.InteractionQuery) ([]*core.InteractionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*core.InteractionEvent
	for _, ev := range s.events {
		if q.Match(ev) {
			cp := *ev
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *MemoryInteractions) RecordInteraction(ctx context.Context, ev *core.InteractionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *ev
	if cp.ID == "" {
		cp.ID = ulid.Make().String()
	}
	if cp.Timestamp.IsZero() {
		cp.Timestamp = time.Now()
	}
	s.events = append(s.events, &cp)
	return nil
}

var (
	_ core.Catalog          = (*MemoryCatalog)(nil)
	_ core.CatalogLabeler   = (*MemoryCatalog)(nil)
	_ core.InteractionStore = (*MemoryInteractions)(nil)
)
