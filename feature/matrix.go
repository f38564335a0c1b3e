package feature

import (
	"context"
	"sync"

	"github.com/rushteam/recsite/core"
)

// Matrix 是进程级的特征矩阵缓存：目录内所有已发布物品的特征向量。
//
// 约定：
//   - 首次使用时惰性构建；Invalidate 后下次读取重建
//   - RebuildIfStale 按目录版本号判断是否过期
//   - 重建是幂等的纯派生计算：并发重建是可容忍的低效，不是正确性问题，
//     读路径仍然用读写锁保护
type Matrix struct {
	Catalog    core.Catalog
	Vectorizer Vectorizer

	mu      sync.RWMutex
	ids     []string                      // 目录顺序，保证遍历/并列次序稳定
	vectors map[string]map[string]float64 // itemID -> 稀疏特征向量
	version int64
	built   bool
}

// NewMatrix 创建特征矩阵缓存。
func NewMatrix(catalog core.Catalog) *Matrix {
	return &Matrix{Catalog: catalog}
}

// Snapshot 返回当前矩阵快照（必要时惰性构建）。
// 返回的 ids 按目录顺序；调用方不得修改返回值。
func (m *Matrix) Snapshot(ctx context.Context) (ids []string, vectors map[string]map[string]float64, err error) {
	m.mu.RLock()
	if m.built {
		ids, vectors = m.ids, m.vectors
		m.mu.RUnlock()
		return ids, vectors, nil
	}
	m.mu.RUnlock()

	if err := m.rebuild(ctx); err != nil {
		return nil, nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ids, m.vectors, nil
}

// Vector 返回单个物品的特征向量；矩阵未含该物品时返回 nil。
func (m *Matrix) Vector(ctx context.Context, itemID string) (map[string]float64, error) {
	_, vectors, err := m.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return vectors[itemID], nil
}

// Invalidate 标记缓存失效，下次读取时重建。
func (m *Matrix) Invalidate() {
	m.mu.Lock()
	m.built = false
	m.mu.Unlock()
}

// RebuildIfStale 比较目录版本号，过期时重建。
// 目录不支持版本号（Version 返回错误）时保守地直接重建。
func (m *Matrix) RebuildIfStale(ctx context.Context) error {
	if m.Catalog == nil {
		return nil
	}
	current, err := m.Catalog.Version(ctx)
	if err != nil {
		return m.rebuild(ctx)
	}

	m.mu.RLock()
	fresh := m.built && m.version == current
	m.mu.RUnlock()
	if fresh {
		return nil
	}
	return m.rebuild(ctx)
}

func (m *Matrix) rebuild(ctx context.Context) error {
	if m.Catalog == nil {
		m.mu.Lock()
		m.ids, m.vectors, m.built = nil, nil, true
		m.mu.Unlock()
		return nil
	}

	items, err := m.Catalog.ListPublished(ctx)
	if err != nil {
		return err
	}
	version, _ := m.Catalog.Version(ctx)

	ids, vectors := m.Vectorizer.buildVectors(items)

	m.mu.Lock()
	m.ids = ids
	m.vectors = vectors
	m.version = version
	m.built = true
	m.mu.Unlock()
	return nil
}

// Empty 判断矩阵是否为空（未构建或目录为空）。
func (m *Matrix) Empty(ctx context.Context) bool {
	ids, _, err := m.Snapshot(ctx)
	return err != nil || len(ids) == 0
}
