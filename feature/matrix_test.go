package feature

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/store"
)

func matrixCatalog() *store.MemoryCatalog {
	now := time.Now()
	return store.NewMemoryCatalog(
		&core.CatalogItem{
			ID: "a", Category: "Tutorial", Author: "alice", Tags: []string{"golang"},
			Body: "building backend services", Published: true, CreatedAt: now,
		},
		&core.CatalogItem{
			ID: "b", Category: "News", Author: "bob", Tags: []string{"market"},
			Body: "quarterly market report", Published: true, CreatedAt: now,
		},
		&core.CatalogItem{
			ID: "draft", Category: "Tutorial", Published: false, CreatedAt: now,
		},
	)
}

func TestMatrixSnapshot(t *testing.T) {
	m := NewMatrix(matrixCatalog())
	ids, vectors, err := m.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	// 只含已发布物品
	if len(ids) != 2 {
		t.Fatalf("expected 2 published items, got %d", len(ids))
	}
	for _, id := range ids {
		if id == "draft" {
			t.Error("unpublished item must not be vectorized")
		}
		if len(vectors[id]) == 0 {
			t.Errorf("item %s has empty vector", id)
		}
	}

	// 特征 key 带特征族前缀
	vec := vectors["a"]
	foundCat := false
	for k := range vec {
		if k == "cat:Tutorial" {
			foundCat = true
		}
	}
	if !foundCat {
		t.Errorf("vector missing cat:Tutorial feature: %v", vec)
	}
}

func TestMatrixLazyAndCached(t *testing.T) {
	catalog := matrixCatalog()
	m := NewMatrix(catalog)

	ids1, _, err := m.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	// 目录变化但未失效：继续用旧快照
	catalog.Put(&core.CatalogItem{ID: "c", Category: "Tutorial", Published: true, CreatedAt: time.Now()})
	ids2, _, _ := m.Snapshot(context.Background())
	if len(ids2) != len(ids1) {
		t.Errorf("snapshot should be cached until invalidated")
	}

	// Invalidate 后重建
	m.Invalidate()
	ids3, _, _ := m.Snapshot(context.Background())
	if len(ids3) != len(ids1)+1 {
		t.Errorf("expected rebuild after invalidate, got %d ids", len(ids3))
	}
}

func TestMatrixRebuildIfStale(t *testing.T) {
	catalog := matrixCatalog()
	m := NewMatrix(catalog)

	if _, _, err := m.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	// 版本未变：RebuildIfStale 是 no-op
	if err := m.RebuildIfStale(context.Background()); err != nil {
		t.Fatalf("RebuildIfStale() error = %v", err)
	}

	catalog.Put(&core.CatalogItem{ID: "new", Category: "News", Published: true, CreatedAt: time.Now()})
	if err := m.RebuildIfStale(context.Background()); err != nil {
		t.Fatalf("RebuildIfStale() error = %v", err)
	}
	ids, _, _ := m.Snapshot(context.Background())
	found := false
	for _, id := range ids {
		if id == "new" {
			found = true
		}
	}
	if !found {
		t.Error("stale matrix should rebuild with new catalog version")
	}
}

func TestMatrixEmpty(t *testing.T) {
	m := NewMatrix(store.NewMemoryCatalog())
	if !m.Empty(context.Background()) {
		t.Error("matrix over empty catalog should be empty")
	}
	if NewMatrix(matrixCatalog()).Empty(context.Background()) {
		t.Error("matrix over populated catalog should not be empty")
	}
}

func TestVectorizerIDFDamping(t *testing.T) {
	now := time.Now()
	// Tutorial 出现在两个物品上，rare 只出现在一个上：
	// 同族特征中 df 高的权重应更低
	catalog := store.NewMemoryCatalog(
		&core.CatalogItem{ID: "a", Category: "Tutorial", Tags: []string{"common", "rare"}, Published: true, CreatedAt: now},
		&core.CatalogItem{ID: "b", Category: "Tutorial", Tags: []string{"common"}, Published: true, CreatedAt: now},
	)
	m := NewMatrix(catalog)
	vec, err := m.Vector(context.Background(), "a")
	if err != nil {
		t.Fatalf("Vector() error = %v", err)
	}
	if vec["tag:rare"] <= vec["tag:common"] {
		t.Errorf("rare tag should outweigh common tag: %v vs %v",
			vec["tag:rare"], vec["tag:common"])
	}
}
