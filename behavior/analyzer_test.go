package behavior

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/store"
)

func testCatalog() *store.MemoryCatalog {
	now := time.Now()
	return store.NewMemoryCatalog(
		&core.CatalogItem{
			ID: "c1", Kind: core.KindContent, Category: "Tutorial", Author: "alice",
			Tags: []string{"golang"}, Published: true, CreatedAt: now, UpdatedAt: now,
		},
		&core.CatalogItem{
			ID: "c2", Kind: core.KindContent, Category: "News", Author: "bob",
			Tags: []string{"market"}, Published: true, CreatedAt: now, UpdatedAt: now,
		},
	)
}

func TestAnalyzeEmptyHistory(t *testing.T) {
	a := &Analyzer{
		Catalog:      testCatalog(),
		Interactions: store.NewMemoryInteractions(),
	}

	profile, err := a.Analyze(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !profile.Empty() {
		t.Errorf("expected empty profile, got %+v", profile)
	}
	if profile.TotalInteractions != 0 || profile.RecentActivity != 0 {
		t.Errorf("expected zero counters, got %d/%d",
			profile.TotalInteractions, profile.RecentActivity)
	}
}

func TestAnalyzeNormalization(t *testing.T) {
	now := time.Now()
	interactions := store.NewMemoryInteractions(
		&core.InteractionEvent{UserID: "u1", ItemID: "c1", Type: core.InteractionView, Score: 1, Timestamp: now.Add(-3 * time.Hour)},
		&core.InteractionEvent{UserID: "u1", ItemID: "c1", Type: core.InteractionLike, Score: 1, Timestamp: now.Add(-2 * time.Hour)},
		&core.InteractionEvent{UserID: "u1", ItemID: "c2", Type: core.InteractionView, Score: 1, Timestamp: now.Add(-1 * time.Hour)},
	)

	a := &Analyzer{Catalog: testCatalog(), Interactions: interactions}
	profile, err := a.Analyze(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// 每个桶的取值都在 [0,1]，且非空桶内至少有一个值正好是 1.0
	for _, bucket := range []map[string]float64{profile.Categories, profile.Authors, profile.Tags} {
		if len(bucket) == 0 {
			t.Fatal("expected non-empty bucket")
		}
		sawMax := false
		for k, v := range bucket {
			if v < 0 || v > 1 {
				t.Errorf("bucket value %s=%v out of [0,1]", k, v)
			}
			if v == 1.0 {
				sawMax = true
			}
		}
		if !sawMax {
			t.Errorf("bucket missing normalized max 1.0: %v", bucket)
		}
	}

	// like(2.0) + view 衰减后，Tutorial 的权重应高于 News
	if profile.Categories["Tutorial"] <= profile.Categories["News"] {
		t.Errorf("expected Tutorial > News, got %v vs %v",
			profile.Categories["Tutorial"], profile.Categories["News"])
	}

	if profile.TotalInteractions != 3 {
		t.Errorf("TotalInteractions = %d, want 3", profile.TotalInteractions)
	}
	if profile.RecentActivity != 3 {
		t.Errorf("RecentActivity = %d, want 3", profile.RecentActivity)
	}
}

func TestAnalyzeWindow(t *testing.T) {
	now := time.Now()
	interactions := store.NewMemoryInteractions(
		// 窗口外的 view 被丢弃
		&core.InteractionEvent{UserID: "u1", ItemID: "c1", Type: core.InteractionView, Score: 1, Timestamp: now.Add(-100 * 24 * time.Hour)},
		// 窗口外的 purchase 不受窗口限制
		&core.InteractionEvent{UserID: "u1", ItemID: "c2", Type: core.InteractionPurchase, Score: 1, Timestamp: now.Add(-100 * 24 * time.Hour)},
	)

	a := &Analyzer{Catalog: testCatalog(), Interactions: interactions}
	profile, err := a.Analyze(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if _, ok := profile.Categories["Tutorial"]; ok {
		t.Error("windowed view should be excluded from profile")
	}
	if _, ok := profile.Categories["News"]; !ok {
		t.Error("purchase outside window should still count")
	}
	if profile.TotalInteractions != 1 {
		t.Errorf("TotalInteractions = %d, want 1", profile.TotalInteractions)
	}
}

func TestAnalyzeRecencyDecayFavorsNewer(t *testing.T) {
	now := time.Now()
	// 两个物品各一次同类型交互，较新的应得到更高权重
	interactions := store.NewMemoryInteractions(
		&core.InteractionEvent{UserID: "u1", ItemID: "c1", Type: core.InteractionView, Score: 1, Timestamp: now.Add(-2 * time.Hour)},
		&core.InteractionEvent{UserID: "u1", ItemID: "c2", Type: core.InteractionView, Score: 1, Timestamp: now.Add(-1 * time.Hour)},
	)

	a := &Analyzer{Catalog: testCatalog(), Interactions: interactions}
	profile, err := a.Analyze(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// News (c2) 更新，归一化后为 1.0；Tutorial (c1) 带一次衰减
	if profile.Categories["News"] != 1.0 {
		t.Errorf("newest category weight = %v, want 1.0", profile.Categories["News"])
	}
	if profile.Categories["Tutorial"] >= profile.Categories["News"] {
		t.Errorf("older interaction should decay below newer: %v vs %v",
			profile.Categories["Tutorial"], profile.Categories["News"])
	}
}
