package recall

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/store"
)

func view(user, item string, score float64) *core.InteractionEvent {
	return &core.InteractionEvent{
		UserID:    user,
		ItemID:    item,
		Type:      core.InteractionView,
		Score:     score,
		Timestamp: time.Now().Add(-time.Hour),
	}
}

func TestUserCFRecall(t *testing.T) {
	// u1 与 u2 同看 a/b，u2 还看了 c；c 应被推给 u1
	interactions := store.NewMemoryInteractions(
		view("u1", "a", 1), view("u1", "b", 1),
		view("u2", "a", 1), view("u2", "b", 1), view("u2", "c", 2),
	)

	cf := &UserCF{Interactions: interactions}
	items, err := cf.Recall(context.Background(), &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ID != "c" {
		t.Errorf("expected item c, got %s", items[0].ID)
	}
	if items[0].Score <= 0 {
		t.Errorf("expected positive score, got %v", items[0].Score)
	}
	if got := items[0].LabelValue("recall_source"); got != "user_cf" {
		t.Errorf("recall_source = %q, want user_cf", got)
	}
}

func TestUserCFNoOverlap(t *testing.T) {
	// 两个用户没有任何共同物品：无邻居，返回空
	interactions := store.NewMemoryInteractions(
		view("u1", "a", 1),
		view("u2", "b", 1),
	)

	cf := &UserCF{Interactions: interactions}
	items, err := cf.Recall(context.Background(), &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty result, got %d items", len(items))
	}
}

func TestUserCFNoHistory(t *testing.T) {
	interactions := store.NewMemoryInteractions(view("u2", "a", 1))

	cf := &UserCF{Interactions: interactions}
	items, err := cf.Recall(context.Background(), &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if items != nil {
		t.Errorf("expected nil result for cold user, got %v", items)
	}
}

func TestUserCFExcludesInteracted(t *testing.T) {
	interactions := store.NewMemoryInteractions(
		view("u1", "a", 1), view("u1", "b", 1),
		view("u2", "a", 1), view("u2", "b", 3),
	)

	cf := &UserCF{Interactions: interactions}
	items, err := cf.Recall(context.Background(), &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	for _, it := range items {
		if it.ID == "a" || it.ID == "b" {
			t.Errorf("interacted item %s must be excluded", it.ID)
		}
	}
}

func TestUserCFMinSimilarity(t *testing.T) {
	// u2 与 u1 只有弱重合；门槛抬高后 u2 不再是邻居
	interactions := store.NewMemoryInteractions(
		view("u1", "a", 1), view("u1", "b", 1), view("u1", "c", 1),
		view("u2", "a", 1), view("u2", "x", 5), view("u2", "y", 5),
	)

	loose := &UserCF{Interactions: interactions}
	items, err := loose.Recall(context.Background(), &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected results with zero threshold")
	}

	strict := &UserCF{Interactions: interactions, MinSimilarity: 0.9}
	items, err = strict.Recall(context.Background(), &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty result with 0.9 threshold, got %d items", len(items))
	}
}

func TestUserCFWindow(t *testing.T) {
	old := time.Now().Add(-60 * 24 * time.Hour)
	interactions := store.NewMemoryInteractions(
		// 全部在默认 30 天窗口之外
		&core.InteractionEvent{UserID: "u1", ItemID: "a", Type: core.InteractionView, Score: 1, Timestamp: old},
		&core.InteractionEvent{UserID: "u2", ItemID: "a", Type: core.InteractionView, Score: 1, Timestamp: old},
		&core.InteractionEvent{UserID: "u2", ItemID: "b", Type: core.InteractionView, Score: 1, Timestamp: old},
	)

	windowed := &UserCF{Interactions: interactions}
	items, err := windowed.Recall(context.Background(), &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty result inside default window, got %d", len(items))
	}

	unbounded := &UserCF{Interactions: interactions, Window: -1}
	items, err = unbounded.Recall(context.Background(), &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != "b" {
		t.Errorf("expected item b with unbounded window, got %v", items)
	}
}
