package recall

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/store"
)

func TestTagTrendingRecall(t *testing.T) {
	now := time.Now()
	mk := func(id string, age time.Duration, tags ...string) *core.CatalogItem {
		return &core.CatalogItem{
			ID: id, Kind: core.KindContent, Tags: tags,
			Published: true, CreatedAt: now.Add(-age), UpdatedAt: now.Add(-age),
		}
	}
	catalog := store.NewMemoryCatalog(
		mk("a", 1*time.Hour, "golang", "web"),
		mk("b", 2*time.Hour, "golang"),
		mk("c", 3*time.Hour, "golang", "web"),
		mk("d", 4*time.Hour, "misc"),
	)

	tr := &TagTrending{Catalog: catalog, TopTags: 2}
	items, err := tr.Recall(context.Background(), &core.RecommendContext{})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	// golang(3) 和 web(2) 是热门标签；d 只有 misc，0 命中不入选
	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	// a/c 命中 2 个热门标签，b 命中 1 个；同分保持最近发布次序
	want := []string{"a", "c", "b"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("trending order = %v, want %v", ids, want)
	}

	if items[0].Score != 2 {
		t.Errorf("top score = %v, want 2 (tag hits)", items[0].Score)
	}
}

func TestTagTrendingDeterministic(t *testing.T) {
	now := time.Now()
	catalog := store.NewMemoryCatalog(
		&core.CatalogItem{ID: "a", Tags: []string{"x"}, Published: true, CreatedAt: now},
		&core.CatalogItem{ID: "b", Tags: []string{"x"}, Published: true, CreatedAt: now.Add(-time.Hour)},
	)
	tr := &TagTrending{Catalog: catalog}

	first, err := tr.Recall(context.Background(), &core.RecommendContext{})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := tr.Recall(context.Background(), &core.RecommendContext{})
		if err != nil {
			t.Fatalf("Recall() error = %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("result size changed between runs")
		}
		for j := range again {
			if again[j].ID != first[j].ID {
				t.Fatalf("result order changed between runs: %v vs %v", again[j].ID, first[j].ID)
			}
		}
	}
}

func TestTagTrendingEmptyCatalog(t *testing.T) {
	tr := &TagTrending{Catalog: store.NewMemoryCatalog()}
	items, err := tr.Recall(context.Background(), &core.RecommendContext{})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("empty catalog should yield empty result")
	}
}
