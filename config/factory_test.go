package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/pipeline"
	"github.com/rushteam/recsite/recall"
	"github.com/rushteam/recsite/rerank"
	"github.com/rushteam/recsite/store"
)

const homepageYAML = `
pipeline:
  name: homepage
  nodes:
    - type: recall.fanout
      config:
        dedup: true
        sources:
          - type: trending
            top_k: 20
          - type: hot
            top_k: 20
    - type: filter
      config:
        exclude_interacted: true
        rules:
          - 'item.score < 0.0'
    - type: rerank.diversity
      config:
        label_key: category
        max_per_key: 2
    - type: rerank.topn
      config:
        n: 5
`

func testDeps(t *testing.T) Deps {
	t.Helper()
	now := time.Now()
	catalog := store.NewMemoryCatalog(
		&core.CatalogItem{ID: "a", Category: "Tutorial", Tags: []string{"go"}, Published: true, CreatedAt: now},
		&core.CatalogItem{ID: "b", Category: "News", Tags: []string{"go"}, Published: true, CreatedAt: now},
	)
	interactions := store.NewMemoryInteractions(
		&core.InteractionEvent{UserID: "u1", ItemID: "a", Type: core.InteractionView, Score: 1, Timestamp: now},
	)
	kv := store.NewMemoryStore()
	t.Cleanup(func() { kv.Close() })
	return Deps{Catalog: catalog, Interactions: interactions, KV: kv}
}

func TestDefaultFactoryBuildsAllNodeTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homepage.yaml")
	if err := os.WriteFile(path, []byte(homepageYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}

	p, err := cfg.BuildPipeline(DefaultFactory(testDeps(t)))
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	if len(p.Nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(p.Nodes))
	}

	wantKinds := []pipeline.Kind{
		pipeline.KindRecall,
		pipeline.KindFilter,
		pipeline.KindReRank,
		pipeline.KindReRank,
	}
	for i, want := range wantKinds {
		if got := p.Nodes[i].Kind(); got != want {
			t.Errorf("node %d kind = %s, want %s", i, got, want)
		}
	}

	fanout, ok := p.Nodes[0].(*recall.Fanout)
	if !ok {
		t.Fatalf("node 0 is %T, want *recall.Fanout", p.Nodes[0])
	}
	if len(fanout.Sources) != 2 || !fanout.Dedup {
		t.Errorf("fanout = %+v", fanout)
	}

	topn, ok := p.Nodes[3].(*rerank.TopNNode)
	if !ok || topn.N != 5 {
		t.Errorf("node 3 = %+v", p.Nodes[3])
	}
}

func TestHomepagePipelineRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homepage.yaml")
	if err := os.WriteFile(path, []byte(homepageYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	p, err := cfg.BuildPipeline(DefaultFactory(testDeps(t)))
	if err != nil {
		t.Fatal(err)
	}

	items, err := p.Run(context.Background(), &core.RecommendContext{UserID: "u1", Scene: "home"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// u1 看过 a，过滤后只剩 b
	found := false
	for _, it := range items {
		if it.ID == "a" {
			t.Error("interacted item must be filtered out")
		}
		if it.ID == "b" {
			found = true
		}
	}
	if !found {
		t.Error("expected item b to survive the pipeline")
	}
}

func TestBuildSourceUnknownType(t *testing.T) {
	_, err := buildSource(testDeps(t), map[string]any{"type": "ghost"})
	if err == nil {
		t.Error("expected error for unknown source type")
	}
}

func TestBuildFilterNodeBadRule(t *testing.T) {
	_, err := buildFilterNode(testDeps(t), map[string]any{
		"rules": []any{"item.score >==< 1"},
	})
	if err == nil {
		t.Error("expected error for invalid rule expression")
	}
}

func TestBuildUserCFSource(t *testing.T) {
	src, err := buildSource(testDeps(t), map[string]any{
		"type":           "user_cf",
		"top_k":          10,
		"top_k_users":    5,
		"min_similarity": 0.1,
		"window_days":    30,
		"types":          []any{"purchase", "cart"},
	})
	if err != nil {
		t.Fatalf("buildSource() error = %v", err)
	}
	cf, ok := src.(*recall.UserCF)
	if !ok {
		t.Fatalf("source is %T, want *recall.UserCF", src)
	}
	if cf.TopK != 10 || cf.TopKUsers != 5 || cf.MinSimilarity != 0.1 {
		t.Errorf("cf = %+v", cf)
	}
	if cf.Window != 30*24*time.Hour {
		t.Errorf("Window = %v", cf.Window)
	}
	if len(cf.Types) != 2 || cf.Types[0] != "purchase" {
		t.Errorf("Types = %v", cf.Types)
	}
}
