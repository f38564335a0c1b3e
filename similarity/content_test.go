package similarity

import (
	"math"
	"testing"

	"github.com/rushteam/recsite/core"
)

func TestContentIdenticalTriple(t *testing.T) {
	// 类别、标签、作者完全一致时，无论正文如何，
	// 相似度至少为 0.4 + 0.3 + 0.1 = 0.8
	a := &core.CatalogItem{
		ID:       "a",
		Category: "Tutorial",
		Author:   "alice",
		Tags:     []string{"golang", "backend"},
		Body:     "completely different body text about databases",
	}
	b := &core.CatalogItem{
		ID:       "b",
		Category: "Tutorial",
		Author:   "alice",
		Tags:     []string{"golang", "backend"},
		Body:     "another unrelated body mentioning kubernetes clusters",
	}

	if got := Content(a, b); got < 0.8 {
		t.Errorf("Content() = %v, want >= 0.8", got)
	}
}

func TestContentWith(t *testing.T) {
	w := DefaultContentWeights()

	tests := []struct {
		name string
		a    *core.CatalogItem
		b    *core.CatalogItem
		want float64
	}{
		{
			name: "category only",
			a:    &core.CatalogItem{Category: "News"},
			b:    &core.CatalogItem{Category: "News"},
			want: w.Category,
		},
		{
			name: "author only",
			a:    &core.CatalogItem{Author: "bob"},
			b:    &core.CatalogItem{Author: "bob"},
			want: w.Author,
		},
		{
			name: "different everything",
			a:    &core.CatalogItem{Category: "News", Author: "bob"},
			b:    &core.CatalogItem{Category: "Tutorial", Author: "carol"},
			want: 0,
		},
		{
			name: "half tag overlap",
			a:    &core.CatalogItem{Tags: []string{"go", "web"}},
			b:    &core.CatalogItem{Tags: []string{"web", "css"}},
			want: w.Tags * (1.0 / 3.0),
		},
		{
			name: "nil item",
			a:    nil,
			b:    &core.CatalogItem{Category: "News"},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContentWith(tt.a, tt.b, w)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ContentWith() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContentEmptyCategoryNotMatched(t *testing.T) {
	a := &core.CatalogItem{Category: ""}
	b := &core.CatalogItem{Category: ""}
	if got := Content(a, b); got != 0 {
		t.Errorf("empty categories must not match, got %v", got)
	}
}
