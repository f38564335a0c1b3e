package similarity

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want []string
	}{
		{
			name: "frequency order",
			text: "golang golang golang kubernetes kubernetes docker",
			n:    10,
			want: []string{"golang", "kubernetes", "docker"},
		},
		{
			name: "short tokens dropped",
			text: "api sql web database database",
			n:    10,
			want: []string{"database"},
		},
		{
			name: "stop words dropped",
			text: "this would could should database",
			n:    10,
			want: []string{"database"},
		},
		{
			name: "html stripped",
			text: "<p>microservices</p> <div class=\"x\">microservices</div>",
			n:    10,
			want: []string{"microservices"},
		},
		{
			name: "punctuation stripped",
			text: "performance, performance! scalability?",
			n:    10,
			want: []string{"performance", "scalability"},
		},
		{
			name: "ties keep first seen order",
			text: "zebra apple zebra apple mango",
			n:    10,
			want: []string{"zebra", "apple", "mango"},
		},
		{
			name: "truncated to n",
			text: "alpha alpha beta beta gamma delta",
			n:    2,
			want: []string{"alpha", "beta"},
		},
		{
			name: "empty text",
			text: "",
			n:    10,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.text, tt.n)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeywords() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeywordSet(t *testing.T) {
	set := KeywordSet("database database server", 10)
	if len(set) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(set))
	}
	if _, ok := set["database"]; !ok {
		t.Error("missing keyword database")
	}
	if _, ok := set["server"]; !ok {
		t.Error("missing keyword server")
	}
}
