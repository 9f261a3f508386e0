package rerank

import (
	"context"
	"testing"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/pkg/utils"
)

func items(ids ...string) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(id))
	}
	return out
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name string
		n    int
		in   []*core.Item
		want int
	}{
		{name: "truncates beyond n", n: 2, in: items("a", "b", "c", "d"), want: 2},
		{name: "fewer than n untouched", n: 10, in: items("a", "b"), want: 2},
		{name: "zero n means no truncation", n: 0, in: items("a", "b", "c"), want: 3},
		{name: "empty input", n: 5, in: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, tt.in)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("kept %d items, want %d", len(out), tt.want)
			}
			// order preserved
			for i := range out {
				if out[i].ID != tt.in[i].ID {
					t.Errorf("order changed at %d: %s != %s", i, out[i].ID, tt.in[i].ID)
				}
			}
		})
	}
}

func TestDiversityCapsPerCategory(t *testing.T) {
	a := core.NewItem("P1")
	a.PutLabel("category", utils.Label{Value: "Kitchen", Source: "catalog"})
	b := core.NewItem("P2")
	b.PutLabel("category", utils.Label{Value: "Kitchen", Source: "catalog"})
	c := core.NewItem("P3")
	c.PutLabel("category", utils.Label{Value: "Sports", Source: "catalog"})
	d := core.NewItem("P4") // no category: always kept

	node := &Diversity{MaxPerGroup: 1}
	out, err := node.Process(context.Background(), nil, []*core.Item{a, b, c, d})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := []string{"P1", "P3", "P4"}
	if len(out) != len(want) {
		t.Fatalf("kept %d items, want %d", len(out), len(want))
	}
	for i, id := range want {
		if out[i].ID != id {
			t.Errorf("out[%d] = %s, want %s", i, out[i].ID, id)
		}
	}
}

func TestDiversityMaxPerGroupTwo(t *testing.T) {
	in := items("P1", "P2", "P3")
	for _, it := range in {
		it.Meta["category"] = "Kitchen"
	}

	node := &Diversity{MaxPerGroup: 2}
	out, err := node.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("kept %d items, want 2", len(out))
	}
}

func TestDiversityFallsBackToMeta(t *testing.T) {
	a := core.NewItem("P1")
	a.Meta["category"] = "Audio"
	b := core.NewItem("P2")
	b.Meta["category"] = "Audio"

	node := &Diversity{}
	out, err := node.Process(context.Background(), nil, []*core.Item{a, b})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID != "P1" {
		t.Errorf("meta-based dedup failed, kept %d items", len(out))
	}
}
