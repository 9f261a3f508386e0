package dsl

import (
	"testing"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/pkg/utils"
)

func testItem() *core.Item {
	return &core.Item{
		ID:    "P1",
		Score: 0.85,
		Meta:  map[string]any{"category": "Kitchen", "price": 199.0},
		Labels: map[string]utils.Label{
			"reason": {Value: "hybrid", Source: "combine"},
		},
	}
}

func testContext() *core.RecommendContext {
	return &core.RecommendContext{
		CustomerID: "alice",
		Scene:      "homepage",
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    bool
		wantErr bool
	}{
		{name: "empty expression is true", expr: "", want: true},
		{name: "id equality", expr: `item.id == "P1"`, want: true},
		{name: "id mismatch", expr: `item.id == "P2"`, want: false},
		{name: "score comparison", expr: "item.score > 0.7", want: true},
		{name: "score below threshold", expr: "item.score < 0.1", want: false},
		{name: "meta access", expr: `item.meta.category == "Kitchen"`, want: true},
		{name: "label shorthand", expr: `label.reason == "hybrid"`, want: true},
		{name: "label full form", expr: `item.labels.reason.value == "hybrid"`, want: true},
		{name: "context access", expr: `rctx.scene == "homepage"`, want: true},
		{name: "logical and", expr: `label.reason == "hybrid" && item.score > 0.8`, want: true},
		{name: "compile error", expr: "item.score >", wantErr: true},
		{name: "non-boolean result", expr: "item.score", wantErr: true},
		{name: "missing key", expr: `label.missing == "x"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEval(testItem(), testContext()).Evaluate(tt.expr)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}
