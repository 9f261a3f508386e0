package recall

import (
	"context"
	"testing"

	"github.com/shoplab/shoprec/core"
)

func TestContentNotReady(t *testing.T) {
	c := &Content{Snapshots: &stubProvider{}}
	if _, err := c.Recommend(context.Background(), "alice", 5); !core.IsUnavailable(err) {
		t.Errorf("error = %v, want UNAVAILABLE", err)
	}
}

func TestContentUnknownIDs(t *testing.T) {
	c := &Content{Snapshots: &stubProvider{snap: shopSnapshot(t)}}

	if _, err := c.Recommend(context.Background(), "mallory", 5); !core.IsNotFound(err) {
		t.Errorf("unknown customer error = %v, want NOT_FOUND", err)
	}
	if _, err := c.SimilarProducts(context.Background(), "P999", 5); !core.IsNotFound(err) {
		t.Errorf("unknown product error = %v, want NOT_FOUND", err)
	}
}

func TestContentSimilarProducts(t *testing.T) {
	c := &Content{Snapshots: &stubProvider{snap: shopSnapshot(t)}, MinSimilarity: 0.01}

	got, err := c.SimilarProducts(context.Background(), "P1", 10)
	if err != nil {
		t.Fatalf("SimilarProducts: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected similar products for P1")
	}
	for _, s := range got {
		if s.ProductID == "P1" {
			t.Error("product returned as similar to itself")
		}
		if s.ProductID == "P3" {
			t.Error("text-unrelated P3 returned as similar to P1")
		}
		if s.Score <= 0 || s.Score > 1 {
			t.Errorf("similarity %v out of range (0,1]", s.Score)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("similarities not descending: %v", got)
		}
	}
}

func TestContentRecommendExcludesPurchased(t *testing.T) {
	c := &Content{Snapshots: &stubProvider{snap: shopSnapshot(t)}, MinSimilarity: 0.01}

	items, err := c.Recommend(context.Background(), "alice", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected content candidates for alice")
	}

	for _, it := range items {
		if it.ID == "P1" || it.ID == "P2" {
			t.Errorf("already purchased product %s recommended", it.ID)
		}
		if got := reasonOf(t, it); got != core.ReasonContentBased {
			t.Errorf("reason = %s, want %s", got, core.ReasonContentBased)
		}
	}

	// P4 shares coffee vocabulary with alice's purchases and must surface
	found := false
	for _, id := range itemIDs(items) {
		if id == "P4" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected P4 among %v", itemIDs(items))
	}
}

func TestContentNoPurchaseHistoryEmptyResult(t *testing.T) {
	c := &Content{Snapshots: &stubProvider{snap: shopSnapshot(t)}}

	items, err := c.Recommend(context.Background(), "dave", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("customer with no history got %v, want empty", itemIDs(items))
	}
}

func TestContentMinSimilarityCutoff(t *testing.T) {
	c := &Content{
		Snapshots:     &stubProvider{snap: shopSnapshot(t)},
		MinSimilarity: 0.99,
	}
	items, err := c.Recommend(context.Background(), "alice", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %v despite prohibitive similarity cutoff", itemIDs(items))
	}
}

func TestContentBlankTextProductsInvisible(t *testing.T) {
	// products without any text have zero vectors: never similar to anything
	src := &stubSource{
		interactions: []core.Interaction{
			{CustomerID: "alice", ProductID: "P1", Quantity: 1},
		},
		products: []core.Product{
			{ID: "P1", Name: "Espresso Machine", Description: "espresso machine"},
			{ID: "P2"}, // no text at all
		},
		customers: []string{"alice"},
	}
	c := &Content{Snapshots: &stubProvider{snap: buildSnapshot(t, src)}, MinSimilarity: 0.01}

	items, err := c.Recommend(context.Background(), "alice", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, id := range itemIDs(items) {
		if id == "P2" {
			t.Error("blank-text product surfaced as a content candidate")
		}
	}
}
