package recall

import (
	"context"
	"testing"

	"github.com/shoplab/shoprec/core"
	"github.com/shoplab/shoprec/model"
)

// stubProvider pins a fixed snapshot for engine tests.
type stubProvider struct {
	snap *model.Snapshot
}

func (p *stubProvider) Active() *model.Snapshot { return p.snap }

type stubSource struct {
	interactions []core.Interaction
	products     []core.Product
	customers    []string
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) LoadInteractions(context.Context) ([]core.Interaction, error) {
	return s.interactions, nil
}

func (s *stubSource) LoadProducts(context.Context) ([]core.Product, error) {
	return s.products, nil
}

func (s *stubSource) LoadCustomers(context.Context) ([]string, error) {
	return s.customers, nil
}

func buildSnapshot(t *testing.T, src *stubSource) *model.Snapshot {
	t.Helper()
	snap, err := model.Build(context.Background(), src, model.BuildOptions{})
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	return snap
}

// shopSource is the shared fixture: a tiny coffee-gear shop.
//
//	alice: P1 x2, P2 x1      (coffee gear)
//	bob:   P1 x1, P3 x3      (coffee + sports)
//	carol: P2 x1, P3 x1
//	dave:  no purchases
//
// P1/P2/P4 share coffee-related text, P3 is unrelated sports gear.
func shopSource() *stubSource {
	return &stubSource{
		interactions: []core.Interaction{
			{CustomerID: "alice", ProductID: "P1", Quantity: 2},
			{CustomerID: "alice", ProductID: "P2", Quantity: 1},
			{CustomerID: "bob", ProductID: "P1", Quantity: 1},
			{CustomerID: "bob", ProductID: "P3", Quantity: 3},
			{CustomerID: "carol", ProductID: "P2", Quantity: 1},
			{CustomerID: "carol", ProductID: "P3", Quantity: 1},
		},
		products: []core.Product{
			{ID: "P1", Name: "Espresso Machine", Category: "Kitchen", Description: "compact espresso machine with steam wand", Price: 199},
			{ID: "P2", Name: "Coffee Grinder", Category: "Kitchen", Description: "burr coffee grinder for espresso", Price: 89},
			{ID: "P3", Name: "Trail Running Shoes", Category: "Sports", Description: "lightweight trail running shoes", Price: 129},
			{ID: "P4", Name: "Pour Over Kettle", Category: "Kitchen", Description: "gooseneck kettle for pour over coffee espresso", Price: 45},
		},
		customers: []string{"alice", "bob", "carol", "dave"},
	}
}

func shopSnapshot(t *testing.T) *model.Snapshot {
	t.Helper()
	return buildSnapshot(t, shopSource())
}

func itemIDs(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func reasonOf(t *testing.T, it *core.Item) string {
	t.Helper()
	lbl, ok := it.GetLabel("reason")
	if !ok {
		t.Fatalf("item %s has no reason label", it.ID)
	}
	return lbl.Value
}
