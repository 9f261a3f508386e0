package store

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shoplab/shoprec/core"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) error = %v, want store not found", err)
	}

	if err := s.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("v1")) {
		t.Errorf("Get = %q, want v1", got)
	}

	if err := s.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "k1"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after Delete error = %v, want store not found", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Set(ctx, "short", []byte("v"), 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Get(ctx, "short"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	// expire the entry directly instead of sleeping past the TTL
	s.mu.Lock()
	past := time.Now().Add(-time.Second)
	s.data["short"].ttl = &past
	s.mu.Unlock()

	if _, err := s.Get(ctx, "short"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after expiry error = %v, want store not found", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	kvs := map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}
	if err := s.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet: %v", err)
	}

	got, err := s.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("BatchGet returned %d entries, want 2", len(got))
	}
	if !bytes.Equal(got["a"], []byte("1")) || !bytes.Equal(got["b"], []byte("2")) {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStoreDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, k := range []string{"rec:hybrid:alice:10", "rec:cf:bob:5", "session:alice"} {
		if err := s.Set(ctx, k, []byte("x")); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}

	if err := s.DeleteByPrefix(ctx, "rec:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}

	for _, k := range []string{"rec:hybrid:alice:10", "rec:cf:bob:5"} {
		if _, err := s.Get(ctx, k); !core.IsStoreNotFound(err) {
			t.Errorf("key %s survived DeleteByPrefix", k)
		}
	}
	if _, err := s.Get(ctx, "session:alice"); err != nil {
		t.Errorf("unrelated key deleted: %v", err)
	}
}

func TestMemoryStoreZSet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	adds := []struct {
		member string
		score  float64
	}{
		{member: "P2", score: 5},
		{member: "P1", score: 10},
		{member: "P3", score: 10},
	}
	for _, a := range adds {
		if err := s.ZAdd(ctx, "popular", a.score, a.member); err != nil {
			t.Fatalf("ZAdd(%s): %v", a.member, err)
		}
	}

	// score descending, ties broken by member ascending
	got, err := s.ZRange(ctx, "popular", 0, -1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	want := []string{"P1", "P3", "P2"}
	if len(got) != len(want) {
		t.Fatalf("ZRange = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ZRange[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	top, err := s.ZRange(ctx, "popular", 0, 1)
	if err != nil {
		t.Fatalf("ZRange top: %v", err)
	}
	if len(top) != 2 || top[0] != "P1" || top[1] != "P3" {
		t.Errorf("ZRange(0,1) = %v, want [P1 P3]", top)
	}

	score, err := s.ZScore(ctx, "popular", "P2")
	if err != nil {
		t.Fatalf("ZScore: %v", err)
	}
	if score != 5 {
		t.Errorf("ZScore(P2) = %v, want 5", score)
	}
	if _, err := s.ZScore(ctx, "popular", "P9"); !core.IsStoreNotFound(err) {
		t.Errorf("ZScore(P9) error = %v, want store not found", err)
	}
}

func TestMemoryStoreDeleteCoversZSets(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.ZAdd(ctx, "popular", 4, "P3"); err != nil {
		t.Fatalf("ZAdd: %v", err)
	}
	if err := s.Delete(ctx, "popular"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := s.ZRange(ctx, "popular", 0, -1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("zset survived Delete: %v", got)
	}

	if err := s.ZAdd(ctx, "chart:daily", 1, "P1"); err != nil {
		t.Fatalf("ZAdd: %v", err)
	}
	if err := s.ZAdd(ctx, "other", 1, "P1"); err != nil {
		t.Fatalf("ZAdd: %v", err)
	}
	if err := s.DeleteByPrefix(ctx, "chart:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if got, _ := s.ZRange(ctx, "chart:daily", 0, -1); len(got) != 0 {
		t.Errorf("zset survived DeleteByPrefix: %v", got)
	}
	if got, _ := s.ZRange(ctx, "other", 0, -1); len(got) != 1 {
		t.Errorf("unrelated zset deleted: %v", got)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.HSet(ctx, "profile", "alice", []byte("a")); err != nil {
		t.Fatalf("HSet: %v", err)
	}
	if err := s.HSet(ctx, "profile", "bob", []byte("b")); err != nil {
		t.Fatalf("HSet: %v", err)
	}

	got, err := s.HGet(ctx, "profile", "alice")
	if err != nil {
		t.Fatalf("HGet: %v", err)
	}
	if !bytes.Equal(got, []byte("a")) {
		t.Errorf("HGet = %q, want a", got)
	}
	if _, err := s.HGet(ctx, "profile", "carol"); !core.IsStoreNotFound(err) {
		t.Errorf("HGet missing field error = %v, want store not found", err)
	}

	all, err := s.HGetAll(ctx, "profile")
	if err != nil {
		t.Fatalf("HGetAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("HGetAll returned %d fields, want 2", len(all))
	}
	if !bytes.Equal(all["alice"], []byte("a")) || !bytes.Equal(all["bob"], []byte("b")) {
		t.Errorf("HGetAll = %v", all)
	}
}

func TestVectorAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	adapter := NewStoreVectorAdapter(s)

	version := "20260831120000"
	vectors := map[string][]float64{
		"alice": {0.6, 0.8, 0},
		"bob":   {0, 0, 1},
	}
	for id, vec := range vectors {
		if err := adapter.PersistVector(ctx, core.VectorKindCustomer, id, vec, version); err != nil {
			t.Fatalf("PersistVector(%s): %v", id, err)
		}
	}

	got, err := adapter.LoadVectors(ctx, core.VectorKindCustomer, version)
	if err != nil {
		t.Fatalf("LoadVectors: %v", err)
	}
	if len(got) != len(vectors) {
		t.Fatalf("LoadVectors returned %d vectors, want %d", len(got), len(vectors))
	}
	for id, want := range vectors {
		vec, ok := got[id]
		if !ok {
			t.Fatalf("missing vector for %s", id)
		}
		if len(vec) != len(want) {
			t.Fatalf("[%s] dimension %d, want %d", id, len(vec), len(want))
		}
		for i := range want {
			if vec[i] != want[i] {
				t.Errorf("[%s][%d] = %v, want %v", id, i, vec[i], want[i])
			}
		}
	}

	// vectors of a different kind or version stay isolated
	other, err := adapter.LoadVectors(ctx, core.VectorKindProduct, version)
	if err != nil {
		t.Fatalf("LoadVectors(product): %v", err)
	}
	if len(other) != 0 {
		t.Errorf("product vectors = %v, want empty", other)
	}
}
