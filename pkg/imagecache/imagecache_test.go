package imagecache

import "testing"

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cfg := DefaultConfig("")
	cfg.InMemory = true
	c, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSumIsDeterministic(t *testing.T) {
	raw := []byte("Glulx\x00\x03\x01\x02\x03\x04")
	if Sum(raw) != Sum(append([]byte{}, raw...)) {
		t.Error("Sum should be deterministic over identical bytes")
	}
	if Sum(raw) == Sum([]byte("different image bytes")) {
		t.Error("Sum should differ for different inputs")
	}
}

func TestDigestString(t *testing.T) {
	d := Sum([]byte("x"))
	if len(d.String()) != 64 {
		t.Errorf("String() length = %d, want 64 hex chars", len(d.String()))
	}
}

func TestCacheMiss(t *testing.T) {
	c := openTestCache(t)
	if _, ok := c.Get(Sum([]byte("unknown"))); ok {
		t.Error("expected cache miss for unstored digest")
	}
}

func TestCachePutGetRoundTrip(t *testing.T) {
	c := openTestCache(t)
	digest := Sum([]byte("some game image"))

	want := &Resolution{
		Bindings: []VeneerBinding{
			{Slot: 1, Addr: 0x4000},
			{Slot: 7, Addr: 0x4120},
		},
		DecodingCached: true,
	}
	if err := c.Put(digest, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := c.Get(digest)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.DecodingCached != want.DecodingCached {
		t.Errorf("DecodingCached = %v, want %v", got.DecodingCached, want.DecodingCached)
	}
	if len(got.Bindings) != len(want.Bindings) {
		t.Fatalf("got %d bindings, want %d", len(got.Bindings), len(want.Bindings))
	}
	for i, b := range want.Bindings {
		if got.Bindings[i] != b {
			t.Errorf("binding %d = %+v, want %+v", i, got.Bindings[i], b)
		}
	}
}

func TestCacheEmptyResolution(t *testing.T) {
	c := openTestCache(t)
	digest := Sum([]byte("empty"))
	if err := c.Put(digest, &Resolution{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := c.Get(digest)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.DecodingCached || len(got.Bindings) != 0 {
		t.Errorf("got non-empty resolution: %+v", got)
	}
}
