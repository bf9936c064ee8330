package savestore

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(DefaultConfig(filepath.Join(dir, "saves.db")))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	var digest [32]byte
	digest[0] = 0xAB

	payload := []byte("FORM....IFZS")
	if err := s.Put(digest, "quicksave", payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(digest, "quicksave")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Get = %q, want %q", got, payload)
	}
}

func TestGetMissingSlot(t *testing.T) {
	s := openTestStore(t)
	var digest [32]byte
	if _, err := s.Get(digest, "nope"); err != ErrSlotNotFound {
		t.Errorf("Get on missing slot = %v, want ErrSlotNotFound", err)
	}
}

func TestDigestsDoNotCollide(t *testing.T) {
	s := openTestStore(t)
	var d1, d2 [32]byte
	d1[0] = 1
	d2[0] = 2

	if err := s.Put(d1, "save1", []byte("game one")); err != nil {
		t.Fatalf("Put d1: %v", err)
	}
	if _, err := s.Get(d2, "save1"); err != ErrSlotNotFound {
		t.Errorf("Get on other image's slot = %v, want ErrSlotNotFound", err)
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTestStore(t)
	var digest [32]byte

	if err := s.Put(digest, "a", []byte("x")); err != nil {
		t.Fatalf("Put a: %v", err)
	}
	if err := s.Put(digest, "b", []byte("yy")); err != nil {
		t.Fatalf("Put b: %v", err)
	}

	infos, err := s.List(digest)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List returned %d slots, want 2", len(infos))
	}
	for _, info := range infos {
		if info.SavedAt.IsZero() {
			t.Errorf("slot %q has zero SavedAt", info.Name)
		}
	}

	if err := s.Delete(digest, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(digest, "a"); err != ErrSlotNotFound {
		t.Errorf("Get after Delete = %v, want ErrSlotNotFound", err)
	}
}

func TestClosedStoreRejectsOperations(t *testing.T) {
	s := openTestStore(t)
	var digest [32]byte
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Put(digest, "a", []byte("x")); err != ErrClosed {
		t.Errorf("Put after Close = %v, want ErrClosed", err)
	}
	if _, err := s.Get(digest, "a"); err != ErrClosed {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}
}
