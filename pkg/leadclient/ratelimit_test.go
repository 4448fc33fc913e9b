package leadclient

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLocalLimiterWindow(t *testing.T) {
	store := &memTimestamps{}
	l := NewLocalLimiter(store, 3, time.Hour)

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		ok, err := l.Allow()
		if err != nil || !ok {
			t.Fatalf("attempt %d should be allowed: ok=%v err=%v", i+1, ok, err)
		}
		if err := l.Record(); err != nil {
			t.Fatal(err)
		}
	}

	ok, err := l.Allow()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("4th attempt within window must be denied")
	}

	// Past the window the slate is clean again.
	l.now = func() time.Time { return base.Add(time.Hour + time.Minute) }
	ok, err = l.Allow()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("attempt after window expiry must be allowed")
	}
	if len(store.ts) != 0 {
		t.Errorf("expired timestamps should be pruned, got %d", len(store.ts))
	}
}

func TestLocalLimiterRemaining(t *testing.T) {
	l := NewLocalLimiter(&memTimestamps{}, 3, time.Hour)

	left, err := l.Remaining()
	if err != nil || left != 3 {
		t.Fatalf("expected 3 remaining, got %d (err=%v)", left, err)
	}
	if err := l.Record(); err != nil {
		t.Fatal(err)
	}
	left, _ = l.Remaining()
	if left != 2 {
		t.Errorf("expected 2 remaining, got %d", left)
	}
}

func TestLocalLimiterDisabled(t *testing.T) {
	now := time.Now()
	store := &memTimestamps{ts: []time.Time{now, now, now, now}}
	l := NewLocalLimiter(store, 3, time.Hour)
	l.Enabled = false

	ok, err := l.Allow()
	if err != nil || !ok {
		t.Errorf("disabled limiter must always allow: ok=%v err=%v", ok, err)
	}
	if err := l.Record(); err != nil {
		t.Fatal(err)
	}
	if len(store.ts) != 4 {
		t.Error("disabled limiter must not touch the store")
	}
}

func TestFileTimestampStoreRoundTrip(t *testing.T) {
	store := NewFileTimestampStore(filepath.Join(t.TempDir(), "ts.json"))

	ts, err := store.Read()
	if err != nil || len(ts) != 0 {
		t.Fatalf("missing file should read empty: %v %v", ts, err)
	}

	want := []time.Time{time.Now().Truncate(time.Second)}
	if err := store.Write(want); err != nil {
		t.Fatal(err)
	}
	got, err := store.Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].Equal(want[0]) {
		t.Errorf("round trip mismatch: %v vs %v", got, want)
	}
}
