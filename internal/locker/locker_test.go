package locker

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/autoscribe-io/autoscribe/internal/logger"
)

func newTestManager(t *testing.T) *LockManager {
	t.Helper()
	m, err := New(t.TempDir(), logger.New("error"))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestAcquireRelease(t *testing.T) {
	m := newTestManager(t)

	ok, err := m.Acquire("recording")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !ok {
		t.Fatal("first Acquire() = false, want true")
	}

	ok, err = m.Acquire("recording")
	if err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}
	if ok {
		t.Error("second Acquire() = true, want false while held")
	}

	m.Release("recording")

	ok, err = m.Acquire("recording")
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	if !ok {
		t.Error("Acquire() after release = false, want true")
	}
}

func TestAcquireDistinctNames(t *testing.T) {
	m := newTestManager(t)

	for _, name := range []string{"a", "b", "c"} {
		ok, err := m.Acquire(name)
		if err != nil || !ok {
			t.Fatalf("Acquire(%q) = %v, %v", name, ok, err)
		}
	}
}

// Exactly one of many concurrent acquirers for the same base name may win,
// even when they start in the same instant.
func TestAcquireConcurrent(t *testing.T) {
	m := newTestManager(t)

	const goroutines = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := m.Acquire("contested")
			if err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}

func TestSweepStale(t *testing.T) {
	dir := t.TempDir()
	m, err := New(dir, logger.New("error"))
	if err != nil {
		t.Fatal(err)
	}

	// Simulate markers left behind by a crashed process.
	for _, name := range []string{"old1", "old2"} {
		if err := os.Mkdir(filepath.Join(dir, name+".lock"), 0755); err != nil {
			t.Fatal(err)
		}
	}
	// Unrelated files survive the sweep.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := m.SweepStale(context.Background()); err != nil {
		t.Fatalf("SweepStale() error = %v", err)
	}

	for _, name := range []string{"old1", "old2"} {
		ok, err := m.Acquire(name)
		if err != nil || !ok {
			t.Errorf("Acquire(%q) after sweep = %v, %v; want true", name, ok, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Error("sweep removed an unrelated file")
	}
}
