package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestHandleFileChange_Debounces(t *testing.T) {
	fw, err := NewFileWatcher(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	defer fw.Close()

	path := filepath.Join(t.TempDir(), "case.json")
	var calls int32
	if err := fw.Watch([]string{path}, func(string) { atomic.AddInt32(&calls, 1) }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	for i := 0; i < 5; i++ {
		fw.handleFileChange(path)
	}
	time.Sleep(150 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("callbacks = %d, want 1", got)
	}
}

func TestHandleFileChange_IgnoresUnwatched(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	defer fw.Close()

	fw.handleFileChange("/nowhere/else.json")
	if len(fw.timers) != 0 {
		t.Errorf("timers = %d, want 0", len(fw.timers))
	}
}

func TestRun_FileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fw, err := NewFileWatcher(10 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	defer fw.Close()

	changed := make(chan string, 4)
	if err := fw.Watch([]string{path}, func(p string) { changed <- p }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = fw.Run(ctx) }()

	// Sibling files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"mesh1":{}}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case got := <-changed:
		want, _ := filepath.Abs(path)
		if got != want {
			t.Errorf("changed path = %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
