package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestIsSource(t *testing.T) {
	for path, want := range map[string]bool{
		"main.tower":     true,
		"dir/lib.tower":  true,
		"tower.yaml":     false,
		"main.tower.swp": false,
		"notes.txt":      false,
	} {
		if got := IsSource(path); got != want {
			t.Errorf("IsSource(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatchTriggersBuild(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.tower")
	if err := os.WriteFile(file, []byte("fn main { }"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var built []string
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, nil, func(path string) error {
			mu.Lock()
			built = append(built, path)
			mu.Unlock()
			return nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644)
	os.WriteFile(file, []byte("fn main { 1u32 }"), 0o644)

	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(built)
	}
	for i := 0; i < 20 && count() == 0; i++ {
		time.Sleep(100 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(built) == 0 {
		t.Fatal("expected build to be triggered")
	}
	for _, p := range built {
		if filepath.Base(p) != "main.tower" {
			t.Errorf("build called for %s", p)
		}
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), nil, func(string) error { return nil })
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
