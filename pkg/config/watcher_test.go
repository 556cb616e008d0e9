package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_ReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  listen_address: \":9000\"\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	watcher, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	watcher.debounce = NewDebouncer(20 * time.Millisecond)

	var reloads atomic.Int32
	var gotAddr atomic.Value

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = watcher.Watch(ctx, func(cfg *Config) {
		reloads.Add(1)
		gotAddr.Store(cfg.Server.ListenAddress)
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("server:\n  listen_address: \":9001\"\n"), 0o600); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if addr, _ := gotAddr.Load().(string); addr != ":9001" {
		t.Errorf("expected reloaded address :9001, got %q", addr)
	}
}

func TestWatcher_InvalidConfigKeepsOld(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("server:\n  listen_address: \":9000\"\n"), 0o600)

	watcher, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	watcher.debounce = NewDebouncer(20 * time.Millisecond)

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher.Watch(ctx, func(cfg *Config) {
		reloads.Add(1)
	})

	// Invalid YAML must not reach the callback.
	os.WriteFile(path, []byte(": not yaml ["), 0o600)

	time.Sleep(300 * time.Millisecond)
	if reloads.Load() != 0 {
		t.Errorf("expected no reload for invalid config, got %d", reloads.Load())
	}
}

func TestNewWatcher_EmptyPath(t *testing.T) {
	if _, err := NewWatcher(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestDebouncer_Coalesces(t *testing.T) {
	debouncer := NewDebouncer(30 * time.Millisecond)
	defer debouncer.Stop()

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		debouncer.Trigger(func() { calls.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 coalesced call, got %d", got)
	}
}
