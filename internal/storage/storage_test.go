package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/archbase/shell/internal/storage"
)

func TestSyncProviderScopesKeysByApp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	p, err := storage.NewSyncProviderAt(path)
	if err != nil {
		t.Fatalf("NewSyncProviderAt: %v", err)
	}

	p.Set("app1", "theme", `"dark"`)
	p.Set("app2", "theme", `"light"`)

	v, ok := p.Get("app1", "theme")
	if !ok || v != `"dark"` {
		t.Fatalf("app1 theme = %q, %v", v, ok)
	}
	v, ok = p.Get("app2", "theme")
	if !ok || v != `"light"` {
		t.Fatalf("app2 theme = %q, %v", v, ok)
	}

	keys := p.Keys("app1")
	if len(keys) != 1 || keys[0] != "theme" {
		t.Fatalf("app1 keys = %v", keys)
	}
}

func TestSyncProviderClearOnlyRemovesOwnScope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	p, _ := storage.NewSyncProviderAt(path)

	p.Set("app1", "a", "1")
	p.Set("app2", "b", "2")
	p.Clear("app1")

	if _, ok := p.Get("app1", "a"); ok {
		t.Fatalf("expected app1's key cleared")
	}
	if _, ok := p.Get("app2", "b"); !ok {
		t.Fatalf("expected app2's key to survive app1's clear")
	}
}

func TestSyncProviderGetMissingIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	p, _ := storage.NewSyncProviderAt(path)
	if _, ok := p.Get("app1", "nope"); ok {
		t.Fatalf("expected missing key to report absent")
	}
}

func TestSyncProviderPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	p1, _ := storage.NewSyncProviderAt(path)
	p1.Set("app1", "k", "v")

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		p2, err := storage.NewSyncProviderAt(path)
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		if v, ok := p2.Get("app1", "k"); ok && v == "v" {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("value never flushed to disk")
}

func TestAsyncProviderSetThenGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "async.json")
	p, err := storage.NewAsyncProviderAt(path)
	if err != nil {
		t.Fatalf("NewAsyncProviderAt: %v", err)
	}
	ctx := context.Background()
	sup := p.Supervisor()

	setCh := make(chan storage.Result, 1)
	setTok := sup.Begin()
	p.Set(ctx, setTok, "app1", "k", "v", setCh)
	if res := <-setCh; res.Err != nil {
		t.Fatalf("set: %v", res.Err)
	}

	getCh := make(chan storage.Result, 1)
	getTok := sup.Begin()
	p.Get(ctx, getTok, "app1", "k", getCh)
	res := <-getCh
	if !res.Found || res.Value != "v" {
		t.Fatalf("get = %+v", res)
	}
}

func TestAsyncProviderCancelledRequestNeverDelivers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "async.json")
	p, _ := storage.NewAsyncProviderAt(path)
	ctx := context.Background()
	sup := p.Supervisor()

	ch := make(chan storage.Result, 1)
	tok := sup.Begin()
	tok.Cancel()
	p.Get(ctx, tok, "app1", "missing", ch)

	select {
	case res := <-ch:
		t.Fatalf("expected no delivery for a cancelled request, got %+v", res)
	case <-time.After(50 * time.Millisecond):
	}
}
