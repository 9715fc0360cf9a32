package store

import (
	"bytes"
	"context"
	"testing"
)

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.Put(ctx, "frame-0.svg", []byte("<svg/>")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, ok := m.Get("frame-0.svg")
	if !ok {
		t.Fatal("expected frame-0.svg to be present")
	}
	if !bytes.Equal(got, []byte("<svg/>")) {
		t.Errorf("Get() = %q, want %q", got, "<svg/>")
	}
}

func TestMemoryGetMissingKey(t *testing.T) {
	m := NewMemory()
	if _, ok := m.Get("nope.svg"); ok {
		t.Error("expected ok=false for a missing key")
	}
}

func TestMemoryPutOverwrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_ = m.Put(ctx, "k", []byte("one"))
	_ = m.Put(ctx, "k", []byte("two"))
	got, _ := m.Get("k")
	if string(got) != "two" {
		t.Errorf("Get() = %q, want overwritten value %q", got, "two")
	}
}
