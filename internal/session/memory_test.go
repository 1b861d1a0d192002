package session

import (
	"context"
	"testing"

	"github.com/you/tg-videobot/internal/ytdl"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok, err := store.Get(ctx, 42); err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}

	s := Session{
		URL:   "https://youtu.be/abc",
		Title: "clip",
		Variants: []ytdl.Variant{
			{Height: 720, FormatID: "18"},
			{Audio: true},
		},
	}
	if err := store.Put(ctx, 42, s); err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.Get(ctx, 42)
	if err != nil || !ok {
		t.Fatalf("expected session, got ok=%v err=%v", ok, err)
	}
	if got.Title != "clip" || len(got.Variants) != 2 {
		t.Errorf("unexpected session: %+v", got)
	}

	// A later submission overwrites the earlier session.
	s.Title = "newer clip"
	if err := store.Put(ctx, 42, s); err != nil {
		t.Fatal(err)
	}
	got, _, _ = store.Get(ctx, 42)
	if got.Title != "newer clip" {
		t.Errorf("expected overwrite, got %q", got.Title)
	}

	if err := store.Remove(ctx, 42); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(ctx, 42); ok {
		t.Error("session should be gone after Remove")
	}
}

func TestSessionVariantLookup(t *testing.T) {
	s := Session{Variants: []ytdl.Variant{
		{Height: 1080, FormatID: "37"},
		{Height: 720, FormatID: "22"},
		{Audio: true},
	}}

	v, ok := s.Variant("720p")
	if !ok || v.FormatID != "22" {
		t.Errorf("expected 720p format 22, got %+v ok=%v", v, ok)
	}
	if v, ok := s.Variant("audio"); !ok || !v.Audio {
		t.Errorf("expected audio variant, got %+v ok=%v", v, ok)
	}
	if _, ok := s.Variant("480p"); ok {
		t.Error("480p should not resolve")
	}
}
