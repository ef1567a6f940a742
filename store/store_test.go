package store

import (
	"net/http"
	"testing"
	"time"

	"cine-booking-cli/model"
)

func setTestConfigDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", root)
}

func TestFileSlot_TakeOnce(t *testing.T) {
	setTestConfigDir(t)

	slot, err := PendingSlot()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok, err := slot.Take(); err != nil || ok {
		t.Fatalf("expected empty slot, got ok=%v err=%v", ok, err)
	}

	if err := slot.Save(`{"film_id":1}`); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !slot.Pending() {
		t.Fatal("expected pending selection")
	}

	blob, ok, err := slot.Take()
	if err != nil || !ok {
		t.Fatalf("expected blob, got ok=%v err=%v", ok, err)
	}
	if blob != `{"film_id":1}` {
		t.Fatalf("unexpected blob: %s", blob)
	}

	if _, ok, _ := slot.Take(); ok {
		t.Fatal("expected slot to be empty after take")
	}
	if slot.Pending() {
		t.Fatal("expected no pending selection")
	}
}

func TestCookies_RoundTripPerBaseURL(t *testing.T) {
	setTestConfigDir(t)

	cookies := []*http.Cookie{
		{Name: "session", Value: "abc", Path: "/"},
		{Name: "old", Value: "x", Expires: time.Now().Add(-time.Hour)},
	}
	if err := SaveCookies("http://localhost:5000/api", cookies); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	loaded, err := LoadCookies("http://localhost:5000/api")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "session" || loaded[0].Value != "abc" {
		t.Fatalf("unexpected cookies: %+v", loaded)
	}

	other, err := LoadCookies("http://other:5000/api")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no cookies for another base url, got %+v", other)
	}

	if err := SaveCookies("http://localhost:5000/api", nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	loaded, _ = LoadCookies("http://localhost:5000/api")
	if len(loaded) != 0 {
		t.Fatalf("expected cookies to be forgotten, got %+v", loaded)
	}
}

func TestPurchaseCache(t *testing.T) {
	setTestConfigDir(t)

	purchases := []model.Purchase{{ID: 1, FilmeNome: "Coringa", Status: model.PurchaseActive}}
	if err := SavePurchaseCache("maria", purchases); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	cached, fresh, err := LoadPurchaseCache("maria", time.Minute)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !fresh || len(cached) != 1 || cached[0].FilmeNome != "Coringa" {
		t.Fatalf("unexpected cache: fresh=%v %+v", fresh, cached)
	}

	if _, fresh, _ := LoadPurchaseCache("maria", 0); fresh {
		t.Fatal("expected cache to be stale with zero ttl")
	}

	if err := ClearPurchaseCache("maria"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	cached, _, err = LoadPurchaseCache("maria", time.Minute)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(cached) != 0 {
		t.Fatalf("expected empty cache, got %+v", cached)
	}

	if err := SavePurchaseCache(" ", purchases); err == nil {
		t.Fatal("expected error for empty username")
	}
}

func TestRememberFilm_MovesToFront(t *testing.T) {
	setTestConfigDir(t)

	for _, film := range []model.Film{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 1, Name: "A"}} {
		if err := RememberFilm(film); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}

	recents, err := LoadRecentFilms()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(recents) != 2 || recents[0].ID != 1 || recents[1].ID != 2 {
		t.Fatalf("unexpected recents: %+v", recents)
	}
}
