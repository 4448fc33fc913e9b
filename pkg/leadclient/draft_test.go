package leadclient

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDraftRoundTrip(t *testing.T) {
	store := NewFileDraftStore(filepath.Join(t.TempDir(), "draft.json"))

	saved := FormState{
		Nombre:  "Pedro Mora",
		Email:   "pedro@example.com",
		Mensaje: "Quiero cotizar un rediseño.",
		Website: "should-not-persist",
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Nombre != saved.Nombre || loaded.Email != saved.Email {
		t.Errorf("draft fields lost: %+v", loaded)
	}
	if loaded.Website != "" {
		t.Error("honeypot field must never be persisted")
	}
}

func TestDraftMissingFileIsEmpty(t *testing.T) {
	store := NewFileDraftStore(filepath.Join(t.TempDir(), "nope.json"))

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != (FormState{}) {
		t.Errorf("expected empty state, got %+v", loaded)
	}
}

func TestDraftCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := NewFileDraftStore(path)
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("corrupt draft should not error: %v", err)
	}
	if loaded != (FormState{}) {
		t.Errorf("expected empty state, got %+v", loaded)
	}
}

func TestDraftClear(t *testing.T) {
	store := NewFileDraftStore(filepath.Join(t.TempDir(), "draft.json"))
	if err := store.Save(FormState{Nombre: "Ana"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clearing an empty store must be idempotent: %v", err)
	}
	if loaded, _ := store.Load(); loaded != (FormState{}) {
		t.Errorf("expected empty state after clear, got %+v", loaded)
	}
}
