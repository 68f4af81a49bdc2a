package store

import (
	"errors"
	"testing"
)

func TestSettingRepository(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if _, err := settings.Get("engine.config"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := settings.Set("engine.config", `{"mode":"tempo"}`); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := settings.Set("engine.config", `{"mode":"approval"}`); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}

	got, err := settings.Get("engine.config")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got != `{"mode":"approval"}` {
		t.Errorf("expected overwritten value, got %s", got)
	}

	if err := settings.Delete("engine.config"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if err := settings.Delete("engine.config"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
