package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazuruo/tokentpl/internal/definitions"
	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
	"github.com/chazuruo/tokentpl/internal/logger"
)

// setupTestStore creates a store rooted in a fresh temporary directory.
func setupTestStore(t *testing.T) *FileSystemStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "templates"), logger.New(io.Discard, logger.LevelQuiet))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func makeTestDefinition(title, source string) *definitions.Definition {
	return &definitions.Definition{
		SchemaVersion: definitions.SchemaVersion,
		Title:         title,
		Source:        source,
	}
}

func TestFileSystemStore_New(t *testing.T) {
	if _, err := New("", nil); err == nil {
		t.Error("New() with empty dir should fail")
	}
	store, err := New("/tmp/x", nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if store.Dir() != "/tmp/x" {
		t.Errorf("Dir() = %s", store.Dir())
	}
}

func TestFileSystemStore_Save(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("save creates the directory and slugs the title", func(t *testing.T) {
		ref, err := store.Save(ctx, makeTestDefinition("User Route", "/user/{id}"), SaveOptions{})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if ref.Name != "user-route" {
			t.Errorf("Name = %s, want user-route", ref.Name)
		}
		if _, err := os.Stat(ref.Path); os.IsNotExist(err) {
			t.Errorf("definition file not created at %s", ref.Path)
		}
	})

	t.Run("same title gets a unique name", func(t *testing.T) {
		ref, err := store.Save(ctx, makeTestDefinition("User Route", "/u/{id}"), SaveOptions{})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if ref.Name != "user-route-2" {
			t.Errorf("Name = %s, want user-route-2", ref.Name)
		}
	})

	t.Run("explicit name collides without force", func(t *testing.T) {
		_, err := store.Save(ctx, makeTestDefinition("Other", "{x}"), SaveOptions{Name: "user-route"})
		if !tplerrors.IsAlreadyExists(err) {
			t.Fatalf("expected collision error, got %v", err)
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		ref, err := store.Save(ctx, makeTestDefinition("User Route", "/v2/{id}"), SaveOptions{Force: true})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		def, err := store.Load(ctx, ref)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if def.Source != "/v2/{id}" {
			t.Errorf("Source = %s, want overwritten source", def.Source)
		}
	})

	t.Run("invalid definition is rejected", func(t *testing.T) {
		_, err := store.Save(ctx, makeTestDefinition("Empty", ""), SaveOptions{})
		if !tplerrors.IsInvalid(err) {
			t.Errorf("expected invalid error, got %v", err)
		}
	})
}

func TestFileSystemStore_ListAndFind(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	refs, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() on missing dir error = %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("expected no refs, got %d", len(refs))
	}

	for _, title := range []string{"Beta Route", "Alpha Route", "Gamma"} {
		if _, err := store.Save(ctx, makeTestDefinition(title, "{x}"), SaveOptions{}); err != nil {
			t.Fatalf("Save(%s) error = %v", title, err)
		}
	}
	// Non-definition files are ignored.
	if err := os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	refs, err = store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var names []string
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	want := []string{"alpha-route", "beta-route", "gamma"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}

	refs, err = store.List(ctx, Filter{Search: "ROUTE"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("search returned %d refs, want 2", len(refs))
	}

	ref, err := store.Find(ctx, "gamma")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if ref.Name != "gamma" {
		t.Errorf("Find() name = %s", ref.Name)
	}

	if _, err := store.Find(ctx, "missing"); !tplerrors.IsNotFound(err) {
		t.Errorf("Find(missing) error = %v, want not found", err)
	}
}

func TestFileSystemStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	ref, err := store.Save(ctx, makeTestDefinition("Doomed", "{x}"), SaveOptions{})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(ref.Path); !os.IsNotExist(err) {
		t.Error("definition file still exists")
	}
	if err := store.Delete(ctx, ref); !tplerrors.IsNotFound(err) {
		t.Errorf("second Delete() error = %v, want not found", err)
	}
}
