package queue

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadAvatarsMissingFile(t *testing.T) {
	avatars, err := LoadAvatars(filepath.Join(t.TempDir(), "config.txt"))
	if err != nil {
		t.Fatalf("LoadAvatars on missing file: %v", err)
	}
	if avatars != nil {
		t.Fatalf("got %v; want empty set", avatars)
	}
}

func TestLoadAvatarsParsing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.txt")
	content := "# roster\navailable_avatars: Amelia, Marcus ,  Elena\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	avatars, err := LoadAvatars(path)
	if err != nil {
		t.Fatalf("LoadAvatars: %v", err)
	}
	want := []string{"Amelia", "Marcus", "Elena"}
	if !reflect.DeepEqual(avatars, want) {
		t.Fatalf("LoadAvatars = %v; want %v", avatars, want)
	}
}

func TestAddAndRemoveAvatar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.txt")

	for _, name := range []string{"Amelia", "Marcus", "Elena"} {
		if _, err := AddAvatar(path, name); err != nil {
			t.Fatalf("AddAvatar(%s): %v", name, err)
		}
	}

	// Case-insensitive duplicate is a no-op.
	avatars, err := AddAvatar(path, "amelia")
	if err != nil {
		t.Fatalf("AddAvatar duplicate: %v", err)
	}
	if len(avatars) != 3 {
		t.Fatalf("duplicate add grew the set: %v", avatars)
	}

	avatars, removed, err := RemoveAvatar(path, "MARCUS")
	if err != nil {
		t.Fatalf("RemoveAvatar: %v", err)
	}
	if !removed {
		t.Fatalf("RemoveAvatar reported not found for a present name")
	}
	want := []string{"Amelia", "Elena"}
	if !reflect.DeepEqual(avatars, want) {
		t.Fatalf("after removal = %v; want %v (order preserved)", avatars, want)
	}

	_, removed, err = RemoveAvatar(path, "Nobody")
	if err != nil {
		t.Fatalf("RemoveAvatar unknown: %v", err)
	}
	if removed {
		t.Fatalf("RemoveAvatar reported removal of an absent name")
	}

	// The file round-trips what the API returned.
	reloaded, err := LoadAvatars(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(reloaded, want) {
		t.Fatalf("reloaded = %v; want %v", reloaded, want)
	}
}
