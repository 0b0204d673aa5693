package queue

import (
	"fmt"
	"os"
	"strings"
)

const avatarKey = "available_avatars:"

// LoadAvatars reads the avatar set from the config file. The file holds a
// single "available_avatars:" line with comma-separated names; a missing
// file yields an empty set.
func LoadAvatars(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read avatar file: %w", err)
	}

	var avatars []string
	for _, line := range strings.Split(string(data), "\n") {
		idx := strings.Index(line, avatarKey)
		if idx < 0 {
			continue
		}
		for _, part := range strings.Split(line[idx+len(avatarKey):], ",") {
			if name := strings.TrimSpace(part); name != "" {
				avatars = append(avatars, name)
			}
		}
	}
	return avatars, nil
}

// SaveAvatars persists the avatar set, preserving the given order
func SaveAvatars(path string, avatars []string) error {
	line := avatarKey
	if len(avatars) > 0 {
		line += " " + strings.Join(avatars, ", ")
	}
	if err := os.WriteFile(path, []byte(line+"\n"), 0o644); err != nil {
		return fmt.Errorf("write avatar file: %w", err)
	}
	return nil
}

// AddAvatar appends a name to the set if not already present
func AddAvatar(path, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("avatar name is required")
	}

	avatars, err := LoadAvatars(path)
	if err != nil {
		return nil, err
	}
	for _, a := range avatars {
		if strings.EqualFold(a, name) {
			return avatars, nil
		}
	}
	avatars = append(avatars, name)
	if err := SaveAvatars(path, avatars); err != nil {
		return nil, err
	}
	return avatars, nil
}

// RemoveAvatar deletes a name, leaving the remaining names in their
// previous relative order. The bool reports whether the name was present.
func RemoveAvatar(path, name string) ([]string, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, fmt.Errorf("avatar name is required")
	}

	avatars, err := LoadAvatars(path)
	if err != nil {
		return nil, false, err
	}
	kept := avatars[:0]
	for _, a := range avatars {
		if !strings.EqualFold(a, name) {
			kept = append(kept, a)
		}
	}
	removed := len(kept) != len(avatars)
	if !removed {
		return avatars, false, nil
	}
	if err := SaveAvatars(path, kept); err != nil {
		return nil, false, err
	}
	return kept, true, nil
}
