package site

import (
	"fmt"
	"log"
	"strings"
)

// scriptEntry carries the primitive editor operations so the entry
// protocol can be exercised without a browser behind it.
type scriptEntry struct {
	paste  func(script string) error
	read   func() (string, error)
	clear  func() error
	insert func(script string) error
}

// enter runs the script entry protocol: paste first, verify by reading
// the editor back, and on any paste failure clear the editor and
// direct-insert exactly once. The clear runs before the insert so a
// partial paste and the fallback text never concatenate. Reports whether
// the paste path succeeded.
func (s scriptEntry) enter(script string) (bool, error) {
	if err := s.paste(script); err != nil {
		log.Printf("⚠️ Clipboard paste failed: %v", err)
	} else {
		got, err := s.read()
		if err == nil && scriptsMatch(got, script) {
			return true, nil
		}
		log.Println("⚠️ Paste verification failed, falling back to direct insert...")
	}

	if err := s.clear(); err != nil {
		return false, fmt.Errorf("clear editor: %w", err)
	}
	if err := s.insert(script); err != nil {
		return false, fmt.Errorf("direct insert: %w", err)
	}

	got, err := s.read()
	if err != nil {
		return false, fmt.Errorf("read back editor: %w", err)
	}
	if !scriptsMatch(got, script) {
		return false, fmt.Errorf("editor content mismatch after direct insert")
	}
	return false, nil
}

// scriptsMatch compares editor content to the intended script with
// whitespace collapsed, since the editor reflows line breaks.
func scriptsMatch(got, want string) bool {
	return strings.Join(strings.Fields(got), " ") == strings.Join(strings.Fields(want), " ")
}
