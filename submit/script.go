package submit

import (
	"log"
	"strings"
	"unicode/utf8"
)

// SmartTruncate cuts text to the site's script limit at the last complete
// sentence so the spoken script never ends mid-word. Text within the
// limit is returned unchanged.
func SmartTruncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	log.Printf("⚠️ Script exceeds %d characters (total: %d), truncating...", limit, len(text))

	// Back the cut up to a rune boundary so a multi-byte character at the
	// limit is dropped whole, never split.
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	truncated := text[:cut]
	lastEnd := -1
	for _, ending := range []string{".", "!", "?", "\n"} {
		if pos := strings.LastIndex(truncated, ending); pos > lastEnd {
			lastEnd = pos
		}
	}
	if lastEnd >= 0 {
		truncated = truncated[:lastEnd+1]
	}

	log.Printf("✂️ Truncated to %d characters (removed %d)", len(truncated), len(text)-len(truncated))
	return truncated
}
