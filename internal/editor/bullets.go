// Package editor implements the outline-style notes field: line breaks insert a
// bullet marker, and backspacing into an empty bullet removes that line.
package editor

import "strings"

// Marker prefixes every outline line.
const Marker = "• "

const bulletRune = '•'

// Initial is the buffer a fresh notes field starts with.
const Initial = Marker

// Apply computes the next buffer state from the previous buffer, the full raw
// input of the edit event and the caret position (a rune offset into input).
//
// Rules are evaluated in order and the first match wins:
//   - the two runes before the caret are "\n•": the last line of prev is
//     dropped, falling back to Initial when nothing is left;
//   - input ends with a newline: prev is trimmed and a fresh bullet appended;
//   - otherwise input is returned unchanged.
func Apply(prev, input string, caret int) string {
	if joinsBullet(input, caret) {
		lines := strings.Split(prev, "\n")
		lines = lines[:len(lines)-1]
		if joined := strings.Join(lines, "\n"); joined != "" {
			return joined
		}
		return Initial
	}

	if strings.HasSuffix(input, "\n") {
		return strings.TrimSpace(prev) + "\n" + Marker
	}

	return input
}

// joinsBullet reports whether the caret sits right after a newline followed by
// the bullet rune.
func joinsBullet(input string, caret int) bool {
	if caret < 2 {
		return false
	}
	runes := []rune(input)
	if caret > len(runes) {
		return false
	}
	return runes[caret-1] == bulletRune && runes[caret-2] == '\n'
}

// Lines splits a serialized buffer into its lines.
func Lines(buf string) []string {
	return strings.Split(buf, "\n")
}
