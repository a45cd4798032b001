// Package attrib reads and writes the attribution history kept in cell
// notes. Each line has the form "identity | timestamp", most recent first.
package attrib

import (
	"strings"
	"time"
)

// Unknown is the sentinel attribution when a note is absent or unparsable.
const Unknown = "unknown"

// TimeFormat is the timestamp layout used in attribution lines.
const TimeFormat = "2006-01-02 15:04:05"

const separator = " | "

// Line is one parsed attribution entry.
type Line struct {
	Identity string
	At       time.Time
}

// Stamp renders a single attribution line.
func Stamp(identity string, at time.Time) string {
	return identity + separator + at.Format(TimeFormat)
}

// Prepend adds a new attribution line above the existing note history,
// preserving all prior lines beneath it.
func Prepend(note, identity string, at time.Time) string {
	line := Stamp(identity, at)
	if note == "" {
		return line
	}
	return line + "\n" + note
}

// First parses the first line of a note history.
func First(note string) (Line, bool) {
	head := note
	if i := strings.IndexByte(note, '\n'); i >= 0 {
		head = note[:i]
	}
	identity, ts, found := strings.Cut(head, separator)
	if !found {
		return Line{}, false
	}
	identity = strings.TrimSpace(identity)
	at, err := time.Parse(TimeFormat, strings.TrimSpace(ts))
	if err != nil || identity == "" {
		return Line{}, false
	}
	return Line{Identity: identity, At: at}, true
}

// Identity returns the identity from the note's first line, or Unknown.
func Identity(note string) string {
	if l, ok := First(note); ok {
		return l.Identity
	}
	return Unknown
}
