package note

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrDuplicate is returned when a note for the same patient and date exists.
var ErrDuplicate = errors.New("note already exists for name and date")

// Note is a saved session note. Only name, date and notes travel on the wire.
type Note struct {
	ID        string    `json:"-"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"-"`
}

// Key identifies a note: at most one note exists per patient name and date.
type Key struct {
	Name string
	Date string
}

// Key returns the uniqueness key of n.
func (n Note) Key() Key {
	return Key{Name: n.Name, Date: n.Date}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDate interprets the date field. Unparseable values yield the zero time.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SortByDateDesc orders notes latest first. Notes with unparseable dates keep
// their relative order after all dated notes.
func SortByDateDesc(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return ParseDate(notes[i].Date).After(ParseDate(notes[j].Date))
	})
}

// FilterByName keeps notes whose name contains query, ignoring case. An empty
// query keeps everything.
func FilterByName(notes []Note, query string) []Note {
	if query == "" {
		return append([]Note(nil), notes...)
	}
	needle := strings.ToLower(query)
	filtered := make([]Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Name), needle) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}
