package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Source identifies where an entry came from.
type Source string

const (
	// SourceLocal marks entries created through this app and kept in the local store.
	SourceLocal Source = "local"

	// SourceRemote marks entries read from a remote source; they are never deleted here.
	SourceRemote Source = "remote"
)

// RemoteIDOffset is added to the positional index of remote records so their ids never
// collide with local ids, which are millisecond timestamps.
const RemoteIDOffset int64 = 9_000_000_000_000

// Date and time layouts used when stamping local entries.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// ParseSource maps stored source names, including legacy ones, onto a Source.
func ParseSource(s string) Source {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remote", "server", "flask", "python":
		return SourceRemote
	default:
		return SourceLocal
	}
}

// UnmarshalJSON accepts legacy source names ("browser", "flask", ...).
func (s *Source) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = ParseSource(raw)

	return nil
}

// Label is the badge text shown next to an entry.
func (s Source) Label() string {
	if s == SourceRemote {
		return "Server"
	}

	return "Browser/Local"
}

type Entry struct {
	// ID is unique within its source: a creation timestamp for local entries,
	// RemoteIDOffset+index for remote ones
	ID int64 `json:"id"`

	// Title is a short label for the reflection
	Title string `json:"title"`

	// Content is the reflection text
	Content string `json:"content"`

	// Date and Time are display strings, not parsed
	Date string `json:"date"`
	Time string `json:"time"`

	Source Source `json:"source"`
}

// NewLocalEntry builds a local entry stamped with now.
func NewLocalEntry(id int64, title, content string, now time.Time) Entry {
	return Entry{
		ID:      id,
		Title:   title,
		Content: content,
		Date:    now.Format(DateLayout),
		Time:    now.Format(TimeLayout),
		Source:  SourceLocal,
	}
}

// Deletable reports whether the entry may be removed by the user.
func (e Entry) Deletable() bool {
	return e.Source == SourceLocal
}

// Timestamp returns the date and time joined for display.
func (e Entry) Timestamp() string {
	return strings.TrimSpace(e.Date + " " + e.Time)
}
