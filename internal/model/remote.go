package model

import "strings"

// Defaults applied when a remote record omits a field.
const (
	DefaultRemoteTitle   = "Reflection"
	DefaultRemoteContent = "No content"
	DefaultReflectorName = "Anonymous"
)

// RemoteRecord is the wire shape of a record served by a remote source. Different
// producers name the text field differently, so all spellings are accepted.
type RemoteRecord struct {
	Name       string `json:"name,omitempty"`
	Title      string `json:"title,omitempty"`
	Text       string `json:"text,omitempty"`
	Content    string `json:"content,omitempty"`
	Reflection string `json:"reflection,omitempty"`
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"`
}

// ToEntry maps the record at position index into a remote Entry. This is the only place
// remote defaults are applied.
func (r RemoteRecord) ToEntry(index int) Entry {
	return Entry{
		ID:      RemoteIDOffset + int64(index),
		Title:   firstNonEmpty(r.Name, r.Title, DefaultRemoteTitle),
		Content: firstNonEmpty(r.Text, r.Content, r.Reflection, DefaultRemoteContent),
		Date:    r.Date,
		Time:    r.Time,
		Source:  SourceRemote,
	}
}

// Reflection is a record kept by the reflections backend.
type Reflection struct {
	UID        string `json:"uid,omitempty"`
	Name       string `json:"name,omitempty"`
	Date       string `json:"date"`
	Reflection string `json:"reflection,omitempty"`
	Text       string `json:"text,omitempty"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}
