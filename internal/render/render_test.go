package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/inovacc/journal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{in: "", want: 0},
		{in: "   ", want: 0},
		{in: "hello", want: 1},
		{in: "  learned   about\tgo\nchannels ", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, WordCount(tt.in))
		})
	}
}

func renderDoc(t *testing.T, entries []model.Entry) *goquery.Document {
	t.Helper()

	h, err := NewHTML()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.Render(&buf, entries))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	return doc
}

func sampleEntries() []model.Entry {
	return []model.Entry{
		model.RemoteRecord{Name: "Ana", Date: "Mon Jan 01 2024", Reflection: "server side thoughts"}.ToEntry(0),
		model.NewLocalEntry(1700000000000, "Day 1", "learned <b>templates</b> today", mustTime()),
	}
}

func TestHTML_Cards(t *testing.T) {
	doc := renderDoc(t, sampleEntries())

	cards := doc.Find("#saved-entries article.saved-entry")
	require.Equal(t, 2, cards.Length())

	remote := cards.Eq(0)
	assert.True(t, remote.HasClass("remote-entry"))
	assert.Equal(t, "remote", remote.AttrOr("data-source", ""))
	assert.Equal(t, "Server", remote.Find(".source-badge").Text())
	assert.Equal(t, "3 words", remote.Find(".word-count").Text())
	assert.Equal(t, 0, remote.Find(".delete-btn").Length())
	assert.Equal(t, "(Server entry)", remote.Find(".delete-hint").Text())

	local := cards.Eq(1)
	assert.True(t, local.HasClass("local-entry"))
	assert.Equal(t, "1700000000000", local.AttrOr("data-entry-id", ""))
	assert.Equal(t, "Browser/Local", local.Find(".source-badge").Text())
	assert.Equal(t, "/entries/1700000000000/delete", local.Find("form.delete-form").AttrOr("action", ""))
	assert.Equal(t, 1, local.Find(".delete-btn").Length())
	assert.Equal(t, 0, local.Find(".delete-hint").Length())
}

func TestHTML_EscapesContent(t *testing.T) {
	doc := renderDoc(t, sampleEntries())

	local := doc.Find("article.local-entry")
	assert.Equal(t, 0, local.Find(".entry-content b").Length())
	assert.Equal(t, "learned <b>templates</b> today", local.Find(".entry-content").Text())
	assert.Equal(t, "learned <b>templates</b> today", local.Find(".copy-btn").AttrOr("data-content", ""))
}

func TestHTML_Empty(t *testing.T) {
	doc := renderDoc(t, nil)

	assert.Equal(t, 0, doc.Find("article").Length())
	assert.Equal(t, EmptyMessage, doc.Find("#saved-entries p.empty-state").Text())

	h, err := NewHTML()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.RenderEmpty(&buf, nil, "No entries found matching your search."))
	assert.Contains(t, buf.String(), "No entries found matching your search.")
}

func TestHTML_RerenderReplacesRegion(t *testing.T) {
	h, err := NewHTML()
	require.NoError(t, err)

	var first, second bytes.Buffer
	entries := sampleEntries()

	require.NoError(t, h.Render(&first, entries))
	require.NoError(t, h.Render(&second, entries[:1]))

	assert.Equal(t, 2, strings.Count(first.String(), "<article"))
	assert.Equal(t, 1, strings.Count(second.String(), "<article"))
}

func TestTerminal_Plain(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, (&Terminal{Width: 80}).Render(&buf, sampleEntries()))

	out := buf.String()
	assert.Contains(t, out, "[9000000000000] Ana")
	assert.Contains(t, out, "Server | 3 words")
	assert.Contains(t, out, "[1700000000000] Day 1")
	assert.Contains(t, out, "Browser/Local")
}

func TestTerminal_Styled(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, (&Terminal{Styled: true, Width: 60}).Render(&buf, sampleEntries()))
	assert.Contains(t, buf.String(), "(Server entry)")
	assert.Contains(t, buf.String(), "server side thoughts")
}

func TestTerminal_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, (&Terminal{}).Render(&buf, nil))
	assert.Equal(t, EmptyMessage+"\n", buf.String())
}

func mustTime() time.Time {
	return time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
}
