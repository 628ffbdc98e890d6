// Package tui provides the interactive terminal journal browser.
//
// The browser is a [Bubbletea] program. It lists the merged entries newest
// first, copies an entry's content to the clipboard, deletes local entries and
// composes new ones through a form controller.
//
// # Keys
//
//   - c: copy the selected entry's content
//   - d: delete the selected local entry (asks for confirmation)
//   - n: write a new entry; ctrl+s saves, esc cancels
//   - r: reload entries
//   - q: quit
//
// [Bubbletea]: https://github.com/charmbracelet/bubbletea
package tui
