package main

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"lime/app/lang"

	"gioui.org/widget"
)

// EditorState holds the state for the text editor.
type EditorState struct {
	Editor   widget.Editor
	FilePath string
	Dirty    bool
}

// NewEditorState creates a new editor with default settings.
func NewEditorState() *EditorState {
	es := &EditorState{}
	es.Editor.SingleLine = false
	es.Editor.Submit = false
	return es
}

// Text returns the whole document.
func (es *EditorState) Text() string {
	return es.Editor.Text()
}

// LineCount returns the number of lines in the buffer.
func (es *EditorState) LineCount() int {
	return len(lang.SplitLines(es.Editor.Text()))
}

// CharCount returns the number of characters in the buffer.
func (es *EditorState) CharCount() int {
	return utf8.RuneCountInString(es.Editor.Text())
}

// SetContent replaces the document with data read from path.
func (es *EditorState) SetContent(data []byte, path string) {
	es.Editor.SetText(normalizeNewlines(string(data)))
	es.FilePath = path
	es.Dirty = false
}

// LoadFile reads a file and sets the editor content.
func (es *EditorState) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	es.SetContent(data, path)
	return nil
}

// SaveFile writes the editor content to the given path.
func (es *EditorState) SaveFile(path string) error {
	if err := os.WriteFile(path, []byte(es.Editor.Text()), 0644); err != nil {
		return err
	}
	es.FilePath = path
	es.Dirty = false
	return nil
}

// Title returns a window title string showing filename and dirty state.
func (es *EditorState) Title() string {
	name := "untitled"
	if es.FilePath != "" {
		name = filepath.Base(es.FilePath)
	}
	if es.Dirty {
		return "* " + name + " - lime"
	}
	return name + " - lime"
}

// newlineReplacer maps every separator lang.SplitLines honours to LF.
// CRLF is listed first so it collapses to a single line break.
var newlineReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\v", "\n",
	"\f", "\n",
	"\u0085", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
)

// normalizeNewlines rewrites line separators to LF so the editor's rows
// match the engine's lines.
func normalizeNewlines(s string) string {
	return newlineReplacer.Replace(s)
}

// NormalizeNewlines rewrites pasted separators in place, keeping the caret.
// It reports whether the text changed.
func (es *EditorState) NormalizeNewlines() bool {
	text := es.Editor.Text()
	norm := normalizeNewlines(text)
	if norm == text {
		return false
	}
	start, end := es.Editor.Selection()
	es.Editor.SetText(norm)
	n := es.Editor.Len()
	es.Editor.SetCaret(min(start, n), min(end, n))
	return true
}
