//go:build js && wasm

package main

import (
	"syscall/js"

	"lime/app/session"

	"gioui.org/app"
)

func registerWebCallbacks(es *EditorState, sess *session.Session, w *app.Window) {
	js.Global().Set("getEditorText", js.FuncOf(func(this js.Value, args []js.Value) any {
		return es.Text()
	}))
	js.Global().Set("setEditorText", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			es.Editor.SetText(normalizeNewlines(args[0].String()))
			sess.Schedule(es.Text())
			w.Invalidate()
		}
		return nil
	}))

	// Initial text from the URL, decoded by JS before the module started
	initialText := js.Global().Get("_initialText")
	if !initialText.IsUndefined() && !initialText.IsNull() && initialText.String() != "" {
		es.Editor.SetText(normalizeNewlines(initialText.String()))
	}
}
