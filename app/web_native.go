//go:build !(js && wasm)

package main

import (
	"lime/app/session"

	"gioui.org/app"
)

func registerWebCallbacks(*EditorState, *session.Session, *app.Window) {}
