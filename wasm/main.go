//go:build js && wasm

package main

import (
	"syscall/js"

	"lime/app/lang"
	"lime/app/session"

	"golang.org/x/text/language"
)

var (
	sessions   = session.NewPool()
	sess       = sessions.Get(language.English)
	editorText string
)

// resultsToJS converts an evaluation to {lines: [{text, isErr, unit, start, length}], sum}.
func resultsToJS(res lang.EvaluationResult) js.Value {
	arr := js.Global().Get("Array").New(len(res.Lines))
	for i, r := range res.Lines {
		obj := js.Global().Get("Object").New()
		if r.Err != nil {
			obj.Set("text", r.ErrorMessage())
			obj.Set("isErr", true)
		} else {
			obj.Set("text", r.Display())
			obj.Set("isErr", false)
		}
		obj.Set("unit", r.UnitCode())
		obj.Set("start", r.Range.Start)
		obj.Set("length", r.Range.Len)
		arr.SetIndex(i, obj)
	}
	out := js.Global().Get("Object").New()
	out.Set("lines", arr)
	out.Set("sum", lang.FormatDecimal(res.Sum))
	return out
}

func main() {
	// evaluate(text[, lang]) evaluates the whole document synchronously.
	js.Global().Set("evaluate", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return nil
		}
		editorText = args[0].String()
		if len(args) > 1 && args[1].Type() == js.TypeString {
			if tag, err := language.Parse(args[1].String()); err == nil {
				sess = sessions.Get(tag)
			}
		}
		return resultsToJS(sess.Evaluate(editorText))
	}))

	js.Global().Set("getEditorText", js.FuncOf(func(this js.Value, args []js.Value) any {
		return editorText
	}))

	// setEditorText restores a shared document into the page's textarea.
	js.Global().Set("setEditorText", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			editorText = args[0].String()
			ta := js.Global().Get("document").Call("getElementById", "editor")
			if !ta.IsUndefined() && !ta.IsNull() {
				ta.Set("value", editorText)
				ta.Call("dispatchEvent", js.Global().Get("Event").New("input"))
			}
		}
		return nil
	}))

	js.Global().Set("_wasmReady", true)
	onReady := js.Global().Get("_onWasmReady")
	if !onReady.IsUndefined() && !onReady.IsNull() {
		onReady.Invoke()
	}

	select {}
}
