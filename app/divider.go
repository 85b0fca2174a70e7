package main

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
)

// DragDivider is a draggable vertical divider that resizes the result gutter.
type DragDivider struct {
	dragging   bool
	startX     float32
	startWidth int
	tag        bool
}

var dividerColor = color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF}
var dividerHoverColor = color.NRGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xFF}

const dividerWidthPx = 6
const minGutterWidth = 80
const minEditorWidth = 160

// clampGutter keeps the result gutter between minGutterWidth and whatever
// leaves the editor minEditorWidth pixels of a window windowW wide.
func clampGutter(w, windowW int) int {
	return max(min(w, windowW-minEditorWidth), minGutterWidth)
}

// Layout renders the drag handle and processes pointer events.
// It mutates *width based on drag deltas, bounded by windowW.
func (d *DragDivider) Layout(gtx layout.Context, width *int, windowW int) layout.Dimensions {
	height := gtx.Constraints.Max.Y

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: &d.tag,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch pe.Kind {
		case pointer.Press:
			d.dragging = true
			d.startX = pe.Position.X
			d.startWidth = *width
		case pointer.Drag:
			if d.dragging {
				*width = clampGutter(d.startWidth-int(pe.Position.X-d.startX), windowW)
			}
		case pointer.Release, pointer.Cancel:
			d.dragging = false
		}
	}

	c := dividerColor
	if d.dragging {
		c = dividerHoverColor
	}
	rect := image.Rect(0, 0, dividerWidthPx, height)
	paint.FillShape(gtx.Ops, c, clip.Rect(rect).Op())

	area := clip.Rect(rect).Push(gtx.Ops)
	event.Op(gtx.Ops, &d.tag)
	pointer.CursorColResize.Add(gtx.Ops)
	area.Pop()

	return layout.Dimensions{Size: image.Pt(dividerWidthPx, height)}
}
