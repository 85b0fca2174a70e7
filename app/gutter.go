package main

import (
	"fmt"
	"image"
	"image/color"

	"lime/app/lang"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

var (
	gutterBg       = color.NRGBA{R: 0x1E, G: 0x1E, B: 0x1E, A: 0xFF}
	gutterFg       = color.NRGBA{R: 0x85, G: 0x85, B: 0x85, A: 0xFF}
	gutterDivider  = color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF}
	gutterWidth    = unit.Dp(50)
	resultColor    = color.NRGBA{R: 0x4E, G: 0xC9, B: 0xB0, A: 0xFF} // teal
	resultErrColor = color.NRGBA{R: 0xF4, G: 0x47, B: 0x47, A: 0xFF} // red
)

// MeasureLineHeight measures the actual rendered line height for the given theme.
func MeasureLineHeight(gtx layout.Context, th *material.Theme) int {
	macro := op.Record(gtx.Ops)
	lbl := material.Label(th, th.TextSize, "0")
	lbl.MaxLines = 1
	measureGtx := gtx
	measureGtx.Constraints.Min = image.Point{}
	dims := lbl.Layout(measureGtx)
	macro.Stop()
	if dims.Size.Y > 0 {
		return dims.Size.Y
	}
	return gtx.Sp(th.TextSize)
}

// visibleRange returns the half-open range of line indexes that intersect a
// column of the given height.
func visibleRange(scrollY, height, lineHeight, lineCount int) (first, last int) {
	first = max(scrollY/lineHeight, 0)
	last = min(first+height/lineHeight+2, lineCount)
	return first, last
}

// LayoutLeftGutter renders line numbers in a fixed-width column.
func LayoutLeftGutter(gtx layout.Context, th *material.Theme, lineCount, scrollY, lineHeight, topPad int) layout.Dimensions {
	width := gtx.Dp(gutterWidth)
	height := gtx.Constraints.Max.Y
	paint.FillShape(gtx.Ops, gutterBg, clip.Rect(image.Rect(0, 0, width, height)).Op())

	if lineHeight <= 0 {
		lineHeight = 16
	}
	first, last := visibleRange(scrollY, height, lineHeight, lineCount)

	fmtStr := fmt.Sprintf("%%%dd", max(len(fmt.Sprint(lineCount)), 2))
	for i := first; i < last; i++ {
		yOffset := topPad + i*lineHeight - scrollY
		lbl := material.Label(th, th.TextSize, fmt.Sprintf(fmtStr, i+1))
		lbl.Color = gutterFg
		lbl.Alignment = text.End
		lbl.MaxLines = 1
		drawCell(gtx, lbl, 0, yOffset, width-gtx.Dp(4), lineHeight)
	}

	paint.FillShape(gtx.Ops, gutterDivider, clip.Rect(image.Rect(width-1, 0, width, height)).Op())
	return layout.Dimensions{Size: image.Pt(width, height)}
}

// LayoutRightGutter renders each line's value or error message.
// widthPx is the gutter width in pixels.
func LayoutRightGutter(gtx layout.Context, th *material.Theme, results []lang.LineResult, scrollY, lineHeight, topPad, widthPx int) layout.Dimensions {
	height := gtx.Constraints.Max.Y
	if lineHeight <= 0 {
		lineHeight = 16
	}
	first, last := visibleRange(scrollY, height, lineHeight, len(results))

	for i := first; i < last; i++ {
		r := results[i]
		s, c := r.Display(), resultColor
		if r.Err != nil {
			s, c = r.ErrorMessage(), resultErrColor
		}
		if s == "" {
			continue
		}

		lbl := material.Label(th, th.TextSize, s)
		lbl.Color = c
		lbl.Alignment = text.Start
		lbl.MaxLines = 1
		drawCell(gtx, lbl, gtx.Dp(8), topPad+i*lineHeight-scrollY, widthPx-gtx.Dp(16), lineHeight)
	}

	return layout.Dimensions{Size: image.Pt(widthPx, height)}
}

// drawCell lays out lbl clipped to a w×h box at (x, y).
func drawCell(gtx layout.Context, lbl material.LabelStyle, x, y, w, h int) {
	if w <= 0 {
		return
	}
	off := op.Offset(image.Pt(x, y)).Push(gtx.Ops)
	cl := clip.Rect(image.Rect(0, 0, w, h)).Push(gtx.Ops)
	labelGtx := gtx
	labelGtx.Constraints = layout.Exact(image.Pt(w, h))
	lbl.Layout(labelGtx)
	cl.Pop()
	off.Pop()
}
