package main

import (
	"fmt"
	"image"
	"image/color"

	"lime/app/lang"

	"github.com/cockroachdb/apd/v3"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

var (
	statusBg = color.NRGBA{R: 0x25, G: 0x25, B: 0x26, A: 0xFF}
	statusFg = color.NRGBA{R: 0x9D, G: 0x9D, B: 0x9D, A: 0xFF}
)

// statusText formats the document total and character count.
func statusText(sum *apd.Decimal, chars int) string {
	total := "0"
	if sum != nil {
		total = lang.FormatDecimal(sum)
	}
	return fmt.Sprintf("Sum: %s    %d characters", total, chars)
}

// LayoutStatusBar renders a one-line bar along the bottom of the window.
func LayoutStatusBar(gtx layout.Context, th *material.Theme, sum *apd.Decimal, chars int) layout.Dimensions {
	height := MeasureLineHeight(gtx, th) + gtx.Dp(unit.Dp(8))
	width := gtx.Constraints.Max.X
	paint.FillShape(gtx.Ops, statusBg, clip.Rect(image.Rect(0, 0, width, height)).Op())

	lbl := material.Label(th, th.TextSize*0.85, statusText(sum, chars))
	lbl.Color = statusFg
	lbl.Alignment = text.End
	lbl.MaxLines = 1
	drawCell(gtx, lbl, 0, gtx.Dp(unit.Dp(4)), width-gtx.Dp(unit.Dp(12)), height-gtx.Dp(unit.Dp(4)))

	return layout.Dimensions{Size: image.Pt(width, height)}
}
