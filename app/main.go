package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"time"

	"lime/app/lang"
	"lime/app/session"

	"golang.org/x/text/language"

	"gioui.org/app"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var (
	editorBg = color.NRGBA{R: 0x1E, G: 0x1E, B: 0x1E, A: 0xFF}
	editorFg = color.NRGBA{R: 0xD4, G: 0xD4, B: 0xD4, A: 0xFF}
)

type options struct {
	lang     language.Tag
	debounce time.Duration
	verbose  bool
	path     string
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("lime", flag.ContinueOnError)
	langFlag := fs.String("lang", "en", "language for error messages (BCP 47 tag)")
	debounce := fs.Duration("debounce", session.DefaultDelay, "delay before re-evaluating after an edit")
	verbose := fs.Bool("v", false, "log evaluation timings")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	tag, err := language.Parse(*langFlag)
	if err != nil {
		return options{}, fmt.Errorf("invalid -lang %q: %w", *langFlag, err)
	}
	opts := options{lang: tag, debounce: *debounce, verbose: *verbose}
	if fs.NArg() > 0 {
		opts.path = fs.Arg(0)
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	go func() {
		w := new(app.Window)
		w.Option(app.Title("lime"), app.Size(unit.Dp(1024), unit.Dp(768)))
		if err := run(w, opts); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func run(w *app.Window, opts options) error {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	th.Face = "Go Mono"
	th.TextSize = unit.Sp(14)

	sessOpts := []session.Option{session.WithDelay(opts.debounce)}
	if opts.verbose {
		sessOpts = append(sessOpts, session.WithLogger(log.Default()))
	}
	sess := session.New(lang.NewEngine(lang.WithLanguage(opts.lang)), sessOpts...)
	defer sess.Stop()

	es := NewEditorState()
	registerWebCallbacks(es, sess, w)
	expl := explorer.NewExplorer(w)
	gutterRatio := 1.0 / 3.0 // right gutter as fraction of window width
	rightGutterWidth := 0
	var divider DragDivider

	if opts.path != "" {
		if err := es.LoadFile(opts.path); err != nil {
			log.Printf("Failed to open %s: %v", opts.path, err)
		}
	}

	var shortcutTag = new(bool)
	var openCh <-chan FileResult
	var saveCh <-chan SaveResult

	// First frame shows results without waiting for the debounce.
	evaluated := sess.Evaluate(es.Text())

	// Channel-forward pattern for explorer compatibility
	events := make(chan event.Event)
	acks := make(chan struct{})
	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-acks
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()

	w.Option(app.Title(es.Title()))

	var ops op.Ops
	for {
		select {
		case res := <-sess.Results():
			// A stale result means a newer edit is already scheduled.
			if res.Text == es.Text() {
				evaluated = res.Eval
				w.Invalidate()
			}

		case result := <-openCh:
			openCh = nil
			if result.Err != nil {
				log.Printf("Open error: %v", result.Err)
			} else {
				es.SetContent(result.Data, result.Path)
				evaluated = sess.Evaluate(es.Text())
				w.Option(app.Title(es.Title()))
			}
			w.Invalidate()

		case result := <-saveCh:
			saveCh = nil
			if result.Err != nil {
				log.Printf("Save error: %v", result.Err)
			} else {
				es.FilePath = result.Path
				es.Dirty = false
				w.Option(app.Title(es.Title()))
			}
			w.Invalidate()

		case e := <-events:
			expl.ListenEvents(e)
			switch e := e.(type) {
			case app.DestroyEvent:
				acks <- struct{}{}
				return e.Err
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)

				// Keep the gutter proportional to the window unless the user dragged it
				windowW := gtx.Constraints.Max.X
				expectedWidth := int(gutterRatio * float64(windowW))
				if rightGutterWidth != 0 && rightGutterWidth != expectedWidth {
					gutterRatio = float64(rightGutterWidth) / float64(windowW)
				}
				rightGutterWidth = clampGutter(int(gutterRatio*float64(windowW)), windowW)

				event.Op(gtx.Ops, shortcutTag)
				for {
					ev, ok := gtx.Event(
						key.Filter{Required: key.ModShortcut, Name: "O"},
						key.Filter{Required: key.ModShortcut, Name: "S"},
						key.Filter{Required: key.ModShortcut, Name: "="},
						key.Filter{Required: key.ModShortcut, Name: "-"},
						key.Filter{Required: key.ModShortcut, Name: "A"},
					)
					if !ok {
						break
					}
					ke, ok := ev.(key.Event)
					if !ok || ke.State != key.Press {
						continue
					}
					switch ke.Name {
					case "O":
						if openCh == nil {
							openCh = OpenFileAsync(expl)
						}
					case "S":
						if saveCh != nil {
							break
						}
						if es.FilePath == "" {
							saveCh = SaveFileAsync(expl, []byte(es.Text()), "untitled.txt")
							break
						}
						if err := es.SaveFile(es.FilePath); err != nil {
							log.Printf("Save error: %v", err)
						}
						w.Option(app.Title(es.Title()))
					case "=": // Cmd+= (Cmd+Plus)
						if th.TextSize < unit.Sp(48) {
							th.TextSize += unit.Sp(2)
						}
					case "-":
						if th.TextSize > unit.Sp(8) {
							th.TextSize -= unit.Sp(2)
						}
					case "A":
						es.Editor.SetCaret(es.Editor.Len(), 0)
					}
				}

				for {
					ev, ok := es.Editor.Update(gtx)
					if !ok {
						break
					}
					if _, ok := ev.(widget.ChangeEvent); ok {
						es.NormalizeNewlines()
						sess.Schedule(es.Text())
						if !es.Dirty {
							es.Dirty = true
							w.Option(app.Title(es.Title()))
						}
					}
				}

				results := evaluated.Lines
				paint.FillShape(gtx.Ops, editorBg, clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Op())

				lineHeight := MeasureLineHeight(gtx, th)
				topPad := gtx.Dp(unit.Dp(4)) // must match editor inset
				lineCount := es.LineCount()
				scrollY := 0

				// Caret line highlight
				caretLine, _ := es.Editor.CaretPos()
				topSpacerPx := gtx.Dp(unit.Dp(6))
				highlightY := topSpacerPx + topPad + caretLine*lineHeight
				highlightColor := color.NRGBA{R: 0x2A, G: 0x2D, B: 0x32, A: 0xFF}
				paint.FillShape(gtx.Ops, highlightColor,
					clip.Rect(image.Rect(0, highlightY, gtx.Constraints.Max.X, highlightY+lineHeight)).Op())

				// Top padding, then left gutter | editor | divider | right gutter, then status bar
				layout.Flex{Axis: layout.Vertical}.Layout(gtx,
					layout.Rigid(func(gtx C) D {
						return layout.Spacer{Height: unit.Dp(6)}.Layout(gtx)
					}),
					layout.Flexed(1, func(gtx C) D {
						return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
							layout.Rigid(func(gtx C) D {
								return LayoutLeftGutter(gtx, th, lineCount, scrollY, lineHeight, topPad)
							}),
							layout.Flexed(1, func(gtx C) D {
								return layoutEditor(gtx, th, es)
							}),
							layout.Rigid(func(gtx C) D {
								return divider.Layout(gtx, &rightGutterWidth, windowW)
							}),
							layout.Rigid(func(gtx C) D {
								return LayoutRightGutter(gtx, th, results, scrollY, lineHeight, topPad, rightGutterWidth)
							}),
						)
					}),
					layout.Rigid(func(gtx C) D {
						return LayoutStatusBar(gtx, th, evaluated.Sum, es.CharCount())
					}),
				)

				e.Frame(gtx.Ops)
			}
			acks <- struct{}{}
		}
	}
}

func layoutEditor(gtx C, th *material.Theme, es *EditorState) D {
	ed := material.Editor(th, &es.Editor, "10 + 20\nrent = $1,200\n=sum")
	ed.Font = font.Font{Typeface: "Go Mono"}
	ed.Color = color.NRGBA{A: 0x00} // transparent text + caret (overlay draws colored text)
	ed.HintColor = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xFF}
	ed.TextSize = th.TextSize
	ed.SelectionColor = color.NRGBA{R: 0x26, G: 0x4F, B: 0x78, A: 0xFF}

	return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx C) D {
		dims := ed.Layout(gtx)

		cl := clip.Rect(image.Rect(0, 0, dims.Size.X, dims.Size.Y)).Push(gtx.Ops)
		drawHighlightedText(gtx, th, es, dims)
		cl.Pop()

		return dims
	})
}

func drawHighlightedText(gtx C, th *material.Theme, es *EditorState, edDims D) {
	lines := lang.SplitLines(es.Text())

	lineHeight, baseline := measureLineMetrics(gtx, th)
	if lineHeight <= 0 {
		return
	}
	ascent := lineHeight - baseline

	// CaretCoords().Y is the caret's baseline, adjusted for scroll.
	caretLine, _ := es.Editor.CaretPos()
	caretPt := es.Editor.CaretCoords()
	baseY := caretPt.Y - float32(ascent) - float32(caretLine*lineHeight)

	for i, line := range lines {
		y := int(baseY + float32(i*lineHeight))
		if y+lineHeight < 0 || y > edDims.Size.Y {
			continue
		}
		x := 0
		for _, tok := range Tokenize(line) {
			lbl := material.Label(th, th.TextSize, tok.Text)
			lbl.Color = TokenColor(tok.Kind)
			lbl.Font = font.Font{Typeface: "Go Mono"}
			lbl.MaxLines = 1

			off := op.Offset(image.Pt(x, y)).Push(gtx.Ops)
			tgtx := gtx
			tgtx.Constraints.Min = image.Point{}
			tgtx.Constraints.Max = image.Pt(edDims.Size.X-x, lineHeight)
			dims := lbl.Layout(tgtx)
			off.Pop()

			x += dims.Size.X
		}
	}

	// The editor's own caret is transparent, so draw one.
	if gtx.Focused(&es.Editor) {
		cx := int(caretPt.X)
		cy := int(caretPt.Y)
		paint.FillShape(gtx.Ops, editorFg,
			clip.Rect(image.Rect(cx, cy-ascent, cx+2, cy+baseline)).Op())
		gtx.Execute(op.InvalidateCmd{})
	}
}

// measureLineMetrics returns the line height and baseline (distance from bottom
// to text baseline) for a single line of text at the theme's text size.
func measureLineMetrics(gtx C, th *material.Theme) (height, baseline int) {
	macro := op.Record(gtx.Ops)
	lbl := material.Label(th, th.TextSize, "0")
	lbl.MaxLines = 1
	measureGtx := gtx
	measureGtx.Constraints.Min = image.Point{}
	dims := lbl.Layout(measureGtx)
	macro.Stop()
	return dims.Size.Y, dims.Baseline
}
