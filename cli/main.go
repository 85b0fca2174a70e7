// Command lime-cli evaluates calculator documents in a terminal.
//
// With a file argument or piped input it prints every line's result. On an
// interactive terminal it starts a REPL where each entered line is appended
// to the document.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"lime/app/lang"
	"lime/app/session"

	"github.com/peterh/liner"
	"golang.org/x/text/language"
)

const historyFile = ".lime_history"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lime-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		langFlag  = fs.String("lang", "en", "language for error messages (BCP 47 tag)")
		format    = fs.String("o", "text", "output format: text or yaml")
		precision = fs.Uint("precision", lang.DefaultPrecision, "significant digits kept by arithmetic")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	tag, err := language.Parse(*langFlag)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -lang %q: %v\n", *langFlag, err)
		return 2
	}
	if *precision > math.MaxUint32 {
		fmt.Fprintf(stderr, "invalid -precision %d: at most %d digits\n", *precision, uint64(math.MaxUint32))
		return 2
	}
	if _, ok := reportWriters[*format]; !ok {
		fmt.Fprintf(stderr, "invalid -o %q: %v\n", *format, errUnknownFormat)
		return 2
	}
	engine := lang.NewEngine(lang.WithLanguage(tag), lang.WithPrecision(uint32(*precision)))
	sess := session.New(engine)

	switch {
	case fs.NArg() > 0:
		data, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "Error loading file: %v\n", err)
			return 1
		}
		return evalDocument(sess, string(data), *format, stdout, stderr)
	case !isTerminal(stdin):
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading stdin: %v\n", err)
			return 1
		}
		return evalDocument(sess, string(data), *format, stdout, stderr)
	default:
		return runREPL(&repl{engine: engine, sess: sess}, stdout, stderr)
	}
}

func evalDocument(sess *session.Session, src, format string, stdout, stderr io.Writer) int {
	res := sess.Evaluate(src)
	if err := writeReport(stdout, format, buildReport(src, res)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// repl accumulates entered lines into a document.
type repl struct {
	engine *lang.Engine
	sess   *session.Session
	lines  []string
}

// enter appends line to the document and returns its result text.
func (r *repl) enter(line string) string {
	r.lines = append(r.lines, line)
	res := r.sess.Evaluate(strings.Join(r.lines, "\n"))
	last := res.Lines[len(res.Lines)-1]
	if last.Err != nil {
		return "! " + last.ErrorMessage()
	}
	if v := last.Display(); v != "" {
		return "= " + v
	}
	return ""
}

// command handles a ":" command. It reports false when the REPL should exit.
func (r *repl) command(cmd string, out io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(cmd)) {
	case ":quit", ":q":
		return false
	case ":reset":
		r.lines = nil
		r.sess.Reset()
	case ":show":
		src := strings.Join(r.lines, "\n")
		_ = writeText(out, buildReport(src, r.sess.Evaluate(src)))
	case ":vars":
		vars := r.engine.Vars()
		for _, name := range r.engine.Names() {
			fmt.Fprintf(out, "%s = %s\n", name, vars[name])
		}
	default:
		fmt.Fprintln(out, "commands: :show, :vars, :reset, :quit")
	}
	return true
}

func runREPL(r *repl, stdout, stderr io.Writer) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(stdout, "lime: one calculation per line. :show lists the document, :quit exits.")
	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if !r.command(line, stdout) {
				return 0
			}
			continue
		}
		if out := r.enter(line); out != "" {
			fmt.Fprintln(stdout, out)
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
