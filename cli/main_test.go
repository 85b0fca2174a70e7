package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lime/app/lang"
	"lime/app/session"

	"gopkg.in/yaml.v3"
)

func TestREPLAccumulates(t *testing.T) {
	e := lang.NewEngine()
	r := &repl{engine: e, sess: session.New(e)}
	steps := []struct {
		in   string
		want string
	}{
		{"rent = $1,200", "= $1,200"},
		{"food = $300", "= $300"},
		{"", ""},
		{"# comment", ""},
		{"=sum", "= $1,500"},
		{"=prev / 2", "= $750"},
		{"1 / 0", "! Division by zero"},
	}
	for _, s := range steps {
		if got := r.enter(s.in); got != s.want {
			t.Errorf("enter(%q) = %q, want %q", s.in, got, s.want)
		}
	}

	var out bytes.Buffer
	if !r.command(":vars", &out) {
		t.Fatal(":vars ended the session")
	}
	if got, want := out.String(), "food = $300\nrent = $1,200\n"; got != want {
		t.Errorf(":vars printed %q, want %q", got, want)
	}
	if !r.command(":reset", &out) {
		t.Fatal(":reset ended the session")
	}
	if got := r.enter("rent"); got != "! Undefined variable: rent" {
		t.Errorf("rent after :reset = %q", got)
	}
	if r.command(":quit", &out) {
		t.Error(":quit did not end the session")
	}
}

func TestWriteText(t *testing.T) {
	src := "a = 10\nlonger name = 5\n\noops +"
	res := lang.NewEngine().EvaluateAll(src)
	var buf bytes.Buffer
	if err := writeReport(&buf, "text", buildReport(src, res)); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"a = 10           = 10",
		"longer name = 5  = 5",
		"",
		"oops +           ! Unexpected end of input",
		"",
		"sum: 15",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("text report:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteYAML(t *testing.T) {
	src := "$5\n=sum\nnope"
	res := lang.NewEngine().EvaluateAll(src)
	var buf bytes.Buffer
	if err := writeReport(&buf, "yaml", buildReport(src, res)); err != nil {
		t.Fatal(err)
	}
	var got docReport
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml.Unmarshal: %v\n%s", err, buf.String())
	}
	if len(got.Lines) != 3 || got.Sum != "5" {
		t.Fatalf("report = %+v", got)
	}
	if got.Lines[1].Value != "$5" || got.Lines[2].Error != "Undefined variable: nope" {
		t.Errorf("lines = %+v", got.Lines)
	}
	if got.Lines[0].Unit != "USD" || got.Lines[1].Unit != "USD" || got.Lines[2].Unit != "" {
		t.Errorf("units = %q %q %q", got.Lines[0].Unit, got.Lines[1].Unit, got.Lines[2].Unit)
	}
	if !strings.Contains(buf.String(), "unit: USD") {
		t.Errorf("yaml report has no unit key:\n%s", buf.String())
	}
}

func TestUnknownFormat(t *testing.T) {
	if err := writeReport(&bytes.Buffer{}, "xml", docReport{}); !errors.Is(err, errUnknownFormat) {
		t.Errorf("writeReport(xml) = %v, want errUnknownFormat", err)
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("1 / 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-lang", "de", path}, os.Stdin, &stdout, &stderr); code != 0 {
		t.Fatalf("run exited %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "! Division durch null") {
		t.Errorf("stdout = %q, want German error", stdout.String())
	}

	if code := run([]string{"missing.txt"}, os.Stdin, &stdout, &stderr); code != 1 {
		t.Errorf("missing file exited %d, want 1", code)
	}
	if code := run([]string{"-lang", "!!"}, os.Stdin, &stdout, &stderr); code != 2 {
		t.Errorf("bad -lang exited %d, want 2", code)
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("1 + 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		args []string
		msg  string
	}{
		{[]string{"-precision", "4294967297", path}, "invalid -precision"},
		{[]string{"-o", "xml", path}, "invalid -o"},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(tt.args, os.Stdin, &stdout, &stderr); code != 2 {
			t.Errorf("run(%q) exited %d, want 2", tt.args, code)
		}
		if stdout.Len() != 0 {
			t.Errorf("run(%q) evaluated the document: %q", tt.args, stdout.String())
		}
		if !strings.Contains(stderr.String(), tt.msg) {
			t.Errorf("run(%q) stderr = %q, want %q", tt.args, stderr.String(), tt.msg)
		}
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-precision", "50", "-o", "yaml", path}, os.Stdin, &stdout, &stderr); code != 0 {
		t.Errorf("valid flags exited %d: %s", code, stderr.String())
	}
}
