package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"lime/app/lang"

	"gopkg.in/yaml.v3"
)

// lineReport is the serialised form of one evaluated line.
type lineReport struct {
	Line  int    `yaml:"line"`
	Input string `yaml:"input"`
	Value string `yaml:"value,omitempty"`
	Unit  string `yaml:"unit,omitempty"`
	Error string `yaml:"error,omitempty"`
}

type docReport struct {
	Lines []lineReport `yaml:"lines"`
	Sum   string       `yaml:"sum"`
}

func buildReport(src string, res lang.EvaluationResult) docReport {
	inputs := lang.SplitLines(src)
	rep := docReport{Sum: lang.FormatDecimal(res.Sum)}
	for i, r := range res.Lines {
		rep.Lines = append(rep.Lines, lineReport{
			Line:  i + 1,
			Input: inputs[i],
			Value: r.Display(),
			Unit:  r.UnitCode(),
			Error: r.ErrorMessage(),
		})
	}
	return rep
}

// writeText prints each input line with its result in a column to the right.
func writeText(w io.Writer, rep docReport) error {
	width := 0
	for _, l := range rep.Lines {
		width = max(width, utf8.RuneCountInString(l.Input))
	}
	for _, l := range rep.Lines {
		var out string
		switch {
		case l.Error != "":
			out = "! " + l.Error
		case l.Value != "":
			out = "= " + l.Value
		}
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(l.Input))
		if _, err := fmt.Fprintln(w, strings.TrimRight(l.Input+pad+"  "+out, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nsum: %s\n", rep.Sum)
	return err
}

func writeYAML(w io.Writer, rep docReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}

var errUnknownFormat = errors.New("unknown output format (use text or yaml)")

var reportWriters = map[string]func(io.Writer, docReport) error{
	"text": writeText,
	"yaml": writeYAML,
}

func writeReport(w io.Writer, format string, rep docReport) error {
	write, ok := reportWriters[format]
	if !ok {
		return fmt.Errorf("%q: %w", format, errUnknownFormat)
	}
	return write(w, rep)
}
