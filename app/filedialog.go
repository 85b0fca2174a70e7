package main

import (
	"io"

	"gioui.org/x/explorer"
)

// FileResult holds the result of a file open operation.
type FileResult struct {
	Data []byte
	Path string // empty when the platform does not expose one
	Err  error
}

// SaveResult holds the result of a file save operation.
type SaveResult struct {
	Path string
	Err  error
}

type named interface {
	Name() string
}

// OpenFileAsync triggers a file-open dialog in a goroutine.
// The result is sent on the returned channel.
func OpenFileAsync(expl *explorer.Explorer) <-chan FileResult {
	ch := make(chan FileResult, 1)
	go func() {
		file, err := expl.ChooseFile(".txt", ".lime")
		if err != nil {
			ch <- FileResult{Err: err}
			return
		}
		defer file.Close()
		res := FileResult{}
		if f, ok := file.(named); ok {
			res.Path = f.Name()
		}
		res.Data, res.Err = io.ReadAll(file)
		ch <- res
	}()
	return ch
}

// SaveFileAsync triggers a file-save dialog in a goroutine.
// The result is sent on the returned channel.
func SaveFileAsync(expl *explorer.Explorer, content []byte, defaultName string) <-chan SaveResult {
	ch := make(chan SaveResult, 1)
	go func() {
		w, err := expl.CreateFile(defaultName)
		if err != nil {
			ch <- SaveResult{Err: err}
			return
		}
		res := SaveResult{}
		if f, ok := w.(named); ok {
			res.Path = f.Name()
		}
		_, err = w.Write(content)
		if closeErr := w.Close(); err == nil {
			err = closeErr
		}
		res.Err = err
		ch <- res
	}()
	return ch
}
