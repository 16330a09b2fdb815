package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/atotto/clipboard"
)

type selectionSource string

const (
	sourceFile      selectionSource = "file"
	sourceStdin     selectionSource = "stdin"
	sourceClipboard selectionSource = "clipboard"
)

var errNoSelection = errors.New("nothing selected: the capture source is empty")

// selectionContext anchors one editing session to the region of text it was
// opened on. It is captured once when the session opens and held fixed until
// the accepted text is written back.
type selectionContext struct {
	Source   selectionSource
	Path     string // file source only
	FullText string // the whole captured document
	Start    int    // byte offset of the selection within FullText
	End      int
}

func (sc *selectionContext) Text() string {
	return sc.FullText[sc.Start:sc.End]
}

type captureOptions struct {
	Source selectionSource
	Path   string
	Start  int // -1 means start of document
	End    int // -1 means end of document
}

// captureSelection reads the requested region from the configured source.
// Returns errNoSelection when there is nothing to edit.
func captureSelection(opts captureOptions, stdin io.Reader) (*selectionContext, error) {
	var full string
	switch opts.Source {
	case sourceFile:
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", opts.Path, err)
		}
		full = string(data)
	case sourceStdin:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		full = string(data)
	case sourceClipboard:
		text, err := clipboard.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read clipboard: %w", err)
		}
		full = text
	default:
		return nil, fmt.Errorf("unknown selection source %q", opts.Source)
	}

	start, end := opts.Start, opts.End
	if start < 0 {
		start = 0
	}
	if end < 0 || end > len(full) {
		end = len(full)
	}
	if start > end {
		return nil, fmt.Errorf("selection start %d is past end %d", start, end)
	}
	if start < len(full) && !utf8.RuneStart(full[start]) {
		return nil, fmt.Errorf("selection start %d splits a UTF-8 character", start)
	}
	if end < len(full) && !utf8.RuneStart(full[end]) {
		return nil, fmt.Errorf("selection end %d splits a UTF-8 character", end)
	}
	if full[start:end] == "" {
		return nil, errNoSelection
	}
	return &selectionContext{
		Source:   opts.Source,
		Path:     opts.Path,
		FullText: full,
		Start:    start,
		End:      end,
	}, nil
}

// applyReplacement writes newText over exactly the captured region. File
// sources are rewritten in place, the clipboard is replaced, and stdin
// sources return the final document for the caller to print on exit.
func (sc *selectionContext) applyReplacement(newText string) (string, error) {
	final := sc.FullText[:sc.Start] + newText + sc.FullText[sc.End:]
	switch sc.Source {
	case sourceFile:
		mode := os.FileMode(0o644)
		if info, err := os.Stat(sc.Path); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(sc.Path, []byte(final), mode); err != nil {
			return "", fmt.Errorf("write %s: %w", sc.Path, err)
		}
	case sourceClipboard:
		if err := clipboard.WriteAll(final); err != nil {
			return "", fmt.Errorf("write clipboard: %w", err)
		}
	case sourceStdin:
		// Printed to stdout by the caller once the program exits the
		// alternate screen.
	}
	return final, nil
}
