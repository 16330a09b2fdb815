package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCaptureSelection_FileRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("one two three"), 0o644); err != nil {
		t.Fatal(err)
	}
	sel, err := captureSelection(captureOptions{Source: sourceFile, Path: path, Start: 4, End: 7}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Text() != "two" {
		t.Errorf("selection = %q, want %q", sel.Text(), "two")
	}
	if sel.FullText != "one two three" {
		t.Errorf("full text = %q", sel.FullText)
	}
}

func TestCaptureSelection_WholeFileByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("whole document"), 0o644); err != nil {
		t.Fatal(err)
	}
	sel, err := captureSelection(captureOptions{Source: sourceFile, Path: path, Start: -1, End: -1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Text() != "whole document" {
		t.Errorf("selection = %q", sel.Text())
	}
}

func TestCaptureSelection_Stdin(t *testing.T) {
	sel, err := captureSelection(captureOptions{Source: sourceStdin, Start: -1, End: -1},
		strings.NewReader("piped in"))
	if err != nil {
		t.Fatal(err)
	}
	if sel.Text() != "piped in" {
		t.Errorf("selection = %q", sel.Text())
	}
}

func TestCaptureSelection_Empty(t *testing.T) {
	_, err := captureSelection(captureOptions{Source: sourceStdin, Start: -1, End: -1},
		strings.NewReader(""))
	if !errors.Is(err, errNoSelection) {
		t.Errorf("expected errNoSelection, got %v", err)
	}
}

func TestCaptureSelection_BadRange(t *testing.T) {
	_, err := captureSelection(captureOptions{Source: sourceStdin, Start: 5, End: 2},
		strings.NewReader("text"))
	if err == nil {
		t.Error("inverted range must fail")
	}
}

func TestCaptureSelection_RejectsSplitRune(t *testing.T) {
	// In "héllo" the é occupies bytes 1 and 2; offset 2 is mid-character.
	_, err := captureSelection(captureOptions{Source: sourceStdin, Start: 0, End: 2},
		strings.NewReader("héllo"))
	if err == nil {
		t.Error("end inside a multibyte character must fail")
	}
	_, err = captureSelection(captureOptions{Source: sourceStdin, Start: 2, End: 6},
		strings.NewReader("héllo"))
	if err == nil {
		t.Error("start inside a multibyte character must fail")
	}
	sel, err := captureSelection(captureOptions{Source: sourceStdin, Start: 1, End: 3},
		strings.NewReader("héllo"))
	if err != nil {
		t.Fatalf("whole-character selection failed: %v", err)
	}
	if sel.Text() != "é" {
		t.Errorf("selection = %q, want %q", sel.Text(), "é")
	}
}

func TestApplyReplacement_FileRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("one two three"), 0o600); err != nil {
		t.Fatal(err)
	}
	sel, err := captureSelection(captureOptions{Source: sourceFile, Path: path, Start: 4, End: 7}, nil)
	if err != nil {
		t.Fatal(err)
	}
	final, err := sel.applyReplacement("2")
	if err != nil {
		t.Fatal(err)
	}
	if final != "one 2 three" {
		t.Errorf("final = %q", final)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one 2 three" {
		t.Errorf("file = %q, replacement must cover exactly the captured region", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode changed to %v", info.Mode().Perm())
	}
}

func TestApplyReplacement_StdinReturnsFinalText(t *testing.T) {
	sel, err := captureSelection(captureOptions{Source: sourceStdin, Start: -1, End: -1},
		strings.NewReader("before"))
	if err != nil {
		t.Fatal(err)
	}
	final, err := sel.applyReplacement("after")
	if err != nil {
		t.Fatal(err)
	}
	if final != "after" {
		t.Errorf("final = %q", final)
	}
}
