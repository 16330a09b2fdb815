package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "settings" {
		if err := runSettings(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	filePath := flag.String("file", "", "edit a region of this file")
	start := flag.Int("start", -1, "selection start byte offset (file source)")
	end := flag.Int("end", -1, "selection end byte offset (file source)")
	clip := flag.Bool("clip", false, "edit the clipboard contents")
	theme := flag.String("theme", "", "markdown theme: auto, light, or dark (overrides config)")
	debug := flag.Bool("debug", false, "verbose logging to stderr")
	flag.Parse()

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if *theme != "" {
		setMarkdownTheme(markdownThemeFromString(*theme))
	} else {
		setMarkdownTheme(markdownThemeFromString(cfg.Theme))
	}

	configDir := resolveConfigDir()
	log := newLogger(configDir, cfg.LogLevel, *debug)
	log.Debug().Str("config", cfgPath).Msg("starting")

	store, err := openSettingsStore(configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: open settings:", err)
		os.Exit(1)
	}
	defer store.Close()

	apiKey, err := store.APIKey()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: read settings:", err)
		os.Exit(1)
	}
	customInstructions, _ := store.CustomInstructions()
	quickActions, err := store.QuickActions()
	if err != nil {
		log.Warn().Err(err).Msg("quick actions unavailable")
	}

	opts := captureOptions{Source: sourceStdin, Start: *start, End: *end}
	switch {
	case *filePath != "":
		opts.Source = sourceFile
		opts.Path = *filePath
	case *clip:
		opts.Source = sourceClipboard
	}

	selection, err := captureSelection(opts, os.Stdin)
	if err != nil {
		if errors.Is(err, errNoSelection) {
			fmt.Fprintln(os.Stderr, "Please select some text first (non-empty file region, stdin, or clipboard).")
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}

	client := newCompletionClient(cfg.BaseURL, cfg.Model, apiKey, cfg.Timeout())
	events := newEventLogger(filepath.Join(configDir, "session-events.ndjson"))
	session := newEditSession(selection, customInstructions)

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if selection.Source == sourceStdin {
		// Stdin carries the selection, so the keyboard has to come from
		// the controlling terminal.
		tty, err := os.Open("/dev/tty")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error: stdin selection needs a terminal:", err)
			os.Exit(1)
		}
		defer tty.Close()
		programOpts = append(programOpts, tea.WithInput(tty))
	}

	finalModel, err := tea.NewProgram(
		initialModel(session, client, quickActions, events, log),
		programOpts...,
	).Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if m, ok := finalModel.(*model); ok && m.applied {
		if selection.Source == sourceStdin {
			fmt.Print(m.finalText)
		} else {
			fmt.Fprintln(os.Stderr, "Changes applied.")
		}
	}
}
