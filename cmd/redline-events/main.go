package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type sessionEvent struct {
	SessionID string            `json:"session_id"`
	Timestamp time.Time         `json:"timestamp"`
	Event     string            `json:"event"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func main() {
	var inputPath string
	var sessionFilter string
	flag.StringVar(&inputPath, "in", "", "event log path (defaults to the config dir log)")
	flag.StringVar(&sessionFilter, "session", "", "only show events of this session id")
	flag.Parse()

	if inputPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		inputPath = filepath.Join(dir, "redline", "session-events.ndjson")
	}

	f, err := os.Open(inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer f.Close()

	lastSession := ""
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event sessionEvent
		if err := json.Unmarshal(line, &event); err != nil {
			fmt.Fprintln(os.Stderr, "skipping malformed line:", err)
			continue
		}
		if sessionFilter != "" && event.SessionID != sessionFilter {
			continue
		}
		if event.SessionID != lastSession {
			fmt.Printf("\nsession %s\n", event.SessionID)
			lastSession = event.SessionID
		}
		fmt.Printf("  %s  %-18s", event.Timestamp.Local().Format("15:04:05"), event.Event)
		for key, value := range event.Fields {
			fmt.Printf("  %s=%s", key, value)
		}
		fmt.Println()
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
