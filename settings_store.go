package main

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const maxQuickActions = 3

const (
	settingAPIKey             = "api_key"
	settingCustomInstructions = "custom_instructions"
)

// quickAction is a user-configured one-click preset instruction.
type quickAction struct {
	Slot   int
	Label  string
	Prompt string
}

// settingsStore persists the API credential, custom system instructions and
// quick-action presets across sessions.
type settingsStore struct {
	db   *sql.DB
	path string
}

func openSettingsStore(dir string) (*settingsStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	sqlitePath := filepath.Join(dir, "settings.sqlite")
	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, err
	}
	if err := migrateSettingsStore(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &settingsStore{db: db, path: sqlitePath}, nil
}

func migrateSettingsStore(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS quick_actions (
			slot INTEGER PRIMARY KEY CHECK (slot >= 1 AND slot <= 3),
			label TEXT NOT NULL,
			prompt TEXT NOT NULL
		);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("settings store migration failed: %w", err)
		}
	}
	return nil
}

func (s *settingsStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *settingsStore) get(key string) (string, error) {
	if s == nil || s.db == nil {
		return "", nil
	}
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *settingsStore) set(key, value string) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (s *settingsStore) unset(key string) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

func (s *settingsStore) APIKey() (string, error) {
	return s.get(settingAPIKey)
}

func (s *settingsStore) SetAPIKey(key string) error {
	return s.set(settingAPIKey, strings.TrimSpace(key))
}

func (s *settingsStore) CustomInstructions() (string, error) {
	return s.get(settingCustomInstructions)
}

func (s *settingsStore) SetCustomInstructions(instructions string) error {
	return s.set(settingCustomInstructions, strings.TrimSpace(instructions))
}

func (s *settingsStore) QuickActions() ([]quickAction, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT slot, label, prompt FROM quick_actions ORDER BY slot ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []quickAction
	for rows.Next() {
		var action quickAction
		if err := rows.Scan(&action.Slot, &action.Label, &action.Prompt); err != nil {
			return nil, err
		}
		if strings.TrimSpace(action.Label) == "" || strings.TrimSpace(action.Prompt) == "" {
			continue
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return actions, nil
}

func (s *settingsStore) SetQuickAction(slot int, label, prompt string) error {
	if s == nil || s.db == nil {
		return nil
	}
	if slot < 1 || slot > maxQuickActions {
		return fmt.Errorf("quick action slot must be 1..%d, got %d", maxQuickActions, slot)
	}
	label = strings.TrimSpace(label)
	prompt = strings.TrimSpace(prompt)
	if label == "" || prompt == "" {
		return errors.New("quick action needs both a label and a prompt")
	}
	_, err := s.db.Exec(`INSERT INTO quick_actions (slot, label, prompt) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET label = excluded.label, prompt = excluded.prompt`,
		slot, label, prompt)
	return err
}

func (s *settingsStore) RemoveQuickAction(slot int) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(`DELETE FROM quick_actions WHERE slot = ?`, slot)
	return err
}
