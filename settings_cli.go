package main

import (
	"flag"
	"fmt"
	"strings"
)

// runSettings is the options-page analogue: a small CRUD surface over the
// settings store.
func runSettings(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	apiKey := fs.String("api-key", "", "set the completion service API key")
	clearKey := fs.Bool("clear-api-key", false, "remove the stored API key")
	instructions := fs.String("instructions", "", "set custom system instructions appended to every request")
	clearInstructions := fs.Bool("clear-instructions", false, "remove the custom instructions")
	quickSlot := fs.Int("quick", 0, "quick action slot to set (1-3, use with -label and -prompt)")
	quickLabel := fs.String("label", "", "quick action label")
	quickPrompt := fs.String("prompt", "", "quick action prompt")
	removeQuick := fs.Int("remove-quick", 0, "quick action slot to remove (1-3)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openSettingsStore(resolveConfigDir())
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	defer store.Close()

	changed := false
	if *apiKey != "" {
		if err := store.SetAPIKey(*apiKey); err != nil {
			return err
		}
		fmt.Println("API key saved.")
		changed = true
	}
	if *clearKey {
		if err := store.unset(settingAPIKey); err != nil {
			return err
		}
		fmt.Println("API key removed.")
		changed = true
	}
	if *instructions != "" {
		if err := store.SetCustomInstructions(*instructions); err != nil {
			return err
		}
		fmt.Println("Custom instructions saved.")
		changed = true
	}
	if *clearInstructions {
		if err := store.unset(settingCustomInstructions); err != nil {
			return err
		}
		fmt.Println("Custom instructions removed.")
		changed = true
	}
	if *quickSlot != 0 {
		if err := store.SetQuickAction(*quickSlot, *quickLabel, *quickPrompt); err != nil {
			return err
		}
		fmt.Printf("Quick action %d saved.\n", *quickSlot)
		changed = true
	}
	if *removeQuick != 0 {
		if err := store.RemoveQuickAction(*removeQuick); err != nil {
			return err
		}
		fmt.Printf("Quick action %d removed.\n", *removeQuick)
		changed = true
	}

	if !changed {
		return printSettings(store)
	}
	return nil
}

func printSettings(store *settingsStore) error {
	key, err := store.APIKey()
	if err != nil {
		return err
	}
	instructions, err := store.CustomInstructions()
	if err != nil {
		return err
	}
	actions, err := store.QuickActions()
	if err != nil {
		return err
	}

	fmt.Println("API key:            ", maskSecret(key))
	fmt.Println("Custom instructions:", emptyLabel(instructions))
	if len(actions) == 0 {
		fmt.Println("Quick actions:       (none)")
		return nil
	}
	fmt.Println("Quick actions:")
	for _, action := range actions {
		fmt.Printf("  %d. %s: %s\n", action.Slot, action.Label, action.Prompt)
	}
	return nil
}

func maskSecret(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "(not set)"
	}
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

func emptyLabel(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(not set)"
	}
	return value
}
