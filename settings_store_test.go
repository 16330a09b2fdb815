package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *settingsStore {
	t.Helper()
	store, err := openSettingsStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSettingsStore_APIKey(t *testing.T) {
	store := testStore(t)

	key, err := store.APIKey()
	require.NoError(t, err)
	assert.Empty(t, key, "fresh store has no credential")

	require.NoError(t, store.SetAPIKey("  sk-test-123  "))
	key, err = store.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", key)

	require.NoError(t, store.unset(settingAPIKey))
	key, err = store.APIKey()
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestSettingsStore_CustomInstructions(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.SetCustomInstructions("Keep it short."))
	got, err := store.CustomInstructions()
	require.NoError(t, err)
	assert.Equal(t, "Keep it short.", got)
}

func TestSettingsStore_QuickActions(t *testing.T) {
	store := testStore(t)

	actions, err := store.QuickActions()
	require.NoError(t, err)
	assert.Empty(t, actions)

	require.NoError(t, store.SetQuickAction(2, "Shorten", "Make this text shorter."))
	require.NoError(t, store.SetQuickAction(1, "Fix", "Fix grammar and spelling."))

	actions, err = store.QuickActions()
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, 1, actions[0].Slot, "actions come back ordered by slot")
	assert.Equal(t, "Fix", actions[0].Label)

	// Overwriting a slot replaces it.
	require.NoError(t, store.SetQuickAction(1, "Polish", "Polish the wording."))
	actions, err = store.QuickActions()
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "Polish", actions[0].Label)

	require.NoError(t, store.RemoveQuickAction(1))
	actions, err = store.QuickActions()
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, 2, actions[0].Slot)
}

func TestSettingsStore_QuickActionValidation(t *testing.T) {
	store := testStore(t)
	assert.Error(t, store.SetQuickAction(0, "label", "prompt"))
	assert.Error(t, store.SetQuickAction(4, "label", "prompt"))
	assert.Error(t, store.SetQuickAction(1, "", "prompt"))
	assert.Error(t, store.SetQuickAction(1, "label", "  "))
}

func TestSettingsStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	store, err := openSettingsStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SetAPIKey("sk-persist"))
	require.NoError(t, store.Close())

	reopened, err := openSettingsStore(dir)
	require.NoError(t, err)
	defer reopened.Close()
	key, err := reopened.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-persist", key)
}
