package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/hilo/config"
)

func TestDefaultConfig(t *testing.T) {
	profiles, invalid, err := config.Load("../../config.ini")
	require.NoError(t, err)
	assert.Empty(t, invalid)
	assert.Len(t, profiles, 4)
}

func TestSelectProfileByName(t *testing.T) {
	profiles := []config.Profile{
		{Section: "a", Name: "first"},
		{Section: "b", Name: "second"},
	}

	p, err := selectProfile(profiles, "second")
	require.NoError(t, err)
	assert.Equal(t, "b", p.Section)

	_, err = selectProfile(profiles, "third")
	assert.Error(t, err)
}

func TestSelectOnlyProfile(t *testing.T) {
	p, err := selectProfile([]config.Profile{{Section: "only"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "only", p.Section)
}

func TestEnvOr(t *testing.T) {
	t.Setenv("HILO_TEST_ENV", "")
	assert.Equal(t, "fallback", envOr("HILO_TEST_ENV", "fallback"))
	t.Setenv("HILO_TEST_ENV", "set")
	assert.Equal(t, "set", envOr("HILO_TEST_ENV", "fallback"))
}

func TestParseCommand(t *testing.T) {
	assert.Equal(t, updateCommand, parseCommand(""))
	assert.Equal(t, updateCommand, parseCommand("  \n"))
	assert.Equal(t, stopCommand, parseCommand("x"))
	assert.Equal(t, stopCommand, parseCommand("Q"))
	assert.Equal(t, stopCommand, parseCommand("\x1b"))
	assert.Equal(t, unknownCommand, parseCommand("stats"))
}

func TestPrintNotes(t *testing.T) {
	var buf bytes.Buffer
	printNotes(&buf, config.Profile{Threads: 4, GameBackupAmount: 5000})

	notes := buf.String()
	assert.Contains(t, notes, "----- Notes -----")
	assert.Contains(t, notes, "Games per window (5000)")
	assert.Contains(t, notes, "Threads (4)")
	assert.Contains(t, notes, "Escape")
}
