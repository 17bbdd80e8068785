package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("expands tilde prefix", func(t *testing.T) {
		assert.Equal(t, filepath.Join(home, "data", "ledger.db"), ExpandPath("~/data/ledger.db"))
		assert.Equal(t, home, ExpandPath("~"))
	})

	t.Run("expands environment variables", func(t *testing.T) {
		t.Setenv("LEDGER_DIR", "/var/lib/expenselog")
		assert.Equal(t, "/var/lib/expenselog/ledger.db", ExpandPath("$LEDGER_DIR/ledger.db"))
	})

	t.Run("plain paths pass through", func(t *testing.T) {
		assert.Equal(t, "/tmp/ledger.db", ExpandPath("/tmp/ledger.db"))
		assert.Equal(t, "", ExpandPath(""))
	})
}

func TestDefaultDatabasePath(t *testing.T) {
	path := DefaultDatabasePath()
	assert.Contains(t, path, "expenselog")
	assert.True(t, filepath.IsAbs(path) || path == "expenselog.db")
}
