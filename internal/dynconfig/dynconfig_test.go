package dynconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestPaymentsDisallowed(t *testing.T) {
	snapshot := &Snapshot{Payments: PaymentsConfig{DisallowedPrefixes: []string{"+98", "+1555"}}}

	tests := []struct {
		number string
		want   bool
	}{
		{"+989121234567", true},
		{"+15551234567", true},
		{"+15561234567", false},
		{"+441234567890", false},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, snapshot.PaymentsDisallowed(tt.number))
		})
	}

	var empty *Snapshot
	assert.False(t, empty.PaymentsDisallowed("+98"))
}

func TestLoad(t *testing.T) {
	t.Run("empty path serves empty snapshot", func(t *testing.T) {
		m, err := Load("")
		require.NoError(t, err)
		assert.False(t, m.Snapshot().PaymentsDisallowed("+98123"))
	})

	t.Run("reads prefixes from yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dynamic.yml")
		writeConfig(t, path, "payments:\n  disallowedPrefixes:\n    - \"+98\"\n    - \" +53 \"\n")

		m, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"+98", "+53"}, m.Snapshot().Payments.DisallowedPrefixes)
		assert.True(t, m.Snapshot().PaymentsDisallowed("+5312345"))
	})

	t.Run("rejects malformed prefix", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dynamic.yml")
		writeConfig(t, path, "payments:\n  disallowedPrefixes: [\"98\"]\n")

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		assert.Error(t, err)
	})
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dynamic.yml")
	writeConfig(t, path, "payments:\n  disallowedPrefixes: [\"+98\"]\n")
	m, err := Load(path)
	require.NoError(t, err)
	first := m.Snapshot()

	t.Run("bad reload keeps previous snapshot", func(t *testing.T) {
		writeConfig(t, path, "payments: [unterminated\n")
		assert.Error(t, m.reload())
		assert.Same(t, first, m.Snapshot())
	})

	t.Run("good reload swaps snapshot", func(t *testing.T) {
		writeConfig(t, path, "payments:\n  disallowedPrefixes: [\"+7\"]\n")
		require.NoError(t, m.reload())
		assert.True(t, m.Snapshot().PaymentsDisallowed("+79161234567"))
		assert.False(t, m.Snapshot().PaymentsDisallowed("+989121234567"))
		assert.True(t, first.PaymentsDisallowed("+989121234567"), "old snapshot is immutable")
	})
}

func TestNewStatic(t *testing.T) {
	m := NewStatic(Snapshot{Payments: PaymentsConfig{DisallowedPrefixes: []string{"+98"}}})
	assert.True(t, m.Snapshot().PaymentsDisallowed("+98"))
	m.Watch()
}
