package badge

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profiles/internal/account/models"
)

const catalogYAML = `
badges:
  - id: SUSTAINER
    category: donor
    name: Sustainer
    description: Supports the service
    sprites: ["ldpi.png", "mdpi.png"]
    svg: sustainer.svg
    duration: 720h
  - id: BOOST
    category: donor
    name: Boost
`

func writeCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "badges.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t, catalogYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	def, ok := catalog.Lookup("SUSTAINER")
	require.True(t, ok)
	assert.Equal(t, []string{"ldpi.png", "mdpi.png"}, def.Sprites)

	d, ok := catalog.GrantDuration("SUSTAINER")
	require.True(t, ok)
	assert.Equal(t, 720*time.Hour, d)

	d, ok = catalog.GrantDuration("BOOST")
	require.True(t, ok)
	assert.Equal(t, DefaultGrantDuration, d)

	_, ok = catalog.GrantDuration("MISSING")
	assert.False(t, ok)
}

func TestLoadCatalogRejectsEntryWithoutID(t *testing.T) {
	_, err := LoadCatalog(writeCatalog(t, "badges:\n  - name: nameless\n"))
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	catalog := NewCatalog(
		Definition{ID: "A", Name: "Alpha"},
		Definition{ID: "B", Name: "Beta"},
		Definition{ID: "C", Name: "Gamma"},
	)
	grants := []models.AccountBadge{
		{ID: "A", Expiration: now.Add(time.Hour), Visible: true},
		{ID: "B", Expiration: now.Add(time.Hour), Visible: false},
		{ID: "C", Expiration: now, Visible: true},
		{ID: "UNKNOWN", Expiration: now.Add(time.Hour), Visible: true},
	}

	t.Run("others see visible unexpired badges", func(t *testing.T) {
		got := catalog.Translate(grants, now, false)
		require.Len(t, got, 1)
		assert.Equal(t, "Alpha", got[0].Name)
	})

	t.Run("owner sees hidden badges too", func(t *testing.T) {
		got := catalog.Translate(grants, now, true)
		require.Len(t, got, 2)
		assert.Equal(t, "A", got[0].ID)
		assert.Equal(t, "B", got[1].ID)
		assert.False(t, got[1].Visible)
	})
}
