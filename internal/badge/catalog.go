// Package badge reconciles badge grants on accounts and renders them with
// catalog metadata.
package badge

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultGrantDuration applies to catalog entries without a duration.
const DefaultGrantDuration = 24 * time.Hour

// Definition is a catalog entry. Definitions are read-only configuration.
type Definition struct {
	ID          string        `mapstructure:"id"`
	Category    string        `mapstructure:"category"`
	Name        string        `mapstructure:"name"`
	Description string        `mapstructure:"description"`
	Sprites     []string      `mapstructure:"sprites"`
	SVG         string        `mapstructure:"svg"`
	Duration    time.Duration `mapstructure:"duration"`
}

// Catalog maps badge IDs to their definitions.
type Catalog struct {
	defs map[string]Definition
}

func NewCatalog(defs ...Definition) *Catalog {
	c := &Catalog{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		c.defs[d.ID] = d
	}
	return c
}

// LoadCatalog reads the "badges" list from a YAML or JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read badge catalog: %w", err)
	}
	var defs []Definition
	if err := v.UnmarshalKey("badges", &defs); err != nil {
		return nil, fmt.Errorf("decode badge catalog: %w", err)
	}
	for i, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("badge catalog entry %d has no id", i)
		}
	}
	return NewCatalog(defs...), nil
}

func (c *Catalog) Lookup(badgeID string) (Definition, bool) {
	d, ok := c.defs[badgeID]
	return d, ok
}

// GrantDuration returns how long a fresh grant of badgeID lasts.
func (c *Catalog) GrantDuration(badgeID string) (time.Duration, bool) {
	d, ok := c.defs[badgeID]
	if !ok {
		return 0, false
	}
	if d.Duration <= 0 {
		return DefaultGrantDuration, true
	}
	return d.Duration, true
}

func (c *Catalog) Len() int {
	return len(c.defs)
}
