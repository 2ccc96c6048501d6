package badge

import (
	"time"

	"profiles/internal/account/models"
)

// Badge is a grant rendered with catalog display metadata.
type Badge struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Sprites     []string `json:"sprites6"`
	SVG         string   `json:"svg"`
	Visible     bool     `json:"visible"`
}

// Translate renders the grants a viewer may see. The owner sees every
// unexpired grant with its visibility; anyone else sees only visible,
// unexpired grants. Grants missing from the catalog are skipped.
func (c *Catalog) Translate(grants []models.AccountBadge, now time.Time, isSelf bool) []Badge {
	out := make([]Badge, 0, len(grants))
	for _, g := range grants {
		if g.IsExpired(now) {
			continue
		}
		if !isSelf && !g.Visible {
			continue
		}
		def, ok := c.Lookup(g.ID)
		if !ok {
			continue
		}
		out = append(out, Badge{
			ID:          def.ID,
			Category:    def.Category,
			Name:        def.Name,
			Description: def.Description,
			Sprites:     def.Sprites,
			SVG:         def.SVG,
			Visible:     g.Visible,
		})
	}
	return out
}
