package badge

import (
	"time"

	"profiles/internal/account/models"
	"profiles/pkg/platform/strings"
)

// Reconciler merges a requested visible-badge list into existing grants.
type Reconciler struct {
	catalog *Catalog
}

func NewReconciler(catalog *Catalog) *Reconciler {
	return &Reconciler{catalog: catalog}
}

// Reconcile returns the new badge sequence for an account. It never mutates
// existing and never removes a grant; only visibility changes.
//
// A nil requested list means the client did not send the field, and
// existing is returned unchanged. Otherwise requested IDs come first in
// request order, all visible, followed by the remaining grants hidden in
// their prior order. Requested IDs unknown to both the account and the
// catalog are ignored. Existing grants keep their original expiration.
func (r *Reconciler) Reconcile(existing []models.AccountBadge, requested []string, now time.Time) []models.AccountBadge {
	if requested == nil {
		return cloneBadges(existing)
	}
	requested = strings.Unique(requested)

	byID := make(map[string]models.AccountBadge, len(existing))
	for _, b := range existing {
		byID[b.ID] = b
	}

	result := make([]models.AccountBadge, 0, len(existing)+len(requested))
	placed := make(map[string]struct{}, len(requested))
	for _, badgeID := range requested {
		if b, ok := byID[badgeID]; ok {
			result = append(result, b.WithVisibility(true))
			placed[badgeID] = struct{}{}
			continue
		}
		duration, ok := r.catalog.GrantDuration(badgeID)
		if !ok {
			continue
		}
		result = append(result, models.AccountBadge{
			ID:         badgeID,
			Expiration: now.Add(duration),
			Visible:    true,
		})
		placed[badgeID] = struct{}{}
	}

	for _, b := range existing {
		if _, ok := placed[b.ID]; ok {
			continue
		}
		result = append(result, b.WithVisibility(false))
	}
	return result
}

func cloneBadges(badges []models.AccountBadge) []models.AccountBadge {
	if badges == nil {
		return nil
	}
	out := make([]models.AccountBadge, len(badges))
	copy(out, badges)
	return out
}
