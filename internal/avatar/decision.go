// Package avatar decides what happens to a profile's avatar object when a
// new profile version is written, and carries out the blob side effects.
package avatar

import "strings"

// Action is the lifecycle outcome for the avatar of a new profile version.
type Action string

const (
	// ActionIssueUpload allocates a new key and returns upload credentials.
	ActionIssueUpload Action = "issue_upload"
	// ActionRetain keeps the previous key without touching blob storage.
	ActionRetain Action = "retain"
	// ActionClear removes the avatar from the profile.
	ActionClear Action = "clear"
)

// Decide applies the lifecycle table. sameAvatar only matters when an
// avatar is wanted and one already exists; otherwise a fresh upload is
// issued. Not wanting an avatar always clears.
func Decide(wantsAvatar, sameAvatar bool, previousKey string) Action {
	switch {
	case !wantsAvatar:
		return ActionClear
	case sameAvatar && previousKey != "":
		return ActionRetain
	default:
		return ActionIssueUpload
	}
}

// IsManaged reports whether key was allocated by this package. Keys from
// elsewhere are never retained or deleted.
func IsManaged(key string) bool {
	return strings.HasPrefix(key, keyPrefix)
}
