package models

import "strings"

const keyNamespace = "ratelimit"

// Key identifies one caller's bucket for one action.
type Key struct {
	Action     Action
	Identifier string
}

// NewKey builds a bucket key, escaping delimiters in the identifier.
func NewKey(action Action, identifier string) Key {
	return Key{Action: action, Identifier: SanitizeKeySegment(identifier)}
}

// String renders the key as "ratelimit:<action>:<identifier>".
func (k Key) String() string {
	return keyNamespace + ":" + string(k.Action) + ":" + k.Identifier
}

// SanitizeKeySegment escapes delimiter characters so an identifier
// containing ':' cannot address a neighbouring bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
