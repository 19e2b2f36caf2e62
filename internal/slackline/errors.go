package slackline

import "errors"

// ErrInvariant is returned by Keystroke when the line state no longer satisfies
// its cursor and length invariants. Callers should treat it as fatal.
var ErrInvariant = errors.New("slackline: invariant violated")
