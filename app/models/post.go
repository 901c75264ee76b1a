package models

import (
	"fmt"
	"time"
)

// IsOwner reports whether the given session identity owns the post.
func (p *Post) IsOwner(u *User) bool {
	return u != nil && u.ID != "" && p.Owner.ID() == u.ID
}

// IsExpired reports whether the service marked the post expired. The
// expiration timestamp is not consulted here; the server is authoritative.
func (p *Post) IsExpired() bool {
	return p.Status == StatusExpired
}

// Reactions returns the reference set for the given kind.
func (p *Post) Reactions(kind ReactionKind) []UserRef {
	if kind == ReactionDislike {
		return p.Dislikes
	}
	return p.Likes
}

// HasReacted reports whether the session identity appears in the reaction
// set, under both the embedded-summary and bare-identifier shapes.
func (p *Post) HasReacted(kind ReactionKind, u *User) bool {
	if u == nil || u.ID == "" {
		return false
	}
	for _, ref := range p.Reactions(kind) {
		if ref.ID() == u.ID {
			return true
		}
	}
	return false
}

// ReactorUsernames returns the display names of everyone in the reaction
// set, with "Unknown" standing in for bare identifiers.
func (p *Post) ReactorUsernames(kind ReactionKind) []string {
	refs := p.Reactions(kind)
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.DisplayName())
	}
	return names
}

// TimeLeft renders the remaining lifetime of the post relative to now,
// using the coarsest applicable unit.
func (p *Post) TimeLeft(now time.Time) string {
	diff := p.ExpirationTime.Sub(now)
	if diff <= 0 {
		return "Expired"
	}

	minutes := int(diff.Minutes())
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh left", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm left", hours, minutes%60)
	default:
		return fmt.Sprintf("%dm left", minutes)
	}
}
