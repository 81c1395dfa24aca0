// Package moderation decide qué mensajes se borran antes de llegar a los comandos.
package moderation

import "strings"

// DefaultMarkers son los esquemas de enlace que no se permiten en el chat.
var DefaultMarkers = []string{"https://", "http://"}

type Rule interface {
	// Violates reports whether the message text must be removed.
	Violates(text string) bool
}

// LinkRule flags any text that contains one of its markers, ignoring case.
type LinkRule struct {
	markers []string
}

func NewLinkRule(markers ...string) *LinkRule {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	normalized := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		normalized = append(normalized, m)
	}
	return &LinkRule{markers: normalized}
}

func (r *LinkRule) Violates(text string) bool {
	if r == nil || text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, m := range r.markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func (r *LinkRule) Markers() []string {
	return append([]string(nil), r.markers...)
}
