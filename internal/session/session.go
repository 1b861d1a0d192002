// Package session holds the per-requester record linking a resolved source
// URL to its offered variants, active between metadata fetch and pipeline
// completion. Exactly one session per requester; a later submission
// overwrites the earlier one.
package session

import (
	"context"

	"github.com/you/tg-videobot/internal/ytdl"
)

type Session struct {
	URL      string         `json:"url"`
	Title    string         `json:"title"`
	Duration float64        `json:"duration_s"`
	Variants []ytdl.Variant `json:"variants"`
}

// Variant resolves a quality label ("720p", "audio") back to the offered
// variant.
func (s *Session) Variant(label string) (ytdl.Variant, bool) {
	for _, v := range s.Variants {
		if v.Label() == label {
			return v, true
		}
	}
	return ytdl.Variant{}, false
}

// Store keeps sessions keyed by requester chat. Implementations decide
// expiry policy; the pipeline only gets, puts and removes.
type Store interface {
	Get(ctx context.Context, chatID int64) (*Session, bool, error)
	Put(ctx context.Context, chatID int64, s Session) error
	Remove(ctx context.Context, chatID int64) error
}
