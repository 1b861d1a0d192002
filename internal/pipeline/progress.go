package pipeline

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/you/tg-videobot/internal/ytdl"
)

const (
	barSegments      = 20
	progressInterval = 10 * time.Second
)

// progressRenderer throttles retrieval progress into at most one chat
// notification per interval, with monotonically non-decreasing percentages.
type progressRenderer struct {
	chat     Messenger
	chatID   int64
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSent time.Time
	lastPct  float64
}

func newProgressRenderer(chat Messenger, chatID int64) *progressRenderer {
	return &progressRenderer{
		chat:     chat,
		chatID:   chatID,
		interval: progressInterval,
		now:      time.Now,
	}
}

func (p *progressRenderer) update(u ytdl.Progress) {
	if u.TotalBytes <= 0 {
		return
	}
	pct := float64(u.DownloadedBytes) / float64(u.TotalBytes) * 100
	if pct > 100 {
		pct = 100
	}

	p.mu.Lock()
	if pct < p.lastPct || p.now().Sub(p.lastSent) < p.interval {
		p.mu.Unlock()
		return
	}
	p.lastSent = p.now()
	p.lastPct = pct
	p.mu.Unlock()

	p.chat.RenderProgress(p.chatID, fmt.Sprintf("⏳ Downloading…\n\n%s", renderBar(pct)))
}

// renderBar draws a fixed-width 20-segment bar: [████░░░░…] 42.3%
func renderBar(pct float64) string {
	filled := int(pct / (100 / barSegments))
	if filled > barSegments {
		filled = barSegments
	}
	return fmt.Sprintf("[%s%s] %.1f%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", barSegments-filled),
		pct)
}

// formatDuration renders seconds as m:ss for the variant menu header.
func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "unknown"
	}
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
