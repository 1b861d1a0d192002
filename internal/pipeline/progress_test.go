package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/you/tg-videobot/internal/ytdl"
)

func TestRenderBar(t *testing.T) {
	tests := []struct {
		pct      float64
		expected string
	}{
		{0, "[░░░░░░░░░░░░░░░░░░░░] 0.0%"},
		{50, "[██████████░░░░░░░░░░] 50.0%"},
		{100, "[████████████████████] 100.0%"},
		{42.5, "[████████░░░░░░░░░░░░] 42.5%"},
	}
	for _, test := range tests {
		if got := renderBar(test.pct); got != test.expected {
			t.Errorf("renderBar(%v) = %q, expected %q", test.pct, got, test.expected)
		}
	}
}

func TestProgressRendererThrottlesToInterval(t *testing.T) {
	chat := &fakeMessenger{}
	r := newProgressRenderer(chat, 7)

	clock := time.Unix(0, 0)
	r.now = func() time.Time { return clock }
	// Let the first event through.
	r.lastSent = clock.Add(-progressInterval)

	total := int64(100 << 20)
	r.update(ytdl.Progress{DownloadedBytes: 10 << 20, TotalBytes: total})
	for i := 0; i < 10; i++ {
		clock = clock.Add(time.Second)
		r.update(ytdl.Progress{DownloadedBytes: int64(11+i) << 20, TotalBytes: total})
	}

	// One initial notification; the 10s of follow-ups collapse into one more.
	if len(chat.progress) != 2 {
		t.Fatalf("expected 2 notifications, got %d: %v", len(chat.progress), chat.progress)
	}
	if !strings.Contains(chat.progress[0], "10.0%") {
		t.Errorf("first notification should carry 10%%, got %q", chat.progress[0])
	}
}

func TestProgressRendererMonotonic(t *testing.T) {
	chat := &fakeMessenger{}
	r := newProgressRenderer(chat, 7)

	clock := time.Unix(0, 0)
	r.now = func() time.Time { return clock }
	r.lastSent = clock.Add(-progressInterval)

	r.update(ytdl.Progress{DownloadedBytes: 50, TotalBytes: 100})
	// A shrinking percentage (e.g. total estimate revised) must not render.
	clock = clock.Add(progressInterval)
	r.update(ytdl.Progress{DownloadedBytes: 40, TotalBytes: 100})
	clock = clock.Add(progressInterval)
	r.update(ytdl.Progress{DownloadedBytes: 80, TotalBytes: 100})

	if len(chat.progress) != 2 {
		t.Fatalf("expected 2 notifications, got %v", chat.progress)
	}
	if !strings.Contains(chat.progress[1], "80.0%") {
		t.Errorf("expected 80%% after regression skipped, got %q", chat.progress[1])
	}
}

func TestProgressRendererIgnoresUnknownTotal(t *testing.T) {
	chat := &fakeMessenger{}
	r := newProgressRenderer(chat, 7)
	r.lastSent = time.Now().Add(-progressInterval)

	r.update(ytdl.Progress{DownloadedBytes: 1 << 20, TotalBytes: 0})
	if len(chat.progress) != 0 {
		t.Errorf("no notification expected without a total, got %v", chat.progress)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{0, "unknown"},
		{59, "0:59"},
		{75, "1:15"},
		{600, "10:00"},
		{3661, "61:01"},
	}
	for _, test := range tests {
		if got := formatDuration(test.in); got != test.expected {
			t.Errorf("formatDuration(%v) = %q, expected %q", test.in, got, test.expected)
		}
	}
}
