package urlutil

import (
	"net/url"
	"strings"
)

// Query parameters YouTube appends for share tracking; they confuse some
// extractors and leak share origins into logs.
var trackingParams = []string{"si", "feature", "app", "source"}

// IsSupported reports whether the text looks like a YouTube link.
func IsSupported(raw string) bool {
	return strings.Contains(raw, "youtube.com") || strings.Contains(raw, "youtu.be")
}

// Clean strips tracking parameters from a video URL. On parse failure the
// input is returned unchanged.
func Clean(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, p := range trackingParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
