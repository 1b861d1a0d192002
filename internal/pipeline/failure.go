package pipeline

import "fmt"

// FailKind names the terminal failure states of a delivery run. Each kind
// renders a distinct message so the requester knows which stage gave up and
// whether a lower quality would help.
type FailKind string

const (
	FailMetadataUnavailable FailKind = "metadata_unavailable"
	FailNoUsableVariants    FailKind = "no_usable_variants"
	FailSessionExpired      FailKind = "session_expired"
	FailDownloadFailed      FailKind = "download_failed"
	FailInvalidDuration     FailKind = "invalid_duration"
	FailDurationProbe       FailKind = "duration_probe_failed"
	FailCompressionTimeout  FailKind = "compression_timeout"
	FailCompressionFailed   FailKind = "compression_failed"
	FailStillTooLarge       FailKind = "still_too_large"
	FailUploadFailed        FailKind = "upload_failed"
)

// userMessage renders the requester-facing text for a failure. sizeMB and
// limitMB are only meaningful for the size-related kinds.
func userMessage(kind FailKind, sizeMB float64, limitMB int) string {
	switch kind {
	case FailMetadataUnavailable:
		return "❌ Could not fetch video info. Check the link and try again."
	case FailNoUsableVariants:
		return "❌ No downloadable quality options found for this video."
	case FailSessionExpired:
		return "❌ Session expired. Send the video link again."
	case FailDownloadFailed:
		return "❌ Download failed. Send the link again or pick another quality."
	case FailInvalidDuration, FailDurationProbe:
		return "❌ Could not read the video duration, compression aborted. Try a lower quality."
	case FailCompressionTimeout:
		return "❌ Compression timed out. Try a lower quality."
	case FailCompressionFailed:
		return fmt.Sprintf("❌ Compression failed.\nSize: %.1f MB, limit: %d MB.\nTry a lower quality.", sizeMB, limitMB)
	case FailStillTooLarge:
		return fmt.Sprintf("⚠️ Still too large after compression: %.1f MB (limit %d MB).\nTry a lower quality.", sizeMB, limitMB)
	case FailUploadFailed:
		return "❌ Upload to Telegram failed. Try again."
	}
	return "❌ Something went wrong. Send the link again."
}
