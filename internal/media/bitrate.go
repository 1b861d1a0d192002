package media

import "errors"

const (
	// AudioBitrateKbps is reserved for the AAC track during compression.
	AudioBitrateKbps = 128
	// MinVideoBitrateKbps keeps very long inputs encodable at all.
	MinVideoBitrateKbps = 100
)

// ErrInvalidDuration is returned when a source duration is unknown or
// non-positive; callers must abort instead of encoding at a degenerate rate.
var ErrInvalidDuration = errors.New("invalid media duration")

// CalcBitrate maps (duration, target size) onto the video bitrate in kbps
// that lands the encode near the target once audio is reserved.
//
// totalKbps = floor(targetSizeMB * 8192 / durationSec)
func CalcBitrate(durationSec float64, targetSizeMB int) (int, error) {
	if durationSec <= 0 {
		return 0, ErrInvalidDuration
	}
	total := int(float64(targetSizeMB) * 8192 / durationSec)
	video := total - AudioBitrateKbps
	if video < MinVideoBitrateKbps {
		video = MinVideoBitrateKbps
	}
	return video, nil
}
