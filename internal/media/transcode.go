package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/you/tg-videobot/internal/logx"
)

const (
	videoCodec    = "libx264"
	audioCodec    = "aac"
	encodePreset  = "fast"
	fastStartFlag = "+faststart"

	probeTimeout = 10 * time.Second
)

var (
	// ErrProbeFailed means ffprobe could not report a source duration.
	ErrProbeFailed = errors.New("duration probe failed")
	// ErrEncodeTimeout means ffmpeg exceeded the configured wall-clock budget.
	ErrEncodeTimeout = errors.New("compression timed out")
	// ErrEncodeFailed covers any non-zero ffmpeg exit.
	ErrEncodeFailed = errors.New("compression failed")
)

// Transcoder shells out to ffmpeg/ffprobe to squeeze a file under a target
// size. It does not verify the result; the caller owns the output file and
// is responsible for checking its size.
type Transcoder struct {
	FFmpegPath  string
	FFprobePath string
	Timeout     time.Duration
}

// Duration probes the container duration in seconds.
func (t *Transcoder) Duration(ctx context.Context, path string) (float64, error) {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(pctx, t.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse %q: %v", ErrProbeFailed, strings.TrimSpace(string(out)), err)
	}
	return dur, nil
}

// Compress re-encodes inputPath into outputPath aiming at targetSizeMB.
// Returns ErrProbeFailed, ErrInvalidDuration, ErrEncodeTimeout or
// ErrEncodeFailed; no retries.
func (t *Transcoder) Compress(ctx context.Context, inputPath, outputPath string, targetSizeMB int) error {
	l := logx.FromCtx(ctx)

	dur, err := t.Duration(ctx, inputPath)
	if err != nil {
		return err
	}
	bitrate, err := CalcBitrate(dur, targetSizeMB)
	if err != nil {
		return err
	}
	l.Info().Float64("duration_s", dur).Int("video_kbps", bitrate).Msg("starting compression")

	ectx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ectx, t.FFmpegPath, BuildFFmpegArgs(inputPath, outputPath, bitrate)...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: stderr pipe: %v", ErrEncodeFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: start ffmpeg: %v", ErrEncodeFailed, err)
	}

	lw := logx.NewLineWriter(map[string]string{"proc": "ffmpeg"}, zerolog.DebugLevel)
	go lw.Pipe(stderr)

	err = cmd.Wait()
	if errors.Is(ectx.Err(), context.DeadlineExceeded) {
		return ErrEncodeTimeout
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	return nil
}

// BuildFFmpegArgs assembles the compression command line: H.264 capped at
// the computed bitrate (bufsize 2x smooths short spikes while holding the
// long-term average), AAC audio, and faststart so playback can begin before
// the client finishes downloading.
func BuildFFmpegArgs(inputPath, outputPath string, videoKbps int) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-c:v", videoCodec,
		"-b:v", fmt.Sprintf("%dk", videoKbps),
		"-maxrate", fmt.Sprintf("%dk", videoKbps),
		"-bufsize", fmt.Sprintf("%dk", videoKbps*2),
		"-c:a", audioCodec,
		"-b:a", fmt.Sprintf("%dk", AudioBitrateKbps),
		"-preset", encodePreset,
		"-movflags", fastStartFlag,
		outputPath,
	}
}
