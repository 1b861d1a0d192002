// Package pipeline runs the delivery state machine: metadata → variant menu
// → download → size check → (compress → recheck) → upload → cleanup, with a
// terminal failure from every stage. One run is strictly sequential; runs
// for different updates execute concurrently.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/you/tg-videobot/internal/config"
	"github.com/you/tg-videobot/internal/logx"
	"github.com/you/tg-videobot/internal/media"
	"github.com/you/tg-videobot/internal/session"
	"github.com/you/tg-videobot/internal/ytdl"
)

const compressedSuffix = "_compressed.mp4"

// Fetcher resolves a source URL into metadata without downloading.
type Fetcher interface {
	FetchInfo(ctx context.Context, url string) (*ytdl.VideoInfo, error)
}

// Downloader retrieves the selected variant to local storage.
type Downloader interface {
	Download(ctx context.Context, url string, sel ytdl.QualitySelector, outputTemplate string, onProgress func(ytdl.Progress)) (string, error)
}

// Transcoder squeezes a file under a target size.
type Transcoder interface {
	Compress(ctx context.Context, inputPath, outputPath string, targetSizeMB int) error
}

// Messenger is the chat transport the pipeline reports into. Implementations
// must not block the caller on RenderProgress.
type Messenger interface {
	RenderVariantMenu(chatID int64, title, durationDisplay string, variants []ytdl.Variant)
	RenderProgress(chatID int64, text string)
	DeliverFile(chatID int64, path string, audio bool, title, caption string) error
	RenderTerminal(chatID int64, text string)
}

type Pipeline struct {
	cfg      config.Config
	fetch    Fetcher
	dl       Downloader
	enc      Transcoder
	sessions session.Store
	chat     Messenger
}

func New(cfg config.Config, fetch Fetcher, dl Downloader, enc Transcoder, sessions session.Store, chat Messenger) *Pipeline {
	return &Pipeline{cfg: cfg, fetch: fetch, dl: dl, enc: enc, sessions: sessions, chat: chat}
}

func newJobID() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// HandleURL runs the AwaitingMetadata stage for an already validated URL:
// fetch metadata, build the variant catalog, persist the session and offer
// the menu. A failed fetch leaves any previous session untouched.
func (p *Pipeline) HandleURL(ctx context.Context, chatID int64, url string) {
	ctx = logx.WithChatID(logx.WithJobID(ctx, newJobID()), chatID)
	l := logx.FromCtx(ctx)
	l.Info().Str("url", url).Msg("metadata fetch")

	p.chat.RenderProgress(chatID, "⏳ Fetching video info…")

	info, err := p.fetch.FetchInfo(ctx, url)
	if err != nil {
		l.Error().Err(err).Msg("metadata fetch failed")
		p.fail(ctx, chatID, FailMetadataUnavailable, 0, false)
		return
	}

	catalog := ytdl.BuildVariantCatalog(info.Formats)
	if !ytdl.HasVideoVariants(catalog) {
		l.Warn().Msg("no usable variants")
		p.fail(ctx, chatID, FailNoUsableVariants, 0, false)
		return
	}

	err = p.sessions.Put(ctx, chatID, session.Session{
		URL:      url,
		Title:    info.Title,
		Duration: info.Duration,
		Variants: catalog,
	})
	if err != nil {
		l.Error().Err(err).Msg("session store put failed")
		p.fail(ctx, chatID, FailMetadataUnavailable, 0, false)
		return
	}

	p.chat.RenderVariantMenu(chatID, info.Title, formatDuration(info.Duration), catalog)
}

// HandleSelection drives a quality choice through download, conditional
// compression and upload. Terminal either way: the session is cleared and no
// file attributable to it survives.
func (p *Pipeline) HandleSelection(ctx context.Context, chatID int64, label string) {
	ctx = logx.WithChatID(logx.WithJobID(ctx, newJobID()), chatID)
	l := logx.FromCtx(ctx)

	sess, ok, err := p.sessions.Get(ctx, chatID)
	if err != nil || !ok {
		l.Warn().Err(err).Msg("selection without active session")
		p.fail(ctx, chatID, FailSessionExpired, 0, false)
		return
	}
	variant, ok := sess.Variant(label)
	if !ok {
		// A stale button from an overwritten menu; the current session
		// stays usable.
		l.Warn().Str("label", label).Msg("selection does not match offered variants")
		p.fail(ctx, chatID, FailSessionExpired, 0, false)
		return
	}

	l.Info().Str("quality", variant.Label()).Str("title", sess.Title).Msg("download start")
	p.chat.RenderProgress(chatID, fmt.Sprintf("⏳ Downloading…\n\n🎥 Quality: %s\nPlease wait…", variant.Label()))

	sel := ytdl.QualitySelector{AudioOnly: variant.Audio, MaxHeight: variant.Height}
	tmpl := filepath.Join(p.cfg.DownloadDir, fmt.Sprintf("%d_%%(title)s.%%(ext)s", chatID))
	renderer := newProgressRenderer(p.chat, chatID)

	path, err := p.dl.Download(ctx, sess.URL, sel, tmpl, renderer.update)
	if err != nil {
		l.Error().Err(err).Msg("download failed")
		p.fail(ctx, chatID, FailDownloadFailed, 0, true)
		return
	}

	size, err := fileSize(path)
	if err != nil {
		l.Error().Err(err).Str("path", path).Msg("downloaded file missing")
		p.fail(ctx, chatID, FailDownloadFailed, 0, true)
		return
	}
	l.Info().Int64("bytes", size).Str("path", path).Msg("download complete")

	if size > p.cfg.FileLimitBytes() {
		path, size, err = p.compress(ctx, chatID, path, size)
		if err != nil {
			return // compress already reported and cleaned up
		}
		if size > p.cfg.FileLimitBytes() {
			l.Warn().Int64("bytes", size).Msg("still too large after compression")
			p.fail(ctx, chatID, FailStillTooLarge, mb(size), true, path)
			return
		}
	}

	p.chat.RenderProgress(chatID, fmt.Sprintf("📤 Uploading…\n\n📊 %.1f MB", mb(size)))
	if err := p.deliver(chatID, sess.Title, variant, path, size); err != nil {
		l.Error().Err(err).Msg("upload failed")
		p.fail(ctx, chatID, FailUploadFailed, 0, true, path)
		return
	}

	// Terminal success: delivered file is gone, session is gone.
	if err := os.Remove(path); err != nil {
		l.Warn().Err(err).Str("path", path).Msg("cleanup after delivery failed")
	}
	_ = p.sessions.Remove(ctx, chatID)
	p.chat.RenderTerminal(chatID, fmt.Sprintf("✅ Done!\n\n📊 %.1f MB | 🎥 %s", mb(size), variant.Label()))
	l.Info().Msg("delivered")
}

// compress transcodes path down to the configured target and adopts the
// result. On any failure it deletes both files, reports, clears the session
// and returns a non-nil error so the caller stops.
func (p *Pipeline) compress(ctx context.Context, chatID int64, path string, size int64) (string, int64, error) {
	l := logx.FromCtx(ctx)
	l.Info().Int64("bytes", size).Msg("over delivery limit, compressing")
	p.chat.RenderProgress(chatID, fmt.Sprintf(
		"🔧 Compressing…\n\nOriginal: %.1f MB\nTarget: %d MB\n\nThis can take a few minutes…",
		mb(size), p.cfg.CompressTargetMB))

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + compressedSuffix
	err := p.enc.Compress(ctx, path, outPath, p.cfg.CompressTargetMB)
	if err == nil {
		// Engine does not verify its output; we do.
		compressed, statErr := fileSize(outPath)
		if statErr != nil {
			err = fmt.Errorf("%w: output missing: %v", media.ErrEncodeFailed, statErr)
		} else {
			l.Info().Int64("bytes", compressed).Msg("compression complete")
			if rmErr := os.Remove(path); rmErr != nil {
				l.Warn().Err(rmErr).Msg("could not remove original after compression")
			}
			return outPath, compressed, nil
		}
	}

	l.Error().Err(err).Msg("compression failed")
	kind := FailCompressionFailed
	switch {
	case errors.Is(err, media.ErrInvalidDuration):
		kind = FailInvalidDuration
	case errors.Is(err, media.ErrProbeFailed):
		kind = FailDurationProbe
	case errors.Is(err, media.ErrEncodeTimeout):
		kind = FailCompressionTimeout
	}
	p.fail(ctx, chatID, kind, mb(size), true, path, outPath)
	return "", 0, err
}

func (p *Pipeline) deliver(chatID int64, title string, variant ytdl.Variant, path string, size int64) error {
	var caption string
	if variant.Audio {
		caption = fmt.Sprintf("🎵 %s\n📊 %.1f MB", title, mb(size))
	} else {
		caption = fmt.Sprintf("🎬 %s\n📊 %.1f MB | 🎥 %s", title, mb(size), variant.Label())
	}
	return p.chat.DeliverFile(chatID, path, variant.Audio, title, caption)
}

// fail is the single exit for every Failed transition: delete whatever files
// this run still owns, clear the session when the run owned one, then report.
func (p *Pipeline) fail(ctx context.Context, chatID int64, kind FailKind, sizeMB float64, clearSession bool, files ...string) {
	l := logx.FromCtx(ctx)
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			l.Warn().Err(err).Str("path", f).Msg("cleanup failed")
		}
	}
	if clearSession {
		if err := p.sessions.Remove(ctx, chatID); err != nil {
			l.Warn().Err(err).Msg("session remove failed")
		}
	}
	l.Info().Str("fail", string(kind)).Msg("pipeline failed")
	p.chat.RenderTerminal(chatID, userMessage(kind, sizeMB, p.cfg.FileLimitMB))
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func mb(size int64) float64 { return float64(size) / (1024 * 1024) }
