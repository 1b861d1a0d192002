package ytdl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// QualitySelector is either a resolution ceiling or the audio-only sentinel.
type QualitySelector struct {
	AudioOnly bool
	MaxHeight int
}

// Progress is one retrieval progress event. TotalBytes may be an estimate.
type Progress struct {
	DownloadedBytes int64
	TotalBytes      int64
}

const audioQualityKbps = "192K"

// Download fetches the selected variant into outputTemplate (a yt-dlp output
// template) and returns the final local path. Video selections merge best
// video under the ceiling with best audio into an mp4 container; audio-only
// extracts to mp3 at 192k. Progress events are emitted from the transfer as
// they happen; throttling is the caller's job. No automatic retries.
func (c *Client) Download(ctx context.Context, url string, sel QualitySelector, outputTemplate string, onProgress func(Progress)) (string, error) {
	dctx, cancel := context.WithTimeout(ctx, c.DownloadTimeout)
	defer cancel()

	dl := ytdlp.New().
		ForceOverwrites().
		NoPlaylist().
		Output(outputTemplate)

	if sel.AudioOnly {
		dl = dl.Format("bestaudio/best").
			ExtractAudio().
			AudioFormat("mp3").
			AudioQuality(audioQualityKbps)
	} else {
		dl = dl.Format(fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", sel.MaxHeight, sel.MaxHeight)).
			MergeOutputFormat("mp4")
	}

	if onProgress != nil {
		dl = dl.ProgressFunc(time.Second, func(update ytdlp.ProgressUpdate) {
			onProgress(Progress{
				DownloadedBytes: int64(update.DownloadedBytes),
				TotalBytes:      int64(update.TotalBytes),
			})
		})
	}

	res, err := dl.Run(dctx, url)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}

	path, err := downloadedPath(res, sel.AudioOnly)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("downloaded file missing: %w", err)
	}
	return path, nil
}

func downloadedPath(res *ytdlp.Result, audio bool) (string, error) {
	info, err := res.GetExtractedInfo()
	if err != nil {
		return "", fmt.Errorf("resolve downloaded filename: %w", err)
	}
	if len(info) == 0 || info[0].Filename == nil {
		return "", fmt.Errorf("extractor reported no downloaded file")
	}
	path := *info[0].Filename
	if audio {
		// The extract-audio postprocessor renames the file after download.
		path = replaceExt(path, ".mp3")
	}
	return path, nil
}

func replaceExt(path, ext string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		return path[:i] + ext
	}
	return path + ext
}
