// Package ytdl wraps the yt-dlp extractor: metadata inspection, the variant
// catalog offered to requesters, and quality-selected retrieval.
package ytdl

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/you/tg-videobot/internal/logx"
)

// VideoInfo is the slice of the extractor's JSON dump the pipeline needs.
type VideoInfo struct {
	Title    string   `json:"title"`
	Duration float64  `json:"duration"`
	Formats  []Format `json:"formats"`
}

// Format mirrors one entry of the extractor's raw format list.
type Format struct {
	FormatID       string `json:"format_id"`
	Ext            string `json:"ext"`
	Height         *int   `json:"height"`
	VCodec         string `json:"vcodec"`
	ACodec         string `json:"acodec"`
	Filesize       int64  `json:"filesize"`
	FilesizeApprox int64  `json:"filesize_approx"`
}

// Client drives the yt-dlp binary through go-ytdlp.
type Client struct {
	FetchTimeout    time.Duration
	DownloadTimeout time.Duration
}

// FetchInfo resolves a source URL into title, duration and the raw format
// list without downloading anything. Any extractor or network failure comes
// back as an error; the caller decides the user-facing outcome.
func (c *Client) FetchInfo(ctx context.Context, url string) (*VideoInfo, error) {
	fctx, cancel := context.WithTimeout(ctx, c.FetchTimeout)
	defer cancel()

	dl := ytdlp.New().
		NoPlaylist().
		SkipDownload().
		DumpSingleJSON()

	res, err := dl.Run(fctx, url)
	if err != nil {
		return nil, fmt.Errorf("extract info: %w", err)
	}

	var info VideoInfo
	if err := json.Unmarshal([]byte(res.Stdout), &info); err != nil {
		return nil, fmt.Errorf("decode info: %w", err)
	}
	lg := logx.FromCtx(ctx)
	lg.Info().
		Str("title", info.Title).
		Float64("duration_s", info.Duration).
		Int("formats", len(info.Formats)).
		Msg("metadata fetched")
	return &info, nil
}
