package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all bot settings in correct types.
type Config struct {
	BotToken string

	// Working folder for downloaded/transcoded artifacts.
	DownloadDir string

	// Hard maximum deliverable file size (Telegram limit).
	FileLimitMB int
	// Transcode target, kept below the limit as a safety margin.
	CompressTargetMB int

	FFmpegPath    string
	FFprobePath   string
	FFmpegTimeout time.Duration

	FetchTimeout    time.Duration
	DownloadTimeout time.Duration

	// Optional Redis-backed session store; empty = in-memory sessions.
	RedisAddr  string
	SessionTTL time.Duration
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func mustSeconds(k string, def int) time.Duration {
	return time.Duration(mustInt(k, def)) * time.Second
}

func mustBool(k string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	}
	return def
}

// Load reads the configuration from the environment with defaults.
func Load() Config {
	return Config{
		BotToken:         os.Getenv("BOT_TOKEN"),
		DownloadDir:      getenv("DOWNLOAD_DIR", "downloads"),
		FileLimitMB:      mustInt("TG_FILE_LIMIT_MB", 50),
		CompressTargetMB: mustInt("COMPRESS_TARGET_MB", 45),
		FFmpegPath:       getenv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:      getenv("FFPROBE_PATH", "ffprobe"),
		FFmpegTimeout:    mustSeconds("FFMPEG_TIMEOUT", 600),
		FetchTimeout:     mustSeconds("FETCH_TIMEOUT", 60),
		DownloadTimeout:  mustSeconds("DOWNLOAD_TIMEOUT", 600),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		SessionTTL:       mustSeconds("SESSION_TTL", 24*3600),
	}
}

// FileLimitBytes is the delivery ceiling in bytes.
func (c Config) FileLimitBytes() int64 {
	return int64(c.FileLimitMB) * 1024 * 1024
}
