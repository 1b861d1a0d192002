package main

import (
	"context"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/lrstanley/go-ytdlp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/you/tg-videobot/internal/config"
	"github.com/you/tg-videobot/internal/logx"
	"github.com/you/tg-videobot/internal/media"
	"github.com/you/tg-videobot/internal/pipeline"
	"github.com/you/tg-videobot/internal/session"
	"github.com/you/tg-videobot/internal/telegram"
	ytdl "github.com/you/tg-videobot/internal/ytdl"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logx.Setup(logx.FromEnv("bot"))
	log.Info().Msg("bot starting")

	if cfg.BotToken == "" {
		log.Fatal().Msg("BOT_TOKEN is required")
	}
	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DownloadDir).Msg("create download dir")
	}

	ctx := context.Background()

	// Fetch or update the yt-dlp binary once at startup.
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("yt-dlp install")
	}

	// health endpoint
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"ok":true}`)) })
		log.Info().Msg("health on :8080/health")
		log.Error().Err(http.ListenAndServe(":8080", nil)).Msg("health server stopped")
	}()

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram auth")
	}
	bot.Debug = false
	log.Info().Str("username", bot.Self.UserName).Msg("bot authorized")

	var sessions session.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis session store")
	} else {
		sessions = session.NewMemoryStore()
		log.Info().Msg("in-memory session store")
	}

	client := &ytdl.Client{
		FetchTimeout:    cfg.FetchTimeout,
		DownloadTimeout: cfg.DownloadTimeout,
	}
	transcoder := &media.Transcoder{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		Timeout:     cfg.FFmpegTimeout,
	}
	messenger := telegram.NewMessenger(bot, cfg.FileLimitBytes())
	pipe := pipeline.New(cfg, client, client, transcoder, sessions, messenger)
	handler := telegram.NewHandler(bot, pipe, cfg.FileLimitMB)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	// Each update runs on its own goroutine; a single pipeline run stays
	// strictly sequential while runs for different updates overlap.
	for upd := range updates {
		go handler.HandleUpdate(ctx, upd)
	}
}
