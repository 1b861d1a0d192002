// Package telegram is the chat transport: it routes incoming updates to the
// delivery pipeline and renders the pipeline's output back into the chat.
package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/you/tg-videobot/internal/pipeline"
	"github.com/you/tg-videobot/internal/urlutil"
)

const qualityPrefix = "quality_"

type Handler struct {
	bot     *tgbotapi.BotAPI
	pipe    *pipeline.Pipeline
	limitMB int
}

func NewHandler(bot *tgbotapi.BotAPI, pipe *pipeline.Pipeline, limitMB int) *Handler {
	return &Handler{bot: bot, pipe: pipe, limitMB: limitMB}
}

// HandleUpdate dispatches one update. The caller runs each update on its own
// goroutine, so a long download never blocks the polling loop.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		h.onMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		h.onCallback(ctx, upd.CallbackQuery)
	}
}

func (h *Handler) onMessage(ctx context.Context, m *tgbotapi.Message) {
	log.Info().
		Int64("chat", m.Chat.ID).
		Msg("message received")

	if m.IsCommand() {
		switch m.Command() {
		case "start":
			h.reply(m.Chat.ID, h.startText())
		case "help":
			h.reply(m.Chat.ID, h.helpText())
		default:
			h.reply(m.Chat.ID, "Unknown command. Send a YouTube link to start.")
		}
		return
	}

	url := strings.TrimSpace(m.Text)
	if url == "" {
		return
	}
	if !urlutil.IsSupported(url) {
		h.reply(m.Chat.ID, "❌ Please send a valid YouTube link!\n\nExample: https://www.youtube.com/watch?v=...")
		return
	}

	cleaned := urlutil.Clean(url)
	if cleaned != url {
		log.Info().Str("url", url).Str("cleaned", cleaned).Msg("url cleaned")
	}
	h.pipe.HandleURL(ctx, m.Chat.ID, cleaned)
}

func (h *Handler) onCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	data := cq.Data
	if cq.Message == nil || !strings.HasPrefix(data, qualityPrefix) {
		_ = h.answerCB(cq, "")
		return
	}
	label := strings.TrimPrefix(data, qualityPrefix)
	_ = h.answerCB(cq, "Quality selected: "+label)

	log.Info().
		Int64("chat", cq.Message.Chat.ID).
		Str("quality", label).
		Msg("quality selected")

	h.pipe.HandleSelection(ctx, cq.Message.Chat.ID, label)
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Warn().Err(err).Int64("chat", chatID).Msg("reply failed")
	}
}

func (h *Handler) answerCB(cq *tgbotapi.CallbackQuery, text string) error {
	_, err := h.bot.Request(tgbotapi.NewCallback(cq.ID, text))
	return err
}

func (h *Handler) startText() string {
	return fmt.Sprintf(
		"🎬 YouTube Video Downloader\n\n"+
			"✅ Multiple quality options\n"+
			"✅ Smart compression for big videos\n"+
			"✅ Telegram limit: %dMB\n\n"+
			"🚀 How to use:\n"+
			"1. Send a YouTube video link\n"+
			"2. Select quality\n"+
			"3. Get the optimized video\n\n"+
			"Commands:\n/start - Start bot\n/help - Help message",
		h.limitMB)
}

func (h *Handler) helpText() string {
	return fmt.Sprintf(
		"📖 Help\n\n"+
			"🔹 Send a YouTube link\n"+
			"🔹 Select a quality option\n"+
			"🔹 The bot sends directly under %dMB and compresses above it\n\n"+
			"If a compressed file is still too large, pick a lower quality.\n"+
			"Issues? /start",
		h.limitMB)
}
