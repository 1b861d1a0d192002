package telegram

import (
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/you/tg-videobot/internal/ytdl"
)

// Messenger renders pipeline output into a chat. Each chat keeps one live
// status message that progress and terminal texts edit in place, so the
// requester sees a single updating line instead of a message flood.
type Messenger struct {
	bot        *tgbotapi.BotAPI
	limitBytes int64

	mu     sync.Mutex
	status map[int64]int // chat → live status message ID
}

func NewMessenger(bot *tgbotapi.BotAPI, limitBytes int64) *Messenger {
	return &Messenger{bot: bot, limitBytes: limitBytes, status: make(map[int64]int)}
}

// RenderProgress is fire-and-forget: the send happens off the caller's
// goroutine so a slow Telegram round-trip never stalls a transfer.
func (m *Messenger) RenderProgress(chatID int64, text string) {
	go m.renderStatus(chatID, text, true)
}

// RenderTerminal posts the final text and retires the status message.
func (m *Messenger) RenderTerminal(chatID int64, text string) {
	m.renderStatus(chatID, text, false)
}

func (m *Messenger) renderStatus(chatID int64, text string, keep bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mid, ok := m.status[chatID]; ok {
		edit := tgbotapi.NewEditMessageText(chatID, mid, text)
		if _, err := m.bot.Send(edit); err != nil {
			log.Warn().Err(err).Int64("chat", chatID).Msg("status edit failed")
		}
		if !keep {
			delete(m.status, chatID)
		}
		return
	}

	sent, err := m.bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		log.Warn().Err(err).Int64("chat", chatID).Msg("status send failed")
		return
	}
	if keep {
		m.status[chatID] = sent.MessageID
	}
}

// RenderVariantMenu replaces the status message with the quality keyboard.
func (m *Messenger) RenderVariantMenu(chatID int64, title, durationDisplay string, variants []ytdl.Variant) {
	var rows [][]tgbotapi.InlineKeyboardButton
	count := 0
	for _, v := range variants {
		if v.Audio {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🎵 Audio Only (MP3)", "quality_audio"),
			))
			continue
		}
		marker := "📹"
		if v.SizeBytes > m.limitBytes {
			marker = "🔧"
		}
		label := fmt.Sprintf("%s %s (%s)", marker, v.Label(), humanSize(v.SizeBytes))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "quality_"+v.Label()),
		))
		count++
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)

	text := fmt.Sprintf(
		"✅ Video ready\n\n📝 %s\n⏱ Duration: %s\n📊 Qualities: %d\n\n📥 Select quality:\n\n📹 = direct send\n🔧 = will be compressed",
		truncate(title, 40), durationDisplay, count)

	m.mu.Lock()
	defer m.mu.Unlock()
	if mid, ok := m.status[chatID]; ok {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, text, markup)
		if _, err := m.bot.Send(edit); err == nil {
			return
		}
		delete(m.status, chatID)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if sent, err := m.bot.Send(msg); err == nil {
		m.status[chatID] = sent.MessageID
	}
}

// DeliverFile uploads the finished artifact, framed as audio or video.
func (m *Messenger) DeliverFile(chatID int64, path string, audio bool, title, caption string) error {
	if audio {
		a := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
		a.Title = title
		a.Caption = caption
		_, err := m.bot.Send(a)
		return err
	}
	v := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
	v.Caption = caption
	v.SupportsStreaming = true
	_, err := m.bot.Send(v)
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func humanSize(size int64) string {
	if size <= 0 {
		return "~unknown"
	}
	f := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if f < 1024 {
			return fmt.Sprintf("%.1f %s", f, unit)
		}
		f /= 1024
	}
	return fmt.Sprintf("%.1f TB", f)
}
