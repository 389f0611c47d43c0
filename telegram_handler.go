package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/rs/zerolog"
)

const welcomeText = `Hi! 👋

I analyze tabular data and reply with statistics and charts.

What I can do:
- Analyze CSV, JSON and Excel files (also gzip, lz4 or zip archived)
- Summarize every column: counts, missing values, mean, std, min, max, most frequent value
- Draw a histogram, a pie chart, a scatter plot, a correlation heatmap and a time series
- Summarize a sequence of numbers (just send the numbers in a message)

Examples of number messages:
- "1 2 3 4 5"
- "1,2,3,4,5"
- "1\n2\n3\n4\n5"
`

// sender is the part of *tgbotapi.BotAPI the handlers need.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramBot struct {
	api            *tgbotapi.BotAPI
	out            sender
	analyzer       *Analyzer
	storage        *Storage
	maxUploadBytes int64
	client         *http.Client
	logger         zerolog.Logger
}

func NewTelegramBot(token string, analyzer *Analyzer, storage *Storage, maxUploadBytes int64, logger zerolog.Logger) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramBot{
		api:            api,
		out:            api,
		analyzer:       analyzer,
		storage:        storage,
		maxUploadBytes: maxUploadBytes,
		client:         &http.Client{Timeout: time.Minute},
		logger:         logger.With().Str("component", "telegram").Logger(),
	}, nil
}

// Run polls updates until ctx is done.
func (b *TelegramBot) Run(ctx context.Context) error {
	b.logger.Info().Str("account", b.api.Self.UserName).Msg("bot authorized")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("telegram updates: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			if update.Message.Document != nil {
				go b.handleDocument(ctx, update.Message)
			} else if update.Message.Text != "" {
				go b.handleText(update.Message)
			}
		}
	}
}

func (b *TelegramBot) reply(chatID int64, text string) {
	if _, err := b.out.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message failed")
	}
}

func (b *TelegramBot) handleText(message *tgbotapi.Message) {
	if message.Command() == "start" {
		b.reply(message.Chat.ID, welcomeText)
		return
	}
	numbers := ExtractNumbers(message.Text)
	if len(numbers) > 0 {
		b.reply(message.Chat.ID, FormatStats(AnalyzeNumbers(numbers)))
		return
	}
	b.reply(message.Chat.ID, welcomeText)
}

func (b *TelegramBot) handleDocument(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	log := b.logger.With().Int64("chat_id", chatID).Str("file_name", message.Document.FileName).Logger()

	raw, err := b.download(message.Document.FileID)
	if err != nil {
		log.Error().Err(err).Msg("download failed")
		b.reply(chatID, "Could not download the file. If it is too big, try sending it as an archive.")
		return
	}

	report, err := b.analyzer.Analyze(log.WithContext(ctx), message.Document.FileName, raw)
	if err != nil {
		b.reply(chatID, "❌ "+toAPIError(err).Detail)
		return
	}
	b.sendReport(chatID, report)
}

func (b *TelegramBot) download(fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Get(fileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: status %s", resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, b.maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > b.maxUploadBytes {
		return nil, fmt.Errorf("file is larger than %d bytes", b.maxUploadBytes)
	}
	return raw, nil
}
