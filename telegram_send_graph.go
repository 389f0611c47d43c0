package main

import (
	"fmt"
	"html"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/pivolan/analysis_server/domain/models"
)

// Telegram recompresses photos; bigger charts go out as documents to stay readable.
const maxSizePhoto = 150000

func (b *TelegramBot) sendReport(chatID int64, report *models.AnalysisReport) {
	b.reply(chatID, report.Summary)

	formattedText := GenerateTable(report.Statistics)
	msg := tgbotapi.NewMessage(chatID, "<pre>\n"+html.EscapeString(formattedText)+"\n</pre>")
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Warn().Err(err).Msg("profile table rejected, sending as file")
	}
	data := tgbotapi.FileBytes{Name: "stats" + time.Now().Format("20060102-150405") + ".md", Bytes: []byte(GenerateTableMarkdown(report.Statistics))}
	doc := tgbotapi.NewDocumentUpload(chatID, data)
	doc.Caption = "column statistics"
	if _, err := b.out.Send(doc); err != nil {
		b.logger.Error().Err(err).Msg("send statistics file failed")
	}

	for _, c := range report.Charts {
		path, err := b.storage.ChartFile(report.FileID, c.ChartType, ".png")
		if err != nil {
			b.logger.Error().Err(err).Msg("chart missing")
			continue
		}
		graph, err := os.ReadFile(path)
		if err != nil {
			b.logger.Error().Err(err).Str("path", path).Msg("read chart failed")
			continue
		}
		b.sendGraphVisualization(graph, c, chatID)
	}
}

// sendGraphVisualization sends one chart with a caption explaining what it shows.
func (b *TelegramBot) sendGraphVisualization(graph []byte, chart models.ChartArtifact, chatID int64) {
	pngFile := tgbotapi.FileBytes{
		Name:  fmt.Sprintf("%s_%s.png", chart.ChartType, time.Now().Format("20060102-150405")),
		Bytes: graph,
	}

	var msg tgbotapi.Chattable
	if len(graph) < maxSizePhoto {
		photo := tgbotapi.NewPhotoUpload(chatID, pngFile)
		photo.Caption = generateVisualDescription(chart)
		msg = photo
	} else {
		doc := tgbotapi.NewDocumentUpload(chatID, pngFile)
		doc.Caption = generateVisualDescription(chart)
		msg = doc
	}

	if _, err := b.out.Send(msg); err != nil {
		b.logger.Error().Err(err).Str("chart_type", string(chart.ChartType)).Msg("send chart failed")
		b.reply(chatID, fmt.Sprintf("Could not send the %s chart: %v", chart.ChartType, err))
	}
}

func generateVisualDescription(chart models.ChartArtifact) string {
	var explain string
	switch chart.ChartType {
	case models.ChartBar:
		explain = "Histogram: how often values fall into each of 20 ranges."
	case models.ChartPie:
		explain = "Share of the most frequent values."
	case models.ChartScatter:
		explain = "Each point is one row; look for trends and clusters."
	case models.ChartHeatmap:
		explain = "Pearson correlation between numeric columns, from -1 (blue) to 1 (red)."
	case models.ChartLine:
		explain = "Values ordered by time."
	}
	return chart.Title + "\n" + explain
}
